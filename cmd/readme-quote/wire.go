package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/readme-quote/internal/adapters/clients"
	"github.com/jsamuelsen/readme-quote/internal/adapters/clients/acl"
	"github.com/jsamuelsen/readme-quote/internal/adapters/filesystem"
	"github.com/jsamuelsen/readme-quote/internal/adapters/metrics"
	"github.com/jsamuelsen/readme-quote/internal/app"
	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/config"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
	"github.com/jsamuelsen/readme-quote/internal/platform/telemetry"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// profileEnv selects the config profile when --profile is not given.
const profileEnv = "QUOTE_PROFILE"

// runtime holds everything a command needs, wired from configuration.
type runtime struct {
	cfg       *config.Config
	logger    *slog.Logger
	telemetry *telemetry.Provider
	updater   *app.Updater
	registry  *ports.DefaultHealthRegistry
}

// setup loads configuration and wires the adapters into the application layer.
func setup(ctx context.Context, cmd *cobra.Command, opts *options, stderr io.Writer) (*runtime, error) {
	// 1. Load and validate configuration (fail fast)
	profile := opts.profile
	if profile == "" {
		profile = os.Getenv(profileEnv)
	}

	cfg, err := config.Load(config.LoadOptions{
		Profile:   profile,
		File:      opts.configFile,
		Dir:       opts.configDir,
		Overrides: opts.overrides(cmd),
	})
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	// 2. Initialize logging
	logger := logging.NewWithWriter(&logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: cfg.App.Name,
		Version: cfg.App.Version,
		File: logging.FileConfig{
			Enabled:    cfg.Log.File.Enabled,
			Path:       cfg.Log.File.Path,
			MaxSizeMB:  cfg.Log.File.MaxSizeMB,
			MaxBackups: cfg.Log.File.MaxBackups,
			MaxAgeDays: cfg.Log.File.MaxAgeDays,
			Compress:   cfg.Log.File.Compress,
		},
	}, stderr)
	logging.SetDefault(logger)

	logger.Debug("starting readme-quote",
		slog.String("version", Version),
		slog.String("commit", Commit),
		slog.String("environment", cfg.App.Environment),
		slog.String("profile", profile),
	)

	// 3. Initialize telemetry (noop if disabled)
	telProvider, err := telemetry.New(ctx, &telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		Endpoint:     cfg.Telemetry.Endpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Version:      cfg.App.Version,
		Environment:  cfg.App.Environment,
		SamplingRate: cfg.Telemetry.SamplingRate,
		Insecure:     cfg.Telemetry.Insecure,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	rt := &runtime{cfg: cfg, logger: logger, telemetry: telProvider}

	if err := rt.wire(); err != nil {
		rt.close(ctx)
		return nil, err
	}

	return rt, nil
}

func (rt *runtime) wire() error {
	cfg := rt.cfg

	markers, err := domain.MarkersForStyle(cfg.Document.MarkerStyle, cfg.Document.StartMarker, cfg.Document.EndMarker)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	userAgent := cfg.Client.UserAgent
	if userAgent == "" {
		userAgent = cfg.App.Name + "/" + cfg.App.Version
	}

	// 4. Create HTTP client for the quote source
	httpClient, err := clients.New(&clients.Config{
		BaseURL:     cfg.Source.BaseURL,
		ServiceName: cfg.Source.Name,
		Timeout:     cfg.Client.Timeout,
		Transport:   cfg.Client.Transport,
		UserAgent:   userAgent,
		Logger:      rt.logger,
	})
	if err != nil {
		return fmt.Errorf("creating HTTP client: %w", err)
	}

	// 5. Create quote client adapter (ACL pattern)
	quoteClient := acl.NewQuoteClient(acl.QuoteClientConfig{
		Client:       httpClient,
		ServiceName:  cfg.Source.Name,
		Path:         cfg.Source.Path,
		Fields:       acl.FieldMapping{Text: cfg.Source.TextFields, Author: cfg.Source.AuthorFields},
		MaxBodyBytes: cfg.Source.MaxBodyBytes,
		Logger:       rt.logger,
	})

	// 6. Create the document side
	documents := app.NewDocumentUpdater(app.DocumentUpdaterConfig{
		Store:   filesystem.NewStore(),
		Markers: markers,
		DryRun:  cfg.Document.DryRun,
	})

	// 7. Create the run recorder (gauges are only pushed when enabled)
	recorder := metrics.New(metrics.Config{
		Enabled:        cfg.Metrics.Enabled,
		PushgatewayURL: cfg.Metrics.PushgatewayURL,
		Job:            cfg.Metrics.Job,
		Timeout:        cfg.Metrics.Timeout,
	}, rt.logger)

	// 8. Create the updater (application layer)
	rt.updater = app.NewUpdater(app.UpdaterConfig{
		Source:       quoteClient,
		Documents:    documents,
		DocumentPath: cfg.Document.Path,
		Recorder:     recorder,
		Logger:       rt.logger,
	})

	// 9. Register preflight checks
	rt.registry = ports.NewHealthRegistry()

	for _, checker := range []ports.HealthChecker{
		quoteClient,
		app.NewDocumentChecker(documents, cfg.Document.Path),
	} {
		if err := rt.registry.Register(checker); err != nil {
			return fmt.Errorf("registering %s check: %w", checker.Name(), err)
		}
	}

	return nil
}

// close flushes telemetry. It runs even when ctx was cancelled by a signal.
func (rt *runtime) close(ctx context.Context) {
	if err := rt.telemetry.Shutdown(context.WithoutCancel(ctx)); err != nil {
		rt.logger.Error("telemetry shutdown error", slog.Any("error", err))
	}
}
