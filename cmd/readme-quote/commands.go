package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/readme-quote/internal/app"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// options holds flag values shared by the commands.
type options struct {
	profile    string
	configFile string
	configDir  string

	documentPath string
	baseURL      string
	path         string
	markers      string
	logLevel     string
	dryRun       bool
}

// overrides maps the flags that were set to config keys.
// Unset flags leave file and environment values alone.
func (o *options) overrides(cmd *cobra.Command) map[string]any {
	values := map[string]any{}

	set := func(flag, key string, value any) {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			values[key] = value
		}
	}

	set("file", "document.path", o.documentPath)
	set("base-url", "source.base_url", o.baseURL)
	set("path", "source.path", o.path)
	set("markers", "document.marker_style", o.markers)
	set("log-level", "log.level", o.logLevel)
	set("dry-run", "document.dry_run", o.dryRun)

	if Version != "dev" {
		values["app.version"] = Version
	}

	return values
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "readme-quote",
		Short: "Put a random quote between the markers of a README",
		Long: `readme-quote fetches one random quote from a JSON quote API and writes it
between <!--QUOTE-START--> and <!--QUOTE-END--> in a README.

The file is only written when its content changes. Any failure exits with
status 1 and leaves the file untouched.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUpdate(cmd.Context(), cmd, opts, stdout, stderr)
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.profile, "profile", "", "config profile to load from the config directory (env QUOTE_PROFILE)")
	flags.StringVar(&opts.configFile, "config", "", "explicit config file")
	flags.StringVar(&opts.configDir, "config-dir", "", "directory holding base.yaml and profile files (default \"configs\")")
	flags.StringVarP(&opts.documentPath, "file", "f", "", "document to update (default \"README.md\")")
	flags.StringVar(&opts.baseURL, "base-url", "", "quote API base URL")
	flags.StringVar(&opts.path, "path", "", "quote API path")
	flags.StringVar(&opts.markers, "markers", "", "marker style: comment, div or custom")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")

	cmd.Flags().BoolVarP(&opts.dryRun, "dry-run", "n", false, "compute the update without writing the file")

	cmd.AddCommand(newCheckCommand(opts, stdout, stderr))
	cmd.AddCommand(newVersionCommand(stdout))

	return cmd
}

func newCheckCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify the quote source and the document without writing",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), cmd, opts, stdout, stderr)
		},
	}
}

func newVersionCommand(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(*cobra.Command, []string) {
			fmt.Fprintf(stdout, "readme-quote %s (commit %s, built %s)\n", Version, Commit, BuildTime)
		},
	}
}

func runUpdate(ctx context.Context, cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	rt, err := setup(ctx, cmd, opts, stderr)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	result, err := rt.updater.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(stdout, describeResult(result))

	return nil
}

// describeResult is the one-line confirmation printed on success.
func describeResult(result *app.RunResult) string {
	name := filepath.Base(result.Update.Path)

	switch {
	case !result.Update.Changed:
		return name + " already up to date"
	case result.Update.DryRun:
		return fmt.Sprintf("%s would be updated with quote by %s (dry run)", name, result.Quote.Author)
	default:
		return fmt.Sprintf("updated %s with quote by %s", name, result.Quote.Author)
	}
}

func runCheck(ctx context.Context, cmd *cobra.Command, opts *options, stdout, stderr io.Writer) error {
	rt, err := setup(ctx, cmd, opts, stderr)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	result := rt.registry.CheckAll(ctx)

	failed := 0
	for _, name := range result.Names() {
		check := result.Checks[name]
		if check.Status == ports.HealthStatusHealthy {
			fmt.Fprintf(stdout, "ok    %s (%s)\n", name, check.Duration.Round(time.Millisecond))
			continue
		}

		failed++
		fmt.Fprintf(stdout, "FAIL  %s: %s\n", name, check.Message)
	}

	if !result.Healthy() {
		return fmt.Errorf("%d of %d checks failed", failed, len(result.Checks))
	}

	return nil
}
