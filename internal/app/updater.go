// Package app contains the use cases that orchestrate a run.
package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// UpdaterConfig contains configuration for the updater.
type UpdaterConfig struct {
	// Source provides the quote. Required.
	Source ports.QuoteSource

	// Documents rewrites the document. Required.
	Documents *DocumentUpdater

	// DocumentPath is the file to update.
	DocumentPath string

	// Recorder receives the outcome of every run. Optional.
	Recorder ports.RunRecorder

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger
}

// Updater fetches a quote and writes it into the document.
// It depends on port interfaces, not concrete implementations.
type Updater struct {
	source    ports.QuoteSource
	documents *DocumentUpdater
	path      string
	recorder  ports.RunRecorder
	logger    *slog.Logger
	executor  *Executor
	now       func() time.Time
}

// RunResult is the outcome of a successful run.
type RunResult struct {
	RunID    string
	Quote    *domain.Quote
	Update   *UpdateResult
	Duration time.Duration
}

// runInput is what the run pipeline is given.
type runInput struct {
	path string
}

// pendingRun carries state from the verify step to archive and respond.
type pendingRun struct {
	plan   *Plan
	update *UpdateResult
}

// NewUpdater creates an updater with the provided dependencies.
// Panics if Source or Documents is nil.
func NewUpdater(cfg UpdaterConfig) *Updater {
	if cfg.Source == nil {
		panic("Updater: Source is required")
	}

	if cfg.Documents == nil {
		panic("Updater: Documents is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Updater{
		source:    cfg.Source,
		documents: cfg.Documents,
		path:      cfg.DocumentPath,
		recorder:  cfg.Recorder,
		logger:    logger,
		executor:  NewExecutor(),
		now:       time.Now,
	}
}

// Run performs one update: fetch, splice, write if changed.
// The run ID is taken from the context or generated.
// Every failure is returned as an *ExecutionError naming the failed step.
func (u *Updater) Run(ctx context.Context) (*RunResult, error) {
	start := u.now()

	runID := logging.RunIDFromContext(ctx)
	if runID == "" {
		runID = uuid.NewString()
	}

	ctx = logging.WithRunID(logging.WithContext(ctx, u.logger), runID)
	logger := logging.FromContext(ctx)

	op := Operation[runInput, *domain.Quote, *pendingRun, *RunResult]{
		Name: "update-readme",
		Failures: map[ExecutionStep]string{
			StepValidate: "invalid configuration",
			StepPerform:  "fetching quote",
			StepVerify:   "updating document",
			StepArchive:  "writing document",
		},
		Validate: func(_ context.Context, in runInput) error {
			if in.path == "" {
				return domain.NewValidationError("document.path", "is required")
			}

			return u.documents.Markers().Validate()
		},
		Perform: func(ctx context.Context, _ runInput) (*domain.Quote, error) {
			quote, err := u.source.FetchQuote(ctx)
			if err != nil {
				return nil, err
			}

			logger.InfoContext(ctx, "fetched quote",
				slog.String("quote_id", quote.ID),
				slog.String("author", quote.Author),
			)

			return quote, nil
		},
		Verify: func(ctx context.Context, in runInput, quote *domain.Quote) (*pendingRun, error) {
			plan, err := u.documents.Plan(ctx, quote, in.path)
			if err != nil {
				return nil, err
			}

			return &pendingRun{plan: plan}, nil
		},
		Archive: func(ctx context.Context, _ runInput, pending *pendingRun) error {
			update, err := u.documents.Apply(ctx, pending.plan)
			if err != nil {
				return err
			}

			pending.update = update

			return nil
		},
		Respond: func(_ context.Context, _ runInput, pending *pendingRun) (*RunResult, error) {
			return &RunResult{
				RunID:    runID,
				Quote:    pending.plan.Quote,
				Update:   pending.update,
				Duration: u.now().Sub(start),
			}, nil
		},
	}

	logger.DebugContext(ctx, "run started",
		slog.String("path", u.path),
		slog.Bool("dry_run", u.documents.DryRun()),
	)

	result, err := Execute(ctx, u.executor, op, runInput{path: u.path})
	u.record(ctx, start, result, err)

	if err != nil {
		step, _ := GetExecutionStep(err)
		logger.ErrorContext(ctx, "run failed",
			slog.String("step", string(step)),
			slog.String("state", string(StateFailed)),
			slog.Any("error", err),
		)

		return nil, err
	}

	logger.InfoContext(ctx, "run completed",
		slog.Bool("changed", result.Update.Changed),
		slog.Bool("written", result.Update.Written),
		slog.Duration("duration", result.Duration),
	)

	return result, nil
}

// record hands the outcome to the recorder, if any.
func (u *Updater) record(ctx context.Context, start time.Time, result *RunResult, err error) {
	if u.recorder == nil {
		return
	}

	finished := u.now()
	report := ports.RunReport{
		Succeeded:  err == nil,
		Duration:   finished.Sub(start),
		FinishedAt: finished,
	}

	if err != nil {
		step, _ := GetExecutionStep(err)
		report.FailedStep = string(step)
	}

	if result != nil && result.Update != nil {
		report.Changed = result.Update.Changed
		report.Written = result.Update.Written
	}

	u.recorder.RecordRun(ctx, report)
}
