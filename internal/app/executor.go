package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
)

// instrumentationName is used for the OpenTelemetry tracer.
const instrumentationName = "github.com/jsamuelsen/readme-quote/internal/app"

// Transactional Run Pattern: Validate → Perform → Verify → Archive → Respond
//
// A run never touches the document until the new content is fully computed
// and checked in memory.
//
// The 5 Steps:
//  1. VALIDATE  - Check configuration-level preconditions
//  2. PERFORM   - Fetch the quote (FETCHING)
//  3. VERIFY    - Read the document and splice the quote in memory (UPDATING)
//  4. ARCHIVE   - Write the document, only if it changed
//  5. RESPOND   - Build the result (DONE)
//
// Any step failing ends the run (FAILED). Nothing is retried or rolled back.

// ExecutionStep represents a step in the transactional pattern.
type ExecutionStep string

const (
	StepValidate ExecutionStep = "validate"
	StepPerform  ExecutionStep = "perform"
	StepVerify   ExecutionStep = "verify"
	StepArchive  ExecutionStep = "archive"
	StepRespond  ExecutionStep = "respond"
)

// RunState is the externally visible state of a run.
type RunState string

const (
	StateFetching RunState = "FETCHING"
	StateUpdating RunState = "UPDATING"
	StateDone     RunState = "DONE"
	StateFailed   RunState = "FAILED"
)

// State maps a step to the run state it belongs to.
func (s ExecutionStep) State() RunState {
	switch s {
	case StepValidate, StepPerform:
		return StateFetching
	case StepVerify, StepArchive:
		return StateUpdating
	default:
		return StateDone
	}
}

// ExecutionError wraps errors with the step where they occurred.
type ExecutionError struct {
	Step    ExecutionStep
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *ExecutionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}

	return e.Message
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *ExecutionError) Unwrap() error {
	return e.Cause
}

func newStepError(step ExecutionStep, message string, cause error) error {
	return &ExecutionError{Step: step, Message: message, Cause: cause}
}

// Executor runs operations using the transactional pattern.
// It traces each step and logs with the logger found in the context.
type Executor struct {
	tracer trace.Tracer
}

// NewExecutor creates a new executor using the global tracer provider.
func NewExecutor() *Executor {
	return &Executor{tracer: otel.Tracer(instrumentationName)}
}

// Operation defines the functions for each step of the transactional pattern.
// Nil steps are skipped.
type Operation[I, P, V, O any] struct {
	// Name identifies this operation for logging and tracing.
	Name string

	// Validate checks inputs and preconditions.
	Validate func(ctx context.Context, input I) error

	// Perform executes the main operation.
	Perform func(ctx context.Context, input I) (P, error)

	// Verify turns the performed value into state that is safe to persist.
	Verify func(ctx context.Context, input I, performed P) (V, error)

	// Archive persists the verified state.
	Archive func(ctx context.Context, input I, verified V) error

	// Respond transforms the result for the caller.
	Respond func(ctx context.Context, input I, verified V) (O, error)

	// Failures overrides the message of the ExecutionError returned for a step.
	Failures map[ExecutionStep]string
}

// failure returns the error message for a failed step.
func (op Operation[I, P, V, O]) failure(step ExecutionStep) string {
	if msg, ok := op.Failures[step]; ok {
		return msg
	}

	return string(step) + " failed"
}

// runStep wraps one step in a span and debug logs. failure is the message of
// the ExecutionError returned when fn fails.
func (e *Executor) runStep(ctx context.Context, logger *slog.Logger, step ExecutionStep, failure string, fn func(context.Context) error) error {
	ctx, span := e.tracer.Start(ctx, string(step),
		trace.WithAttributes(attribute.String("run.state", string(step.State()))))
	defer span.End()

	logger = logger.With(slog.String("step", string(step)))
	logger.DebugContext(ctx, "step started")

	if err := fn(ctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, failure)
		logger.DebugContext(ctx, "step failed", slog.Any("error", err))

		return newStepError(step, failure, err)
	}

	logger.DebugContext(ctx, "step completed")

	return nil
}

// Execute runs an operation through the full transactional pattern.
func Execute[I, P, V, O any](ctx context.Context, exec *Executor, op Operation[I, P, V, O], input I) (O, error) {
	var (
		zero      O
		performed P
		verified  V
		result    O
	)

	start := time.Now()

	ctx, span := exec.tracer.Start(ctx, op.Name)
	defer span.End()

	if sc := span.SpanContext(); sc.HasTraceID() {
		ctx = logging.WithTraceID(ctx, sc.TraceID().String())
	}

	logger := logging.FromContext(ctx).With(slog.String("operation", op.Name))

	steps := []struct {
		step ExecutionStep
		run  func(context.Context) error
	}{
		{StepValidate, func(ctx context.Context) error {
			if op.Validate == nil {
				return nil
			}
			return op.Validate(ctx, input)
		}},
		{StepPerform, func(ctx context.Context) (err error) {
			if op.Perform == nil {
				return nil
			}
			performed, err = op.Perform(ctx, input)
			return err
		}},
		{StepVerify, func(ctx context.Context) (err error) {
			if op.Verify == nil {
				return nil
			}
			verified, err = op.Verify(ctx, input, performed)
			return err
		}},
		{StepArchive, func(ctx context.Context) error {
			if op.Archive == nil {
				return nil
			}
			return op.Archive(ctx, input, verified)
		}},
		{StepRespond, func(ctx context.Context) (err error) {
			if op.Respond == nil {
				return nil
			}
			result, err = op.Respond(ctx, input, verified)
			return err
		}},
	}

	for _, s := range steps {
		if err := exec.runStep(ctx, logger, s.step, op.failure(s.step), s.run); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, string(s.step))

			return zero, err
		}
	}

	logger.DebugContext(ctx, "operation completed",
		slog.Duration("duration", time.Since(start)),
	)

	return result, nil
}

// IsExecutionError checks if an error occurred during execution.
func IsExecutionError(err error) bool {
	var execErr *ExecutionError

	return errors.As(err, &execErr)
}

// GetExecutionStep extracts the step from an execution error.
func GetExecutionStep(err error) (ExecutionStep, bool) {
	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return execErr.Step, true
	}

	return "", false
}
