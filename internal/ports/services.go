// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNetwork, ErrFileIO, etc.)
//   - Keep interfaces small and focused (Interface Segregation Principle)
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/readme-quote/internal/domain"
)

// QuoteSource fetches one quote from an external service.
//
// Implementations should:
//   - Respect context deadlines and cancellation
//   - Map transport failures to domain.ErrNetwork or domain.ErrTimeout
//   - Map non-success responses to domain.ErrHTTPStatus
//   - Return domain.ErrParse or domain.ErrMissingField for unusable bodies
type QuoteSource interface {
	FetchQuote(ctx context.Context) (*domain.Quote, error)
}

// DocumentStore reads and writes the target document.
// Failures are reported as domain.ErrFileIO.
type DocumentStore interface {
	// Read loads the whole document at path.
	Read(ctx context.Context, path string) (*domain.Document, error)

	// Write replaces the document's content on disk.
	Write(ctx context.Context, doc *domain.Document) error
}

// RunReport summarizes one updater run for metrics.
type RunReport struct {
	// Succeeded is true when the run finished without error.
	Succeeded bool

	// Changed is true when the document content differed from the new quote block.
	Changed bool

	// Written is true when the document was written to disk.
	Written bool

	// FailedStep names the step that failed, empty on success.
	FailedStep string

	// Duration is the wall-clock time of the run.
	Duration time.Duration

	// FinishedAt is when the run ended.
	FinishedAt time.Time
}

// RunRecorder receives the outcome of every run.
type RunRecorder interface {
	RecordRun(ctx context.Context, report RunReport)
}
