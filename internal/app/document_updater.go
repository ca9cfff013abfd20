package app

import (
	"context"
	"log/slog"
	"strings"

	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// DocumentUpdaterConfig contains configuration for the document updater.
type DocumentUpdaterConfig struct {
	// Store reads and writes the document. Required.
	Store ports.DocumentStore

	// Markers delimit the quote region. Defaults to domain.CommentMarkers.
	Markers domain.Markers

	// DryRun computes the new content without writing it.
	DryRun bool
}

// DocumentUpdater rewrites the quote region of a document.
//
// Policy: when the new content equals the current content the write is skipped,
// so an unchanged quote never touches the file's modification time.
type DocumentUpdater struct {
	store   ports.DocumentStore
	markers domain.Markers
	dryRun  bool
}

// Plan is a computed but not yet applied document update.
type Plan struct {
	Quote    *domain.Quote
	Original *domain.Document
	Updated  *domain.Document
	Changed  bool
}

// UpdateResult reports what an update did to the document.
type UpdateResult struct {
	Path    string
	Changed bool
	Written bool
	DryRun  bool
}

// NewDocumentUpdater creates a document updater.
// Panics if Store is nil or the markers are invalid.
func NewDocumentUpdater(cfg DocumentUpdaterConfig) *DocumentUpdater {
	if cfg.Store == nil {
		panic("DocumentUpdater: Store is required")
	}

	markers := cfg.Markers
	if markers == (domain.Markers{}) {
		markers = domain.CommentMarkers
	}

	if err := markers.Validate(); err != nil {
		panic("DocumentUpdater: " + err.Error())
	}

	return &DocumentUpdater{
		store:   cfg.Store,
		markers: markers,
		dryRun:  cfg.DryRun,
	}
}

// Markers returns the markers delimiting the quote region.
func (u *DocumentUpdater) Markers() domain.Markers {
	return u.markers
}

// DryRun reports whether Apply skips writing.
func (u *DocumentUpdater) DryRun() bool {
	return u.dryRun
}

// Update plans and applies the update in one call.
func (u *DocumentUpdater) Update(ctx context.Context, quote *domain.Quote, path string) (*UpdateResult, error) {
	plan, err := u.Plan(ctx, quote, path)
	if err != nil {
		return nil, err
	}

	return u.Apply(ctx, plan)
}

// Plan reads the document and splices the quote into it in memory.
// The document on disk is never modified.
func (u *DocumentUpdater) Plan(ctx context.Context, quote *domain.Quote, path string) (*Plan, error) {
	if err := u.ValidateQuote(quote); err != nil {
		return nil, err
	}

	original, err := u.store.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	inner := domain.RegionContent(quote)

	updated, err := original.ReplaceRegion(u.markers, inner)
	if err != nil {
		return nil, err
	}

	if err := domain.VerifySplice(original, updated, u.markers, inner); err != nil {
		return nil, err
	}

	return &Plan{
		Quote:    quote,
		Original: original,
		Updated:  updated,
		Changed:  updated.Content != original.Content,
	}, nil
}

// Apply writes a planned update unless it is unchanged or this is a dry run.
func (u *DocumentUpdater) Apply(ctx context.Context, plan *Plan) (*UpdateResult, error) {
	if plan == nil || plan.Updated == nil {
		return nil, domain.NewValidationError("plan", "is required")
	}

	logger := logging.FromContext(ctx).With(slog.String("path", plan.Updated.Path))
	result := &UpdateResult{
		Path:    plan.Updated.Path,
		Changed: plan.Changed,
		DryRun:  u.dryRun,
	}

	switch {
	case !plan.Changed:
		logger.InfoContext(ctx, "no changes to document")

		return result, nil

	case u.dryRun:
		logger.InfoContext(ctx, "dry run, document not written")

		return result, nil
	}

	if err := u.store.Write(ctx, plan.Updated); err != nil {
		return nil, err
	}

	result.Written = true
	logger.InfoContext(ctx, "document updated")

	return result, nil
}

// ValidateQuote checks the quote can be placed between the markers.
// A quote containing a marker would change where the region ends on the next run.
func (u *DocumentUpdater) ValidateQuote(quote *domain.Quote) error {
	if err := quote.Validate(); err != nil {
		return err
	}

	for _, marker := range []string{u.markers.Start, u.markers.End} {
		if strings.Contains(quote.Text, marker) || strings.Contains(quote.Author, marker) {
			return domain.NewValidationErrorWithValue("quote", "must not contain a region marker", marker)
		}
	}

	return nil
}
