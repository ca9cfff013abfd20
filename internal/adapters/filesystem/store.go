// Package filesystem implements ports.DocumentStore on the local disk.
package filesystem

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// Store reads and writes documents as UTF-8 text files.
// Writes go through natefinch/atomic: a synced temporary file in the same directory is
// renamed over the target, so readers never observe a half-written document.
type Store struct{}

var _ ports.DocumentStore = (*Store)(nil)

// NewStore creates a document store.
func NewStore() *Store {
	return &Store{}
}

// Read loads the whole file at path.
func (s *Store) Read(ctx context.Context, path string) (*domain.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, domain.NewFileIOError("read", path, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, domain.NewFileIOError("read", path, err)
	}

	logging.FromContext(ctx).Log(ctx, logging.LevelTrace, "read document",
		slog.String("path", path),
		slog.Int("bytes", len(data)))

	return &domain.Document{Path: path, Content: string(data)}, nil
}

// Write replaces the file's content, keeping its permission bits.
// The file must already exist.
func (s *Store) Write(ctx context.Context, doc *domain.Document) error {
	if doc == nil {
		return domain.NewValidationError("document", "is required")
	}

	if err := ctx.Err(); err != nil {
		return domain.NewFileIOError("write", doc.Path, err)
	}

	// Write through symlinks instead of replacing them. A missing file fails here.
	target, err := filepath.EvalSymlinks(doc.Path)
	if err != nil {
		return domain.NewFileIOError("stat", doc.Path, err)
	}

	// atomic.WriteFile copies the existing file's mode onto the replacement.
	if err := atomic.WriteFile(target, strings.NewReader(doc.Content)); err != nil {
		return domain.NewFileIOError("write", doc.Path, err)
	}

	logging.FromContext(ctx).DebugContext(ctx, "wrote document",
		slog.String("path", doc.Path),
		slog.Int("bytes", len(doc.Content)))

	return nil
}
