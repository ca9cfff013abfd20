package app

import (
	"context"

	"github.com/jsamuelsen/readme-quote/internal/ports"
)

// DocumentChecker verifies the document is readable and its quote region can be found.
// It never writes.
type DocumentChecker struct {
	documents *DocumentUpdater
	path      string
}

var _ ports.HealthChecker = (*DocumentChecker)(nil)

// NewDocumentChecker creates a checker for the document at path.
func NewDocumentChecker(documents *DocumentUpdater, path string) *DocumentChecker {
	return &DocumentChecker{documents: documents, path: path}
}

// Name returns the health check name.
func (c *DocumentChecker) Name() string {
	return "document"
}

// Check reads the document and locates the region.
func (c *DocumentChecker) Check(ctx context.Context) error {
	doc, err := c.documents.store.Read(ctx, c.path)
	if err != nil {
		return err
	}

	_, err = doc.Region(c.documents.markers)

	return err
}
