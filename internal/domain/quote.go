// Package domain contains core business entities and rules.
package domain

import "strings"

// Quote represents a quotation with its author.
// This is a domain entity - it has no knowledge of external systems.
type Quote struct {
	// ID is the upstream identifier, when the source provides one.
	ID string

	// Text is the quotation itself.
	Text string

	// Author is who said or wrote the quote.
	Author string

	// Tags are categories or themes associated with the quote.
	Tags []string
}

// Validate checks that the quote carries both a text and an author.
func (q *Quote) Validate() error {
	if q == nil {
		return NewValidationError("quote", "is required")
	}

	if strings.TrimSpace(q.Text) == "" {
		return NewValidationError("text", "cannot be empty")
	}

	if strings.TrimSpace(q.Author) == "" {
		return NewValidationError("author", "cannot be empty")
	}

	return nil
}
