package domain

import (
	"fmt"
	"strings"
)

// Marker presets.
const (
	MarkerStyleComment = "comment"
	MarkerStyleDiv     = "div"
	MarkerStyleCustom  = "custom"
)

// Markers delimit the mutable region of a document.
// The region is everything strictly between Start and the first End that follows it.
type Markers struct {
	Start string
	End   string
}

var (
	// CommentMarkers are invisible when the document is rendered.
	CommentMarkers = Markers{Start: "<!--QUOTE-START-->", End: "<!--QUOTE-END-->"}

	// DivMarkers wrap the quote in a visible HTML block.
	DivMarkers = Markers{Start: `<div id="quote">`, End: "</div>"}
)

// MarkersForStyle resolves a preset name. For MarkerStyleCustom the given start and end are used.
func MarkersForStyle(style, start, end string) (Markers, error) {
	var m Markers

	switch style {
	case MarkerStyleComment, "":
		m = CommentMarkers
	case MarkerStyleDiv:
		m = DivMarkers
	case MarkerStyleCustom:
		m = Markers{Start: start, End: end}
	default:
		return Markers{}, NewValidationErrorWithValue("marker_style", "must be one of: comment div custom", style)
	}

	if err := m.Validate(); err != nil {
		return Markers{}, err
	}

	return m, nil
}

// Validate checks that both markers are set and neither occurs inside the other.
func (m Markers) Validate() error {
	if m.Start == "" {
		return NewValidationError("start_marker", "cannot be empty")
	}

	if m.End == "" {
		return NewValidationError("end_marker", "cannot be empty")
	}

	if m.Start == m.End {
		return NewValidationErrorWithValue("end_marker", "must differ from start marker", m.End)
	}

	// Either marker inside the other would be counted twice when locating the region.
	if strings.Contains(m.End, m.Start) || strings.Contains(m.Start, m.End) {
		return NewValidationErrorWithValue("end_marker", "must not contain or be contained in start marker", m.End)
	}

	return nil
}

// Document is the full text of the target file.
type Document struct {
	Path    string
	Content string
}

// region holds the byte offsets of the inner content between the markers.
type region struct {
	start int
	end   int
}

// locate finds the marker region. The start marker must occur exactly once
// and an end marker must follow it.
func (d *Document) locate(m Markers) (region, error) {
	count := strings.Count(d.Content, m.Start)

	switch {
	case count == 0:
		return region{}, NewMissingMarkerError(d.Path, m.Start)
	case count > 1:
		return region{}, NewDuplicateMarkerError(d.Path, m.Start, count)
	}

	start := strings.Index(d.Content, m.Start) + len(m.Start)

	offset := strings.Index(d.Content[start:], m.End)
	if offset < 0 {
		return region{}, NewMissingMarkerError(d.Path, m.End)
	}

	return region{start: start, end: start + offset}, nil
}

// Region returns the current content between the markers.
func (d *Document) Region(m Markers) (string, error) {
	r, err := d.locate(m)
	if err != nil {
		return "", err
	}

	return d.Content[r.start:r.end], nil
}

// ReplaceRegion returns a copy of the document whose region holds inner.
// Markers and everything outside them are kept byte for byte.
func (d *Document) ReplaceRegion(m Markers, inner string) (*Document, error) {
	r, err := d.locate(m)
	if err != nil {
		return nil, err
	}

	var b strings.Builder
	b.Grow(len(d.Content) - (r.end - r.start) + len(inner))
	b.WriteString(d.Content[:r.start])
	b.WriteString(inner)
	b.WriteString(d.Content[r.end:])

	return &Document{Path: d.Path, Content: b.String()}, nil
}

// VerifySplice confirms that updated differs from original only inside the marker region
// and that the region now holds exactly inner.
func VerifySplice(original, updated *Document, m Markers, inner string) error {
	before, err := original.locate(m)
	if err != nil {
		return err
	}

	after, err := updated.locate(m)
	if err != nil {
		return fmt.Errorf("updated document: %w", err)
	}

	if original.Content[:before.start] != updated.Content[:after.start] {
		return NewValidationError("document", "content before the quote region changed")
	}

	if original.Content[before.end:] != updated.Content[after.end:] {
		return NewValidationError("document", "content after the quote region changed")
	}

	if updated.Content[after.start:after.end] != inner {
		return NewValidationError("document", "quote region does not hold the rendered quote")
	}

	return nil
}
