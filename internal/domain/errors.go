// Package domain contains business logic types and errors.
// Domain errors describe why a run failed, independent of which adapter noticed.
// Every typed error unwraps to its sentinel and, when present, to the underlying cause.
package domain

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Sentinel errors for use with errors.Is().
var (
	// ErrNetwork indicates the quote source could not be reached.
	ErrNetwork = errors.New("network failure")

	// ErrTimeout indicates the quote source did not answer in time.
	ErrTimeout = errors.New("timeout")

	// ErrHTTPStatus indicates the quote source answered with a non-success status.
	ErrHTTPStatus = errors.New("unexpected http status")

	// ErrParse indicates the quote source answered with a body that could not be decoded.
	ErrParse = errors.New("parse failure")

	// ErrMissingField indicates a decoded response lacked a required field.
	ErrMissingField = errors.New("missing field")

	// ErrMissingMarker indicates the document lacks a start or end marker.
	ErrMissingMarker = errors.New("missing marker")

	// ErrDuplicateMarker indicates the document holds more than one start marker.
	ErrDuplicateMarker = errors.New("duplicate marker")

	// ErrFileIO indicates the document could not be read or written.
	ErrFileIO = errors.New("file i/o failure")

	// ErrValidation indicates business rule validation failed.
	ErrValidation = errors.New("validation failed")
)

// NetworkError provides context for transport failures.
type NetworkError struct {
	Service string
	Cause   error
}

// Error implements the error interface.
func (e *NetworkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s unreachable: %v", e.Service, e.Cause)
	}

	return e.Service + " unreachable"
}

// Unwrap returns the sentinel and the cause for errors.Is() and errors.As() support.
func (e *NetworkError) Unwrap() []error {
	return joinCause(ErrNetwork, e.Cause)
}

// NewNetworkError creates a network error with context.
func NewNetworkError(service string, cause error) error {
	return &NetworkError{Service: service, Cause: cause}
}

// TimeoutError provides context for requests that exceeded their deadline.
type TimeoutError struct {
	Service string
	Timeout time.Duration
	Cause   error
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Timeout > 0 {
		return fmt.Sprintf("%s did not respond within %s", e.Service, e.Timeout)
	}

	return e.Service + " did not respond in time"
}

// Unwrap returns the sentinel and the cause.
func (e *TimeoutError) Unwrap() []error {
	return joinCause(ErrTimeout, e.Cause)
}

// NewTimeoutError creates a timeout error with context.
func NewTimeoutError(service string, timeout time.Duration, cause error) error {
	return &TimeoutError{Service: service, Timeout: timeout, Cause: cause}
}

// HTTPStatusError carries the status code of a non-success response.
type HTTPStatusError struct {
	Service    string
	StatusCode int
	Body       string
}

// Error implements the error interface.
func (e *HTTPStatusError) Error() string {
	if body := strings.TrimSpace(e.Body); body != "" {
		return fmt.Sprintf("%s returned HTTP %d: %s", e.Service, e.StatusCode, body)
	}

	return fmt.Sprintf("%s returned HTTP %d", e.Service, e.StatusCode)
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *HTTPStatusError) Unwrap() error {
	return ErrHTTPStatus
}

// NewHTTPStatusError creates a status error. The body excerpt is optional.
func NewHTTPStatusError(service string, statusCode int, body string) error {
	return &HTTPStatusError{Service: service, StatusCode: statusCode, Body: body}
}

// ParseError provides context for undecodable responses.
type ParseError struct {
	Service string
	Reason  string
	Cause   error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	msg := fmt.Sprintf("parsing %s response", e.Service)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}

	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}

	return msg
}

// Unwrap returns the sentinel and the cause.
func (e *ParseError) Unwrap() []error {
	return joinCause(ErrParse, e.Cause)
}

// NewParseError creates a parse error with context.
func NewParseError(service, reason string, cause error) error {
	return &ParseError{Service: service, Reason: reason, Cause: cause}
}

// MissingFieldError names the field that could not be found and the keys that were tried.
type MissingFieldError struct {
	Field      string
	Candidates []string
}

// Error implements the error interface.
func (e *MissingFieldError) Error() string {
	if len(e.Candidates) > 0 {
		return fmt.Sprintf("response missing %s (looked for %s)", e.Field, strings.Join(e.Candidates, ", "))
	}

	return "response missing " + e.Field
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *MissingFieldError) Unwrap() error {
	return ErrMissingField
}

// NewMissingFieldError creates a missing field error.
func NewMissingFieldError(field string, candidates []string) error {
	return &MissingFieldError{Field: field, Candidates: candidates}
}

// MarkerError reports a marker that is absent or ambiguous in a document.
// Count is the number of occurrences found: 0 for missing, more than 1 for duplicates.
type MarkerError struct {
	Path   string
	Marker string
	Count  int
}

// Error implements the error interface.
func (e *MarkerError) Error() string {
	if e.Count > 1 {
		return fmt.Sprintf("%s contains %s %d times, expected exactly once", e.Path, e.Marker, e.Count)
	}

	return fmt.Sprintf("could not find %s in %s", e.Marker, e.Path)
}

// Unwrap returns the sentinel matching the marker problem.
func (e *MarkerError) Unwrap() error {
	if e.Count > 1 {
		return ErrDuplicateMarker
	}

	return ErrMissingMarker
}

// NewMissingMarkerError creates an error for a marker that does not occur.
func NewMissingMarkerError(path, marker string) error {
	return &MarkerError{Path: path, Marker: marker}
}

// NewDuplicateMarkerError creates an error for a marker that occurs more than once.
func NewDuplicateMarkerError(path, marker string, count int) error {
	return &MarkerError{Path: path, Marker: marker, Count: count}
}

// FileIOError provides context for filesystem failures.
type FileIOError struct {
	Op    string
	Path  string
	Cause error
}

// Error implements the error interface.
func (e *FileIOError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Cause)
}

// Unwrap returns the sentinel and the cause.
func (e *FileIOError) Unwrap() []error {
	return joinCause(ErrFileIO, e.Cause)
}

// NewFileIOError creates a file error for the given operation ("read", "write", "stat").
func NewFileIOError(op, path string, cause error) error {
	return &FileIOError{Op: op, Path: path, Cause: cause}
}

// ValidationError provides context for validation errors.
type ValidationError struct {
	Field   string
	Message string
	Value   any
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Field, e.Message)
	}

	return "validation failed: " + e.Message
}

// Unwrap returns the sentinel error for errors.Is() support.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// NewValidationError creates a validation error with context.
func NewValidationError(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// NewValidationErrorWithValue creates a validation error including the invalid value.
func NewValidationErrorWithValue(field, message string, value any) error {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// IsNetwork checks if an error is a network error.
func IsNetwork(err error) bool {
	return errors.Is(err, ErrNetwork)
}

// IsTimeout checks if an error is a timeout error.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrTimeout)
}

// IsHTTPStatus checks if an error is a non-success status error.
func IsHTTPStatus(err error) bool {
	return errors.Is(err, ErrHTTPStatus)
}

// IsParse checks if an error is a parse error.
func IsParse(err error) bool {
	return errors.Is(err, ErrParse)
}

// IsMissingField checks if an error is a missing field error.
func IsMissingField(err error) bool {
	return errors.Is(err, ErrMissingField)
}

// IsMarker checks if an error is a missing or duplicate marker error.
func IsMarker(err error) bool {
	return errors.Is(err, ErrMissingMarker) || errors.Is(err, ErrDuplicateMarker)
}

// IsFileIO checks if an error is a filesystem error.
func IsFileIO(err error) bool {
	return errors.Is(err, ErrFileIO)
}

// IsValidation checks if an error is a validation error.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}

func joinCause(sentinel, cause error) []error {
	if cause == nil {
		return []error{sentinel}
	}

	return []error{sentinel, cause}
}
