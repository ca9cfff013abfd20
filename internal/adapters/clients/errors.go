// Package clients provides the instrumented HTTP client used for the quote source.
package clients

import "errors"

// Client errors represent failures in the HTTP client layer.
// They are infrastructure failures that the calling adapter translates to domain errors.
var (
	// ErrRequestFailed wraps transport failures: DNS, refused or reset connections,
	// TLS errors, timeouts and cancellation. The underlying error is kept in the chain.
	ErrRequestFailed = errors.New("request failed")
)
