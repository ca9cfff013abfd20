package acl

import (
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/jsamuelsen/readme-quote/internal/adapters/clients"
	"github.com/jsamuelsen/readme-quote/internal/domain"
)

// bodyExcerptLimit bounds how much of an error response ends up in the error message.
const bodyExcerptLimit = 256

// MapHTTPError maps an HTTP response or client failure to a domain error.
// This function handles:
//   - Client-level errors: timeouts become TimeoutError, everything else NetworkError
//   - Non-2xx status codes: HTTPStatusError with a short body excerpt
//
// Returns nil for 2xx responses.
func MapHTTPError(resp *http.Response, clientErr error, serviceName string, timeout time.Duration) error {
	if clientErr != nil {
		return mapClientError(clientErr, serviceName, timeout)
	}

	if resp == nil {
		return domain.NewNetworkError(serviceName, errors.New("no response received"))
	}

	if resp.StatusCode >= http.StatusOK && resp.StatusCode < http.StatusMultipleChoices {
		return nil
	}

	var body []byte
	if resp.Body != nil {
		body, _ = io.ReadAll(io.LimitReader(resp.Body, bodyExcerptLimit*4))
	}

	return domain.NewHTTPStatusError(serviceName, resp.StatusCode, excerpt(body, bodyExcerptLimit))
}

// mapClientError translates client-level errors to domain errors.
func mapClientError(err error, serviceName string, timeout time.Duration) error {
	if clients.IsTimeout(err) {
		return domain.NewTimeoutError(serviceName, timeout, err)
	}

	return domain.NewNetworkError(serviceName, err)
}
