package domain

import (
	"errors"
	"fmt"
	"io/fs"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNetwork,
		ErrTimeout,
		ErrHTTPStatus,
		ErrParse,
		ErrMissingField,
		ErrMissingMarker,
		ErrDuplicateMarker,
		ErrFileIO,
		ErrValidation,
	}

	for i, a := range sentinels {
		for j, b := range sentinels {
			if i != j {
				assert.NotErrorIs(t, a, b,
					"sentinels should be distinct: %v vs %v", a, b)
			}
		}
	}
}

func TestNetworkError(t *testing.T) {
	cause := syscall.ECONNREFUSED
	err := NewNetworkError("quote-service", cause)

	assert.Equal(t, "quote-service unreachable: "+cause.Error(), err.Error())
	require.ErrorIs(t, err, ErrNetwork)
	require.ErrorIs(t, err, syscall.ECONNREFUSED)

	var netErr *NetworkError
	require.ErrorAs(t, err, &netErr)
	assert.Equal(t, "quote-service", netErr.Service)
}

func TestNetworkError_NoCause(t *testing.T) {
	err := NewNetworkError("quote-service", nil)

	assert.Equal(t, "quote-service unreachable", err.Error())
	assert.True(t, IsNetwork(err))
}

func TestTimeoutError(t *testing.T) {
	tests := []struct {
		name        string
		timeout     time.Duration
		expectedMsg string
	}{
		{
			name:        "with timeout",
			timeout:     10 * time.Second,
			expectedMsg: "quote-service did not respond within 10s",
		},
		{
			name:        "without timeout",
			expectedMsg: "quote-service did not respond in time",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewTimeoutError("quote-service", tt.timeout, errors.New("deadline"))

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrTimeout)
			assert.False(t, IsNetwork(err))
		})
	}
}

func TestHTTPStatusError(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		expectedMsg string
	}{
		{
			name:        "with body",
			status:      500,
			body:        "  internal error \n",
			expectedMsg: "quote-service returned HTTP 500: internal error",
		},
		{
			name:        "without body",
			status:      404,
			expectedMsg: "quote-service returned HTTP 404",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewHTTPStatusError("quote-service", tt.status, tt.body)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrHTTPStatus)

			var statusErr *HTTPStatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, tt.status, statusErr.StatusCode)
		})
	}
}

func TestParseError(t *testing.T) {
	cause := errors.New("unexpected EOF")

	tests := []struct {
		name        string
		reason      string
		cause       error
		expectedMsg string
	}{
		{
			name:        "reason and cause",
			reason:      "invalid JSON",
			cause:       cause,
			expectedMsg: "parsing quote-service response: invalid JSON: unexpected EOF",
		},
		{
			name:        "reason only",
			reason:      "empty array",
			expectedMsg: "parsing quote-service response: empty array",
		},
		{
			name:        "cause only",
			cause:       cause,
			expectedMsg: "parsing quote-service response: unexpected EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewParseError("quote-service", tt.reason, tt.cause)

			assert.Equal(t, tt.expectedMsg, err.Error())
			assert.True(t, IsParse(err))
		})
	}
}

func TestMissingFieldError(t *testing.T) {
	err := NewMissingFieldError("text", []string{"content", "en"})

	assert.Equal(t, "response missing text (looked for content, en)", err.Error())
	require.ErrorIs(t, err, ErrMissingField)

	bare := NewMissingFieldError("author", nil)
	assert.Equal(t, "response missing author", bare.Error())
}

func TestMarkerError(t *testing.T) {
	t.Run("missing", func(t *testing.T) {
		err := NewMissingMarkerError("README.md", "<!--QUOTE-END-->")

		assert.Equal(t, "could not find <!--QUOTE-END--> in README.md", err.Error())
		require.ErrorIs(t, err, ErrMissingMarker)
		assert.NotErrorIs(t, err, ErrDuplicateMarker)
		assert.True(t, IsMarker(err))
	})

	t.Run("duplicate", func(t *testing.T) {
		err := NewDuplicateMarkerError("README.md", "<!--QUOTE-START-->", 2)

		assert.Equal(t, "README.md contains <!--QUOTE-START--> 2 times, expected exactly once", err.Error())
		require.ErrorIs(t, err, ErrDuplicateMarker)
		assert.NotErrorIs(t, err, ErrMissingMarker)
		assert.True(t, IsMarker(err))
	})
}

func TestFileIOError(t *testing.T) {
	err := NewFileIOError("read", "README.md", fs.ErrNotExist)

	assert.Equal(t, "read README.md: file does not exist", err.Error())
	require.ErrorIs(t, err, ErrFileIO)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestValidationError(t *testing.T) {
	tests := []struct {
		name        string
		field       string
		message     string
		expectedMsg string
	}{
		{
			name:        "with field",
			field:       "author",
			message:     "cannot be empty",
			expectedMsg: "validation failed for author: cannot be empty",
		},
		{
			name:        "without field",
			message:     "bad input",
			expectedMsg: "validation failed: bad input",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewValidationError(tt.field, tt.message)

			assert.Equal(t, tt.expectedMsg, err.Error())
			require.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestValidationErrorWithValue(t *testing.T) {
	err := NewValidationErrorWithValue("marker_style", "unknown", "fancy")

	var validation *ValidationError
	require.ErrorAs(t, err, &validation)
	assert.Equal(t, "fancy", validation.Value)
}

func TestIsHelpers(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		isFunc   func(error) bool
		expected bool
	}{
		{"IsNetwork with NetworkError", NewNetworkError("api", nil), IsNetwork, true},
		{"IsNetwork with wrapped", fmt.Errorf("wrapped: %w", ErrNetwork), IsNetwork, true},
		{"IsNetwork with nil", nil, IsNetwork, false},

		{"IsTimeout with TimeoutError", NewTimeoutError("api", time.Second, nil), IsTimeout, true},
		{"IsTimeout with other error", ErrNetwork, IsTimeout, false},

		{"IsHTTPStatus with HTTPStatusError", NewHTTPStatusError("api", 502, ""), IsHTTPStatus, true},
		{"IsHTTPStatus with nil", nil, IsHTTPStatus, false},

		{"IsParse with ParseError", NewParseError("api", "bad", nil), IsParse, true},
		{"IsParse with other error", ErrFileIO, IsParse, false},

		{"IsMissingField with MissingFieldError", NewMissingFieldError("text", nil), IsMissingField, true},
		{"IsMissingField with ParseError", NewParseError("api", "bad", nil), IsMissingField, false},

		{"IsMarker with missing", ErrMissingMarker, IsMarker, true},
		{"IsMarker with duplicate", ErrDuplicateMarker, IsMarker, true},
		{"IsMarker with other error", ErrValidation, IsMarker, false},

		{"IsFileIO with FileIOError", NewFileIOError("write", "x", errors.New("disk full")), IsFileIO, true},
		{"IsFileIO with nil", nil, IsFileIO, false},

		{"IsValidation with ValidationError", NewValidationError("f", "m"), IsValidation, true},
		{"IsValidation with other error", ErrParse, IsValidation, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.isFunc(tt.err))
		})
	}
}

func TestErrorWrappingChain(t *testing.T) {
	t.Run("deeply wrapped MarkerError", func(t *testing.T) {
		original := NewMissingMarkerError("README.md", "<!--QUOTE-START-->")
		wrapped := fmt.Errorf("layer2: %w", fmt.Errorf("layer1: %w", original))

		assert.True(t, IsMarker(wrapped))

		var markerErr *MarkerError
		require.ErrorAs(t, wrapped, &markerErr)
		assert.Equal(t, "README.md", markerErr.Path)
	})

	t.Run("deeply wrapped NetworkError keeps cause", func(t *testing.T) {
		original := NewNetworkError("quote-service", syscall.ECONNRESET)
		wrapped := fmt.Errorf("fetch: %w", original)

		assert.True(t, IsNetwork(wrapped))
		assert.ErrorIs(t, wrapped, syscall.ECONNRESET)
	})
}
