package acl

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/readme-quote/internal/adapters/clients"
	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
)

const quotableBody = `{"_id":"abc123","content":"Simplicity is prerequisite for reliability.","author":"Edsger Dijkstra","tags":["technology"]}`

func newTestClient(t *testing.T, baseURL string, timeout time.Duration) *clients.Client {
	t.Helper()

	client, err := clients.New(&clients.Config{
		ServiceName: "test-quote",
		BaseURL:     baseURL,
		Timeout:     timeout,
	})
	require.NoError(t, err)

	return client
}

// setupQuoteClient creates a QuoteClient with a test HTTP server.
func setupQuoteClient(t *testing.T, handler http.HandlerFunc) *QuoteClient {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, server.URL, 5*time.Second),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

func respondJSON(status int, body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

// TestNewQuoteClient_PanicsWithoutClient verifies that NewQuoteClient panics when Client is nil.
func TestNewQuoteClient_PanicsWithoutClient(t *testing.T) {
	assert.Panics(t, func() {
		NewQuoteClient(QuoteClientConfig{
			Client: nil,
			Logger: slog.Default(),
		})
	})
}

// TestNewQuoteClient_Defaults verifies defaults for logger, name, path, fields and body limit.
func TestNewQuoteClient_Defaults(t *testing.T) {
	quoteClient := NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, "http://127.0.0.1", time.Second),
	})

	require.NotNil(t, quoteClient)
	assert.NotNil(t, quoteClient.logger)
	assert.Equal(t, "test-quote", quoteClient.Name())
	assert.Equal(t, DefaultPath, quoteClient.path)
	assert.Equal(t, DefaultFieldMapping(), quoteClient.fields)
	assert.Equal(t, DefaultMaxBodyBytes, quoteClient.maxBodyBytes)
}

func TestQuoteClient_NameOverride(t *testing.T) {
	quoteClient := NewQuoteClient(QuoteClientConfig{
		Client:      newTestClient(t, "http://127.0.0.1", time.Second),
		ServiceName: "zenquotes",
	})

	assert.Equal(t, "zenquotes", quoteClient.Name())
}

func TestFetchQuote_Success(t *testing.T) {
	var gotPath, gotRequestID string

	client := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotRequestID = r.Header.Get(clients.HeaderRequestID)
		respondJSON(http.StatusOK, quotableBody)(w, r)
	})

	ctx := logging.WithRunID(context.Background(), "run-1")

	quote, err := client.FetchQuote(ctx)
	require.NoError(t, err)

	assert.Equal(t, "/random", gotPath)
	assert.Equal(t, "run-1", gotRequestID)
	assert.Equal(t, &domain.Quote{
		ID:     "abc123",
		Text:   "Simplicity is prerequisite for reliability.",
		Author: "Edsger Dijkstra",
		Tags:   []string{"technology"},
	}, quote)
}

func TestFetchQuote_CustomPathAndFields(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/random" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		respondJSON(http.StatusOK, `{"saying":"Less is more.","by":"Mies van der Rohe"}`)(w, r)
	}))
	t.Cleanup(server.Close)

	client := NewQuoteClient(QuoteClientConfig{
		Client: newTestClient(t, server.URL, 5*time.Second),
		Path:   "/api/random",
		Fields: FieldMapping{Text: []string{"saying"}, Author: []string{"by"}},
	})

	quote, err := client.FetchQuote(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Less is more.", quote.Text)
	assert.Equal(t, "Mies van der Rohe", quote.Author)
}

func TestFetchQuote_SingleAttemptOnServerError(t *testing.T) {
	var attempts int32

	client := setupQuoteClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&attempts, 1)
		respondJSON(http.StatusInternalServerError, `{"message":"boom"}`)(w, r)
	})

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)

	assert.True(t, domain.IsHTTPStatus(err))

	var statusErr *domain.HTTPStatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.Equal(t, `{"message":"boom"}`, statusErr.Body)
	assert.Equal(t, "test-quote", statusErr.Service)
	assert.Equal(t, int32(1), atomic.LoadInt32(&attempts))
}

func TestFetchQuote_ServiceUnavailable(t *testing.T) {
	client := setupQuoteClient(t, respondJSON(http.StatusServiceUnavailable, ""))

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsHTTPStatus(err))
	assert.Contains(t, err.Error(), "HTTP 503")
}

func TestFetchQuote_InvalidJSON(t *testing.T) {
	client := setupQuoteClient(t, respondJSON(http.StatusOK, "not valid json"))

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsParse(err))
}

func TestFetchQuote_MissingField(t *testing.T) {
	client := setupQuoteClient(t, respondJSON(http.StatusOK, `{"content":"Orphaned words."}`))

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsMissingField(err))

	var fieldErr *domain.MissingFieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "author", fieldErr.Field)
}

func TestFetchQuote_BodyTooLarge(t *testing.T) {
	server := httptest.NewServer(respondJSON(http.StatusOK, `{"content":"`+strings.Repeat("x", 200)+`","author":"A"}`))
	t.Cleanup(server.Close)

	client := NewQuoteClient(QuoteClientConfig{
		Client:       newTestClient(t, server.URL, 5*time.Second),
		MaxBodyBytes: 64,
	})

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsParse(err))
	assert.Contains(t, err.Error(), "exceeds 64 bytes")
}

func TestFetchQuote_ConnectionRefused(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, url, 5*time.Second)})

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsNetwork(err))
	assert.False(t, domain.IsTimeout(err))
}

func TestFetchQuote_Timeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(server.Close)
	t.Cleanup(func() { close(release) })

	client := NewQuoteClient(QuoteClientConfig{Client: newTestClient(t, server.URL, 50*time.Millisecond)})

	_, err := client.FetchQuote(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsTimeout(err))

	var timeoutErr *domain.TimeoutError
	require.True(t, errors.As(err, &timeoutErr))
	assert.Equal(t, 50*time.Millisecond, timeoutErr.Timeout)
}

func TestQuoteClient_Check_Success(t *testing.T) {
	client := setupQuoteClient(t, respondJSON(http.StatusOK, quotableBody))

	assert.NoError(t, client.Check(context.Background()))
}

func TestQuoteClient_Check_Failure(t *testing.T) {
	client := setupQuoteClient(t, respondJSON(http.StatusBadGateway, ""))

	err := client.Check(context.Background())
	require.Error(t, err)
	assert.True(t, domain.IsHTTPStatus(err))
}
