package acl

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/jsamuelsen/readme-quote/internal/adapters/clients"
	"github.com/jsamuelsen/readme-quote/internal/domain"
	"github.com/jsamuelsen/readme-quote/internal/platform/logging"
	"github.com/jsamuelsen/readme-quote/internal/ports"
)

const (
	// DefaultPath is the random-quote endpoint of quotable.io.
	DefaultPath = "/random"

	// DefaultMaxBodyBytes caps how much of a response is read.
	DefaultMaxBodyBytes int64 = 1 << 20
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API endpoint.
	Client *clients.Client

	// ServiceName names the source in errors and health results.
	// Defaults to the client's service name.
	ServiceName string

	// Path is requested relative to the client's BaseURL. Defaults to DefaultPath.
	Path string

	// Fields maps response keys to quote fields. Empty lists use DefaultFieldMapping.
	Fields FieldMapping

	// MaxBodyBytes caps the response size. Defaults to DefaultMaxBodyBytes.
	MaxBodyBytes int64

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteSource against a JSON quote API.
// It translates whatever shape the API returns into a domain.Quote and
// maps every failure to a domain error.
type QuoteClient struct {
	client       *clients.Client
	serviceName  string
	path         string
	fields       FieldMapping
	maxBodyBytes int64
	logger       *slog.Logger
}

var (
	_ ports.QuoteSource   = (*QuoteClient)(nil)
	_ ports.HealthChecker = (*QuoteClient)(nil)
)

// NewQuoteClient creates a new quote client adapter.
// Panics if Client is nil. Defaults logger to slog.Default() if nil.
func NewQuoteClient(cfg QuoteClientConfig) *QuoteClient {
	if cfg.Client == nil {
		panic("QuoteClient: Client is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = cfg.Client.ServiceName()
	}

	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &QuoteClient{
		client:       cfg.Client,
		serviceName:  serviceName,
		path:         path,
		fields:       cfg.Fields.withDefaults(),
		maxBodyBytes: maxBodyBytes,
		logger:       logger.With(slog.String("component", "acl.QuoteClient")),
	}
}

// FetchQuote fetches one random quote. It makes a single attempt.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchQuote(ctx context.Context) (*domain.Quote, error) {
	logger := logging.FromContext(ctx)
	logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", c.path))
	logger.DebugContext(ctx, "fetching random quote", slog.String("source", c.serviceName))

	resp, err := c.client.Get(ctx, c.path)
	if err != nil {
		return nil, MapHTTPError(nil, err, c.serviceName, c.client.Timeout())
	}
	defer func() { _ = resp.Body.Close() }()

	logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", c.path),
		slog.Int("status", resp.StatusCode))

	if err := MapHTTPError(resp, nil, c.serviceName, c.client.Timeout()); err != nil {
		logger.WarnContext(ctx, "quote API error", slog.Int("status_code", resp.StatusCode))
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodyBytes+1))
	if err != nil {
		return nil, MapHTTPError(nil, err, c.serviceName, c.client.Timeout())
	}

	if int64(len(body)) > c.maxBodyBytes {
		return nil, domain.NewParseError(c.serviceName,
			fmt.Sprintf("response body exceeds %d bytes", c.maxBodyBytes), nil)
	}

	quote, err := Translate(c.serviceName, body, c.fields)
	if err != nil {
		return nil, err
	}

	logger.Log(ctx, logging.LevelTrace, "translated external response to domain",
		slog.String("quote_id", quote.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return c.serviceName
}

// Check fetches and parses one quote without using it.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	_, err := c.FetchQuote(ctx)

	return err
}
