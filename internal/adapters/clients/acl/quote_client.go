// Package acl implements the Anti-Corruption Layer pattern for external services.
// ACL adapters translate between external API models and domain models,
// protecting the domain from external system changes.
package acl

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/quotify-desktop/quotify/internal/adapters/clients"
	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/platform/logging"
)

// QuoteClientConfig contains configuration for the quote client.
type QuoteClientConfig struct {
	// Client is the HTTP client to use for requests.
	// The client's BaseURL should be set to the quote API endpoint.
	Client *clients.Client

	// Logger is the structured logger.
	Logger *slog.Logger
}

// QuoteClient implements ports.QuoteSource against the dummyjson quotes
// API. It translates the external wire format to domain types so the
// rest of the application never sees the upstream's field names.
type QuoteClient struct {
	client *clients.Client
	logger *slog.Logger
}

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

	return &QuoteClient{
		client: cfg.Client,
		logger: logger,
	}
}

// quoteResponse is the external DTO for a single quote.
// This is an internal type - never exposed outside the ACL.
type quoteResponse struct {
	ID     int64  `json:"id"`
	Quote  string `json:"quote"`
	Author string `json:"author"`
}

// quoteListResponse is the external DTO for the paginated list endpoint.
type quoteListResponse struct {
	Quotes []quoteResponse `json:"quotes"`
	Total  int64           `json:"total"`
	Skip   int64           `json:"skip"`
	Limit  int64           `json:"limit"`
}

// FetchRandom fetches a random quote from the external API.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchRandom(ctx context.Context) (*domain.Quote, error) {
	const path = "/quotes/random"
	c.logger.Log(ctx, logging.LevelTrace, "starting request", slog.String("path", path))
	c.logger.DebugContext(ctx, "fetching random quote")

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, domain.NewUnavailableError("quote-service", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	return c.parseQuoteResponse(ctx, resp.Body)
}

// FetchByID fetches a specific quote by its identifier.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchByID(ctx context.Context, id int64) (*domain.Quote, error) {
	path := "/quotes/" + strconv.FormatInt(id, 10)
	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.Int64("quote_id", id))
	c.logger.DebugContext(ctx, "fetching quote by ID", slog.Int64("quote_id", id))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, domain.NewUnavailableError("quote-service", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode == http.StatusNotFound {
		return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	return c.parseQuoteResponse(ctx, resp.Body)
}

// FetchBatch fetches up to limit quotes in one call.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error) {
	list, err := c.fetchList(ctx, limit)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.Quote, 0, len(list.Quotes))
	for i := range list.Quotes {
		quotes = append(quotes, *c.translateToDomain(&list.Quotes[i]))
	}

	c.logger.DebugContext(ctx, "fetched quote batch",
		slog.Int("requested", limit),
		slog.Int("received", len(quotes)))

	return quotes, nil
}

// FetchTotalCount reports how many quotes the source holds. The list
// endpoint has no dedicated count operation, so a minimal page is
// requested and its total field read.
// Implements ports.QuoteSource.
func (c *QuoteClient) FetchTotalCount(ctx context.Context) (int64, error) {
	list, err := c.fetchList(ctx, 1)
	if err != nil {
		return 0, err
	}

	return list.Total, nil
}

// fetchList calls the paginated list endpoint with the given page size.
func (c *QuoteClient) fetchList(ctx context.Context, limit int) (*quoteListResponse, error) {
	path := "/quotes?limit=" + strconv.Itoa(limit)
	c.logger.Log(ctx, logging.LevelTrace, "starting request",
		slog.String("path", path),
		slog.Int("limit", limit))

	resp, err := c.client.Get(ctx, path)
	if err != nil {
		return nil, domain.NewUnavailableError("quote-service", err.Error())
	}
	defer func() { _ = resp.Body.Close() }()

	c.logger.Log(ctx, logging.LevelTrace, "request complete",
		slog.String("path", path),
		slog.Int("status", resp.StatusCode))

	if resp.StatusCode != http.StatusOK {
		return nil, c.handleErrorResponse(resp)
	}

	var list quoteListResponse

	err = json.NewDecoder(resp.Body).Decode(&list)
	if err != nil {
		return nil, fmt.Errorf("decoding quote list response: %w", err)
	}

	return &list, nil
}

// parseQuoteResponse reads and translates the external DTO to a domain Quote.
// This is the core ACL translation function.
func (c *QuoteClient) parseQuoteResponse(ctx context.Context, body io.Reader) (*domain.Quote, error) {
	var external quoteResponse

	err := json.NewDecoder(body).Decode(&external)
	if err != nil {
		return nil, fmt.Errorf("decoding quote response: %w", err)
	}

	// Translate external DTO to domain entity
	quote := c.translateToDomain(&external)

	c.logger.Log(ctx, logging.LevelTrace, "translated external DTO to domain",
		slog.Int64("quote_id", quote.ID),
		slog.String("author", quote.Author))

	return quote, nil
}

// translateToDomain converts the external API response to a domain Quote.
// This isolates the domain from external API changes.
func (c *QuoteClient) translateToDomain(ext *quoteResponse) *domain.Quote {
	return &domain.Quote{
		ID:     ext.ID,
		Text:   ext.Quote,
		Author: ext.Author,
		Tags:   []string{},
	}
}

// handleErrorResponse converts HTTP error responses to domain errors.
func (c *QuoteClient) handleErrorResponse(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)

	c.logger.Warn("quote API error",
		slog.Int("status_code", resp.StatusCode),
		slog.String("body", string(body)),
	)

	switch resp.StatusCode {
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusServiceUnavailable, http.StatusBadGateway, http.StatusGatewayTimeout:
		return domain.NewUnavailableError("quote-service", fmt.Sprintf("HTTP %d", resp.StatusCode))
	default:
		return domain.NewUnavailableError("quote-service", fmt.Sprintf("unexpected HTTP %d", resp.StatusCode))
	}
}

// Name returns the health check name for this client.
// Implements ports.HealthChecker.
func (c *QuoteClient) Name() string {
	return "quote-service"
}

// Check performs a health check by calling the API's smallest read.
// Implements ports.HealthChecker.
func (c *QuoteClient) Check(ctx context.Context) error {
	resp, err := c.client.Get(ctx, "/quotes?limit=1")
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("quote API returned status %d", resp.StatusCode)
	}

	return nil
}
