package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/quotify-desktop/quotify/internal/adapters/http/dto"
	"github.com/quotify-desktop/quotify/internal/adapters/http/middleware"
	"github.com/quotify-desktop/quotify/internal/app"
	"github.com/quotify-desktop/quotify/internal/domain"
)

// QuoteHandlerConfig contains configuration for the quote handler.
type QuoteHandlerConfig struct {
	// Cache is the quote cache engine all endpoints delegate to.
	Cache *app.QuoteCache

	// DefaultPreloadLimit is the batch size used when a preload request
	// does not specify one.
	DefaultPreloadLimit int

	// DefaultMaxAge is the staleness threshold used when the stale check
	// does not specify one.
	DefaultMaxAge time.Duration
}

// QuoteHandler handles quote and favorites HTTP endpoints. Every route
// is user-scoped; the user ID is extracted by the RequireUser
// middleware before these handlers run.
type QuoteHandler struct {
	cache        *app.QuoteCache
	preloadLimit int
	maxAge       time.Duration
}

// NewQuoteHandler creates a new quote handler.
func NewQuoteHandler(cfg QuoteHandlerConfig) *QuoteHandler {
	if cfg.Cache == nil {
		panic("QuoteHandler: Cache is required")
	}

	return &QuoteHandler{
		cache:        cfg.Cache,
		preloadLimit: cfg.DefaultPreloadLimit,
		maxAge:       cfg.DefaultMaxAge,
	}
}

// QuoteResponse is the HTTP response structure for a quote.
type QuoteResponse struct {
	ID     int64    `json:"id"`
	Text   string   `json:"text"`
	Author string   `json:"author"`
	Tags   []string `json:"tags,omitempty"`
}

// toQuoteResponse converts a domain Quote to an HTTP response.
func toQuoteResponse(q *domain.Quote) *QuoteResponse {
	return &QuoteResponse{
		ID:     q.ID,
		Text:   q.Text,
		Author: q.Author,
		Tags:   q.Tags,
	}
}

// QuoteListResponse is the HTTP response structure for a list of quotes.
type QuoteListResponse struct {
	Quotes []QuoteResponse `json:"quotes"`
	Count  int             `json:"count"`
}

func toQuoteListResponse(quotes []domain.Quote) *QuoteListResponse {
	items := make([]QuoteResponse, 0, len(quotes))
	for i := range quotes {
		items = append(items, *toQuoteResponse(&quotes[i]))
	}

	return &QuoteListResponse{
		Quotes: items,
		Count:  len(items),
	}
}

// GetQuoteOfDay handles GET /api/v1/quotes/today
// Returns the deterministic quote of the current calendar day, from
// cache when present, falling back to the local corpus offline.
func (h *QuoteHandler) GetQuoteOfDay(c *gin.Context) {
	quote, err := h.cache.GetQuoteOfDay(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// GetRandomQuote handles GET /api/v1/quotes/random
// Returns the cached random quote, fetching one only when nothing is
// cached yet.
func (h *QuoteHandler) GetRandomQuote(c *gin.Context) {
	quote, err := h.cache.GetRandomQuote(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RefreshRandomQuote handles POST /api/v1/quotes/random/refresh
// Forces a fresh random pick, replacing whatever is cached.
func (h *QuoteHandler) RefreshRandomQuote(c *gin.Context) {
	quote, err := h.cache.RefreshRandomQuote(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// PreloadRequest is the body for the bulk preload endpoint.
type PreloadRequest struct {
	Limit int  `json:"limit" validate:"omitempty,min=1,max=500"`
	Force bool `json:"force"`
}

// PreloadQuotes handles POST /api/v1/quotes/preload
// Fetches a batch of quotes for offline use. The body is optional;
// defaults come from configuration.
func (h *QuoteHandler) PreloadQuotes(c *gin.Context) {
	req := PreloadRequest{}
	if c.Request.ContentLength > 0 {
		if err := dto.BindAndValidate(c, &req); err != nil {
			details := dto.ValidationErrors(err)
			c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
				dto.ErrorCodeValidation,
				"invalid preload request",
				details,
			))

			return
		}
	}

	limit := req.Limit
	if limit == 0 {
		limit = h.preloadLimit
	}

	quotes, err := h.cache.GetAndCacheQuotes(c.Request.Context(), middleware.GetUserID(c), limit, req.Force)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteListResponse(quotes))
}

// staleResponse is the response structure for the cache staleness check.
type staleResponse struct {
	Stale  bool   `json:"stale"`
	MaxAge string `json:"maxAge"`
}

// CacheStale handles GET /api/v1/quotes/cache/stale?max_age=24h
// Reports whether the bulk cache is older than max_age (or the
// configured default) and should be refreshed.
func (h *QuoteHandler) CacheStale(c *gin.Context) {
	maxAge := h.maxAge

	if raw := c.Query("max_age"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
				dto.ErrorCodeBadRequest,
				"max_age must be a positive duration",
			))

			return
		}

		maxAge = parsed
	}

	stale, err := h.cache.ShouldRefreshQuotesCache(c.Request.Context(), middleware.GetUserID(c), maxAge)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, staleResponse{
		Stale:  stale,
		MaxAge: maxAge.String(),
	})
}

// GetFavorites handles GET /api/v1/favorites
// Returns the user's favorite quotes, resolved against local storage.
func (h *QuoteHandler) GetFavorites(c *gin.Context) {
	quotes, err := h.cache.GetFavorites(c.Request.Context(), middleware.GetUserID(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteListResponse(quotes))
}

// FavoriteRequest is the body for adding a favorite. The quote travels
// with the request so favoriting works offline.
type FavoriteRequest struct {
	Text   string   `json:"text"   validate:"required,notempty"`
	Author string   `json:"author" validate:"required,notempty"`
	Tags   []string `json:"tags"`
}

// AddFavorite handles PUT /api/v1/favorites/:id
// Stores the quote locally and marks it as a favorite. Idempotent.
func (h *QuoteHandler) AddFavorite(c *gin.Context) {
	id, ok := h.quoteIDParam(c)
	if !ok {
		return
	}

	var req FavoriteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		details := dto.ValidationErrors(err)
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithDetails(
			dto.ErrorCodeValidation,
			"invalid favorite request",
			details,
		))

		return
	}

	quote := &domain.Quote{
		ID:     id,
		Text:   req.Text,
		Author: req.Author,
		Tags:   req.Tags,
	}

	err := h.cache.AddToFavorites(c.Request.Context(), middleware.GetUserID(c), quote)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, toQuoteResponse(quote))
}

// RemoveFavorite handles DELETE /api/v1/favorites/:id
// Unmarks a favorite. Removing an absent favorite succeeds.
func (h *QuoteHandler) RemoveFavorite(c *gin.Context) {
	id, ok := h.quoteIDParam(c)
	if !ok {
		return
	}

	err := h.cache.RemoveFromFavorites(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// favoriteStatusResponse is the response structure for the favorite check.
type favoriteStatusResponse struct {
	QuoteID  int64 `json:"quoteId"`
	Favorite bool  `json:"favorite"`
}

// CheckFavorite handles GET /api/v1/favorites/:id
// Reports whether the quote is marked as a favorite.
func (h *QuoteHandler) CheckFavorite(c *gin.Context) {
	id, ok := h.quoteIDParam(c)
	if !ok {
		return
	}

	favorite, err := h.cache.IsFavorite(c.Request.Context(), middleware.GetUserID(c), id)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, favoriteStatusResponse{
		QuoteID:  id,
		Favorite: favorite,
	})
}

// quoteIDParam parses the :id path parameter, writing a 400 response on
// failure.
func (h *QuoteHandler) quoteIDParam(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.ErrorCodeBadRequest,
			"quote ID must be a positive integer",
		))

		return 0, false
	}

	return id, true
}

// RegisterQuoteRoutes registers quote and favorites routes on the given
// router group.
func (h *QuoteHandler) RegisterQuoteRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/quotes")
	quotes.GET("/today", h.GetQuoteOfDay)
	quotes.GET("/random", h.GetRandomQuote)
	quotes.POST("/random/refresh", h.RefreshRandomQuote)
	quotes.POST("/preload", h.PreloadQuotes)
	quotes.GET("/cache/stale", h.CacheStale)

	favorites := rg.Group("/favorites")
	favorites.GET("", h.GetFavorites)
	favorites.GET("/:id", h.CheckFavorite)
	favorites.PUT("/:id", h.AddFavorite)
	favorites.DELETE("/:id", h.RemoveFavorite)
}
