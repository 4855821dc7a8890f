// Package app contains application services that orchestrate use cases.
// This is the application layer: it coordinates the remote quote source,
// the durable record store, and the per-user key-value cache through
// ports, and owns the fetch-or-serve-from-cache decision logic.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"golang.org/x/sync/singleflight"

	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/ports"
)

const instrumentationName = "github.com/quotify-desktop/quotify/internal/app"

// Cache keys used per user in the namespaced key-value cache.
const (
	quoteOfDayKey = "quoteOfDay"
	randomQuoteKey = "randomQuote"
	cacheMetaKey   = "lastQuotesCacheUpdate"
)

// favoriteResolveWorkers bounds concurrent quote lookups when resolving
// favorite markers.
const favoriteResolveWorkers = 8

// QuoteCache orchestrates the quote source, record store and namespaced
// cache to answer quote requests offline-first. It holds no per-user
// state of its own; everything persists through the injected stores, so
// one instance serves all users concurrently.
type QuoteCache struct {
	source       ports.QuoteSource
	records      ports.RecordStore
	cache        *NamespacedCache
	connectivity ports.Connectivity
	logger       *slog.Logger
	now          func() time.Time

	// refreshGroup coalesces concurrent RefreshRandomQuote calls for
	// the same user into a single underlying fetch.
	refreshGroup singleflight.Group

	cacheHits      metric.Int64Counter
	cacheMisses    metric.Int64Counter
	networkFetches metric.Int64Counter
}

// QuoteCacheConfig contains the engine's dependencies.
type QuoteCacheConfig struct {
	// Source fetches quotes from the remote service.
	Source ports.QuoteSource

	// Records is the durable per-user quote and favorites store.
	Records ports.RecordStore

	// Cache is the per-user key-value cache for derived records.
	Cache *NamespacedCache

	// Connectivity reports whether the device is online.
	Connectivity ports.Connectivity

	// Logger is the structured logger. Defaults to slog.Default().
	Logger *slog.Logger

	// Now returns the current time. Overridable so tests can simulate
	// day rollover deterministically. Defaults to time.Now.
	Now func() time.Time
}

// NewQuoteCache creates the cache engine with the provided dependencies.
// Panics if Source, Records, Cache or Connectivity is nil.
func NewQuoteCache(cfg QuoteCacheConfig) *QuoteCache {
	if cfg.Source == nil {
		panic("QuoteCache: Source is required")
	}
	if cfg.Records == nil {
		panic("QuoteCache: Records is required")
	}
	if cfg.Cache == nil {
		panic("QuoteCache: Cache is required")
	}
	if cfg.Connectivity == nil {
		panic("QuoteCache: Connectivity is required")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	qc := &QuoteCache{
		source:       cfg.Source,
		records:      cfg.Records,
		cache:        cfg.Cache,
		connectivity: cfg.Connectivity,
		logger:       logger.With(slog.String("component", "app.QuoteCache")),
		now:          now,
	}
	qc.initMetrics()

	return qc
}

// initMetrics creates the engine counters. Metric errors are reported
// through the otel error handler and leave the counter nil; recording
// sites nil-check.
func (s *QuoteCache) initMetrics() {
	meter := otel.Meter(instrumentationName)

	var err error

	s.cacheHits, err = meter.Int64Counter("quote_cache.hits",
		metric.WithDescription("Engine reads served from the local cache"))
	if err != nil {
		otel.Handle(err)
	}

	s.cacheMisses, err = meter.Int64Counter("quote_cache.misses",
		metric.WithDescription("Engine reads that missed the local cache"))
	if err != nil {
		otel.Handle(err)
	}

	s.networkFetches, err = meter.Int64Counter("quote_cache.network_fetches",
		metric.WithDescription("Fetches issued to the remote quote source"))
	if err != nil {
		otel.Handle(err)
	}
}

func (s *QuoteCache) recordHit(ctx context.Context, op string) {
	if s.cacheHits != nil {
		s.cacheHits.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

func (s *QuoteCache) recordMiss(ctx context.Context, op string) {
	if s.cacheMisses != nil {
		s.cacheMisses.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

func (s *QuoteCache) recordFetch(ctx context.Context, op string) {
	if s.networkFetches != nil {
		s.networkFetches.Add(ctx, 1, metric.WithAttributes(attribute.String("op", op)))
	}
}

// GetQuoteOfDay returns the user's quote of the day. A cached record is
// served as long as it carries today's date; otherwise a fresh quote is
// fetched (online) or drawn from the local corpus (offline) and cached
// dated today, so repeat calls within the day are stable.
func (s *QuoteCache) GetQuoteOfDay(ctx context.Context, userID string) (*domain.Quote, error) {
	logger := s.logger.With(slog.String("method", "GetQuoteOfDay"), slog.String("user_id", userID))
	today := s.now().Format(domain.DateLayout)

	var rec domain.QuoteOfDayRecord

	err := s.cache.Get(ctx, userID, quoteOfDayKey, &rec)
	switch {
	case err == nil && rec.Date == today:
		s.recordHit(ctx, "quote_of_day")
		logger.DebugContext(ctx, "serving cached quote of day", slog.Int64("quote_id", rec.Quote.ID))

		return &rec.Quote, nil

	case err != nil && domain.IsInvalidNamespace(err):
		return nil, err

	case err != nil && !domain.IsNotFound(err):
		// A corrupt or unreadable cache entry is treated as absent;
		// the fetch below rewrites it.
		logger.WarnContext(ctx, "quote of day cache read failed", slog.Any("error", err))
	}

	s.recordMiss(ctx, "quote_of_day")

	if s.connectivity.Online() {
		quote, fetchErr := s.fetchQuoteForDate(ctx, today)
		if fetchErr == nil {
			if err := s.records.Put(ctx, userID, quote); err != nil {
				return nil, fmt.Errorf("persisting quote of day: %w", err)
			}

			if err := s.cache.Set(ctx, userID, quoteOfDayKey, domain.QuoteOfDayRecord{Quote: *quote, Date: today}); err != nil {
				return nil, fmt.Errorf("caching quote of day: %w", err)
			}

			logger.InfoContext(ctx, "fetched quote of day",
				slog.Int64("quote_id", quote.ID),
				slog.String("author", quote.Author),
			)

			return quote, nil
		}

		logger.WarnContext(ctx, "quote source failed, falling back to local corpus", slog.Any("error", fetchErr))

		quote, err := s.localQuoteOfDay(ctx, userID, today)
		if err != nil {
			if domain.IsNoCachedData(err) {
				// Nothing local either; the network failure is the
				// root cause worth surfacing.
				return nil, fetchErr
			}

			return nil, err
		}

		return quote, nil
	}

	return s.localQuoteOfDay(ctx, userID, today)
}

// localQuoteOfDay draws a pseudo-random quote from the user's stored
// corpus and pins it as today's quote of the day.
func (s *QuoteCache) localQuoteOfDay(ctx context.Context, userID, today string) (*domain.Quote, error) {
	quote, err := s.records.GetRandom(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNoCachedDataError(userID, "")
		}

		return nil, fmt.Errorf("picking local quote of day: %w", err)
	}

	if err := s.cache.Set(ctx, userID, quoteOfDayKey, domain.QuoteOfDayRecord{Quote: *quote, Date: today}); err != nil {
		return nil, fmt.Errorf("caching quote of day: %w", err)
	}

	return quote, nil
}

// fetchQuoteForDate fetches the deterministic quote for a calendar day:
// the byte sum of the YYYY-MM-DD string, modulo the source's total
// count, maps into the valid ID range. Every call on the same day
// selects the same ID. When the by-ID lookup fails for any reason the
// source's random endpoint is the fallback.
func (s *QuoteCache) fetchQuoteForDate(ctx context.Context, day string) (*domain.Quote, error) {
	s.recordFetch(ctx, "quote_of_day")

	id, err := s.quoteIDForDate(ctx, day)
	if err == nil {
		quote, byIDErr := s.source.FetchByID(ctx, id)
		if byIDErr == nil {
			return quote, nil
		}

		s.logger.DebugContext(ctx, "deterministic quote lookup failed, fetching random",
			slog.Int64("quote_id", id),
			slog.Any("error", byIDErr),
		)
	}

	return s.source.FetchRandom(ctx)
}

// quoteIDForDate derives the day's quote ID from the date string and
// the source's total quote count.
func (s *QuoteCache) quoteIDForDate(ctx context.Context, day string) (int64, error) {
	total, err := s.source.FetchTotalCount(ctx)
	if err != nil {
		return 0, err
	}

	if total <= 0 {
		return 0, domain.NewUnavailableError("quote-source", "reported empty quote corpus")
	}

	var sum int64
	for _, b := range []byte(day) {
		sum += int64(b)
	}

	return sum%total + 1, nil
}

// GetRandomQuote returns the user's current random quote. The cached
// pointer has no expiry; it is only replaced by RefreshRandomQuote.
func (s *QuoteCache) GetRandomQuote(ctx context.Context, userID string) (*domain.Quote, error) {
	var quote domain.Quote

	err := s.cache.Get(ctx, userID, randomQuoteKey, &quote)
	switch {
	case err == nil:
		s.recordHit(ctx, "random_quote")
		return &quote, nil

	case domain.IsInvalidNamespace(err):
		return nil, err

	case !domain.IsNotFound(err):
		s.logger.WarnContext(ctx, "random quote cache read failed",
			slog.String("user_id", userID),
			slog.Any("error", err),
		)
	}

	s.recordMiss(ctx, "random_quote")

	return s.pickAndCacheRandom(ctx, userID)
}

// RefreshRandomQuote replaces the cached random quote with a fresh pick
// regardless of what is cached. Concurrent refreshes for the same user
// are coalesced into a single underlying fetch; joined callers receive
// the same result and share the first caller's context.
func (s *QuoteCache) RefreshRandomQuote(ctx context.Context, userID string) (*domain.Quote, error) {
	if userID == "" {
		return nil, domain.NewNamespaceError("", "user ID is required")
	}

	v, err, shared := s.refreshGroup.Do(userID, func() (any, error) {
		return s.pickAndCacheRandom(ctx, userID)
	})
	if err != nil {
		return nil, err
	}

	if shared {
		s.logger.DebugContext(ctx, "joined in-flight refresh", slog.String("user_id", userID))
	}

	return v.(*domain.Quote), nil
}

// pickAndCacheRandom performs a fresh random pick: network when online,
// local corpus otherwise. The picked quote is persisted and becomes the
// cached random quote.
func (s *QuoteCache) pickAndCacheRandom(ctx context.Context, userID string) (*domain.Quote, error) {
	logger := s.logger.With(slog.String("user_id", userID))

	if s.connectivity.Online() {
		s.recordFetch(ctx, "random_quote")

		quote, fetchErr := s.source.FetchRandom(ctx)
		if fetchErr == nil {
			if err := s.records.Put(ctx, userID, quote); err != nil {
				return nil, fmt.Errorf("persisting random quote: %w", err)
			}

			if err := s.cache.Set(ctx, userID, randomQuoteKey, quote); err != nil {
				return nil, fmt.Errorf("caching random quote: %w", err)
			}

			logger.InfoContext(ctx, "fetched random quote",
				slog.Int64("quote_id", quote.ID),
				slog.String("author", quote.Author),
			)

			return quote, nil
		}

		logger.WarnContext(ctx, "random quote fetch failed, falling back to local corpus", slog.Any("error", fetchErr))

		quote, err := s.localRandom(ctx, userID)
		if err != nil {
			if domain.IsNoCachedData(err) {
				return nil, fetchErr
			}

			return nil, err
		}

		return quote, nil
	}

	return s.localRandom(ctx, userID)
}

// localRandom picks a pseudo-random stored quote and caches it as the
// current random quote.
func (s *QuoteCache) localRandom(ctx context.Context, userID string) (*domain.Quote, error) {
	quote, err := s.records.GetRandom(ctx, userID)
	if err != nil {
		if domain.IsNotFound(err) {
			return nil, domain.NewNoCachedDataError(userID, "")
		}

		return nil, fmt.Errorf("picking local random quote: %w", err)
	}

	if err := s.cache.Set(ctx, userID, randomQuoteKey, quote); err != nil {
		return nil, fmt.Errorf("caching random quote: %w", err)
	}

	return quote, nil
}

// AddToFavorites persists the quote (insert-or-replace by ID) and marks
// it as a favorite. Idempotent: repeat calls leave exactly one marker.
func (s *QuoteCache) AddToFavorites(ctx context.Context, userID string, quote *domain.Quote) error {
	if userID == "" {
		return domain.NewNamespaceError("", "user ID is required")
	}

	if quote == nil {
		return domain.NewValidationError("quote", "cannot be nil")
	}

	if err := s.records.Put(ctx, userID, quote); err != nil {
		return fmt.Errorf("persisting favorite quote: %w", err)
	}

	if err := s.records.AddFavorite(ctx, userID, quote.ID); err != nil {
		return fmt.Errorf("adding favorite marker: %w", err)
	}

	s.logger.InfoContext(ctx, "added favorite",
		slog.String("user_id", userID),
		slog.Int64("quote_id", quote.ID),
	)

	return nil
}

// RemoveFromFavorites deletes the marker for (user, quote). Removing an
// absent marker is a no-op. The quote itself stays in the record store;
// it may still be cached or referenced elsewhere.
func (s *QuoteCache) RemoveFromFavorites(ctx context.Context, userID string, quoteID int64) error {
	if userID == "" {
		return domain.NewNamespaceError("", "user ID is required")
	}

	if err := s.records.RemoveFavorite(ctx, userID, quoteID); err != nil {
		return fmt.Errorf("removing favorite marker: %w", err)
	}

	return nil
}

// GetFavorites resolves the user's favorite markers to quotes. Markers
// whose quote is no longer stored are dropped silently.
func (s *QuoteCache) GetFavorites(ctx context.Context, userID string) ([]domain.Quote, error) {
	if userID == "" {
		return nil, domain.NewNamespaceError("", "user ID is required")
	}

	ids, err := s.records.FavoriteIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorite markers: %w", err)
	}

	if len(ids) == 0 {
		return []domain.Quote{}, nil
	}

	fns := make([]func(context.Context) (*domain.Quote, error), len(ids))
	for i, id := range ids {
		fns[i] = func(ctx context.Context) (*domain.Quote, error) {
			return s.records.GetByID(ctx, userID, id)
		}
	}

	results := ParallelPartialLimit(ctx, favoriteResolveWorkers, fns...)

	quotes := make([]domain.Quote, 0, len(ids))

	for i, r := range results {
		if r.Err != nil {
			if domain.IsNotFound(r.Err) {
				// Orphaned marker: the quote was removed from the
				// record store after it was favorited.
				s.logger.DebugContext(ctx, "dropping orphaned favorite marker",
					slog.String("user_id", userID),
					slog.Int64("quote_id", ids[i]),
				)

				continue
			}

			return nil, fmt.Errorf("resolving favorite %d: %w", ids[i], r.Err)
		}

		quotes = append(quotes, *r.Value)
	}

	return quotes, nil
}

// IsFavorite reports whether the user has marked the quote.
func (s *QuoteCache) IsFavorite(ctx context.Context, userID string, quoteID int64) (bool, error) {
	if userID == "" {
		return false, domain.NewNamespaceError("", "user ID is required")
	}

	marked, err := s.records.IsFavorite(ctx, userID, quoteID)
	if err != nil {
		return false, fmt.Errorf("checking favorite marker: %w", err)
	}

	return marked, nil
}

// GetAndCacheQuotes bulk-preloads the user's corpus. When the stored
// count already covers limit and forceRefresh is false the stored
// corpus is returned with no network call. A failed batch fetch
// persists nothing; the prior corpus remains the source of truth.
func (s *QuoteCache) GetAndCacheQuotes(ctx context.Context, userID string, limit int, forceRefresh bool) ([]domain.Quote, error) {
	if userID == "" {
		return nil, domain.NewNamespaceError("", "user ID is required")
	}

	if limit <= 0 {
		return nil, domain.NewValidationError("limit", "must be positive")
	}

	logger := s.logger.With(
		slog.String("method", "GetAndCacheQuotes"),
		slog.String("user_id", userID),
		slog.Int("limit", limit),
	)

	count, err := s.records.Count(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("counting stored quotes: %w", err)
	}

	if !forceRefresh && count >= limit {
		s.recordHit(ctx, "preload")
		logger.DebugContext(ctx, "corpus already covers limit", slog.Int("count", count))

		return s.records.GetAll(ctx, userID)
	}

	s.recordMiss(ctx, "preload")

	if s.connectivity.Online() {
		s.recordFetch(ctx, "preload")

		quotes, err := s.source.FetchBatch(ctx, limit)
		if err != nil {
			return nil, fmt.Errorf("fetching quote batch: %w", err)
		}

		if err := s.records.PutMany(ctx, userID, quotes); err != nil {
			return nil, fmt.Errorf("persisting quote batch: %w", err)
		}

		meta := domain.CacheMetadata{TimestampMillis: s.now().UnixMilli(), Count: len(quotes)}
		if err := s.cache.Set(ctx, userID, cacheMetaKey, meta); err != nil {
			return nil, fmt.Errorf("recording preload metadata: %w", err)
		}

		logger.InfoContext(ctx, "preloaded quotes", slog.Int("count", len(quotes)))

		return quotes, nil
	}

	cached, err := s.records.GetAll(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("reading stored corpus: %w", err)
	}

	if len(cached) > 0 {
		return cached, nil
	}

	return nil, domain.NewNoCachedDataError(userID, "no cached quotes available and device is offline")
}

// ShouldRefreshQuotesCache reports whether the bulk cache is stale:
// true when no preload has ever run, or when the last one is older than
// maxAge. Unreadable metadata counts as stale.
func (s *QuoteCache) ShouldRefreshQuotesCache(ctx context.Context, userID string, maxAge time.Duration) (bool, error) {
	var meta domain.CacheMetadata

	err := s.cache.Get(ctx, userID, cacheMetaKey, &meta)
	if err != nil {
		if domain.IsInvalidNamespace(err) {
			return false, err
		}

		if !domain.IsNotFound(err) {
			s.logger.WarnContext(ctx, "preload metadata read failed",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}

		return true, nil
	}

	return meta.Age(s.now()) > maxAge, nil
}
