//go:build integration

package integration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quotify-desktop/quotify/internal/adapters/storage/memory"
	"github.com/quotify-desktop/quotify/internal/app"
	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/platform/connectivity"
)

// slowSource is a QuoteSource that serves canned quotes after a fixed
// delay, counting every call. The delay keeps concurrent callers
// overlapping so coalescing is observable.
type slowSource struct {
	delay time.Duration
	calls atomic.Int64
}

func (s *slowSource) FetchRandom(ctx context.Context) (*domain.Quote, error) {
	n := s.calls.Add(1)
	select {
	case <-time.After(s.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}
	return &domain.Quote{ID: n, Text: fmt.Sprintf("quote %d", n), Author: "slow source"}, nil
}

func (s *slowSource) FetchByID(ctx context.Context, id int64) (*domain.Quote, error) {
	s.calls.Add(1)
	return &domain.Quote{ID: id, Text: fmt.Sprintf("quote %d", id), Author: "slow source"}, nil
}

func (s *slowSource) FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error) {
	s.calls.Add(1)
	quotes := make([]domain.Quote, 0, limit)
	for i := 1; i <= limit; i++ {
		quotes = append(quotes, domain.Quote{ID: int64(i), Text: fmt.Sprintf("quote %d", i), Author: "slow source"})
	}
	return quotes, nil
}

func (s *slowSource) FetchTotalCount(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return 100, nil
}

// newConcurrentEngine wires the engine over in-memory stores and the
// given source.
func newConcurrentEngine(src *slowSource) *app.QuoteCache {
	return app.NewQuoteCache(app.QuoteCacheConfig{
		Source:       src,
		Records:      memory.NewRecordStore(),
		Cache:        app.NewNamespacedCache(memory.NewKeyValueStore()),
		Connectivity: connectivity.New(true),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
}

// TestConcurrent_RefreshCoalesced verifies that concurrent refreshes for
// the same user share one underlying fetch instead of stampeding the
// source.
func TestConcurrent_RefreshCoalesced(t *testing.T) {
	src := &slowSource{delay: 50 * time.Millisecond}
	engine := newConcurrentEngine(src)

	const numGoroutines = 25
	var wg sync.WaitGroup
	start := make(chan struct{})
	var errCount int64

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			q, err := engine.RefreshRandomQuote(context.Background(), "shared-user")
			if err != nil || q == nil {
				atomic.AddInt64(&errCount, 1)
			}
		}()
	}

	close(start)
	wg.Wait()

	assert.Zero(t, atomic.LoadInt64(&errCount), "no refresh should fail")

	assert.Less(t, src.calls.Load(), int64(numGoroutines),
		"concurrent refreshes should coalesce into fewer fetches")
}

// TestConcurrent_RefreshPerUserIsolation verifies that coalescing is
// keyed per user: distinct users each get their own fetch.
func TestConcurrent_RefreshPerUserIsolation(t *testing.T) {
	src := &slowSource{delay: 10 * time.Millisecond}
	engine := newConcurrentEngine(src)

	const numUsers = 5
	var wg sync.WaitGroup
	quotes := make([]*domain.Quote, numUsers)

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			q, err := engine.RefreshRandomQuote(context.Background(), fmt.Sprintf("user-%d", idx))
			if err == nil {
				quotes[idx] = q
			}
		}(i)
	}

	wg.Wait()

	assert.GreaterOrEqual(t, src.calls.Load(), int64(numUsers),
		"each user needs its own fetch")
	for i, q := range quotes {
		require.NotNil(t, q, "user %d got no quote", i)
	}
}

// TestConcurrent_FavoritesIdempotent verifies that racing adds of the
// same favorite leave exactly one marker.
func TestConcurrent_FavoritesIdempotent(t *testing.T) {
	src := &slowSource{}
	engine := newConcurrentEngine(src)

	quote := &domain.Quote{ID: 42, Text: "The obstacle is the way.", Author: "Marcus Aurelius"}

	const numGoroutines = 20
	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := engine.AddToFavorites(context.Background(), "grace", quote)
			assert.NoError(t, err)
		}()
	}

	wg.Wait()

	favs, err := engine.GetFavorites(context.Background(), "grace")
	require.NoError(t, err)
	assert.Len(t, favs, 1)

	isFav, err := engine.IsFavorite(context.Background(), "grace", 42)
	require.NoError(t, err)
	assert.True(t, isFav)
}

// TestConcurrent_PreloadAcrossUsers verifies that concurrent preloads
// for different users do not interfere with each other's corpus.
func TestConcurrent_PreloadAcrossUsers(t *testing.T) {
	src := &slowSource{delay: 5 * time.Millisecond}
	engine := newConcurrentEngine(src)

	const numUsers = 10
	const perUser = 4
	var wg sync.WaitGroup

	for i := 0; i < numUsers; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			quotes, err := engine.GetAndCacheQuotes(context.Background(),
				fmt.Sprintf("preload-user-%d", idx), perUser, false)
			assert.NoError(t, err)
			assert.Len(t, quotes, perUser)
		}(i)
	}

	wg.Wait()

	// Every user can now serve from cache offline.
	for i := 0; i < numUsers; i++ {
		stale, err := engine.ShouldRefreshQuotesCache(context.Background(),
			fmt.Sprintf("preload-user-%d", i), time.Hour)
		require.NoError(t, err)
		assert.False(t, stale, "user %d should have a fresh cache", i)
	}
}

// TestConcurrent_ConnectivityFlips verifies the engine tolerates the
// online flag flipping while requests are in flight.
func TestConcurrent_ConnectivityFlips(t *testing.T) {
	src := &slowSource{delay: time.Millisecond}
	flag := connectivity.New(true)
	engine := app.NewQuoteCache(app.QuoteCacheConfig{
		Source:       src,
		Records:      memory.NewRecordStore(),
		Cache:        app.NewNamespacedCache(memory.NewKeyValueStore()),
		Connectivity: flag,
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	})

	// Seed the corpus so offline reads have something to serve.
	_, err := engine.GetAndCacheQuotes(context.Background(), "henry", 5, false)
	require.NoError(t, err)

	var wg sync.WaitGroup
	done := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-done:
				return
			default:
				flag.SetOnline(!flag.Online())
				time.Sleep(time.Millisecond)
			}
		}
	}()

	var failures atomic.Int64
	for i := 0; i < 50; i++ {
		if _, err := engine.GetRandomQuote(context.Background(), "henry"); err != nil {
			failures.Add(1)
		}
	}

	close(done)
	wg.Wait()

	assert.Zero(t, failures.Load(), "seeded corpus should serve regardless of connectivity")
}
