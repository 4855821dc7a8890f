// Package ports defines interfaces for external dependencies.
// Ports are contracts that adapters implement, allowing the application layer
// to depend on abstractions rather than concrete implementations.
//
// Port Design Principles:
//   - Context as first parameter (always) for cancellation and deadlines
//   - Return domain types, never external DTOs or infrastructure types
//   - Error returns use domain error types (ErrNotFound, ErrUnavailable, etc.)
//   - Keep interfaces small and focused
package ports

import (
	"context"

	"github.com/quotify-desktop/quotify/internal/domain"
)

// QuoteSource fetches quotes from the remote quote service.
// All methods may fail with domain.ErrUnavailable when the service is
// unreachable; FetchByID additionally returns domain.ErrNotFound for
// unknown IDs.
type QuoteSource interface {
	// FetchRandom retrieves one random quote.
	FetchRandom(ctx context.Context) (*domain.Quote, error)

	// FetchByID retrieves the quote with the given source ID.
	FetchByID(ctx context.Context, id int64) (*domain.Quote, error)

	// FetchBatch retrieves up to limit quotes in one call.
	FetchBatch(ctx context.Context, limit int) ([]domain.Quote, error)

	// FetchTotalCount reports how many quotes the source holds,
	// bounding the valid ID range for deterministic selection.
	FetchTotalCount(ctx context.Context) (int64, error)
}

// RecordStore is the durable, user-scoped store of quotes and favorite
// markers. Every operation is namespaced by user ID; implementations
// must never let one user's rows surface under another.
type RecordStore interface {
	// Put stores a quote for the user, replacing any existing quote
	// with the same ID (last write wins).
	Put(ctx context.Context, userID string, quote *domain.Quote) error

	// PutMany stores a batch of quotes atomically: either every quote
	// is persisted or none are.
	PutMany(ctx context.Context, userID string, quotes []domain.Quote) error

	// GetByID retrieves a stored quote.
	// Returns domain.ErrNotFound if the user has no such quote.
	GetByID(ctx context.Context, userID string, id int64) (*domain.Quote, error)

	// GetAll returns every quote stored for the user.
	GetAll(ctx context.Context, userID string) ([]domain.Quote, error)

	// Count reports how many quotes the user has stored.
	Count(ctx context.Context, userID string) (int, error)

	// GetRandom returns one pseudo-randomly chosen stored quote.
	// Returns domain.ErrNotFound when the user's corpus is empty.
	GetRandom(ctx context.Context, userID string) (*domain.Quote, error)

	// AddFavorite marks a quote as a favorite. Adding an existing
	// favorite is a no-op; at most one marker exists per (user, quote).
	AddFavorite(ctx context.Context, userID string, quoteID int64) error

	// RemoveFavorite unmarks a favorite. Removing an absent marker is
	// a no-op, not an error.
	RemoveFavorite(ctx context.Context, userID string, quoteID int64) error

	// FavoriteIDs returns the quote IDs the user has marked, in no
	// particular order. Markers whose quotes are gone are included;
	// resolution is the caller's concern.
	FavoriteIDs(ctx context.Context, userID string) ([]int64, error)

	// IsFavorite reports whether a marker exists for the pair.
	IsFavorite(ctx context.Context, userID string, quoteID int64) (bool, error)
}

// KeyValueStore is generic persistent get/set/delete by opaque key.
// Values are JSON-encoded by the caller; the store does not interpret
// them. Get returns domain.ErrNotFound for absent keys.
type KeyValueStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}

// Connectivity reports whether the device currently has network access.
// The engine reads it synchronously at the start of each operation; it
// does not subscribe to change notifications (that belongs to the
// surrounding shell).
type Connectivity interface {
	Online() bool
}
