// Package memory provides in-memory implementations of the storage
// ports. They back the ephemeral storage mode and unit tests; nothing
// survives a restart.
package memory

import (
	"context"
	"math/rand/v2"
	"slices"
	"strconv"
	"sync"

	"github.com/quotify-desktop/quotify/internal/domain"
	"github.com/quotify-desktop/quotify/internal/ports"
)

// RecordStore is a map-backed ports.RecordStore. Safe for concurrent
// use.
type RecordStore struct {
	mu        sync.RWMutex
	quotes    map[string]map[int64]domain.Quote
	favorites map[string]map[int64]struct{}
	favOrder  map[string][]int64
}

var _ ports.RecordStore = (*RecordStore)(nil)

// NewRecordStore creates an empty in-memory record store.
func NewRecordStore() *RecordStore {
	return &RecordStore{
		quotes:    make(map[string]map[int64]domain.Quote),
		favorites: make(map[string]map[int64]struct{}),
		favOrder:  make(map[string][]int64),
	}
}

func (s *RecordStore) Put(_ context.Context, userID string, quote *domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotes[userID] == nil {
		s.quotes[userID] = make(map[int64]domain.Quote)
	}

	s.quotes[userID][quote.ID] = *quote

	return nil
}

func (s *RecordStore) PutMany(_ context.Context, userID string, quotes []domain.Quote) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.quotes[userID] == nil {
		s.quotes[userID] = make(map[int64]domain.Quote)
	}

	for _, q := range quotes {
		s.quotes[userID][q.ID] = q
	}

	return nil
}

func (s *RecordStore) GetByID(_ context.Context, userID string, id int64) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q, ok := s.quotes[userID][id]
	if !ok {
		return nil, domain.NewNotFoundError("quote", strconv.FormatInt(id, 10))
	}

	return &q, nil
}

func (s *RecordStore) GetAll(_ context.Context, userID string) ([]domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := make([]domain.Quote, 0, len(s.quotes[userID]))
	for _, q := range s.quotes[userID] {
		all = append(all, q)
	}

	slices.SortFunc(all, func(a, b domain.Quote) int {
		return int(a.ID - b.ID)
	})

	return all, nil
}

func (s *RecordStore) Count(_ context.Context, userID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.quotes[userID]), nil
}

func (s *RecordStore) GetRandom(_ context.Context, userID string) (*domain.Quote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	byID := s.quotes[userID]
	if len(byID) == 0 {
		return nil, domain.NewNotFoundError("quote", "")
	}

	ids := make([]int64, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}

	q := byID[ids[rand.IntN(len(ids))]]

	return &q, nil
}

func (s *RecordStore) AddFavorite(_ context.Context, userID string, quoteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.favorites[userID] == nil {
		s.favorites[userID] = make(map[int64]struct{})
	}

	if _, ok := s.favorites[userID][quoteID]; ok {
		return nil
	}

	s.favorites[userID][quoteID] = struct{}{}
	s.favOrder[userID] = append(s.favOrder[userID], quoteID)

	return nil
}

func (s *RecordStore) RemoveFavorite(_ context.Context, userID string, quoteID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.favorites[userID][quoteID]; !ok {
		return nil
	}

	delete(s.favorites[userID], quoteID)
	s.favOrder[userID] = slices.DeleteFunc(s.favOrder[userID], func(id int64) bool {
		return id == quoteID
	})

	return nil
}

func (s *RecordStore) FavoriteIDs(_ context.Context, userID string) ([]int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return slices.Clone(s.favOrder[userID]), nil
}

func (s *RecordStore) IsFavorite(_ context.Context, userID string, quoteID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.favorites[userID][quoteID]

	return ok, nil
}
