package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/anurags10/medibook/pkg/domain"
)

// Store implements ports.BookingStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]domain.Booking
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]domain.Booking),
	}
}

// Save stores a copy of the booking, replacing any booking with the same id.
func (s *Store) Save(ctx context.Context, b *domain.Booking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[b.ID] = *b
	return nil
}

// Get returns a copy so the caller can't mutate store state directly by pointer.
func (s *Store) Get(ctx context.Context, id string) (*domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.data[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

// ListByDate returns the bookings of date ordered by start time.
func (s *Store) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []domain.Booking
	for _, b := range s.data {
		if b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime != out[j].StartTime {
			return out[i].StartTime < out[j].StartTime
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}
