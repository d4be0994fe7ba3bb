package ports_test

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// MockStore is a minimal BookingStore used to check the contract suite itself.
type MockStore struct {
	mu   sync.Mutex
	data map[string]domain.Booking
}

func NewMockStore() *MockStore {
	return &MockStore{data: make(map[string]domain.Booking)}
}

func (m *MockStore) Save(ctx context.Context, b *domain.Booking) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[b.ID] = *b
	return nil
}

func (m *MockStore) Get(ctx context.Context, id string) (*domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	b, ok := m.data[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	return &b, nil
}

func (m *MockStore) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Booking
	for _, b := range m.data {
		if b.Date == date {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime < out[j].StartTime })
	return out, nil
}

func TestBookingStore_Contract(t *testing.T) {
	ports.RunBookingStoreContract(t, NewMockStore())
}
