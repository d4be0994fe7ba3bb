package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	backend "github.com/redis/go-redis/v9"
)

// Store implements ports.BookingStore using Redis.
// Each booking is a JSON string; each date has a sorted set of booking ids
// scored by start minute.
type Store struct {
	client *backend.Client
	prefix string
	ttl    time.Duration
}

type Option func(*Store)

// WithTTL sets the expiration for bookings.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// WithPrefix sets the key prefix.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// New creates a new Redis store with options.
func New(address, password string, db int, opts ...Option) *Store {
	rdb := backend.NewClient(&backend.Options{
		Addr:     address,
		Password: password,
		DB:       db,
	})
	return NewFromClient(rdb, opts...)
}

// NewFromClient creates a new Redis store from an existing client.
func NewFromClient(client *backend.Client, opts ...Option) *Store {
	store := &Store{
		client: client,
		prefix: "medibook:",
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

// Client exposes the underlying client, e.g. to share it with a Locker.
func (s *Store) Client() *backend.Client {
	return s.client
}

func (s *Store) key(id string) string {
	return s.prefix + "booking:" + id
}

func (s *Store) dateKey(date string) string {
	return s.prefix + "date:" + date
}

// Save persists the booking and indexes it under its date.
func (s *Store) Save(ctx context.Context, b *domain.Booking) error {
	data, err := json.Marshal(b)
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	prev, err := s.Get(ctx, b.ID)
	if err != nil && !errors.Is(err, domain.ErrBookingNotFound) {
		return err
	}

	pipe := s.client.TxPipeline()
	if prev != nil && prev.Date != b.Date {
		pipe.ZRem(ctx, s.dateKey(prev.Date), b.ID)
	}
	pipe.Set(ctx, s.key(b.ID), data, s.ttl)
	pipe.ZAdd(ctx, s.dateKey(b.Date), backend.Z{
		Score:  float64(startMinute(b.StartTime)),
		Member: b.ID,
	})

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to save to redis: %w", err)
	}
	return nil
}

// Get retrieves a booking by id.
func (s *Store) Get(ctx context.Context, id string) (*domain.Booking, error) {
	val, err := s.client.Get(ctx, s.key(id)).Result()
	if err != nil {
		if err == backend.Nil {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to get from redis: %w", err)
	}

	var b domain.Booking
	if err := json.Unmarshal([]byte(val), &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking: %w", err)
	}
	return &b, nil
}

// ListByDate returns the bookings of date ordered by start time.
// Index entries whose booking has expired are pruned lazily.
func (s *Store) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	ids, err := s.client.ZRange(ctx, s.dateKey(date), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = s.key(id)
	}
	vals, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load bookings: %w", err)
	}

	out := make([]domain.Booking, 0, len(vals))
	var stale []any
	for i, v := range vals {
		raw, ok := v.(string)
		if !ok {
			stale = append(stale, ids[i])
			continue
		}
		var b domain.Booking
		if err := json.Unmarshal([]byte(raw), &b); err != nil {
			return nil, fmt.Errorf("failed to unmarshal booking %s: %w", ids[i], err)
		}
		out = append(out, b)
	}

	if len(stale) > 0 {
		if err := s.client.ZRem(ctx, s.dateKey(date), stale...).Err(); err != nil {
			return nil, fmt.Errorf("failed to prune expired bookings: %w", err)
		}
	}
	return out, nil
}

// Close closes the redis client.
func (s *Store) Close() error {
	return s.client.Close()
}

func startMinute(hhmm string) int {
	t, err := time.Parse("15:04", hhmm)
	if err != nil {
		return 0
	}
	return t.Hour()*60 + t.Minute()
}
