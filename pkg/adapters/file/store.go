// Package file implements ports.BookingStore on the local filesystem, one
// JSON document per booking.
package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
)

// DefaultDir is used when New is given an empty path.
var DefaultDir = filepath.Join(".medibook", "bookings")

// Store keeps bookings as <id>.json files in BasePath.
type Store struct {
	BasePath string

	mu sync.RWMutex
}

// New creates a Store rooted at basePath.
func New(basePath string) *Store {
	if basePath == "" {
		basePath = DefaultDir
	}
	return &Store{BasePath: basePath}
}

// Save writes the booking atomically: a synced temp file in the same
// directory is renamed over the destination.
func (s *Store) Save(ctx context.Context, b *domain.Booking) error {
	path, err := s.path(b.ID)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.BasePath, 0o755); err != nil {
		return fmt.Errorf("failed to ensure booking directory: %w", err)
	}

	data, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal booking: %w", err)
	}

	tmp, err := os.CreateTemp(s.BasePath, "tmp-"+b.ID+"-*.json")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("failed to fsync temp file: %w", err)
	}
	// Windows cannot rename an open file.
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

func (s *Store) Get(ctx context.Context, id string) (*domain.Booking, error) {
	path, err := s.path(id)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return readBooking(path)
}

// ListByDate scans every booking file. The directory is expected to stay
// small enough for a single-node deployment.
func (s *Store) ListByDate(ctx context.Context, date string) ([]domain.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.BasePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	var out []domain.Booking
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || filepath.Ext(name) != ".json" || strings.HasPrefix(name, "tmp-") {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b, err := readBooking(filepath.Join(s.BasePath, name))
		if err != nil {
			return nil, err
		}
		if b.Date == date {
			out = append(out, *b)
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

func (s *Store) path(id string) (string, error) {
	if id == "" {
		return "", errors.New("booking id cannot be empty")
	}
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", fmt.Errorf("invalid booking id %q", id)
	}
	return filepath.Join(s.BasePath, id+".json"), nil
}

func readBooking(path string) (*domain.Booking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrBookingNotFound
		}
		return nil, fmt.Errorf("failed to read booking file: %w", err)
	}
	var b domain.Booking
	if err := json.Unmarshal(data, &b); err != nil {
		return nil, fmt.Errorf("failed to unmarshal booking %s: %w", filepath.Base(path), err)
	}
	return &b, nil
}

var _ ports.BookingStore = (*Store)(nil)
