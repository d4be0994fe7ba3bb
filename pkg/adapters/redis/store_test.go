package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/anurags10/medibook/pkg/adapters/redis"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T, opts ...redis.Option) (*redis.Store, *miniredis.Miniredis) {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err, "Failed to start miniredis")
	t.Cleanup(mr.Close)

	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	return redis.NewFromClient(client, opts...), mr
}

func TestRedisStore_Contract(t *testing.T) {
	store, _ := newStore(t)
	ports.RunBookingStoreContract(t, store)
}

func TestRedisStore_Prefix(t *testing.T) {
	store, mr := newStore(t, redis.WithPrefix("test:"))
	ctx := context.Background()

	err := store.Save(ctx, &domain.Booking{ID: "APPT-1", Date: "2030-01-01", StartTime: "09:00"})
	require.NoError(t, err)

	assert.True(t, mr.Exists("test:booking:APPT-1"))
	assert.True(t, mr.Exists("test:date:2030-01-01"))
}

func TestRedisStore_TTLPrunesIndex(t *testing.T) {
	store, mr := newStore(t, redis.WithTTL(time.Minute))
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, &domain.Booking{ID: "APPT-1", Date: "2030-01-01", StartTime: "09:00"}))
	require.NoError(t, store.Save(ctx, &domain.Booking{ID: "APPT-2", Date: "2030-01-01", StartTime: "10:00"}))

	mr.FastForward(2 * time.Minute)

	list, err := store.ListByDate(ctx, "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, list)

	members, err := mr.ZMembers("medibook:date:2030-01-01")
	if err == nil {
		assert.Empty(t, members)
	}
}

func TestRedisStore_MovesIndexOnDateChange(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	b := &domain.Booking{ID: "APPT-1", Date: "2030-01-01", StartTime: "09:00"}
	require.NoError(t, store.Save(ctx, b))
	b.Date = "2030-01-02"
	require.NoError(t, store.Save(ctx, b))

	old, err := store.ListByDate(ctx, "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, old)

	moved, err := store.ListByDate(ctx, "2030-01-02")
	require.NoError(t, err)
	require.Len(t, moved, 1)
	assert.Equal(t, "APPT-1", moved[0].ID)
}
