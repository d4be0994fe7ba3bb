package memory_test

import (
	"context"
	"testing"

	"github.com/anurags10/medibook/pkg/adapters/memory"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Contract(t *testing.T) {
	store := memory.NewStore()
	ports.RunBookingStoreContract(t, store)
}

func TestMemoryStore_Isolation(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	b := &domain.Booking{ID: "APPT-1", Date: "2030-01-01", Status: domain.StatusConfirmed}
	require.NoError(t, store.Save(ctx, b))
	b.Status = domain.StatusCancelled

	loaded, err := store.Get(ctx, "APPT-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusConfirmed, loaded.Status)

	loaded.Status = domain.StatusRescheduled
	again, _ := store.Get(ctx, "APPT-1")
	assert.Equal(t, domain.StatusConfirmed, again.Status)
}
