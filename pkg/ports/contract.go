package ports

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/anurags10/medibook/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunBookingStoreContract runs a suite of tests to verify that a BookingStore implementation
// adheres to the defined interface contract.
func RunBookingStoreContract(t *testing.T, store BookingStore) {
	ctx := context.Background()
	suffix := time.Now().Format("150405.000000")
	date := "2031-03-14"

	newBooking := func(id, start string) *domain.Booking {
		return &domain.Booking{
			ID:              id,
			AppointmentType: domain.TypeConsultation,
			Date:            date,
			StartTime:       start,
			EndTime:         "10:00",
			Patient:         domain.Patient{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
			Status:          domain.StatusConfirmed,
			CreatedAt:       time.Now().UTC().Truncate(time.Second),
			UpdatedAt:       time.Now().UTC().Truncate(time.Second),
		}
	}

	t.Run("Save and Get", func(t *testing.T) {
		id := "contract-get-" + suffix
		b := newBooking(id, "09:30")
		b.Reason = "annual checkup"

		require.NoError(t, store.Save(ctx, b), "Save should not return error")

		loaded, err := store.Get(ctx, id)
		require.NoError(t, err, "Get should not return error")
		assert.Equal(t, b.ID, loaded.ID)
		assert.Equal(t, b.Patient, loaded.Patient)
		assert.Equal(t, "annual checkup", loaded.Reason)
		assert.Equal(t, domain.StatusConfirmed, loaded.Status)
		assert.True(t, b.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Get Non-Existent", func(t *testing.T) {
		_, err := store.Get(ctx, "non-existent-"+suffix)
		assert.ErrorIs(t, err, domain.ErrBookingNotFound)
	})

	t.Run("Save Replaces", func(t *testing.T) {
		id := "contract-replace-" + suffix
		b := newBooking(id, "11:00")
		require.NoError(t, store.Save(ctx, b))

		b.Status = domain.StatusCancelled
		b.CancelReason = domain.NoReasonGiven
		require.NoError(t, store.Save(ctx, b))

		loaded, err := store.Get(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, loaded.Status)
		assert.Equal(t, domain.NoReasonGiven, loaded.CancelReason)
	})

	t.Run("List By Date", func(t *testing.T) {
		late := newBooking(fmt.Sprintf("contract-list-b-%s", suffix), "16:00")
		early := newBooking(fmt.Sprintf("contract-list-a-%s", suffix), "09:00")
		other := newBooking(fmt.Sprintf("contract-list-c-%s", suffix), "09:00")
		other.Date = "2031-03-15"
		for _, b := range []*domain.Booking{late, early, other} {
			require.NoError(t, store.Save(ctx, b))
		}

		list, err := store.ListByDate(ctx, date)
		require.NoError(t, err)

		var ids []string
		for _, b := range list {
			assert.Equal(t, date, b.Date)
			ids = append(ids, b.ID)
		}
		assert.Contains(t, ids, late.ID)
		assert.Contains(t, ids, early.ID)
		assert.NotContains(t, ids, other.ID)

		for i := 1; i < len(list); i++ {
			assert.LessOrEqual(t, list[i-1].StartTime, list[i].StartTime, "list must be ordered by start time")
		}
	})
}
