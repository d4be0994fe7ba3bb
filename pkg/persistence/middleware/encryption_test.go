package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/anurags10/medibook/pkg/adapters/memory"
	"github.com/anurags10/medibook/pkg/domain"
	"github.com/anurags10/medibook/pkg/persistence/middleware"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	t.Helper()
	k := make([]byte, 32)
	_, err := io.ReadFull(rand.Reader, k)
	require.NoError(t, err)
	return k
}

func booking() *domain.Booking {
	return &domain.Booking{
		ID:              "APPT-20240115-0900",
		AppointmentType: domain.TypePhysical,
		Date:            "2024-01-15",
		StartTime:       "09:00",
		EndTime:         "09:45",
		Patient:         domain.Patient{Name: "Jane Doe", Email: "jane@example.com", Phone: "555-0100"},
		Reason:          "annual checkup",
		Status:          domain.StatusConfirmed,
		CreatedAt:       time.Date(2024, 1, 14, 8, 0, 0, 0, time.UTC),
	}
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlying := memory.NewStore()
	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	ctx := context.Background()

	original := booking()
	require.NoError(t, secure.Save(ctx, original))
	assert.Equal(t, "Jane Doe", original.Patient.Name, "caller's booking is not modified")

	stored, err := underlying.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.Patient.Email, "enc:"))
	assert.NotContains(t, stored.Reason, "checkup")
	assert.Empty(t, stored.CancelReason, "empty fields stay empty")
	assert.Equal(t, "09:00", stored.StartTime, "scheduling fields stay in clear")

	loaded, err := secure.Get(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, original, loaded)

	list, err := secure.ListByDate(ctx, "2024-01-15")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, original.Patient, list[0].Patient)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlying := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)
	ctx := context.Background()

	oldStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlying)
	require.NoError(t, oldStore.Save(ctx, booking()))

	newStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlying)

	loaded, err := newStore.Get(ctx, "APPT-20240115-0900")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", loaded.Patient.Email)

	// re-saving seals with the new key only
	loaded.Status = domain.StatusCancelled
	require.NoError(t, newStore.Save(ctx, loaded))

	_, err = oldStore.Get(ctx, loaded.ID)
	assert.ErrorContains(t, err, "decryption failed")
}

func TestEncryptionMiddleware_RejectsPlaintext(t *testing.T) {
	underlying := memory.NewStore()
	require.NoError(t, underlying.Save(context.Background(), booking()))

	secure := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlying)
	_, err := secure.Get(context.Background(), "APPT-20240115-0900")
	assert.ErrorContains(t, err, "missing encrypted data envelope")

	_, err = secure.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrBookingNotFound)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	store := middleware.Chain(memory.NewStore(),
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)}),
	)
	ports.RunBookingStoreContract(t, store)
}
