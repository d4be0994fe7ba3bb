package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/anurags10/medibook/pkg/adapters/postgres"
	"github.com/anurags10/medibook/pkg/ports"
	"github.com/stretchr/testify/require"
)

// Set MEDIBOOK_TEST_POSTGRES_DSN to run against a real database.
func TestPostgresStore_Contract(t *testing.T) {
	dsn := os.Getenv("MEDIBOOK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("MEDIBOOK_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	store, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	defer store.Close()
	require.NoError(t, store.Migrate(ctx))

	ports.RunBookingStoreContract(t, store)
}
