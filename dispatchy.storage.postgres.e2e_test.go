//go:build integration

package dispatchy_test

import (
	"context"
	"testing"
	"time"

	"github.com/itsatony/go-dispatchy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer creates an ephemeral PostgreSQL container for testing.
func setupPostgresContainer(t *testing.T) (*dispatchy.PostgresStore, func()) {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15",
		postgres.WithDatabase("dispatchy_test"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	store, err := dispatchy.NewPostgresStore(dispatchy.PostgresConfig{
		ConnectionString: connStr,
		AutoMigrate:      true,
	})
	require.NoError(t, err, "failed to create postgres store")

	cleanup := func() {
		if store != nil {
			_ = store.Close()
		}
		if container != nil {
			_ = container.Terminate(ctx)
		}
	}

	return store, cleanup
}

func TestPostgresStore_CRUD(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()

	_, err := store.Get(ctx, "missing")
	require.Error(t, err)
	assert.True(t, dispatchy.IsMemoryKeyNotFound(err))

	require.NoError(t, store.Set(ctx, "name", dispatchy.StringMemoryValue("Daniel")))
	value, err := store.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, "Daniel", value.String())

	// Overwrite with a list value.
	require.NoError(t, store.Set(ctx, "name", dispatchy.ListMemoryValue([]string{"a", "b"})))
	value, err = store.Get(ctx, "name")
	require.NoError(t, err)
	assert.Equal(t, dispatchy.MemoryValueKindList, value.Kind())
	assert.Equal(t, []string{"a", "b"}, value.Items())

	require.NoError(t, store.Append(ctx, "groceries", "milk"))
	require.NoError(t, store.Append(ctx, "groceries", "eggs"))
	value, err = store.Get(ctx, "groceries")
	require.NoError(t, err)
	assert.Equal(t, []string{"milk", "eggs"}, value.Items())

	keys, err := store.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"groceries", "name"}, keys)

	require.NoError(t, store.Delete(ctx, "name"))
	_, err = store.Get(ctx, "name")
	assert.True(t, dispatchy.IsMemoryKeyNotFound(err))
}

func TestPostgresStore_AppendToStringFails(t *testing.T) {
	store, cleanup := setupPostgresContainer(t)
	defer cleanup()

	ctx := context.Background()
	require.NoError(t, store.Set(ctx, "name", dispatchy.StringMemoryValue("Daniel")))

	err := store.Append(ctx, "name", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), dispatchy.ErrMsgMemoryNotList)
}
