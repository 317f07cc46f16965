package testutil

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/order-tracker/internal/store"
)

// NewTestStore returns a migrated in-memory order store that is closed
// when the test ends.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()
	return open(t, store.MemoryPath)
}

// NewFileStore returns a migrated store backed by a file in a temp
// directory, for tests that reopen the database. The path is returned
// alongside.
func NewFileStore(t *testing.T) (*store.SQLiteStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "orders.sqlite3")
	return open(t, path), path
}

func open(t *testing.T, path string) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err, "opening test store")

	t.Cleanup(func() {
		_ = s.Close()
	})
	return s
}
