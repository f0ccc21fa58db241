package sqlite

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

// setupTestDB opens a migrated in-memory database private to the test.
// Both pools share it through cache=shared under a name derived from t.Name().
func setupTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := openDB(buildDSN(url.PathEscape(t.Name()), "mode=memory", "cache=shared"))
	require.NoError(t, err, "open test db")
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, RunMigrations(db.Writer), "migrate test db")
	return db
}
