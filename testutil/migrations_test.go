package testutil_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/pkordes/prenoms/internal/storage"
	"github.com/pkordes/prenoms/testutil"
)

// TestMigrations_Postgres verifies the full migration round-trip against a
// real Postgres database: up, table and indexes present, down to 0, table gone.
// The test is skipped automatically when TEST_DATABASE_URL is not set.
func TestMigrations_Postgres(t *testing.T) {
	db := testutil.NewSQLDB(t)

	provider, err := storage.NewMigrationProvider(storage.DialectPostgres, db)
	require.NoError(t, err, "create goose provider")

	ctx := context.Background()

	// Another package's TestMain may have already applied migrations against this
	// shared test DB. Reset to version 0 first so this test is order-independent.
	if _, err := provider.DownTo(ctx, 0); err != nil {
		t.Fatalf("TestMigrations_Postgres: initial reset: %v", err)
	}

	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.NotEmpty(t, results, "expected at least one migration to be applied")

	const tableQ = `
		SELECT EXISTS (
			SELECT 1 FROM information_schema.tables
			WHERE table_schema = 'public' AND table_name = $1
		)`
	const indexQ = `
		SELECT EXISTS (
			SELECT 1 FROM pg_indexes
			WHERE schemaname = 'public' AND indexname = $1
		)`

	assertPresence(t, db, tableQ, "name_stats", true)
	for _, idx := range expectedIndexes {
		assertPresence(t, db, indexQ, idx, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	assertPresence(t, db, tableQ, "name_stats", false)
}

// TestMigrations_SQLite runs the same round-trip against a throwaway SQLite file.
func TestMigrations_SQLite(t *testing.T) {
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "names.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	provider, err := storage.NewMigrationProvider(storage.DialectSQLite, db)
	require.NoError(t, err)

	ctx := context.Background()
	results, err := provider.Up(ctx)
	require.NoError(t, err, "goose up")
	assert.Len(t, results, 1)

	const tableQ = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = ?)`
	const indexQ = `SELECT EXISTS (SELECT 1 FROM sqlite_master WHERE type = 'index' AND name = ?)`

	assertPresence(t, db, tableQ, "name_stats", true)
	for _, idx := range expectedIndexes {
		assertPresence(t, db, indexQ, idx, true)
	}

	_, err = provider.DownTo(ctx, 0)
	require.NoError(t, err, "goose down-to 0")

	assertPresence(t, db, tableQ, "name_stats", false)
}

// expectedIndexes back the three access patterns plus the uniqueness of
// (name, gender, year).
var expectedIndexes = []string{
	"idx_name_stats_unique",
	"idx_name_stats_name",
	"idx_name_stats_gender_name",
	"idx_name_stats_name_year",
}

func assertPresence(t *testing.T, db *sql.DB, query, object string, shouldExist bool) {
	t.Helper()

	var exists bool
	err := db.QueryRowContext(context.Background(), query, object).Scan(&exists)
	require.NoError(t, err, "check existence of %q", object)

	if shouldExist {
		assert.True(t, exists, "expected %q to exist", object)
	} else {
		assert.False(t, exists, "expected %q to not exist", object)
	}
}
