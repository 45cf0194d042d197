package sqlitemigrate_test

import (
	"context"
	"database/sql"
	"testing"
	"testing/fstest"

	"github.com/Zitronenjoghurt/neobabu-sub000/internal/sqlitemigrate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func count(t *testing.T, db *sql.DB, query string) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(query).Scan(&n))
	return n
}

func TestApply_RecordsAndSkips(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	migrations := fstest.MapFS{
		"001_items.sql": {Data: []byte("-- +migrate Up\nCREATE TABLE items(id TEXT PRIMARY KEY);\n-- +migrate Down\nDROP TABLE items;")},
		"README.md":     {Data: []byte("not a migration")},
	}

	require.NoError(t, sqlitemigrate.Apply(ctx, db, migrations, ""))
	require.NoError(t, sqlitemigrate.Apply(ctx, db, migrations, ""), "a second run must be a no-op")

	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'items'"))
}

func TestApply_LexicalOrder(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	migrations := fstest.MapFS{
		"002_seed.sql":  {Data: []byte("INSERT INTO items(id) VALUES ('a');")},
		"001_items.sql": {Data: []byte("CREATE TABLE items(id TEXT PRIMARY KEY);")},
	}

	require.NoError(t, sqlitemigrate.Apply(ctx, db, migrations, "."))
	assert.Equal(t, 1, count(t, db, "SELECT COUNT(*) FROM items"))
}

func TestApply_FailureRollsBack(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	migrations := fstest.MapFS{
		"001_bad.sql": {Data: []byte("CREATE TABLE;")},
	}

	err := sqlitemigrate.Apply(ctx, db, migrations, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_bad.sql")
	assert.Equal(t, 0, count(t, db, "SELECT COUNT(*) FROM schema_migrations"))
}

func TestUpSection(t *testing.T) {
	assert.Equal(t, "\nUP\n", sqlitemigrate.UpSection("-- +migrate Up\nUP\n-- +migrate Down\nDOWN"))
	assert.Equal(t, "\nUP", sqlitemigrate.UpSection("-- +migrate Up\nUP"))
	assert.Equal(t, "RAW", sqlitemigrate.UpSection("RAW"))
}
