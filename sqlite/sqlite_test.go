package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/fwojciec/geodossier/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db := sqlite.NewDB(":memory:")
	require.NoError(t, db.Open())
	t.Cleanup(func() { db.Close() })
	return db
}

func TestDB_Open(t *testing.T) {
	t.Parallel()

	t.Run("migrates an empty database to the latest version", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		ctx := context.Background()

		version, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, version)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count))
		assert.Zero(t, count)
	})

	t.Run("returns error for an unreachable path", func(t *testing.T) {
		t.Parallel()

		err := sqlite.NewDB("/nonexistent/path/index.db").Open()
		require.Error(t, err)
	})

	t.Run("uses WAL for file databases", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(filepath.Join(t.TempDir(), "index.db"))
		require.NoError(t, db.Open())
		defer db.Close()

		var mode string
		require.NoError(t, db.QueryRowContext(context.Background(), "PRAGMA journal_mode").Scan(&mode))
		assert.Equal(t, "wal", mode)
	})

	t.Run("reopening neither re-migrates nor loses records", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "index.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		rec := &geodossier.IndexRecord{IndexID: "cases", Label: "Case 17", Embedding: []float32{1, 0}}
		require.NoError(t, sqlite.NewIndexService(db).CreateRecord(ctx, rec))
		require.NoError(t, db.Close())

		db = sqlite.NewDB(path)
		require.NoError(t, db.Open())
		defer db.Close()

		version, err := db.SchemaVersion(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, version)

		var count int
		require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records").Scan(&count))
		assert.Equal(t, 1, count)
	})

	t.Run("refuses a schema newer than supported", func(t *testing.T) {
		t.Parallel()

		ctx := context.Background()
		path := filepath.Join(t.TempDir(), "index.db")

		db := sqlite.NewDB(path)
		require.NoError(t, db.Open())
		_, err := db.ExecContext(ctx, "PRAGMA user_version = 99")
		require.NoError(t, err)
		require.NoError(t, db.Close())

		err = sqlite.NewDB(path).Open()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "newer than supported")
	})

	t.Run("stamps records with the injected clock", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		db.Now = func() time.Time { return time.Date(2025, 3, 14, 9, 30, 15, 500, time.FixedZone("CET", 3600)) }

		rec := &geodossier.IndexRecord{IndexID: "cases", Label: "Case 17", Embedding: []float32{1}}
		require.NoError(t, sqlite.NewIndexService(db).CreateRecord(context.Background(), rec))

		assert.Equal(t, time.Date(2025, 3, 14, 8, 30, 15, 0, time.UTC), rec.CreatedAt)
	})
}
