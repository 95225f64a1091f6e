package dbx

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "dbx.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	_, err = db.Exec(`CREATE TABLE kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO kv (key, value) VALUES ('token', 'a'), ('refresh_token', 'r')`)
	require.NoError(t, err)
	return db
}

func keys(t *testing.T, db *sql.DB) int {
	t.Helper()
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM kv`).Scan(&n))
	return n
}

func deleteAll(ctx context.Context, tx Execer) error {
	for _, k := range []string{"token", "refresh_token"} {
		if _, err := tx.ExecContext(ctx, `DELETE FROM kv WHERE key = ?`, k); err != nil {
			return err
		}
	}
	return nil
}

func TestWithTx_Commits(t *testing.T) {
	db := setupDB(t)

	require.NoError(t, WithTx(context.Background(), db, deleteAll))
	assert.Equal(t, 0, keys(t, db))
}

func TestWithTx_RollsBackOnError(t *testing.T) {
	db := setupDB(t)
	boom := errors.New("boom")

	err := WithTx(context.Background(), db, func(ctx context.Context, tx Execer) error {
		require.NoError(t, deleteAll(ctx, tx))
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, keys(t, db), "both keys survive a failed clear")
}

func TestWithTx_RollsBackOnPanic(t *testing.T) {
	db := setupDB(t)

	assert.PanicsWithValue(t, "kaput", func() {
		_ = WithTx(context.Background(), db, func(ctx context.Context, tx Execer) error {
			require.NoError(t, deleteAll(ctx, tx))
			panic("kaput")
		})
	})
	assert.Equal(t, 2, keys(t, db))
}

func TestWithTx_ReadsInsideTx(t *testing.T) {
	db := setupDB(t)

	var v string
	err := WithTx(context.Background(), db, func(ctx context.Context, tx Execer) error {
		return tx.QueryRowContext(ctx, `SELECT value FROM kv WHERE key = 'token'`).Scan(&v)
	})
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}

func TestWithTx_BeginError(t *testing.T) {
	db := setupDB(t)
	require.NoError(t, db.Close())

	err := WithTx(context.Background(), db, func(context.Context, Execer) error { return nil })
	require.Error(t, err, "begin should fail when DB is closed")
}
