package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fbsql/fbsql/internal/db"
)

func TestTranslateRequiresName(t *testing.T) {
	_, err := Translate(&db.Config{Engine: "sqlite"})
	require.Error(t, err)
	assert.ErrorIs(t, err, db.ErrMisconfigured)
}

func TestTranslatePaths(t *testing.T) {
	path, err := Translate(&db.Config{Name: ":memory:"})
	require.NoError(t, err)
	assert.Equal(t, ":memory:", path)

	path, err = Translate(&db.Config{Name: "/tmp/app.db"})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/app.db", path)

	path, err = Translate(&db.Config{Name: "relative.db"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(path))
}

func TestBackendLifecycle(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "lifecycle.db")

	backend, err := New(&db.Config{Engine: "sqlite", Name: path})
	require.NoError(t, err)

	require.NoError(t, backend.Connect(ctx))
	defer backend.Disconnect(ctx)
	require.NoError(t, backend.Ping(ctx))

	_, err = backend.DB().ExecContext(ctx, `
		CREATE TABLE entries (
			id INTEGER PRIMARY KEY,
			title TEXT NOT NULL,
			state TEXT DEFAULT 'new'
		)`)
	require.NoError(t, err)

	tables, err := backend.Introspection().TableNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"entries"}, tables)

	cols, err := backend.Introspection().Columns(ctx, "entries")
	require.NoError(t, err)
	require.Len(t, cols, 3)
	assert.Equal(t, "id", cols[0].Name)
	assert.Equal(t, "title", cols[1].Name)
	assert.False(t, cols[1].Nullable)
	assert.True(t, cols[2].HasDefault)

	pk, err := backend.Introspection().PrimaryKeyColumns(ctx, "entries")
	require.NoError(t, err)
	assert.Equal(t, []string{"id"}, pk)
}

func TestReferences(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "refs.db")

	backend, err := New(&db.Config{Engine: "sqlite", Name: path})
	require.NoError(t, err)
	require.NoError(t, backend.Connect(ctx))
	defer backend.Disconnect(ctx)

	_, err = backend.DB().ExecContext(ctx, `CREATE TABLE users (id INTEGER PRIMARY KEY)`)
	require.NoError(t, err)
	_, err = backend.DB().ExecContext(ctx, `
		CREATE TABLE posts (
			id INTEGER PRIMARY KEY,
			user_id INTEGER REFERENCES users(id)
		)`)
	require.NoError(t, err)

	refs, err := backend.Introspection().References(ctx, "users")
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "posts", refs[0].Table)
}

func TestDialect(t *testing.T) {
	ops := Operations{}
	assert.Equal(t, `"title"`, ops.QuoteName("title"))

	lit, err := ops.QuoteValue("O'Neil")
	require.NoError(t, err)
	assert.Equal(t, "'O''Neil'", lit)

	_, ok := ops.Operator("exact")
	assert.True(t, ok)
	assert.Equal(t, 0, ops.MaxNameLength())
}
