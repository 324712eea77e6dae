package db

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationFamily(t *testing.T) {
	assert.Equal(t, "firebird", migrationFamily("firebird"))
	assert.Equal(t, "firebird", migrationFamily("firebirdsql"))
	assert.Equal(t, "sqlite", migrationFamily("sqlite"))
	assert.Equal(t, "sqlite", migrationFamily("sqlite3"))
}

func TestResolveMigrationsDirPicksEngineSubdir(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "firebird"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, "sqlite"), 0755))

	dir, err := resolveMigrationsDir("firebird", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "firebird"), dir)

	dir, err = resolveMigrationsDir("sqlite3", root)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "sqlite"), dir)
}

func TestResolveMigrationsDirFlatTree(t *testing.T) {
	root := t.TempDir()

	dir, err := resolveMigrationsDir("firebird", root)
	require.NoError(t, err)
	assert.Equal(t, root, dir)
}

func TestResolveMigrationsDirMissing(t *testing.T) {
	_, err := resolveMigrationsDir("firebird", filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
}

func TestRunMigrationsSelectsEngineDir(t *testing.T) {
	root := t.TempDir()
	sqliteDir := filepath.Join(root, "sqlite")
	firebirdDir := filepath.Join(root, "firebird")
	require.NoError(t, os.MkdirAll(sqliteDir, 0755))
	require.NoError(t, os.MkdirAll(firebirdDir, 0755))

	// The firebird file would not parse on sqlite; it must not be picked.
	require.NoError(t, os.WriteFile(
		filepath.Join(firebirdDir, "0001_init.up.sql"),
		[]byte(`CREATE TABLE "demo" ("id" integer generated by default as identity PRIMARY KEY);`),
		0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(firebirdDir, "0001_init.down.sql"),
		[]byte(`DROP TABLE "demo";`), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(sqliteDir, "0001_init.up.sql"),
		[]byte(`CREATE TABLE "demo" ("id" integer PRIMARY KEY);`), 0644))
	require.NoError(t, os.WriteFile(
		filepath.Join(sqliteDir, "0001_init.down.sql"),
		[]byte(`DROP TABLE "demo";`), 0644))

	sqlDB, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "migrate.db"))
	require.NoError(t, err)
	defer sqlDB.Close()

	require.NoError(t, RunMigrations("sqlite", sqlDB, root))

	var name string
	err = sqlDB.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = 'demo'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "demo", name)

	// Running again is a no-op, not an error.
	require.NoError(t, RunMigrations("sqlite", sqlDB, root))

	version, dirty, ok, err := MigrationVersion("sqlite", sqlDB, root)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.False(t, dirty)
	assert.Equal(t, uint(1), version)
}
