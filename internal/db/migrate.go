package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/firebird"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

// migrationFamily names the per-engine subdirectory of a migrations
// tree. Migration SQL is dialect specific, so each engine family keeps
// its own files.
func migrationFamily(engine string) string {
	switch engine {
	case "firebird", "firebirdsql":
		return "firebird"
	case "sqlite", "sqlite3":
		return "sqlite"
	default:
		return engine
	}
}

// resolveMigrationsDir picks the engine's subdirectory when the tree has
// one, otherwise the directory itself.
func resolveMigrationsDir(engine, migrationsDir string) (string, error) {
	if migrationsDir == "" {
		migrationsDir = "migrations"
	}
	absPath, err := filepath.Abs(migrationsDir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve migrations path: %w", err)
	}
	if sub := filepath.Join(absPath, migrationFamily(engine)); dirExists(sub) {
		return sub, nil
	}
	if !dirExists(absPath) {
		return "", fmt.Errorf("migrations directory not found: %s", absPath)
	}
	return absPath, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func newMigrator(engine string, sqlDB *sql.DB, migrationsDir string) (*migrate.Migrate, error) {
	absPath, err := resolveMigrationsDir(engine, migrationsDir)
	if err != nil {
		return nil, err
	}

	var driver database.Driver
	switch engine {
	case "firebird", "firebirdsql":
		driver, err = firebird.WithInstance(sqlDB, &firebird.Config{})
	case "sqlite", "sqlite3":
		driver, err = sqlite3.WithInstance(sqlDB, &sqlite3.Config{})
	default:
		return nil, fmt.Errorf("no migration driver for engine %q: %w", engine, ErrMisconfigured)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create %s migration driver: %w", engine, err)
	}

	sourceURL := fmt.Sprintf("file://%s", absPath)
	if !strings.HasPrefix(absPath, "/") {
		sourceURL = fmt.Sprintf("file:///%s", absPath)
	}

	m, err := migrate.NewWithDatabaseInstance(sourceURL, engine, driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}

// RunMigrations applies all pending migrations from migrationsDir to an
// already connected backend. A missing directory is an error; an
// up-to-date database is not.
func RunMigrations(engine string, sqlDB *sql.DB, migrationsDir string) error {
	m, err := newMigrator(engine, sqlDB, migrationsDir)
	if err != nil {
		return err
	}
	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// MigrationVersion reports the current schema version and whether the
// database is in a dirty (half-migrated) state. ok is false when no
// migration has been applied yet.
func MigrationVersion(engine string, sqlDB *sql.DB, migrationsDir string) (version uint, dirty, ok bool, err error) {
	m, err := newMigrator(engine, sqlDB, migrationsDir)
	if err != nil {
		return 0, false, false, err
	}
	version, dirty, err = m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, false, nil
	}
	if err != nil {
		return 0, false, false, fmt.Errorf("failed to read migration version: %w", err)
	}
	return version, dirty, true, nil
}
