package db

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// ErrMisconfigured is the single configuration error kind of this layer.
// It is returned (wrapped) when a settings record is missing required
// fields or names an engine nobody registered. Driver and SQL errors are
// surfaced unmodified.
var ErrMisconfigured = errors.New("database settings are misconfigured")

// Config holds the connection settings for one database alias.
// It is built once at startup and read only afterwards.
type Config struct {
	Engine   string            // engine identifier, e.g. "firebird", "sqlite"
	Name     string            // database file path or alias (required)
	Host     string            // server host, engine default when empty
	Port     int               // server port, engine default when zero
	User     string
	Password string
	Options  map[string]string // extra driver options, passed through
}

// Database is the interface every engine backend implements.
type Database interface {
	// Connection management
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error
	Ping(ctx context.Context) error

	// DB exposes the underlying pool for the generic query layer.
	// Only valid after Connect.
	DB() *sql.DB

	// Dialect returns the SQL dialect helpers for this engine.
	Dialect() Dialect

	// Introspection returns the schema discovery hooks for this engine.
	Introspection() Introspector
}

// Dialect exposes the engine-specific pieces the generic SQL layer
// dispatches on: quoting rules and lookup operators.
type Dialect interface {
	// QuoteName quotes a table or column identifier.
	QuoteName(name string) string

	// QuoteValue renders a Go value as a SQL literal. Used for DDL
	// defaults and logging, never for regular query parameters.
	QuoteValue(v interface{}) (string, error)

	// Operator maps a generic lookup name ("exact", "icontains", ...)
	// to the engine's comparison fragment. ok is false for lookups the
	// engine does not support.
	Operator(lookup string) (sql string, ok bool)

	// AdaptTime converts a timestamp to the form the engine stores.
	AdaptTime(t time.Time) time.Time

	// MaxNameLength is the engine's identifier length limit, 0 for none.
	MaxNameLength() int
}

// Column describes one column as reported by introspection.
type Column struct {
	Name       string
	DataType   string // engine type name, e.g. "varchar", "bigint"
	Length     int    // char length for text types, 0 otherwise
	Precision  int
	Scale      int
	Nullable   bool
	HasDefault bool
}

// Index describes one index covering a column.
type Index struct {
	Name           string
	ConstraintType string // "PRIMARY KEY", "UNIQUE", "FOREIGN KEY" or ""
	ConstraintName string
}

// Reference is an incoming foreign key: a constraint on Table pointing
// at the table that was introspected.
type Reference struct {
	ConstraintName string
	Table          string
}

// Introspector exposes schema discovery against a connected database.
type Introspector interface {
	TableNames(ctx context.Context) ([]string, error)
	Columns(ctx context.Context, table string) ([]Column, error)
	PrimaryKeyColumns(ctx context.Context, table string) ([]string, error)
	ColumnIndexes(ctx context.Context, table, column string) ([]Index, error)
	References(ctx context.Context, table string) ([]Reference, error)
}
