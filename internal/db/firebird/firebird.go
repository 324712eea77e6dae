// Package firebird implements the database backend for the Firebird
// RDBMS on top of github.com/nakagami/firebirdsql.
//
// The backend translates a settings record into the driver's connection
// arguments and supplies the dialect, feature and introspection hooks a
// generic SQL layer dispatches on. Query execution, pooling and
// transactions belong to database/sql and the driver.
package firebird

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/nakagami/firebirdsql"

	"github.com/fbsql/fbsql/internal/db"
	"github.com/fbsql/fbsql/internal/logger"
)

// Backend implements the db.Database interface for Firebird.
type Backend struct {
	config *db.Config
	params *ConnParams
	sqlDB  *sql.DB
}

func init() {
	factory := func(cfg *db.Config) (db.Database, error) { return New(cfg) }
	db.Register("firebird", factory)
	db.Register("firebirdsql", factory)
}

// New creates an unconnected Firebird backend. The settings record is
// translated eagerly so misconfiguration surfaces before any I/O.
func New(cfg *db.Config) (*Backend, error) {
	params, err := Translate(cfg)
	if err != nil {
		return nil, err
	}
	return &Backend{config: cfg, params: params}, nil
}

// Params returns the translated connection arguments.
func (b *Backend) Params() *ConnParams {
	return b.params
}

// Connect opens the pool and verifies the server is reachable.
func (b *Backend) Connect(ctx context.Context) error {
	sqlDB, err := sql.Open(DriverName, b.params.DSN())
	if err != nil {
		return fmt.Errorf("failed to open firebird database %q: %w", b.params.Database, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping firebird database %q: %w", b.params.Database, err)
	}
	b.sqlDB = sqlDB
	logger.Debug("connected to firebird at %s", b.params.Redacted())
	return nil
}

// Disconnect closes the pool.
func (b *Backend) Disconnect(ctx context.Context) error {
	if b.sqlDB != nil {
		return b.sqlDB.Close()
	}
	return nil
}

// Ping checks the connection.
func (b *Backend) Ping(ctx context.Context) error {
	if b.sqlDB == nil {
		return fmt.Errorf("not connected to database")
	}
	return b.sqlDB.PingContext(ctx)
}

// DB exposes the underlying pool.
func (b *Backend) DB() *sql.DB {
	return b.sqlDB
}

// Dialect returns the Firebird SQL dialect helpers.
func (b *Backend) Dialect() db.Dialect {
	return Operations{}
}

// Introspection returns the RDB$ catalog reader for this connection.
func (b *Backend) Introspection() db.Introspector {
	return &Introspection{backend: b}
}

// Schema returns a DDL editor bound to this connection.
func (b *Backend) Schema() *SchemaEditor {
	return &SchemaEditor{backend: b}
}
