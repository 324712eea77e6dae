// Package sqlite implements the database backend for SQLite. It exists
// so local development and tests can run without a Firebird server; the
// registry dispatches to it under the "sqlite" engine.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/fbsql/fbsql/internal/db"
	"github.com/fbsql/fbsql/internal/logger"
)

// Backend implements the db.Database interface for SQLite.
type Backend struct {
	config *db.Config
	path   string
	sqlDB  *sql.DB
}

func init() {
	factory := func(cfg *db.Config) (db.Database, error) { return New(cfg) }
	db.Register("sqlite", factory)
	db.Register("sqlite3", factory)
}

// New creates an unconnected SQLite backend. NAME is the database file
// path and is required; HOST, PORT, USER and PASSWORD are ignored.
func New(cfg *db.Config) (*Backend, error) {
	path, err := Translate(cfg)
	if err != nil {
		return nil, err
	}
	return &Backend{config: cfg, path: path}, nil
}

// Translate maps a settings record onto the driver's file path,
// expanding ~ and relative paths.
func Translate(cfg *db.Config) (string, error) {
	if cfg == nil || cfg.Name == "" {
		return "", fmt.Errorf("sqlite: settings are missing the NAME value: %w", db.ErrMisconfigured)
	}
	path := cfg.Name
	if path == ":memory:" {
		return path, nil
	}
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	} else if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to resolve absolute path: %w", err)
		}
		path = absPath
	}
	return path, nil
}

// Path returns the translated database file path.
func (b *Backend) Path() string {
	return b.path
}

// Connect opens the database file, creating its directory if needed.
func (b *Backend) Connect(ctx context.Context) error {
	if b.path != ":memory:" {
		dir := filepath.Dir(b.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", b.path)
	if err != nil {
		return fmt.Errorf("failed to open SQLite database at path '%s': %w", b.path, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return fmt.Errorf("failed to ping SQLite database at path '%s': %w", b.path, err)
	}
	b.sqlDB = sqlDB
	logger.Debug("connected to sqlite at %s", b.path)
	return nil
}

// Disconnect closes the connection.
func (b *Backend) Disconnect(ctx context.Context) error {
	if b.sqlDB != nil {
		return b.sqlDB.Close()
	}
	return nil
}

// Ping checks the database connection.
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

// Dialect returns the SQLite dialect helpers.
func (b *Backend) Dialect() db.Dialect {
	return Operations{}
}

// Introspection reads the sqlite_master catalog.
func (b *Backend) Introspection() db.Introspector {
	return &Introspection{backend: b}
}

// Operations implements db.Dialect for SQLite.
type Operations struct{}

var _ db.Dialect = Operations{}

func (Operations) QuoteName(name string) string {
	if strings.HasPrefix(name, `"`) && strings.HasSuffix(name, `"`) {
		return name
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (Operations) QuoteValue(v interface{}) (string, error) {
	switch v := v.(type) {
	case nil:
		return "NULL", nil
	case string:
		return "'" + strings.ReplaceAll(v, "'", "''") + "'", nil
	case bool:
		if v {
			return "1", nil
		}
		return "0", nil
	case int, int64:
		return fmt.Sprintf("%d", v), nil
	case float64:
		return fmt.Sprintf("%g", v), nil
	case time.Time:
		return "'" + v.UTC().Format("2006-01-02 15:04:05") + "'", nil
	default:
		return "", fmt.Errorf("cannot quote value of type %T", v)
	}
}

func (Operations) Operator(lookup string) (string, bool) {
	op, ok := operators[lookup]
	return op, ok
}

func (Operations) AdaptTime(t time.Time) time.Time {
	return t.UTC()
}

func (Operations) MaxNameLength() int {
	return 0
}

var operators = map[string]string{
	"exact":       "= %s",
	"iexact":      "LIKE %s ESCAPE '\\'",
	"contains":    "LIKE %s ESCAPE '\\'",
	"icontains":   "LIKE %s ESCAPE '\\'",
	"gt":          "> %s",
	"gte":         ">= %s",
	"lt":          "< %s",
	"lte":         "<= %s",
	"startswith":  "LIKE %s ESCAPE '\\'",
	"endswith":    "LIKE %s ESCAPE '\\'",
	"istartswith": "LIKE %s ESCAPE '\\'",
	"iendswith":   "LIKE %s ESCAPE '\\'",
}

// Introspection implements db.Introspector over sqlite_master and the
// table_info pragma.
type Introspection struct {
	backend *Backend
}

var _ db.Introspector = (*Introspection)(nil)

func (in *Introspection) conn() (*sql.DB, error) {
	if in.backend.sqlDB == nil {
		return nil, fmt.Errorf("not connected to database")
	}
	return in.backend.sqlDB, nil
}

func (in *Introspection) TableNames(ctx context.Context) ([]string, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name`
	rows, err := sqlDB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (in *Introspection) Columns(ctx context.Context, table string) ([]db.Column, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", Operations{}.QuoteName(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan column of %q: %w", table, err)
		}
		cols = append(cols, db.Column{
			Name:       name,
			DataType:   strings.ToLower(dataType),
			Nullable:   notNull == 0,
			HasDefault: dflt.Valid,
		})
	}
	return cols, rows.Err()
}

func (in *Introspection) PrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx,
		fmt.Sprintf("PRAGMA table_info(%s)", Operations{}.QuoteName(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read primary key of %q: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			cid, notNull, pk int
			name, dataType   string
			dflt             sql.NullString
		)
		if err := rows.Scan(&cid, &name, &dataType, &notNull, &dflt, &pk); err != nil {
			return nil, fmt.Errorf("failed to scan key column of %q: %w", table, err)
		}
		if pk > 0 {
			cols = append(cols, name)
		}
	}
	return cols, rows.Err()
}

func (in *Introspection) ColumnIndexes(ctx context.Context, table, column string) ([]db.Index, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	rows, err := sqlDB.QueryContext(ctx,
		fmt.Sprintf("PRAGMA index_list(%s)", Operations{}.QuoteName(table)))
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes of %q: %w", table, err)
	}
	defer rows.Close()

	type listed struct {
		name   string
		unique bool
	}
	var all []listed
	for rows.Next() {
		var (
			seq, unique, partial int
			name, origin         string
		)
		if err := rows.Scan(&seq, &name, &unique, &origin, &partial); err != nil {
			return nil, fmt.Errorf("failed to scan index of %q: %w", table, err)
		}
		all = append(all, listed{name: name, unique: unique != 0})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var indexes []db.Index
	for _, idx := range all {
		cols, err := in.indexColumns(ctx, sqlDB, idx.name)
		if err != nil {
			return nil, err
		}
		for _, col := range cols {
			if col == column {
				constraint := ""
				if idx.unique {
					constraint = "UNIQUE"
				}
				indexes = append(indexes, db.Index{Name: idx.name, ConstraintType: constraint})
				break
			}
		}
	}
	return indexes, nil
}

func (in *Introspection) indexColumns(ctx context.Context, sqlDB *sql.DB, index string) ([]string, error) {
	rows, err := sqlDB.QueryContext(ctx,
		fmt.Sprintf("PRAGMA index_info(%s)", Operations{}.QuoteName(index)))
	if err != nil {
		return nil, fmt.Errorf("failed to read index %q: %w", index, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var (
			seqno, cid int
			name       sql.NullString
		)
		if err := rows.Scan(&seqno, &cid, &name); err != nil {
			return nil, fmt.Errorf("failed to scan index %q: %w", index, err)
		}
		if name.Valid {
			cols = append(cols, name.String)
		}
	}
	return cols, rows.Err()
}

func (in *Introspection) References(ctx context.Context, table string) ([]db.Reference, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	tables, err := in.TableNames(ctx)
	if err != nil {
		return nil, err
	}

	var refs []db.Reference
	for _, other := range tables {
		rows, err := sqlDB.QueryContext(ctx,
			fmt.Sprintf("PRAGMA foreign_key_list(%s)", Operations{}.QuoteName(other)))
		if err != nil {
			return nil, fmt.Errorf("failed to read foreign keys of %q: %w", other, err)
		}
		for rows.Next() {
			var (
				id, seq                      int
				refTable, from, to           sql.NullString
				onUpdate, onDelete, matchStr string
			)
			if err := rows.Scan(&id, &seq, &refTable, &from, &to, &onUpdate, &onDelete, &matchStr); err != nil {
				rows.Close()
				return nil, fmt.Errorf("failed to scan foreign key of %q: %w", other, err)
			}
			if refTable.Valid && strings.EqualFold(refTable.String, table) {
				refs = append(refs, db.Reference{Table: other})
			}
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return nil, err
		}
		rows.Close()
	}
	return refs, nil
}
