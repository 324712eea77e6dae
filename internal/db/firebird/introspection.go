package firebird

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/fbsql/fbsql/internal/db"
)

// Introspection reads schema information from the RDB$ system tables of
// a connected database.
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

// TableNames lists user tables, excluding views and system relations.
func (in *Introspection) TableNames(ctx context.Context) ([]string, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT TRIM(RDB$RELATION_NAME)
		FROM RDB$RELATIONS
		WHERE RDB$SYSTEM_FLAG = 0 AND RDB$VIEW_BLR IS NULL
		ORDER BY RDB$RELATION_NAME`
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

// Columns describes the columns of a table in declaration order.
func (in *Introspection) Columns(ctx context.Context, table string) ([]db.Column, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT TRIM(rf.RDB$FIELD_NAME),
		       f.RDB$FIELD_TYPE,
		       COALESCE(f.RDB$FIELD_SUB_TYPE, 0),
		       COALESCE(f.RDB$CHARACTER_LENGTH, 0),
		       COALESCE(f.RDB$FIELD_PRECISION, 0),
		       COALESCE(f.RDB$FIELD_SCALE, 0),
		       COALESCE(rf.RDB$NULL_FLAG, 0),
		       CASE WHEN rf.RDB$DEFAULT_SOURCE IS NULL THEN 0 ELSE 1 END
		FROM RDB$RELATION_FIELDS rf
		JOIN RDB$FIELDS f ON rf.RDB$FIELD_SOURCE = f.RDB$FIELD_NAME
		WHERE UPPER(rf.RDB$RELATION_NAME) = UPPER(?)
		ORDER BY rf.RDB$FIELD_POSITION`
	rows, err := sqlDB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to describe table %q: %w", table, err)
	}
	defer rows.Close()

	var cols []db.Column
	for rows.Next() {
		var (
			col                 db.Column
			fieldType, subType  int
			scale               int
			notNull, hasDefault int
		)
		if err := rows.Scan(&col.Name, &fieldType, &subType, &col.Length,
			&col.Precision, &scale, &notNull, &hasDefault); err != nil {
			return nil, fmt.Errorf("failed to scan column of %q: %w", table, err)
		}
		col.DataType = fieldTypeName(fieldType, subType, scale)
		col.Scale = -scale
		col.Nullable = notNull == 0
		col.HasDefault = hasDefault != 0
		cols = append(cols, col)
	}
	return cols, rows.Err()
}

// PrimaryKeyColumns lists the primary key columns of a table in key order.
func (in *Introspection) PrimaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT TRIM(s.RDB$FIELD_NAME)
		FROM RDB$RELATION_CONSTRAINTS rc
		JOIN RDB$INDEX_SEGMENTS s ON rc.RDB$INDEX_NAME = s.RDB$INDEX_NAME
		WHERE rc.RDB$CONSTRAINT_TYPE = 'PRIMARY KEY'
		AND UPPER(rc.RDB$RELATION_NAME) = UPPER(?)
		ORDER BY s.RDB$FIELD_POSITION`
	rows, err := sqlDB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read primary key of %q: %w", table, err)
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan key column of %q: %w", table, err)
		}
		cols = append(cols, name)
	}
	return cols, rows.Err()
}

// ColumnIndexes lists the indexes covering one column, with the backing
// constraint when the index enforces one.
func (in *Introspection) ColumnIndexes(ctx context.Context, table, column string) ([]db.Index, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT TRIM(i.RDB$INDEX_NAME),
		       TRIM(COALESCE(rc.RDB$CONSTRAINT_TYPE, '')),
		       TRIM(COALESCE(rc.RDB$CONSTRAINT_NAME, ''))
		FROM RDB$INDICES i
		JOIN RDB$INDEX_SEGMENTS s ON i.RDB$INDEX_NAME = s.RDB$INDEX_NAME
		LEFT JOIN RDB$RELATION_CONSTRAINTS rc ON rc.RDB$INDEX_NAME = i.RDB$INDEX_NAME
		WHERE UPPER(i.RDB$RELATION_NAME) = UPPER(?)
		AND UPPER(s.RDB$FIELD_NAME) = UPPER(?)`
	rows, err := sqlDB.QueryContext(ctx, query, table, column)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes of %q.%q: %w", table, column, err)
	}
	defer rows.Close()

	var indexes []db.Index
	for rows.Next() {
		var idx db.Index
		if err := rows.Scan(&idx.Name, &idx.ConstraintType, &idx.ConstraintName); err != nil {
			return nil, fmt.Errorf("failed to scan index of %q: %w", table, err)
		}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}

// References lists the foreign key constraints on other tables that
// point at the given table. The schema editor drops these before it can
// drop the table itself.
func (in *Introspection) References(ctx context.Context, table string) ([]db.Reference, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return nil, err
	}
	const query = `
		SELECT TRIM(rc.RDB$CONSTRAINT_NAME), TRIM(rc.RDB$RELATION_NAME)
		FROM RDB$RELATION_CONSTRAINTS rc
		JOIN RDB$REF_CONSTRAINTS ref ON rc.RDB$CONSTRAINT_NAME = ref.RDB$CONSTRAINT_NAME
		JOIN RDB$RELATION_CONSTRAINTS uq ON ref.RDB$CONST_NAME_UQ = uq.RDB$CONSTRAINT_NAME
		WHERE rc.RDB$CONSTRAINT_TYPE = 'FOREIGN KEY'
		AND UPPER(uq.RDB$RELATION_NAME) = UPPER(?)`
	rows, err := sqlDB.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("failed to read references to %q: %w", table, err)
	}
	defer rows.Close()

	var refs []db.Reference
	for rows.Next() {
		var ref db.Reference
		if err := rows.Scan(&ref.ConstraintName, &ref.Table); err != nil {
			return nil, fmt.Errorf("failed to scan reference to %q: %w", table, err)
		}
		refs = append(refs, ref)
	}
	return refs, rows.Err()
}

// ColumnHasDefault reports whether a column carries a default value.
func (in *Introspection) ColumnHasDefault(ctx context.Context, table, column string) (bool, error) {
	sqlDB, err := in.conn()
	if err != nil {
		return false, err
	}
	const query = `
		SELECT COUNT(*)
		FROM RDB$RELATION_FIELDS
		WHERE UPPER(RDB$FIELD_NAME) = UPPER(?)
		AND UPPER(RDB$RELATION_NAME) = UPPER(?)
		AND RDB$DEFAULT_VALUE IS NOT NULL`
	var n int
	if err := sqlDB.QueryRowContext(ctx, query, column, table).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to probe default of %q.%q: %w", table, column, err)
	}
	return n > 0, nil
}

// Firebird RDB$FIELD_TYPE codes. Blob and integer codes carry subtype
// and scale refinements.
const (
	typeSmallint  = 7
	typeInteger   = 8
	typeFloat     = 10
	typeDate      = 12
	typeTime      = 13
	typeChar      = 14
	typeBigint    = 16
	typeBoolean   = 23
	typeDouble    = 27
	typeTimestamp = 35
	typeVarchar   = 37
	typeBlob      = 261
)

func fieldTypeName(fieldType, subType, scale int) string {
	switch fieldType {
	case typeSmallint:
		if scale < 0 {
			return "decimal"
		}
		return "smallint"
	case typeInteger:
		if scale < 0 {
			return "decimal"
		}
		return "integer"
	case typeBigint:
		if scale < 0 {
			return "decimal"
		}
		return "bigint"
	case typeFloat:
		return "float"
	case typeDouble:
		return "double precision"
	case typeDate:
		return "date"
	case typeTime:
		return "time"
	case typeTimestamp:
		return "timestamp"
	case typeChar:
		return "char"
	case typeVarchar:
		return "varchar"
	case typeBoolean:
		return "boolean"
	case typeBlob:
		if subType == 1 {
			return "blob sub_type 1"
		}
		return "blob sub_type 0"
	default:
		return fmt.Sprintf("unknown(%d)", fieldType)
	}
}
