package firebird

import (
	"context"
	"fmt"
	"strings"

	"github.com/fbsql/fbsql/internal/logger"
)

// ErrTableRename is returned for rename-table requests: Firebird has no
// ALTER TABLE ... RENAME.
var ErrTableRename = fmt.Errorf("firebird does not support renaming tables")

// Generic column kinds and their Firebird column types. Sized kinds
// carry a fmt verb filled from the column definition.
var columnTypes = map[string]string{
	"auto":          "integer generated by default as identity",
	"bigauto":       "bigint generated by default as identity",
	"binary":        "blob sub_type 0",
	"bool":          "boolean",
	"char":          "varchar(%d)",
	"date":          "date",
	"datetime":      "timestamp",
	"decimal":       "decimal(%d, %d)",
	"duration":      "bigint",
	"float":         "double precision",
	"int":           "integer",
	"bigint":        "bigint",
	"ipaddress":     "char(39)",
	"positiveint":   "integer",
	"positivesmall": "smallint",
	"smallint":      "smallint",
	"text":          "blob sub_type 1",
	"time":          "time",
	"uuid":          "char(32)",
}

// Check constraints attached to a kind; %s is the quoted column name.
var columnChecks = map[string]string{
	"positiveint":   "%s >= 0",
	"positivesmall": "%s >= 0",
}

// ColumnDef describes one column for DDL generation.
type ColumnDef struct {
	Name          string
	Kind          string // key into columnTypes
	MaxLength     int    // for char
	MaxDigits     int    // for decimal
	DecimalPlaces int    // for decimal
	PrimaryKey    bool
	Unique        bool
	NotNull       bool
	Default       interface{}
	HasDefault    bool
}

// ColumnType resolves the Firebird type of a column definition.
func ColumnType(col ColumnDef) (string, error) {
	t, ok := columnTypes[col.Kind]
	if !ok {
		return "", fmt.Errorf("unknown column kind %q", col.Kind)
	}
	switch col.Kind {
	case "char":
		return fmt.Sprintf(t, col.MaxLength), nil
	case "decimal":
		return fmt.Sprintf(t, col.MaxDigits, col.DecimalPlaces), nil
	default:
		return t, nil
	}
}

// ColumnSQL assembles the full column clause: type, key markers,
// nullability and quoted default.
func ColumnSQL(col ColumnDef) (string, error) {
	ops := Operations{}
	t, err := ColumnType(col)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.WriteString(ops.QuoteName(col.Name))
	b.WriteByte(' ')
	b.WriteString(t)
	if col.HasDefault {
		lit, err := ops.QuoteValue(col.Default)
		if err != nil {
			return "", fmt.Errorf("column %q default: %w", col.Name, err)
		}
		b.WriteString(" DEFAULT ")
		b.WriteString(lit)
	}
	if col.NotNull && !col.PrimaryKey {
		b.WriteString(" NOT NULL")
	}
	if col.PrimaryKey {
		b.WriteString(" PRIMARY KEY")
	} else if col.Unique {
		b.WriteString(" UNIQUE")
	}
	return b.String(), nil
}

// CreateTableSQL builds the CREATE TABLE statement for a set of columns,
// including the check constraints their kinds imply.
func CreateTableSQL(table string, cols []ColumnDef) (string, error) {
	ops := Operations{}
	clauses := make([]string, 0, len(cols))
	for _, col := range cols {
		clause, err := ColumnSQL(col)
		if err != nil {
			return "", err
		}
		clauses = append(clauses, clause)
	}
	for _, col := range cols {
		if check, ok := columnChecks[col.Kind]; ok {
			clauses = append(clauses, "CHECK ("+fmt.Sprintf(check, ops.QuoteName(col.Name))+")")
		}
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", ops.QuoteName(table), strings.Join(clauses, ", ")), nil
}

// DropTableSQL builds the DROP TABLE statement.
func DropTableSQL(table string) string {
	return fmt.Sprintf("DROP TABLE %s", Operations{}.QuoteName(table))
}

// AddColumnSQL builds the ALTER TABLE ... ADD statement.
func AddColumnSQL(table string, col ColumnDef) (string, error) {
	clause, err := ColumnSQL(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ADD %s", Operations{}.QuoteName(table), clause), nil
}

// DropColumnSQL builds the ALTER TABLE ... DROP statement.
func DropColumnSQL(table, column string) string {
	ops := Operations{}
	return fmt.Sprintf("ALTER TABLE %s DROP %s", ops.QuoteName(table), ops.QuoteName(column))
}

// AlterColumnTypeSQL builds the statement changing a column's type.
func AlterColumnTypeSQL(table string, col ColumnDef) (string, error) {
	ops := Operations{}
	t, err := ColumnType(col)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER %s TYPE %s",
		ops.QuoteName(table), ops.QuoteName(col.Name), t), nil
}

// SetColumnDefaultSQL builds the statement setting a column default. The
// default is inlined as a literal: the engine will not prepare DDL with
// parameters.
func SetColumnDefaultSQL(table, column string, value interface{}) (string, error) {
	ops := Operations{}
	lit, err := ops.QuoteValue(value)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s SET DEFAULT %s",
		ops.QuoteName(table), ops.QuoteName(column), lit), nil
}

// DropColumnDefaultSQL builds the statement removing a column default.
func DropColumnDefaultSQL(table, column string) string {
	ops := Operations{}
	return fmt.Sprintf("ALTER TABLE %s ALTER COLUMN %s DROP DEFAULT",
		ops.QuoteName(table), ops.QuoteName(column))
}

// RenameColumnSQL builds the ALTER ... TO rename statement.
func RenameColumnSQL(table, oldName, newName string) string {
	ops := Operations{}
	return fmt.Sprintf("ALTER TABLE %s ALTER %s TO %s",
		ops.QuoteName(table), ops.QuoteName(oldName), ops.QuoteName(newName))
}

// RenameTableSQL always fails with ErrTableRename.
func RenameTableSQL(oldName, newName string) (string, error) {
	return "", ErrTableRename
}

// AddForeignKeySQL builds the ADD CONSTRAINT ... FOREIGN KEY statement.
func AddForeignKeySQL(table, name, column, toTable, toColumn string) string {
	ops := Operations{}
	return fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s FOREIGN KEY (%s) REFERENCES %s (%s) ON DELETE CASCADE",
		ops.QuoteName(table), ops.QuoteName(name), ops.QuoteName(column),
		ops.QuoteName(toTable), ops.QuoteName(toColumn))
}

// DropForeignKeySQL builds the DROP CONSTRAINT statement.
func DropForeignKeySQL(table, name string) string {
	ops := Operations{}
	return fmt.Sprintf("ALTER TABLE %s DROP CONSTRAINT %s",
		ops.QuoteName(table), ops.QuoteName(name))
}

// SchemaEditor executes DDL against a connected backend.
type SchemaEditor struct {
	backend *Backend
}

func (se *SchemaEditor) execute(ctx context.Context, statement string) error {
	if se.backend.sqlDB == nil {
		return fmt.Errorf("not connected to database")
	}
	logger.Debug("schema: %s", statement)
	if _, err := se.backend.sqlDB.ExecContext(ctx, statement); err != nil {
		return fmt.Errorf("failed to execute %q: %w", statement, err)
	}
	return nil
}

// CreateTable creates a table from column definitions.
func (se *SchemaEditor) CreateTable(ctx context.Context, table string, cols []ColumnDef) error {
	statement, err := CreateTableSQL(table, cols)
	if err != nil {
		return err
	}
	return se.execute(ctx, statement)
}

// DropTable drops a table. Foreign key constraints pointing at it from
// other tables are dropped first, otherwise the engine refuses.
func (se *SchemaEditor) DropTable(ctx context.Context, table string) error {
	refs, err := se.backend.Introspection().References(ctx, table)
	if err != nil {
		return err
	}
	for _, ref := range refs {
		if err := se.execute(ctx, DropForeignKeySQL(ref.Table, ref.ConstraintName)); err != nil {
			return err
		}
	}
	return se.execute(ctx, DropTableSQL(table))
}

// AddColumn adds a column to an existing table.
func (se *SchemaEditor) AddColumn(ctx context.Context, table string, col ColumnDef) error {
	statement, err := AddColumnSQL(table, col)
	if err != nil {
		return err
	}
	return se.execute(ctx, statement)
}

// DropColumn removes a column.
func (se *SchemaEditor) DropColumn(ctx context.Context, table, column string) error {
	return se.execute(ctx, DropColumnSQL(table, column))
}

// RenameColumn renames a column in place.
func (se *SchemaEditor) RenameColumn(ctx context.Context, table, oldName, newName string) error {
	return se.execute(ctx, RenameColumnSQL(table, oldName, newName))
}

// AlterColumnType changes a column's type. Indexes covering the column
// survive a type change on this engine, so none are touched here.
func (se *SchemaEditor) AlterColumnType(ctx context.Context, table string, col ColumnDef) error {
	statement, err := AlterColumnTypeSQL(table, col)
	if err != nil {
		return err
	}
	return se.execute(ctx, statement)
}
