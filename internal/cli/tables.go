package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var tablesCmd = &cobra.Command{
	Use:   "tables",
	Short: "List user tables",
	Long:  `List the user tables of the configured database.`,
	RunE:  runTables,
}

var columnsCmd = &cobra.Command{
	Use:   "columns <table>",
	Short: "Describe the columns of a table",
	Long:  `Show name, type, nullability and default flag for each column of a table.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runColumns,
}

func runTables(cmd *cobra.Command, args []string) error {
	tables, err := database.Introspection().TableNames(cmd.Context())
	if err != nil {
		return err
	}
	if len(tables) == 0 {
		fmt.Println("No tables found.")
		return nil
	}
	for _, table := range tables {
		fmt.Println(table)
	}
	return nil
}

func runColumns(cmd *cobra.Command, args []string) error {
	table := args[0]
	cols, err := database.Introspection().Columns(cmd.Context(), table)
	if err != nil {
		return err
	}
	if len(cols) == 0 {
		return fmt.Errorf("table %q has no columns or does not exist", table)
	}

	pk, err := database.Introspection().PrimaryKeyColumns(cmd.Context(), table)
	if err != nil {
		return err
	}
	pkSet := make(map[string]bool, len(pk))
	for _, name := range pk {
		pkSet[name] = true
	}

	for _, col := range cols {
		flags := ""
		if pkSet[col.Name] {
			flags += " PK"
		}
		if !col.Nullable {
			flags += " NOT NULL"
		}
		if col.HasDefault {
			flags += " DEFAULT"
		}
		t := col.DataType
		if col.Length > 0 && (t == "varchar" || t == "char") {
			t = fmt.Sprintf("%s(%d)", t, col.Length)
		}
		fmt.Printf("%-31s %s%s\n", col.Name, t, flags)
	}
	return nil
}
