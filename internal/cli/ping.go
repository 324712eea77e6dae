package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check the database connection",
	Long:  `Open the configured backend and verify the database answers.`,
	RunE:  runPing,
}

func runPing(cmd *cobra.Command, args []string) error {
	if err := database.Ping(cmd.Context()); err != nil {
		return fmt.Errorf("ping failed: %w", err)
	}
	fmt.Println("✅ Database is reachable")
	return nil
}
