package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check the server is reachable",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := restClient.Health(context.Background()); err != nil {
			return fmt.Errorf("health: %w", err)
		}
		fmt.Println("Server is running")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthCmd)
}
