// Package cli provides the command-line interface for docchat.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/docfin/docchat/internal/client"
)

var (
	// Version is set at build time.
	Version = "0.1.0"

	// Global flags
	serverURL string

	// REST client shared by all commands.
	restClient *client.Client
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with your documents",
	Long: `Docchat uploads documents to a docchat server, tracks their indexing
jobs, and asks questions answered from the indexed content.`,
	Version: Version,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		restClient = client.New(serverURL)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "", "server URL (default $DOCCHAT_SERVER_URL or http://localhost:3001)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
