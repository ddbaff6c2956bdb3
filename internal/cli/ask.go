package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var askCollection string

var askCmd = &cobra.Command{
	Use:   "ask <query>",
	Short: "Ask a question about an indexed document",
	Long: `Ask a natural-language question answered from the indexed content of a
previously uploaded document.

The collection name is printed by 'docchat upload' when indexing starts.

Examples:
  docchat ask "What was the revenue?" -c pdf-7d1f4a...
  docchat ask "Summarize chapter 2" --collection pdf-7d1f4a...`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().StringVarP(&askCollection, "collection", "c", "", "collection name from a completed indexing job")
	_ = askCmd.MarkFlagRequired("collection")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	answer, err := restClient.Chat(context.Background(), args[0], askCollection)
	if err != nil {
		return fmt.Errorf("ask: %w", err)
	}

	fmt.Println(answer)
	return nil
}
