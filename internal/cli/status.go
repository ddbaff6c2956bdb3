package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status <job-id>",
	Short: "Show the status of an indexing job",
	Args:  cobra.ExactArgs(1),
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	job, err := restClient.Status(context.Background(), args[0])
	if err != nil {
		return fmt.Errorf("status: %w", err)
	}

	fmt.Printf("Job:        %s\n", job.JobID)
	fmt.Printf("Status:     %s\n", job.Status)
	fmt.Printf("Progress:   %d%%\n", job.Progress)
	if job.CollectionName != "" {
		fmt.Printf("Collection: %s\n", job.CollectionName)
	}
	if job.Error != "" {
		fmt.Printf("Error:      %s\n", job.Error)
	}
	return nil
}
