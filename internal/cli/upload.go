package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var (
	uploadWait     bool
	uploadAttempts int
	uploadInterval time.Duration
)

var uploadCmd = &cobra.Command{
	Use:   "upload <file.pdf>",
	Short: "Upload a PDF and start indexing",
	Long: `Upload a PDF document to the server and start a background indexing job.

By default the command polls the job until it reaches a terminal state.
Giving up on polling does not stop the server-side job.

Examples:
  docchat upload report.pdf
  docchat upload report.pdf --wait=false
  docchat upload report.pdf --attempts 300 --interval 2s`,
	Args: cobra.ExactArgs(1),
	RunE: runUpload,
}

func init() {
	uploadCmd.Flags().BoolVar(&uploadWait, "wait", true, "poll until the job is terminal")
	uploadCmd.Flags().IntVar(&uploadAttempts, "attempts", 120, "polling attempt budget")
	uploadCmd.Flags().DurationVar(&uploadInterval, "interval", time.Second, "polling interval")
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	result, err := restClient.Upload(ctx, args[0])
	if err != nil {
		return fmt.Errorf("upload: %w", err)
	}

	fmt.Printf("Job:        %s\n", result.JobID)
	fmt.Printf("Collection: %s\n", result.CollectionName)

	if !uploadWait {
		fmt.Printf("\nUse 'docchat status %s' to check progress.\n", result.JobID)
		return nil
	}

	if term.IsTerminal(int(os.Stdout.Fd())) {
		return watchJob(restClient, result.JobID)
	}
	return pollJobPlain(ctx, result.JobID)
}

// pollJobPlain is the non-TTY fallback: one status line per poll.
func pollJobPlain(ctx context.Context, jobID string) error {
	lastProgress := -1
	for i := 0; i < uploadAttempts; i++ {
		job, err := restClient.Status(ctx, jobID)
		if err != nil {
			return fmt.Errorf("poll status: %w", err)
		}

		if job.Progress != lastProgress {
			fmt.Printf("[%s] %d%%\n", job.Status, job.Progress)
			lastProgress = job.Progress
		}

		switch job.Status {
		case "completed":
			fmt.Printf("Indexing completed. Ask away:\n  docchat ask \"your question\" -c %s\n", job.CollectionName)
			return nil
		case "failed":
			return fmt.Errorf("indexing failed: %s", job.Error)
		}

		time.Sleep(uploadInterval)
	}

	fmt.Printf("Job %s is still running; giving up on polling (the job continues server-side).\n", jobID)
	return nil
}
