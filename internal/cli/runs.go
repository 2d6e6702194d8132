package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/wire"
)

// RunsCmd returns the runs command
func RunsCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recorded shard runs",
		Long: `Show the shard run registry, newest first. Every worker records a run
when it starts and finalizes it with counters when it exits.

Examples:
  advgen runs
  advgen runs --limit 5`,
		RunE: func(cmd *cobra.Command, args []string) error {
			runs, err := wire.RunRepository().List(context.Background(), limit)
			if err != nil {
				return fmt.Errorf("failed to list runs: %w", err)
			}
			if len(runs) == 0 {
				fmt.Println("No runs recorded yet.")
				return nil
			}

			fmt.Printf("%-9s %-24s %-11s %6s %6s %9s  %s\n",
				"RUN", "SHARD", "STATUS", "OK", "FAIL", "REALIZED", "STARTED")
			for _, run := range runs {
				status := run.Status
				switch status {
				case "completed":
					status = color.New(color.FgGreen).Sprint(status)
				case "failed":
					status = color.New(color.FgRed).Sprint(status)
				case "running":
					status = color.New(color.FgCyan).Sprint(status)
				}
				fmt.Printf("%-9s %-24s %-11s %6d %6d %8.2f%%  %s\n",
					run.ID, run.ShardID, status, run.ProblemsOK, run.ProblemsFailed,
					run.RealizedPerc, run.StartedAt)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of runs to show")

	return cmd
}
