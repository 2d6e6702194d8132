package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/wire"
)

// StatusCmd returns the status command
func StatusCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "status [shard-id...]",
		Short: "Show shard worker states",
		Long: `Report the liveness of shard workers. Stale PID records (recorded
worker no longer alive) are repaired as a side effect.

Examples:
  advgen status blocksworld-20
  advgen status --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shards, err := resolveShards(wire.Config(), args, all)
			if err != nil {
				return err
			}

			ctx := context.Background()
			fmt.Printf("%-24s %-10s %-8s %s\n", "SHARD", "STATE", "PID", "LOG")
			for _, shard := range shards {
				status, err := wire.SupervisorService().Status(ctx, shard)
				if err != nil {
					return fmt.Errorf("failed to check %s: %w", shard.ID(), err)
				}

				state := status.State
				if state == models.ShardRunning {
					state = color.New(color.FgGreen).Sprint(state)
				}
				pid := "-"
				if status.PID != 0 {
					pid = fmt.Sprintf("%d", status.PID)
				}
				note := ""
				if status.StaleRepaired {
					note = color.New(color.FgYellow).Sprint("  [stale record repaired]")
				}
				fmt.Printf("%-24s %-10s %-8s %s%s\n", status.ShardID, state, pid, status.LogPath, note)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Show every shard in the config grid")

	return cmd
}
