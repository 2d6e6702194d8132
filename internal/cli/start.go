package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/wire"
)

// StartCmd returns the start command
func StartCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "start [shard-id...]",
		Short: "Launch background workers for shards",
		Long: `Launch one detached worker process per shard. A shard is one
(domain, attack percentage) pair, identified as <domain>-<attack>.

Start is idempotent: a shard with a live worker is left alone, a stale
PID record is repaired before relaunching.

Examples:
  advgen start blocksworld-20
  advgen start --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shards, err := resolveShards(wire.Config(), args, all)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, shard := range shards {
				outcome, err := wire.SupervisorService().Start(ctx, shard)
				if err != nil {
					return fmt.Errorf("failed to start %s: %w", shard.ID(), err)
				}

				if outcome.AlreadyLive {
					fmt.Printf("✓ %s already running (pid %d)\n", outcome.ShardID, outcome.PID)
					continue
				}

				note := ""
				if outcome.StaleRepaired {
					note = color.New(color.FgYellow).Sprint(" [stale record repaired]")
				}
				fmt.Printf("✓ started %s (pid %d)%s\n", outcome.ShardID, outcome.PID, note)
				fmt.Printf("  log: %s\n", outcome.LogPath)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Start every shard in the config grid")

	return cmd
}
