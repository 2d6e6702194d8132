package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/tmux"
	"github.com/example/advgen/internal/wire"
)

// StopCmd returns the stop command
func StopCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "stop [shard-id...]",
		Short: "Gracefully stop shard workers",
		Long: `Send SIGTERM to shard workers and clean up their PID records and
workspaces. Workers that ignore SIGTERM are reported with a manual
follow-up; advgen never escalates to SIGKILL on its own.

Examples:
  advgen stop blocksworld-20
  advgen stop --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			shards, err := resolveShards(wire.Config(), args, all)
			if err != nil {
				return err
			}

			ctx := context.Background()
			for _, shard := range shards {
				outcome, err := wire.SupervisorService().Stop(ctx, shard)
				if err != nil {
					return fmt.Errorf("failed to stop %s: %w", shard.ID(), err)
				}

				switch {
				case outcome.TermFailed:
					fmt.Printf("%s %s: %s\n",
						color.New(color.FgRed).Sprint("✗"), outcome.ShardID, outcome.Recommendation)
				case outcome.WasRunning:
					fmt.Printf("✓ stopped %s\n", outcome.ShardID)
				default:
					fmt.Printf("✓ %s was not running\n", outcome.ShardID)
				}

				closeLogSession(shard.ID())
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Stop every shard in the config grid")

	return cmd
}

// closeLogSession kills the shard's log-tail tmux session if one was left
// behind by 'advgen attach'. Best effort: no tmux, no session, no problem.
func closeLogSession(shardID string) {
	adapter, err := tmux.NewAdapter()
	if err != nil {
		return
	}

	name := tmux.SessionName(shardID)
	if !adapter.SessionExists(name) {
		return
	}
	if err := adapter.KillSession(name); err != nil {
		fmt.Printf("  could not close log session %s: %v\n", name, err)
	}
}
