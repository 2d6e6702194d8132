package cli

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/tmux"
	"github.com/example/advgen/internal/wire"
)

// AttachCmd returns the attach command
func AttachCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "attach <shard-id>",
		Short: "Attach to a tmux session tailing a shard's log",
		Long: `Create (or reuse) a tmux session running 'tail -f' on the shard log
and attach to it. Detach with Ctrl+b d; the session keeps following the
log.

Examples:
  advgen attach blocksworld-20`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			shard, err := models.ParseShardID(args[0])
			if err != nil {
				return err
			}

			logPath := wire.Config().ShardLogPath(shard.ID())
			if _, err := os.Stat(logPath); err != nil {
				return fmt.Errorf("no log for %s yet, start the shard first", shard.ID())
			}

			adapter, err := tmux.NewAdapter()
			if err != nil {
				return err
			}

			sessionName := tmux.SessionName(shard.ID())
			if !adapter.SessionExists(sessionName) {
				if err := adapter.CreateLogSession(sessionName, logPath); err != nil {
					return err
				}
			}

			tmuxPath, err := exec.LookPath("tmux")
			if err != nil {
				return fmt.Errorf("tmux not found in PATH: %w", err)
			}

			// Replace the current process with tmux attach for a seamless
			// transition into the session.
			execArgs := []string{"tmux", "attach", "-t", sessionName}
			if err := syscall.Exec(tmuxPath, execArgs, os.Environ()); err != nil {
				return fmt.Errorf("failed to exec tmux attach: %w", err)
			}

			return nil
		},
	}
}
