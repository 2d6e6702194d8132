package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/models"
	"github.com/example/advgen/internal/ports/secondary"
	"github.com/example/advgen/internal/wire"
)

// WorkerCmd returns the worker command. It is the entry point 'advgen start'
// re-executes in the background; it can also be run directly in the
// foreground for debugging a single shard.
func WorkerCmd() *cobra.Command {
	var domain string
	var attack int

	cmd := &cobra.Command{
		Use:    "worker",
		Short:  "Run one shard in the foreground",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := wire.Config()
			shard := models.Shard{Domain: domain, Attack: attack}
			logger := log.New(os.Stdout, shard.ID()+" ", log.LstdFlags)

			// SIGTERM is how 'advgen stop' asks us to leave.
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			workDir, err := wire.Workspaces().Create(shard.ID())
			if err != nil {
				return fmt.Errorf("failed to create workspace: %w", err)
			}
			defer wire.Workspaces().Remove(workDir)

			runs := wire.RunRepository()
			run := &secondary.RunRecord{
				ShardID: shard.ID(),
				Domain:  shard.Domain,
				Attack:  shard.Attack,
				PID:     os.Getpid(),
			}
			if err := runs.Create(ctx, run); err != nil {
				return fmt.Errorf("failed to register run: %w", err)
			}
			logger.Printf("run %s started (pid %d)", run.ID, os.Getpid())

			attackCfg := models.AttackConfig{
				Domain:           shard.Domain,
				AttackPercentage: shard.Attack,
				HolePercentages:  cfg.HolePercentages,
				Seed:             cfg.ShardSeed(shard.Attack),
			}

			result, err := wire.DatasetService().RunShard(ctx, attackCfg, workDir)
			if err != nil {
				if ferr := runs.Finish(context.Background(), run.ID, "failed", 0, 0, 0); ferr != nil {
					logger.Printf("failed to record run outcome: %v", ferr)
				}
				return fmt.Errorf("shard %s failed: %w", shard.ID(), err)
			}

			if err := runs.Finish(context.Background(), run.ID, "completed",
				result.ProblemsOK, result.ProblemsFailed, result.RealizedPerc); err != nil {
				logger.Printf("failed to record run outcome: %v", err)
			}
			logger.Printf("run %s completed: %s", run.ID, result.ResultsPath)

			return nil
		},
	}

	cmd.Flags().StringVar(&domain, "domain", "", "Domain to process")
	cmd.Flags().IntVar(&attack, "attack", 0, "Attack percentage")
	cmd.MarkFlagRequired("domain")
	cmd.MarkFlagRequired("attack")

	return cmd
}
