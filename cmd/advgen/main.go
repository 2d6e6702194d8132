package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/cli"
	"github.com/example/advgen/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "advgen",
		Short:   "advgen - adversarial dataset generator for goal recognition",
		Version: version.String(),
		Long: `advgen perturbs goal-recognition observation traces with adversarial
action substitutions and orchestrates one background worker per
(domain, attack percentage) shard.`,
	}

	// Add subcommands
	rootCmd.AddCommand(cli.InitCmd())
	rootCmd.AddCommand(cli.DoctorCmd())
	rootCmd.AddCommand(cli.DictCmd())
	rootCmd.AddCommand(cli.StartCmd())
	rootCmd.AddCommand(cli.StopCmd())
	rootCmd.AddCommand(cli.StatusCmd())
	rootCmd.AddCommand(cli.RunsCmd())
	rootCmd.AddCommand(cli.AttachCmd())
	rootCmd.AddCommand(cli.WorkerCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
