package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/config"
	"github.com/example/advgen/internal/db"
)

// InitCmd returns the init command
func InitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the advgen workspace in the current directory",
		Long: `Initialize the advgen workspace: write .advgen/config.json with defaults,
create the state directories (pids, logs, results) and the SQLite database.

Existing config is left untouched.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(".")
			if err != nil {
				cfg = config.Default()
				if err := config.Save(".", cfg); err != nil {
					return fmt.Errorf("failed to write config: %w", err)
				}
				fmt.Println("✓ Wrote .advgen/config.json")
			} else {
				fmt.Println("✓ Config already present, keeping it")
			}

			for _, dir := range []string{cfg.PIDDir(), cfg.LogDir(), cfg.ResultsDir()} {
				if err := os.MkdirAll(dir, 0755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			fmt.Println("✓ State directories created")

			database, err := db.Open(cfg.DBPath())
			if err != nil {
				return fmt.Errorf("failed to initialize database: %w", err)
			}
			database.Close()
			fmt.Printf("✓ Database initialized at %s\n", cfg.DBPath())

			fmt.Println()
			fmt.Println("Next steps:")
			fmt.Printf("  put problem bundles under %s/<domain>/<hole>/\n", cfg.DataDir)
			fmt.Println("  advgen dict rebuild --all")
			fmt.Println("  advgen start --all")

			return nil
		},
	}
}
