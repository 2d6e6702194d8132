package cli

import (
	"database/sql"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/config"
	"github.com/example/advgen/internal/version"
)

// CheckResult represents the outcome of a single check
type CheckResult struct {
	Name    string
	Status  string // "✓", "⚠", "✗"
	Details string // Only shown if Status != "✓"
}

// DoctorCmd returns the doctor command for environment validation
func DoctorCmd() *cobra.Command {
	var quiet bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Validate the advgen environment",
		Long: `Environment health check for advgen.

Validates:
- Config file and state directories
- SQLite database and built dictionaries
- Problem corpus layout
- Grounder and tmux availability

Examples:
  advgen doctor           # Run full health check
  advgen doctor --quiet   # Exit code only (0=healthy, 1=issues)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, cfgResult := checkConfig()
			results := []CheckResult{cfgResult}
			results = append(results, checkStateDirs(cfg))
			results = append(results, checkDatabase(cfg))
			results = append(results, checkDictionaries(cfg))
			results = append(results, checkCorpus(cfg))
			results = append(results, checkGrounder(cfg))
			results = append(results, checkTmux())

			hasErrors := false
			for _, r := range results {
				if r.Status == "✗" {
					hasErrors = true
					break
				}
			}

			if !quiet {
				fmt.Println()
				fmt.Println("Check              Status")
				fmt.Println("─────────────────────────")
				for _, r := range results {
					fmt.Printf("%-18s %s\n", r.Name, r.Status)
				}
				fmt.Println()

				hasDetails := false
				for _, r := range results {
					if r.Status != "✓" && r.Details != "" {
						if !hasDetails {
							fmt.Println("Details:")
							hasDetails = true
						}
						fmt.Printf("\n%s:\n%s\n", r.Name, r.Details)
					}
				}

				if hasErrors {
					fmt.Println("\n⚠ Issues found. Run 'advgen init' to set up the workspace.")
				} else {
					fmt.Printf("All checks passed. (%s)\n", version.String())
				}
			}

			if hasErrors {
				return fmt.Errorf("environment validation failed")
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode - exit code only")

	return cmd
}

// checkConfig loads the config, falling back to defaults for later checks.
func checkConfig() (*config.Config, CheckResult) {
	cfg, err := config.Load(".")
	if err != nil {
		return config.Default(), CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: "  No .advgen/config.json in current directory\n  Run: advgen init",
		}
	}

	if len(cfg.Domains) == 0 || len(cfg.AttackPercentages) == 0 {
		return cfg, CheckResult{
			Name:    "Config",
			Status:  "✗",
			Details: "  Config defines no domains or attack percentages",
		}
	}

	return cfg, CheckResult{Name: "Config", Status: "✓"}
}

func checkStateDirs(cfg *config.Config) CheckResult {
	missing := []string{}
	for _, dir := range []string{cfg.PIDDir(), cfg.LogDir(), cfg.ResultsDir()} {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			missing = append(missing, dir)
		}
	}

	if len(missing) > 0 {
		return CheckResult{
			Name:    "State Dirs",
			Status:  "✗",
			Details: "  Missing: " + strings.Join(missing, ", ") + "\n  Run: advgen init",
		}
	}

	return CheckResult{Name: "State Dirs", Status: "✓"}
}

func checkDatabase(cfg *config.Config) CheckResult {
	if _, err := os.Stat(cfg.DBPath()); os.IsNotExist(err) {
		return CheckResult{
			Name:    "Database",
			Status:  "✗",
			Details: "  " + cfg.DBPath() + " not found\n  Run: advgen init",
		}
	}

	return CheckResult{Name: "Database", Status: "✓"}
}

// checkDictionaries counts dictionary entries per configured domain.
func checkDictionaries(cfg *config.Config) CheckResult {
	database, err := sql.Open("sqlite3", cfg.DBPath())
	if err != nil {
		return CheckResult{Name: "Dictionaries", Status: "⚠", Details: "  Cannot open database"}
	}
	defer database.Close()

	unbuilt := []string{}
	for _, domain := range cfg.Domains {
		var count int
		err := database.QueryRow(
			"SELECT COUNT(*) FROM dictionary_entries WHERE domain = ?", domain,
		).Scan(&count)
		if err != nil || count == 0 {
			unbuilt = append(unbuilt, domain)
		}
	}

	if len(unbuilt) > 0 {
		return CheckResult{
			Name:    "Dictionaries",
			Status:  "⚠",
			Details: "  Not built: " + strings.Join(unbuilt, ", ") + "\n  Run: advgen dict rebuild --all",
		}
	}

	return CheckResult{Name: "Dictionaries", Status: "✓"}
}

// checkCorpus verifies each domain has a full-observability corpus directory.
func checkCorpus(cfg *config.Config) CheckResult {
	missing := []string{}
	for _, domain := range cfg.Domains {
		dir := filepath.Join(cfg.DataDir, domain, "100")
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			missing = append(missing, domain)
		}
	}

	if len(missing) == len(cfg.Domains) {
		return CheckResult{
			Name:    "Corpus",
			Status:  "✗",
			Details: fmt.Sprintf("  No problem bundles under %s/<domain>/<hole>/", cfg.DataDir),
		}
	}
	if len(missing) > 0 {
		return CheckResult{
			Name:    "Corpus",
			Status:  "⚠",
			Details: "  Missing domains: " + strings.Join(missing, ", "),
		}
	}

	return CheckResult{Name: "Corpus", Status: "✓"}
}

func checkGrounder(cfg *config.Config) CheckResult {
	if len(cfg.GrounderCommand) == 0 {
		return CheckResult{
			Name:    "Grounder",
			Status:  "✗",
			Details: "  grounder_command is empty in config",
		}
	}

	path, err := exec.LookPath(cfg.GrounderCommand[0])
	if err != nil {
		return CheckResult{
			Name:    "Grounder",
			Status:  "✗",
			Details: fmt.Sprintf("  %q not found in PATH", cfg.GrounderCommand[0]),
		}
	}

	return CheckResult{Name: "Grounder", Status: "✓", Details: "  " + path}
}

func checkTmux() CheckResult {
	if _, err := exec.LookPath("tmux"); err != nil {
		return CheckResult{
			Name:    "TMux",
			Status:  "⚠",
			Details: "  tmux not found in PATH ('advgen attach' unavailable)",
		}
	}

	return CheckResult{Name: "TMux", Status: "✓"}
}
