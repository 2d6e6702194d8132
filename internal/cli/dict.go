package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/advgen/internal/wire"
)

// DictCmd returns the dict command group
func DictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict",
		Short: "Manage per-domain token dictionaries",
	}

	cmd.AddCommand(dictRebuildCmd())
	cmd.AddCommand(dictShowCmd())

	return cmd
}

func dictRebuildCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "rebuild [domain...]",
		Short: "Rebuild dictionaries from the full-observability corpus",
		Long: `Scan every full-observability bundle of a domain and rebuild its
action and goal dictionaries. Ids are assigned by sorted token order, so
a rebuild over the same corpus is a no-op for downstream encodings.

Rebuilding invalidates datasets generated with the previous dictionaries.

Examples:
  advgen dict rebuild blocksworld
  advgen dict rebuild --all`,
		RunE: func(cmd *cobra.Command, args []string) error {
			domains := args
			if all {
				domains = wire.Config().Domains
			}
			if len(domains) == 0 {
				return fmt.Errorf("specify domains or --all")
			}

			ctx := context.Background()
			for _, domain := range domains {
				workDir, err := wire.Workspaces().Create("dict-" + domain)
				if err != nil {
					return fmt.Errorf("failed to create workspace: %w", err)
				}

				summary, err := wire.DictionaryService().Rebuild(ctx, domain, workDir)
				wire.Workspaces().Remove(workDir)
				if err != nil {
					return fmt.Errorf("failed to rebuild %s: %w", domain, err)
				}

				fmt.Printf("✓ %s: %d action tokens, %d goal tokens (%d bundles, %d skipped)\n",
					summary.Domain, summary.ActionTokens, summary.GoalTokens,
					summary.BundlesScanned, summary.BundlesSkipped)
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Rebuild every domain in the config")

	return cmd
}

func dictShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <domain>",
		Short: "Print a domain's dictionaries in id order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			domain := args[0]
			actions, goals, err := wire.DictionaryService().Tokens(context.Background(), domain)
			if err != nil {
				return err
			}

			fmt.Printf("%s: %d action tokens\n", domain, len(actions))
			for id, token := range actions {
				fmt.Printf("  %4d  %s\n", id, token)
			}
			fmt.Printf("%s: %d goal tokens\n", domain, len(goals))
			for id, token := range goals {
				fmt.Printf("  %4d  %s\n", id, token)
			}

			return nil
		},
	}
}
