package cmd

import (
	"fmt"

	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var pathExplain bool

func init() {
	pathCmd.Flags().BoolVar(&pathExplain, "explain", false, "show why each configured directory was or was not added")
}

func resetPathCommandState() {
	pathExplain = false
}

var pathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the composed search path",
	Long: `Prints the directories provenv prepends to PATH, highest priority first,
one per line. Secrets are not touched.

Use --explain to list every configured rule in declaration order together with
the reason it was applied or skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting path command")

		cfg, _, _ := loadConfig()
		result, err := workflows.PathExplain(provisionOptions(cfg, nil))
		if err != nil {
			return Logger.ErrorfAndReturn("Failed to compose path: %v", err)
		}

		if !pathExplain {
			for _, dir := range result.Path {
				fmt.Println(dir)
			}
			return nil
		}

		for _, d := range result.Decisions {
			icon := ui.Muted.Sprint("-")
			if d.Applied {
				icon = ui.Success.Sprint("✓")
			}
			fmt.Printf("%s %s %s\n", icon, ui.Path.Sprint(d.Rule.Directory), ui.Muted.Sprint(d.Reason))
		}
		fmt.Println()
		fmt.Printf("%d of %d directories on the search path\n", len(result.Path), len(result.Decisions))
		return nil
	},
}
