package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/utils"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var statusJSONOutput bool

func init() {
	statusCmd.Flags().BoolVar(&statusJSONOutput, "json", false, "output in JSON format")
}

func resetStatusCommandState() {
	statusJSONOutput = false
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show which variables would be exported and where they come from",
	Long: `Decrypts every secret document and shows the resulting environment.

For each variable the originating document and a redacted value are shown.
Values themselves are never printed. Documents that could not be used are
listed with the reason.

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting status command")

	spinner, cleanup := startSpinner("Resolving secrets...", verbose)
	defer cleanup()

	cfg, _, _ := loadConfig()
	result, err := workflows.Status(context.Background(), provisionOptions(cfg, ttyPassphrase(spinner)))
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to resolve secrets: " + err.Error()
		return err
	}

	if statusJSONOutput {
		spinner.FinalMSG = ""
		return outputStatusJSON(result)
	}

	// Stop the spinner before printing the table.
	cleanup()
	printStatus(result)
	return nil
}

func outputStatusJSON(result *workflows.StatusResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func printStatus(result *workflows.StatusResult) {
	fmt.Printf("Key file:     %s\n", ui.Path.Sprint(result.KeyFile))
	fmt.Printf("Secrets:      %s\n", ui.Path.Sprint(result.SecretsDir))
	fmt.Printf("Decryptor:    %s\n", result.Decryptor)
	if len(result.Path) > 0 {
		fmt.Print("Search path:" + utils.FormatPaths(result.Path))
	}
	fmt.Println()

	if result.Disabled != "" {
		fmt.Println(ui.Warning.Sprint("⚠") + " Secrets are disabled: " + result.Disabled)
		fmt.Println(ui.Info.Sprint("→") + " Run " + ui.Code.Sprint("provenv doctor") + " for details")
		return
	}

	if len(result.Documents) > 0 {
		fmt.Println("Documents:")
		for _, d := range result.Documents {
			if d.OK {
				fmt.Printf("  %s %s %s\n", ui.Success.Sprint("✓"), d.Path, ui.Muted.Sprintf("%d variables", d.Variables))
			} else {
				fmt.Printf("  %s %s %s\n", ui.Error.Sprint("✗"), d.Path, ui.Muted.Sprint(d.Error))
			}
		}
		fmt.Println()
	}

	if len(result.Variables) == 0 {
		fmt.Println(ui.Info.Sprint("ℹ") + " No variables would be exported")
	} else {
		fmt.Println("Variables:")
		for _, v := range result.Variables {
			source := v.Source
			if v.Alias {
				source += ", alias"
			}
			fmt.Printf("  %-32s  %-24s  %s\n", ui.Highlight.Sprint(v.Name), source, ui.Muted.Sprint(v.Redacted))
		}
	}

	if len(result.Collisions) > 0 {
		fmt.Println()
		fmt.Println("Overridden definitions:")
		for _, c := range result.Collisions {
			fmt.Printf("  %s %s defined in %s, %s wins\n", ui.Warning.Sprint("⚠"), ui.Highlight.Sprint(c.Name), c.Previous, c.Winner)
		}
	}
}
