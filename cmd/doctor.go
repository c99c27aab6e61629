package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	doctorJSONOutput bool
	// doctorExitFunc is the function called to exit with a specific code.
	// Can be overridden for testing.
	doctorExitFunc = os.Exit
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSONOutput, "json", false, "output in JSON format")
}

func resetDoctorCommandState() {
	doctorJSONOutput = false
	doctorExitFunc = os.Exit
}

// SetDoctorExitFunc sets the exit function for testing purposes.
func SetDoctorExitFunc(f func(int)) {
	doctorExitFunc = f
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health checks on the local provenv setup",
	Long: `Runs a series of health checks and reports issues.

The doctor command checks:
  - Configuration file validity
  - Decryption key existence and permissions
  - Decryptor and query tool availability
  - Secrets directory and document discovery
  - That every document decrypts and flattens
  - That alias sources are defined
  - Configured path directories

Exit codes:
  0 - All checks passed
  1 - Warnings found (non-critical issues)
  2 - Errors found (critical issues)

Use --json for machine-readable output.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func runDoctor(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting doctor command")

	spinner, cleanup := startSpinner("Running health checks...", verbose)
	defer cleanup()

	cfg, path, cfgErr := loadConfig()
	result, err := workflows.Doctor(context.Background(), workflows.DoctorOptions{
		ProvisionOptions: provisionOptions(cfg, ttyPassphrase(spinner)),
		ConfigPath:       path,
		ConfigErr:        cfgErr,
	})
	if err != nil {
		spinner.FinalMSG = ui.Error.Sprint("✗") + " Failed to run health checks: " + err.Error()
		return err
	}

	for _, check := range result.Checks {
		Logger.Debugf("Check %s: status=%s", check.Name, check.Status)
	}

	if doctorJSONOutput {
		spinner.FinalMSG = ""
		if err := outputDoctorJSON(result); err != nil {
			return err
		}
	} else {
		cleanup()
		printDoctorResults(result)
		fmt.Println(doctorVerdict(result.Summary))
	}

	if code := doctorExitCode(result.Summary); code != 0 {
		doctorExitFunc(code)
	}
	return nil
}

// doctorExitCode maps a summary to 0 (healthy), 1 (warnings) or 2 (errors).
func doctorExitCode(summary workflows.DoctorSummary) int {
	switch {
	case summary.Errors > 0:
		return 2
	case summary.Warnings > 0:
		return 1
	default:
		return 0
	}
}

func doctorVerdict(summary workflows.DoctorSummary) string {
	switch doctorExitCode(summary) {
	case 2:
		return ui.Error.Sprint("✗") + " Secrets will be incomplete until the errors above are fixed"
	case 1:
		return ui.Warning.Sprint("⚠") + " Your shell will start, with the warnings above"
	default:
		return ui.Success.Sprint("✓") + " Your shell environment is healthy"
	}
}

// outputDoctorJSON outputs the result as JSON.
func outputDoctorJSON(result *workflows.DoctorResult) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

func statusIcon(status workflows.CheckStatus) string {
	switch status {
	case workflows.CheckWarning:
		return ui.Warning.Sprint("⚠")
	case workflows.CheckError:
		return ui.Error.Sprint("✗")
	default:
		return ui.Success.Sprint("✓")
	}
}

// printDoctorResults prints one line per check, the counts and the
// deduplicated suggestions.
func printDoctorResults(result *workflows.DoctorResult) {
	width := 0
	for _, check := range result.Checks {
		if len(check.Name) > width {
			width = len(check.Name)
		}
	}

	for _, check := range result.Checks {
		fmt.Printf("%s %-*s  %s\n", statusIcon(check.Status), width, check.Name, check.Message)
	}

	s := result.Summary
	fmt.Printf("\n%d passed, %d warning(s), %d error(s)\n", s.Passed, s.Warnings, s.Errors)

	if len(result.Suggestions) > 0 {
		fmt.Println()
		for _, suggestion := range result.Suggestions {
			fmt.Printf("%s %s\n", ui.Info.Sprint("→"), suggestion)
		}
	}
	fmt.Println()
}
