package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var envJSONOutput bool

func init() {
	envCmd.Flags().BoolVar(&envJSONOutput, "json", false, "output a JSON object of names to values")
}

func resetEnvCommandState() {
	envJSONOutput = false
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "Print the decrypted variables",
	Long: `Prints the variables provenv would export, one NAME=value per line, or
as a single JSON object with --json. The search path is not included.

The output contains secret values. The nushell fragment runs this command when
it is sourced, so the saved fragment itself holds no values.

Examples:
  provenv env --json | from json | load-env   # nushell`,
	Args: cobra.NoArgs,
	RunE: runEnv,
}

func runEnv(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting env command")

	cfg, _, _ := loadConfig()
	result, err := workflows.Export(context.Background(), provisionOptions(cfg, nil))
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to provision environment: %v", err)
	}
	for _, w := range result.Warnings() {
		Logger.Warnf("%s", w)
	}

	snap := result.Snapshot
	if envJSONOutput {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(snap.Vars)
	}

	for _, name := range snap.Names() {
		fmt.Printf("%s=%s\n", name, snap.Vars[name])
	}
	return nil
}
