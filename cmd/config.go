package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/internal/configs"
	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/ui"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
)

var (
	configInitForce bool
	configShowJSON  bool

	// ConfigCmd is the top-level config command.
	ConfigCmd = &cobra.Command{
		Use:   "config",
		Short: "Manage the provenv configuration file",
		Long: `Provides commands for creating and inspecting the configuration file.

The configuration file is read from --config, else $PROVENV_CONFIG, else
~/.config/provenv/config.toml. A missing file means the built-in defaults.

Examples:
  # Write the default configuration
  provenv config init

  # Print the effective configuration
  provenv config show`,
	}

	configInitCmd = &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Writes the built-in defaults to the configuration file so they can be
edited. An existing file is left untouched unless --force is given.`,
		Args: cobra.NoArgs,
		RunE: runConfigInit,
	}

	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "Display the effective configuration",
		Long: `Displays the configuration provenv would use, with defaults filled in.
The configuration holds locations and rules only, never secret values.`,
		Args: cobra.NoArgs,
		RunE: runConfigShow,
	}
)

func init() {
	configInitCmd.Flags().BoolVarP(&configInitForce, "force", "f", false, "overwrite an existing configuration file")
	configShowCmd.Flags().BoolVar(&configShowJSON, "json", false, "output in JSON format")

	ConfigCmd.AddCommand(configInitCmd)
	ConfigCmd.AddCommand(configShowCmd)
}

// resetConfigInitState resets the config init command's global state for testing.
func resetConfigInitState() {
	configInitForce = false
}

// resetConfigShowState resets the config show command's global state for testing.
func resetConfigShowState() {
	configShowJSON = false
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config init command")

	path := resolvedConfigPath()
	Logger.Debugf("Writing default configuration to %s", path)

	err := configs.Default().Save(path, configInitForce)
	if errors.Is(err, kerrors.ErrConfigExists) {
		fmt.Println(ui.Warning.Sprint("⚠") + " Configuration already exists at " + ui.Path.Sprint(path))
		fmt.Println(ui.Info.Sprint("→") + " Use " + ui.Flag.Sprint("--force") + " to overwrite it")
		return nil
	}
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to write configuration: %v", err)
	}

	fmt.Println(ui.Success.Sprint("✓") + " Configuration written to " + ui.Path.Sprint(path))
	fmt.Println(ui.Info.Sprint("→") + " Add " + ui.Code.Sprint(`eval "$(provenv init)"`) + " to your shell startup file")
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting config show command")

	cfg, path, _ := loadConfig()

	if configShowJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		return encoder.Encode(cfg)
	}

	if _, err := os.Stat(path); err != nil {
		fmt.Println("# " + path + " not found, showing built-in defaults")
	} else {
		fmt.Println("# " + path)
	}
	if err := toml.NewEncoder(os.Stdout).Encode(cfg); err != nil {
		return Logger.ErrorfAndReturn("Failed to encode configuration: %v", err)
	}
	return nil
}
