package cmd

import (
	"fmt"

	"github.com/PolarWolf314/provenv/internal/configs"
	logger "github.com/PolarWolf314/provenv/internal/logging"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/common-nighthawk/go-figure"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

var (
	verbose    bool
	debug      bool
	configPath string
	Logger     logger.Logger

	ProvenvCmd = &cobra.Command{
		Use:   "provenv",
		Short: "Provenv - composes your PATH and exports decrypted secrets at shell startup.",
		Long: `Provenv builds the environment of an interactive shell session.

It composes the executable search path from conditional rules, decrypts your
secret documents and prints a startup fragment for your shell to evaluate.

Add one line to your shell's startup file:
  bash/zsh:  eval "$(provenv init)"
  fish:      provenv init fish | source
  tcsh:      eval "` + "`provenv init tcsh`" + `"
  nushell:   provenv init nu | save -f ~/.cache/provenv/env.nu
             (the saved file loads values with 'provenv env --json' when sourced)

Run 'provenv help <command>' for more details on a specific command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing %s command with verbose=%t, debug=%t", cmd.Name(), verbose, debug)
		},
		Run: func(cmd *cobra.Command, args []string) {
			banner := figure.NewColorFigure("provenv", "standard", "cyan", true)
			banner.Print()
			fmt.Println()
			fmt.Println("Run 'provenv --help' to see available commands.")
		},
	}
)

func init() {
	ProvenvCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	ProvenvCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	ProvenvCmd.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (default $PROVENV_CONFIG or ~/.config/provenv/config.toml)")

	ProvenvCmd.AddCommand(initCmd)
	ProvenvCmd.AddCommand(pathCmd)
	ProvenvCmd.AddCommand(statusCmd)
	ProvenvCmd.AddCommand(getCmd)
	ProvenvCmd.AddCommand(execCmd)
	ProvenvCmd.AddCommand(envCmd)
	ProvenvCmd.AddCommand(doctorCmd)
	ProvenvCmd.AddCommand(logCmd)
	ProvenvCmd.AddCommand(ConfigCmd)
}

// resolvedConfigPath returns the --config flag or the default location.
func resolvedConfigPath() string {
	if configPath != "" {
		return configPath
	}
	return configs.ProvenvSettings.ConfigPath
}

// loadConfig loads the configuration. A broken file is reported as a warning
// and the defaults are used, so the returned config is never nil.
func loadConfig() (*configs.Config, string, error) {
	path := resolvedConfigPath()
	Logger.Debugf("Loading configuration from %s", path)

	cfg, err := configs.Load(path)
	if err != nil {
		Logger.Warnf("Using default configuration: %v", err)
	}
	return cfg, path, err
}

// provisionOptions builds the options shared by every provisioning command.
func provisionOptions(cfg *configs.Config, passphrase func() ([]byte, error)) workflows.ProvisionOptions {
	return workflows.ProvisionOptions{
		Config:     cfg,
		Passphrase: passphrase,
		Log:        Logger,
	}
}

// Helper functions for testing

// GetProvenvCmd returns the root command for testing.
func GetProvenvCmd() *cobra.Command {
	return ProvenvCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	configPath = ""
	resetInitCommandState()
	resetPathCommandState()
	resetStatusCommandState()
	resetDoctorCommandState()
	resetExecCommandState()
	resetEnvCommandState()
	resetLogCommandState()
	resetConfigInitState()
	resetConfigShowState()
	resetCobraFlagState(ProvenvCmd)
}

// resetCobraFlagState clears the Changed mark on every flag so one test's
// arguments do not leak into the next.
func resetCobraFlagState(cmd *cobra.Command) {
	reset := func(flag *pflag.Flag) {
		flag.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetCobraFlagState(sub)
	}
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}
