package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/PolarWolf314/provenv/internal/shells"
	"github.com/PolarWolf314/provenv/internal/utils"
	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var initNoSecrets bool

func init() {
	initCmd.Flags().BoolVar(&initNoSecrets, "no-secrets", false, "compose the search path only")
}

func resetInitCommandState() {
	initNoSecrets = false
}

var initCmd = &cobra.Command{
	Use:   "init [shell]",
	Short: "Print the startup fragment for a shell",
	Long: `Prints a fragment that prepends the composed search path and exports your
decrypted secrets. Evaluate it from your shell's startup file.

The shell defaults to the basename of $SHELL. Supported shells:
  posix (sh, bash, zsh, ksh, dash), csh (tcsh), fish, nu

The fragment contains secret values, so evaluate it directly instead of saving
it. The nushell fragment is the exception: it holds only the search path and a
call to 'provenv env --json', so it can be saved and sourced from config.nu.

This command always exits successfully so that a broken configuration never
prevents a shell from starting. Problems are reported on standard error.

Examples:
  eval "$(provenv init zsh)"
  provenv init fish | source
  provenv init nu | save -f ~/.cache/provenv/env.nu`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting init command")

	dialect := initDialect(args)
	Logger.Debugf("Rendering for %s", dialect)

	if utils.StdoutIsTerminal() {
		Logger.Warnf("Standard output is a terminal. The fragment is meant to be evaluated, for example: eval \"$(provenv init %s)\"", dialect)
	}

	cfg, _, _ := loadConfig()

	opts := provisionOptions(cfg, nil)
	opts.SkipSecrets = initNoSecrets

	result, err := workflows.Render(context.Background(), workflows.RenderOptions{
		ProvisionOptions: opts,
		Dialect:          dialect,
		ConfigPath:       configPath,
	})
	if err != nil {
		// Fall back to an empty fragment rather than failing shell startup.
		Logger.Errorf("Failed to render environment: %v", err)
		return nil
	}

	for _, w := range result.Warnings() {
		Logger.Warnf("%s", w)
	}

	fmt.Fprint(os.Stdout, result.Script)
	return nil
}

// initDialect picks the dialect from the argument or $SHELL. Unknown names
// fall back to POSIX with a warning.
func initDialect(args []string) shells.Dialect {
	if len(args) == 0 {
		return shells.Detect(os.Getenv("SHELL"))
	}

	d, err := shells.ParseDialect(args[0])
	if err != nil {
		Logger.Warnf("Unknown shell %q, rendering for posix shells", args[0])
		return shells.POSIX
	}
	return d
}
