package cmd

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"syscall"

	"github.com/PolarWolf314/provenv/internal/workflows"

	"github.com/spf13/cobra"
)

var (
	execNoSecrets bool
	// execExitFunc is the function called to exit with the child's status.
	// Can be overridden for testing.
	execExitFunc = os.Exit
)

func init() {
	execCmd.Flags().BoolVar(&execNoSecrets, "no-secrets", false, "compose the search path only")
}

func resetExecCommandState() {
	execNoSecrets = false
	execExitFunc = os.Exit
}

// SetExecExitFunc sets the exit function for testing purposes.
func SetExecExitFunc(f func(int)) {
	execExitFunc = f
}

var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Run a command with the provisioned environment",
	Long: `Runs a command with the composed search path and decrypted secrets applied,
without touching the current shell. Useful for scripts, cron jobs and editors
that are not started from an interactive shell.

The command's exit status is propagated.

Examples:
  provenv exec -- env
  provenv exec -- terraform plan`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExec,
}

func runExec(cmd *cobra.Command, args []string) error {
	Logger.Infof("Starting exec command")
	Logger.Debugf("Command: %s", args[0])

	cfg, _, _ := loadConfig()
	opts := provisionOptions(cfg, ttyPassphrase(nil))
	opts.SkipSecrets = execNoSecrets

	env, result, err := workflows.ExecEnv(context.Background(), opts, os.Environ())
	if err != nil {
		return Logger.ErrorfAndReturn("Failed to provision environment: %v", err)
	}
	for _, w := range result.Warnings() {
		Logger.Warnf("%s", w)
	}

	// Resolve the command against the composed PATH, not the inherited one.
	if err := result.Snapshot.ApplyToProcess(); err != nil {
		return Logger.ErrorfAndReturn("Failed to apply environment: %v", err)
	}
	bin, err := exec.LookPath(args[0])
	if err != nil {
		Logger.Errorf("%v", err)
		execExitFunc(127)
		return nil
	}

	child := exec.Command(bin, args[1:]...)
	child.Env = env
	child.Stdin = os.Stdin
	child.Stdout = os.Stdout
	child.Stderr = os.Stderr

	if err := child.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			code := childExitCode(exitErr)
			Logger.Debugf("%s exited with status %d", args[0], code)
			execExitFunc(code)
			return nil
		}
		return Logger.ErrorfAndReturn("Failed to run %s: %v", args[0], err)
	}
	return nil
}

// childExitCode returns the child's status, or 128+signal when a signal
// killed it, the way shells report it.
func childExitCode(exitErr *exec.ExitError) int {
	if ws, ok := exitErr.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	return 1
}
