package workflows

import (
	"context"
)

// ExecEnv returns base with the provisioned environment applied, ready for
// exec.Cmd.Env. base is usually os.Environ().
func ExecEnv(ctx context.Context, opts ProvisionOptions, base []string) ([]string, *ProvisionResult, error) {
	provisioned, err := Provision(ctx, opts)
	if err != nil {
		return nil, nil, err
	}

	recordRun(opts.Config, "exec", "", provisioned)
	return provisioned.Snapshot.Environ(base), provisioned, nil
}

// Export provisions the environment for the env command, which prints the
// variables for shells that load them as data.
func Export(ctx context.Context, opts ProvisionOptions) (*ProvisionResult, error) {
	provisioned, err := Provision(ctx, opts)
	if err != nil {
		return nil, err
	}

	recordRun(opts.Config, "env", "", provisioned)
	return provisioned, nil
}
