package workflows

import (
	"context"

	"github.com/PolarWolf314/provenv/internal/shells"
)

// RenderOptions configures the render workflow.
type RenderOptions struct {
	ProvisionOptions

	Dialect shells.Dialect

	// ConfigPath is the configuration file given on the command line. The
	// nushell fragment passes it on to the env command.
	ConfigPath string
}

// RenderResult contains the startup fragment and what it was built from.
type RenderResult struct {
	*ProvisionResult

	// Script is the text to evaluate in the target shell. It contains
	// secret values, except for nushell.
	Script string
}

// Render provisions the environment and renders it for one dialect.
func Render(ctx context.Context, opts RenderOptions) (*RenderResult, error) {
	provisioned, err := Provision(ctx, opts.ProvisionOptions)
	if err != nil {
		return nil, err
	}

	renderer := shells.For(opts.Dialect)
	if opts.Dialect == shells.Nushell {
		renderer = shells.NuRenderer{ConfigPath: opts.ConfigPath}
	}
	script, err := shells.RenderWith(renderer, provisioned.Snapshot)
	if err != nil {
		return nil, err
	}

	opts.Log.Debugf("Rendered %d variable(s) for %s", provisioned.Snapshot.Len(), opts.Dialect)
	recordRun(opts.Config, "init", opts.Dialect.String(), provisioned)

	return &RenderResult{ProvisionResult: provisioned, Script: script}, nil
}
