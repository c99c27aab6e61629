package workflows

import (
	"context"
	"fmt"

	"github.com/PolarWolf314/provenv/internal/audit"
	"github.com/PolarWolf314/provenv/internal/configs"
	"github.com/PolarWolf314/provenv/internal/environment"
	logger "github.com/PolarWolf314/provenv/internal/logging"
	"github.com/PolarWolf314/provenv/internal/paths"
	"github.com/PolarWolf314/provenv/internal/secrets"
)

// ProvisionOptions configures the provision workflow.
type ProvisionOptions struct {
	// Config is required.
	Config *configs.Config

	// Env drives "~" and variable expansion. The zero value means the real
	// process environment.
	Env configs.Env

	// Probe checks path conditions. Nil means the real filesystem.
	Probe paths.Probe

	// Decryptor overrides the configured decryptor.
	Decryptor secrets.Decryptor

	// Passphrase unlocks encrypted ssh identities for the age decryptor.
	Passphrase func() ([]byte, error)

	// SkipSecrets composes the path only.
	SkipSecrets bool

	Log logger.Logger
}

// ProvisionResult contains the outcome of a provision operation.
type ProvisionResult struct {
	Snapshot environment.Snapshot

	// Rules are the expanded path rules that were evaluated.
	Rules []paths.Rule

	// Resolution is nil when secrets were skipped.
	Resolution *secrets.Resolution
}

// Warnings returns one message per secret problem: the reason secrets are
// disabled, or one line per skipped document.
func (r *ProvisionResult) Warnings() []string {
	if r.Resolution == nil {
		return nil
	}
	var out []string
	if r.Resolution.Disabled != nil {
		out = append(out, fmt.Sprintf("secrets unavailable: %v", r.Resolution.Disabled))
	}
	out = append(out, r.Resolution.Warnings...)
	return out
}

func (opts ProvisionOptions) normalize() (ProvisionOptions, error) {
	if opts.Config == nil {
		return opts, fmt.Errorf("provision: no configuration given")
	}
	if opts.Env.Lookup == nil {
		opts.Env = configs.OSEnv()
	}
	if opts.Probe == nil {
		opts.Probe = paths.OSProbe
	}
	if opts.Decryptor == nil && !opts.SkipSecrets {
		dec, err := NewDecryptor(opts.Config, opts.Env, opts.Passphrase)
		if err != nil {
			return opts, err
		}
		opts.Decryptor = dec
	}
	return opts, nil
}

// resolver builds a secrets.Resolver from normalized options.
func (opts ProvisionOptions) resolver() (secrets.Resolver, error) {
	timeout, err := opts.Config.Timeout()
	if err != nil {
		return secrets.Resolver{}, err
	}
	policy, err := opts.Config.FlattenPolicy()
	if err != nil {
		return secrets.Resolver{}, err
	}
	return secrets.Resolver{
		Decryptor: opts.Decryptor,
		KeyFile:   opts.Config.KeyFilePath(opts.Env),
		Dir:       opts.Config.SecretsDir(opts.Env),
		Pattern:   opts.Config.Secrets.Pattern,
		Policy:    policy,
		Aliases:   opts.Config.Aliases,
		Timeout:   timeout,
		Log:       opts.Log,
	}, nil
}

// Provision composes the search path and resolves secrets into a Snapshot.
//
// Only misuse returns an error. Secret problems are recorded on the
// Resolution so the shell can still start.
func Provision(ctx context.Context, opts ProvisionOptions) (*ProvisionResult, error) {
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	rules, err := opts.Config.Rules(opts.Env)
	if err != nil {
		return nil, err
	}
	composed := paths.Compose(rules, opts.Probe)
	opts.Log.Debugf("Composed %d path entries from %d rules", len(composed), len(rules))

	result := &ProvisionResult{Rules: rules}

	var vars map[string]string
	if opts.SkipSecrets {
		opts.Log.Debugf("Skipping secrets")
	} else {
		r, err := opts.resolver()
		if err != nil {
			return nil, err
		}
		result.Resolution = r.Resolve(ctx)
		vars = result.Resolution.Entries
	}

	result.Snapshot = environment.New(composed, vars)
	return result, nil
}

// recordRun appends a run log entry when the run log is enabled.
func recordRun(cfg *configs.Config, op, shell string, result *ProvisionResult) {
	if cfg == nil || !cfg.Audit.Enabled {
		return
	}

	entry := audit.NewEntry(op)
	entry.Shell = shell
	if result != nil {
		entry.Variables = result.Snapshot.Len()
		entry.PathEntries = len(result.Snapshot.Path)
		if res := result.Resolution; res != nil {
			entry.Documents = len(res.Documents)
			entry.Failed = res.Failed()
			if res.Disabled != nil {
				entry.Disabled = res.Disabled.Error()
			}
		}
	}
	audit.Log(entry)
}
