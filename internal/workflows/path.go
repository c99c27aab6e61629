package workflows

import (
	"github.com/PolarWolf314/provenv/internal/paths"
)

// PathResult contains the composed search path and how it was reached.
type PathResult struct {
	// Path is the composed list, highest priority first.
	Path []string

	// Decisions has one entry per rule, in declaration order.
	Decisions []paths.Decision
}

// PathExplain evaluates every path rule without touching secrets.
func PathExplain(opts ProvisionOptions) (*PathResult, error) {
	opts.SkipSecrets = true
	opts, err := opts.normalize()
	if err != nil {
		return nil, err
	}

	rules, err := opts.Config.Rules(opts.Env)
	if err != nil {
		return nil, err
	}

	return &PathResult{
		Path:      paths.Compose(rules, opts.Probe),
		Decisions: paths.Trace(rules, opts.Probe),
	}, nil
}
