// Package workflows provides high-level orchestration for provenv commands.
//
// Workflows coordinate the configs, paths, secrets, environment, shells and
// audit packages to implement complete user-facing features. Each workflow
// handles a single command's business logic, independent of CLI concerns
// like flag parsing, spinners, and output formatting.
//
// # Design Philosophy
//
// The cmd/ package should be a thin layer that:
//   - Parses command-line flags and arguments
//   - Calls the appropriate workflow function
//   - Formats the result for display
//
// Workflows handle everything else:
//   - Expanding configured paths and choosing collaborators
//   - Composing the search path and resolving secrets
//   - Rendering shell text
//   - Recording run log entries
//
// # Available Workflows
//
//   - Provision: composes PATH and resolves secrets into a Snapshot
//   - Render: Provision plus a dialect-specific startup fragment
//   - Status: what would be exported, with values redacted
//   - PathExplain: the decision taken for every path rule
//   - Get: one field of one document, on explicit request
//   - ExecEnv: the environment for running a single command
//   - Doctor: health checks with suggestions
//   - Log: the filtered run log
//
// # Error Handling
//
// Secret problems never surface as errors from Provision; they are recorded
// on the secrets.Resolution and reported by the caller as warnings. Errors
// are returned for misuse and for explicit requests that cannot be met,
// using sentinels from the internal/errors package:
//
//	result, err := workflows.Get(ctx, opts)
//	if errors.Is(err, kerrors.ErrSelectorNotFound) {
//	    // Show which selector did not match
//	}
//
// # Context Usage
//
// All workflow functions that may block accept a context.Context as their
// first parameter. Document decryption is additionally bounded by the
// configured timeout.
package workflows
