// Package environment holds the EnvironmentSnapshot: the ordered search path
// and the variables an interactive shell session should have defined.
//
// A Snapshot is a plain value. Producing one has no side effects, and applying
// one to a process is left to the caller (see Environ).
package environment

import (
	"os"
	"sort"
	"strings"

	"github.com/PolarWolf314/provenv/internal/paths"
	"github.com/PolarWolf314/provenv/internal/ui"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// Snapshot is the neutral representation every shell renderer consumes.
type Snapshot struct {
	// Path lists directories to search, highest priority first.
	Path []string

	// Vars maps variable names to values. Values are sensitive.
	Vars map[string]string
}

// New builds a Snapshot, copying its inputs so later changes to them do not
// leak into the snapshot.
func New(path []string, vars map[string]string) Snapshot {
	snap := Snapshot{
		Path: append([]string(nil), path...),
		Vars: make(map[string]string, len(vars)),
	}
	for k, v := range vars {
		snap.Vars[k] = v
	}
	return snap
}

// Names returns variable names in sorted order.
func (s Snapshot) Names() []string {
	names := make([]string, 0, len(s.Vars))
	for name := range s.Vars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Get returns the value of name.
func (s Snapshot) Get(name string) (string, bool) {
	v, ok := s.Vars[name]
	return v, ok
}

// Len returns the number of variables.
func (s Snapshot) Len() int {
	return len(s.Vars)
}

// Redacted returns the variables with masked values, safe to print.
func (s Snapshot) Redacted() map[string]string {
	masked := make(map[string]string, len(s.Vars))
	for k, v := range s.Vars {
		masked[k] = ui.Redact(v)
	}
	return masked
}

// Equal reports whether both snapshots have the same path order and variables.
func (s Snapshot) Equal(other Snapshot) bool {
	if len(s.Path) != len(other.Path) || len(s.Vars) != len(other.Vars) {
		return false
	}
	for i := range s.Path {
		if s.Path[i] != other.Path[i] {
			return false
		}
	}
	for k, v := range s.Vars {
		if ov, ok := other.Vars[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Environ applies the snapshot on top of a KEY=VALUE list such as
// os.Environ(). Snapshot variables replace base values and the composed path
// is merged in front of the inherited PATH. A variable named PATH is ignored.
// The result is sorted.
func (s Snapshot) Environ(base []string) []string {
	env := make(map[string]string, len(base)+len(s.Vars)+1)
	for _, entry := range base {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}

	for k, v := range s.Vars {
		if utils.IsReservedEnvName(k) {
			continue
		}
		env[k] = v
	}

	if len(s.Path) > 0 {
		env["PATH"] = paths.Join(paths.Merge(s.Path, paths.Split(env["PATH"])))
	}

	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// ApplyToProcess sets the snapshot on the current process environment.
// This is the side-effecting adapter used right before exec.
func (s Snapshot) ApplyToProcess() error {
	for _, name := range s.Names() {
		if utils.IsReservedEnvName(name) {
			continue
		}
		if err := os.Setenv(name, s.Vars[name]); err != nil {
			return err
		}
	}
	if len(s.Path) > 0 {
		merged := paths.Merge(s.Path, paths.Split(os.Getenv("PATH")))
		return os.Setenv("PATH", paths.Join(merged))
	}
	return nil
}
