package paths

import (
	"fmt"
	"os"
	"strings"
)

// Condition decides whether a Rule is applied.
type Condition int

const (
	// Always applies the rule unconditionally.
	Always Condition = iota
	// DirExists applies the rule only when the directory itself exists.
	DirExists
	// MarkerExists applies the rule only when the rule's marker path exists.
	MarkerExists
)

// String returns the configuration spelling of the condition.
func (c Condition) String() string {
	switch c {
	case Always:
		return "always"
	case DirExists:
		return "exists"
	case MarkerExists:
		return "marker"
	default:
		return "unknown"
	}
}

// ParseCondition parses the configuration spelling of a condition.
// An empty string means Always.
func ParseCondition(s string) (Condition, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "always":
		return Always, nil
	case "exists":
		return DirExists, nil
	case "marker":
		return MarkerExists, nil
	default:
		return Always, fmt.Errorf("unknown path condition %q (want always, exists or marker)", s)
	}
}

// Rule describes a directory to prepend to the search path.
type Rule struct {
	// Directory is an absolute, already expanded directory.
	Directory string

	// When selects the condition under which the rule applies.
	When Condition

	// Marker is the path checked by MarkerExists, e.g. "/nix".
	Marker string
}

// Probe reports whether a filesystem path exists.
type Probe func(path string) bool

// OSProbe checks the real filesystem. Stat errors count as absent.
func OSProbe(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Holds reports whether the rule's condition is satisfied.
func (r Rule) Holds(probe Probe) bool {
	if r.Directory == "" {
		return false
	}
	switch r.When {
	case Always:
		return true
	case DirExists:
		return probe(r.Directory)
	case MarkerExists:
		return r.Marker != "" && probe(r.Marker)
	default:
		return false
	}
}
