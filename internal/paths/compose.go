package paths

import (
	"os"
	"path/filepath"
	"strings"
)

// Decision records what Compose did with one rule.
type Decision struct {
	Rule    Rule
	Applied bool
	Reason  string
}

// Compose applies rules in declaration order, prepending every rule whose
// condition holds, and returns the de-duplicated result.
func Compose(rules []Rule, probe Probe) []string {
	var composed []string
	for _, d := range Trace(rules, probe) {
		if d.Applied {
			composed = append([]string{d.Rule.Directory}, composed...)
		}
	}
	return Dedupe(composed)
}

// Trace evaluates every rule without composing, for diagnostics.
func Trace(rules []Rule, probe Probe) []Decision {
	if probe == nil {
		probe = OSProbe
	}

	decisions := make([]Decision, 0, len(rules))
	for _, r := range rules {
		d := Decision{Rule: r, Applied: r.Holds(probe)}
		switch {
		case d.Applied:
			d.Reason = "applied"
		case r.Directory == "":
			d.Reason = "empty directory"
		case r.When == DirExists:
			d.Reason = "directory does not exist"
		case r.When == MarkerExists && r.Marker == "":
			d.Reason = "no marker configured"
		case r.When == MarkerExists:
			d.Reason = "marker " + r.Marker + " does not exist"
		default:
			d.Reason = "condition not met"
		}
		decisions = append(decisions, d)
	}
	return decisions
}

// Dedupe removes empty and repeated directories, keeping the first occurrence.
// Directories are compared and returned after filepath.Clean. The rendered
// path blocks also drop an inherited copy spelled with a trailing slash.
func Dedupe(dirs []string) []string {
	if len(dirs) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(dirs))
	result := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		clean := filepath.Clean(dir)
		if seen[clean] {
			continue
		}
		seen[clean] = true
		result = append(result, clean)
	}
	return result
}

// Merge places composed directories in front of inherited ones and removes
// duplicates. Merging an already merged list with the same composed list is a
// no-op, which is what makes repeated sourcing safe.
func Merge(composed, inherited []string) []string {
	all := make([]string, 0, len(composed)+len(inherited))
	all = append(all, composed...)
	all = append(all, inherited...)
	return Dedupe(all)
}

// Split splits a PATH-style value on the OS list separator.
func Split(value string) []string {
	if value == "" {
		return nil
	}
	return filepath.SplitList(value)
}

// Join joins directories with the OS list separator.
func Join(dirs []string) string {
	return strings.Join(dirs, string(os.PathListSeparator))
}
