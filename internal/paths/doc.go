// Package paths composes the executable search path from declarative rules.
//
// Each Rule names a directory and a condition. Rules are applied in
// declaration order and every applied rule is prepended, so the rule declared
// last is searched first. A rule whose condition does not hold is skipped
// silently: an optional toolchain that is not installed is not an error.
//
// The composed list is de-duplicated keeping the first occurrence, which is
// the highest-priority position.
//
//	rules := []paths.Rule{
//	    {Directory: "/home/me/.local/bin"},
//	    {Directory: "/nix/var/nix/profiles/default/bin", When: paths.MarkerExists, Marker: "/nix"},
//	}
//	dirs := paths.Compose(rules, paths.OSProbe)
//
// Nothing in this package returns an error. Existence checks are booleans.
package paths
