package utils

import (
	"regexp"
	"strings"

	"github.com/PolarWolf314/provenv/internal/ui"
)

// envNameRegex matches names every supported shell accepts as a variable.
var envNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// FormatPaths formats a slice of paths into a readable string.
func FormatPaths(paths []string) string {
	var b strings.Builder
	b.WriteString("\n")
	for _, path := range paths {
		b.WriteString("    - ")
		b.WriteString(ui.Path.Sprint(path))
		b.WriteString("\n")
	}
	return b.String()
}

// IsValidEnvName checks if name can be exported as an environment variable.
func IsValidEnvName(name string) bool {
	return envNameRegex.MatchString(name)
}

// IsReservedEnvName reports whether name is the search path variable, which
// only the path block may set. csh keeps it in the lowercase path array.
func IsReservedEnvName(name string) bool {
	return strings.EqualFold(name, "PATH")
}
