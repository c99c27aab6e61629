package utils

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// wellKnownBinDirs are checked after PATH. Shell startup runs before the
// PATH is assembled, so tools installed by Homebrew or Nix may not be on it yet.
var wellKnownBinDirs = []string{
	"/opt/homebrew/bin",
	"/usr/local/bin",
	"~/.nix-profile/bin",
	"/nix/var/nix/profiles/default/bin",
	"/run/current-system/sw/bin",
	"~/.local/bin",
	"~/go/bin",
}

// FindBinary resolves an executable by name, checking PATH first and then the
// well-known installation directories. Absolute or relative paths containing
// a separator are only checked for existence.
func FindBinary(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("empty binary name")
	}

	if strings.ContainsRune(name, os.PathSeparator) {
		path := Expand(name)
		if isExecutable(path) {
			return path, nil
		}
		return "", fmt.Errorf("%s not found", path)
	}

	if path, err := exec.LookPath(name); err == nil {
		return path, nil
	}

	for _, dir := range wellKnownBinDirs {
		candidate := filepath.Join(Expand(dir), name)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", fmt.Errorf("%s not found on PATH or in %s", name, strings.Join(wellKnownBinDirs, ", "))
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode()&0o111 != 0
}

// FormatCommandError produces an error message for a failed external command,
// preferring its stderr output over the generic exec error.
func FormatCommandError(name string, stderr string, err error) error {
	stderrText := strings.TrimSpace(stderr)
	if stderrText != "" {
		return fmt.Errorf("%s: %s", name, stderrText)
	}
	return fmt.Errorf("%s: %w", name, err)
}
