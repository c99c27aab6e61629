package utils

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath expands a leading "~" to the home directory and substitutes
// $VAR / ${VAR} references using lookup. Unknown variables expand to "".
func ExpandPath(path, home string, lookup func(string) (string, bool)) string {
	if path == "~" {
		path = home
	} else if strings.HasPrefix(path, "~/") {
		path = filepath.Join(home, path[2:])
	}

	return os.Expand(path, func(name string) string {
		if name == "HOME" && home != "" {
			return home
		}
		if lookup == nil {
			return ""
		}
		value, _ := lookup(name)
		return value
	})
}

// Expand expands path against the real home directory and environment.
func Expand(path string) string {
	home, _ := os.UserHomeDir()
	return ExpandPath(path, home, os.LookupEnv)
}

// Exists reports whether path exists. Any stat error counts as absent.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// IsDir reports whether path exists and is a directory.
func IsDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
