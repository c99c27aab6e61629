package configs

import (
	"os"
	"path/filepath"
)

// Settings holds the locations provenv reads and writes.
type Settings struct {
	// ConfigPath is the configuration file used when --config is not given.
	ConfigPath string

	// StateDir holds the run log.
	StateDir string
}

// ProvenvSettings is initialised at startup from the environment.
var ProvenvSettings *Settings

func init() {
	ProvenvSettings = NewSettings(os.LookupEnv)
}

// NewSettings computes locations from lookup. It never fails: unknown home
// or config directories fall back to relative paths so startup continues.
func NewSettings(lookup func(string) (string, bool)) *Settings {
	home, _ := os.UserHomeDir()
	if v, ok := lookup("HOME"); ok && v != "" {
		home = v
	}

	configPath, ok := lookup("PROVENV_CONFIG")
	if !ok || configPath == "" {
		configDir := ""
		if xdg, ok := lookup("XDG_CONFIG_HOME"); ok && xdg != "" {
			configDir = xdg
		} else if dir, err := os.UserConfigDir(); err == nil {
			configDir = dir
		} else {
			configDir = filepath.Join(home, ".config")
		}
		configPath = filepath.Join(configDir, "provenv", "config.toml")
	}

	stateDir := ""
	if xdg, ok := lookup("XDG_STATE_HOME"); ok && xdg != "" {
		stateDir = filepath.Join(xdg, "provenv")
	} else {
		stateDir = filepath.Join(home, ".local", "state", "provenv")
	}

	return &Settings{
		ConfigPath: configPath,
		StateDir:   stateDir,
	}
}
