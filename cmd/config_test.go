package cmd

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PolarWolf314/provenv/internal/configs"
)

func TestConfigInit_WritesDefaults(t *testing.T) {
	env := setupTestEnvironment(t)
	target := filepath.Join(env.Home, "fresh", "config.toml")

	output, err := captureOutput(func() error {
		ProvenvCmd.SetArgs([]string{"--config", target, "config", "init"})
		return ProvenvCmd.Execute()
	})
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(output, "Configuration written") {
		t.Errorf("Expected a success message, got:\n%s", output)
	}

	cfg, err := configs.Load(target)
	if err != nil {
		t.Fatalf("Written configuration does not load: %v", err)
	}
	if len(cfg.Paths) != len(configs.DefaultPaths()) {
		t.Errorf("Expected %d default path rules, got %d", len(configs.DefaultPaths()), len(cfg.Paths))
	}

	info, err := os.Stat(target)
	if err != nil {
		t.Fatalf("Failed to stat configuration: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Expected mode 0600, got %04o", info.Mode().Perm())
	}
}

func TestConfigInit_RefusesOverwriteWithoutForce(t *testing.T) {
	env := setupTestEnvironment(t)
	before := readFile(t, env.ConfigPath)

	stdout, _, err := runProvenv(t, "config", "init")
	if err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(stdout, "already exists") {
		t.Errorf("Expected an exists warning, got:\n%s", stdout)
	}
	if readFile(t, env.ConfigPath) != before {
		t.Error("Configuration was overwritten without --force")
	}

	if _, _, err := runProvenv(t, "config", "init", "--force"); err != nil {
		t.Fatalf("config init --force returned error: %v", err)
	}
	if readFile(t, env.ConfigPath) == before {
		t.Error("Configuration was not overwritten with --force")
	}
}

func TestConfigShow_TOMLAndJSON(t *testing.T) {
	env := setupTestEnvironment(t)

	stdout, _, err := runProvenv(t, "config", "show")
	if err != nil {
		t.Fatalf("config show returned error: %v", err)
	}
	if !strings.Contains(stdout, "[secrets]") || !strings.Contains(stdout, env.SecretsDir) {
		t.Errorf("Expected the effective TOML, got:\n%s", stdout)
	}

	stdout, _, err = runProvenv(t, "config", "show", "--json")
	if err != nil {
		t.Fatalf("config show --json returned error: %v", err)
	}
	var cfg configs.Config
	if err := json.Unmarshal([]byte(stdout), &cfg); err != nil {
		t.Fatalf("Failed to parse JSON: %v\n%s", err, stdout)
	}
	if cfg.Secrets.Decryptor != configs.DecryptorAge {
		t.Errorf("Expected decryptor age, got %q", cfg.Secrets.Decryptor)
	}
	if cfg.Secrets.Pattern == "" {
		t.Error("Expected defaults to be filled in")
	}
}

func TestRoot_PrintsBanner(t *testing.T) {
	setupTestEnvironment(t)

	stdout, _, err := runProvenv(t)
	if err != nil {
		t.Fatalf("provenv returned error: %v", err)
	}
	if !strings.Contains(stdout, "provenv --help") {
		t.Errorf("Expected a help hint, got:\n%s", stdout)
	}
}

func TestRoot_VerboseAndDebugGoToStderr(t *testing.T) {
	setupTestEnvironment(t)
	SetVerbose(true)
	SetDebug(true)

	stdout, stderr, err := captureStreams(func() error {
		root := GetProvenvCmd()
		root.SetArgs([]string{"path"})
		return root.Execute()
	})
	if err != nil {
		t.Fatalf("path returned error: %v", err)
	}
	if !strings.Contains(stderr, "Starting path command") {
		t.Errorf("Expected info output on stderr, got: %s", stderr)
	}
	if !strings.Contains(stderr, "Loading configuration") {
		t.Errorf("Expected debug output on stderr, got: %s", stderr)
	}
	if strings.Contains(stdout, "Starting path command") {
		t.Errorf("Log output leaked to stdout:\n%s", stdout)
	}
}
