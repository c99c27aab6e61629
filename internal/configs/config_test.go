package configs

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/paths"
	"github.com/PolarWolf314/provenv/internal/secrets"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func testEnv(vars map[string]string) Env {
	return Env{
		Home: "/home/me",
		Lookup: func(name string) (string, bool) {
			v, ok := vars[name]
			return v, ok
		},
	}
}

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("Default config is invalid: %v", err)
	}
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.toml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Expected defaults, got %+v", cfg)
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := writeConfig(t, `
[secrets]
dir = "~/vault"
decryptor = "age"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Secrets.Dir != "~/vault" || cfg.Secrets.Decryptor != DecryptorAge {
		t.Errorf("Configured values lost: %+v", cfg.Secrets)
	}
	if cfg.Secrets.Pattern != secrets.DefaultPattern || cfg.Secrets.Timeout != "5s" {
		t.Errorf("Defaults not filled in: %+v", cfg.Secrets)
	}
	if !reflect.DeepEqual(cfg.Paths, DefaultPaths()) {
		t.Errorf("Expected default paths when [[path]] is omitted")
	}
	if !reflect.DeepEqual(cfg.Aliases, DefaultAliases()) {
		t.Errorf("Expected default aliases when [[alias]] is omitted")
	}
}

func TestLoad_ExplicitListsReplaceDefaults(t *testing.T) {
	path := writeConfig(t, `
alias = []

[[path]]
dir = "/opt/tools/bin"
when = "exists"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	want := []PathRule{{Dir: "/opt/tools/bin", When: "exists"}}
	if !reflect.DeepEqual(cfg.Paths, want) {
		t.Errorf("Paths = %+v, want %+v", cfg.Paths, want)
	}
	if len(cfg.Aliases) != 0 {
		t.Errorf("Empty alias array must disable aliases, got %+v", cfg.Aliases)
	}
}

func TestLoad_InvalidFileFallsBackToDefaults(t *testing.T) {
	tests := map[string]string{
		"syntax":      "[secrets\n",
		"unknown key": "[secrets]\ncolour = \"blue\"\n",
		"decryptor":   "[secrets]\ndecryptor = \"gpg\"\n",
		"timeout":     "[secrets]\ntimeout = \"soon\"\n",
		"nesting":     "[secrets]\nnesting = \"deep\"\n",
		"condition":   "[[path]]\ndir = \"/x\"\nwhen = \"sometimes\"\n",
		"marker":      "[[path]]\ndir = \"/x\"\nwhen = \"marker\"\n",
		"alias":       "[[alias]]\nfrom = \"A\"\nto = \"not-valid\"\n",
	}

	for name, content := range tests {
		t.Run(name, func(t *testing.T) {
			cfg, err := Load(writeConfig(t, content))
			if err == nil {
				t.Fatal("Expected an error")
			}
			if cfg == nil || !reflect.DeepEqual(cfg, Default()) {
				t.Errorf("Expected defaults alongside the error")
			}
		})
	}
}

func TestLoad_InvalidFileErrorKinds(t *testing.T) {
	_, err := Load(writeConfig(t, "[secrets\n"))
	if !errors.Is(err, kerrors.ErrInvalidConfig) {
		t.Errorf("Expected ErrInvalidConfig, got %v", err)
	}

	_, err = Load(writeConfig(t, "[secrets]\ndecryptor = \"gpg\"\n"))
	if !errors.Is(err, kerrors.ErrUnknownDecryptor) {
		t.Errorf("Expected ErrUnknownDecryptor, got %v", err)
	}

	for _, target := range []string{"PATH", "path"} {
		_, err = Load(writeConfig(t, "[[alias]]\nfrom = \"A\"\nto = \""+target+"\"\n"))
		if !errors.Is(err, kerrors.ErrReservedName) {
			t.Errorf("Alias onto %s: expected ErrReservedName, got %v", target, err)
		}
	}
}

func TestSave_RoundTripAndRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "provenv", "config.toml")

	if err := Default().Save(path, false); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Config not written: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("Config permissions = %o, want 600", info.Mode().Perm())
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load after Save failed: %v", err)
	}
	if !reflect.DeepEqual(loaded, Default()) {
		t.Errorf("Saved config does not load back to the defaults:\n%+v", loaded)
	}

	if err := Default().Save(path, false); !errors.Is(err, kerrors.ErrConfigExists) {
		t.Errorf("Expected ErrConfigExists, got %v", err)
	}
	if err := Default().Save(path, true); err != nil {
		t.Errorf("Save with force failed: %v", err)
	}
}

func TestRules_ExpandsAndParses(t *testing.T) {
	cfg := &Config{Paths: []PathRule{
		{Dir: "~/.local/bin"},
		{Dir: "${TOOLS}/bin", When: "exists"},
		{Dir: "~/.nix-profile/bin", When: "marker", Marker: "/nix"},
	}}

	rules, err := cfg.Rules(testEnv(map[string]string{"TOOLS": "/opt/tools"}))
	if err != nil {
		t.Fatalf("Rules failed: %v", err)
	}

	want := []paths.Rule{
		{Directory: "/home/me/.local/bin", When: paths.Always},
		{Directory: "/opt/tools/bin", When: paths.DirExists},
		{Directory: "/home/me/.nix-profile/bin", When: paths.MarkerExists, Marker: "/nix"},
	}
	if !reflect.DeepEqual(rules, want) {
		t.Errorf("Rules = %+v, want %+v", rules, want)
	}
}

func TestKeyFilePath_EnvironmentOverrides(t *testing.T) {
	cfg := Default()

	if got := cfg.KeyFilePath(testEnv(nil)); got != "/home/me/.config/sops/age/keys.txt" {
		t.Errorf("KeyFilePath = %s", got)
	}

	env := testEnv(map[string]string{"SOPS_AGE_KEY_FILE": "/run/keys/age.txt"})
	if got := cfg.KeyFilePath(env); got != "/run/keys/age.txt" {
		t.Errorf("KeyFilePath with override = %s", got)
	}
}

func TestTimeout(t *testing.T) {
	cfg := Default()
	cfg.Secrets.Timeout = "250ms"
	d, err := cfg.Timeout()
	if err != nil || d != 250*time.Millisecond {
		t.Errorf("Timeout = %v, %v", d, err)
	}

	cfg.Secrets.Timeout = "0s"
	if d, _ := cfg.Timeout(); d != secrets.DefaultTimeout {
		t.Errorf("Zero timeout should mean the default, got %v", d)
	}
}
