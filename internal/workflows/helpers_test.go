package workflows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/provenv/internal/configs"
	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/paths"
)

// fakeDecryptor returns plaintext keyed by file base name.
type fakeDecryptor struct {
	plaintext   map[string]string
	unavailable error
}

func (f *fakeDecryptor) Name() string     { return "fake" }
func (f *fakeDecryptor) Available() error { return f.unavailable }

func (f *fakeDecryptor) Decrypt(ctx context.Context, path string) ([]byte, error) {
	text, ok := f.plaintext[filepath.Base(path)]
	if !ok {
		return nil, kerrors.ErrDecryptFailed
	}
	return []byte(text), nil
}

// fixture is a home directory with a key file, a secrets directory and a
// configuration pointing at both.
type fixture struct {
	home string
	cfg  *configs.Config
	dec  *fakeDecryptor
}

func newFixture(t *testing.T, docs map[string]string) *fixture {
	t.Helper()
	home := t.TempDir()

	keyFile := filepath.Join(home, ".config", "sops", "age", "keys.txt")
	if err := os.MkdirAll(filepath.Dir(keyFile), 0700); err != nil {
		t.Fatalf("Failed to create key dir: %v", err)
	}
	if err := os.WriteFile(keyFile, []byte("AGE-SECRET-KEY-1FAKE\n"), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	dir := filepath.Join(home, ".config", "secrets")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("Failed to create secrets dir: %v", err)
	}
	for name := range docs {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("ENC[placeholder]\n"), 0600); err != nil {
			t.Fatalf("Failed to write document: %v", err)
		}
	}

	cfg := configs.Default()
	cfg.Paths = []configs.PathRule{
		{Dir: "~/.local/bin"},
		{Dir: "~/go/bin"},
		{Dir: "/opt/homebrew/bin", When: "exists"},
		{Dir: "/nix/var/nix/profiles/default/bin", When: "marker", Marker: "/nix"},
	}

	return &fixture{
		home: home,
		cfg:  cfg,
		dec:  &fakeDecryptor{plaintext: docs},
	}
}

func (f *fixture) env() configs.Env {
	return configs.Env{
		Home:   f.home,
		Lookup: func(string) (string, bool) { return "", false },
	}
}

func (f *fixture) options() ProvisionOptions {
	return ProvisionOptions{
		Config:    f.cfg,
		Env:       f.env(),
		Probe:     fakeProbe("/nix"),
		Decryptor: f.dec,
	}
}

func fakeProbe(existing ...string) paths.Probe {
	set := make(map[string]bool)
	for _, p := range existing {
		set[p] = true
	}
	return func(path string) bool { return set[path] }
}

// withStateDir points the run log at a temporary directory.
func withStateDir(t *testing.T) {
	t.Helper()
	original := configs.ProvenvSettings
	configs.ProvenvSettings = &configs.Settings{StateDir: t.TempDir()}
	t.Cleanup(func() { configs.ProvenvSettings = original })
}

func configsStateDir() string {
	return configs.ProvenvSettings.StateDir
}
