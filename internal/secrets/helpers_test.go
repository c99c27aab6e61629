package secrets

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

// writeTestFile writes content to dir/name, creating parent directories.
func writeTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", path, err)
	}
	return path
}

// fakeDecryptor serves plaintext by file base name. Files it does not know
// fail to decrypt. Names listed in slow block until the context ends.
type fakeDecryptor struct {
	plaintext   map[string]string
	slow        map[string]bool
	unavailable error
	calls       []string
}

func (f *fakeDecryptor) Name() string { return "fake" }

func (f *fakeDecryptor) Available() error { return f.unavailable }

func (f *fakeDecryptor) Decrypt(ctx context.Context, path string) ([]byte, error) {
	base := filepath.Base(path)
	f.calls = append(f.calls, base)
	if f.slow[base] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	text, ok := f.plaintext[base]
	if !ok {
		return nil, kerrors.ErrDecryptFailed
	}
	return []byte(text), nil
}

// secretsFixture lays out a key file and one placeholder document per name
// in plaintext, returning a resolver wired to a fakeDecryptor.
func secretsFixture(t *testing.T, plaintext map[string]string) (Resolver, *fakeDecryptor) {
	t.Helper()
	root := t.TempDir()
	keyFile := writeTestFile(t, root, "keys.txt", "AGE-SECRET-KEY-1FAKE\n")
	dir := filepath.Join(root, "secrets")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatalf("Failed to create secrets dir: %v", err)
	}
	for name := range plaintext {
		writeTestFile(t, dir, name, "ENC[placeholder]\n")
	}

	dec := &fakeDecryptor{plaintext: plaintext, slow: map[string]bool{}}
	return Resolver{
		Decryptor: dec,
		KeyFile:   keyFile,
		Dir:       dir,
		Pattern:   DefaultPattern,
	}, dec
}
