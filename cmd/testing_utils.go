// Package cmd contains testing utilities shared between command tests.
// This file provides common functions for setting up a throwaway home with
// an age key, encrypted secret documents and a configuration file, and for
// capturing output.
package cmd

import (
	"bytes"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/PolarWolf314/provenv/internal/configs"
	logger "github.com/PolarWolf314/provenv/internal/logging"

	"filippo.io/age"
)

// testEnvironment is a throwaway home directory with provenv configured to
// use the native age decryptor.
type testEnvironment struct {
	Home       string
	KeyFile    string
	SecretsDir string
	ConfigPath string
	StateDir   string
	BinDir     string

	identity *age.X25519Identity
}

// setupTestEnvironment creates a home directory with an age key, an empty
// secrets directory and a configuration file, and points provenv at it.
func setupTestEnvironment(t *testing.T) *testEnvironment {
	t.Helper()

	home := t.TempDir()
	env := &testEnvironment{
		Home:       home,
		KeyFile:    filepath.Join(home, ".config", "sops", "age", "keys.txt"),
		SecretsDir: filepath.Join(home, ".config", "secrets"),
		ConfigPath: filepath.Join(home, ".config", "provenv", "config.toml"),
		StateDir:   filepath.Join(home, ".local", "state", "provenv"),
		BinDir:     filepath.Join(home, "bin"),
	}

	for _, dir := range []string{filepath.Dir(env.KeyFile), env.SecretsDir, filepath.Dir(env.ConfigPath), env.BinDir} {
		if err := os.MkdirAll(dir, 0700); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}

	id, err := age.GenerateX25519Identity()
	if err != nil {
		t.Fatalf("Failed to generate age identity: %v", err)
	}
	env.identity = id
	keyData := fmt.Sprintf("# created for tests\n# public key: %s\n%s\n", id.Recipient(), id)
	if err := os.WriteFile(env.KeyFile, []byte(keyData), 0600); err != nil {
		t.Fatalf("Failed to write key file: %v", err)
	}

	env.writeConfig(t, "")

	t.Setenv("HOME", home)
	t.Setenv("SOPS_AGE_KEY_FILE", "")
	t.Setenv("NO_COLOR", "1")

	originalSettings := configs.ProvenvSettings
	configs.ProvenvSettings = &configs.Settings{
		ConfigPath: env.ConfigPath,
		StateDir:   env.StateDir,
	}

	ResetGlobalState()
	t.Cleanup(func() {
		configs.ProvenvSettings = originalSettings
		ResetGlobalState()
	})

	return env
}

// writeConfig writes a configuration using the age decryptor, a single path
// rule for BinDir and no aliases. extra is appended verbatim.
func (e *testEnvironment) writeConfig(t *testing.T, extra string) {
	t.Helper()

	content := fmt.Sprintf(`alias = []

[secrets]
dir = %q
key_file = %q
decryptor = "age"
timeout = "5s"

[[path]]
dir = %q

%s`, e.SecretsDir, e.KeyFile, e.BinDir, extra)

	if err := os.WriteFile(e.ConfigPath, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

// writeSecret encrypts plaintext to the test identity and stores it under
// the secrets directory.
func (e *testEnvironment) writeSecret(t *testing.T, name, plaintext string) {
	t.Helper()

	path := filepath.Join(e.SecretsDir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		t.Fatalf("Failed to create directory for %s: %v", name, err)
	}

	var buf bytes.Buffer
	w, err := age.Encrypt(&buf, e.identity.Recipient())
	if err != nil {
		t.Fatalf("age.Encrypt failed: %v", err)
	}
	if _, err := io.WriteString(w, plaintext); err != nil {
		t.Fatalf("Failed to write plaintext: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to finish encryption: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// captureStreams captures stdout and stderr separately during function execution.
func captureStreams(fn func() error) (string, string, error) {
	// Save original stdout and stderr
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	// Create pipes to capture output
	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	// Replace stdout and stderr
	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	stdoutChan := make(chan string)
	stderrChan := make(chan string)
	drain := func(r io.Reader, out chan<- string) {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, r); err != nil {
			log.Fatalf("Failed to run copy command: %s", err)
		}
		out <- buf.String()
	}
	go drain(stdoutReader, stdoutChan)
	go drain(stderrReader, stderrChan)

	// Execute the function
	err := fn()

	// Close writers to signal EOF
	stdoutWriter.Close()
	stderrWriter.Close()

	// Restore original stdout and stderr
	os.Stdout = originalStdout
	os.Stderr = originalStderr

	return <-stdoutChan, <-stderrChan, err
}

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	stdout, stderr, err := captureStreams(fn)
	return stdout + stderr, err
}

// runProvenv executes the root command with args and returns what it wrote
// to stdout and stderr.
func runProvenv(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	if args == nil {
		// cobra falls back to os.Args when given nil.
		args = []string{}
	}
	return captureStreams(func() error {
		Logger = logger.Logger{}
		ProvenvCmd.SetArgs(args)
		return ProvenvCmd.Execute()
	})
}
