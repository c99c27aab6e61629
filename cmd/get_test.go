package cmd

import (
	"errors"
	"strings"
	"testing"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

func TestGet_PrintsOneValue(t *testing.T) {
	env := setupTestEnvironment(t)
	env.writeSecret(t, "cloud.yaml", "AWS_KEY: a1\nAWS_SECRET: s1\n")

	stdout, _, err := runProvenv(t, "get", "cloud", "AWS_SECRET")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if stdout != "s1\n" {
		t.Errorf("Expected %q, got %q", "s1\n", stdout)
	}
}

func TestGet_NestedSelector(t *testing.T) {
	env := setupTestEnvironment(t)
	env.writeSecret(t, "db.yaml", "database:\n  password: hunter2\n")

	stdout, _, err := runProvenv(t, "get", "db", ".database.password")
	if err != nil {
		t.Fatalf("get returned error: %v", err)
	}
	if strings.TrimSpace(stdout) != "hunter2" {
		t.Errorf("Expected hunter2, got %q", stdout)
	}
}

func TestGet_UnknownDocument(t *testing.T) {
	setupTestEnvironment(t)

	stdout, _, err := runProvenv(t, "get", "nope", "KEY")
	if !errors.Is(err, kerrors.ErrDocumentNotFound) {
		t.Fatalf("Expected ErrDocumentNotFound, got %v", err)
	}
	if !strings.Contains(stdout, "No secret document named") {
		t.Errorf("Expected a helpful message, got:\n%s", stdout)
	}
}

func TestGet_UnknownSelector(t *testing.T) {
	env := setupTestEnvironment(t)
	env.writeSecret(t, "cloud.yaml", "AWS_KEY: a1\n")

	stdout, _, err := runProvenv(t, "get", "cloud", "MISSING")
	if !errors.Is(err, kerrors.ErrSelectorNotFound) {
		t.Fatalf("Expected ErrSelectorNotFound, got %v", err)
	}
	if strings.Contains(stdout, "a1") {
		t.Errorf("Error output leaked a value:\n%s", stdout)
	}
}

func TestGet_RequiresTwoArguments(t *testing.T) {
	setupTestEnvironment(t)

	if _, _, err := runProvenv(t, "get", "cloud"); err == nil {
		t.Fatal("Expected an argument error")
	}
}
