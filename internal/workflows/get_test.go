package workflows

import (
	"context"
	"errors"
	"os"
	"testing"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

func TestGet_ReturnsOneField(t *testing.T) {
	f := newFixture(t, map[string]string{
		"ai.yaml":  "GEMINI_API_KEY: g1\nOPENAI_API_KEY: o1\n",
		"aws.yaml": "AWS_KEY: a1\n",
	})

	result, err := Get(context.Background(), GetOptions{
		ProvisionOptions: f.options(),
		Group:            "ai",
		Selector:         "OPENAI_API_KEY",
	})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if result.Value != "o1" {
		t.Errorf("Value = %q, want o1", result.Value)
	}
	if result.Document.Rel != "ai.yaml" {
		t.Errorf("Document = %s", result.Document.Rel)
	}
}

func TestGet_Errors(t *testing.T) {
	f := newFixture(t, map[string]string{"ai.yaml": "GEMINI_API_KEY: g1\n"})

	_, err := Get(context.Background(), GetOptions{ProvisionOptions: f.options(), Group: "cloud", Selector: "X"})
	if !errors.Is(err, kerrors.ErrDocumentNotFound) {
		t.Errorf("Expected ErrDocumentNotFound, got %v", err)
	}

	_, err = Get(context.Background(), GetOptions{ProvisionOptions: f.options(), Group: "ai", Selector: "MISSING"})
	if !errors.Is(err, kerrors.ErrSelectorNotFound) {
		t.Errorf("Expected ErrSelectorNotFound, got %v", err)
	}

	f.dec.unavailable = kerrors.ErrToolNotFound
	_, err = Get(context.Background(), GetOptions{ProvisionOptions: f.options(), Group: "ai", Selector: "GEMINI_API_KEY"})
	if !errors.Is(err, kerrors.ErrToolNotFound) {
		t.Errorf("Expected ErrToolNotFound, got %v", err)
	}
	f.dec.unavailable = nil

	if err := os.Remove(f.cfg.KeyFilePath(f.env())); err != nil {
		t.Fatalf("Failed to remove key file: %v", err)
	}
	_, err = Get(context.Background(), GetOptions{ProvisionOptions: f.options(), Group: "ai", Selector: "GEMINI_API_KEY"})
	if !errors.Is(err, kerrors.ErrKeyFileMissing) {
		t.Errorf("Expected ErrKeyFileMissing, got %v", err)
	}
}
