package secrets

import (
	"context"
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

const queryDoc = `
GEMINI_API_KEY: g1
db:
  user: admin
  hosts:
    - primary.local
    - replica.local
  empty:
matrix:
  - [a, b]
  - [c, d]
`

func TestYAMLQuerier(t *testing.T) {
	tests := []struct {
		selector string
		want     string
	}{
		{"GEMINI_API_KEY", "g1"},
		{".GEMINI_API_KEY", "g1"},
		{"db.user", "admin"},
		{".db.hosts[1]", "replica.local"},
		{"db.empty", ""},
		{"matrix[1][0]", "c"},
	}

	q := YAMLQuerier{}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			got, err := q.Query(context.Background(), []byte(queryDoc), tt.selector)
			if err != nil {
				t.Fatalf("Query(%q) failed: %v", tt.selector, err)
			}
			if got != tt.want {
				t.Errorf("Query(%q) = %q, want %q", tt.selector, got, tt.want)
			}
		})
	}
}

func TestYAMLQuerier_Errors(t *testing.T) {
	tests := []struct {
		selector string
		want     error
	}{
		{"missing", kerrors.ErrSelectorNotFound},
		{"db.hosts[5]", kerrors.ErrSelectorNotFound},
		{"GEMINI_API_KEY.child", kerrors.ErrSelectorNotFound},
		{"db", kerrors.ErrNotScalar},
		{"db.hosts", kerrors.ErrNotScalar},
		{"", kerrors.ErrInvalidSelector},
		{".", kerrors.ErrInvalidSelector},
		{"db..user", kerrors.ErrInvalidSelector},
		{"db.hosts[x]", kerrors.ErrInvalidSelector},
		{"db.hosts[0", kerrors.ErrInvalidSelector},
	}

	q := YAMLQuerier{}
	for _, tt := range tests {
		t.Run(tt.selector, func(t *testing.T) {
			_, err := q.Query(context.Background(), []byte(queryDoc), tt.selector)
			if !errors.Is(err, tt.want) {
				t.Errorf("Query(%q) error = %v, want %v", tt.selector, err, tt.want)
			}
		})
	}
}

func TestYQQuerier_MissingBinary(t *testing.T) {
	q := YQQuerier{Binary: "provenv-test-no-such-yq"}
	if err := q.Available(); !errors.Is(err, kerrors.ErrToolNotFound) {
		t.Errorf("Expected ErrToolNotFound, got %v", err)
	}
	_, err := q.Query(context.Background(), []byte(queryDoc), "db.user")
	if !errors.Is(err, kerrors.ErrToolNotFound) {
		t.Errorf("Expected ErrToolNotFound, got %v", err)
	}
}
