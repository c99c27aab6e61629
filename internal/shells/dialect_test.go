package shells

import (
	"errors"
	"testing"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

func TestParseDialect(t *testing.T) {
	tests := []struct {
		input string
		want  Dialect
	}{
		{"bash", POSIX},
		{"zsh", POSIX},
		{"sh", POSIX},
		{"posix", POSIX},
		{"tcsh", CShell},
		{"csh", CShell},
		{"fish", Fish},
		{"nu", Nushell},
		{"NuShell", Nushell},
		{" Fish ", Fish},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseDialect(tt.input)
			if err != nil {
				t.Fatalf("ParseDialect(%q) returned error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseDialect(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseDialect_Unknown(t *testing.T) {
	_, err := ParseDialect("powershell")
	if !errors.Is(err, kerrors.ErrUnknownDialect) {
		t.Errorf("expected ErrUnknownDialect, got %v", err)
	}
}

func TestDetect(t *testing.T) {
	tests := []struct {
		shell string
		want  Dialect
	}{
		{"/bin/zsh", POSIX},
		{"/usr/local/bin/fish", Fish},
		{"/run/current-system/sw/bin/nu", Nushell},
		{"/bin/tcsh", CShell},
		{"-zsh", POSIX},
		{"", POSIX},
		{"/usr/bin/xonsh", POSIX},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			if got := Detect(tt.shell); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.shell, got, tt.want)
			}
		})
	}
}

func TestDialectString_RoundTrips(t *testing.T) {
	for _, d := range Dialects() {
		got, err := ParseDialect(d.String())
		if err != nil || got != d {
			t.Errorf("ParseDialect(%q) = %v, %v; want %v", d.String(), got, err, d)
		}
	}
}
