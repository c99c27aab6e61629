package shells

import (
	"fmt"
	"path/filepath"
	"strings"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

// Dialect identifies a family of shells sharing one syntax.
type Dialect int

const (
	// POSIX covers sh-compatible shells.
	POSIX Dialect = iota
	// CShell covers csh and tcsh.
	CShell
	// Fish is the friendly interactive shell.
	Fish
	// Nushell is the structured-data shell.
	Nushell
)

// String returns the canonical dialect name.
func (d Dialect) String() string {
	switch d {
	case POSIX:
		return "posix"
	case CShell:
		return "csh"
	case Fish:
		return "fish"
	case Nushell:
		return "nu"
	default:
		return "unknown"
	}
}

var dialectNames = map[string]Dialect{
	"posix":   POSIX,
	"sh":      POSIX,
	"bash":    POSIX,
	"zsh":     POSIX,
	"dash":    POSIX,
	"ash":     POSIX,
	"ksh":     POSIX,
	"mksh":    POSIX,
	"csh":     CShell,
	"tcsh":    CShell,
	"fish":    Fish,
	"nu":      Nushell,
	"nushell": Nushell,
}

// ParseDialect maps a shell or dialect name to its Dialect.
func ParseDialect(name string) (Dialect, error) {
	d, ok := dialectNames[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return POSIX, fmt.Errorf("%w: %q", kerrors.ErrUnknownDialect, name)
	}
	return d, nil
}

// Detect picks a dialect from a $SHELL value such as "/usr/bin/fish".
// Unknown or empty values fall back to POSIX.
func Detect(shellEnv string) Dialect {
	if shellEnv == "" {
		return POSIX
	}
	base := filepath.Base(shellEnv)
	base = strings.TrimPrefix(base, "-") // login shells appear as "-zsh"
	d, err := ParseDialect(base)
	if err != nil {
		return POSIX
	}
	return d
}

// Dialects lists the supported dialects.
func Dialects() []Dialect {
	return []Dialect{POSIX, CShell, Fish, Nushell}
}
