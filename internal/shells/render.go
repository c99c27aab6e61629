package shells

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/PolarWolf314/provenv/internal/environment"
	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/utils"
)

const header = "# Generated by provenv. Safe to source more than once.\n"

// Renderer turns a snapshot into startup text for one dialect.
type Renderer interface {
	Dialect() Dialect
	Render(w io.Writer, snap environment.Snapshot) error
}

// For returns the renderer for d.
func For(d Dialect) Renderer {
	switch d {
	case CShell:
		return cshRenderer{}
	case Fish:
		return fishRenderer{}
	case Nushell:
		return NuRenderer{}
	default:
		return posixRenderer{}
	}
}

// RenderString renders snap for d into a string.
func RenderString(d Dialect, snap environment.Snapshot) (string, error) {
	return RenderWith(For(d), snap)
}

// RenderWith renders snap with r into a string.
func RenderWith(r Renderer, snap environment.Snapshot) (string, error) {
	var b strings.Builder
	if err := r.Render(&b, snap); err != nil {
		return "", err
	}
	return b.String(), nil
}

// validateNames rejects names no shell could export, and the search path
// variable, which an export would overwrite after the path block. The
// resolver filters both already; an unchecked name would be spliced into
// shell code.
func validateNames(snap environment.Snapshot) error {
	for _, name := range snap.Names() {
		if !utils.IsValidEnvName(name) {
			return fmt.Errorf("%w: %q", kerrors.ErrInvalidName, name)
		}
		if utils.IsReservedEnvName(name) {
			return fmt.Errorf("%w: %q", kerrors.ErrReservedName, name)
		}
	}
	return nil
}

// reversed returns dirs in reverse order. Each directory is prepended, so
// applying them last-to-first leaves the first directory in front.
func reversed(dirs []string) []string {
	out := make([]string, len(dirs))
	for i, d := range dirs {
		out[len(dirs)-1-i] = d
	}
	return out
}

// render is the shared skeleton: header, path block, one export per name.
func render(w io.Writer, snap environment.Snapshot, pathBlock func([]string) string, export func(name, value string) string) error {
	if err := validateNames(snap); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	if len(snap.Path) > 0 {
		bw.WriteString(pathBlock(snap.Path))
	}
	for _, name := range snap.Names() {
		bw.WriteString(export(name, snap.Vars[name]))
	}
	return bw.Flush()
}

type posixRenderer struct{}

func (posixRenderer) Dialect() Dialect { return POSIX }

func (posixRenderer) Render(w io.Writer, snap environment.Snapshot) error {
	return render(w, snap, posixPath, func(name, value string) string {
		return "export " + name + "=" + posixQuote(value) + "\n"
	})
}

// posixPrepend removes every copy of $1, with or without a trailing slash,
// before putting $1 in front.
const posixPrepend = `__provenv_prepend() {
  __provenv_rest=":${PATH}:"
  for __provenv_dir in "$1" "$1/"; do
    while :; do
      case "$__provenv_rest" in
        *":$__provenv_dir:"*) __provenv_rest="${__provenv_rest%%":$__provenv_dir:"*}:${__provenv_rest#*":$__provenv_dir:"}" ;;
        *) break ;;
      esac
    done
  done
  __provenv_rest="${__provenv_rest#:}"
  __provenv_rest="${__provenv_rest%:}"
  PATH="$1${__provenv_rest:+:$__provenv_rest}"
}
`

func posixPath(dirs []string) string {
	var b strings.Builder
	b.WriteString(posixPrepend)
	for _, dir := range reversed(dirs) {
		b.WriteString("__provenv_prepend " + posixQuote(dir) + "\n")
	}
	b.WriteString("export PATH\n")
	b.WriteString("unset -f __provenv_prepend\n")
	b.WriteString("unset __provenv_rest __provenv_dir\n")
	return b.String()
}

// spellings returns dir and dir with a trailing slash. Composed directories
// are cleaned, but an inherited PATH may carry either form.
func spellings(dir string) []string {
	if strings.HasSuffix(dir, "/") {
		return []string{dir}
	}
	return []string{dir, dir + "/"}
}

// posixQuote wraps s in single quotes. Nothing is special inside single
// quotes except the quote itself, which is closed, escaped and reopened.
func posixQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}

type fishRenderer struct{}

func (fishRenderer) Dialect() Dialect { return Fish }

func (fishRenderer) Render(w io.Writer, snap environment.Snapshot) error {
	return render(w, snap, fishPath, func(name, value string) string {
		return "set -gx " + name + " " + fishQuote(value) + "\n"
	})
}

func fishPath(dirs []string) string {
	var b strings.Builder
	for _, dir := range reversed(dirs) {
		for _, spelling := range spellings(dir) {
			b.WriteString("while set -l __provenv_idx (contains -i -- " + fishQuote(spelling) + " $PATH)\n")
			b.WriteString("    set -e PATH[$__provenv_idx]\n")
			b.WriteString("end\n")
		}
		b.WriteString("set -gx PATH " + fishQuote(dir) + " $PATH\n")
	}
	return b.String()
}

// fishQuote uses fish single quotes, where only \\ and \' are escapes.
func fishQuote(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, "'", `\'`)
	return "'" + s + "'"
}

// NuRenderer renders for nushell. Nushell users save the fragment to a file
// that config.nu sources, so it never carries values: it composes the path and
// loads the variables from "provenv env --json" each time it is sourced.
type NuRenderer struct {
	// ConfigPath is passed to the env command as --config when set.
	ConfigPath string
}

func (NuRenderer) Dialect() Dialect { return Nushell }

func (n NuRenderer) Render(w io.Writer, snap environment.Snapshot) error {
	if err := validateNames(snap); err != nil {
		return err
	}

	bw := bufio.NewWriter(w)
	bw.WriteString(header)
	if len(snap.Path) > 0 {
		bw.WriteString(nuPath(snap.Path))
	}
	if snap.Len() > 0 {
		bw.WriteString("load-env (" + n.envCommand() + " | from json)\n")
	}
	return bw.Flush()
}

func (n NuRenderer) envCommand() string {
	if n.ConfigPath == "" {
		return "^provenv env --json"
	}
	return "^provenv --config " + nuQuote(n.ConfigPath) + " env --json"
}

func nuPath(dirs []string) string {
	var b strings.Builder
	for _, dir := range reversed(dirs) {
		var keep []string
		for _, spelling := range spellings(dir) {
			keep = append(keep, "$p != "+nuQuote(spelling))
		}
		b.WriteString("$env.PATH = ($env.PATH | split row (char esep) | where {|p| " + strings.Join(keep, " and ") + "} | prepend " + nuQuote(dir) + ")\n")
	}
	return b.String()
}

// nuQuote produces a nushell raw string r#'...'#, adding hashes until the
// closing delimiter cannot occur inside the value.
func nuQuote(s string) string {
	hashes := "#"
	for strings.Contains(s, "'"+hashes) {
		hashes += "#"
	}
	return "r" + hashes + "'" + s + "'" + hashes
}

type cshRenderer struct{}

func (cshRenderer) Dialect() Dialect { return CShell }

func (cshRenderer) Render(w io.Writer, snap environment.Snapshot) error {
	return render(w, snap, cshPath, func(name, value string) string {
		return "setenv " + name + " " + cshQuote(value) + "\n"
	})
}

func cshPath(dirs []string) string {
	var b strings.Builder
	for _, dir := range reversed(dirs) {
		var keep []string
		for _, spelling := range spellings(dir) {
			keep = append(keep, "\"$__provenv_dir\" != "+cshQuote(spelling))
		}
		b.WriteString("set __provenv_new = ()\n")
		b.WriteString("foreach __provenv_dir ( $path:q )\n")
		b.WriteString("  if ( " + strings.Join(keep, " && ") + " ) set __provenv_new = ( $__provenv_new:q \"$__provenv_dir\" )\n")
		b.WriteString("end\n")
		b.WriteString("set path = ( " + cshQuote(dir) + " $__provenv_new:q )\n")
	}
	b.WriteString("unset __provenv_new __provenv_dir\n")
	return b.String()
}

// cshQuote single-quotes s for csh. History expansion still applies inside
// single quotes, so '!' is escaped, and a newline needs a backslash.
func cshQuote(s string) string {
	s = strings.ReplaceAll(s, "'", `'\''`)
	s = strings.ReplaceAll(s, "!", `\!`)
	s = strings.ReplaceAll(s, "\n", "\\\n")
	return "'" + s + "'"
}
