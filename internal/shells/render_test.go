package shells

import (
	"errors"
	"os/exec"
	"strings"
	"testing"

	"github.com/PolarWolf314/provenv/internal/environment"
	kerrors "github.com/PolarWolf314/provenv/internal/errors"
)

func sampleSnapshot() environment.Snapshot {
	return environment.New(
		[]string{"/home/me/go/bin", "/home/me/.local/bin"},
		map[string]string{
			"GEMINI_API_KEY": "g1",
			"AWS_KEY":        "a1",
		},
	)
}

func TestRender_AllDialectsEndWithNewlineAndHeader(t *testing.T) {
	for _, d := range Dialects() {
		t.Run(d.String(), func(t *testing.T) {
			out, err := RenderString(d, sampleSnapshot())
			if err != nil {
				t.Fatalf("RenderString returned error: %v", err)
			}
			if !strings.HasPrefix(out, header) {
				t.Errorf("expected header comment, got:\n%s", out)
			}
			if !strings.HasSuffix(out, "\n") {
				t.Errorf("expected trailing newline")
			}
		})
	}
}

func TestRender_IsDeterministic(t *testing.T) {
	for _, d := range Dialects() {
		first, _ := RenderString(d, sampleSnapshot())
		for i := 0; i < 10; i++ {
			again, _ := RenderString(d, sampleSnapshot())
			if again != first {
				t.Fatalf("%v: output changed between renders", d)
			}
		}
	}
}

func TestRender_ExportsAreSorted(t *testing.T) {
	out, err := RenderString(POSIX, sampleSnapshot())
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	aws := strings.Index(out, "export AWS_KEY='a1'")
	gemini := strings.Index(out, "export GEMINI_API_KEY='g1'")
	if aws < 0 || gemini < 0 {
		t.Fatalf("missing exports in:\n%s", out)
	}
	if aws > gemini {
		t.Errorf("expected AWS_KEY before GEMINI_API_KEY")
	}
}

func TestRender_PathAppliedLowestPriorityFirst(t *testing.T) {
	out, err := RenderString(Fish, sampleSnapshot())
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	local := strings.Index(out, "set -gx PATH '/home/me/.local/bin' $PATH")
	gobin := strings.Index(out, "set -gx PATH '/home/me/go/bin' $PATH")
	if local < 0 || gobin < 0 {
		t.Fatalf("missing path statements in:\n%s", out)
	}
	if local > gobin {
		t.Errorf("highest priority directory must be prepended last")
	}
}

func TestRender_EmptySnapshot(t *testing.T) {
	for _, d := range Dialects() {
		out, err := RenderString(d, environment.Snapshot{})
		if err != nil {
			t.Fatalf("%v: unexpected error: %v", d, err)
		}
		if out != header {
			t.Errorf("%v: expected only the header, got:\n%s", d, out)
		}
	}
}

func TestRender_RejectsInvalidNames(t *testing.T) {
	snap := environment.New(nil, map[string]string{"BAD-NAME": "x"})
	for _, d := range Dialects() {
		_, err := RenderString(d, snap)
		if !errors.Is(err, kerrors.ErrInvalidName) {
			t.Errorf("%v: expected ErrInvalidName, got %v", d, err)
		}
	}
}

func TestRender_RefusesSearchPathVariable(t *testing.T) {
	for _, name := range []string{"PATH", "path"} {
		snap := environment.New([]string{"/opt/tool/bin"}, map[string]string{name: "/evil", "API": "k"})
		for _, d := range Dialects() {
			out, err := RenderString(d, snap)
			if !errors.Is(err, kerrors.ErrReservedName) {
				t.Errorf("%v/%s: expected ErrReservedName, got %v", d, name, err)
			}
			if strings.Contains(out, "/evil") {
				t.Errorf("%v/%s: fragment overrides the search path:\n%s", d, name, out)
			}
		}
	}
}

func TestNuFragment_HoldsNoValues(t *testing.T) {
	out, err := RenderString(Nushell, sampleSnapshot())
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	for _, value := range []string{"g1", "a1", "GEMINI_API_KEY"} {
		if strings.Contains(out, value) {
			t.Errorf("nu fragment contains %q:\n%s", value, out)
		}
	}
	if !strings.Contains(out, "load-env (^provenv env --json | from json)") {
		t.Errorf("expected the variables to be loaded at source time, got:\n%s", out)
	}
	if !strings.Contains(out, "prepend r#'/home/me/go/bin'#") {
		t.Errorf("expected the path block, got:\n%s", out)
	}
}

func TestNuFragment_PassesConfigPath(t *testing.T) {
	out, err := RenderWith(NuRenderer{ConfigPath: "/home/me/my config.toml"}, sampleSnapshot())
	if err != nil {
		t.Fatalf("RenderWith returned error: %v", err)
	}
	if !strings.Contains(out, "^provenv --config r#'/home/me/my config.toml'# env --json") {
		t.Errorf("expected --config to be passed on, got:\n%s", out)
	}
}

func TestNuFragment_PathOnlySkipsLoadEnv(t *testing.T) {
	out, err := RenderString(Nushell, environment.New([]string{"/opt/x"}, nil))
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}
	if strings.Contains(out, "load-env") {
		t.Errorf("no variables means no env call, got:\n%s", out)
	}
}

func TestPosixQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "'plain'"},
		{"", "''"},
		{"it's", `'it'\''s'`},
		{"$HOME `id` \\n", "'$HOME `id` \\n'"},
	}
	for _, tt := range tests {
		if got := posixQuote(tt.in); got != tt.want {
			t.Errorf("posixQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFishQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "'plain'"},
		{"it's", `'it\'s'`},
		{`back\slash`, `'back\\slash'`},
		{"$HOME (id)", "'$HOME (id)'"},
	}
	for _, tt := range tests {
		if got := fishQuote(tt.in); got != tt.want {
			t.Errorf("fishQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNuQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "r#'plain'#"},
		{"it's", "r#'it's'#"},
		{"a'#b", "r##'a'#b'##"},
		{"a'#b'##c", "r###'a'#b'##c'###"},
	}
	for _, tt := range tests {
		if got := nuQuote(tt.in); got != tt.want {
			t.Errorf("nuQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestCshQuote(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"plain", "'plain'"},
		{"it's", `'it'\''s'`},
		{"wow!", `'wow\!'`},
		{"a\nb", "'a\\\nb'"},
	}
	for _, tt := range tests {
		if got := cshQuote(tt.in); got != tt.want {
			t.Errorf("cshQuote(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// TestPosixFragment_SourcedTwice runs the fragment in a real sh and checks
// that sourcing it twice leaves PATH unchanged and values unexpanded.
func TestPosixFragment_SourcedTwice(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	snap := environment.New(
		[]string{"/opt/a", "/opt/x"},
		map[string]string{"TOKEN": "it's $HOME `id`"},
	)
	frag, err := RenderString(POSIX, snap)
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}

	script := `PATH=/usr/bin:/opt/x:/bin
eval "$FRAG"
first="$PATH"
eval "$FRAG"
printf '%s\n' "$first" "$PATH" "$TOKEN"`

	cmd := exec.Command(sh, "-c", script)
	cmd.Env = []string{"FRAG=" + frag}
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("sh failed: %v", err)
	}

	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("unexpected output: %q", out)
	}
	want := "/opt/a:/opt/x:/usr/bin:/bin"
	if lines[0] != want {
		t.Errorf("PATH after first source = %q, want %q", lines[0], want)
	}
	if lines[1] != want {
		t.Errorf("PATH after second source = %q, want %q", lines[1], want)
	}
	if lines[2] != "it's $HOME `id`" {
		t.Errorf("TOKEN = %q, value was expanded", lines[2])
	}
}

func TestPosixFragment_RemovesTrailingSlashSpelling(t *testing.T) {
	sh, err := exec.LookPath("sh")
	if err != nil {
		t.Skip("sh not available")
	}

	frag, err := RenderString(POSIX, environment.New([]string{"/opt/a"}, nil))
	if err != nil {
		t.Fatalf("RenderString returned error: %v", err)
	}

	cmd := exec.Command(sh, "-c", `PATH=/usr/bin:/opt/a/:/bin:/opt/a
eval "$FRAG"
printf '%s\n' "$PATH"`)
	cmd.Env = []string{"FRAG=" + frag}
	out, err := cmd.Output()
	if err != nil {
		t.Fatalf("sh failed: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "/opt/a:/usr/bin:/bin" {
		t.Errorf("PATH = %q, want /opt/a:/usr/bin:/bin", got)
	}
}

func TestRender_PathBlocksMatchTrailingSlash(t *testing.T) {
	snap := environment.New([]string{"/opt/a"}, nil)
	want := map[Dialect]string{
		Fish:    "contains -i -- '/opt/a/' $PATH",
		Nushell: "$p != r#'/opt/a'# and $p != r#'/opt/a/'#",
		CShell:  `"$__provenv_dir" != '/opt/a' && "$__provenv_dir" != '/opt/a/'`,
	}
	for d, fragment := range want {
		out, err := RenderString(d, snap)
		if err != nil {
			t.Fatalf("%v: RenderString returned error: %v", d, err)
		}
		if !strings.Contains(out, fragment) {
			t.Errorf("%v: expected %q in:\n%s", d, fragment, out)
		}
	}
}
