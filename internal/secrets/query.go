package secrets

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// Querier extracts one scalar from a decrypted document.
type Querier interface {
	Query(ctx context.Context, plaintext []byte, selector string) (string, error)
}

// YAMLQuerier evaluates selectors in process. A selector is a dotted path
// with an optional leading dot and [n] sequence indexes, e.g. ".db.hosts[0]".
type YAMLQuerier struct{}

type step struct {
	key   string
	index int
	isKey bool
}

func parseSelector(selector string) ([]step, error) {
	s := strings.TrimPrefix(strings.TrimSpace(selector), ".")
	if s == "" {
		return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidSelector, selector)
	}

	var steps []step
	for _, part := range strings.Split(s, ".") {
		name, rest, _ := strings.Cut(part, "[")
		if name == "" && rest == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", kerrors.ErrInvalidSelector, selector)
		}
		if name != "" {
			steps = append(steps, step{key: name, isKey: true})
		}
		if rest == "" {
			continue
		}
		rest = "[" + rest
		for rest != "" {
			if !strings.HasPrefix(rest, "[") {
				return nil, fmt.Errorf("%w: %q", kerrors.ErrInvalidSelector, selector)
			}
			end := strings.Index(rest, "]")
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket in %q", kerrors.ErrInvalidSelector, selector)
			}
			n, err := strconv.Atoi(rest[1:end])
			if err != nil || n < 0 {
				return nil, fmt.Errorf("%w: bad index in %q", kerrors.ErrInvalidSelector, selector)
			}
			steps = append(steps, step{index: n})
			rest = rest[end+1:]
		}
	}
	return steps, nil
}

// Query walks the selector through the document and returns the scalar it
// addresses.
func (YAMLQuerier) Query(ctx context.Context, plaintext []byte, selector string) (string, error) {
	steps, err := parseSelector(selector)
	if err != nil {
		return "", err
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(plaintext, &doc); err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrMalformedDocument, err)
	}
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return "", fmt.Errorf("%w: %s", kerrors.ErrSelectorNotFound, selector)
	}

	node := deref(doc.Content[0])
	for _, st := range steps {
		next := lookup(node, st)
		if next == nil {
			return "", fmt.Errorf("%w: %s", kerrors.ErrSelectorNotFound, selector)
		}
		node = deref(next)
	}

	if node.Kind != yaml.ScalarNode {
		return "", fmt.Errorf("%w: %s", kerrors.ErrNotScalar, selector)
	}
	return scalarValue(node), nil
}

func lookup(node *yaml.Node, st step) *yaml.Node {
	if st.isKey {
		if node.Kind != yaml.MappingNode {
			return nil
		}
		for i := 0; i+1 < len(node.Content); i += 2 {
			if node.Content[i].Value == st.key {
				return node.Content[i+1]
			}
		}
		return nil
	}
	if node.Kind != yaml.SequenceNode || st.index >= len(node.Content) {
		return nil
	}
	return node.Content[st.index]
}

// YQQuerier delegates to the yq binary, passing the plaintext on stdin.
type YQQuerier struct {
	// Binary is the yq executable name or path. Empty means "yq".
	Binary string
}

func (q YQQuerier) binary() string {
	if q.Binary == "" {
		return "yq"
	}
	return q.Binary
}

// Available checks that yq can be found.
func (q YQQuerier) Available() error {
	if _, err := utils.FindBinary(q.binary()); err != nil {
		return fmt.Errorf("%w: %v", kerrors.ErrToolNotFound, err)
	}
	return nil
}

// Query runs `yq -r <selector>`.
func (q YQQuerier) Query(ctx context.Context, plaintext []byte, selector string) (string, error) {
	bin, err := utils.FindBinary(q.binary())
	if err != nil {
		return "", fmt.Errorf("%w: %v", kerrors.ErrToolNotFound, err)
	}

	selector = strings.TrimSpace(selector)
	if selector == "" {
		return "", fmt.Errorf("%w: %q", kerrors.ErrInvalidSelector, selector)
	}
	if !strings.HasPrefix(selector, ".") {
		selector = "." + selector
	}

	cmd := exec.CommandContext(ctx, bin, "-r", selector)
	cmd.Stdin = bytes.NewReader(plaintext)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		wipe(stdout.Bytes())
		return "", utils.FormatCommandError("yq", stderr.String(), err)
	}

	value := strings.TrimSuffix(stdout.String(), "\n")
	wipe(stdout.Bytes())
	if value == "null" {
		return "", fmt.Errorf("%w: %s", kerrors.ErrSelectorNotFound, selector)
	}
	return value, nil
}
