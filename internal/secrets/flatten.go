package secrets

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	kerrors "github.com/PolarWolf314/provenv/internal/errors"
	"github.com/PolarWolf314/provenv/internal/utils"
)

// FlattenPolicy decides what happens to mapping values one level down.
type FlattenPolicy int

const (
	// RejectNested treats any nested mapping as a document error.
	RejectNested FlattenPolicy = iota

	// JoinUnderscore turns {AWS: {KEY: v}} into AWS_KEY=v, one level deep.
	JoinUnderscore
)

// String returns the configuration spelling of the policy.
func (p FlattenPolicy) String() string {
	if p == JoinUnderscore {
		return "underscore"
	}
	return "reject"
}

// ParseFlattenPolicy parses "reject" (or "") and "underscore".
func ParseFlattenPolicy(s string) (FlattenPolicy, error) {
	switch strings.ToLower(s) {
	case "", "reject":
		return RejectNested, nil
	case "underscore":
		return JoinUnderscore, nil
	default:
		return RejectNested, fmt.Errorf("%w: unknown nesting policy %q", kerrors.ErrInvalidConfig, s)
	}
}

// Entry is one flattened name/value pair.
type Entry struct {
	Name     string
	Value    string
	Document string
}

// Flatten parses a decrypted YAML document into entries, in document order.
// Any invalid name or disallowed nesting rejects the whole document.
func Flatten(plaintext []byte, policy FlattenPolicy) ([]Entry, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(plaintext, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", kerrors.ErrMalformedDocument, err)
	}

	root := &doc
	if root.Kind == 0 {
		return nil, nil
	}
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, nil
		}
		root = root.Content[0]
	}
	if isNull(root) {
		return nil, nil
	}
	if root.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level is not a mapping", kerrors.ErrMalformedDocument)
	}

	var entries []Entry
	seen := make(map[string]bool)
	add := func(name, value string) error {
		if !utils.IsValidEnvName(name) {
			return fmt.Errorf("%w: %q", kerrors.ErrInvalidName, name)
		}
		if seen[name] {
			return fmt.Errorf("%w: %s defined twice", kerrors.ErrMalformedDocument, name)
		}
		seen[name] = true
		entries = append(entries, Entry{Name: name, Value: value})
		return nil
	}

	for i := 0; i+1 < len(root.Content); i += 2 {
		key, val := root.Content[i], deref(root.Content[i+1])
		if key.Kind != yaml.ScalarNode {
			return nil, fmt.Errorf("%w: non-scalar key at line %d", kerrors.ErrMalformedDocument, key.Line)
		}

		switch val.Kind {
		case yaml.ScalarNode:
			if err := add(key.Value, scalarValue(val)); err != nil {
				return nil, err
			}
		case yaml.MappingNode:
			if policy != JoinUnderscore {
				return nil, fmt.Errorf("%w: %s", kerrors.ErrNestedValue, key.Value)
			}
			if err := flattenChild(key.Value, val, add); err != nil {
				return nil, err
			}
		default:
			return nil, fmt.Errorf("%w: %s", kerrors.ErrNestedValue, key.Value)
		}
	}

	return entries, nil
}

func flattenChild(parent string, node *yaml.Node, add func(name, value string) error) error {
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, val := node.Content[i], deref(node.Content[i+1])
		name := parent + "_" + key.Value
		if key.Kind != yaml.ScalarNode || val.Kind != yaml.ScalarNode {
			return fmt.Errorf("%w: %s", kerrors.ErrNestedValue, name)
		}
		if err := add(name, scalarValue(val)); err != nil {
			return err
		}
	}
	return nil
}

// deref follows YAML aliases (*anchor) to their target node.
func deref(n *yaml.Node) *yaml.Node {
	for n.Kind == yaml.AliasNode && n.Alias != nil {
		n = n.Alias
	}
	return n
}

func isNull(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Tag == "!!null"
}

// scalarValue keeps the literal text of a scalar, so 007 stays "007" and
// true stays "true". Null becomes the empty string.
func scalarValue(n *yaml.Node) string {
	if isNull(n) {
		return ""
	}
	return n.Value
}
