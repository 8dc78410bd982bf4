// Package treefile reads pattern trees described in YAML.
//
// A scalar is a literal and a sequence is a concatenation. A mapping holds
// exactly one kind key, such as capture or repeat, whose value is the child
// node, plus the modifier keys that kind accepts:
//
//	pattern:
//	  - anchor: start
//	  - maybe: {capture: "(", name: open}
//	  - repeat: {predefined: digit}
//	    min: 3
//	    max: 3
//	  - if: open
//	    then: ")"
//	  - anchor: end
package treefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funkybooboo/regexr/engine"
	"github.com/funkybooboo/regexr/pattern"
)

// ErrInvalid is wrapped by every error about the shape of a tree file.
var ErrInvalid = errors.New("invalid tree file")

// Document is a decoded tree file.
type Document struct {
	Flags   engine.Flags
	Pattern pattern.Node
	// Examples must match the pattern; Counterexamples must not.
	Examples        []string
	Counterexamples []string
}

// Decode reads one YAML document from r.
func Decode(r io.Reader) (*Document, error) {
	var root yaml.Node
	if err := yaml.NewDecoder(r).Decode(&root); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalid)
		}
		return nil, err
	}
	return decodeDocument(&root)
}

// Parse decodes data as a tree file.
func Parse(data []byte) (*Document, error) {
	return Decode(bytes.NewReader(data))
}

func decodeDocument(root *yaml.Node) (*Document, error) {
	n := root
	if n.Kind == yaml.DocumentNode && len(n.Content) == 1 {
		n = n.Content[0]
	}
	if n.Kind != yaml.MappingNode {
		return nil, invalid(n, "top level must be a mapping")
	}
	fields, err := mappingFields(n)
	if err != nil {
		return nil, err
	}

	doc := &Document{}
	for _, f := range fields {
		switch f.key {
		case "pattern":
			if doc.Pattern, err = decodeNode(f.value); err != nil {
				return nil, err
			}
		case "flags":
			if doc.Flags, err = decodeFlags(f.value); err != nil {
				return nil, err
			}
		case "examples":
			if doc.Examples, err = decodeStrings(f.value); err != nil {
				return nil, err
			}
		case "counterexamples":
			if doc.Counterexamples, err = decodeStrings(f.value); err != nil {
				return nil, err
			}
		default:
			return nil, invalid(f.keyNode, "unknown key %q", f.key)
		}
	}
	if doc.Pattern == nil {
		return nil, invalid(n, "missing pattern")
	}
	return doc, nil
}

type field struct {
	key     string
	keyNode *yaml.Node
	value   *yaml.Node
}

func mappingFields(n *yaml.Node) ([]field, error) {
	fields := make([]field, 0, len(n.Content)/2)
	seen := make(map[string]bool)
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, v := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return nil, invalid(k, "keys must be strings")
		}
		if seen[k.Value] {
			return nil, invalid(k, "duplicate key %q", k.Value)
		}
		seen[k.Value] = true
		fields = append(fields, field{key: k.Value, keyNode: k, value: v})
	}
	return fields, nil
}

func decodeFlags(n *yaml.Node) (engine.Flags, error) {
	names, err := decodeStrings(n)
	if err != nil {
		return 0, err
	}
	var flags engine.Flags
	for _, name := range names {
		switch strings.ToLower(name) {
		case "ignorecase", "i":
			flags |= engine.IgnoreCase
		case "multiline", "m":
			flags |= engine.Multiline
		case "dotall", "s":
			flags |= engine.DotAll
		default:
			return 0, invalid(n, "unknown flag %q", name)
		}
	}
	return flags, nil
}

func decodeStrings(n *yaml.Node) ([]string, error) {
	if n.Kind == yaml.ScalarNode {
		return []string{n.Value}, nil
	}
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(n, "expected a list of strings")
	}
	out := make([]string, 0, len(n.Content))
	for _, c := range n.Content {
		if c.Kind != yaml.ScalarNode {
			return nil, invalid(c, "expected a string")
		}
		out = append(out, c.Value)
	}
	return out, nil
}

func invalid(n *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("line %d: %w: %s", n.Line, ErrInvalid, fmt.Sprintf(format, args...))
}

// wrap attaches the line of n to an error returned by a pattern constructor.
func wrap(n *yaml.Node, err error) error {
	return fmt.Errorf("line %d: %w", n.Line, err)
}

func scalar(n *yaml.Node) (string, error) {
	if n.Kind != yaml.ScalarNode {
		return "", invalid(n, "expected a string")
	}
	return n.Value, nil
}

func decodeInt(n *yaml.Node) (int, error) {
	s, err := scalar(n)
	if err != nil {
		return 0, err
	}
	if s == "inf" || s == "unbounded" {
		return pattern.Unbounded, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, invalid(n, "expected an integer, got %q", s)
	}
	return v, nil
}

func decodeBool(n *yaml.Node) (bool, error) {
	var b bool
	if err := n.Decode(&b); err != nil {
		return false, invalid(n, "expected true or false")
	}
	return b, nil
}
