package treefile

import (
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/funkybooboo/regexr/pattern"
)

// modifiers lists, per kind key, the other keys allowed next to it.
var modifiers = map[string][]string{
	"literal":      nil,
	"raw":          nil,
	"anchor":       nil,
	"class":        {"negate"},
	"concat":       nil,
	"or":           nil,
	"group":        nil,
	"capture":      {"name"},
	"repeat":       {"min", "max", "lazy"},
	"maybe":        {"lazy"},
	"zero_or_more": {"lazy"},
	"one_or_more":  {"lazy"},
	"backref":      nil,
	"if":           {"then", "else"},
	"lookahead":    {"negate"},
	"lookbehind":   {"negate"},
	"predefined":   nil,
}

var anchors = map[string]func() *pattern.AnchorNode{
	"start":             pattern.Start,
	"end":               pattern.End,
	"start_of_string":   pattern.StartOfString,
	"end_of_string":     pattern.EndOfString,
	"word_boundary":     pattern.WordBoundary,
	"non_word_boundary": pattern.NonWordBoundary,
}

var shorthands = map[string]pattern.ClassItem{
	`\d`: pattern.ClassDigit,
	`\D`: pattern.ClassNotDigit,
	`\w`: pattern.ClassWord,
	`\W`: pattern.ClassNotWord,
	`\s`: pattern.ClassSpace,
	`\S`: pattern.ClassNotSpace,
}

func decodeNode(n *yaml.Node) (pattern.Node, error) {
	switch n.Kind {
	case yaml.ScalarNode:
		if n.Tag == "!!null" {
			return pattern.Lit(""), nil
		}
		return pattern.Lit(n.Value), nil
	case yaml.SequenceNode:
		children, err := decodeList(n)
		if err != nil {
			return nil, err
		}
		return pattern.Concat(children...), nil
	case yaml.MappingNode:
		return decodeMapping(n)
	case yaml.AliasNode:
		return decodeNode(n.Alias)
	default:
		return nil, invalid(n, "unexpected node")
	}
}

func decodeList(n *yaml.Node) ([]pattern.Node, error) {
	if n.Kind != yaml.SequenceNode {
		return nil, invalid(n, "expected a list")
	}
	children := make([]pattern.Node, 0, len(n.Content))
	for _, c := range n.Content {
		child, err := decodeNode(c)
		if err != nil {
			return nil, err
		}
		children = append(children, child)
	}
	return children, nil
}

func decodeMapping(n *yaml.Node) (pattern.Node, error) {
	fields, err := mappingFields(n)
	if err != nil {
		return nil, err
	}
	var kind *field
	mods := make(map[string]*yaml.Node)
	for i := range fields {
		f := &fields[i]
		if _, ok := modifiers[f.key]; !ok {
			mods[f.key] = f.value
			continue
		}
		if kind != nil {
			return nil, invalid(f.keyNode, "%q and %q cannot be combined", kind.key, f.key)
		}
		kind = f
	}
	if kind == nil {
		return nil, invalid(n, "mapping needs one of %s", strings.Join(kindNames(), ", "))
	}
	for key := range mods {
		if !allowed(kind.key, key) {
			return nil, invalid(mods[key], "%q does not apply to %q", key, kind.key)
		}
	}
	return decodeKind(kind.key, kind.value, mods)
}

func allowed(kind, key string) bool {
	for _, m := range modifiers[kind] {
		if m == key {
			return true
		}
	}
	return false
}

func kindNames() []string {
	names := make([]string, 0, len(modifiers))
	for k := range modifiers {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

func decodeKind(kind string, v *yaml.Node, mods map[string]*yaml.Node) (pattern.Node, error) {
	switch kind {
	case "literal":
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		return pattern.Lit(s), nil
	case "raw":
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		return pattern.Raw(s), nil
	case "anchor":
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		a, ok := anchors[s]
		if !ok {
			return nil, invalid(v, "unknown anchor %q", s)
		}
		return a(), nil
	case "class":
		return decodeClass(v, mods["negate"])
	case "concat":
		children, err := decodeList(v)
		if err != nil {
			return nil, err
		}
		return pattern.Concat(children...), nil
	case "or":
		alts, err := decodeList(v)
		if err != nil {
			return nil, err
		}
		return pattern.Or(alts...), nil
	case "group":
		child, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		return pattern.Group(child), nil
	case "capture":
		child, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		nameNode, named := mods["name"]
		if !named {
			return pattern.Capture(child), nil
		}
		name, err := scalar(nameNode)
		if err != nil {
			return nil, err
		}
		g, err := pattern.NamedCapture(name, child)
		if err != nil {
			return nil, wrap(nameNode, err)
		}
		return g, nil
	case "repeat", "maybe", "zero_or_more", "one_or_more":
		return decodeQuantifier(kind, v, mods)
	case "backref":
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		var b *pattern.BackrefNode
		if num, convErr := strconv.Atoi(s); convErr == nil {
			b, err = pattern.BackrefNumber(num)
		} else {
			b, err = pattern.Backref(s)
		}
		if err != nil {
			return nil, wrap(v, err)
		}
		return b, nil
	case "if":
		return decodeConditional(v, mods)
	case "lookahead", "lookbehind":
		child, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		negate, err := optionalBool(mods["negate"])
		if err != nil {
			return nil, err
		}
		switch {
		case kind == "lookahead" && negate:
			return pattern.NotLookAhead(child), nil
		case kind == "lookahead":
			return pattern.LookAhead(child), nil
		case negate:
			return pattern.NotLookBehind(child), nil
		default:
			return pattern.LookBehind(child), nil
		}
	case "predefined":
		s, err := scalar(v)
		if err != nil {
			return nil, err
		}
		p, ok := pattern.Predefined(s)
		if !ok {
			return nil, invalid(v, "unknown predefined node %q", s)
		}
		return p, nil
	}
	return nil, invalid(v, "unknown kind %q", kind)
}

func decodeQuantifier(kind string, v *yaml.Node, mods map[string]*yaml.Node) (pattern.Node, error) {
	child, err := decodeNode(v)
	if err != nil {
		return nil, err
	}
	var q *pattern.QuantifierNode
	switch kind {
	case "maybe":
		q = pattern.Maybe(child)
	case "zero_or_more":
		q = pattern.ZeroOrMore(child)
	case "one_or_more":
		q = pattern.OneOrMore(child)
	default:
		min, max := 0, pattern.Unbounded
		if m, ok := mods["min"]; ok {
			if min, err = decodeInt(m); err != nil {
				return nil, err
			}
		}
		if m, ok := mods["max"]; ok {
			if max, err = decodeInt(m); err != nil {
				return nil, err
			}
		}
		if q, err = pattern.Repeat(child, min, max); err != nil {
			return nil, wrap(v, err)
		}
	}
	lazy, err := optionalBool(mods["lazy"])
	if err != nil {
		return nil, err
	}
	if lazy {
		q = pattern.Lazy(q)
	}
	return q, nil
}

func decodeConditional(v *yaml.Node, mods map[string]*yaml.Node) (pattern.Node, error) {
	ref, err := scalar(v)
	if err != nil {
		return nil, err
	}
	thenNode, ok := mods["then"]
	if !ok {
		return nil, invalid(v, "if needs a then branch")
	}
	yes, err := decodeNode(thenNode)
	if err != nil {
		return nil, err
	}
	var no pattern.Node
	if elseNode, ok := mods["else"]; ok {
		if no, err = decodeNode(elseNode); err != nil {
			return nil, err
		}
	}
	var c *pattern.ConditionalNode
	if num, convErr := strconv.Atoi(ref); convErr == nil {
		c, err = pattern.IfNumber(num, yes, no)
	} else {
		c, err = pattern.If(ref, yes, no)
	}
	if err != nil {
		return nil, wrap(v, err)
	}
	return c, nil
}

// decodeClass accepts either a string, one member per rune, or a list whose
// entries are single runes, ranges like a-z, or shorthands like \d.
func decodeClass(v *yaml.Node, negateNode *yaml.Node) (pattern.Node, error) {
	var items []pattern.ClassItem
	switch v.Kind {
	case yaml.ScalarNode:
		items = pattern.Chars(v.Value)
	case yaml.SequenceNode:
		for _, c := range v.Content {
			s, err := scalar(c)
			if err != nil {
				return nil, err
			}
			item, err := classItem(c, s)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
	default:
		return nil, invalid(v, "class must be a string or a list")
	}
	negate, err := optionalBool(negateNode)
	if err != nil {
		return nil, err
	}
	if negate {
		return pattern.NotClass(items...), nil
	}
	return pattern.Class(items...), nil
}

func classItem(n *yaml.Node, s string) (pattern.ClassItem, error) {
	if item, ok := shorthands[s]; ok {
		return item, nil
	}
	runes := []rune(s)
	switch {
	case len(runes) == 1:
		return pattern.Char(runes[0]), nil
	case len(runes) == 3 && runes[1] == '-':
		if runes[0] > runes[2] {
			return pattern.ClassItem{}, invalid(n, "bad range %q", s)
		}
		return pattern.Range(runes[0], runes[2]), nil
	}
	return pattern.ClassItem{}, invalid(n, "class entry %q is not a rune, range or shorthand", s)
}

func optionalBool(n *yaml.Node) (bool, error) {
	if n == nil {
		return false, nil
	}
	return decodeBool(n)
}
