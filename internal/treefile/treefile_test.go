package treefile

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funkybooboo/regexr/engine"
	"github.com/funkybooboo/regexr/pattern"
)

const phoneTree = `
flags: [ignorecase]
pattern:
  - anchor: start
  - maybe: {capture: "(", name: open}
  - repeat: {predefined: digit}
    min: 3
    max: 3
  - if: open
    then: ")"
  - anchor: end
examples:
  - "(555)"
  - "555"
counterexamples: ["(555"]
`

func TestDecodePhone(t *testing.T) {
	doc, err := Decode(strings.NewReader(phoneTree))
	require.NoError(t, err)

	assert.Equal(t, engine.IgnoreCase, doc.Flags)
	assert.Equal(t, []string{"(555)", "555"}, doc.Examples)
	assert.Equal(t, []string{"(555"}, doc.Counterexamples)

	src, err := pattern.Compile(doc.Pattern)
	require.NoError(t, err)
	assert.Equal(t, `^(?P<open>\()?\d{3}(?(open)\))$`, src)
}

func TestParseNodes(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{"scalar", `pattern: a.b`, `a\.b`},
		{"sequence", `pattern: [a, b]`, "ab"},
		{"literal key", `pattern: {literal: "*"}`, `\*`},
		{"raw", `pattern: {raw: "a|b"}`, "a|b"},
		{"or in sequence", "pattern:\n  - or: [a, b]\n  - c", "(?:a|b)c"},
		{"group", `pattern: {group: {or: [a, bc]}}`, "(?:a|bc)"},
		{"capture", `pattern: {capture: x}`, "(x)"},
		{"named capture", `pattern: {capture: x, name: g}`, "(?P<g>x)"},
		{"class string", `pattern: {class: "abc"}`, "[abc]"},
		{"class list", `pattern: {class: [a-z, '\d', "-"], negate: true}`, `[^a-z\d-]`},
		{"repeat range", `pattern: {repeat: ab, min: 2, max: 4}`, "(?:ab){2,4}"},
		{"repeat open", `pattern: {repeat: a, min: 1}`, "a+"},
		{"repeat inf", `pattern: {repeat: a, min: 2, max: inf, lazy: true}`, "a{2,}?"},
		{"zero or more lazy", `pattern: {zero_or_more: a, lazy: true}`, "a*?"},
		{"one or more", `pattern: {one_or_more: {predefined: word}}`, `\w+`},
		{"predefined alias", `pattern: [{predefined: maybe_numbers}, {predefined: non_number}]`, `\d*\D`},
		{"group of text", `pattern: [{group: ab}, c]`, "abc"},
		{"single or in list", `pattern: [{or: [a, b]}]`, "a|b"},
		{"backref by name", "pattern:\n  - capture: a\n    name: x\n  - backref: x", "(?P<x>a)(?P=x)"},
		{"backref by number", "pattern:\n  - capture: a\n  - backref: 1\n  - '0'", `(a)(?:\1)0`},
		{"conditional", "pattern:\n  - capture: a\n  - if: 1\n    then: b\n    else: [c, d]", "(a)(?(1)b|cd)"},
		{"lookarounds", "pattern:\n  - lookbehind: a\n    negate: true\n  - lookahead: b", "(?<!a)(?=b)"},
		{"anchors", "pattern:\n  - anchor: word_boundary\n  - anchor: end_of_string", `\b\Z`},
		{"null branch", "pattern:\n  - capture: a\n  - if: 1\n    then:", "(a)(?(1))"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)
			got, err := pattern.Compile(doc.Pattern)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr error
		line    string
	}{
		{"empty", "", ErrInvalid, ""},
		{"not a mapping", "- a", ErrInvalid, "line 1"},
		{"missing pattern", "examples: [a]", ErrInvalid, "line 1"},
		{"unknown top key", "pattern: a\nextra: 1", ErrInvalid, "line 2"},
		{"two kinds", "pattern:\n  capture: a\n  group: b", ErrInvalid, "line 3"},
		{"no kind", "pattern:\n  name: a", ErrInvalid, "line 2"},
		{"modifier mismatch", "pattern:\n  group: a\n  lazy: true", ErrInvalid, "line 3"},
		{"unknown anchor", "pattern:\n  anchor: middle", ErrInvalid, "line 2"},
		{"unknown predefined", "pattern: {predefined: nope}", ErrInvalid, "line 1"},
		{"unknown flag", "flags: [x]\npattern: a", ErrInvalid, "line 1"},
		{"bad int", "pattern: {repeat: a, min: x}", ErrInvalid, "line 1"},
		{"bad bool", "pattern: {maybe: a, lazy: maybe}", ErrInvalid, "line 1"},
		{"bad class entry", "pattern: {class: [abc]}", ErrInvalid, "line 1"},
		{"bad range", "pattern: {class: [z-a]}", ErrInvalid, "line 1"},
		{"if without then", "pattern: {if: x}", ErrInvalid, "line 1"},
		{"bounds", "pattern:\n  repeat: a\n  min: 3\n  max: 2", pattern.ErrInvalidQuantifierBounds, "line 2"},
		{"bad name", "pattern:\n  capture: a\n  name: a.b", pattern.ErrInvalidName, "line 3"},
		{"bad backref", "pattern: {backref: 0}", pattern.ErrInvalidName, "line 1"},
		{"backref too high", "pattern:\n  - capture: a\n  - backref: 100", pattern.ErrInvalidName, "line 3"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			require.ErrorIs(t, err, tt.wantErr)
			assert.Contains(t, err.Error(), tt.line)
		})
	}
}

func TestParseDefersReferenceChecks(t *testing.T) {
	doc, err := Parse([]byte("pattern: {backref: missing}"))
	require.NoError(t, err)
	_, err = pattern.Compile(doc.Pattern)
	assert.ErrorIs(t, err, pattern.ErrUndefinedReference)
}
