package engine

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompile_SyntaxErrors(t *testing.T) {
	tests := []struct {
		pattern string
		msg     string
	}{
		{"a**", "multiple repeat"},
		{"*a", "nothing to repeat"},
		{"^*", "nothing to repeat"},
		{"(a", "missing )"},
		{"a)", "unbalanced parenthesis"},
		{"[abc", "unterminated character class"},
		{`\q`, "bad escape"},
		{`a\`, "dangling escape"},
		{"(?P<a>x)(?P<a>y)", "redefinition of group name"},
		{"(?P=b)", "unknown group name"},
		{`(a)\2`, "invalid group reference"},
		{"(a)(?(1)a|b|c)", "more than two branches"},
		{"a{3,2}", "min repeat greater than max repeat"},
		{"(?P<1a>x)", "bad character in group name"},
		{"(?x)", "unknown extension"},
		{"[z-a]", "bad character range"},
	}
	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			_, err := Compile(tt.pattern, 0)
			require.Error(t, err)
			require.ErrorIs(t, err, ErrSyntax)
			require.Contains(t, err.Error(), tt.msg)

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			require.Equal(t, tt.pattern, syntaxErr.Pattern)
		})
	}
}

func TestCompile_ForwardReference(t *testing.T) {
	re, err := Compile("(?:(?P=a)|b)(?P<a>x)", 0)
	require.NoError(t, err)
	require.Equal(t, 1, re.NumSubexp())

	// an unset group never matches a back-reference
	require.Equal(t, []string{"bx", "x"}, re.FindStringSubmatch("bx"))
	require.Nil(t, re.FindStringSubmatch("xx"))
}

func TestMustCompile_Panics(t *testing.T) {
	require.Panics(t, func() { MustCompile("(", 0) })
	require.NotPanics(t, func() { MustCompile("a", 0) })
}

func TestFindStringSubmatch(t *testing.T) {
	phone := `^(?P<open>\()?\d{3}(?(open)\))$`
	tests := []struct {
		name    string
		pattern string
		flags   Flags
		input   string
		want    []string
	}{
		{"phone with parens", phone, 0, "(555)", []string{"(555)", "("}},
		{"phone bare", phone, 0, "555", []string{"555", ""}},
		{"phone unclosed", phone, 0, "(555", nil},
		{"phone unopened", phone, 0, "555)", nil},
		{"numbered backref", `(\w+) \1`, 0, "say hello hello", []string{"hello hello", "hello"}},
		{"greedy", `a.*b`, 0, "aXbYb", []string{"aXbYb"}},
		{"lazy", `a.*?b`, 0, "aXbYb", []string{"aXb"}},
		{"alternatives in order", `a|ab`, 0, "ab", []string{"a"}},
		{"ignore case backref", `(?P<w>abc) (?P=w)`, IgnoreCase, "ABC abc", []string{"ABC abc", "ABC"}},
		{"case sensitive backref", `(?P<w>abc) (?P=w)`, 0, "ABC abc", nil},
		{"caret without multiline", `^b`, 0, "a\nb", nil},
		{"caret with multiline", `^b`, Multiline, "a\nb", []string{"b"}},
		{"dot without dotall", `a.b`, 0, "a\nb", nil},
		{"dot with dotall", `a.b`, DotAll, "a\nb", []string{"a\nb"}},
		{"lookahead", `foo(?=bar)`, 0, "foobar", []string{"foo"}},
		{"negative lookahead", `foo(?!bar)`, 0, "foobar", nil},
		{"negative lookahead passes", `foo(?!bar)`, 0, "foobaz", []string{"foo"}},
		{"lookbehind", `(?<=\$)\d+`, 0, "cost $42", []string{"42"}},
		{"negative lookbehind", `(?<!\$)\b\d+`, 0, "$42 7", []string{"7"}},
		{"dollar before final newline", `abc$`, 0, "abc\n", []string{"abc"}},
		{"empty iterations reach the minimum", `^(a?){2}$`, 0, "", []string{"", ""}},
		{"last empty iteration keeps captures", `([]a0-9-]*)*`, 0, "a", []string{"a", ""}},
		{"empty lookahead iteration keeps captures", `(?=((0)))*`, 0, "0a-", []string{"", "0", "0"}},
		{"lazy loop stops on empty iteration", `^(a?)*?$`, 0, "", []string{"", ""}},
		{"conditional yes", `^(a)?(?(1)b|c)$`, 0, "ab", []string{"ab", "a"}},
		{"conditional no", `^(a)?(?(1)b|c)$`, 0, "c", []string{"c", ""}},
		{"conditional mismatch", `^(a)?(?(1)b|c)$`, 0, "ac", nil},
		{"negated class", `[^()]+`, 0, "(x)", []string{"x"}},
		{"bracket first in class", `[]a-]+`, 0, "x]-a", []string{"]-a"}},
		{"shorthand in class", `[\d_]+`, 0, "a_1", []string{"_1"}},
		{"bounded repeat", `a{2,3}`, 0, "aaaa", []string{"aaa"}},
		{"upper bound only", `^a{,2}`, 0, "aaa", []string{"aa"}},
		{"brace literal", `a{`, 0, "a{", []string{"a{"}},
		{"class ignore case", `[a-c]+`, IgnoreCase, "xABCx", []string{"ABC"}},
		{"start of text", `\Aa`, Multiline, "b\na", nil},
		{"end of text", `a\Z`, 0, "a\n", nil},
		{"escaped metachars", `\(\.\)`, 0, "x(.)", []string{"(.)"}},
		{"unicode word", `\w+`, 0, "¡héllo!", []string{"héllo"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			re, err := Compile(tt.pattern, tt.flags)
			require.NoError(t, err)
			assert.Equal(t, tt.want, re.FindStringSubmatch(tt.input))
			assert.Equal(t, tt.want != nil, re.MatchString(tt.input))
		})
	}
}

func TestFindStringIndex(t *testing.T) {
	re := MustCompile(`\bcat\b`, 0)
	require.Equal(t, []int{7, 10}, re.FindStringIndex("concat cat"))
	require.Nil(t, re.FindStringIndex("concatenate"))

	// offsets are in bytes, not runes
	re = MustCompile(`é+`, 0)
	require.Equal(t, []int{3, 7}, re.FindStringIndex("caféé!"))
}

func TestSubexpNames(t *testing.T) {
	re := MustCompile(`(?P<a>x)(y)(?P<b>z)`, 0)
	require.Equal(t, 3, re.NumSubexp())
	require.Equal(t, []string{"", "a", "", "b"}, re.SubexpNames())
	require.Equal(t, 3, re.SubexpIndex("b"))
	require.Equal(t, -1, re.SubexpIndex("missing"))
	require.Equal(t, `(?P<a>x)(y)(?P<b>z)`, re.String())
}

func TestRegexp_ConcurrentUse(t *testing.T) {
	re := MustCompile(`(?P<w>\w+)@(?P=w)`, IgnoreCase)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.Equal(t, []string{"ab@AB", "ab"}, re.FindStringSubmatch("ab@AB"))
		}()
	}
	wg.Wait()
}

func TestInspect(t *testing.T) {
	tests := []struct {
		src      string
		shape    Shape
		groups   []string
		numbered bool
	}{
		{"", ShapeEmpty, nil, false},
		{`\d`, ShapeAtom, nil, false},
		{`\b`, ShapeAssert, nil, false},
		{`\d+`, ShapeRepeat, nil, false},
		{`(a)(?P<n>b)`, ShapeConcat, []string{"", "n"}, false},
		{`a|b`, ShapeAlternation, nil, false},
		{`\1`, ShapeAtom, nil, true},
		{`a\2`, ShapeConcat, nil, true},
		{`a|\1`, ShapeAlternation, nil, true},
		{`(?P=n)`, ShapeAtom, nil, false},
		{`\1+`, ShapeRepeat, nil, false},
		{`\\1`, ShapeConcat, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			frag, err := Inspect(tt.src)
			require.NoError(t, err)
			assert.Equal(t, tt.shape, frag.Shape)
			assert.Equal(t, tt.groups, frag.Groups)
			assert.Equal(t, tt.numbered, frag.EndsWithNumberRef)
		})
	}

	frag, err := Inspect("(a")
	require.Error(t, err)
	assert.Equal(t, ShapeAlternation, frag.Shape)
}

func TestValidGroupName(t *testing.T) {
	for _, name := range []string{"a", "_x", "a1", "μ", "𝔘𝔫𝔦𝔠𝔬𝔡𝔢"} {
		assert.True(t, ValidGroupName(name), name)
	}
	for _, name := range []string{"", "1a", "a.b", "a b", "a-b"} {
		assert.False(t, ValidGroupName(name), name)
	}
}
