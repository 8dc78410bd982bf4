package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes the command line with stdin and returns stdout, stderr and
// the exit status.
func run(t *testing.T, stdin string, args ...string) (string, string, int) {
	t.Helper()
	t.Setenv("HOME", t.TempDir())
	var stdout, stderr bytes.Buffer
	code := execute(args, strings.NewReader(stdin), &stdout, &stderr)
	return stdout.String(), stderr.String(), code
}

// writeFiles creates files under a fresh directory and returns its path.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestGrepStdin(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		input    string
		wantOut  string
		wantCode int
	}{
		{"match", []string{"-E", "a.a"}, "apple\nbanana\ncherry\n", "banana\n", 0},
		{"no match", []string{"-E", "xyz"}, "apple\nbanana\n", "", 1},
		{"anchors", []string{"-E", "^b.*a$"}, "banana\nabba\nbanana split\n", "banana\n", 0},
		{"ignore case", []string{"-i", "-E", "APPLE"}, "apple pie\n", "apple pie\n", 0},
		{"backref", []string{"-E", `(\w+) \1`}, "hello hello\nhello world\n", "hello hello\n", 0},
		{
			"conditional",
			[]string{"-E", `^(?P<open>\()?\d{3}(?(open)\))$`},
			"(555)\n555\n(555\n555)\n",
			"(555)\n555\n",
			0,
		},
		{"lookahead", []string{"-E", `\d+(?= dollars)`}, "5 dollars\n5 euros\n", "5 dollars\n", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, _, code := run(t, tt.input, append([]string{"grep"}, tt.args...)...)
			assert.Equal(t, tt.wantCode, code)
			assert.Equal(t, tt.wantOut, out)
		})
	}
}

func TestGrepErrors(t *testing.T) {
	_, stderr, code := run(t, "a\n", "grep", "-E", "(a")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "missing ), unterminated subpattern")

	_, stderr, code = run(t, "a\n", "grep", "a")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "regexp")

	_, stderr, code = run(t, "", "grep", "-E", "a", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "failed to open file")
}

func TestGrepFiles(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"fruit.txt": "apple\nbanana\n",
		"veg.txt":   "carrot\nbean\n",
	})
	fruit := filepath.Join(dir, "fruit.txt")
	veg := filepath.Join(dir, "veg.txt")

	out, _, code := run(t, "", "grep", "-E", "an", fruit)
	assert.Equal(t, 0, code)
	assert.Equal(t, "banana\n", out)

	out, _, code = run(t, "", "grep", "-E", "b", fruit, veg)
	assert.Equal(t, 0, code)
	assert.Equal(t, fruit+":banana\n"+veg+":bean\n", out)
}

func TestGrepRecursive(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.txt":         "pear\nplum\n",
		"sub/b.txt":     "peach\n",
		"sub/deep/c.md": "grape\n",
	})

	out, _, code := run(t, "", "grep", "-r", "-E", "^p", dir)
	assert.Equal(t, 0, code)
	assert.Equal(t, strings.Join([]string{
		filepath.Join(dir, "a.txt") + ":pear",
		filepath.Join(dir, "a.txt") + ":plum",
		filepath.Join(dir, "sub", "b.txt") + ":peach",
	}, "\n")+"\n", out)

	_, _, code = run(t, "", "grep", "-r", "-E", "kiwi", dir)
	assert.Equal(t, 1, code)
}

const phoneTree = `pattern:
  - anchor: start
  - maybe: {capture: "(", name: open}
  - repeat: {predefined: digit}
    min: 3
    max: 3
  - if: open
    then: ")"
  - anchor: end
examples: ["(555)", "555"]
counterexamples: ["(555"]
`

func TestBuild(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"phone.yaml": phoneTree,
		"bad.yaml":   "pattern: {repeat: a, min: 3, max: 1}\n",
		"dup.yaml":   "pattern:\n  - {capture: a, name: x}\n  - {capture: b, name: x}\n",
		"fail.yaml":  "pattern: abc\nexamples: [abc, abd]\n",
	})

	out, _, code := run(t, "", "build", filepath.Join(dir, "phone.yaml"))
	require.Equal(t, 0, code)
	assert.Equal(t, strings.Join([]string{
		`^(?P<open>\()?\d{3}(?(open)\))$`,
		`ok   "(555)" matches`,
		`ok   "555" matches`,
		`ok   "(555" does not match`,
	}, "\n")+"\n", out)

	out, _, code = run(t, "", "build", "--pretty", "--groups", filepath.Join(dir, "phone.yaml"))
	require.Equal(t, 0, code)
	assert.True(t, strings.HasPrefix(out, "^\n(?P<open>\n  \\(\n)?\n"), out)
	assert.Contains(t, out, "open")
	assert.Contains(t, out, "/1/0")

	_, stderr, code := run(t, "", "build", filepath.Join(dir, "fail.yaml"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "examples failed: 1 of 2")

	_, stderr, code = run(t, "", "build", filepath.Join(dir, "bad.yaml"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "invalid quantifier bounds")

	_, stderr, code = run(t, "", "build", filepath.Join(dir, "dup.yaml"))
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `duplicate capture name "x"`)

	_, _, code = run(t, "", "build")
	assert.Equal(t, 2, code)
}

func TestBuildIndentFromConfig(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"tree.yaml":   "pattern: {capture: a}\n",
		"regexr.yaml": "pretty:\n  indent: \"\\t\"\n",
	})
	out, _, code := run(t, "", "build", "--pretty", "--config", filepath.Join(dir, "regexr.yaml"), filepath.Join(dir, "tree.yaml"))
	require.Equal(t, 0, code)
	assert.Equal(t, "(\n\ta\n)\n", out)
}

func TestCheck(t *testing.T) {
	out, _, code := run(t, "", "check", `(?P<year>\d{4})-(\d{2})`)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "ok   2 capture groups")
	assert.Contains(t, out, "year")

	out, _, code = run(t, "", "check", "abc")
	require.Equal(t, 0, code)
	assert.Equal(t, "ok   0 capture groups\n", out)

	_, stderr, code := run(t, "", "check", "a**")
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "multiple repeat")
}

func TestVerboseLogging(t *testing.T) {
	_, stderr, code := run(t, "abc\n", "--verbose", "grep", "-E", "b")
	assert.Equal(t, 0, code)
	assert.Contains(t, stderr, "level=DEBUG")
	assert.Contains(t, stderr, "pattern parsed")

	_, stderr, _ = run(t, "abc\n", "grep", "-E", "b")
	assert.NotContains(t, stderr, "level=DEBUG")
}
