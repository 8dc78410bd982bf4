package pattern

import (
	"fmt"
	"log/slog"
	"strings"
	"unicode"

	"github.com/funkybooboo/regexr/engine"
)

// Compile returns the pattern source for root. It fails without output if a
// capture name is used twice or a reference points at no group.
func Compile(root Node) (string, error) {
	if _, err := buildRegistry(root); err != nil {
		return "", err
	}
	var b strings.Builder
	lower(root).writeTo(&b)
	slog.Debug("pattern compiled", "pattern", b.String())
	return b.String(), nil
}

// MustCompile is like Compile but panics on error.
func MustCompile(root Node) string {
	src, err := Compile(root)
	if err != nil {
		panic(err)
	}
	return src
}

// CompileRegexp compiles root and hands the result to the engine.
func CompileRegexp(root Node, flags engine.Flags) (*engine.Regexp, error) {
	src, err := Compile(root)
	if err != nil {
		return nil, err
	}
	re, err := engine.Compile(src, flags)
	if err != nil {
		return nil, fmt.Errorf("compile %q: %w", src, err)
	}
	return re, nil
}

func (f *fragment) writeTo(b *strings.Builder) {
	switch f.kind {
	case fragText:
		b.WriteString(f.text)
	case fragSeq:
		for _, p := range f.parts {
			p.writeTo(b)
		}
	case fragAlt:
		for i, p := range f.parts {
			if i > 0 {
				b.WriteByte('|')
			}
			p.writeTo(b)
		}
	case fragGroup:
		b.WriteString(f.open)
		f.parts[0].writeTo(b)
		b.WriteString(f.close)
	}
}

// PrettyOptions controls Pretty output.
type PrettyOptions struct {
	// Indent is repeated once per nesting level.
	Indent string
}

// DefaultPrettyOptions returns the options used by the CLI when no config
// overrides them.
func DefaultPrettyOptions() PrettyOptions {
	return PrettyOptions{Indent: "  "}
}

// Pretty renders root over several lines. Every group in the compiled
// pattern opens on its own line, its body is indented one level deeper and
// it closes on a line aligned with the opener. Alternatives after the first
// start with |. Joining the lines without indentation gives the output of
// Compile.
func Pretty(root Node, opts PrettyOptions) (string, error) {
	if _, err := buildRegistry(root); err != nil {
		return "", err
	}
	lines := lower(root).lines(0)
	var b strings.Builder
	for i, l := range lines {
		if i > 0 {
			b.WriteByte('\n')
		}
		if l.text == "" {
			continue
		}
		b.WriteString(strings.Repeat(opts.Indent, l.depth))
		b.WriteString(escapeControl(l.text))
	}
	return b.String(), nil
}

// escapeControl spells out control characters so that a literal newline in
// the pattern does not break the layout.
func escapeControl(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r == '\r':
			b.WriteString(`\r`)
		case r == '\f':
			b.WriteString(`\f`)
		case r == '\v':
			b.WriteString(`\v`)
		case unicode.IsControl(r) && r <= 0xff:
			fmt.Fprintf(&b, `\x%02x`, r)
		case unicode.IsControl(r):
			fmt.Fprintf(&b, `\u%04x`, r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

type line struct {
	depth int
	text  string
}

func (f *fragment) lines(depth int) []line {
	switch f.kind {
	case fragSeq:
		var out []line
		for _, p := range f.parts {
			out = append(out, p.lines(depth)...)
		}
		return out
	case fragAlt:
		var out []line
		for i, p := range f.parts {
			alt := p.lines(depth)
			if i > 0 {
				if len(alt) == 0 {
					alt = []line{{depth: depth}}
				}
				alt[0].text = "|" + alt[0].text
			}
			out = append(out, alt...)
		}
		return out
	case fragGroup:
		body := f.parts[0].lines(depth + 1)
		if len(body) == 0 {
			// an empty body still takes a line so the group opens a level
			body = []line{{depth: depth + 1}}
		}
		out := append([]line{{depth: depth, text: f.open}}, body...)
		return append(out, line{depth: depth, text: f.close})
	default:
		if f.text == "" {
			return nil
		}
		return []line{{depth: depth, text: f.text}}
	}
}
