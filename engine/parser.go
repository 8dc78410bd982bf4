package engine

import (
	"errors"
	"fmt"
	"unicode"
)

// ErrSyntax is the sentinel every *SyntaxError unwraps to.
var ErrSyntax = errors.New("regex syntax error")

// SyntaxError reports a malformed pattern and the rune offset of the problem.
type SyntaxError struct {
	Pattern string
	Pos     int
	Msg     string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s at position %d in %q", e.Msg, e.Pos, e.Pattern)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

type parser struct {
	pattern    []rune
	pos        int
	groupCount int
	groupNames []string // by group number - 1; "" for unnamed groups
	names      map[string]int
	refs       []*groupRef
}

func newParser(p string) *parser {
	return &parser{pattern: []rune(p), pos: 0, names: make(map[string]int)}
}

// parse reads the whole pattern and resolves group references.
func (p *parser) parse() (node, error) {
	root, err := p.parseFragment()
	if err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return root, nil
}

// parseFragment reads the whole pattern but leaves references unresolved,
// so a fragment may point at groups defined outside of it.
func (p *parser) parseFragment() (node, error) {
	root, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.pattern) {
		return nil, p.errorf(p.pos, "unbalanced parenthesis")
	}
	return root, nil
}

func (p *parser) resolve() error {
	for _, ref := range p.refs {
		if ref.name != "" {
			idx, ok := p.names[ref.name]
			if !ok {
				return p.errorf(ref.pos, "unknown group name %q", ref.name)
			}
			ref.index = idx
			continue
		}
		if ref.index > p.groupCount {
			return p.errorf(ref.pos, "invalid group reference %d", ref.index)
		}
	}
	return nil
}

func (p *parser) errorf(pos int, format string, args ...any) error {
	return &SyntaxError{Pattern: string(p.pattern), Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) peek(r rune) bool {
	return p.pos < len(p.pattern) && p.pattern[p.pos] == r
}

func (p *parser) consume(s string) bool {
	rs := []rune(s)
	if p.pos+len(rs) > len(p.pattern) {
		return false
	}
	for i, r := range rs {
		if p.pattern[p.pos+i] != r {
			return false
		}
	}
	p.pos += len(rs)
	return true
}

func (p *parser) parseAlternation() (node, error) {
	first, err := p.parseConcatenation()
	if err != nil {
		return nil, err
	}
	alts := []node{first}
	for p.pos < len(p.pattern) && p.pattern[p.pos] == '|' {
		p.pos++
		next, err := p.parseConcatenation()
		if err != nil {
			return nil, err
		}
		alts = append(alts, next)
	}
	if len(alts) == 1 {
		return first, nil
	}
	return &altNode{alternatives: alts}, nil
}

func (p *parser) parseConcatenation() (node, error) {
	var parts []node
	for p.pos < len(p.pattern) {
		ch := p.pattern[p.pos]
		if ch == ')' || ch == '|' {
			break
		}
		n, err := p.parseRepetition()
		if err != nil {
			return nil, err
		}
		parts = append(parts, n)
	}
	if len(parts) == 0 {
		return &sequenceNode{children: nil}, nil
	}
	if len(parts) == 1 {
		return parts[0], nil
	}
	return &sequenceNode{children: parts}, nil
}

func (p *parser) parseRepetition() (node, error) {
	start := p.pos
	atom, err := p.parseAtom()
	if err != nil {
		return nil, err
	}
	min, max, end, ok, err := p.quantifierAt(p.pos)
	if err != nil {
		return nil, err
	}
	if !ok {
		return atom, nil
	}
	if _, isAssert := atom.(*assertNode); isAssert {
		return nil, p.errorf(start, "nothing to repeat")
	}
	p.pos = end
	rep := &repNode{child: atom, min: min, max: max}
	if p.peek('?') {
		p.pos++
		rep.lazy = true
	}
	if _, _, _, more, _ := p.quantifierAt(p.pos); more {
		return nil, p.errorf(p.pos, "multiple repeat")
	}
	return rep, nil
}

// quantifierAt recognises a quantifier starting at pos. A brace that does
// not form a valid {m}, {m,}, {,n} or {m,n} is not a quantifier.
func (p *parser) quantifierAt(pos int) (min, max, end int, ok bool, err error) {
	if pos >= len(p.pattern) {
		return 0, 0, pos, false, nil
	}
	switch p.pattern[pos] {
	case '?':
		return 0, 1, pos + 1, true, nil
	case '*':
		return 0, -1, pos + 1, true, nil
	case '+':
		return 1, -1, pos + 1, true, nil
	case '{':
	default:
		return 0, 0, pos, false, nil
	}

	i := pos + 1
	readInt := func() (int, bool) {
		n, digits := 0, 0
		for i < len(p.pattern) && p.pattern[i] >= '0' && p.pattern[i] <= '9' {
			n = n*10 + int(p.pattern[i]-'0')
			i++
			digits++
		}
		return n, digits > 0
	}
	lo, hasLo := readInt()
	hi, hasHi := lo, hasLo
	if i < len(p.pattern) && p.pattern[i] == ',' {
		i++
		hi, hasHi = readInt()
		if !hasHi {
			hi = -1
		}
		if !hasLo && !hasHi {
			return 0, 0, pos, false, nil
		}
	} else if !hasLo {
		return 0, 0, pos, false, nil
	}
	if i >= len(p.pattern) || p.pattern[i] != '}' {
		return 0, 0, pos, false, nil
	}
	if hi >= 0 && lo > hi {
		return 0, 0, pos, false, p.errorf(pos, "min repeat greater than max repeat")
	}
	return lo, hi, i + 1, true, nil
}

func (p *parser) parseAtom() (node, error) {
	if p.pos >= len(p.pattern) {
		return nil, p.errorf(p.pos, "unexpected end of pattern")
	}
	ch := p.pattern[p.pos]
	switch ch {
	case '(':
		return p.parseGroup()

	case '.':
		p.pos++
		return &anyNode{}, nil

	case '^':
		p.pos++
		return &assertNode{kind: atStart}, nil

	case '$':
		p.pos++
		return &assertNode{kind: atEnd}, nil

	case '\\':
		return p.parseEscape()

	case '[':
		return p.parseClass()

	case '*', '+', '?':
		return nil, p.errorf(p.pos, "nothing to repeat")

	case '{':
		if _, _, _, ok, _ := p.quantifierAt(p.pos); ok {
			return nil, p.errorf(p.pos, "nothing to repeat")
		}
		p.pos++
		return &literalNode{char: ch}, nil

	default:
		p.pos++
		return &literalNode{char: ch}, nil
	}
}

func (p *parser) parseGroup() (node, error) {
	start := p.pos
	p.pos++ // '('

	if !p.consume("?") {
		idx := p.openGroup("")
		sub, err := p.parseGroupBody(start)
		if err != nil {
			return nil, err
		}
		return &captureNode{index: idx, child: sub}, nil
	}

	switch {
	case p.consume(":"):
		sub, err := p.parseGroupBody(start)
		if err != nil {
			return nil, err
		}
		return &groupNode{child: sub}, nil

	case p.consume("P<"):
		namePos := p.pos
		name, err := p.parseName('>')
		if err != nil {
			return nil, err
		}
		if _, dup := p.names[name]; dup {
			return nil, p.errorf(namePos, "redefinition of group name %q", name)
		}
		idx := p.openGroup(name)
		sub, err := p.parseGroupBody(start)
		if err != nil {
			return nil, err
		}
		return &captureNode{index: idx, name: name, child: sub}, nil

	case p.consume("P="):
		namePos := p.pos
		name, err := p.parseName(')')
		if err != nil {
			return nil, err
		}
		return &backRefNode{ref: p.addRef(0, name, namePos)}, nil

	case p.consume("("):
		ref, err := p.parseConditionRef()
		if err != nil {
			return nil, err
		}
		sub, err := p.parseGroupBody(start)
		if err != nil {
			return nil, err
		}
		cond := &condNode{ref: ref, yes: sub}
		if alt, ok := sub.(*altNode); ok {
			if len(alt.alternatives) > 2 {
				return nil, p.errorf(start, "conditional backref with more than two branches")
			}
			cond.yes, cond.no = alt.alternatives[0], alt.alternatives[1]
		}
		return cond, nil

	case p.consume("="):
		return p.parseLook(start, false, false)
	case p.consume("!"):
		return p.parseLook(start, false, true)
	case p.consume("<="):
		return p.parseLook(start, true, false)
	case p.consume("<!"):
		return p.parseLook(start, true, true)
	}
	return nil, p.errorf(p.pos, "unknown extension")
}

func (p *parser) openGroup(name string) int {
	p.groupCount++
	p.groupNames = append(p.groupNames, name)
	if name != "" {
		p.names[name] = p.groupCount
	}
	return p.groupCount
}

func (p *parser) parseGroupBody(start int) (node, error) {
	sub, err := p.parseAlternation()
	if err != nil {
		return nil, err
	}
	if p.pos >= len(p.pattern) || p.pattern[p.pos] != ')' {
		return nil, p.errorf(start, "missing ), unterminated subpattern")
	}
	p.pos++
	return sub, nil
}

func (p *parser) parseLook(start int, behind, negated bool) (node, error) {
	sub, err := p.parseGroupBody(start)
	if err != nil {
		return nil, err
	}
	return &lookNode{behind: behind, negated: negated, child: sub}, nil
}

func (p *parser) parseName(term rune) (string, error) {
	start := p.pos
	for p.pos < len(p.pattern) && p.pattern[p.pos] != term {
		p.pos++
	}
	if p.pos >= len(p.pattern) {
		return "", p.errorf(start, "missing %c, unterminated name", term)
	}
	name := string(p.pattern[start:p.pos])
	p.pos++
	if !ValidGroupName(name) {
		return "", p.errorf(start, "bad character in group name %q", name)
	}
	return name, nil
}

func (p *parser) parseConditionRef() (*groupRef, error) {
	start := p.pos
	name, err := p.parseName(')')
	if err == nil {
		return p.addRef(0, name, start), nil
	}
	// not a name, so it must be a group number
	p.pos = start
	num, digits := 0, 0
	for p.pos < len(p.pattern) && p.pattern[p.pos] >= '0' && p.pattern[p.pos] <= '9' {
		num = num*10 + int(p.pattern[p.pos]-'0')
		p.pos++
		digits++
	}
	if digits == 0 || num == 0 || !p.peek(')') {
		return nil, p.errorf(start, "bad character in group name")
	}
	p.pos++
	return p.addRef(num, "", start), nil
}

func (p *parser) addRef(index int, name string, pos int) *groupRef {
	ref := &groupRef{index: index, name: name, pos: pos}
	p.refs = append(p.refs, ref)
	return ref
}

func (p *parser) parseEscape() (node, error) {
	start := p.pos
	p.pos++
	if p.pos >= len(p.pattern) {
		return nil, p.errorf(start, "dangling escape")
	}
	esc := p.pattern[p.pos]
	// backrefs may be multiple digits
	if esc >= '1' && esc <= '9' {
		num := 0
		for p.pos < len(p.pattern) && p.pattern[p.pos] >= '0' && p.pattern[p.pos] <= '9' {
			num = num*10 + int(p.pattern[p.pos]-'0')
			p.pos++
		}
		return &backRefNode{ref: p.addRef(num, "", start)}, nil
	}
	p.pos++
	if kind, ok := shorthands[esc]; ok {
		return &shorthandNode{kind: kind}, nil
	}
	if kind, ok := assertEscapes[esc]; ok {
		return &assertNode{kind: kind}, nil
	}
	if r, ok := controlEscapes[esc]; ok {
		return &literalNode{char: r}, nil
	}
	if isASCIIAlnum(esc) {
		return nil, p.errorf(start, "bad escape \\%c", esc)
	}
	return &literalNode{char: esc}, nil
}

func (p *parser) parseClass() (node, error) {
	start := p.pos
	p.pos++
	cls := &classNode{}
	if p.peek('^') {
		cls.negated = true
		p.pos++
	}
	first := true
	for {
		if p.pos >= len(p.pattern) {
			return nil, p.errorf(start, "unterminated character class")
		}
		if p.pattern[p.pos] == ']' && !first {
			p.pos++
			return cls, nil
		}
		first = false

		itemPos := p.pos
		lo, err := p.parseClassAtom()
		if err != nil {
			return nil, err
		}
		if lo.kind != 0 {
			cls.items = append(cls.items, lo)
			continue
		}
		if p.peek('-') && p.pos+1 < len(p.pattern) && p.pattern[p.pos+1] != ']' {
			p.pos++
			hi, err := p.parseClassAtom()
			if err != nil {
				return nil, err
			}
			if hi.kind != 0 || hi.lo < lo.lo {
				return nil, p.errorf(itemPos, "bad character range")
			}
			cls.items = append(cls.items, classItem{lo: lo.lo, hi: hi.lo})
			continue
		}
		cls.items = append(cls.items, lo)
	}
}

func (p *parser) parseClassAtom() (classItem, error) {
	ch := p.pattern[p.pos]
	p.pos++
	if ch != '\\' {
		return classItem{lo: ch, hi: ch}, nil
	}
	if p.pos >= len(p.pattern) {
		return classItem{}, p.errorf(p.pos-1, "dangling escape")
	}
	esc := p.pattern[p.pos]
	p.pos++
	if kind, ok := shorthands[esc]; ok {
		return classItem{kind: kind}, nil
	}
	if esc == 'b' {
		return classItem{lo: '\b', hi: '\b'}, nil
	}
	if r, ok := controlEscapes[esc]; ok {
		return classItem{lo: r, hi: r}, nil
	}
	if isASCIIAlnum(esc) {
		return classItem{}, p.errorf(p.pos-2, "bad escape \\%c", esc)
	}
	return classItem{lo: esc, hi: esc}, nil
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

// ValidGroupName reports whether name can be used as a group name: a letter
// or underscore followed by letters, digits, underscores or combining marks.
func ValidGroupName(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r) || unicode.Is(unicode.Nl, r):
		case i > 0 && (unicode.IsDigit(r) || unicode.In(r, unicode.Mn, unicode.Mc, unicode.Pc)):
		default:
			return false
		}
	}
	return true
}
