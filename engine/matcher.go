package engine

import (
	"fmt"
	"sort"
	"unicode"

	"golang.org/x/text/cases"
)

type span struct{ start, end int }

// captures is never modified in place; a capture copies it first.
type captures map[int]span

type matchRes struct {
	pos  int
	caps captures
}

// matcher walks the AST over one input. Results are returned in priority
// order: earlier alternatives first, greedy repetitions longest first.
type matcher struct {
	runes []rune
	flags Flags
	fold  cases.Caser
}

func newMatcher(runes []rune, flags Flags) *matcher {
	return &matcher{runes: runes, flags: flags, fold: cases.Fold()}
}

func (m *matcher) matchNode(n node, pos int, caps captures) []matchRes {
	runes := m.runes
	switch x := n.(type) {
	case *literalNode:
		if pos < len(runes) && m.sameRune(runes[pos], x.char) {
			return []matchRes{{pos + 1, caps}}
		}
		return nil
	case *shorthandNode:
		if pos < len(runes) && x.kind.matches(runes[pos]) {
			return []matchRes{{pos + 1, caps}}
		}
		return nil
	case *anyNode:
		if pos < len(runes) && (m.flags&DotAll != 0 || runes[pos] != '\n') {
			return []matchRes{{pos + 1, caps}}
		}
		return nil
	case *classNode:
		if pos < len(runes) {
			in := m.classContains(x, runes[pos])
			if (x.negated && !in) || (!x.negated && in) {
				return []matchRes{{pos + 1, caps}}
			}
		}
		return nil
	case *assertNode:
		if m.assert(x.kind, pos) {
			return []matchRes{{pos, caps}}
		}
		return nil
	case *sequenceNode:
		results := []matchRes{{pos, caps}}
		for _, child := range x.children {
			var next []matchRes
			for _, r := range results {
				next = append(next, m.matchNode(child, r.pos, r.caps)...)
			}
			results = uniqueRes(next)
			if len(results) == 0 {
				break
			}
		}
		return results
	case *altNode:
		var all []matchRes
		for _, alt := range x.alternatives {
			all = append(all, m.matchNode(alt, pos, caps)...)
		}
		return uniqueRes(all)
	case *repNode:
		return m.matchRep(x, pos, caps, 0)
	case *groupNode:
		return m.matchNode(x.child, pos, caps)
	case *captureNode:
		sub := m.matchNode(x.child, pos, caps)
		var out []matchRes
		for _, r := range sub {
			newCaps := make(captures, len(r.caps)+1)
			for k, v := range r.caps {
				newCaps[k] = v
			}
			newCaps[x.index] = span{pos, r.pos}
			out = append(out, matchRes{r.pos, newCaps})
		}
		return uniqueRes(out)
	case *backRefNode:
		group, ok := caps[x.ref.index]
		if !ok {
			return nil
		}
		n := group.end - group.start
		if pos+n > len(runes) {
			return nil
		}
		if !m.sameText(runes[group.start:group.end], runes[pos:pos+n]) {
			return nil
		}
		return []matchRes{{pos + n, caps}}
	case *condNode:
		branch := x.no
		if _, ok := caps[x.ref.index]; ok {
			branch = x.yes
		}
		if branch == nil {
			return []matchRes{{pos, caps}}
		}
		return m.matchNode(branch, pos, caps)
	case *lookNode:
		return m.matchLook(x, pos, caps)
	default:
		return nil
	}
}

func (m *matcher) matchRep(r *repNode, pos int, caps captures, count int) []matchRes {
	var more []matchRes
	if r.max < 0 || count < r.max {
		next := m.matchNode(r.child, pos, caps)
		for _, nr := range next {
			// past the minimum an empty iteration ends the loop but keeps
			// its captures
			if nr.pos == pos && count >= r.min {
				more = append(more, nr)
				continue
			}
			more = append(more, m.matchRep(r, nr.pos, nr.caps, count+1)...)
		}
	}
	var here []matchRes
	if count >= r.min {
		here = []matchRes{{pos, caps}}
	}
	if r.lazy {
		return uniqueRes(append(here, more...))
	}
	return uniqueRes(append(more, here...))
}

func (m *matcher) matchLook(l *lookNode, pos int, caps captures) []matchRes {
	var found []matchRes
	if l.behind {
		for start := pos; start >= 0 && found == nil; start-- {
			for _, r := range m.matchNode(l.child, start, caps) {
				if r.pos == pos {
					found = []matchRes{r}
					break
				}
			}
		}
	} else {
		found = m.matchNode(l.child, pos, caps)
	}
	if l.negated {
		if len(found) == 0 {
			return []matchRes{{pos, caps}}
		}
		return nil
	}
	if len(found) == 0 {
		return nil
	}
	return []matchRes{{pos, found[0].caps}}
}

func (m *matcher) assert(kind assertKind, pos int) bool {
	runes := m.runes
	multiline := m.flags&Multiline != 0
	switch kind {
	case atStart:
		return pos == 0 || (multiline && runes[pos-1] == '\n')
	case atEnd:
		if pos == len(runes) {
			return true
		}
		if runes[pos] != '\n' {
			return false
		}
		return multiline || pos == len(runes)-1
	case atStartOfText:
		return pos == 0
	case atEndOfText:
		return pos == len(runes)
	case atWordBoundary, atNonWordBoundary:
		before := pos > 0 && isWordRune(runes[pos-1])
		after := pos < len(runes) && isWordRune(runes[pos])
		return (before != after) == (kind == atWordBoundary)
	}
	return false
}

func (m *matcher) sameRune(a, b rune) bool {
	if a == b {
		return true
	}
	if m.flags&IgnoreCase == 0 {
		return false
	}
	for f := unicode.SimpleFold(a); f != a; f = unicode.SimpleFold(f) {
		if f == b {
			return true
		}
	}
	return false
}

func (m *matcher) sameText(a, b []rune) bool {
	if m.flags&IgnoreCase != 0 {
		return m.fold.String(string(a)) == m.fold.String(string(b))
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (m *matcher) classContains(c *classNode, r rune) bool {
	if c.contains(r) {
		return true
	}
	if m.flags&IgnoreCase == 0 {
		return false
	}
	for f := unicode.SimpleFold(r); f != r; f = unicode.SimpleFold(f) {
		if c.contains(f) {
			return true
		}
	}
	return false
}

// uniqueRes drops results that repeat an earlier position and capture set,
// keeping the first (highest priority) one.
func uniqueRes(xs []matchRes) []matchRes {
	seen := make(map[string]bool)
	var out []matchRes
	for _, x := range xs {
		keys := make([]int, 0, len(x.caps))
		for k := range x.caps {
			keys = append(keys, k)
		}
		sort.Ints(keys)
		sig := fmt.Sprintf("%d:", x.pos)
		for _, k := range keys {
			sig += fmt.Sprintf("%d=%d,%d|", k, x.caps[k].start, x.caps[k].end)
		}
		if !seen[sig] {
			seen[sig] = true
			out = append(out, x)
		}
	}
	return out
}
