package engine

import "unicode"

type node interface{}

type literalNode struct{ char rune }
type anyNode struct{}
type shorthandNode struct{ kind shorthand }
type assertNode struct{ kind assertKind }
type classNode struct {
	items   []classItem
	negated bool
}
type sequenceNode struct{ children []node }
type altNode struct{ alternatives []node }
type repNode struct {
	child    node
	min, max int // max<0 means “infinite”
	lazy     bool
}
type groupNode struct{ child node }
type captureNode struct {
	index int
	name  string
	child node
}
type backRefNode struct{ ref *groupRef }
type condNode struct {
	ref     *groupRef
	yes, no node
}
type lookNode struct {
	behind, negated bool
	child           node
}

// groupRef is a reference by name or number; names are resolved to numbers
// once the whole pattern has been parsed.
type groupRef struct {
	index int
	name  string
	pos   int
}

type shorthand int

const (
	shDigit shorthand = iota + 1
	shNotDigit
	shWord
	shNotWord
	shSpace
	shNotSpace
)

var shorthands = map[rune]shorthand{
	'd': shDigit,
	'D': shNotDigit,
	'w': shWord,
	'W': shNotWord,
	's': shSpace,
	'S': shNotSpace,
}

func (k shorthand) matches(r rune) bool {
	switch k {
	case shDigit:
		return unicode.IsDigit(r)
	case shNotDigit:
		return !unicode.IsDigit(r)
	case shWord:
		return isWordRune(r)
	case shNotWord:
		return !isWordRune(r)
	case shSpace:
		return unicode.IsSpace(r)
	case shNotSpace:
		return !unicode.IsSpace(r)
	}
	return false
}

func isWordRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.Is(unicode.Mn, r)
}

type assertKind int

const (
	atStart assertKind = iota
	atEnd
	atStartOfText
	atEndOfText
	atWordBoundary
	atNonWordBoundary
)

var assertEscapes = map[rune]assertKind{
	'A': atStartOfText,
	'Z': atEndOfText,
	'b': atWordBoundary,
	'B': atNonWordBoundary,
}

var controlEscapes = map[rune]rune{
	't': '\t',
	'n': '\n',
	'r': '\r',
	'f': '\f',
	'v': '\v',
	'a': '\a',
	'0': 0,
}

// classItem is a single rune, an inclusive range, or a shorthand class.
type classItem struct {
	lo, hi rune
	kind   shorthand
}

func (c *classNode) contains(r rune) bool {
	for _, it := range c.items {
		if it.kind != 0 {
			if it.kind.matches(r) {
				return true
			}
			continue
		}
		if r >= it.lo && r <= it.hi {
			return true
		}
	}
	return false
}
