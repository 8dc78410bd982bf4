package pattern

import "strings"

type classItemKind int

const (
	itemRune classItemKind = iota
	itemRange
	itemShorthand
)

// ClassItem is one member of a character class: a rune, an inclusive range
// or a shorthand class such as \d.
type ClassItem struct {
	kind      classItemKind
	lo, hi    rune
	shorthand string
}

func Char(r rune) ClassItem { return ClassItem{kind: itemRune, lo: r, hi: r} }

// Range includes every rune from lo to hi. Ordering the bounds is up to the
// caller.
func Range(lo, hi rune) ClassItem { return ClassItem{kind: itemRange, lo: lo, hi: hi} }

// Chars returns one item per rune of s.
func Chars(s string) []ClassItem {
	var items []ClassItem
	for _, r := range s {
		items = append(items, Char(r))
	}
	return items
}

var (
	ClassDigit    = ClassItem{kind: itemShorthand, shorthand: `\d`}
	ClassNotDigit = ClassItem{kind: itemShorthand, shorthand: `\D`}
	ClassWord     = ClassItem{kind: itemShorthand, shorthand: `\w`}
	ClassNotWord  = ClassItem{kind: itemShorthand, shorthand: `\W`}
	ClassSpace    = ClassItem{kind: itemShorthand, shorthand: `\s`}
	ClassNotSpace = ClassItem{kind: itemShorthand, shorthand: `\S`}
)

// ClassNode matches one rune that is (or, negated, is not) in its items.
type ClassNode struct {
	items   []ClassItem
	negated bool
}

func Class(items ...ClassItem) *ClassNode {
	return &ClassNode{items: append([]ClassItem(nil), items...)}
}

func NotClass(items ...ClassItem) *ClassNode {
	return &ClassNode{items: append([]ClassItem(nil), items...), negated: true}
}

func (n *ClassNode) Items() []ClassItem { return append([]ClassItem(nil), n.items...) }
func (n *ClassNode) Negated() bool      { return n.negated }

// source renders the bracket expression. Items keep their order except that
// a literal ] goes first and a literal - goes last, where neither needs
// escaping.
func (n *ClassNode) source() string {
	var b strings.Builder
	b.WriteByte('[')
	if n.negated {
		b.WriteByte('^')
	}
	var closeBracket, dash bool
	var body strings.Builder
	for _, it := range n.items {
		switch it.kind {
		case itemShorthand:
			body.WriteString(it.shorthand)
		case itemRange:
			writeRangeEnd(&body, it.lo)
			body.WriteByte('-')
			writeRangeEnd(&body, it.hi)
		default:
			switch it.lo {
			case ']':
				closeBracket = true
			case '-':
				dash = true
			case '\\', '[':
				body.WriteByte('\\')
				body.WriteRune(it.lo)
			case '^':
				if body.Len() == 0 && !closeBracket && !n.negated {
					body.WriteByte('\\')
				}
				body.WriteRune('^')
			default:
				body.WriteRune(it.lo)
			}
		}
	}
	if closeBracket {
		b.WriteByte(']')
	}
	b.WriteString(body.String())
	if dash {
		b.WriteByte('-')
	}
	b.WriteByte(']')
	return b.String()
}

func writeRangeEnd(b *strings.Builder, r rune) {
	if strings.ContainsRune(`]\-^[`, r) {
		b.WriteByte('\\')
	}
	b.WriteRune(r)
}
