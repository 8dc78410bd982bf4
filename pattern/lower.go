package pattern

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/funkybooboo/regexr/engine"
)

// precedence is how tightly a rendered fragment binds to its neighbours.
type precedence int

const (
	precEmpty  precedence = iota // renders nothing
	precAtom                     // one rune, escape, class or parenthesised unit
	precAssert                   // zero-width anchor; cannot be quantified
	precRepeat                   // quantified atom
	precConcat                   // several units in a row
	precAlt                      // top-level |
)

type position int

const (
	inSequence   position = iota // next to other fragments
	inQuantifier                 // operand of a repetition suffix
	inGroup                      // body of a non-capturing group
)

// needsGroup is the single rule deciding where (?:...) is inserted. Both the
// compiler and the pretty printer render the fragments it shapes.
func needsGroup(p precedence, pos position) bool {
	switch pos {
	case inQuantifier:
		return p != precAtom
	case inGroup:
		return p == precConcat || p == precAlt
	default:
		return p == precAlt
	}
}

type fragKind int

const (
	fragText fragKind = iota
	fragSeq
	fragAlt
	fragGroup
)

// fragment is a node after grouping decisions. A fragGroup has exactly one
// part, its body, between open and close.
type fragment struct {
	kind        fragKind
	text        string
	open, close string
	parts       []*fragment
	prec        precedence
	// endsWithNumberRef is set when the source ends with \N, which a
	// following digit would extend.
	endsWithNumberRef bool
}

func text(s string, prec precedence) *fragment {
	return &fragment{kind: fragText, text: s, prec: prec}
}

func group(open string, body *fragment, close string) *fragment {
	return &fragment{kind: fragGroup, open: open, close: close, parts: []*fragment{body}, prec: precAtom}
}

func isolate(f *fragment, pos position) *fragment {
	if needsGroup(f.prec, pos) {
		return group("(?:", f, ")")
	}
	return f
}

// unwrap drops a bare (?:...) around f when f is about to get parentheses of
// its own.
func unwrap(f *fragment) *fragment {
	if f.kind == fragGroup && f.open == "(?:" && f.close == ")" {
		return f.parts[0]
	}
	return f
}

func lower(n Node) *fragment {
	switch x := n.(type) {
	case nil:
		return text("", precEmpty)
	case *LiteralNode:
		return lowerLiteral(x.text)
	case *RawNode:
		f := text(x.src, rawPrecedence(x.frag.Shape))
		f.endsWithNumberRef = x.frag.EndsWithNumberRef
		return f
	case *AnchorNode:
		return text(anchorSource[x.kind], precAssert)
	case *ClassNode:
		return text(x.source(), precAtom)
	case *SequenceNode:
		return lowerSequence(x.children)
	case *AlternationNode:
		return lowerAlternation(x.alternatives)
	case *GroupNode:
		body := unwrap(lower(x.child))
		switch {
		case x.name != "":
			return group("(?P<"+x.name+">", body, ")")
		case x.capturing:
			return group("(", body, ")")
		}
		if _, ok := x.child.(*LiteralNode); ok {
			return body
		}
		return isolate(body, inGroup)
	case *QuantifierNode:
		return quantify(lower(x.child), quantifierSuffix(x.min, x.max, x.lazy))
	case *BackrefNode:
		if x.ref.name != "" {
			return text("(?P="+x.ref.name+")", precAtom)
		}
		f := text(`\`+strconv.Itoa(x.ref.number), precAtom)
		f.endsWithNumberRef = true
		return f
	case *ConditionalNode:
		body := isolate(lower(x.yes), inSequence)
		if x.no != nil {
			body = &fragment{
				kind:  fragAlt,
				parts: []*fragment{body, isolate(lower(x.no), inSequence)},
				prec:  precAlt,
			}
		}
		return group("(?("+x.ref.String()+")", body, ")")
	case *LookaroundNode:
		return group(lookaroundOpen(x.behind, x.negated), unwrap(lower(x.child)), ")")
	default:
		panic(fmt.Sprintf("pattern: unknown node type %T", n))
	}
}

func lowerLiteral(s string) *fragment {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`.^$*+?{}[]\|()`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	switch utf8.RuneCountInString(s) {
	case 0:
		return text("", precEmpty)
	case 1:
		return text(b.String(), precAtom)
	default:
		return text(b.String(), precConcat)
	}
}

func rawPrecedence(s engine.Shape) precedence {
	switch s {
	case engine.ShapeEmpty:
		return precEmpty
	case engine.ShapeAtom:
		return precAtom
	case engine.ShapeAssert:
		return precAssert
	case engine.ShapeRepeat:
		return precRepeat
	case engine.ShapeConcat:
		return precConcat
	default:
		return precAlt
	}
}

func lowerSequence(children []Node) *fragment {
	var parts []*fragment
	for _, c := range children {
		if f := lower(c); f.prec != precEmpty {
			parts = append(parts, f)
		}
	}
	// a lone child stands for the whole sequence
	switch len(parts) {
	case 0:
		return text("", precEmpty)
	case 1:
		return parts[0]
	}
	for i, p := range parts {
		parts[i] = isolate(p, inSequence)
	}
	for i := 0; i < len(parts)-1; i++ {
		if parts[i].endsWithNumberRef && startsWithDigit(parts[i+1]) {
			parts[i] = group("(?:", parts[i], ")")
		}
	}
	return &fragment{
		kind:              fragSeq,
		parts:             parts,
		prec:              precConcat,
		endsWithNumberRef: parts[len(parts)-1].endsWithNumberRef,
	}
}

func lowerAlternation(alternatives []Node) *fragment {
	switch len(alternatives) {
	case 0:
		return text("", precEmpty)
	case 1:
		return lower(alternatives[0])
	}
	parts := make([]*fragment, len(alternatives))
	for i, a := range alternatives {
		parts[i] = lower(a)
	}
	return &fragment{kind: fragAlt, parts: parts, prec: precAlt}
}

// quantify appends suffix to f, first isolating f if the suffix would
// otherwise bind to only part of it.
func quantify(f *fragment, suffix string) *fragment {
	f = isolate(f, inQuantifier)
	q := *f
	if q.kind == fragGroup {
		q.close += suffix
	} else {
		q.text += suffix
	}
	q.prec = precRepeat
	q.endsWithNumberRef = false
	return &q
}

func quantifierSuffix(min, max int, lazy bool) string {
	var s string
	switch {
	case min == 0 && max == 1:
		s = "?"
	case min == 0 && max == Unbounded:
		s = "*"
	case min == 1 && max == Unbounded:
		s = "+"
	case max == Unbounded:
		s = fmt.Sprintf("{%d,}", min)
	case min == max:
		s = fmt.Sprintf("{%d}", min)
	default:
		s = fmt.Sprintf("{%d,%d}", min, max)
	}
	if lazy {
		s += "?"
	}
	return s
}

func lookaroundOpen(behind, negated bool) string {
	switch {
	case behind && negated:
		return "(?<!"
	case behind:
		return "(?<="
	case negated:
		return "(?!"
	default:
		return "(?="
	}
}

func startsWithDigit(f *fragment) bool {
	var b strings.Builder
	f.writeTo(&b)
	s := b.String()
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
