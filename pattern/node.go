// Package pattern builds regular expressions from trees of typed nodes.
//
// A tree is assembled bottom-up with the constructors in this package and is
// never modified afterwards. Compile turns it into pattern source for a
// Python/PCRE style engine and Pretty renders the same structure as indented
// text. Both validate capture-group names and references over the whole tree
// before producing any output, so a reference may point at a group that
// appears later in the pattern.
package pattern

import (
	"fmt"
	"strconv"

	"github.com/funkybooboo/regexr/engine"
)

// Node is one immutable piece of a pattern tree. The set of implementations
// is closed.
type Node interface {
	node()
}

// Must returns n, panicking if err is not nil. It is meant for patterns
// declared at package level.
func Must[T Node](n T, err error) T {
	if err != nil {
		panic(err)
	}
	return n
}

// LiteralNode matches its text verbatim.
type LiteralNode struct{ text string }

// Lit matches text verbatim; regex metacharacters are escaped on output.
func Lit(text string) *LiteralNode { return &LiteralNode{text: text} }

func (n *LiteralNode) Text() string { return n.text }

// RawNode is pattern source emitted untouched.
type RawNode struct {
	src  string
	frag engine.Fragment
}

// Raw embeds src without escaping. How tightly it binds is worked out by
// parsing it; source that does not parse is always isolated in a group.
func Raw(src string) *RawNode {
	frag, _ := engine.Inspect(src)
	return &RawNode{src: src, frag: frag}
}

func (n *RawNode) Source() string { return n.src }

// AnchorKind selects a zero-width assertion.
type AnchorKind int

const (
	AnchorStart AnchorKind = iota
	AnchorEnd
	AnchorStartOfString
	AnchorEndOfString
	AnchorWordBoundary
	AnchorNonWordBoundary
)

var anchorSource = map[AnchorKind]string{
	AnchorStart:           "^",
	AnchorEnd:             "$",
	AnchorStartOfString:   `\A`,
	AnchorEndOfString:     `\Z`,
	AnchorWordBoundary:    `\b`,
	AnchorNonWordBoundary: `\B`,
}

type AnchorNode struct{ kind AnchorKind }

func Start() *AnchorNode           { return &AnchorNode{kind: AnchorStart} }
func End() *AnchorNode             { return &AnchorNode{kind: AnchorEnd} }
func StartOfString() *AnchorNode   { return &AnchorNode{kind: AnchorStartOfString} }
func EndOfString() *AnchorNode     { return &AnchorNode{kind: AnchorEndOfString} }
func WordBoundary() *AnchorNode    { return &AnchorNode{kind: AnchorWordBoundary} }
func NonWordBoundary() *AnchorNode { return &AnchorNode{kind: AnchorNonWordBoundary} }

func (n *AnchorNode) Kind() AnchorKind { return n.kind }

// SequenceNode concatenates its children.
type SequenceNode struct{ children []Node }

func Concat(children ...Node) *SequenceNode {
	return &SequenceNode{children: append([]Node(nil), children...)}
}

func (n *SequenceNode) Children() []Node { return append([]Node(nil), n.children...) }

// AlternationNode matches the first alternative that succeeds.
type AlternationNode struct{ alternatives []Node }

func Or(alternatives ...Node) *AlternationNode {
	return &AlternationNode{alternatives: append([]Node(nil), alternatives...)}
}

func (n *AlternationNode) Alternatives() []Node {
	return append([]Node(nil), n.alternatives...)
}

// GroupNode is a capturing group, named or not, or a non-capturing group.
type GroupNode struct {
	child     Node
	name      string
	capturing bool
}

// Group isolates child without capturing it. The parentheses are left out
// whenever they would not change how the pattern parses.
func Group(child Node) *GroupNode { return &GroupNode{child: child} }

// Capture captures child under the next group number.
func Capture(child Node) *GroupNode { return &GroupNode{child: child, capturing: true} }

// NamedCapture captures child under name as well as a group number.
func NamedCapture(name string, child Node) (*GroupNode, error) {
	if !engine.ValidGroupName(name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return &GroupNode{child: child, name: name, capturing: true}, nil
}

func (n *GroupNode) Child() Node     { return n.child }
func (n *GroupNode) Name() string    { return n.name }
func (n *GroupNode) Capturing() bool { return n.capturing }

// Unbounded is the maximum of a quantifier without an upper limit.
const Unbounded = -1

// QuantifierNode repeats its child between min and max times.
type QuantifierNode struct {
	child    Node
	min, max int
	lazy     bool
}

// Repeat matches child at least min and at most max times; max may be
// Unbounded.
func Repeat(child Node, min, max int) (*QuantifierNode, error) {
	if min < 0 || (max != Unbounded && max < min) {
		return nil, fmt.Errorf("%w: min=%d max=%d", ErrInvalidQuantifierBounds, min, max)
	}
	return &QuantifierNode{child: child, min: min, max: max}, nil
}

// RepeatExact matches child exactly n times.
func RepeatExact(child Node, n int) (*QuantifierNode, error) { return Repeat(child, n, n) }

// AtLeast matches child min or more times.
func AtLeast(child Node, min int) (*QuantifierNode, error) { return Repeat(child, min, Unbounded) }

func Maybe(child Node) *QuantifierNode { return &QuantifierNode{child: child, min: 0, max: 1} }
func ZeroOrMore(child Node) *QuantifierNode {
	return &QuantifierNode{child: child, min: 0, max: Unbounded}
}
func OneOrMore(child Node) *QuantifierNode {
	return &QuantifierNode{child: child, min: 1, max: Unbounded}
}

// Lazy returns a copy of q that prefers as few repetitions as possible.
func Lazy(q *QuantifierNode) *QuantifierNode {
	lazy := *q
	lazy.lazy = true
	return &lazy
}

func (n *QuantifierNode) Child() Node { return n.child }
func (n *QuantifierNode) Min() int    { return n.min }
func (n *QuantifierNode) Max() int    { return n.max }
func (n *QuantifierNode) Lazy() bool  { return n.lazy }

// Ref points at a capture group by name or by number.
type Ref struct {
	name   string
	number int
}

func nameRef(name string) (Ref, error) {
	if !engine.ValidGroupName(name) {
		return Ref{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return Ref{name: name}, nil
}

func numberRef(number int) (Ref, error) {
	if number < 1 {
		return Ref{}, fmt.Errorf("%w: group number %d", ErrInvalidName, number)
	}
	return Ref{number: number}, nil
}

// Name is the referenced group name, or "" for a numbered reference.
func (r Ref) Name() string { return r.name }

// Number is the referenced group number, or 0 for a named reference.
func (r Ref) Number() int { return r.number }

func (r Ref) String() string {
	if r.name != "" {
		return r.name
	}
	return strconv.Itoa(r.number)
}

// BackrefNode matches the text last captured by a group.
type BackrefNode struct{ ref Ref }

func Backref(name string) (*BackrefNode, error) {
	ref, err := nameRef(name)
	if err != nil {
		return nil, err
	}
	return &BackrefNode{ref: ref}, nil
}

// MaxBackrefNumber is the largest group a numbered back-reference can name;
// \100 and up read as octal escapes.
const MaxBackrefNumber = 99

func BackrefNumber(number int) (*BackrefNode, error) {
	if number > MaxBackrefNumber {
		return nil, fmt.Errorf("%w: group number %d above %d", ErrInvalidName, number, MaxBackrefNumber)
	}
	ref, err := numberRef(number)
	if err != nil {
		return nil, err
	}
	return &BackrefNode{ref: ref}, nil
}

func (n *BackrefNode) Ref() Ref { return n.ref }

// ConditionalNode matches yes if the referenced group took part in the match
// so far and no otherwise. no may be nil.
type ConditionalNode struct {
	ref     Ref
	yes, no Node
}

func If(name string, yes, no Node) (*ConditionalNode, error) {
	ref, err := nameRef(name)
	if err != nil {
		return nil, err
	}
	return &ConditionalNode{ref: ref, yes: yes, no: no}, nil
}

func IfNumber(number int, yes, no Node) (*ConditionalNode, error) {
	ref, err := numberRef(number)
	if err != nil {
		return nil, err
	}
	return &ConditionalNode{ref: ref, yes: yes, no: no}, nil
}

func (n *ConditionalNode) Ref() Ref  { return n.ref }
func (n *ConditionalNode) Yes() Node { return n.yes }
func (n *ConditionalNode) No() Node  { return n.no }

// LookaroundNode asserts that child does (or does not) match right after or
// right before the current position, without consuming input.
type LookaroundNode struct {
	child   Node
	behind  bool
	negated bool
}

func LookAhead(child Node) *LookaroundNode    { return &LookaroundNode{child: child} }
func NotLookAhead(child Node) *LookaroundNode { return &LookaroundNode{child: child, negated: true} }
func LookBehind(child Node) *LookaroundNode   { return &LookaroundNode{child: child, behind: true} }
func NotLookBehind(child Node) *LookaroundNode {
	return &LookaroundNode{child: child, behind: true, negated: true}
}

func (n *LookaroundNode) Child() Node   { return n.child }
func (n *LookaroundNode) Behind() bool  { return n.behind }
func (n *LookaroundNode) Negated() bool { return n.negated }

func (*LiteralNode) node()     {}
func (*RawNode) node()         {}
func (*AnchorNode) node()      {}
func (*ClassNode) node()       {}
func (*SequenceNode) node()    {}
func (*AlternationNode) node() {}
func (*GroupNode) node()       {}
func (*QuantifierNode) node()  {}
func (*BackrefNode) node()     {}
func (*ConditionalNode) node() {}
func (*LookaroundNode) node()  {}
