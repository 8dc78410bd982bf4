package engine

// Shape is how tightly a pattern fragment binds when placed next to other
// fragments.
type Shape int

const (
	// ShapeEmpty matches the empty string and renders nothing.
	ShapeEmpty Shape = iota
	// ShapeAtom is a single unit a quantifier can apply to directly.
	ShapeAtom
	// ShapeAssert is a zero-width anchor such as ^ or \b.
	ShapeAssert
	// ShapeRepeat is a quantified atom.
	ShapeRepeat
	// ShapeConcat is several units in a row.
	ShapeConcat
	// ShapeAlternation has a top-level |.
	ShapeAlternation
)

func (s Shape) String() string {
	switch s {
	case ShapeEmpty:
		return "empty"
	case ShapeAtom:
		return "atom"
	case ShapeAssert:
		return "assert"
	case ShapeRepeat:
		return "repeat"
	case ShapeConcat:
		return "concat"
	case ShapeAlternation:
		return "alternation"
	}
	return "unknown"
}

// Fragment describes a piece of pattern source without running it.
type Fragment struct {
	Shape Shape
	// Groups lists the capture groups the fragment opens, in order; unnamed
	// groups are "".
	Groups []string
	// EndsWithNumberRef is set when the fragment ends in a numbered
	// back-reference, which a following digit would extend.
	EndsWithNumberRef bool
}

// Inspect parses src as a fragment of a larger pattern. References to
// groups outside of src are not checked.
func Inspect(src string) (Fragment, error) {
	p := newParser(src)
	root, err := p.parseFragment()
	if err != nil {
		return Fragment{Shape: ShapeAlternation}, err
	}
	return Fragment{
		Shape:             shapeOf(root),
		Groups:            p.groupNames,
		EndsWithNumberRef: endsWithNumberRef(root),
	}, nil
}

func endsWithNumberRef(n node) bool {
	switch x := n.(type) {
	case *backRefNode:
		return x.ref.name == ""
	case *sequenceNode:
		return len(x.children) > 0 && endsWithNumberRef(x.children[len(x.children)-1])
	case *altNode:
		return len(x.alternatives) > 0 && endsWithNumberRef(x.alternatives[len(x.alternatives)-1])
	}
	return false
}

func shapeOf(n node) Shape {
	switch x := n.(type) {
	case *altNode:
		return ShapeAlternation
	case *sequenceNode:
		if len(x.children) == 0 {
			return ShapeEmpty
		}
		return ShapeConcat
	case *repNode:
		return ShapeRepeat
	case *assertNode:
		return ShapeAssert
	default:
		return ShapeAtom
	}
}
