package pattern

import (
	"errors"
	"fmt"
)

// Sentinel errors. Typed errors below unwrap to them.
var (
	ErrInvalidQuantifierBounds = errors.New("invalid quantifier bounds")
	ErrInvalidName             = errors.New("invalid group name")
	ErrDuplicateCaptureName    = errors.New("duplicate capture name")
	ErrUndefinedReference      = errors.New("undefined group reference")
)

// Location identifies a node by its path of child indexes from the root,
// e.g. "/2/0", and for capture groups by group number.
type Location struct {
	Path   string
	Number int
}

func (l Location) String() string {
	if l.Number > 0 {
		return fmt.Sprintf("group %d at %s", l.Number, l.Path)
	}
	return l.Path
}

// DuplicateNameError reports two capture groups sharing a name.
type DuplicateNameError struct {
	Name          string
	First, Second Location
}

func (e *DuplicateNameError) Error() string {
	return fmt.Sprintf("%s %q: %s and %s", ErrDuplicateCaptureName, e.Name, e.First, e.Second)
}

func (e *DuplicateNameError) Unwrap() error { return ErrDuplicateCaptureName }

// UndefinedReferenceError reports a back-reference or conditional naming a
// group that does not exist anywhere in the tree.
type UndefinedReferenceError struct {
	Ref Ref
	At  Location
}

func (e *UndefinedReferenceError) Error() string {
	return fmt.Sprintf("%s %s at %s", ErrUndefinedReference, e.Ref, e.At)
}

func (e *UndefinedReferenceError) Unwrap() error { return ErrUndefinedReference }
