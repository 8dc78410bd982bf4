package pattern

import (
	"fmt"
	"log/slog"
	"strconv"
)

// GroupInfo describes one capture group of a tree.
type GroupInfo struct {
	Number int
	Name   string // "" for unnamed groups
	Path   string
}

type pendingRef struct {
	ref  Ref
	path string
}

// registry maps every capture group of one tree to its number. It is built
// fresh for each call and discarded afterwards.
type registry struct {
	groups []GroupInfo
	byName map[string]int // index into groups
	refs   []pendingRef
}

// buildRegistry walks the whole tree before checking any reference, since a
// reference may name a group that comes later.
func buildRegistry(root Node) (*registry, error) {
	r := &registry{byName: make(map[string]int)}
	if err := r.visit(root, "/"); err != nil {
		return nil, err
	}
	for _, p := range r.refs {
		if !r.defined(p.ref) {
			return nil, &UndefinedReferenceError{Ref: p.ref, At: Location{Path: p.path}}
		}
	}
	slog.Debug("capture groups registered", "groups", len(r.groups), "references", len(r.refs))
	return r, nil
}

func (r *registry) visit(n Node, path string) error {
	switch x := n.(type) {
	case nil, *LiteralNode, *AnchorNode, *ClassNode:
		return nil
	case *RawNode:
		for _, name := range x.frag.Groups {
			if err := r.add(name, path); err != nil {
				return err
			}
		}
		return nil
	case *SequenceNode:
		return r.visitAll(x.children, path)
	case *AlternationNode:
		return r.visitAll(x.alternatives, path)
	case *GroupNode:
		if x.capturing {
			if err := r.add(x.name, path); err != nil {
				return err
			}
		}
		return r.visit(x.child, childPath(path, 0))
	case *QuantifierNode:
		return r.visit(x.child, childPath(path, 0))
	case *LookaroundNode:
		return r.visit(x.child, childPath(path, 0))
	case *BackrefNode:
		r.refs = append(r.refs, pendingRef{ref: x.ref, path: path})
		return nil
	case *ConditionalNode:
		r.refs = append(r.refs, pendingRef{ref: x.ref, path: path})
		if err := r.visit(x.yes, childPath(path, 0)); err != nil {
			return err
		}
		return r.visit(x.no, childPath(path, 1))
	default:
		return fmt.Errorf("pattern: unknown node type %T", n)
	}
}

func (r *registry) visitAll(children []Node, path string) error {
	for i, c := range children {
		if err := r.visit(c, childPath(path, i)); err != nil {
			return err
		}
	}
	return nil
}

func (r *registry) add(name, path string) error {
	number := len(r.groups) + 1
	if name != "" {
		if prev, dup := r.byName[name]; dup {
			first := r.groups[prev]
			return &DuplicateNameError{
				Name:   name,
				First:  Location{Path: first.Path, Number: first.Number},
				Second: Location{Path: path, Number: number},
			}
		}
		r.byName[name] = len(r.groups)
	}
	r.groups = append(r.groups, GroupInfo{Number: number, Name: name, Path: path})
	return nil
}

func (r *registry) defined(ref Ref) bool {
	if ref.name != "" {
		_, ok := r.byName[ref.name]
		return ok
	}
	return ref.number >= 1 && ref.number <= len(r.groups)
}

func childPath(path string, i int) string {
	if path == "/" {
		return "/" + strconv.Itoa(i)
	}
	return path + "/" + strconv.Itoa(i)
}

// Groups lists the capture groups of root in group-number order.
func Groups(root Node) ([]GroupInfo, error) {
	r, err := buildRegistry(root)
	if err != nil {
		return nil, err
	}
	return append([]GroupInfo(nil), r.groups...), nil
}
