// Package deepcopy clones object graphs that contain shared nodes and cycles.
//
// Cloning runs in two phases per node. CloneShallow creates a new node of the
// same concrete type holding only the scalar attributes; the clone is
// registered in a Table before any relationship is followed. CloneDeepInto
// then resolves every graph-valued reference of the original through the same
// Table, so a node reachable along several paths is cloned exactly once and
// a node already being linked is never entered twice.
//
// Usage:
//
//	t := deepcopy.NewTable()
//	a, err := deepcopy.CloneWith(t, gateA)
//	b, err := deepcopy.CloneWith(t, gateB)
//	// a and b share the clone of any template gateA and gateB shared.
//
// Implementations must be pointer types: the Table keys on the original
// node's identity.
package deepcopy

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// Copyable is a node of a clonable graph.
type Copyable interface {
	// CloneShallow returns a new node with the scalar attributes copied
	// and no graph-valued references set.
	CloneShallow() Copyable

	// CloneDeepInto fills the references of dst, a clone produced by
	// CloneShallow, by resolving each referent through t.
	CloneDeepInto(dst Copyable, t *Table) error
}

// Table maps original nodes to their clones for one clone operation.
// A Table must not be shared between unrelated operations.
type Table struct {
	clones map[Copyable]Copyable
	linked map[Copyable]bool
}

// NewTable returns an empty clone table.
func NewTable() *Table {
	return &Table{
		clones: make(map[Copyable]Copyable),
		linked: make(map[Copyable]bool),
	}
}

// Shallow returns the clone registered for src, creating and registering a
// shallow clone on first use.
func (t *Table) Shallow(src Copyable) Copyable {
	if dst, ok := t.clones[src]; ok {
		return dst
	}
	dst := src.CloneShallow()
	t.clones[src] = dst
	return dst
}

// Deep returns the clone of src with all references linked. Each original is
// linked at most once; re-entering a node that is still being linked returns
// its registered clone, which is how reference cycles terminate.
func (t *Table) Deep(src Copyable) (Copyable, error) {
	if src == nil {
		return nil, nil
	}
	dst := t.Shallow(src)
	if t.linked[src] {
		return dst, nil
	}
	t.linked[src] = true

	if err := src.CloneDeepInto(dst, t); err != nil {
		return nil, err
	}
	return dst, nil
}

// Lookup returns the clone registered for src without creating one.
func (t *Table) Lookup(src Copyable) (Copyable, bool) {
	dst, ok := t.clones[src]
	return dst, ok
}

// Len returns the number of originals registered in the table.
func (t *Table) Len() int {
	return len(t.clones)
}

// CloneWith deep-clones src through t and returns the clone with src's type.
func CloneWith[T Copyable](t *Table, src T) (T, error) {
	var zero T
	out, err := t.Deep(src)
	if err != nil {
		return zero, err
	}
	clone, ok := out.(T)
	if !ok {
		return zero, fmt.Errorf("deepcopy: clone of %T has type %T: %w", src, out, modelerr.ErrStructuralInvariant)
	}
	return clone, nil
}

// Clone deep-clones a single root with a fresh table.
func Clone[T Copyable](src T) (T, error) {
	return CloneWith(NewTable(), src)
}

// CloneAll deep-clones several roots through one table, so sharing between
// the roots is preserved in the result.
func CloneAll(roots ...Copyable) ([]Copyable, error) {
	t := NewTable()
	out := make([]Copyable, len(roots))
	for i, root := range roots {
		clone, err := t.Deep(root)
		if err != nil {
			return nil, err
		}
		out[i] = clone
	}
	return out, nil
}

// Broken builds the error a CloneDeepInto implementation returns when the
// original is inconsistent.
func Broken(format string, args ...any) error {
	return fmt.Errorf("deepcopy: %s: %w", fmt.Sprintf(format, args...), modelerr.ErrStructuralInvariant)
}

// Mismatch builds the error returned when dst is not of the expected type.
func Mismatch(want string, dst Copyable) error {
	return fmt.Errorf("deepcopy: destination is %T, want %s: %w", dst, want, modelerr.ErrStructuralInvariant)
}
