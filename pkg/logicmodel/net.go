package logicmodel

import (
	"fmt"

	"github.com/OpenTraceLab/OpenTraceDegate/pkg/deepcopy"
	"github.com/OpenTraceLab/OpenTraceDegate/pkg/modelerr"
)

// Net is a set of electrically connected objects. Membership is kept on
// both sides: every member's Net points back to the net.
type Net struct {
	Object

	members map[ObjectID]Connectable
}

// NewNet creates an empty net.
func NewNet() *Net {
	return &Net{members: make(map[ObjectID]Connectable)}
}

// Add makes obj a member. An object that belongs to another net is moved.
func (n *Net) Add(obj Connectable) error {
	if obj == nil {
		return fmt.Errorf("net %d: add nil object: %w", n.ID(), modelerr.ErrInvalidReference)
	}
	if !obj.HasValidID() {
		return fmt.Errorf("net %d: add object without id: %w", n.ID(), modelerr.ErrInvalidReference)
	}
	if other, ok := n.members[obj.ID()]; ok && other != obj {
		return fmt.Errorf("net %d: object id %d already in use: %w", n.ID(), obj.ID(), modelerr.ErrDuplicateIdentity)
	}

	if prev := obj.Net(); prev != nil && prev != n {
		delete(prev.members, obj.ID())
	}
	n.members[obj.ID()] = obj
	obj.setNet(n)
	return nil
}

// Remove drops obj from the net and clears its membership.
func (n *Net) Remove(obj Connectable) error {
	if obj == nil {
		return fmt.Errorf("net %d: remove nil object: %w", n.ID(), modelerr.ErrInvalidReference)
	}
	if member, ok := n.members[obj.ID()]; !ok || member != obj {
		return fmt.Errorf("net %d: object %d is not a member: %w", n.ID(), obj.ID(), modelerr.ErrLookupFailure)
	}
	delete(n.members, obj.ID())
	obj.setNet(nil)
	return nil
}

// detach clears obj's membership in its net. If the net does not list obj
// the link is still cleared and the broken back-reference is reported.
func detach(obj Connectable) error {
	n := obj.Net()
	if n == nil {
		return nil
	}
	if err := n.Remove(obj); err != nil {
		obj.setNet(nil)
		return fmt.Errorf("%w: %w", modelerr.ErrStructuralInvariant, err)
	}
	return nil
}

// Contains reports whether an object with the given ID is a member.
func (n *Net) Contains(id ObjectID) bool {
	_, ok := n.members[id]
	return ok
}

// Members returns the members ordered by ID.
func (n *Net) Members() []Connectable {
	return sortedByID(n.members)
}

// MemberIDs returns the member IDs in ascending order.
func (n *Net) MemberIDs() []ObjectID {
	members := n.Members()
	ids := make([]ObjectID, len(members))
	for i, m := range members {
		ids[i] = m.ID()
	}
	return ids
}

// Size returns the number of members.
func (n *Net) Size() int { return len(n.members) }

func (n *Net) DescriptiveIdentifier() string {
	if n.Name() != "" {
		return n.Name()
	}
	return fmt.Sprintf("net %d", n.ID())
}

func (n *Net) ObjectTypeName() string { return "Net" }

func (n *Net) CloneShallow() deepcopy.Copyable {
	return &Net{Object: n.Object, members: make(map[ObjectID]Connectable, len(n.members))}
}

func (n *Net) CloneDeepInto(dst deepcopy.Copyable, t *deepcopy.Table) error {
	clone, ok := dst.(*Net)
	if !ok {
		return deepcopy.Mismatch("*Net", dst)
	}
	for _, m := range n.Members() {
		if m.Net() != n {
			return deepcopy.Broken("net %d: member %d points to another net", n.ID(), m.ID())
		}
		c, err := t.Deep(m)
		if err != nil {
			return err
		}
		member, ok := c.(Connectable)
		if !ok {
			return deepcopy.Mismatch("Connectable", c)
		}
		clone.members[member.ID()] = member
	}
	return nil
}
