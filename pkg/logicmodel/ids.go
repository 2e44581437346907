package logicmodel

import (
	"cmp"
	"slices"
	"strconv"
	"sync/atomic"
)

// ObjectID identifies a logic-model entity. IDs are never reused while the
// allocator that issued them is alive.
type ObjectID uint64

// NoID marks an entity without identity and a gate without template type.
const NoID ObjectID = 0

func (id ObjectID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDAllocator hands out object IDs.
type IDAllocator interface {
	Next() ObjectID
}

// SequentialIDs issues increasing IDs starting at 1. It is safe to share
// between a model and importers running in other goroutines.
type SequentialIDs struct {
	last atomic.Uint64
}

// NewSequentialIDs creates an allocator whose first ID is 1.
func NewSequentialIDs() *SequentialIDs {
	return &SequentialIDs{}
}

// Next returns a fresh ID.
func (s *SequentialIDs) Next() ObjectID {
	return ObjectID(s.last.Add(1))
}

// Reserve marks id as used so Next never returns it. Importers call it for
// IDs read from external data.
func (s *SequentialIDs) Reserve(id ObjectID) {
	for {
		last := s.last.Load()
		if uint64(id) <= last || s.last.CompareAndSwap(last, uint64(id)) {
			return
		}
	}
}

// identified is the ordering key of logic-model objects.
type identified interface {
	ID() ObjectID
}

func compareByID[T identified](a, b T) int {
	return cmp.Compare(a.ID(), b.ID())
}

func sortedByID[T identified](m map[ObjectID]T) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		out = append(out, v)
	}
	slices.SortFunc(out, compareByID[T])
	return out
}
