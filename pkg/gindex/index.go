// Package gindex holds the ordered index set the query engine resolves
// queries against: the vertices index (keyed by UUID) and the edges index
// (keyed by EdgeKey), plus the unordered account and metadata maps.
//
// Indices are implemented as total functions of their key (invariant I4):
// Put always overwrites, there is no separate insert-or-fail path here —
// the ownership and existence checks that spec §4.3 requires live one
// layer up, in package graphstore.
//
// The vertices and edges indices use an ordered red-black tree rather than
// a Go map because the query engine's outbound edge pipe (spec §4.2) must
// seek to a lower bound and then walk forward in key order, breaking out
// as soon as the walk leaves the current source vertex or type group. A
// map cannot support that; gods' redblacktree can.
package gindex

import (
	"time"

	"github.com/emirpasic/gods/trees/redblacktree"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
)

func uuidComparator(a, b interface{}) int {
	return a.(gmodel.UUID).Compare(b.(gmodel.UUID))
}

func edgeKeyComparator(a, b interface{}) int {
	return a.(gmodel.EdgeKey).Compare(b.(gmodel.EdgeKey))
}

// VertexIndex is the ordered `vertices` index: UUID -> VertexValue.
type VertexIndex struct {
	tree *redblacktree.Tree
}

// NewVertexIndex returns an empty vertex index.
func NewVertexIndex() *VertexIndex {
	return &VertexIndex{tree: redblacktree.NewWith(uuidComparator)}
}

// Put inserts or overwrites the value stored at id.
func (idx *VertexIndex) Put(id gmodel.UUID, v gmodel.VertexValue) {
	idx.tree.Put(id, v)
}

// Get returns the value stored at id, if any.
func (idx *VertexIndex) Get(id gmodel.UUID) (gmodel.VertexValue, bool) {
	raw, found := idx.tree.Get(id)
	if !found {
		return gmodel.VertexValue{}, false
	}
	return raw.(gmodel.VertexValue), true
}

// Remove deletes the entry at id, if present.
func (idx *VertexIndex) Remove(id gmodel.UUID) {
	idx.tree.Remove(id)
}

// Contains reports whether id has an entry.
func (idx *VertexIndex) Contains(id gmodel.UUID) bool {
	_, found := idx.tree.Get(id)
	return found
}

// Size returns the number of entries.
func (idx *VertexIndex) Size() int { return idx.tree.Size() }

// VertexEntry is one (id, value) pair yielded during iteration.
type VertexEntry struct {
	ID    gmodel.UUID
	Value gmodel.VertexValue
}

// RangeFrom walks entries in ascending UUID order starting at the smallest
// key >= from (or from the very first entry if from is nil), invoking fn
// for each. Iteration stops early if fn returns false.
func (idx *VertexIndex) RangeFrom(from *gmodel.UUID, fn func(VertexEntry) bool) {
	var it redblacktree.Iterator
	if from != nil {
		node, _ := idx.tree.Ceiling(*from)
		if node == nil {
			return
		}
		it = idx.tree.IteratorAt(node)
	} else {
		it = idx.tree.Iterator()
		if !it.Next() {
			return
		}
	}

	for {
		entry := VertexEntry{ID: it.Key().(gmodel.UUID), Value: it.Value().(gmodel.VertexValue)}
		if !fn(entry) {
			return
		}
		if !it.Next() {
			return
		}
	}
}

// EdgeEntry is the value half of the `edges` index: a weight and the last
// update time.
type EdgeEntry struct {
	Weight         gmodel.Weight
	UpdateDatetime time.Time
}

// EdgeIndex is the ordered `edges` index: EdgeKey -> EdgeEntry.
type EdgeIndex struct {
	tree *redblacktree.Tree
}

// NewEdgeIndex returns an empty edge index.
func NewEdgeIndex() *EdgeIndex {
	return &EdgeIndex{tree: redblacktree.NewWith(edgeKeyComparator)}
}

// Put inserts or overwrites the entry stored at key.
func (idx *EdgeIndex) Put(key gmodel.EdgeKey, entry EdgeEntry) {
	idx.tree.Put(key, entry)
}

// Get returns the entry stored at key, if any.
func (idx *EdgeIndex) Get(key gmodel.EdgeKey) (EdgeEntry, bool) {
	raw, found := idx.tree.Get(key)
	if !found {
		return EdgeEntry{}, false
	}
	return raw.(EdgeEntry), true
}

// Remove deletes the entry at key, if present.
func (idx *EdgeIndex) Remove(key gmodel.EdgeKey) {
	idx.tree.Remove(key)
}

// Size returns the number of entries.
func (idx *EdgeIndex) Size() int { return idx.tree.Size() }

// EdgeEntryPair is one (key, entry) pair yielded during iteration.
type EdgeEntryPair struct {
	Key   gmodel.EdgeKey
	Entry EdgeEntry
}

// RangeFromCeiling walks entries in ascending EdgeKey order starting at the
// smallest key >= lowerBound, invoking fn for each. Iteration stops early
// if fn returns false. This is the primitive the outbound edge pipe (see
// gengine) builds its break conditions on top of.
func (idx *EdgeIndex) RangeFromCeiling(lowerBound gmodel.EdgeKey, fn func(EdgeEntryPair) bool) {
	node, _ := idx.tree.Ceiling(lowerBound)
	if node == nil {
		return
	}

	it := idx.tree.IteratorAt(node)
	for {
		pair := EdgeEntryPair{Key: it.Key().(gmodel.EdgeKey), Entry: it.Value().(EdgeEntry)}
		if !fn(pair) {
			return
		}
		if !it.Next() {
			return
		}
	}
}

// RangeAll walks every entry in ascending EdgeKey order, invoking fn for
// each. Iteration stops early if fn returns false. This backs the inbound
// edge pipe, which cannot exploit key ordering and must scan everything.
func (idx *EdgeIndex) RangeAll(fn func(EdgeEntryPair) bool) {
	it := idx.tree.Iterator()
	for it.Next() {
		pair := EdgeEntryPair{Key: it.Key().(gmodel.EdgeKey), Entry: it.Value().(EdgeEntry)}
		if !fn(pair) {
			return
		}
	}
}
