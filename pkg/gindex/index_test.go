package gindex

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
)

func TestVertexIndex_PutGetRemove(t *testing.T) {
	idx := NewVertexIndex()
	id := gmodel.NewParentUUID()
	typ, _ := gmodel.NewType("person")
	value := gmodel.VertexValue{OwnerID: id, T: typ}

	_, ok := idx.Get(id)
	assert.False(t, ok)
	assert.False(t, idx.Contains(id))

	idx.Put(id, value)
	got, ok := idx.Get(id)
	require.True(t, ok)
	assert.Equal(t, value, got)
	assert.True(t, idx.Contains(id))
	assert.Equal(t, 1, idx.Size())

	idx.Remove(id)
	_, ok = idx.Get(id)
	assert.False(t, ok)
	assert.Equal(t, 0, idx.Size())
}

func TestVertexIndex_RangeFrom_Ordering(t *testing.T) {
	idx := NewVertexIndex()
	typ, _ := gmodel.NewType("t")

	ids := make([]gmodel.UUID, 5)
	for i := range ids {
		ids[i] = gmodel.NewParentUUID()
		idx.Put(ids[i], gmodel.VertexValue{T: typ})
	}

	var seen []gmodel.UUID
	idx.RangeFrom(nil, func(e VertexEntry) bool {
		seen = append(seen, e.ID)
		return true
	})

	require.Len(t, seen, len(ids))
	for i := 1; i < len(seen); i++ {
		assert.True(t, seen[i-1].Less(seen[i]) || seen[i-1] == seen[i])
	}
}

func TestVertexIndex_RangeFrom_StartIDAndLimit(t *testing.T) {
	idx := NewVertexIndex()
	typ, _ := gmodel.NewType("t")

	var ids []gmodel.UUID
	for i := 0; i < 5; i++ {
		id := gmodel.NewParentUUID()
		ids = append(ids, id)
		idx.Put(id, gmodel.VertexValue{T: typ})
	}

	var all []gmodel.UUID
	idx.RangeFrom(nil, func(e VertexEntry) bool {
		all = append(all, e.ID)
		return true
	})

	start := all[2]
	var fromStart []gmodel.UUID
	idx.RangeFrom(&start, func(e VertexEntry) bool {
		fromStart = append(fromStart, e.ID)
		return true
	})
	assert.Equal(t, all[2:], fromStart)

	var limited []gmodel.UUID
	count := 0
	idx.RangeFrom(nil, func(e VertexEntry) bool {
		limited = append(limited, e.ID)
		count++
		return count < 2
	})
	assert.Len(t, limited, 2)
}

func TestEdgeIndex_PutGetRemove(t *testing.T) {
	idx := NewEdgeIndex()
	key := gmodel.NewEdgeKey(gmodel.NewParentUUID(), gmodel.Type("knows"), gmodel.NewParentUUID())
	weight, _ := gmodel.NewWeight(0.75)
	entry := EdgeEntry{Weight: weight, UpdateDatetime: time.Now()}

	_, ok := idx.Get(key)
	assert.False(t, ok)

	idx.Put(key, entry)
	got, ok := idx.Get(key)
	require.True(t, ok)
	assert.Equal(t, entry.Weight, got.Weight)
	assert.Equal(t, 1, idx.Size())

	idx.Remove(key)
	_, ok = idx.Get(key)
	assert.False(t, ok)
}

func TestEdgeIndex_RangeFromCeiling(t *testing.T) {
	idx := NewEdgeIndex()
	source := gmodel.NewParentUUID()
	weight, _ := gmodel.NewWeight(0)

	typeA, _ := gmodel.NewType("a")
	typeB, _ := gmodel.NewType("b")
	keyA := gmodel.NewEdgeKey(source, typeA, gmodel.NewParentUUID())
	keyB := gmodel.NewEdgeKey(source, typeB, gmodel.NewParentUUID())
	other := gmodel.NewEdgeKey(gmodel.NewParentUUID(), typeA, gmodel.NewParentUUID())

	idx.Put(keyA, EdgeEntry{Weight: weight})
	idx.Put(keyB, EdgeEntry{Weight: weight})
	idx.Put(other, EdgeEntry{Weight: weight})

	lowerBound := gmodel.NewEdgeKey(source, gmodel.EmptyTypeSentinel(), gmodel.NilUUID)
	var seen []gmodel.EdgeKey
	idx.RangeFromCeiling(lowerBound, func(p EdgeEntryPair) bool {
		if p.Key.OutboundID.Compare(source) != 0 {
			return false
		}
		seen = append(seen, p.Key)
		return true
	})

	assert.ElementsMatch(t, []gmodel.EdgeKey{keyA, keyB}, seen)
}

func TestEdgeIndex_RangeAll(t *testing.T) {
	idx := NewEdgeIndex()
	weight, _ := gmodel.NewWeight(0)

	var keys []gmodel.EdgeKey
	for i := 0; i < 4; i++ {
		k := gmodel.NewEdgeKey(gmodel.NewParentUUID(), gmodel.Type("t"), gmodel.NewParentUUID())
		keys = append(keys, k)
		idx.Put(k, EdgeEntry{Weight: weight})
	}

	var seen []gmodel.EdgeKey
	idx.RangeAll(func(p EdgeEntryPair) bool {
		seen = append(seen, p.Key)
		return true
	})
	assert.ElementsMatch(t, keys, seen)
}
