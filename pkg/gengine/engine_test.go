package gengine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/graphbeacon/graphbeacon/pkg/gindex"
	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

func newTestEngine(t *testing.T) (*Engine, *gindex.VertexIndex, *gindex.EdgeIndex) {
	t.Helper()
	vertices := gindex.NewVertexIndex()
	edges := gindex.NewEdgeIndex()
	return New(vertices, edges), vertices, edges
}

func mustType(t *testing.T, s string) gmodel.Type {
	t.Helper()
	typ, err := gmodel.NewType(s)
	require.NoError(t, err)
	return typ
}

func TestResolveVertices_All(t *testing.T) {
	e, vertices, _ := newTestEngine(t)
	typ := mustType(t, "person")

	var ids []gmodel.UUID
	for i := 0; i < 3; i++ {
		id := gmodel.NewParentUUID()
		ids = append(ids, id)
		vertices.Put(id, gmodel.VertexValue{T: typ})
	}

	results, err := e.ResolveVertices(gquery.VertexAll{Limit: 10})
	require.NoError(t, err)
	assert.Len(t, results, 3)
}

func TestResolveVertices_All_ZeroLimit(t *testing.T) {
	e, vertices, _ := newTestEngine(t)
	vertices.Put(gmodel.NewParentUUID(), gmodel.VertexValue{T: mustType(t, "x")})

	results, err := e.ResolveVertices(gquery.VertexAll{Limit: 0})
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestResolveVertices_ByIDs_SkipsMissing(t *testing.T) {
	e, vertices, _ := newTestEngine(t)
	typ := mustType(t, "person")
	present := gmodel.NewParentUUID()
	vertices.Put(present, gmodel.VertexValue{T: typ})
	missing := gmodel.NewParentUUID()

	results, err := e.ResolveVertices(gquery.VertexByIDs{IDs: []gmodel.UUID{present, missing}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, present, results[0].ID)
}

func TestResolveEdges_ByKeys_SkipsMissing(t *testing.T) {
	e, _, edges := newTestEngine(t)
	weight, _ := gmodel.NewWeight(0.5)
	key := gmodel.NewEdgeKey(gmodel.NewParentUUID(), mustType(t, "knows"), gmodel.NewParentUUID())
	edges.Put(key, gindex.EdgeEntry{Weight: weight, UpdateDatetime: time.Now()})

	missingKey := gmodel.NewEdgeKey(gmodel.NewParentUUID(), mustType(t, "knows"), gmodel.NewParentUUID())

	results, err := e.ResolveEdges(gquery.EdgeByKeys{Keys: []gmodel.EdgeKey{key, missingKey}})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, key, results[0].Key)
}

func TestResolveEdges_OutboundPipe_TypeAndSourceBreak(t *testing.T) {
	e, vertices, edges := newTestEngine(t)
	source := gmodel.NewParentUUID()
	other := gmodel.NewParentUUID()
	vertices.Put(source, gmodel.VertexValue{T: mustType(t, "person")})

	knows := mustType(t, "knows")
	owns := mustType(t, "owns")
	weight, _ := gmodel.NewWeight(0)
	now := time.Now()

	wantKey := gmodel.NewEdgeKey(source, knows, gmodel.NewParentUUID())
	edges.Put(wantKey, gindex.EdgeEntry{Weight: weight, UpdateDatetime: now})
	edges.Put(gmodel.NewEdgeKey(source, owns, gmodel.NewParentUUID()), gindex.EdgeEntry{Weight: weight, UpdateDatetime: now})
	edges.Put(gmodel.NewEdgeKey(other, knows, gmodel.NewParentUUID()), gindex.EdgeEntry{Weight: weight, UpdateDatetime: now})

	q := gquery.EdgePipe{
		VertexQuery: gquery.VertexByIDs{IDs: []gmodel.UUID{source}},
		Converter:   gquery.Outbound,
		TypeFilter:  &knows,
		Limit:       10,
	}

	results, err := e.ResolveEdges(q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, wantKey, results[0].Key)
}

func TestResolveEdges_OutboundPipe_TimestampFilter(t *testing.T) {
	e, vertices, edges := newTestEngine(t)
	source := gmodel.NewParentUUID()
	vertices.Put(source, gmodel.VertexValue{T: mustType(t, "person")})
	knows := mustType(t, "knows")
	weight, _ := gmodel.NewWeight(0)

	early := time.Now().Add(-time.Hour)
	late := time.Now()

	oldKey := gmodel.NewEdgeKey(source, knows, gmodel.NewParentUUID())
	newKey := gmodel.NewEdgeKey(source, knows, gmodel.NewParentUUID())
	edges.Put(oldKey, gindex.EdgeEntry{Weight: weight, UpdateDatetime: early})
	edges.Put(newKey, gindex.EdgeEntry{Weight: weight, UpdateDatetime: late})

	cutoff := late.Add(-time.Minute)
	q := gquery.EdgePipe{
		VertexQuery: gquery.VertexByIDs{IDs: []gmodel.UUID{source}},
		Converter:   gquery.Outbound,
		LowFilter:   &cutoff,
		Limit:       10,
	}

	results, err := e.ResolveEdges(q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, newKey, results[0].Key)
}

func TestResolveEdges_InboundPipe(t *testing.T) {
	e, vertices, edges := newTestEngine(t)
	target := gmodel.NewParentUUID()
	otherTarget := gmodel.NewParentUUID()
	vertices.Put(target, gmodel.VertexValue{T: mustType(t, "person")})
	knows := mustType(t, "knows")
	weight, _ := gmodel.NewWeight(0)

	wantKey := gmodel.NewEdgeKey(gmodel.NewParentUUID(), knows, target)
	edges.Put(wantKey, gindex.EdgeEntry{Weight: weight, UpdateDatetime: time.Now()})
	edges.Put(gmodel.NewEdgeKey(gmodel.NewParentUUID(), knows, otherTarget), gindex.EdgeEntry{Weight: weight, UpdateDatetime: time.Now()})

	q := gquery.EdgePipe{
		VertexQuery: gquery.VertexByIDs{IDs: []gmodel.UUID{target}},
		Converter:   gquery.Inbound,
		Limit:       10,
	}

	results, err := e.ResolveEdges(q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, wantKey, results[0].Key)
}

func TestResolveVertices_Pipe_ProjectsEndpoint(t *testing.T) {
	e, vertices, edges := newTestEngine(t)
	source := gmodel.NewParentUUID()
	target := gmodel.NewParentUUID()
	typ := mustType(t, "person")
	vertices.Put(source, gmodel.VertexValue{T: typ})
	vertices.Put(target, gmodel.VertexValue{T: typ})

	weight, _ := gmodel.NewWeight(0)
	key := gmodel.NewEdgeKey(source, mustType(t, "knows"), target)
	edges.Put(key, gindex.EdgeEntry{Weight: weight, UpdateDatetime: time.Now()})

	q := gquery.VertexPipe{
		EdgeQuery: gquery.EdgeByKeys{Keys: []gmodel.EdgeKey{key}},
		Converter: gquery.Inbound,
		Limit:     10,
	}

	results, err := e.ResolveVertices(q)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, target, results[0].ID)
}
