// Package gengine implements the query engine: resolving gquery's vertex
// and edge query ASTs into materialized vertex and edge values against the
// ordered index set in package gindex.
//
// The two entry points, ResolveVertices and ResolveEdges, are mutually
// recursive exactly as the query AST is: a VertexPipe resolves its inner
// EdgeQuery, an EdgePipe resolves its inner VertexQuery. Engine holds no
// state of its own beyond a read-only view of the indices; callers (package
// graphstore) are responsible for the locking discipline around each call.
package gengine

import (
	"sync"
	"time"

	"github.com/graphbeacon/graphbeacon/pkg/gindex"
	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

// VertexResult is one resolved (id, value) pair.
type VertexResult struct {
	ID    gmodel.UUID
	Value gmodel.VertexValue
}

// EdgeResult is one resolved (key, weight, timestamp) triple.
type EdgeResult struct {
	Key            gmodel.EdgeKey
	Weight         gmodel.Weight
	UpdateDatetime time.Time
}

// vertexResultPool and edgeResultPool reuse result-slice backing arrays
// across query resolutions, adapted from the teacher's sync.Pool-backed
// row/slice reuse (pkg/pool) to avoid a fresh allocation on every pipe
// evaluation. Callers that need to retain a result past the call that
// produced it must copy it — PutVertexResults/PutEdgeResults return the
// slice to the pool and its contents must not be read afterward.
var vertexResultPool = sync.Pool{
	New: func() any {
		s := make([]VertexResult, 0, 32)
		return &s
	},
}

var edgeResultPool = sync.Pool{
	New: func() any {
		s := make([]EdgeResult, 0, 32)
		return &s
	},
}

func getVertexResults() []VertexResult {
	p := vertexResultPool.Get().(*[]VertexResult)
	return (*p)[:0]
}

// PutVertexResults returns a vertex-result slice to the pool. Its contents
// must not be read after this call.
func PutVertexResults(s []VertexResult) {
	s = s[:0]
	vertexResultPool.Put(&s)
}

func getEdgeResults() []EdgeResult {
	p := edgeResultPool.Get().(*[]EdgeResult)
	return (*p)[:0]
}

// PutEdgeResults returns an edge-result slice to the pool. Its contents
// must not be read after this call.
func PutEdgeResults(s []EdgeResult) {
	s = s[:0]
	edgeResultPool.Put(&s)
}

// Engine resolves query ASTs against a fixed pair of indices.
type Engine struct {
	vertices *gindex.VertexIndex
	edges    *gindex.EdgeIndex
}

// New returns an Engine reading from the given indices. The Engine does not
// own or lock the indices; the caller must hold whatever lock protects them
// for the duration of each Resolve call.
func New(vertices *gindex.VertexIndex, edges *gindex.EdgeIndex) *Engine {
	return &Engine{vertices: vertices, edges: edges}
}

// ResolveVertices executes a VertexQuery, returning resolved (id, value)
// pairs. Error is reserved for propagating a failing recursive sub-query;
// missing ids and filtered-out candidates are silently skipped, per spec.
func (e *Engine) ResolveVertices(q gquery.VertexQuery) ([]VertexResult, error) {
	switch v := q.(type) {
	case gquery.VertexAll:
		return e.resolveVertexAll(v), nil
	case gquery.VertexByIDs:
		return e.resolveVertexByIDs(v), nil
	case gquery.VertexPipe:
		return e.resolveVertexPipe(v)
	default:
		return nil, nil
	}
}

func (e *Engine) resolveVertexAll(q gquery.VertexAll) []VertexResult {
	results := getVertexResults()
	if q.Limit == 0 {
		return results
	}

	e.vertices.RangeFrom(q.StartID, func(entry gindex.VertexEntry) bool {
		results = append(results, VertexResult{ID: entry.ID, Value: entry.Value})
		return uint32(len(results)) < q.Limit
	})
	return results
}

func (e *Engine) resolveVertexByIDs(q gquery.VertexByIDs) []VertexResult {
	results := getVertexResults()
	for _, id := range q.IDs {
		if v, ok := e.vertices.Get(id); ok {
			results = append(results, VertexResult{ID: id, Value: v})
		}
	}
	return results
}

func (e *Engine) resolveVertexPipe(q gquery.VertexPipe) ([]VertexResult, error) {
	edgeResults, err := e.ResolveEdges(q.EdgeQuery)
	if err != nil {
		return nil, err
	}
	defer PutEdgeResults(edgeResults)

	results := getVertexResults()
	if q.Limit == 0 {
		return results, nil
	}

	n := uint32(len(edgeResults))
	if n > q.Limit {
		n = q.Limit
	}

	for i := uint32(0); i < n; i++ {
		key := edgeResults[i].Key
		var id gmodel.UUID
		if q.Converter == gquery.Outbound {
			id = key.OutboundID
		} else {
			id = key.InboundID
		}
		if v, ok := e.vertices.Get(id); ok {
			results = append(results, VertexResult{ID: id, Value: v})
		}
	}
	return results, nil
}

// ResolveEdges executes an EdgeQuery, returning resolved (key, weight,
// timestamp) triples.
func (e *Engine) ResolveEdges(q gquery.EdgeQuery) ([]EdgeResult, error) {
	switch v := q.(type) {
	case gquery.EdgeByKeys:
		return e.resolveEdgeByKeys(v), nil
	case gquery.EdgePipe:
		return e.resolveEdgePipe(v)
	default:
		return nil, nil
	}
}

func (e *Engine) resolveEdgeByKeys(q gquery.EdgeByKeys) []EdgeResult {
	results := getEdgeResults()
	for _, key := range q.Keys {
		if entry, ok := e.edges.Get(key); ok {
			results = append(results, EdgeResult{Key: key, Weight: entry.Weight, UpdateDatetime: entry.UpdateDatetime})
		}
	}
	return results
}

func (e *Engine) resolveEdgePipe(q gquery.EdgePipe) ([]EdgeResult, error) {
	vertexResults, err := e.ResolveVertices(q.VertexQuery)
	if err != nil {
		return nil, err
	}
	defer PutVertexResults(vertexResults)

	if q.Converter == gquery.Outbound {
		return e.resolveEdgePipeOutbound(vertexResults, q), nil
	}
	return e.resolveEdgePipeInbound(vertexResults, q), nil
}

// resolveEdgePipeOutbound implements spec §4.2's outbound pipe: for each
// source vertex in input order, seek to the lower bound
// EdgeKey(v, typeOrEmpty, nilUUID) and walk forward, breaking as soon as
// the source or the type group changes (both are "free" breaks the index's
// ordering gives us), and skipping (not breaking on) timestamp-filtered
// candidates, since timestamps do not participate in key ordering.
func (e *Engine) resolveEdgePipeOutbound(vertices []VertexResult, q gquery.EdgePipe) []EdgeResult {
	results := getEdgeResults()
	if q.Limit == 0 {
		return results
	}

	for _, vr := range vertices {
		v := vr.ID
		lowerType := gmodel.EmptyTypeSentinel()
		if q.TypeFilter != nil {
			lowerType = *q.TypeFilter
		}
		lowerBound := gmodel.NewEdgeKey(v, lowerType, gmodel.NilUUID)

		done := false
		e.edges.RangeFromCeiling(lowerBound, func(pair gindex.EdgeEntryPair) bool {
			if pair.Key.OutboundID.Compare(v) != 0 {
				return false
			}
			if q.TypeFilter != nil && pair.Key.T != *q.TypeFilter {
				return false
			}
			if !passesTimestampFilters(pair.Entry.UpdateDatetime, q.HighFilter, q.LowFilter) {
				return true
			}

			results = append(results, EdgeResult{Key: pair.Key, Weight: pair.Entry.Weight, UpdateDatetime: pair.Entry.UpdateDatetime})
			if uint32(len(results)) == q.Limit {
				done = true
				return false
			}
			return true
		})
		if done {
			break
		}
	}

	return results
}

// resolveEdgePipeInbound implements spec §4.2's inbound pipe: collect
// candidate ids into a set, then scan the entire edges index in key order,
// keeping only edges whose InboundID is a candidate. Ordering does not help
// here, so every filter is a skip (continue), never a break.
func (e *Engine) resolveEdgePipeInbound(vertices []VertexResult, q gquery.EdgePipe) []EdgeResult {
	results := getEdgeResults()
	if q.Limit == 0 {
		return results
	}

	candidates := make(map[gmodel.UUID]struct{}, len(vertices))
	for _, vr := range vertices {
		candidates[vr.ID] = struct{}{}
	}

	e.edges.RangeAll(func(pair gindex.EdgeEntryPair) bool {
		if _, ok := candidates[pair.Key.InboundID]; !ok {
			return true
		}
		if q.TypeFilter != nil && pair.Key.T != *q.TypeFilter {
			return true
		}
		if !passesTimestampFilters(pair.Entry.UpdateDatetime, q.HighFilter, q.LowFilter) {
			return true
		}

		results = append(results, EdgeResult{Key: pair.Key, Weight: pair.Entry.Weight, UpdateDatetime: pair.Entry.UpdateDatetime})
		return uint32(len(results)) < q.Limit
	})

	return results
}

func passesTimestampFilters(ts time.Time, high, low *time.Time) bool {
	if high != nil && ts.After(*high) {
		return false
	}
	if low != nil && ts.Before(*low) {
		return false
	}
	return true
}
