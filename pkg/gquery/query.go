// Package gquery defines the recursive vertex/edge query AST that the
// query engine (package gengine) resolves against the index set.
//
// Two closed sum types exist, each expressed as a marker interface plus a
// set of variant structs — the idiomatic Go rendering of what the system
// this was distilled from expresses as Rust enums. Callers build queries by
// constructing one of the variant structs directly; there is no query
// builder DSL, matching the small, direct construction style the teacher
// corpus uses for its own closed operation-type sets.
package gquery

import (
	"time"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
)

// Converter selects which endpoint of an edge a pipe projects to, or which
// set of incidences of a vertex a pipe gathers.
type Converter int

const (
	// Outbound projects an edge to its OutboundID, or gathers a vertex's
	// outgoing edges.
	Outbound Converter = iota
	// Inbound projects an edge to its InboundID, or gathers a vertex's
	// incoming edges.
	Inbound
)

func (c Converter) String() string {
	switch c {
	case Outbound:
		return "outbound"
	case Inbound:
		return "inbound"
	default:
		return "unknown"
	}
}

// VertexQuery is the closed set of ways to select a list of vertices.
type VertexQuery interface {
	isVertexQuery()
}

// VertexAll is a range scan of the vertices index in ascending UUID order,
// starting at StartID (inclusive) if set, else from the minimum key,
// yielding at most Limit vertices.
type VertexAll struct {
	StartID *gmodel.UUID
	Limit   uint32
}

func (VertexAll) isVertexQuery() {}

// VertexByIDs is a pointwise lookup of specific vertex ids, preserving
// input order. Ids with no corresponding vertex are silently skipped.
type VertexByIDs struct {
	IDs []gmodel.UUID
}

func (VertexByIDs) isVertexQuery() {}

// VertexPipe evaluates EdgeQuery, projects each resulting edge to one
// endpoint via Converter, takes the first Limit projected ids, then
// materializes those as vertices (skipping any that no longer exist).
type VertexPipe struct {
	EdgeQuery EdgeQuery
	Converter Converter
	Limit     uint32
}

func (VertexPipe) isVertexQuery() {}

// EdgeQuery is the closed set of ways to select a list of edges.
type EdgeQuery interface {
	isEdgeQuery()
}

// EdgeByKeys is a pointwise lookup of specific edge keys, preserving input
// order. Keys with no corresponding edge are silently skipped.
type EdgeByKeys struct {
	Keys []gmodel.EdgeKey
}

func (EdgeByKeys) isEdgeQuery() {}

// EdgePipe evaluates VertexQuery to obtain a set of source (Outbound) or
// target (Inbound) vertices, then resolves the edges incident to them,
// subject to an optional type filter and an optional inclusive timestamp
// window [LowFilter, HighFilter], taking at most Limit results.
type EdgePipe struct {
	VertexQuery VertexQuery
	Converter   Converter
	TypeFilter  *gmodel.Type
	HighFilter  *time.Time
	LowFilter   *time.Time
	Limit       uint32
}

func (EdgePipe) isEdgeQuery() {}
