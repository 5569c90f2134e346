package gmodel

import (
	"errors"
	"time"
)

// Common value-domain errors (spec §7's OutOfRange taxonomy member).
var (
	// ErrEmptyType is returned by NewType when given the empty string.
	ErrEmptyType = errors.New("gmodel: type must not be empty")
	// ErrWeightOutOfRange is returned by NewWeight when given a value
	// outside [-1.0, 1.0].
	ErrWeightOutOfRange = errors.New("gmodel: weight must be in [-1.0, 1.0]")
)

// Type is a non-empty string tag identifying the kind of a vertex or the
// relationship an edge represents. The zero value cannot be constructed by
// callers through NewType; the only exception is the unexported empty-type
// sentinel used internally to build outbound range-scan lower bounds (see
// gengine), which must never escape this module's public API.
type Type string

// NewType constructs a Type, rejecting the empty string (invariant I2).
func NewType(s string) (Type, error) {
	if s == "" {
		return "", ErrEmptyType
	}
	return Type(s), nil
}

// emptyTypeSentinel is the internal-only empty Type used to build the
// lower bound of an outbound edge range scan when no type filter is given.
// It must never be constructed via NewType, never returned from a public
// accessor, and never accepted as an argument other than internally within
// gengine's lower-bound construction.
const emptyTypeSentinel Type = ""

// EmptyTypeSentinel returns the internal empty-Type sentinel for use only by
// the query engine's outbound range-scan lower-bound construction. It is
// exported because gengine lives in a separate package, but it is not part
// of the data model's public construction surface (NewType still rejects
// the empty string for every other caller).
func EmptyTypeSentinel() Type { return emptyTypeSentinel }

// Weight is a finite real number in [-1.0, 1.0] attached to an edge.
type Weight float64

// NewWeight constructs a Weight, rejecting values outside [-1.0, 1.0].
func NewWeight(w float64) (Weight, error) {
	if w < -1.0 || w > 1.0 {
		return 0, ErrWeightOutOfRange
	}
	return Weight(w), nil
}

// Float64 returns the underlying value.
func (w Weight) Float64() float64 { return float64(w) }

// EdgeKey is the triple (OutboundID, T, InboundID) identifying an edge.
// EdgeKeys are ordered lexicographically in that field order, which the
// query engine's outbound pipe relies on for its range-scan break
// conditions (see gengine).
type EdgeKey struct {
	OutboundID UUID
	T          Type
	InboundID  UUID
}

// NewEdgeKey constructs an EdgeKey from its three fields.
func NewEdgeKey(outboundID UUID, t Type, inboundID UUID) EdgeKey {
	return EdgeKey{OutboundID: outboundID, T: t, InboundID: inboundID}
}

// Compare returns -1, 0, or 1 comparing k to other field-by-field in
// declaration order: OutboundID, then T, then InboundID.
func (k EdgeKey) Compare(other EdgeKey) int {
	if c := k.OutboundID.Compare(other.OutboundID); c != 0 {
		return c
	}
	if k.T != other.T {
		if k.T < other.T {
			return -1
		}
		return 1
	}
	return k.InboundID.Compare(other.InboundID)
}

// Less reports whether k sorts strictly before other.
func (k EdgeKey) Less(other EdgeKey) bool { return k.Compare(other) < 0 }

// VertexValue is the internal storage form of a vertex: its owning account
// and its type. The outward form, Vertex, additionally carries the id.
type VertexValue struct {
	OwnerID UUID
	T       Type
}

// Vertex is the outward-materialized form of a graph node.
type Vertex struct {
	ID UUID
	T  Type
}

// NewVertex builds the outward Vertex form from an id and a VertexValue.
func NewVertex(id UUID, v VertexValue) Vertex {
	return Vertex{ID: id, T: v.T}
}

// Edge is a directed, typed, weighted link between two vertices, with the
// time it was last created or updated.
type Edge struct {
	Key            EdgeKey
	Weight         Weight
	UpdateDatetime time.Time
}

// Account is an authorization principal: a UUID plus a secret. Secret is
// never serialized to JSON so that a read path can never accidentally leak
// it (invariant I3: the secret is returned only from account creation).
type Account struct {
	ID     UUID
	Secret string `json:"-"`
}

// MetadataValue is an arbitrary JSON-shaped dynamic value, stored and
// retrieved verbatim by the metadata operations in package graphstore.
type MetadataValue = any
