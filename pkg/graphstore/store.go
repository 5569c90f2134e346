// Package graphstore implements the transaction façade (C5) and datastore
// (C6) described in spec §4.3–§4.4: a single reader/writer lock guards one
// internal struct holding every index, and Transaction exposes the
// operation surface bound to one account identity.
//
// Lock discipline follows spec §4.3 exactly: every read takes the read lock
// for its duration; every write first resolves its query read-only (taking
// and releasing a read lock), then takes the write lock to mutate. This
// accepts lost-update races across the two lock acquisitions in favor of
// simplicity — the same tradeoff the system this was distilled from makes,
// and the same one the teacher's own MemoryEngine makes by guarding one
// struct with one sync.RWMutex rather than locking per index.
package graphstore

import (
	"sync"

	"github.com/graphbeacon/graphbeacon/pkg/gengine"
	"github.com/graphbeacon/graphbeacon/pkg/gindex"
	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
)

// vertexMetaKey and edgeMetaKey are the composite keys of the vertex and
// edge metadata maps (spec's table: (UUID, name) and (EdgeKey, name)).
type vertexMetaKey struct {
	id   gmodel.UUID
	name string
}

type edgeMetaKey struct {
	key  gmodel.EdgeKey
	name string
}

// store holds every index behind one lock. It is never exposed directly;
// Datastore and Transaction each hold a pointer to one shared instance.
type store struct {
	mu sync.RWMutex

	vertices *gindex.VertexIndex
	edges    *gindex.EdgeIndex

	accounts map[gmodel.UUID]string

	globalMetadata map[string]gmodel.MetadataValue
	accountMeta    map[vertexMetaKey]gmodel.MetadataValue // keyed by (accountID, name)
	vertexMeta     map[vertexMetaKey]gmodel.MetadataValue
	edgeMeta       map[edgeMetaKey]gmodel.MetadataValue
}

func newStore() *store {
	return &store{
		vertices:       gindex.NewVertexIndex(),
		edges:          gindex.NewEdgeIndex(),
		accounts:       make(map[gmodel.UUID]string),
		globalMetadata: make(map[string]gmodel.MetadataValue),
		accountMeta:    make(map[vertexMetaKey]gmodel.MetadataValue),
		vertexMeta:     make(map[vertexMetaKey]gmodel.MetadataValue),
		edgeMeta:       make(map[edgeMetaKey]gmodel.MetadataValue),
	}
}

// engine builds a gengine.Engine reading from this store's indices. Callers
// must hold at least a read lock on s for the lifetime of any call made
// through the returned engine.
func (s *store) engine() *gengine.Engine {
	return gengine.New(s.vertices, s.edges)
}
