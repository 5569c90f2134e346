package graphstore

import (
	"fmt"
	"time"

	"github.com/graphbeacon/graphbeacon/pkg/gengine"
	"github.com/graphbeacon/graphbeacon/pkg/gindex"
	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/gquery"
)

// Transaction is the operation surface bound to one account identity (spec
// §4.3's "Transaction façade"). Vertex and edge writes check that the
// caller's account owns whatever they mutate; metadata operations carry no
// ownership check at all, by explicit specification. Reads are always
// unrestricted.
//
// Commit is a no-op: the in-memory core applies every mutation immediately,
// so there is nothing left to flush. Rollback is not supported; it returns
// ErrNotImplemented, matching the Rust core this was distilled from, which
// offers no undo log either.
type Transaction struct {
	accountID gmodel.UUID
	store     *store
}

// Commit is a no-op: every Transaction method already applies its effect
// to the shared store immediately.
func (t *Transaction) Commit() error { return nil }

// Rollback is unsupported; the in-memory core keeps no undo log.
func (t *Transaction) Rollback() error { return ErrNotImplemented }

// CreateVertex inserts a new vertex of type typ, owned by the caller's
// account, and returns its id.
func (t *Transaction) CreateVertex(typ gmodel.Type) (gmodel.UUID, error) {
	id := gmodel.NewChildUUID(t.accountID)

	t.store.mu.Lock()
	t.store.vertices.Put(id, gmodel.VertexValue{OwnerID: t.accountID, T: typ})
	t.store.mu.Unlock()

	return id, nil
}

// GetVertices resolves q and returns the matching vertices.
func (t *Transaction) GetVertices(q gquery.VertexQuery) ([]gmodel.Vertex, error) {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveVertices(q)
	t.store.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	defer gengine.PutVertexResults(results)

	out := make([]gmodel.Vertex, len(results))
	for i, r := range results {
		out[i] = gmodel.NewVertex(r.ID, r.Value)
	}
	return out, nil
}

// DeleteVertices resolves q read-only, then removes every matching vertex
// the caller's account owns from the vertices index. Vertices owned by
// another account are silently skipped, matching GetVertices'
// visibility-unrestricted, write-restricted split.
//
// This does not cascade to incident edges or to the vertex's metadata
// (invariant I1): the caller is responsible for deleting incident edges
// first. An edge left dangling after this call will surface as a panic the
// next time DeleteEdges or CreateEdge touches it (see DeleteEdges).
func (t *Transaction) DeleteVertices(q gquery.VertexQuery) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveVertices(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutVertexResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		if r.Value.OwnerID != t.accountID {
			continue
		}
		t.store.vertices.Remove(r.ID)
	}
	return nil
}

// GetVertexCount resolves q and returns the count of matching vertices,
// without materializing a Vertex slice.
func (t *Transaction) GetVertexCount(q gquery.VertexQuery) (uint64, error) {
	vertices, err := t.GetVertices(q)
	if err != nil {
		return 0, err
	}
	return uint64(len(vertices)), nil
}

// CreateEdge inserts or overwrites the edge identified by key with the
// given weight, stamping UpdateDatetime with now. Both endpoint vertices
// must already exist (invariant I1); the outbound vertex must be owned by
// the caller's account.
func (t *Transaction) CreateEdge(key gmodel.EdgeKey, weight gmodel.Weight, now time.Time) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	outbound, ok := t.store.vertices.Get(key.OutboundID)
	if !ok {
		return fmt.Errorf("graphstore: create edge %s->%s: %w", key.OutboundID, key.InboundID, ErrVertexNotFound)
	}
	if !t.store.vertices.Contains(key.InboundID) {
		return fmt.Errorf("graphstore: create edge %s->%s: %w", key.OutboundID, key.InboundID, ErrVertexNotFound)
	}
	if outbound.OwnerID != t.accountID {
		return fmt.Errorf("graphstore: create edge %s->%s: %w", key.OutboundID, key.InboundID, ErrUnauthorized)
	}

	t.store.edges.Put(key, gindex.EdgeEntry{Weight: weight, UpdateDatetime: now})
	return nil
}

// GetEdges resolves q and returns the matching edges.
func (t *Transaction) GetEdges(q gquery.EdgeQuery) ([]gmodel.Edge, error) {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveEdges(q)
	t.store.mu.RUnlock()
	if err != nil {
		return nil, err
	}
	defer gengine.PutEdgeResults(results)

	out := make([]gmodel.Edge, len(results))
	for i, r := range results {
		out[i] = gmodel.Edge{Key: r.Key, Weight: r.Weight, UpdateDatetime: r.UpdateDatetime}
	}
	return out, nil
}

// GetEdgeCount resolves q and returns the count of matching edges, without
// materializing an Edge slice.
func (t *Transaction) GetEdgeCount(q gquery.EdgeQuery) (uint64, error) {
	edges, err := t.GetEdges(q)
	if err != nil {
		return 0, err
	}
	return uint64(len(edges)), nil
}

// DeleteEdges resolves q read-only, then deletes every matching edge whose
// outbound vertex is owned by the caller's account.
//
// If a matching edge's outbound vertex is missing from the vertices index
// at delete time, that violates invariant I1 (an edge cannot outlive both
// of its endpoints under normal operation) and this panics rather than
// silently proceeding — the same abort-on-invariant-violation behavior as
// the reference implementation's `.expect()` on this path.
func (t *Transaction) DeleteEdges(q gquery.EdgeQuery) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveEdges(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutEdgeResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		outbound, ok := t.store.vertices.Get(r.Key.OutboundID)
		if !ok {
			panic(fmt.Sprintf("graphstore: expected vertex %s to exist", r.Key.OutboundID))
		}
		if outbound.OwnerID != t.accountID {
			continue
		}
		t.store.edges.Remove(r.Key)
		removeEdgeMetadataLocked(t.store, r.Key)
	}
	return nil
}

// GetGlobalMetadata returns the value stored under name, if any.
func (t *Transaction) GetGlobalMetadata(name string) (gmodel.MetadataValue, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	v, ok := t.store.globalMetadata[name]
	if !ok {
		return nil, fmt.Errorf("graphstore: get global metadata %q: %w", name, ErrMetadataNotFound)
	}
	return v, nil
}

// SetGlobalMetadata inserts or overwrites the value stored under name.
func (t *Transaction) SetGlobalMetadata(name string, value gmodel.MetadataValue) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	t.store.globalMetadata[name] = value
	return nil
}

// DeleteGlobalMetadata removes the value stored under name.
func (t *Transaction) DeleteGlobalMetadata(name string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, ok := t.store.globalMetadata[name]; !ok {
		return fmt.Errorf("graphstore: delete global metadata %q: %w", name, ErrMetadataNotFound)
	}
	delete(t.store.globalMetadata, name)
	return nil
}

// GetAccountMetadata returns the value stored under name for account id.
func (t *Transaction) GetAccountMetadata(id gmodel.UUID, name string) (gmodel.MetadataValue, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	v, ok := t.store.accountMeta[vertexMetaKey{id: id, name: name}]
	if !ok {
		return nil, fmt.Errorf("graphstore: get account metadata %s/%q: %w", id, name, ErrMetadataNotFound)
	}
	return v, nil
}

// SetAccountMetadata inserts or overwrites the value stored under name for
// account id. No ownership check gates this (spec's metadata operations
// carry no owner restriction); id must merely name an existing account.
func (t *Transaction) SetAccountMetadata(id gmodel.UUID, name string, value gmodel.MetadataValue) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	if _, ok := t.store.accounts[id]; !ok {
		return fmt.Errorf("graphstore: set account metadata %s/%q: %w", id, name, ErrAccountNotFound)
	}
	t.store.accountMeta[vertexMetaKey{id: id, name: name}] = value
	return nil
}

// DeleteAccountMetadata removes the value stored under name for account id.
func (t *Transaction) DeleteAccountMetadata(id gmodel.UUID, name string) error {
	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	key := vertexMetaKey{id: id, name: name}
	if _, ok := t.store.accountMeta[key]; !ok {
		return fmt.Errorf("graphstore: delete account metadata %s/%q: %w", id, name, ErrMetadataNotFound)
	}
	delete(t.store.accountMeta, key)
	return nil
}

// GetVertexMetadata resolves q and returns the value stored under name for
// each resolved vertex that has one, keyed by vertex id. Vertices with no
// entry under name are simply absent from the result, never an error.
func (t *Transaction) GetVertexMetadata(q gquery.VertexQuery, name string) (map[gmodel.UUID]gmodel.MetadataValue, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	results, err := t.store.engine().ResolveVertices(q)
	if err != nil {
		return nil, err
	}
	defer gengine.PutVertexResults(results)

	out := make(map[gmodel.UUID]gmodel.MetadataValue)
	for _, r := range results {
		if v, ok := t.store.vertexMeta[vertexMetaKey{id: r.ID, name: name}]; ok {
			out[r.ID] = v
		}
	}
	return out, nil
}

// SetVertexMetadata resolves q read-only, then upserts value under name for
// every resolved vertex.
func (t *Transaction) SetVertexMetadata(q gquery.VertexQuery, name string, value gmodel.MetadataValue) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveVertices(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutVertexResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		t.store.vertexMeta[vertexMetaKey{id: r.ID, name: name}] = value
	}
	return nil
}

// DeleteVertexMetadata resolves q read-only, then removes the entry under
// name for every resolved vertex that has one.
func (t *Transaction) DeleteVertexMetadata(q gquery.VertexQuery, name string) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveVertices(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutVertexResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		delete(t.store.vertexMeta, vertexMetaKey{id: r.ID, name: name})
	}
	return nil
}

// GetEdgeMetadata resolves q and returns the value stored under name for
// each resolved edge that has one, keyed by EdgeKey.
func (t *Transaction) GetEdgeMetadata(q gquery.EdgeQuery, name string) (map[gmodel.EdgeKey]gmodel.MetadataValue, error) {
	t.store.mu.RLock()
	defer t.store.mu.RUnlock()

	results, err := t.store.engine().ResolveEdges(q)
	if err != nil {
		return nil, err
	}
	defer gengine.PutEdgeResults(results)

	out := make(map[gmodel.EdgeKey]gmodel.MetadataValue)
	for _, r := range results {
		if v, ok := t.store.edgeMeta[edgeMetaKey{key: r.Key, name: name}]; ok {
			out[r.Key] = v
		}
	}
	return out, nil
}

// SetEdgeMetadata resolves q read-only, then upserts value under name for
// every resolved edge.
func (t *Transaction) SetEdgeMetadata(q gquery.EdgeQuery, name string, value gmodel.MetadataValue) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveEdges(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutEdgeResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		t.store.edgeMeta[edgeMetaKey{key: r.Key, name: name}] = value
	}
	return nil
}

// DeleteEdgeMetadata resolves q read-only, then removes the entry under
// name for every resolved edge that has one.
func (t *Transaction) DeleteEdgeMetadata(q gquery.EdgeQuery, name string) error {
	t.store.mu.RLock()
	results, err := t.store.engine().ResolveEdges(q)
	t.store.mu.RUnlock()
	if err != nil {
		return err
	}
	defer gengine.PutEdgeResults(results)

	t.store.mu.Lock()
	defer t.store.mu.Unlock()

	for _, r := range results {
		delete(t.store.edgeMeta, edgeMetaKey{key: r.Key, name: name})
	}
	return nil
}

// removeEdgeMetadataLocked deletes every metadata entry belonging to the
// edge identified by key. The caller must already hold the store's write
// lock. Used by DeleteEdges, which removes the edge itself (not a
// vertex-delete cascade, which this core deliberately does not perform).
func removeEdgeMetadataLocked(s *store, key gmodel.EdgeKey) {
	for k := range s.edgeMeta {
		if k.key == key {
			delete(s.edgeMeta, k)
		}
	}
}
