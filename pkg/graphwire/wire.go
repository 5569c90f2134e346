// Package graphwire implements the RPC transaction bridge (spec §4.5): a
// long-lived, bidirectional, single-transaction-per-stream protocol layered
// as JSON envelopes over a github.com/coder/websocket connection, plus a
// unary ping handler.
//
// TransactionRequest and TransactionResponse are tagged unions rendered as
// Go structs with a closed set of pointer-typed fields, exactly one of
// which is populated per message — the same shape the teacher's bolt
// package uses for its own closed message-type set, adapted here to JSON
// instead of a binary tag byte since no protobuf/IDL toolchain is available
// to generate the wire format spec.md leaves unspecified beyond this
// message taxonomy.
package graphwire

// TransactionRequest carries exactly one populated field, naming which
// operation to run against the stream's bound Transaction.
type TransactionRequest struct {
	CreateVertex       *CreateVertexRequest       `json:"create_vertex_from_type,omitempty"`
	GetVertices        *GetVerticesRequest        `json:"get_vertices,omitempty"`
	GetVertexCount     *GetVertexCountRequest     `json:"get_vertex_count,omitempty"`
	DeleteVertices     *DeleteVerticesRequest     `json:"delete_vertices,omitempty"`
	CreateEdge         *CreateEdgeRequest         `json:"create_edge,omitempty"`
	GetEdges           *GetEdgesRequest           `json:"get_edges,omitempty"`
	DeleteEdges        *DeleteEdgesRequest        `json:"delete_edges,omitempty"`
	GetEdgeCount       *GetEdgeCountRequest       `json:"get_edge_count,omitempty"`
	GetGlobalMetadata  *GetGlobalMetadataRequest  `json:"get_global_metadata,omitempty"`
	SetGlobalMetadata  *SetGlobalMetadataRequest  `json:"set_global_metadata,omitempty"`
	DelGlobalMetadata  *DelGlobalMetadataRequest  `json:"delete_global_metadata,omitempty"`
	GetAccountMetadata *GetAccountMetadataRequest `json:"get_account_metadata,omitempty"`
	SetAccountMetadata *SetAccountMetadataRequest `json:"set_account_metadata,omitempty"`
	DelAccountMetadata *DelAccountMetadataRequest `json:"delete_account_metadata,omitempty"`
	GetVertexMetadata  *GetVertexMetadataRequest  `json:"get_vertex_metadata,omitempty"`
	SetVertexMetadata  *SetVertexMetadataRequest  `json:"set_vertex_metadata,omitempty"`
	DelVertexMetadata  *DelVertexMetadataRequest  `json:"delete_vertex_metadata,omitempty"`
	GetEdgeMetadata    *GetEdgeMetadataRequest    `json:"get_edge_metadata,omitempty"`
	SetEdgeMetadata    *SetEdgeMetadataRequest    `json:"set_edge_metadata,omitempty"`
	DelEdgeMetadata    *DelEdgeMetadataRequest    `json:"delete_edge_metadata,omitempty"`
	Commit             *CommitRequest             `json:"commit,omitempty"`
	Rollback           *RollbackRequest           `json:"rollback,omitempty"`
}

// TransactionResponse carries exactly one populated field. Error is
// populated instead of any other field when the corresponding operation
// fails logically (spec §4.5's error semantics: the stream stays open).
type TransactionResponse struct {
	OK       *bool          `json:"ok,omitempty"`
	UUID     *string        `json:"uuid,omitempty"`
	Vertices []WireVertex   `json:"vertices,omitempty"`
	Edges    []WireEdge     `json:"edges,omitempty"`
	Count    *uint64        `json:"count,omitempty"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Error    *ErrorEnvelope `json:"error,omitempty"`
}

// ErrorEnvelope round-trips a pkg/graphstore sentinel error across the
// socket by code name (see errorCode/codeToError in errors.go).
type ErrorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// WireVertex is the wire rendering of a gmodel.Vertex: UUID fields are
// hyphenated lowercase strings per spec §6.
type WireVertex struct {
	ID   string `json:"id"`
	Type string `json:"type"`
}

// WireEdgeKey is the wire rendering of a gmodel.EdgeKey.
type WireEdgeKey struct {
	OutboundID string `json:"outbound_id"`
	Type       string `json:"type"`
	InboundID  string `json:"inbound_id"`
}

// WireEdge is the wire rendering of a gmodel.Edge.
type WireEdge struct {
	Key            WireEdgeKey `json:"key"`
	Weight         float64     `json:"weight"`
	UpdateDatetime string      `json:"update_datetime"` // RFC 3339
}

// WireVertexQuery mirrors package gquery's VertexQuery sum type as a tagged
// struct: exactly one of All, ByIDs, Pipe is populated.
type WireVertexQuery struct {
	All   *WireVertexAll   `json:"all,omitempty"`
	ByIDs *WireVertexByIDs `json:"by_ids,omitempty"`
	Pipe  *WireVertexPipe  `json:"pipe,omitempty"`
}

type WireVertexAll struct {
	StartID *string `json:"start_id,omitempty"`
	Limit   uint32  `json:"limit"`
}

type WireVertexByIDs struct {
	IDs []string `json:"ids"`
}

type WireVertexPipe struct {
	EdgeQuery WireEdgeQuery `json:"edge_query"`
	Converter string        `json:"converter"` // "outbound" | "inbound"
	Limit     uint32        `json:"limit"`
}

// WireEdgeQuery mirrors package gquery's EdgeQuery sum type.
type WireEdgeQuery struct {
	ByKeys *WireEdgeByKeys `json:"by_keys,omitempty"`
	Pipe   *WireEdgePipe   `json:"pipe,omitempty"`
}

type WireEdgeByKeys struct {
	Keys []WireEdgeKey `json:"keys"`
}

type WireEdgePipe struct {
	VertexQuery WireVertexQuery `json:"vertex_query"`
	Converter   string          `json:"converter"`
	TypeFilter  *string         `json:"type_filter,omitempty"`
	HighFilter  *string         `json:"high_filter,omitempty"` // RFC 3339
	LowFilter   *string         `json:"low_filter,omitempty"`  // RFC 3339
	Limit       uint32          `json:"limit"`
}

// CreateVertexRequest corresponds to the wire's create_vertex_from_type
// variant (spec §4.5): this core has exactly one vertex creation
// operation, parameterized only by Type, with the server generating the id.
type CreateVertexRequest struct {
	Type string `json:"type"`
}

type GetVerticesRequest struct {
	Query WireVertexQuery `json:"query"`
}

type GetVertexCountRequest struct {
	Query WireVertexQuery `json:"query"`
}

type DeleteVerticesRequest struct {
	Query WireVertexQuery `json:"query"`
}

type CreateEdgeRequest struct {
	Key    WireEdgeKey `json:"key"`
	Weight float64     `json:"weight"`
}

type GetEdgesRequest struct {
	Query WireEdgeQuery `json:"query"`
}

type DeleteEdgesRequest struct {
	Query WireEdgeQuery `json:"query"`
}

type GetEdgeCountRequest struct {
	Query WireEdgeQuery `json:"query"`
}

type GetGlobalMetadataRequest struct {
	Name string `json:"name"`
}

type SetGlobalMetadataRequest struct {
	Name  string `json:"name"`
	Value any    `json:"value"`
}

type DelGlobalMetadataRequest struct {
	Name string `json:"name"`
}

type GetAccountMetadataRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

type SetAccountMetadataRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
	Value     any    `json:"value"`
}

type DelAccountMetadataRequest struct {
	AccountID string `json:"account_id"`
	Name      string `json:"name"`
}

type GetVertexMetadataRequest struct {
	Query WireVertexQuery `json:"query"`
	Name  string          `json:"name"`
}

type SetVertexMetadataRequest struct {
	Query WireVertexQuery `json:"query"`
	Name  string          `json:"name"`
	Value any             `json:"value"`
}

type DelVertexMetadataRequest struct {
	Query WireVertexQuery `json:"query"`
	Name  string          `json:"name"`
}

type GetEdgeMetadataRequest struct {
	Query WireEdgeQuery `json:"query"`
	Name  string        `json:"name"`
}

type SetEdgeMetadataRequest struct {
	Query WireEdgeQuery `json:"query"`
	Name  string        `json:"name"`
	Value any           `json:"value"`
}

type DelEdgeMetadataRequest struct {
	Query WireEdgeQuery `json:"query"`
	Name  string        `json:"name"`
}

type CommitRequest struct{}

type RollbackRequest struct{}

// PingResponse is the unary ping reply (spec §4.5/§6).
type PingResponse struct {
	OK bool `json:"ok"`
}

// boolPtr, uint64Ptr, stringPtr are small helpers for populating the
// pointer-typed envelope fields.
func boolPtr(b bool) *bool       { return &b }
func uint64Ptr(u uint64) *uint64 { return &u }
func stringPtr(s string) *string { return &s }
