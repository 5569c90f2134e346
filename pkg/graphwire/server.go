package graphwire

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/coder/websocket"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/graphstore"
)

// Server exposes the transaction bridge as an http.Handler: a WebSocket
// upgrade at the transaction path, and a plain unary ping handler. Each
// accepted connection authenticates once (account id + secret passed as
// query parameters, mirroring the teacher corpus's preference for simple,
// explicit request-scoped auth over a bespoke handshake message), opens
// one graphstore.Transaction, and runs it for the connection's lifetime.
type Server struct {
	datastore *graphstore.Datastore
}

// NewServer returns a Server bridging RPC connections to ds.
func NewServer(ds *graphstore.Datastore) *Server {
	return &Server{datastore: ds}
}

// PingHandler answers the unary readiness check (spec §4.5/§6): a plain
// net/http handler independent of the WebSocket upgrade path.
func (s *Server) PingHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(PingResponse{OK: true})
}

// TransactionHandler upgrades the connection to a WebSocket and runs one
// transaction stream to completion.
func (s *Server) TransactionHandler(w http.ResponseWriter, r *http.Request) {
	accountIDStr := r.URL.Query().Get("account_id")
	secret := r.URL.Query().Get("secret")

	accountID, err := gmodel.ParseUUID(accountIDStr)
	if err != nil {
		http.Error(w, "invalid account_id", http.StatusBadRequest)
		return
	}
	if err := s.datastore.Auth(accountID, secret); err != nil {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	txn, err := s.datastore.Transaction(accountID)
	if err != nil {
		http.Error(w, "failed to open transaction", http.StatusInternalServerError)
		return
	}

	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		return
	}
	defer conn.CloseNow()

	ctx := r.Context()
	runTransactionStream(ctx, conn, txn)
}

// runTransactionStream decodes TransactionRequest messages in FIFO order
// and writes back one TransactionResponse per request, until the context
// is cancelled or a transport error occurs. A panic raised by an
// invariant-violation path (graphstore.Transaction.DeleteEdges) is
// recovered here and treated as a transport failure: the stream closes,
// matching §4.5's rule that a transport-level failure terminates the
// stream rather than letting a single request's response describe it.
func runTransactionStream(ctx context.Context, conn *websocket.Conn, txn *graphstore.Transaction) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("graphwire: transaction stream aborted: %v", r)
			conn.Close(websocket.StatusInternalError, "invariant violated")
		}
	}()

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			return
		}

		var req TransactionRequest
		if jsonErr := json.Unmarshal(data, &req); jsonErr != nil {
			writeResponse(ctx, conn, newErrorResponse(fmt.Errorf("graphwire: %w", ErrDecode)))
			continue
		}

		resp := dispatch(txn, &req)
		if !writeResponse(ctx, conn, resp) {
			return
		}
	}
}

func writeResponse(ctx context.Context, conn *websocket.Conn, resp *TransactionResponse) bool {
	data, err := json.Marshal(resp)
	if err != nil {
		return false
	}
	writeCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return conn.Write(writeCtx, websocket.MessageText, data) == nil
}

// dispatch runs exactly one populated request variant against txn and
// builds the corresponding response. Unrecognized/empty requests decode to
// an error response rather than panicking.
func dispatch(txn *graphstore.Transaction, req *TransactionRequest) *TransactionResponse {
	switch {
	case req.CreateVertex != nil:
		t, err := decodeType(req.CreateVertex.Type)
		if err != nil {
			return newErrorResponse(err)
		}
		id, err := txn.CreateVertex(t)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{UUID: stringPtr(id.String())}

	case req.GetVertices != nil:
		q, err := decodeVertexQuery(req.GetVertices.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		vertices, err := txn.GetVertices(q)
		if err != nil {
			return newErrorResponse(err)
		}
		out := make([]WireVertex, len(vertices))
		for i, v := range vertices {
			out[i] = encodeVertex(v)
		}
		return &TransactionResponse{Vertices: out}

	case req.GetVertexCount != nil:
		q, err := decodeVertexQuery(req.GetVertexCount.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		count, err := txn.GetVertexCount(q)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{Count: uint64Ptr(count)}

	case req.DeleteVertices != nil:
		q, err := decodeVertexQuery(req.DeleteVertices.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.DeleteVertices(q); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.CreateEdge != nil:
		key, err := decodeEdgeKey(req.CreateEdge.Key)
		if err != nil {
			return newErrorResponse(err)
		}
		weight, err := gmodel.NewWeight(req.CreateEdge.Weight)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.CreateEdge(key, weight, time.Now().UTC()); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.GetEdges != nil:
		q, err := decodeEdgeQuery(req.GetEdges.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		edges, err := txn.GetEdges(q)
		if err != nil {
			return newErrorResponse(err)
		}
		out := make([]WireEdge, len(edges))
		for i, e := range edges {
			out[i] = encodeEdge(e)
		}
		return &TransactionResponse{Edges: out}

	case req.DeleteEdges != nil:
		q, err := decodeEdgeQuery(req.DeleteEdges.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.DeleteEdges(q); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.GetEdgeCount != nil:
		q, err := decodeEdgeQuery(req.GetEdgeCount.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		count, err := txn.GetEdgeCount(q)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{Count: uint64Ptr(count)}

	case req.GetGlobalMetadata != nil:
		v, err := txn.GetGlobalMetadata(req.GetGlobalMetadata.Name)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{Metadata: map[string]any{req.GetGlobalMetadata.Name: v}}

	case req.SetGlobalMetadata != nil:
		if err := txn.SetGlobalMetadata(req.SetGlobalMetadata.Name, req.SetGlobalMetadata.Value); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.DelGlobalMetadata != nil:
		if err := txn.DeleteGlobalMetadata(req.DelGlobalMetadata.Name); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.GetAccountMetadata != nil:
		id, err := gmodel.ParseUUID(req.GetAccountMetadata.AccountID)
		if err != nil {
			return newErrorResponse(err)
		}
		v, err := txn.GetAccountMetadata(id, req.GetAccountMetadata.Name)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{Metadata: map[string]any{req.GetAccountMetadata.Name: v}}

	case req.SetAccountMetadata != nil:
		id, err := gmodel.ParseUUID(req.SetAccountMetadata.AccountID)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.SetAccountMetadata(id, req.SetAccountMetadata.Name, req.SetAccountMetadata.Value); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.DelAccountMetadata != nil:
		id, err := gmodel.ParseUUID(req.DelAccountMetadata.AccountID)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.DeleteAccountMetadata(id, req.DelAccountMetadata.Name); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.GetVertexMetadata != nil:
		q, err := decodeVertexQuery(req.GetVertexMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		m, err := txn.GetVertexMetadata(q, req.GetVertexMetadata.Name)
		if err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{Metadata: metadataByID(m)}

	case req.SetVertexMetadata != nil:
		q, err := decodeVertexQuery(req.SetVertexMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.SetVertexMetadata(q, req.SetVertexMetadata.Name, req.SetVertexMetadata.Value); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.DelVertexMetadata != nil:
		q, err := decodeVertexQuery(req.DelVertexMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.DeleteVertexMetadata(q, req.DelVertexMetadata.Name); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.GetEdgeMetadata != nil:
		q, err := decodeEdgeQuery(req.GetEdgeMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		m, err := txn.GetEdgeMetadata(q, req.GetEdgeMetadata.Name)
		if err != nil {
			return newErrorResponse(err)
		}
		out := make(map[string]any, len(m))
		for k, v := range m {
			wk := encodeEdgeKey(k)
			out[wk.OutboundID+"/"+wk.Type+"/"+wk.InboundID] = v
		}
		return &TransactionResponse{Metadata: out}

	case req.SetEdgeMetadata != nil:
		q, err := decodeEdgeQuery(req.SetEdgeMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.SetEdgeMetadata(q, req.SetEdgeMetadata.Name, req.SetEdgeMetadata.Value); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.DelEdgeMetadata != nil:
		q, err := decodeEdgeQuery(req.DelEdgeMetadata.Query)
		if err != nil {
			return newErrorResponse(err)
		}
		if err := txn.DeleteEdgeMetadata(q, req.DelEdgeMetadata.Name); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.Commit != nil:
		if err := txn.Commit(); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	case req.Rollback != nil:
		if err := txn.Rollback(); err != nil {
			return newErrorResponse(err)
		}
		return &TransactionResponse{OK: boolPtr(true)}

	default:
		return newErrorResponse(fmt.Errorf("graphwire: empty request: %w", ErrDecode))
	}
}

func metadataByID(m map[gmodel.UUID]gmodel.MetadataValue) map[string]any {
	out := make(map[string]any, len(m))
	for id, v := range m {
		out[id.String()] = v
	}
	return out
}
