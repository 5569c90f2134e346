// Package graphwireclient implements the client half of the transaction
// bridge (spec §4.5): dial once, open a Stream bound to one account, then
// serialize request/response pairs over it one at a time.
//
// Grounded on the teacher corpus's MrWong99-glyphoxa session pattern: one
// *websocket.Conn, context-scoped lifetime, and a mutex enforcing a single
// in-flight request, rather than a generic RPC framework.
package graphwireclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/coder/websocket"

	"github.com/graphbeacon/graphbeacon/pkg/gmodel"
	"github.com/graphbeacon/graphbeacon/pkg/graphwire"
)

// Client dials a graphwire server and opens Streams against it.
type Client struct {
	baseURL string
}

// New returns a Client targeting baseURL, e.g. "ws://localhost:8080".
func New(baseURL string) *Client {
	return &Client{baseURL: baseURL}
}

// Ping calls the server's unary readiness endpoint over plain HTTP(S),
// translating the ws(s):// base URL to http(s):// for this one call.
func (c *Client) Ping(ctx context.Context) (bool, error) {
	httpURL, err := pingURL(c.baseURL)
	if err != nil {
		return false, fmt.Errorf("graphwireclient: ping: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, httpURL, nil)
	if err != nil {
		return false, fmt.Errorf("graphwireclient: ping: %w", err)
	}

	httpResp, err := http.DefaultClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("graphwireclient: ping: %w", err)
	}
	defer httpResp.Body.Close()

	var resp graphwire.PingResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return false, fmt.Errorf("graphwireclient: ping: decode: %w", err)
	}
	return resp.OK, nil
}

// Transaction dials the transaction endpoint, authenticating as accountID,
// and returns a Stream bound to the resulting server-side transaction.
func (c *Client) Transaction(ctx context.Context, accountID gmodel.UUID, secret string) (*Stream, error) {
	wsURL, err := transactionURL(c.baseURL, accountID, secret)
	if err != nil {
		return nil, fmt.Errorf("graphwireclient: open transaction: %w", err)
	}

	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("graphwireclient: open transaction: dial: %w", err)
	}

	streamCtx, cancel := context.WithCancel(ctx)
	return &Stream{conn: conn, ctx: streamCtx, cancel: cancel}, nil
}

func transactionURL(base string, accountID gmodel.UUID, secret string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	u.Path = "/transaction"
	q := u.Query()
	q.Set("account_id", accountID.String())
	q.Set("secret", secret)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func pingURL(base string) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	}
	u.Path = "/ping"
	return u.String(), nil
}

// Stream is one open transaction stream: requests are sent and responses
// received strictly one at a time, guarded by mu, matching spec §4.5's
// correlation rule that the client must not pipeline concurrent requests.
type Stream struct {
	conn   *websocket.Conn
	ctx    context.Context
	cancel context.CancelFunc

	mu     sync.Mutex
	closed bool
}

// Do sends req and waits for the corresponding response. Only one Do call
// may be in flight on a Stream at a time; concurrent callers block on mu.
func (s *Stream) Do(req *graphwire.TransactionRequest) (*graphwire.TransactionResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil, fmt.Errorf("graphwireclient: stream closed: %w", graphwire.ErrTransport)
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("graphwireclient: marshal request: %w", err)
	}

	if err := s.conn.Write(s.ctx, websocket.MessageText, data); err != nil {
		return nil, fmt.Errorf("graphwireclient: send: %w: %w", graphwire.ErrTransport, err)
	}

	_, raw, err := s.conn.Read(s.ctx)
	if err != nil {
		return nil, fmt.Errorf("graphwireclient: receive: %w: %w", graphwire.ErrTransport, err)
	}

	var resp graphwire.TransactionResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("graphwireclient: decode response: %w: %w", graphwire.ErrDecode, err)
	}
	if resp.Error != nil {
		return &resp, graphwire.ErrorFromEnvelope(resp.Error)
	}

	return &resp, nil
}

// Close cancels the stream's context and closes the underlying connection,
// releasing the server-side transaction goroutine (spec §4.5's "close by
// dropping the client handle").
func (s *Stream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.cancel()
	return s.conn.Close(websocket.StatusNormalClosure, "")
}
