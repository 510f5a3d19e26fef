// Package integration exercises the full client stack end to end: facade,
// RPC endpoint, and WebSocket transport against an in-process wallet host.
package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"nhooyr.io/websocket"

	"walletlink/pkg/jsonrpc"
)

// MockHost is a scripted wallet host behind a real WebSocket endpoint. It
// answers client calls with per-method handlers, records every request it
// receives, and can issue its own requests to the connected client.
type MockHost struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	handlers map[string]func(params json.RawMessage) (json.RawMessage, *jsonrpc.Error)
	requests []jsonrpc.Request
	conn     *websocket.Conn
	nextID   uint64
	pending  map[uint64]chan jsonrpc.Response

	writeMu   sync.Mutex
	connOnce  sync.Once
	connected chan struct{}
}

// StartMockHost serves a WebSocket endpoint expecting one client connection.
func StartMockHost(t *testing.T) *MockHost {
	t.Helper()
	h := &MockHost{
		t:         t,
		handlers:  make(map[string]func(json.RawMessage) (json.RawMessage, *jsonrpc.Error)),
		pending:   make(map[uint64]chan jsonrpc.Response),
		connected: make(chan struct{}),
	}
	h.server = httptest.NewServer(http.HandlerFunc(h.accept))
	t.Cleanup(h.server.Close)
	return h
}

// URL returns the host's ws:// endpoint.
func (h *MockHost) URL() string {
	return "ws" + strings.TrimPrefix(h.server.URL, "http")
}

// Handle scripts the host's reply for one method.
func (h *MockHost) Handle(method string, fn func(params json.RawMessage) (json.RawMessage, *jsonrpc.Error)) {
	h.mu.Lock()
	h.handlers[method] = fn
	h.mu.Unlock()
}

// Requests returns every request received so far, in arrival order.
func (h *MockHost) Requests() []jsonrpc.Request {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]jsonrpc.Request, len(h.requests))
	copy(out, h.requests)
	return out
}

// Call sends a host-initiated request to the connected client and waits for
// its response.
func (h *MockHost) Call(ctx context.Context, method string, params json.RawMessage) (json.RawMessage, error) {
	select {
	case <-h.connected:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	h.mu.Lock()
	h.nextID++
	id := h.nextID
	ch := make(chan jsonrpc.Response, 1)
	h.pending[id] = ch
	h.mu.Unlock()

	h.write(jsonrpc.Request{JSONRPC: jsonrpc.Version, ID: &id, Method: method, Params: params})

	select {
	case resp := <-ch:
		if resp.Error != nil {
			return nil, resp.Error
		}
		return resp.Result, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// CloseConn closes the WebSocket from the host side without a client
// Disconnect, the way a crashing host would.
func (h *MockHost) CloseConn() {
	h.mu.Lock()
	ws := h.conn
	h.mu.Unlock()
	if ws != nil {
		ws.Close(websocket.StatusGoingAway, "host shutting down")
	}
}

func (h *MockHost) accept(w http.ResponseWriter, r *http.Request) {
	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{InsecureSkipVerify: true})
	if err != nil {
		h.t.Errorf("mock host accept: %v", err)
		return
	}

	h.mu.Lock()
	h.conn = ws
	h.mu.Unlock()
	h.connOnce.Do(func() { close(h.connected) })

	ctx := r.Context()
	for {
		_, data, err := ws.Read(ctx)
		if err != nil {
			return
		}
		h.dispatch(data)
	}
}

func (h *MockHost) dispatch(data []byte) {
	var probe struct {
		ID     *uint64 `json:"id"`
		Method string  `json:"method"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		h.t.Errorf("mock host: bad frame: %v", err)
		return
	}

	if probe.Method != "" {
		var req jsonrpc.Request
		if err := json.Unmarshal(data, &req); err != nil {
			h.t.Errorf("mock host: bad request: %v", err)
			return
		}
		h.mu.Lock()
		h.requests = append(h.requests, req)
		fn := h.handlers[req.Method]
		h.mu.Unlock()
		if req.ID == nil {
			return
		}
		// Serve each call on its own goroutine so a blocking handler does
		// not stall the read loop.
		go h.reply(req, fn)
		return
	}

	var resp jsonrpc.Response
	if err := json.Unmarshal(data, &resp); err != nil || resp.ID == nil {
		return
	}
	h.mu.Lock()
	ch, ok := h.pending[*resp.ID]
	delete(h.pending, *resp.ID)
	h.mu.Unlock()
	if ok {
		ch <- resp
	}
}

func (h *MockHost) reply(req jsonrpc.Request, fn func(json.RawMessage) (json.RawMessage, *jsonrpc.Error)) {
	resp := jsonrpc.Response{JSONRPC: jsonrpc.Version, ID: req.ID}
	if fn == nil {
		resp.Error = &jsonrpc.Error{Code: jsonrpc.CodeMethodNotFound, Message: "method not found"}
	} else {
		resp.Result, resp.Error = fn(req.Params)
	}
	h.write(resp)
}

func (h *MockHost) write(v any) {
	out, err := json.Marshal(v)
	if err != nil {
		h.t.Errorf("mock host: marshal: %v", err)
		return
	}

	h.mu.Lock()
	ws := h.conn
	h.mu.Unlock()
	if ws == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	h.writeMu.Lock()
	defer h.writeMu.Unlock()
	// A write error means the client went away; tests observe that through
	// their own assertions.
	_ = ws.Write(ctx, websocket.MessageText, out)
}

// SkipIfShort skips end-to-end tests in short mode.
func SkipIfShort(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping end-to-end test in short mode")
	}
}

// NewTestContext creates a context with a deadline for one end-to-end test.
func NewTestContext(t *testing.T, timeout time.Duration) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}
