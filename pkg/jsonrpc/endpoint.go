package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"

	"walletlink/pkg/transport"
)

// ErrDisconnected is returned for calls made without a live session and for
// calls still in flight when the session ends.
var ErrDisconnected = errors.New("rpc session disconnected")

// Handler serves one inbound call from the peer. Returning an *Error sends
// it verbatim; any other error is reported as an internal error.
type Handler func(ctx context.Context, params json.RawMessage) (json.RawMessage, error)

// Stats counts endpoint activity. All fields are atomic and safe to read
// while the session is live.
type Stats struct {
	CallsTotal         atomic.Int64
	CallErrorsTotal    atomic.Int64
	NotificationsSent  atomic.Int64
	MessagesSent       atomic.Int64
	MessagesRecv       atomic.Int64
	UnmatchedResponses atomic.Int64
}

type settlement struct {
	result json.RawMessage
	err    error
}

// Endpoint is one side of a JSON-RPC session. It owns the id space for its
// outbound calls and keeps a pending table mapping each in-flight id to the
// goroutine waiting on it.
//
// An Endpoint is single-use: Connect once, Close once. Reconnecting means
// building a new Endpoint so that a stale response from the old link can
// never settle a call on the new one.
type Endpoint struct {
	transport transport.Transport
	logger    *slog.Logger
	session   string

	handlersMu sync.RWMutex
	handlers   map[string]Handler

	mu      sync.Mutex
	pending map[uint64]chan settlement
	started bool
	closed  bool

	nextID atomic.Uint64
	stats  Stats
}

// Option configures an Endpoint.
type Option func(*Endpoint)

// WithLogger sets a custom slog.Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Endpoint) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Connect builds an endpoint over tr and establishes the session in one
// step. The transport must not be connected yet.
func Connect(ctx context.Context, tr transport.Transport, opts ...Option) (*Endpoint, error) {
	e := NewEndpoint(tr, opts...)
	if err := e.Connect(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

// NewEndpoint creates an endpoint over tr. The transport must not be
// connected yet; Connect wires the inbound handler before establishing it.
func NewEndpoint(tr transport.Transport, opts ...Option) *Endpoint {
	e := &Endpoint{
		transport: tr,
		logger:    slog.Default(),
		session:   newSessionID(time.Now()),
		handlers:  make(map[string]Handler),
		pending:   make(map[uint64]chan settlement),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func newSessionID(t time.Time) string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// SessionID returns the identifier stamped on this session's log lines.
func (e *Endpoint) SessionID() string { return e.session }

// Stats returns the endpoint's live counters.
func (e *Endpoint) Stats() *Stats { return &e.stats }

// Handle registers handler for inbound calls of method. Safe to call
// concurrently with a live session; a later registration replaces an
// earlier one.
func (e *Endpoint) Handle(method string, handler Handler) {
	e.handlersMu.Lock()
	e.handlers[method] = handler
	e.handlersMu.Unlock()
	e.logger.Debug("rpc handler registered", "method", method)
}

// Connect installs the dispatcher on the transport and establishes it. The
// dispatcher goes in first so a host that talks immediately cannot race a
// message past us.
func (e *Endpoint) Connect(ctx context.Context) error {
	e.mu.Lock()
	if e.started {
		e.mu.Unlock()
		return errors.New("jsonrpc: endpoint already started")
	}
	e.started = true
	e.mu.Unlock()

	e.transport.SetHandler(e.dispatch)
	if notifier, ok := e.transport.(interface{ SetCloseHandler(func(error)) }); ok {
		notifier.SetCloseHandler(func(err error) { e.fail(err) })
	}

	if err := e.transport.Connect(ctx); err != nil {
		return fmt.Errorf("jsonrpc connect: %w", err)
	}

	e.logger.Info("rpc session established", "session", e.session)
	return nil
}

// Close tears the session down. Every call still in flight is rejected with
// ErrDisconnected.
func (e *Endpoint) Close(ctx context.Context) error {
	err := e.transport.Disconnect(ctx)
	e.fail(nil)
	e.logger.Info("rpc session closed", "session", e.session)
	if err != nil {
		return fmt.Errorf("jsonrpc close: %w", err)
	}
	return nil
}

// fail marks the session dead and settles all pending calls with
// ErrDisconnected, annotated with cause when there is one.
func (e *Endpoint) fail(cause error) {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	pending := e.pending
	e.pending = make(map[uint64]chan settlement)
	e.mu.Unlock()

	errOut := error(ErrDisconnected)
	if cause != nil {
		errOut = fmt.Errorf("%w: %v", ErrDisconnected, cause)
	}
	for _, ch := range pending {
		ch <- settlement{err: errOut}
	}
	if len(pending) > 0 {
		e.logger.Warn("rpc session ended with calls in flight",
			"session", e.session, "rejected", len(pending))
	}
}

// Call sends a request for method and blocks until the matching response
// arrives, ctx ends, or the session closes. A failure reported by the peer
// comes back as an *Error.
func (e *Endpoint) Call(ctx context.Context, method string, params any) (json.RawMessage, error) {
	raw, err := marshalParams(params)
	if err != nil {
		return nil, fmt.Errorf("jsonrpc %s: %w", method, err)
	}

	e.mu.Lock()
	if e.closed || !e.started {
		e.mu.Unlock()
		return nil, ErrDisconnected
	}
	id := e.nextID.Add(1)
	ch := make(chan settlement, 1)
	e.pending[id] = ch
	e.mu.Unlock()

	payload, err := json.Marshal(Request{JSONRPC: Version, ID: &id, Method: method, Params: raw})
	if err != nil {
		e.forget(id)
		return nil, fmt.Errorf("jsonrpc %s: marshal request: %w", method, err)
	}

	e.stats.CallsTotal.Add(1)
	start := time.Now()
	e.logger.Info("rpc call", "session", e.session, "id", id, "method", method)

	if err := e.transport.Send(ctx, payload); err != nil {
		e.forget(id)
		e.stats.CallErrorsTotal.Add(1)
		e.logger.Warn("rpc call send failed",
			"session", e.session, "id", id, "method", method, "error", err)
		return nil, fmt.Errorf("jsonrpc %s: send: %w", method, err)
	}
	e.stats.MessagesSent.Add(1)

	select {
	case s := <-ch:
		if s.err != nil {
			e.stats.CallErrorsTotal.Add(1)
			e.logger.Warn("rpc call failed",
				"session", e.session, "id", id, "method", method,
				"elapsed", time.Since(start), "error", s.err)
			return nil, s.err
		}
		e.logger.Info("rpc call done",
			"session", e.session, "id", id, "method", method,
			"elapsed", time.Since(start))
		return s.result, nil
	case <-ctx.Done():
		e.forget(id)
		e.stats.CallErrorsTotal.Add(1)
		e.logger.Warn("rpc call abandoned",
			"session", e.session, "id", id, "method", method, "error", ctx.Err())
		return nil, ctx.Err()
	}
}

// Notify sends a fire-and-forget notification. Nothing is correlated and no
// response will come back.
func (e *Endpoint) Notify(ctx context.Context, method string, params any) error {
	raw, err := marshalParams(params)
	if err != nil {
		return fmt.Errorf("jsonrpc %s: %w", method, err)
	}

	e.mu.Lock()
	dead := e.closed || !e.started
	e.mu.Unlock()
	if dead {
		return ErrDisconnected
	}

	payload, err := json.Marshal(Request{JSONRPC: Version, Method: method, Params: raw})
	if err != nil {
		return fmt.Errorf("jsonrpc %s: marshal request: %w", method, err)
	}
	if err := e.transport.Send(ctx, payload); err != nil {
		return fmt.Errorf("jsonrpc %s: send: %w", method, err)
	}
	e.stats.MessagesSent.Add(1)
	e.stats.NotificationsSent.Add(1)
	e.logger.Debug("rpc notify", "session", e.session, "method", method)
	return nil
}

func marshalParams(params any) (json.RawMessage, error) {
	if params == nil {
		return nil, nil
	}
	data, err := json.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("marshal params: %w", err)
	}
	return data, nil
}

// forget abandons a pending call. A response that later arrives for id is
// treated as unmatched.
func (e *Endpoint) forget(id uint64) {
	e.mu.Lock()
	delete(e.pending, id)
	e.mu.Unlock()
}

// dispatch classifies one inbound payload and routes it. It runs on the
// transport's receive goroutine, so anything slow is pushed onto its own
// goroutine.
func (e *Endpoint) dispatch(ctx context.Context, payload []byte) error {
	e.stats.MessagesRecv.Add(1)

	var env envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		e.logger.Warn("rpc: malformed message", "session", e.session, "error", err)
		e.respond(ctx, &Response{JSONRPC: Version, Error: &Error{Code: CodeParse, Message: "parse error"}})
		return nil
	}

	switch {
	case env.Method != "":
		e.handleInbound(ctx, &env)
	case env.ID != nil:
		e.settle(&env)
	default:
		e.logger.Warn("rpc: message is neither request nor response", "session", e.session)
		e.respond(ctx, &Response{JSONRPC: Version, Error: &Error{Code: CodeInvalidRequest, Message: "invalid request"}})
	}
	return nil
}

// settle delivers a response to the goroutine waiting on its id. Responses
// for ids we are not waiting on are counted and dropped.
func (e *Endpoint) settle(env *envelope) {
	id := *env.ID

	e.mu.Lock()
	ch, ok := e.pending[id]
	if ok {
		delete(e.pending, id)
	}
	e.mu.Unlock()

	if !ok {
		e.stats.UnmatchedResponses.Add(1)
		e.logger.Warn("rpc: unmatched response dropped", "session", e.session, "id", id)
		return
	}

	if env.Error != nil {
		ch <- settlement{err: env.Error}
		return
	}
	ch <- settlement{result: env.Result}
}

func (e *Endpoint) handleInbound(ctx context.Context, env *envelope) {
	if env.JSONRPC != Version {
		e.logger.Warn("rpc: bad protocol version", "session", e.session, "version", env.JSONRPC)
		if env.ID != nil {
			e.respond(ctx, &Response{JSONRPC: Version, ID: env.ID, Error: &Error{Code: CodeInvalidRequest, Message: "invalid request"}})
		}
		return
	}

	e.handlersMu.RLock()
	handler, ok := e.handlers[env.Method]
	e.handlersMu.RUnlock()
	if !ok {
		e.logger.Warn("rpc: method not found", "session", e.session, "method", env.Method)
		if env.ID != nil {
			e.respond(ctx, &Response{JSONRPC: Version, ID: env.ID, Error: &Error{
				Code:    CodeMethodNotFound,
				Message: fmt.Sprintf("method %q not found", env.Method),
			}})
		}
		return
	}

	// Notifications get no response, even on failure.
	if env.ID == nil {
		if _, err := handler(ctx, env.Params); err != nil {
			e.logger.Warn("rpc: notification handler failed",
				"session", e.session, "method", env.Method, "error", err)
		}
		return
	}

	go e.serveCall(ctx, env.ID, env.Method, env.Params, handler)
}

func (e *Endpoint) serveCall(ctx context.Context, id *uint64, method string, params json.RawMessage, handler Handler) {
	result, err := handler(ctx, params)
	if err != nil {
		var rpcErr *Error
		if !errors.As(err, &rpcErr) {
			rpcErr = &Error{Code: CodeInternal, Message: err.Error()}
		}
		e.logger.Debug("rpc inbound call failed",
			"session", e.session, "id", *id, "method", method, "error", err)
		e.respond(ctx, &Response{JSONRPC: Version, ID: id, Error: rpcErr})
		return
	}
	e.respond(ctx, &Response{JSONRPC: Version, ID: id, Result: result})
}

func (e *Endpoint) respond(ctx context.Context, resp *Response) {
	payload, err := json.Marshal(resp)
	if err != nil {
		e.logger.Error("rpc: marshal response", "session", e.session, "error", err)
		return
	}
	if err := e.transport.Send(ctx, payload); err != nil {
		e.logger.Warn("rpc: send response failed", "session", e.session, "error", err)
		return
	}
	e.stats.MessagesSent.Add(1)
}
