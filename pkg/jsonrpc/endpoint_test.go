package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"walletlink/pkg/transport"
)

// --- test doubles ---

// fakeTransport is a scriptable in-memory transport. Outbound payloads land
// in outbox; inbound ones are pushed through deliver.
type fakeTransport struct {
	mu               sync.Mutex
	handler          transport.MessageHandler
	onClose          func(error)
	sendErr          error
	connectErr       error
	handlerAtConnect bool
	outbox           chan []byte
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{outbox: make(chan []byte, 64)}
}

func (f *fakeTransport) Connect(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlerAtConnect = f.handler != nil
	return f.connectErr
}

func (f *fakeTransport) Disconnect(ctx context.Context) error { return nil }

func (f *fakeTransport) Send(ctx context.Context, payload []byte) error {
	f.mu.Lock()
	err := f.sendErr
	f.mu.Unlock()
	if err != nil {
		return err
	}
	f.outbox <- payload
	return nil
}

func (f *fakeTransport) SetHandler(h transport.MessageHandler) {
	f.mu.Lock()
	f.handler = h
	f.mu.Unlock()
}

func (f *fakeTransport) SetCloseHandler(fn func(error)) {
	f.mu.Lock()
	f.onClose = fn
	f.mu.Unlock()
}

func (f *fakeTransport) setSendErr(err error) {
	f.mu.Lock()
	f.sendErr = err
	f.mu.Unlock()
}

// deliver pushes a raw payload through the installed handler, as the real
// transport's receive goroutine would.
func (f *fakeTransport) deliver(t *testing.T, payload string) {
	t.Helper()
	f.mu.Lock()
	h := f.handler
	f.mu.Unlock()
	require.NotNil(t, h, "no handler installed")
	_ = h(context.Background(), []byte(payload))
}

// drop simulates the connection ending without an explicit Disconnect.
func (f *fakeTransport) drop(t *testing.T, err error) {
	t.Helper()
	f.mu.Lock()
	fn := f.onClose
	f.mu.Unlock()
	require.NotNil(t, fn, "no close handler installed")
	fn(err)
}

func (f *fakeTransport) nextRequest(t *testing.T) Request {
	t.Helper()
	var req Request
	select {
	case payload := <-f.outbox:
		require.NoError(t, json.Unmarshal(payload, &req))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound request")
	}
	return req
}

func (f *fakeTransport) nextResponse(t *testing.T) Response {
	t.Helper()
	var resp Response
	select {
	case payload := <-f.outbox:
		require.NoError(t, json.Unmarshal(payload, &resp))
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for outbound response")
	}
	return resp
}

func (f *fakeTransport) respondResult(t *testing.T, id uint64, result string) {
	t.Helper()
	f.deliver(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"result":%s}`, id, result))
}

func (f *fakeTransport) respondError(t *testing.T, id uint64, code int, msg string) {
	t.Helper()
	f.deliver(t, fmt.Sprintf(`{"jsonrpc":"2.0","id":%d,"error":{"code":%d,"message":%q}}`, id, code, msg))
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEndpoint(t *testing.T) (*Endpoint, *fakeTransport) {
	t.Helper()
	f := newFakeTransport()
	ep := NewEndpoint(f, WithLogger(quietLogger()))
	require.NoError(t, ep.Connect(context.Background()))
	t.Cleanup(func() { _ = ep.Close(context.Background()) })
	return ep, f
}

// --- outbound calls ---

func TestCallSettlesWithResult(t *testing.T) {
	ep, f := newTestEndpoint(t)

	type out struct {
		res json.RawMessage
		err error
	}
	done := make(chan out, 1)
	go func() {
		res, err := ep.Call(context.Background(), "account.receive", map[string]string{"accountId": "acc-1"})
		done <- out{res, err}
	}()

	req := f.nextRequest(t)
	require.NotNil(t, req.ID)
	assert.Equal(t, "2.0", req.JSONRPC)
	assert.Equal(t, "account.receive", req.Method)
	assert.JSONEq(t, `{"accountId":"acc-1"}`, string(req.Params))

	f.respondResult(t, *req.ID, `"0xABC"`)

	got := <-done
	require.NoError(t, got.err)
	assert.JSONEq(t, `"0xABC"`, string(got.res))
	assert.Equal(t, int64(1), ep.Stats().CallsTotal.Load())
}

func TestCallCorrelatesShuffledResponses(t *testing.T) {
	ep, f := newTestEndpoint(t)

	const n = 16
	type out struct {
		method string
		res    json.RawMessage
		err    error
	}
	results := make(chan out, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			method := fmt.Sprintf("probe.%d", i)
			res, err := ep.Call(context.Background(), method, nil)
			results <- out{method, res, err}
		}(i)
	}

	reqs := make([]Request, n)
	for i := range reqs {
		reqs[i] = f.nextRequest(t)
	}

	// Settle in reverse arrival order; each caller must still get the
	// response for its own id.
	for i := n - 1; i >= 0; i-- {
		req := reqs[i]
		f.respondResult(t, *req.ID, fmt.Sprintf(`"echo:%s"`, req.Method))
	}

	for i := 0; i < n; i++ {
		got := <-results
		require.NoError(t, got.err)
		assert.JSONEq(t, fmt.Sprintf(`"echo:%s"`, got.method), string(got.res))
	}
}

func TestCallIDsAreUniqueAndIncreasing(t *testing.T) {
	ep, f := newTestEndpoint(t)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = ep.Call(context.Background(), "noop", nil)
		}()
	}

	seen := make(map[uint64]bool)
	for i := 0; i < 5; i++ {
		req := f.nextRequest(t)
		require.NotNil(t, req.ID)
		assert.False(t, seen[*req.ID], "id %d reused", *req.ID)
		seen[*req.ID] = true
		f.respondResult(t, *req.ID, "null")
	}
	wg.Wait()
}

func TestCallPropagatesPeerError(t *testing.T) {
	ep, f := newTestEndpoint(t)

	done := make(chan error, 1)
	go func() {
		_, err := ep.Call(context.Background(), "transaction.sign", nil)
		done <- err
	}()

	req := f.nextRequest(t)
	f.respondError(t, *req.ID, 3, "User denied")

	err := <-done
	require.Error(t, err)
	var rpcErr *Error
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, 3, rpcErr.Code)
	assert.Equal(t, "User denied", rpcErr.Message)
	assert.Equal(t, int64(1), ep.Stats().CallErrorsTotal.Load())
}

func TestCallFailsFastWhenSendFails(t *testing.T) {
	ep, f := newTestEndpoint(t)

	// First call is in flight before the link starts failing.
	type out struct {
		res json.RawMessage
		err error
	}
	first := make(chan out, 1)
	go func() {
		res, err := ep.Call(context.Background(), "account.list", nil)
		first <- out{res, err}
	}()
	req := f.nextRequest(t)

	boom := errors.New("broken pipe")
	f.setSendErr(boom)
	_, err := ep.Call(context.Background(), "currency.list", nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, boom))

	// The failed send affects only its own call; the session survives and
	// the first call still settles.
	f.setSendErr(nil)
	f.respondResult(t, *req.ID, `[{"id":"acc-1"}]`)
	got := <-first
	require.NoError(t, got.err)
	assert.JSONEq(t, `[{"id":"acc-1"}]`, string(got.res))
}

func TestCallBeforeConnect(t *testing.T) {
	ep := NewEndpoint(newFakeTransport(), WithLogger(quietLogger()))
	_, err := ep.Call(context.Background(), "account.list", nil)
	assert.True(t, errors.Is(err, ErrDisconnected))
}

func TestCallContextCancellation(t *testing.T) {
	ep, f := newTestEndpoint(t)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := ep.Call(ctx, "account.request", nil)
		done <- err
	}()

	req := f.nextRequest(t)
	cancel()

	err := <-done
	assert.True(t, errors.Is(err, context.Canceled))

	// The abandoned id is gone from the pending table, so a late response
	// is dropped as unmatched.
	f.respondResult(t, *req.ID, `"late"`)
	assert.Equal(t, int64(1), ep.Stats().UnmatchedResponses.Load())
}

func TestCloseRejectsPendingCalls(t *testing.T) {
	f := newFakeTransport()
	ep := NewEndpoint(f, WithLogger(quietLogger()))
	require.NoError(t, ep.Connect(context.Background()))

	const n = 4
	done := make(chan error, n)
	for i := 0; i < n; i++ {
		go func(i int) {
			_, err := ep.Call(context.Background(), fmt.Sprintf("slow.%d", i), nil)
			done <- err
		}(i)
	}
	for i := 0; i < n; i++ {
		f.nextRequest(t)
	}

	require.NoError(t, ep.Close(context.Background()))

	for i := 0; i < n; i++ {
		err := <-done
		assert.True(t, errors.Is(err, ErrDisconnected), "call %d: %v", i, err)
	}

	// New calls on a closed endpoint fail immediately.
	_, err := ep.Call(context.Background(), "account.list", nil)
	assert.True(t, errors.Is(err, ErrDisconnected))
}

func TestTransportDropRejectsPendingCalls(t *testing.T) {
	ep, f := newTestEndpoint(t)

	done := make(chan error, 1)
	go func() {
		_, err := ep.Call(context.Background(), "transaction.broadcast", nil)
		done <- err
	}()
	f.nextRequest(t)

	f.drop(t, errors.New("connection reset"))

	err := <-done
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDisconnected))
	assert.Contains(t, err.Error(), "connection reset")
	_ = ep
}

// --- inbound traffic ---

func TestUnmatchedResponseDropped(t *testing.T) {
	ep, f := newTestEndpoint(t)

	f.respondResult(t, 999, `"nobody asked"`)
	assert.Equal(t, int64(1), ep.Stats().UnmatchedResponses.Load())
}

func TestInboundCallDispatched(t *testing.T) {
	ep, f := newTestEndpoint(t)

	ep.Handle("device.ping", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return json.RawMessage(`{"pong":true}`), nil
	})

	f.deliver(t, `{"jsonrpc":"2.0","id":7,"method":"device.ping","params":{}}`)

	resp := f.nextResponse(t)
	require.NotNil(t, resp.ID)
	assert.Equal(t, uint64(7), *resp.ID)
	require.Nil(t, resp.Error)
	assert.JSONEq(t, `{"pong":true}`, string(resp.Result))
}

func TestInboundUnknownMethod(t *testing.T) {
	_, f := newTestEndpoint(t)

	f.deliver(t, `{"jsonrpc":"2.0","id":9,"method":"no.such.method"}`)

	resp := f.nextResponse(t)
	require.NotNil(t, resp.ID)
	assert.Equal(t, uint64(9), *resp.ID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeMethodNotFound, resp.Error.Code)
}

func TestInboundNotificationGetsNoResponse(t *testing.T) {
	ep, f := newTestEndpoint(t)

	got := make(chan json.RawMessage, 1)
	ep.Handle("host.event", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		got <- params
		return nil, nil
	})

	f.deliver(t, `{"jsonrpc":"2.0","method":"host.event","params":{"kind":"lock"}}`)

	select {
	case params := <-got:
		assert.JSONEq(t, `{"kind":"lock"}`, string(params))
	case <-time.After(time.Second):
		t.Fatal("handler not invoked")
	}

	select {
	case payload := <-f.outbox:
		t.Fatalf("unexpected response to notification: %s", payload)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestInboundHandlerErrorVerbatim(t *testing.T) {
	ep, f := newTestEndpoint(t)

	ep.Handle("host.guarded", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, &Error{Code: 4001, Message: "denied"}
	})
	f.deliver(t, `{"jsonrpc":"2.0","id":11,"method":"host.guarded"}`)

	resp := f.nextResponse(t)
	require.NotNil(t, resp.Error)
	assert.Equal(t, 4001, resp.Error.Code)
	assert.Equal(t, "denied", resp.Error.Message)
}

func TestInboundHandlerPlainErrorBecomesInternal(t *testing.T) {
	ep, f := newTestEndpoint(t)

	ep.Handle("host.flaky", func(ctx context.Context, params json.RawMessage) (json.RawMessage, error) {
		return nil, errors.New("disk on fire")
	})
	f.deliver(t, `{"jsonrpc":"2.0","id":12,"method":"host.flaky"}`)

	resp := f.nextResponse(t)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeInternal, resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "disk on fire")
}

func TestMalformedPayloadAnsweredWithParseError(t *testing.T) {
	_, f := newTestEndpoint(t)

	f.deliver(t, `{"jsonrpc":"2.0","id":`)

	resp := f.nextResponse(t)
	assert.Nil(t, resp.ID)
	require.NotNil(t, resp.Error)
	assert.Equal(t, CodeParse, resp.Error.Code)
}

func TestNotifySendsWithoutID(t *testing.T) {
	ep, f := newTestEndpoint(t)

	require.NoError(t, ep.Notify(context.Background(), "client.ready", map[string]bool{"ready": true}))

	req := f.nextRequest(t)
	assert.Nil(t, req.ID)
	assert.True(t, req.IsNotification())
	assert.Equal(t, "client.ready", req.Method)
	assert.Equal(t, int64(1), ep.Stats().NotificationsSent.Load())
}

// --- lifecycle ---

func TestConnectInstallsHandlerFirst(t *testing.T) {
	f := newFakeTransport()
	ep := NewEndpoint(f, WithLogger(quietLogger()))
	require.NoError(t, ep.Connect(context.Background()))
	t.Cleanup(func() { _ = ep.Close(context.Background()) })

	assert.True(t, f.handlerAtConnect, "dispatcher must be installed before the transport connects")
}

func TestConnectPropagatesTransportError(t *testing.T) {
	f := newFakeTransport()
	f.connectErr = errors.New("no route to host")
	ep := NewEndpoint(f, WithLogger(quietLogger()))

	err := ep.Connect(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no route to host")
}

func TestSessionIDsDiffer(t *testing.T) {
	a := NewEndpoint(newFakeTransport(), WithLogger(quietLogger()))
	b := NewEndpoint(newFakeTransport(), WithLogger(quietLogger()))
	assert.NotEmpty(t, a.SessionID())
	assert.NotEqual(t, a.SessionID(), b.SessionID())
}
