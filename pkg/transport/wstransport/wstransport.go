// Package wstransport implements the transport contract over a WebSocket
// connection to a wallet host.
package wstransport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"nhooyr.io/websocket"

	"walletlink/pkg/transport"
)

const (
	sendBuffer   = 64
	writeTimeout = 5 * time.Second
)

// Option configures a Transport.
type Option func(*Transport)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transport) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithOrigin sets the Origin header sent on the opening handshake. Hosts
// that whitelist callers typically require it.
func WithOrigin(origin string) Option {
	return func(t *Transport) { t.origin = origin }
}

// Transport is a WebSocket-backed transport. Outbound payloads go through a
// buffered queue drained by a write goroutine; inbound payloads are read on
// a dedicated goroutine and passed to the installed handler.
type Transport struct {
	url    string
	logger *slog.Logger
	origin string

	mu      sync.Mutex
	handler transport.MessageHandler
	onClose func(error)
	conn    *wsConn
}

type wsConn struct {
	ws        *websocket.Conn
	sendCh    chan []byte
	done      chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
}

var _ transport.Transport = (*Transport)(nil)

// New creates a Transport that will dial url on Connect.
func New(url string, opts ...Option) *Transport {
	t := &Transport{
		url:    url,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// SetHandler installs the callback for inbound payloads.
func (t *Transport) SetHandler(handler transport.MessageHandler) {
	t.mu.Lock()
	t.handler = handler
	t.mu.Unlock()
}

// SetCloseHandler installs a callback invoked once if the connection ends
// without an explicit Disconnect, with the error that ended it.
func (t *Transport) SetCloseHandler(fn func(error)) {
	t.mu.Lock()
	t.onClose = fn
	t.mu.Unlock()
}

// Connect dials the host. The handler should be installed first so no early
// inbound message is missed.
func (t *Transport) Connect(ctx context.Context) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.conn != nil {
		return errors.New("wstransport: already connected")
	}

	var dialOpts *websocket.DialOptions
	if t.origin != "" {
		dialOpts = &websocket.DialOptions{
			HTTPHeader: http.Header{"Origin": []string{t.origin}},
		}
	}
	ws, _, err := websocket.Dial(ctx, t.url, dialOpts)
	if err != nil {
		return fmt.Errorf("wstransport dial %s: %w", t.url, err)
	}

	connCtx, cancel := context.WithCancel(context.Background())
	c := &wsConn{
		ws:     ws,
		sendCh: make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	t.conn = c

	go t.writeLoop(c)
	go t.readLoop(connCtx, c)

	t.logger.Info("websocket connected", "url", t.url)
	return nil
}

// Disconnect closes the connection. It is a no-op when not connected and
// does not fire the close handler.
func (t *Transport) Disconnect(ctx context.Context) error {
	t.mu.Lock()
	c := t.conn
	t.conn = nil
	t.mu.Unlock()
	if c == nil {
		return nil
	}

	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		c.ws.Close(websocket.StatusNormalClosure, "client closing")
	})
	t.logger.Info("websocket disconnected", "url", t.url)
	return nil
}

// Send queues one payload for transmission. A write failure after queueing
// tears the connection down and reaches the caller through the close
// handler rather than through Send.
func (t *Transport) Send(ctx context.Context, payload []byte) error {
	t.mu.Lock()
	c := t.conn
	t.mu.Unlock()
	if c == nil {
		return transport.ErrClosed
	}

	select {
	case c.sendCh <- payload:
		return nil
	case <-c.done:
		return transport.ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) readLoop(ctx context.Context, c *wsConn) {
	var closeErr error
	for {
		_, data, err := c.ws.Read(ctx)
		if err != nil {
			if ctx.Err() == nil && websocket.CloseStatus(err) != websocket.StatusNormalClosure {
				t.logger.Warn("websocket read failed", "error", err)
				closeErr = err
			}
			break
		}

		t.mu.Lock()
		handler := t.handler
		t.mu.Unlock()
		if handler == nil {
			t.logger.Warn("websocket: message dropped, no handler installed")
			continue
		}
		if err := handler(ctx, data); err != nil {
			t.logger.Warn("websocket: inbound message rejected", "error", err)
		}
	}

	t.teardown(c, closeErr)
}

func (t *Transport) writeLoop(c *wsConn) {
	for {
		select {
		case <-c.done:
			return
		case payload := <-c.sendCh:
			ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
			err := c.ws.Write(ctx, websocket.MessageText, payload)
			cancel()
			if err != nil {
				t.logger.Warn("websocket write failed", "error", err)
				t.teardown(c, err)
				return
			}
		}
	}
}

// teardown closes the connection once and fires the close handler if this
// call was the one that closed it. Explicit Disconnect wins the race and
// suppresses the handler.
func (t *Transport) teardown(c *wsConn, err error) {
	closed := false
	c.closeOnce.Do(func() {
		close(c.done)
		c.cancel()
		c.ws.Close(websocket.StatusNormalClosure, "")
		closed = true
	})

	t.mu.Lock()
	if t.conn == c {
		t.conn = nil
	}
	onClose := t.onClose
	t.mu.Unlock()

	if closed && onClose != nil {
		onClose(err)
	}
}
