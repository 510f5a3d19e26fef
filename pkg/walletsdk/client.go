// Package walletsdk is the client facade for talking to a host wallet
// application over a message transport. It exposes typed operations
// (account selection, receiving addresses, transaction signing and
// broadcast) on top of a bidirectional JSON-RPC session.
//
// Example:
//
//	tr := wstransport.New("wss://wallet.example/ws")
//	client := walletsdk.New(tr, walletsdk.WithLogger(logger))
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Disconnect(context.Background())
//
//	account, err := client.RequestAccount(ctx, walletsdk.RequestAccountParams{
//	    Currencies: []string{"bitcoin"},
//	})
package walletsdk

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"walletlink/internal/infra/tracer"
	"walletlink/pkg/jsonrpc"
	"walletlink/pkg/transport"
	"walletlink/pkg/wallet"
)

// Client is the wallet-host facade. It exclusively owns its transport and
// holds at most one live RPC session; a nil session means disconnected.
type Client struct {
	transport transport.Transport
	logger    *slog.Logger
	registry  *wallet.Registry
	validate  bool

	connMu sync.Mutex // serializes Connect/Disconnect
	mu     sync.Mutex // guards session
	session *jsonrpc.Endpoint
}

// New creates a Client over tr. The transport must be used by this client
// only.
func New(tr transport.Transport, opts ...Option) *Client {
	c := &Client{
		transport: tr,
		logger:    slog.Default(),
		registry:  wallet.NewRegistry(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// RegisterTransactionCodec installs a per-family transaction codec on the
// client's registry.
func (c *Client) RegisterTransactionCodec(family string, codec wallet.TransactionCodec) {
	c.registry.RegisterTransactionCodec(family, codec)
}

// Connected reports whether a session is live.
func (c *Client) Connected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.session != nil
}

// Connect establishes a session with the wallet host. Connecting while
// already connected replaces the session: the old one is closed first, and
// its in-flight calls are rejected with jsonrpc.ErrDisconnected.
func (c *Client) Connect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.mu.Lock()
	old := c.session
	c.session = nil
	c.mu.Unlock()

	if old != nil {
		c.logger.Warn("replacing live wallet session", "session", old.SessionID())
		if err := old.Close(ctx); err != nil {
			c.logger.Warn("stale session close failed", "session", old.SessionID(), "error", err)
		}
	}

	ep, err := jsonrpc.Connect(ctx, c.transport, jsonrpc.WithLogger(c.logger))
	if err != nil {
		return fmt.Errorf("walletsdk connect: %w", err)
	}

	c.mu.Lock()
	c.session = ep
	c.mu.Unlock()

	c.logger.Info("wallet host connected", "session", ep.SessionID())
	return nil
}

// Disconnect ends the session. In-flight calls are rejected with
// jsonrpc.ErrDisconnected. Disconnecting while disconnected is a no-op.
func (c *Client) Disconnect(ctx context.Context) error {
	c.connMu.Lock()
	defer c.connMu.Unlock()

	c.mu.Lock()
	ep := c.session
	c.session = nil
	c.mu.Unlock()

	if ep == nil {
		return nil
	}
	if err := ep.Close(ctx); err != nil {
		return fmt.Errorf("walletsdk disconnect: %w", err)
	}
	c.logger.Info("wallet host disconnected", "session", ep.SessionID())
	return nil
}

// Stats returns the live session's counters, or nil when disconnected.
func (c *Client) Stats() *jsonrpc.Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.session == nil {
		return nil
	}
	return c.session.Stats()
}

// invoke performs one outbound call on the live session, wrapped in a span
// named after the method.
func (c *Client) invoke(ctx context.Context, method Method, params any) (json.RawMessage, error) {
	if !method.IsValid() {
		return nil, fmt.Errorf("%w: method %q outside the wallet-host set", wallet.ErrProtocol, method)
	}

	c.mu.Lock()
	ep := c.session
	c.mu.Unlock()
	if ep == nil {
		return nil, ErrNotConnected
	}

	ctx, span := tracer.StartSpan(ctx, "wallet."+string(method))
	defer span.End()

	result, err := ep.Call(ctx, string(method), params)
	if err != nil {
		tracer.RecordError(span, err)
		return nil, err
	}
	tracer.SetOK(span)
	return result, nil
}

// decodeAccount turns one wire account payload into its rich form.
func (c *Client) decodeAccount(result json.RawMessage) (*wallet.Account, error) {
	if c.validate {
		if err := wallet.ValidateAccountWire(result); err != nil {
			return nil, err
		}
	}
	var raw wallet.RawAccount
	if err := json.Unmarshal(result, &raw); err != nil {
		return nil, fmt.Errorf("decode account: %v: %w", err, wallet.ErrProtocol)
	}
	acc, err := wallet.DeserializeAccount(raw)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
