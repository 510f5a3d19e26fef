// Package transport defines the message transport abstraction the RPC layer
// runs over. A Transport moves opaque byte payloads between the client and a
// wallet host; it knows nothing about JSON-RPC framing.
package transport

import "context"

// MessageHandler receives each raw payload delivered by the transport.
// Implementations must be safe for concurrent use; the transport may invoke
// the handler from its own receive goroutine.
type MessageHandler func(ctx context.Context, payload []byte) error

// Transport is a bidirectional, message-oriented link to a wallet host.
//
// The handler must be installed with SetHandler before Connect so that no
// early inbound message is dropped. Send may be called concurrently from
// multiple goroutines.
type Transport interface {
	// Connect establishes the link. It returns an error if the link cannot
	// be established; it does not retry.
	Connect(ctx context.Context) error

	// Disconnect tears the link down. Any in-flight deliveries may be lost.
	Disconnect(ctx context.Context) error

	// Send transmits one payload to the peer.
	Send(ctx context.Context, payload []byte) error

	// SetHandler installs the callback invoked for every inbound payload.
	SetHandler(handler MessageHandler)
}
