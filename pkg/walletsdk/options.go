package walletsdk

import (
	"log/slog"

	"walletlink/pkg/wallet"
)

// Option configures a Client.
type Option func(*Client)

// WithLogger sets a custom slog.Logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithRegistry sets the serializer registry used for per-family transaction
// codecs.
func WithRegistry(reg *wallet.Registry) Option {
	return func(c *Client) {
		if reg != nil {
			c.registry = reg
		}
	}
}

// WithWireValidation makes the client check host-returned payloads against
// the wire JSON Schemas before deserializing. Violations surface as
// wallet.ErrProtocol.
func WithWireValidation() Option {
	return func(c *Client) { c.validate = true }
}
