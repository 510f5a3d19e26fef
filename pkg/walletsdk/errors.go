package walletsdk

import "errors"

var (
	// ErrNotConnected is returned by operations invoked without a live
	// session. The check is synchronous; nothing reaches the transport.
	ErrNotConnected = errors.New("not connected to wallet host")

	// ErrNotImplemented is returned by reserved operations whose wire
	// contract is declared but not yet served by this client.
	ErrNotImplemented = errors.New("operation not implemented by this client")
)
