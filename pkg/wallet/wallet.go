// Package wallet defines the value types exchanged between an embedding
// application and a wallet host, and the codecs that move them across the
// RPC boundary.
//
// Every type is a plain immutable record. Types that carry big integers or
// timestamps have a wire form (Raw*) related to the rich form by a
// serialize/deserialize pair; the rest are already JSON-safe and cross the
// boundary unchanged. Currency-family-specific transaction encoding is
// delegated to pluggable codecs registered on a Registry.
package wallet

import "errors"

// ErrProtocol reports a value that violates the wire protocol: an enum value
// outside its closed set, an unparseable amount or timestamp, or a wire
// payload that fails shape validation. Protocol violations are not
// recoverable runtime states.
var ErrProtocol = errors.New("protocol violation")
