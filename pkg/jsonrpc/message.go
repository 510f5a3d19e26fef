// Package jsonrpc implements a bidirectional JSON-RPC 2.0 endpoint over an
// abstract message transport. Either side of the link may originate calls:
// outbound requests are correlated to their responses by numeric id, and
// inbound requests are dispatched to registered handlers.
package jsonrpc

import (
	"encoding/json"
	"fmt"
)

// Version is the protocol version stamped on every message.
const Version = "2.0"

// Standard JSON-RPC 2.0 error codes.
const (
	CodeParse          = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternal       = -32603
)

// Request is the request envelope. A nil ID marks a notification, which
// expects no response.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the request expects no response.
func (r *Request) IsNotification() bool { return r.ID == nil }

// Response is the response envelope. Exactly one of Result or Error is set.
// A null ID is only legal when the peer could not read the request id.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// Error is the JSON-RPC error object. It implements the error interface, so
// a failure reported by the peer flows through ordinary error handling and
// can be recovered with errors.As.
type Error struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("jsonrpc: %s (code %d)", e.Message, e.Code)
}

// envelope is the probe shape used to classify inbound traffic. A message
// carrying a method is a request; one carrying result or error is a
// response.
type envelope struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      *uint64         `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params"`
	Result  json.RawMessage `json:"result"`
	Error   *Error          `json:"error"`
}
