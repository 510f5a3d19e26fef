package jsonrpc

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestMarshalWithID(t *testing.T) {
	id := uint64(42)
	data, err := json.Marshal(Request{JSONRPC: Version, ID: &id, Method: "account.list"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":42,"method":"account.list"}`, string(data))
}

func TestNotificationMarshalOmitsID(t *testing.T) {
	data, err := json.Marshal(Request{JSONRPC: Version, Method: "client.ready"})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	if _, ok := m["id"]; ok {
		t.Error("notification must not carry an id")
	}
}

func TestResponseMarshalNullID(t *testing.T) {
	data, err := json.Marshal(Response{JSONRPC: Version, Error: &Error{Code: CodeParse, Message: "parse error"}})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	v, ok := m["id"]
	require.True(t, ok, "response must carry an id, null when unknown")
	assert.Nil(t, v)
}

func TestErrorString(t *testing.T) {
	err := &Error{Code: CodeMethodNotFound, Message: `method "x" not found`}
	assert.Equal(t, `jsonrpc: method "x" not found (code -32601)`, err.Error())
}
