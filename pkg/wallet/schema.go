package wallet

import (
	"encoding/json"
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// JSON Schemas for the wire forms the host produces. Validation is opt-in at
// the client (it guards against a misbehaving host, not against this
// package's own serializers) and schemas stay permissive about unknown
// fields so hosts can extend payloads without breaking older clients.

const accountSchemaJSON = `{
	"type": "object",
	"required": ["id", "name", "address", "currency", "balance", "spendableBalance", "blockHeight", "lastSyncDate"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"name": {"type": "string"},
		"address": {"type": "string"},
		"currency": {"type": "string", "minLength": 1},
		"balance": {"type": "string", "pattern": "^-?[0-9]+$"},
		"spendableBalance": {"type": "string", "pattern": "^-?[0-9]+$"},
		"blockHeight": {"type": "integer", "minimum": 0},
		"lastSyncDate": {"type": "string"}
	}
}`

const transactionSchemaJSON = `{
	"type": "object",
	"required": ["family", "amount", "recipient"],
	"properties": {
		"family": {"type": "string", "minLength": 1},
		"amount": {"type": "string", "pattern": "^-?[0-9]+$"},
		"recipient": {"type": "string"}
	}
}`

const signedTransactionSchemaJSON = `{
	"type": "object",
	"required": ["signature"],
	"properties": {
		"signature": {"type": "string"},
		"expirationDate": {"type": "string"}
	}
}`

var (
	accountSchema           = mustCompileSchema(accountSchemaJSON)
	transactionSchema       = mustCompileSchema(transactionSchemaJSON)
	signedTransactionSchema = mustCompileSchema(signedTransactionSchemaJSON)
)

func mustCompileSchema(src string) *jsonschema.Schema {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile([]byte(src))
	if err != nil {
		panic(fmt.Sprintf("wallet: compile wire schema: %v", err))
	}
	return schema
}

// ValidateAccountWire checks that raw is a well-shaped RawAccount document.
func ValidateAccountWire(raw json.RawMessage) error {
	return validateWire("account", accountSchema, raw)
}

// ValidateTransactionWire checks that raw is a well-shaped RawTransaction
// document.
func ValidateTransactionWire(raw json.RawMessage) error {
	return validateWire("transaction", transactionSchema, raw)
}

// ValidateSignedTransactionWire checks that raw is a well-shaped
// RawSignedTransaction document.
func ValidateSignedTransactionWire(raw json.RawMessage) error {
	return validateWire("signed transaction", signedTransactionSchema, raw)
}

func validateWire(kind string, schema *jsonschema.Schema, raw json.RawMessage) error {
	var v any
	if err := json.Unmarshal(raw, &v); err != nil {
		return fmt.Errorf("%s wire payload: %v: %w", kind, err, ErrProtocol)
	}
	result := schema.Validate(v)
	if !result.IsValid() {
		return fmt.Errorf("%s wire payload: %s: %w", kind, result.Error(), ErrProtocol)
	}
	return nil
}
