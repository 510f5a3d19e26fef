package wallet

import (
	"encoding/json"
	"fmt"
	"math/big"
	"time"
)

// Transaction is an unsigned transaction in its rich form. The common fields
// are shared by every currency family; Payload carries the family-specific
// remainder and is opaque to this package.
type Transaction struct {
	Family    string
	Amount    *big.Int
	Recipient string
	Payload   json.RawMessage
}

// RawTransaction is the JSON-safe wire form of Transaction.
type RawTransaction struct {
	Family    string          `json:"family"`
	Amount    string          `json:"amount"`
	Recipient string          `json:"recipient"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// SignedTransaction is the host's answer to a signing request. Operation is a
// host-owned record passed through untouched; the SDK never interprets it.
type SignedTransaction struct {
	Operation      json.RawMessage
	Signature      string // hex
	ExpirationDate *time.Time
}

// RawSignedTransaction is the JSON-safe wire form of SignedTransaction.
type RawSignedTransaction struct {
	Operation      json.RawMessage `json:"operation,omitempty"`
	Signature      string          `json:"signature"`
	ExpirationDate string          `json:"expirationDate,omitempty"`
}

// EstimatedFees is a read-only wire shape quoting fees per level. There is no
// inverse serializer; the host is the only producer.
type EstimatedFees struct {
	Slow   string `json:"slow,omitempty"`
	Medium string `json:"medium"`
	Fast   string `json:"fast,omitempty"`
}

// SerializeTransaction converts a Transaction to its wire form using the
// generic codec. Family-specific codecs live on a Registry.
func SerializeTransaction(tx Transaction) RawTransaction {
	return RawTransaction{
		Family:    tx.Family,
		Amount:    bigString(tx.Amount),
		Recipient: tx.Recipient,
		Payload:   tx.Payload,
	}
}

// DeserializeTransaction converts a wire transaction back to its rich form.
func DeserializeTransaction(raw RawTransaction) (Transaction, error) {
	amount, err := parseBig("amount", raw.Amount)
	if err != nil {
		return Transaction{}, fmt.Errorf("transaction: %w", err)
	}
	return Transaction{
		Family:    raw.Family,
		Amount:    amount,
		Recipient: raw.Recipient,
		Payload:   raw.Payload,
	}, nil
}

// SerializeSignedTransaction converts a SignedTransaction to its wire form.
// A nil expiration date is omitted on the wire.
func SerializeSignedTransaction(stx SignedTransaction) RawSignedTransaction {
	raw := RawSignedTransaction{
		Operation: stx.Operation,
		Signature: stx.Signature,
	}
	if stx.ExpirationDate != nil {
		raw.ExpirationDate = stx.ExpirationDate.UTC().Format(time.RFC3339)
	}
	return raw
}

// DeserializeSignedTransaction converts a wire signed transaction back to its
// rich form.
func DeserializeSignedTransaction(raw RawSignedTransaction) (SignedTransaction, error) {
	stx := SignedTransaction{
		Operation: raw.Operation,
		Signature: raw.Signature,
	}
	if raw.ExpirationDate != "" {
		t, err := time.Parse(time.RFC3339, raw.ExpirationDate)
		if err != nil {
			return SignedTransaction{}, fmt.Errorf("signed transaction expirationDate %q: %w", raw.ExpirationDate, ErrProtocol)
		}
		t = t.UTC()
		stx.ExpirationDate = &t
	}
	return stx, nil
}
