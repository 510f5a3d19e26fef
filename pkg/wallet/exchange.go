package wallet

import "fmt"

// ExchangeType identifies the kind of exchange flow being opened with a
// partner. The set is closed.
type ExchangeType string

const (
	ExchangeTypeSwap ExchangeType = "SWAP"
	ExchangeTypeSell ExchangeType = "SELL"
	ExchangeTypeFund ExchangeType = "FUND"
)

// IsValid reports whether t is a member of the closed exchange-type set.
func (t ExchangeType) IsValid() bool {
	switch t {
	case ExchangeTypeSwap, ExchangeTypeSell, ExchangeTypeFund:
		return true
	}
	return false
}

// ParseExchangeType validates a wire value against the closed set.
func ParseExchangeType(s string) (ExchangeType, error) {
	t := ExchangeType(s)
	if !t.IsValid() {
		return "", fmt.Errorf("exchange type %q: %w", s, ErrProtocol)
	}
	return t, nil
}

// FeesLevel selects one of the host's fee presets. The set is closed.
type FeesLevel string

const (
	FeesLevelSlow   FeesLevel = "slow"
	FeesLevelMedium FeesLevel = "medium"
	FeesLevelFast   FeesLevel = "fast"
)

// IsValid reports whether l is a member of the closed fees-level set.
func (l FeesLevel) IsValid() bool {
	switch l {
	case FeesLevelSlow, FeesLevelMedium, FeesLevelFast:
		return true
	}
	return false
}

// ParseFeesLevel validates a wire value against the closed set.
func ParseFeesLevel(s string) (FeesLevel, error) {
	l := FeesLevel(s)
	if !l.IsValid() {
		return "", fmt.Errorf("fees level %q: %w", s, ErrProtocol)
	}
	return l, nil
}

// ExchangePayload is the opaque binary payload produced by an exchange
// partner. It crosses the wire base64-encoded, which encoding/json does for
// byte slices natively.
type ExchangePayload []byte

// EcdsaSignature is a partner signature over an exchange payload, already
// wire-shaped as hex strings.
type EcdsaSignature struct {
	R string `json:"r"`
	S string `json:"s"`
}
