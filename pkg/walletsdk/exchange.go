package walletsdk

import (
	"context"
	"fmt"

	"walletlink/pkg/wallet"
)

// CompleteExchangeParams carries everything the host needs to finalize a
// partner exchange: the partner's signed payload plus the funding
// transaction prepared by the caller.
type CompleteExchangeParams struct {
	Provider      string                 `json:"provider"`
	FromAccountID string                 `json:"fromAccountId"`
	ToAccountID   string                 `json:"toAccountId,omitempty"`
	Transaction   wallet.Transaction     `json:"-"`
	BinaryPayload wallet.ExchangePayload `json:"binaryPayload"`
	Signature     wallet.EcdsaSignature  `json:"signature"`
	FeesLevel     wallet.FeesLevel       `json:"feesStrategy"`
	ExchangeType  wallet.ExchangeType    `json:"exchangeType"`
}

// InitExchange asks the host for a device-bound exchange nonce of the given
// kind.
//
// Reserved: the wire contract (exchange.init) is declared, but this client
// does not serve it yet.
func (c *Client) InitExchange(ctx context.Context, exchangeType wallet.ExchangeType) (string, error) {
	if !exchangeType.IsValid() {
		return "", fmt.Errorf("init exchange: %w: exchange type %q", wallet.ErrProtocol, exchangeType)
	}
	return "", fmt.Errorf("init exchange: %w", ErrNotImplemented)
}

// CompleteExchange submits the partner payload for on-device validation and
// funds the exchange, returning the funding transaction hash.
//
// Reserved: the wire contract (exchange.complete) is declared, but this
// client does not serve it yet.
func (c *Client) CompleteExchange(ctx context.Context, params CompleteExchangeParams) (string, error) {
	if !params.ExchangeType.IsValid() {
		return "", fmt.Errorf("complete exchange: %w: exchange type %q", wallet.ErrProtocol, params.ExchangeType)
	}
	if params.FeesLevel != "" && !params.FeesLevel.IsValid() {
		return "", fmt.Errorf("complete exchange: %w: fees level %q", wallet.ErrProtocol, params.FeesLevel)
	}
	return "", fmt.Errorf("complete exchange: %w", ErrNotImplemented)
}
