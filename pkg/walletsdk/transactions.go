package walletsdk

import (
	"context"
	"encoding/json"
	"fmt"

	"walletlink/pkg/wallet"
)

// SignOptions tweaks how the host runs the signature flow.
type SignOptions struct {
	// UseApp names the device application to sign with, overriding the one
	// implied by the transaction's currency family.
	UseApp string `json:"useApp,omitempty"`
}

type signTransactionParams struct {
	AccountID   string                `json:"accountId"`
	Transaction wallet.RawTransaction `json:"transaction"`
	Params      *SignOptions          `json:"params,omitempty"`
}

type broadcastParams struct {
	AccountID         string                      `json:"accountId"`
	SignedTransaction wallet.RawSignedTransaction `json:"signedTransaction"`
}

// SignTransaction asks the host to let the user review and sign tx with
// accountID. The transaction is serialized through the per-family codec
// before it is sent; a rejection on the device arrives as the host's RPC
// error.
func (c *Client) SignTransaction(ctx context.Context, accountID string, tx wallet.Transaction, opts *SignOptions) (*wallet.SignedTransaction, error) {
	codec := c.registry.TransactionCodecFor(tx.Family)
	raw, err := codec.Serialize(tx)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: serialize: %w", err)
	}

	result, err := c.invoke(ctx, MethodTransactionSign, signTransactionParams{
		AccountID:   accountID,
		Transaction: raw,
		Params:      opts,
	})
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}

	if c.validate {
		if err := wallet.ValidateSignedTransactionWire(result); err != nil {
			return nil, fmt.Errorf("sign transaction: %w", err)
		}
	}
	var rawSigned wallet.RawSignedTransaction
	if err := json.Unmarshal(result, &rawSigned); err != nil {
		return nil, fmt.Errorf("sign transaction: decode: %v: %w", err, wallet.ErrProtocol)
	}
	signed, err := wallet.DeserializeSignedTransaction(rawSigned)
	if err != nil {
		return nil, fmt.Errorf("sign transaction: %w", err)
	}
	return &signed, nil
}

// BroadcastSignedTransaction pushes a previously signed transaction to the
// network through the host and returns the broadcast hash.
func (c *Client) BroadcastSignedTransaction(ctx context.Context, accountID string, signed wallet.SignedTransaction) (string, error) {
	result, err := c.invoke(ctx, MethodTransactionBroadcast, broadcastParams{
		AccountID:         accountID,
		SignedTransaction: wallet.SerializeSignedTransaction(signed),
	})
	if err != nil {
		return "", fmt.Errorf("broadcast transaction: %w", err)
	}

	var hash string
	if err := json.Unmarshal(result, &hash); err != nil {
		return "", fmt.Errorf("broadcast transaction: decode: %v: %w", err, wallet.ErrProtocol)
	}
	return hash, nil
}

// EstimateTransactionFees asks the host to price tx at the slow, medium and
// fast levels.
//
// Reserved: the wire contract (transaction.estimateFees) is declared, but
// this client does not serve it yet.
func (c *Client) EstimateTransactionFees(ctx context.Context, accountID string, tx wallet.Transaction) (*wallet.EstimatedFees, error) {
	return nil, fmt.Errorf("estimate transaction fees: %w", ErrNotImplemented)
}
