package walletsdk

import (
	"context"
	"encoding/json"
	"fmt"

	"walletlink/pkg/wallet"
)

// RequestAccountParams narrows the host's account picker.
type RequestAccountParams struct {
	// Currencies restricts the picker to the given currency ids. Empty
	// means any.
	Currencies []string `json:"currencies,omitempty"`
	// AllowAddAccount lets the user create a fresh account from the picker.
	AllowAddAccount bool `json:"allowAddAccount,omitempty"`
}

// CurrencyFilter narrows a currency listing. Zero-value fields are not sent.
type CurrencyFilter struct {
	Name   string `json:"name,omitempty"`
	Ticker string `json:"ticker,omitempty"`
}

type receiveParams struct {
	AccountID string `json:"accountId"`
}

// RequestAccount asks the host to let the user pick one account. The host
// reports a cancelled picker as an RPC error.
func (c *Client) RequestAccount(ctx context.Context, params RequestAccountParams) (*wallet.Account, error) {
	result, err := c.invoke(ctx, MethodAccountRequest, params)
	if err != nil {
		return nil, fmt.Errorf("request account: %w", err)
	}
	acc, err := c.decodeAccount(result)
	if err != nil {
		return nil, fmt.Errorf("request account: %w", err)
	}
	return acc, nil
}

// ListAccounts fetches all accounts visible to this client, in the host's
// order.
func (c *Client) ListAccounts(ctx context.Context) ([]wallet.Account, error) {
	result, err := c.invoke(ctx, MethodAccountList, nil)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(result, &raws); err != nil {
		return nil, fmt.Errorf("list accounts: decode: %v: %w", err, wallet.ErrProtocol)
	}

	accounts := make([]wallet.Account, 0, len(raws))
	for i, raw := range raws {
		acc, err := c.decodeAccount(raw)
		if err != nil {
			return nil, fmt.Errorf("list accounts: account %d: %w", i, err)
		}
		accounts = append(accounts, *acc)
	}
	return accounts, nil
}

// ListCurrencies fetches the currencies the host supports, optionally
// filtered. Currency is already wire-shaped, so the result passes through
// without a domain deserialization step.
func (c *Client) ListCurrencies(ctx context.Context, filter *CurrencyFilter) ([]wallet.Currency, error) {
	var params any
	if filter != nil {
		params = filter
	}
	result, err := c.invoke(ctx, MethodCurrencyList, params)
	if err != nil {
		return nil, fmt.Errorf("list currencies: %w", err)
	}

	var currencies []wallet.Currency
	if err := json.Unmarshal(result, &currencies); err != nil {
		return nil, fmt.Errorf("list currencies: decode: %v: %w", err, wallet.ErrProtocol)
	}
	return currencies, nil
}

// Receive asks the host to display and verify a fresh receive address on
// the device, returning the verified address.
func (c *Client) Receive(ctx context.Context, accountID string) (string, error) {
	result, err := c.invoke(ctx, MethodAccountReceive, receiveParams{AccountID: accountID})
	if err != nil {
		return "", fmt.Errorf("receive: %w", err)
	}

	var address string
	if err := json.Unmarshal(result, &address); err != nil {
		return "", fmt.Errorf("receive: decode: %v: %w", err, wallet.ErrProtocol)
	}
	return address, nil
}

// SynchronizeAccount asks the host to resynchronize one account against its
// network and return the refreshed record.
//
// Reserved: the wire contract (account.synchronize) is declared, but this
// client does not serve it yet.
func (c *Client) SynchronizeAccount(ctx context.Context, accountID string) (*wallet.Account, error) {
	return nil, fmt.Errorf("synchronize account: %w", ErrNotImplemented)
}
