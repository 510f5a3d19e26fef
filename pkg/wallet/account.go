package wallet

import (
	"fmt"
	"math/big"
	"time"
)

// Account is a user account held by the wallet host.
type Account struct {
	ID               string
	Name             string
	Address          string
	Currency         string // currency identifier, e.g. "bitcoin"
	Balance          *big.Int
	SpendableBalance *big.Int
	BlockHeight      uint64
	LastSyncDate     time.Time
}

// RawAccount is the JSON-safe wire form of Account. Balances travel as
// decimal strings and the sync date as RFC 3339.
type RawAccount struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Address          string `json:"address"`
	Currency         string `json:"currency"`
	Balance          string `json:"balance"`
	SpendableBalance string `json:"spendableBalance"`
	BlockHeight      uint64 `json:"blockHeight"`
	LastSyncDate     string `json:"lastSyncDate"`
}

// Unit is one denomination of a currency.
type Unit struct {
	Name      string `json:"name"`
	Code      string `json:"code"`
	Magnitude int    `json:"magnitude"`
}

// Currency describes a currency the host can hold accounts in. It is already
// wire-shaped; no serializer pair exists for it.
type Currency struct {
	ID     string `json:"id"`
	Ticker string `json:"ticker"`
	Name   string `json:"name"`
	Family string `json:"family"`
	Color  string `json:"color,omitempty"`
	Units  []Unit `json:"units,omitempty"`
}

// SerializeAccount converts an Account to its wire form. A nil balance
// serializes as "0".
func SerializeAccount(a Account) RawAccount {
	return RawAccount{
		ID:               a.ID,
		Name:             a.Name,
		Address:          a.Address,
		Currency:         a.Currency,
		Balance:          bigString(a.Balance),
		SpendableBalance: bigString(a.SpendableBalance),
		BlockHeight:      a.BlockHeight,
		LastSyncDate:     a.LastSyncDate.UTC().Format(time.RFC3339),
	}
}

// DeserializeAccount converts a wire account back to its rich form. Amounts
// that do not parse as decimal integers and timestamps that are not RFC 3339
// are protocol violations.
func DeserializeAccount(raw RawAccount) (Account, error) {
	balance, err := parseBig("balance", raw.Balance)
	if err != nil {
		return Account{}, err
	}
	spendable, err := parseBig("spendableBalance", raw.SpendableBalance)
	if err != nil {
		return Account{}, err
	}
	syncDate, err := time.Parse(time.RFC3339, raw.LastSyncDate)
	if err != nil {
		return Account{}, fmt.Errorf("account lastSyncDate %q: %w", raw.LastSyncDate, ErrProtocol)
	}
	return Account{
		ID:               raw.ID,
		Name:             raw.Name,
		Address:          raw.Address,
		Currency:         raw.Currency,
		Balance:          balance,
		SpendableBalance: spendable,
		BlockHeight:      raw.BlockHeight,
		LastSyncDate:     syncDate.UTC(),
	}, nil
}

func bigString(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.String()
}

func parseBig(field, s string) (*big.Int, error) {
	if s == "" {
		return new(big.Int), nil
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("account %s %q: %w", field, s, ErrProtocol)
	}
	return v, nil
}
