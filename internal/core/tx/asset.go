package tx

import (
	"errors"
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
)

// Asset identifies a transferable asset: either the chain-native coin or a
// fungible ledger-tracked token. Native is tracked separately from the
// symbol so a token that happens to share the native symbol cannot be
// confused with the coin itself.
type Asset struct {
	Symbol string `json:"symbol"`
	Native bool   `json:"native"`
}

// ID returns a stable identifier that distinguishes native from token assets.
func (a Asset) ID() string {
	if a.Native {
		return "native:" + a.Symbol
	}
	return "token:" + a.Symbol
}

// Equal reports whether two assets are the same asset.
func (a Asset) Equal(b Asset) bool {
	return a.Symbol == b.Symbol && a.Native == b.Native
}

// String returns the asset symbol.
func (a Asset) String() string { return a.Symbol }

// Payment is an (asset, amount) pair attached to an operation or dispatched
// from one.
type Payment struct {
	Asset  Asset    `json:"asset"`
	Amount *big.Int `json:"amount"`
}

// ErrInsufficientFunds is returned when a debit exceeds the account balance.
var ErrInsufficientFunds = errors.New("insufficient funds")

// GetBalance reads an account's balance of an asset. Missing entries read
// as zero.
func GetBalance(view LedgerView, account string, asset Asset) (*big.Int, error) {
	data, err := view.Read(keylet.Balance(account, asset.ID()))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return bignum.Zero(), nil
	}
	v, _, err := bignum.ReadBytes(data, 0)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// SetBalance overwrites an account's balance of an asset. Used by
// genesis loading and test setup, never by operations.
func SetBalance(view LedgerView, account string, asset Asset, amount *big.Int) error {
	k := keylet.Balance(account, asset.ID())
	exists, err := view.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return view.Update(k, bignum.AppendBytes(nil, amount))
	}
	return view.Insert(k, bignum.AppendBytes(nil, amount))
}

// creditBalance adds amount to an account's balance of an asset.
func creditBalance(view LedgerView, account string, asset Asset, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return errors.New("credit amount must be positive")
	}
	k := keylet.Balance(account, asset.ID())
	data, err := view.Read(k)
	if err != nil {
		return err
	}
	if data == nil {
		return view.Insert(k, bignum.AppendBytes(nil, amount))
	}
	cur, _, err := bignum.ReadBytes(data, 0)
	if err != nil {
		return err
	}
	return view.Update(k, bignum.AppendBytes(nil, bignum.Add(cur, amount)))
}

// debitBalance removes amount from an account's balance of an asset. The
// entry is erased when the balance reaches zero so drained accounts leave
// no residue in state.
func debitBalance(view LedgerView, account string, asset Asset, amount *big.Int) error {
	if amount.Sign() <= 0 {
		return errors.New("debit amount must be positive")
	}
	k := keylet.Balance(account, asset.ID())
	data, err := view.Read(k)
	if err != nil {
		return err
	}
	if data == nil {
		return ErrInsufficientFunds
	}
	cur, _, err := bignum.ReadBytes(data, 0)
	if err != nil {
		return err
	}
	if cur.Cmp(amount) < 0 {
		return ErrInsufficientFunds
	}
	rest := bignum.Sub(cur, amount)
	if bignum.IsZero(rest) {
		return view.Erase(k)
	}
	return view.Update(k, bignum.AppendBytes(nil, rest))
}
