// Package testing provides a test environment for operation testing.
// It wires an in-memory ledger state to an engine and exposes helpers
// for funding accounts, submitting operations, and inspecting results.
package testing

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/ledger"
	"github.com/digiko/dexd/internal/core/tx"
)

// Standard test accounts.
const (
	Admin = "platform"
	Alice = "alice"
	Bob   = "bob"
	Carol = "carol"
)

// NativeSymbol is the native coin symbol used by test environments.
const NativeSymbol = "DGK"

// TestEnv manages an in-memory ledger and engine for operation tests.
type TestEnv struct {
	T      *testing.T
	State  *ledger.State
	Engine *tx.Engine

	// Native is the environment's native asset.
	Native tx.Asset
}

// NewTestEnv creates a fresh environment with an empty ledger. Accounts
// start unfunded; use Fund before submitting operations that attach
// payments.
func NewTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	state := ledger.NewState()
	engine := tx.NewEngine(state, tx.EngineConfig{
		AdminAccount: Admin,
		NativeAsset:  NativeSymbol,
	})

	return &TestEnv{
		T:      t,
		State:  state,
		Engine: engine,
		Native: tx.Asset{Symbol: NativeSymbol, Native: true},
	}
}

// Fund sets an account's balance for the given asset, replacing any
// existing balance.
func (e *TestEnv) Fund(account string, asset tx.Asset, amount int64) {
	e.T.Helper()
	e.FundBig(account, asset, big.NewInt(amount))
}

// FundBig is Fund for amounts beyond int64 range.
func (e *TestEnv) FundBig(account string, asset tx.Asset, amount *big.Int) {
	e.T.Helper()
	err := tx.SetBalance(e.State, account, asset, amount)
	require.NoError(e.T, err, "fund %s with %s %s", account, amount, asset.Symbol)
}

// Balance returns the account's balance for the asset, zero when the
// account holds none.
func (e *TestEnv) Balance(account string, asset tx.Asset) *big.Int {
	e.T.Helper()
	bal, err := tx.GetBalance(e.State, account, asset)
	require.NoError(e.T, err)
	return bal
}

// RequireBalance asserts an exact balance.
func (e *TestEnv) RequireBalance(account string, asset tx.Asset, want int64) {
	e.T.Helper()
	got := e.Balance(account, asset)
	require.Zero(e.T, got.Cmp(big.NewInt(want)),
		"balance of %s in %s: got %s, want %d", account, asset.Symbol, got, want)
}

// Submit applies an operation and returns the full result.
func (e *TestEnv) Submit(txn tx.Transaction) tx.ApplyResult {
	e.T.Helper()
	return e.Engine.Apply(txn)
}

// SubmitOK applies an operation and fails the test unless it succeeds.
func (e *TestEnv) SubmitOK(txn tx.Transaction) tx.ApplyResult {
	e.T.Helper()
	res := e.Engine.Apply(txn)
	require.True(e.T, res.Result.IsSuccess(),
		"expected tesSUCCESS, got %s: %s", res.Result, res.Message)
	return res
}

// SubmitErr applies an operation and fails the test unless it returns
// the expected result code. State must be untouched on failure, which
// the engine guarantees by discarding the state table.
func (e *TestEnv) SubmitErr(txn tx.Transaction, want tx.Result) tx.ApplyResult {
	e.T.Helper()
	res := e.Engine.Apply(txn)
	require.Equal(e.T, want, res.Result,
		"expected %s, got %s: %s", want, res.Result, res.Message)
	require.False(e.T, res.Applied, "failed operation must not modify state")
	return res
}

// Pay builds an attached payment.
func Pay(asset tx.Asset, amount int64) tx.Payment {
	return tx.Payment{Asset: asset, Amount: big.NewInt(amount)}
}

// PayBig is Pay for amounts beyond int64 range.
func PayBig(asset tx.Asset, amount *big.Int) tx.Payment {
	return tx.Payment{Asset: asset, Amount: new(big.Int).Set(amount)}
}

// Token builds a non-native test asset.
func Token(symbol string) tx.Asset {
	return tx.Asset{Symbol: symbol}
}
