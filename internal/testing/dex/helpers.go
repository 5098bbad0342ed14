// Package dex provides test helpers and builders for exchange operation
// testing.
package dex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/tx"
	coredex "github.com/digiko/dexd/internal/core/tx/dex"
	jtx "github.com/digiko/dexd/internal/testing"
)

// startingBalance funds every standard account in every standard asset.
// Large enough that no scenario below runs dry.
const startingBalance = 1_000_000_000

// DexEnv wraps TestEnv with exchange-specific helpers: standard funded
// accounts, standard assets, and accessors over pair and position state.
type DexEnv struct {
	*jtx.TestEnv
	T *testing.T

	// Standard assets.
	DGK tx.Asset // native
	USD tx.Asset
	EUR tx.Asset
}

// NewDexEnv creates an environment with alice, bob, carol and the
// platform account funded in all standard assets.
func NewDexEnv(t *testing.T) *DexEnv {
	t.Helper()

	env := jtx.NewTestEnv(t)
	e := &DexEnv{
		TestEnv: env,
		T:       t,
		DGK:     env.Native,
		USD:     jtx.Token("USD"),
		EUR:     jtx.Token("EUR"),
	}

	for _, account := range []string{jtx.Alice, jtx.Bob, jtx.Carol, jtx.Admin} {
		for _, asset := range []tx.Asset{e.DGK, e.USD, e.EUR} {
			e.Fund(account, asset, startingBalance)
		}
	}
	return e
}

// CreatePair submits a PairCreate and returns the assigned pair ID.
func (e *DexEnv) CreatePair(creator string, assetA, assetB tx.Asset, feePercent uint8) uint64 {
	e.T.Helper()
	res := e.SubmitOK(coredex.NewPairCreate(creator, assetA, assetB, feePercent))
	pairID, ok := res.Meta["pair_id"].(uint64)
	require.True(e.T, ok, "pair_id missing from metadata")
	return pairID
}

// StandardPair creates the default DGK/USD pair with a 1% fee, owned by
// alice.
func (e *DexEnv) StandardPair() uint64 {
	e.T.Helper()
	return e.CreatePair(jtx.Alice, e.DGK, e.USD, 1)
}

// Mint submits a LiquidityMint attaching amountA of the pair's A asset
// and amountB of its B asset.
func (e *DexEnv) Mint(account string, pairID uint64, amountA, amountB int64) tx.ApplyResult {
	e.T.Helper()
	p := e.Pair(pairID)
	return e.Submit(coredex.NewLiquidityMint(account, pairID, nil,
		jtx.Pay(p.AssetA, amountA), jtx.Pay(p.AssetB, amountB)))
}

// MintOK is Mint asserting success, returning the minted share count.
func (e *DexEnv) MintOK(account string, pairID uint64, amountA, amountB int64) *big.Int {
	e.T.Helper()
	p := e.Pair(pairID)
	res := e.SubmitOK(coredex.NewLiquidityMint(account, pairID, nil,
		jtx.Pay(p.AssetA, amountA), jtx.Pay(p.AssetB, amountB)))
	return e.metaAmount(res, "shares")
}

// metaAmount parses a numeric metadata field.
func (e *DexEnv) metaAmount(res tx.ApplyResult, key string) *big.Int {
	e.T.Helper()
	s, ok := res.Meta[key].(string)
	require.True(e.T, ok, "%s missing from metadata", key)
	v, ok := new(big.Int).SetString(s, 10)
	require.True(e.T, ok, "%s metadata not numeric: %q", key, s)
	return v
}

// SwapOK submits a Swap of amount on the given input side and returns
// the delivered output amount.
func (e *DexEnv) SwapOK(account string, pairID uint64, side coredex.Side, amount int64) *big.Int {
	e.T.Helper()
	p := e.Pair(pairID)
	res := e.SubmitOK(coredex.NewSwap(account, pairID, side, nil,
		jtx.Pay(p.Asset(side), amount)))
	return e.metaAmount(res, "output")
}

// Pair reads the pair entry, failing the test when absent.
func (e *DexEnv) Pair(pairID uint64) *coredex.PairState {
	e.T.Helper()
	p, err := coredex.LoadPair(e.State, pairID)
	require.NoError(e.T, err, "pair %d", pairID)
	return p
}

// Position reads an LP position, returning nil when the account holds
// none.
func (e *DexEnv) Position(pairID uint64, account string) *coredex.LPPosition {
	e.T.Helper()
	pos, err := coredex.LoadPosition(e.State, pairID, account)
	require.NoError(e.T, err)
	return pos
}

// Shares returns the account's LP share balance, zero when it holds no
// position.
func (e *DexEnv) Shares(pairID uint64, account string) *big.Int {
	e.T.Helper()
	pos := e.Position(pairID, account)
	if pos == nil {
		return new(big.Int)
	}
	return pos.Shares
}

// Pending reads an account's parked deposits, nil when none exist.
func (e *DexEnv) Pending(pairID uint64, account string) *coredex.PendingState {
	e.T.Helper()
	pend, err := coredex.LoadPending(e.State, pairID, account)
	require.NoError(e.T, err)
	return pend
}

// RequireReserves asserts the pair's exact reserves.
func (e *DexEnv) RequireReserves(pairID uint64, wantA, wantB int64) {
	e.T.Helper()
	p := e.Pair(pairID)
	require.Zero(e.T, p.ReserveA.Cmp(big.NewInt(wantA)),
		"reserve A: got %s, want %d", p.ReserveA, wantA)
	require.Zero(e.T, p.ReserveB.Cmp(big.NewInt(wantB)),
		"reserve B: got %s, want %d", p.ReserveB, wantB)
}

// RequireShareSum asserts that TotalLPShares equals the sum of the
// given accounts' positions.
func (e *DexEnv) RequireShareSum(pairID uint64, accounts ...string) {
	e.T.Helper()
	sum := new(big.Int)
	for _, account := range accounts {
		sum.Add(sum, e.Shares(pairID, account))
	}
	p := e.Pair(pairID)
	require.Zero(e.T, p.TotalLPShares.Cmp(sum),
		"TotalLPShares %s != position sum %s", p.TotalLPShares, sum)
}
