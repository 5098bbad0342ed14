package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

// Read-only views over pair state. None of these mutate anything; the
// RPC layer serves them directly.

// QuoteSwap previews a swap: the post-fee output and the fee for a given
// input. Returns zeros when the pool cannot serve the input.
func QuoteSwap(p *PairState, inputSide Side, input *big.Int) (userGets, fee *big.Int) {
	if input == nil || input.Sign() == 0 {
		return bignum.Zero(), bignum.Zero()
	}
	_, fee, userGets, res := swapQuote(p, inputSide, input)
	if !res.IsSuccess() {
		return bignum.Zero(), bignum.Zero()
	}
	return userGets, fee
}

// QuoteSwapReverse computes the input required for a desired post-fee
// output, and the fee that will be carved out. Returns zeros when the
// pool cannot produce the output.
func QuoteSwapReverse(p *PairState, inputSide Side, desiredOutput *big.Int) (requiredInput, fee *big.Int) {
	zero := bignum.Zero()
	if desiredOutput == nil || desiredOutput.Sign() == 0 {
		return zero, zero
	}
	reserveIn, reserveOut := p.Reserves(inputSide)
	if bignum.IsZero(reserveIn) || bignum.IsZero(reserveOut) {
		return zero, zero
	}

	// rawOutput must satisfy rawOutput*(100-fee%)/100 >= desiredOutput.
	rawOutput, err := bignum.MulDiv(desiredOutput, bignum.New(100), bignum.New(uint64(100-p.FeePercent)))
	if err != nil {
		return zero, zero
	}
	if rawOutput.Cmp(reserveOut) >= 0 {
		return zero, zero
	}

	requiredInput, err = bignum.MulDiv(reserveIn, rawOutput, bignum.Sub(reserveOut, rawOutput))
	if err != nil {
		return zero, zero
	}
	// Floor division undershoots; one extra unit guarantees the output.
	requiredInput = bignum.Add(requiredInput, bignum.New(1))

	fee, _ = bignum.MulDiv(rawOutput, bignum.New(uint64(p.FeePercent)), bignum.New(100))
	return requiredInput, fee
}

// PreviewFirstLiquidity returns the shares a first mint of (amountA,
// amountB) would grant on an empty pool, or zero if the pool is not
// empty or the amounts sit below the minimum-liquidity lock.
func PreviewFirstLiquidity(p *PairState, amountA, amountB *big.Int) *big.Int {
	if !bignum.IsZero(p.ReserveA) || !bignum.IsZero(p.ReserveB) {
		return bignum.Zero()
	}
	shares, res := firstLiquidityShares(amountA, amountB)
	if !res.IsSuccess() {
		return bignum.Zero()
	}
	return shares
}

// PreviewFirstPrice returns the price ratio a first mint would set, as
// amountB/amountA in Precision units.
func PreviewFirstPrice(amountA, amountB *big.Int) *big.Int {
	if amountA == nil || amountA.Sign() == 0 {
		return bignum.Zero()
	}
	price, _ := bignum.MulDiv(amountB, Precision(), amountA)
	return price
}

// AccruedFees returns an LP's accrued, not-yet-settled fee entitlement
// per side, without advancing the snapshots.
func AccruedFees(p *PairState, pos *LPPosition) (owedA, owedB *big.Int) {
	owedA = bignum.Zero()
	owedB = bignum.Zero()
	if pos == nil || bignum.IsZero(pos.Shares) {
		return owedA, owedB
	}
	precision := Precision()
	if p.FeePerShareA.Cmp(pos.EntryIndexA) > 0 {
		diff := bignum.Sub(p.FeePerShareA, pos.EntryIndexA)
		owedA, _ = bignum.MulDiv(diff, pos.Shares, precision)
	}
	if p.FeePerShareB.Cmp(pos.EntryIndexB) > 0 {
		diff := bignum.Sub(p.FeePerShareB, pos.EntryIndexB)
		owedB, _ = bignum.MulDiv(diff, pos.Shares, precision)
	}
	return owedA, owedB
}

// LoadPair reads a pair for a view query, or nil if it does not exist.
func LoadPair(view tx.LedgerView, pairID uint64) (*PairState, error) {
	return loadPair(view, pairID)
}

// LoadPosition reads an LP position for a view query, or nil.
func LoadPosition(view tx.LedgerView, pairID uint64, account string) (*LPPosition, error) {
	return loadPosition(view, pairID, account)
}

// LoadPending reads a pending entry for a view query, or nil.
func LoadPending(view tx.LedgerView, pairID uint64, account string) (*PendingState, error) {
	return loadPending(view, pairID, account)
}

// LoadRegistry reads the pair registry for a view query. A ledger that
// has never created a pair yields an empty registry.
func LoadRegistry(view tx.LedgerView) (*Registry, error) {
	reg, _, err := loadRegistry(view)
	return reg, err
}
