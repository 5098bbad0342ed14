package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

// loadPair reads a pair entry, or nil if the pair does not exist.
func loadPair(view tx.LedgerView, pairID uint64) (*PairState, error) {
	data, err := view.Read(keylet.Pair(pairID))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return ParsePairState(data)
}

func savePair(view tx.LedgerView, p *PairState) error {
	return view.Update(keylet.Pair(p.PairID), p.Serialize())
}

// loadPosition reads an account's LP position on a pair, or nil if the
// account is not an LP.
func loadPosition(view tx.LedgerView, pairID uint64, account string) (*LPPosition, error) {
	data, err := view.Read(keylet.Position(pairID, account))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return ParseLPPosition(data)
}

// loadPending reads an account's pending deposits on a pair, or nil if
// none exist.
func loadPending(view tx.LedgerView, pairID uint64, account string) (*PendingState, error) {
	data, err := view.Read(keylet.Pending(pairID, account))
	if err != nil {
		return nil, err
	}
	if data == nil {
		return nil, nil
	}
	return ParsePendingState(data)
}

// loadRegistry reads the pair registry, creating the initial entry shape
// if it has never been written.
func loadRegistry(view tx.LedgerView) (*Registry, bool, error) {
	data, err := view.Read(keylet.Registry())
	if err != nil {
		return nil, false, err
	}
	if data == nil {
		return &Registry{NextPairID: 1}, false, nil
	}
	reg, err := ParseRegistry(data)
	if err != nil {
		return nil, false, err
	}
	return reg, true, nil
}

func saveRegistry(view tx.LedgerView, reg *Registry, exists bool) error {
	if exists {
		return view.Update(keylet.Registry(), reg.Serialize())
	}
	return view.Insert(keylet.Registry(), reg.Serialize())
}

// distributeFee splits a swap fee between the platform and the LPs and
// folds the LP portion into the pair's cumulative fee-per-share index.
//
// The platform portion is blended by the platform's own share of the
// pool: ownerPortion = fee * (9*ownerPct + P) / (10*P) with
// ownerPct = ownerShares*P/totalShares. With no platform shares this
// degenerates to a flat 10% platform cut. The LP portion advances the
// index only when LP shares exist to receive it; otherwise it stays with
// the platform accumulator so no fee value is ever dropped.
func distributeFee(p *PairState, fee *big.Int, side Side) {
	if fee.Sign() == 0 {
		return
	}
	totalShares := p.TotalShares()
	if bignum.IsZero(totalShares) {
		return
	}

	precision := Precision()
	ownerPct, _ := bignum.MulDiv(p.OwnerShares, precision, totalShares)

	numerator := bignum.Add(bignum.Mul(bignum.New(9), ownerPct), precision)
	denominator := bignum.Mul(bignum.New(10), precision)
	ownerPortion, _ := bignum.MulDiv(fee, numerator, denominator)

	lpPortion := bignum.Zero()
	if fee.Cmp(ownerPortion) > 0 {
		lpPortion = bignum.Sub(fee, ownerPortion)
	}

	if bignum.IsZero(p.TotalLPShares) && !bignum.IsZero(lpPortion) {
		ownerPortion = bignum.Add(ownerPortion, lpPortion)
		lpPortion = bignum.Zero()
	}

	if side == SideA {
		p.OwnerFeesA = bignum.Add(p.OwnerFeesA, ownerPortion)
	} else {
		p.OwnerFeesB = bignum.Add(p.OwnerFeesB, ownerPortion)
	}

	if !bignum.IsZero(lpPortion) {
		increase, _ := bignum.MulDiv(lpPortion, precision, p.TotalLPShares)
		if side == SideA {
			p.FeePerShareA = bignum.Add(p.FeePerShareA, increase)
		} else {
			p.FeePerShareB = bignum.Add(p.FeePerShareB, increase)
		}
	}
}

// settleFees pays an LP everything the fee index owes it since its last
// snapshot and advances the snapshot to the current index. It must run
// before any change to the account's share balance; the position entry is
// rewritten by the caller.
func settleFees(ctx *tx.ApplyContext, p *PairState, account string, pos *LPPosition) error {
	if pos == nil || bignum.IsZero(pos.Shares) {
		return nil
	}
	precision := Precision()

	owedA := bignum.Zero()
	if p.FeePerShareA.Cmp(pos.EntryIndexA) > 0 {
		diff := bignum.Sub(p.FeePerShareA, pos.EntryIndexA)
		owedA, _ = bignum.MulDiv(diff, pos.Shares, precision)
	}
	owedB := bignum.Zero()
	if p.FeePerShareB.Cmp(pos.EntryIndexB) > 0 {
		diff := bignum.Sub(p.FeePerShareB, pos.EntryIndexB)
		owedB, _ = bignum.MulDiv(diff, pos.Shares, precision)
	}

	pos.EntryIndexA = bignum.Clone(p.FeePerShareA)
	pos.EntryIndexB = bignum.Clone(p.FeePerShareB)

	if err := ctx.Send(account, p.AssetA, owedA); err != nil {
		return err
	}
	return ctx.Send(account, p.AssetB, owedB)
}

// addLPShares credits newly minted shares to an account. A first-time LP
// is registered with fee-index snapshots at the current index, so it owes
// nothing for fees accrued before it joined.
func addLPShares(view tx.LedgerView, p *PairState, account string, shares *big.Int, pos *LPPosition) error {
	k := keylet.Position(p.PairID, account)
	if pos == nil {
		pos = &LPPosition{
			Shares:      bignum.Clone(shares),
			EntryIndexA: bignum.Clone(p.FeePerShareA),
			EntryIndexB: bignum.Clone(p.FeePerShareB),
		}
		p.LPCount++
		if err := view.Insert(k, pos.Serialize()); err != nil {
			return err
		}
	} else {
		pos.Shares = bignum.Add(pos.Shares, shares)
		if err := view.Update(k, pos.Serialize()); err != nil {
			return err
		}
	}
	p.TotalLPShares = bignum.Add(p.TotalLPShares, shares)
	return nil
}

// matchResult is the outcome of ratio-matching a two-sided contribution
// against a pool.
type matchResult struct {
	usedA   *big.Int
	usedB   *big.Int
	shares  *big.Int
	unusedA *big.Int
	unusedB *big.Int
}

// firstLiquidityShares computes the share grant for the first mint into
// an empty pool: sqrt(a*b) minus the permanently locked minimum. Returns
// TecINITIAL_LIQUIDITY when the square root does not exceed the lock.
func firstLiquidityShares(amountA, amountB *big.Int) (*big.Int, tx.Result) {
	sqrt := bignum.Sqrt(bignum.Mul(amountA, amountB))
	if sqrt.Cmp(MinimumLiquidity()) <= 0 {
		return nil, tx.TecINITIAL_LIQUIDITY
	}
	return bignum.Sub(sqrt, MinimumLiquidity()), tx.TesSUCCESS
}

// matchLiquidity fits (amountA, amountB) to the pool's current ratio. On
// an empty pool the contributor sets the ratio and both amounts are used
// in full. On a live pool the limiting side is used entirely and the
// matching amount of the other side computed; the remainder is unused.
// Shares take the minimum of the two per-side ratios so rounding can
// never dilute existing holders.
func matchLiquidity(p *PairState, amountA, amountB *big.Int) (matchResult, tx.Result) {
	if bignum.IsZero(p.ReserveA) && bignum.IsZero(p.ReserveB) {
		shares, res := firstLiquidityShares(amountA, amountB)
		if !res.IsSuccess() {
			return matchResult{}, res
		}
		return matchResult{
			usedA:   bignum.Clone(amountA),
			usedB:   bignum.Clone(amountB),
			shares:  shares,
			unusedA: bignum.Zero(),
			unusedB: bignum.Zero(),
		}, tx.TesSUCCESS
	}

	totalShares := p.TotalShares()

	optimalB, err := bignum.MulDiv(amountA, p.ReserveB, p.ReserveA)
	if err != nil {
		return matchResult{}, tx.TefINTERNAL
	}

	var usedA, usedB, unusedA, unusedB *big.Int
	if optimalB.Cmp(amountB) <= 0 {
		usedA = bignum.Clone(amountA)
		usedB = optimalB
		unusedA = bignum.Zero()
		unusedB = bignum.Sub(amountB, usedB)
	} else {
		optimalA, err := bignum.MulDiv(amountB, p.ReserveA, p.ReserveB)
		if err != nil {
			return matchResult{}, tx.TefINTERNAL
		}
		usedA = optimalA
		usedB = bignum.Clone(amountB)
		unusedA = bignum.Sub(amountA, usedA)
		unusedB = bignum.Zero()
	}

	if bignum.IsZero(usedA) || bignum.IsZero(usedB) {
		return matchResult{}, tx.TecAMOUNTS_TOO_SMALL
	}

	sharesFromA, _ := bignum.MulDiv(usedA, totalShares, p.ReserveA)
	sharesFromB, _ := bignum.MulDiv(usedB, totalShares, p.ReserveB)
	shares := bignum.Min(sharesFromA, sharesFromB)

	return matchResult{
		usedA:   usedA,
		usedB:   usedB,
		shares:  shares,
		unusedA: unusedA,
		unusedB: unusedB,
	}, tx.TesSUCCESS
}

// swapQuote computes the raw constant-product output and the fee carved
// out of it for a given input. It does not touch state.
func swapQuote(p *PairState, inputSide Side, input *big.Int) (raw, fee, userGets *big.Int, res tx.Result) {
	reserveIn, reserveOut := p.Reserves(inputSide)
	if bignum.IsZero(reserveIn) || bignum.IsZero(reserveOut) {
		return nil, nil, nil, tx.TecINVALID_OUTPUT
	}

	raw, err := bignum.MulDiv(input, reserveOut, bignum.Add(reserveIn, input))
	if err != nil {
		return nil, nil, nil, tx.TefINTERNAL
	}
	if bignum.IsZero(raw) || raw.Cmp(reserveOut) >= 0 {
		return nil, nil, nil, tx.TecINVALID_OUTPUT
	}

	fee, _ = bignum.MulDiv(raw, bignum.New(uint64(p.FeePercent)), bignum.New(100))
	userGets = bignum.Sub(raw, fee)
	if bignum.IsZero(userGets) {
		return nil, nil, nil, tx.TecOUTPUT_TOO_SMALL
	}
	return raw, fee, userGets, tx.TesSUCCESS
}

// pendingTransition maintains the pair-level count of accounts holding
// any pending balance. It must be called with the had/has values observed
// immediately before and after the mutation.
func pendingTransition(p *PairState, had, has bool) {
	switch {
	case !had && has:
		p.PendingAccounts++
	case had && !has:
		if p.PendingAccounts > 0 {
			p.PendingAccounts--
		}
	}
}

// creatorOrAdmin returns the pair's creator, defaulting to the platform
// account for pairs recorded without one.
func creatorOrAdmin(p *PairState, admin string) string {
	if p.Creator == "" {
		return admin
	}
	return p.Creator
}
