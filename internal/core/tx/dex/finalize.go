package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeLiquidityFinalize, func() tx.Transaction {
		return &LiquidityFinalize{BaseTx: *tx.NewBaseTx(tx.TypeLiquidityFinalize, "")}
	})
}

// LiquidityFinalize matches the caller's pending balances against the
// current pool ratio and converts the matched portion into an LP
// position. The unmatched remainder stays in pending storage: unlike the
// single-operation mint, nothing is auto-refunded, and the caller
// withdraws leftovers explicitly.
type LiquidityFinalize struct {
	tx.BaseTx

	PairID    uint64   `json:"PairID"`
	MinShares *big.Int `json:"MinShares"`
}

// NewLiquidityFinalize creates a LiquidityFinalize operation.
func NewLiquidityFinalize(account string, pairID uint64, minShares *big.Int) *LiquidityFinalize {
	return &LiquidityFinalize{
		BaseTx:    *tx.NewBaseTx(tx.TypeLiquidityFinalize, account),
		PairID:    pairID,
		MinShares: minShares,
	}
}

// TxType returns the operation type.
func (f *LiquidityFinalize) TxType() tx.Type {
	return tx.TypeLiquidityFinalize
}

// Validate checks the operation's form.
func (f *LiquidityFinalize) Validate() error {
	if err := f.BaseTx.Validate(); err != nil {
		return err
	}
	if f.MinShares != nil && f.MinShares.Sign() < 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

func (f *LiquidityFinalize) minShares() *big.Int {
	if f.MinShares == nil {
		return bignum.Zero()
	}
	return f.MinShares
}

// Apply matches pending balances to the pool and mints shares for the
// used portion.
func (f *LiquidityFinalize) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, f.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}
	if !pair.Active {
		return tx.TecPAIR_INACTIVE
	}

	pending, err := loadPending(ctx.View, f.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pending == nil || bignum.IsZero(pending.PendingA) || bignum.IsZero(pending.PendingB) {
		return tx.TecNO_PENDING
	}

	match, res := matchLiquidity(pair, pending.PendingA, pending.PendingB)
	if !res.IsSuccess() {
		return res
	}
	if match.shares.Cmp(f.minShares()) < 0 {
		return tx.TecSLIPPAGE
	}
	if bignum.IsZero(match.shares) {
		return tx.TecSLIPPAGE
	}

	pos, err := loadPosition(ctx.View, f.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := settleFees(ctx, pair, ctx.Caller, pos); err != nil {
		return tx.TefINTERNAL
	}

	// The used portion leaves pending storage; the rest stays parked.
	pending.PendingA = bignum.Sub(pending.PendingA, match.usedA)
	pending.PendingB = bignum.Sub(pending.PendingB, match.usedB)
	pendingTransition(pair, true, pending.HasAny())

	k := keylet.Pending(f.PairID, ctx.Caller)
	if pending.HasAny() {
		err = ctx.View.Update(k, pending.Serialize())
	} else {
		err = ctx.View.Erase(k)
	}
	if err != nil {
		return tx.TefINTERNAL
	}

	pair.ReserveA = bignum.Add(pair.ReserveA, match.usedA)
	pair.ReserveB = bignum.Add(pair.ReserveB, match.usedB)

	if err := addLPShares(ctx.View, pair, ctx.Caller, match.shares, pos); err != nil {
		return tx.TefINTERNAL
	}
	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["shares"] = match.shares.String()
	return tx.TesSUCCESS
}
