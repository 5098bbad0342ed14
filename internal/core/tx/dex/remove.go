package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeLiquidityRemove, func() tx.Transaction {
		return &LiquidityRemove{BaseTx: *tx.NewBaseTx(tx.TypeLiquidityRemove, "")}
	})
}

// LiquidityRemove burns some of the caller's LP shares and pays out the
// proportional slice of both reserves. A fully drained position is
// deregistered, dropping its fee-index snapshots.
type LiquidityRemove struct {
	tx.BaseTx

	PairID uint64   `json:"PairID"`
	Shares *big.Int `json:"Shares"`
}

// NewLiquidityRemove creates a LiquidityRemove operation.
func NewLiquidityRemove(account string, pairID uint64, shares *big.Int) *LiquidityRemove {
	return &LiquidityRemove{
		BaseTx: *tx.NewBaseTx(tx.TypeLiquidityRemove, account),
		PairID: pairID,
		Shares: shares,
	}
}

// TxType returns the operation type.
func (l *LiquidityRemove) TxType() tx.Type {
	return tx.TypeLiquidityRemove
}

// Validate checks the operation's form.
func (l *LiquidityRemove) Validate() error {
	if err := l.BaseTx.Validate(); err != nil {
		return err
	}
	if l.Shares == nil || l.Shares.Sign() <= 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

// Apply settles accrued fees, burns the shares, updates reserves, and
// transfers the payout.
func (l *LiquidityRemove) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, l.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	pos, err := loadPosition(ctx.View, l.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pos == nil || l.Shares.Cmp(pos.Shares) > 0 {
		return tx.TecINSUFFICIENT_SHARES
	}

	// Settle before the burn so the removed shares still collect the
	// fees they earned.
	if err := settleFees(ctx, pair, ctx.Caller, pos); err != nil {
		return tx.TefINTERNAL
	}

	totalShares := pair.TotalShares()
	amountA, err := bignum.MulDiv(l.Shares, pair.ReserveA, totalShares)
	if err != nil {
		return tx.TefINTERNAL
	}
	amountB, err := bignum.MulDiv(l.Shares, pair.ReserveB, totalShares)
	if err != nil {
		return tx.TefINTERNAL
	}
	if bignum.IsZero(amountA) && bignum.IsZero(amountB) {
		return tx.TecWITHDRAWAL_TOO_SMALL
	}

	rest := bignum.Sub(pos.Shares, l.Shares)
	k := keylet.Position(l.PairID, ctx.Caller)
	if bignum.IsZero(rest) {
		if err := ctx.View.Erase(k); err != nil {
			return tx.TefINTERNAL
		}
		pair.LPCount--
	} else {
		pos.Shares = rest
		if err := ctx.View.Update(k, pos.Serialize()); err != nil {
			return tx.TefINTERNAL
		}
	}

	pair.TotalLPShares = bignum.Sub(pair.TotalLPShares, l.Shares)
	pair.ReserveA = bignum.Sub(pair.ReserveA, amountA)
	pair.ReserveB = bignum.Sub(pair.ReserveB, amountB)

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}

	if err := ctx.Send(ctx.Caller, pair.AssetA, amountA); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Send(ctx.Caller, pair.AssetB, amountB); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["amount_a"] = amountA.String()
	ctx.Metadata["amount_b"] = amountB.String()
	return tx.TesSUCCESS
}
