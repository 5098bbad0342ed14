package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeOwnerFeeClaim, func() tx.Transaction {
		return &OwnerFeeClaim{BaseTx: *tx.NewBaseTx(tx.TypeOwnerFeeClaim, "")}
	})
	tx.Register(tx.TypeOwnerLiquidityRemove, func() tx.Transaction {
		return &OwnerLiquidityRemove{BaseTx: *tx.NewBaseTx(tx.TypeOwnerLiquidityRemove, "")}
	})
}

// OwnerFeeClaim transfers a pair's accumulated platform fees to the
// platform account and clears both accumulators. Platform only.
type OwnerFeeClaim struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
}

// NewOwnerFeeClaim creates an OwnerFeeClaim operation.
func NewOwnerFeeClaim(account string, pairID uint64) *OwnerFeeClaim {
	return &OwnerFeeClaim{
		BaseTx: *tx.NewBaseTx(tx.TypeOwnerFeeClaim, account),
		PairID: pairID,
	}
}

// TxType returns the operation type.
func (c *OwnerFeeClaim) TxType() tx.Type {
	return tx.TypeOwnerFeeClaim
}

// Validate checks the operation's form.
func (c *OwnerFeeClaim) Validate() error {
	return c.BaseTx.Validate()
}

// Apply clears the accumulators and pays them out.
func (c *OwnerFeeClaim) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}

	pair, err := loadPair(ctx.View, c.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	feesA := pair.OwnerFeesA
	feesB := pair.OwnerFeesB
	if bignum.IsZero(feesA) && bignum.IsZero(feesB) {
		return tx.TecNOTHING_TO_CLAIM
	}

	pair.OwnerFeesA = bignum.Zero()
	pair.OwnerFeesB = bignum.Zero()
	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}

	if err := ctx.Send(ctx.Caller, pair.AssetA, feesA); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Send(ctx.Caller, pair.AssetB, feesB); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// OwnerLiquidityRemove burns platform-class shares and pays the platform
// account its proportional slice of both reserves. The platform class
// holds no fee-index snapshots; its accrual runs through the unclaimed
// accumulators instead, so no settlement precedes the burn.
type OwnerLiquidityRemove struct {
	tx.BaseTx

	PairID uint64   `json:"PairID"`
	Shares *big.Int `json:"Shares"`
}

// NewOwnerLiquidityRemove creates an OwnerLiquidityRemove operation.
func NewOwnerLiquidityRemove(account string, pairID uint64, shares *big.Int) *OwnerLiquidityRemove {
	return &OwnerLiquidityRemove{
		BaseTx: *tx.NewBaseTx(tx.TypeOwnerLiquidityRemove, account),
		PairID: pairID,
		Shares: shares,
	}
}

// TxType returns the operation type.
func (o *OwnerLiquidityRemove) TxType() tx.Type {
	return tx.TypeOwnerLiquidityRemove
}

// Validate checks the operation's form.
func (o *OwnerLiquidityRemove) Validate() error {
	if err := o.BaseTx.Validate(); err != nil {
		return err
	}
	if o.Shares == nil || o.Shares.Sign() <= 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

// Apply burns the platform shares and transfers the payout.
func (o *OwnerLiquidityRemove) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}

	pair, err := loadPair(ctx.View, o.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}
	if o.Shares.Cmp(pair.OwnerShares) > 0 {
		return tx.TecINSUFFICIENT_SHARES
	}

	totalShares := pair.TotalShares()
	amountA, err := bignum.MulDiv(o.Shares, pair.ReserveA, totalShares)
	if err != nil {
		return tx.TefINTERNAL
	}
	amountB, err := bignum.MulDiv(o.Shares, pair.ReserveB, totalShares)
	if err != nil {
		return tx.TefINTERNAL
	}

	pair.OwnerShares = bignum.Sub(pair.OwnerShares, o.Shares)
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
	return tx.TesSUCCESS
}
