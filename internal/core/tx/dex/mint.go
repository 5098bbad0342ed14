package dex

import (
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeLiquidityMint, func() tx.Transaction {
		return &LiquidityMint{BaseTx: *tx.NewBaseTx(tx.TypeLiquidityMint, "")}
	})
}

// LiquidityMint adds liquidity in a single operation carrying both
// assets. Into an empty pool the caller sets the price ratio and the
// minimum-liquidity lock applies; into a live pool the contribution is
// fitted to the current ratio and the excess of the over-supplied side
// is refunded.
type LiquidityMint struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`

	// MinShares is the slippage floor: the mint fails if fewer shares
	// would result.
	MinShares *big.Int `json:"MinShares"`
}

// NewLiquidityMint creates a LiquidityMint operation carrying the two
// asset amounts as attached payments.
func NewLiquidityMint(account string, pairID uint64, minShares *big.Int, payments ...tx.Payment) *LiquidityMint {
	m := &LiquidityMint{
		BaseTx:    *tx.NewBaseTx(tx.TypeLiquidityMint, account),
		PairID:    pairID,
		MinShares: minShares,
	}
	m.Common.Payments = payments
	return m
}

// TxType returns the operation type.
func (m *LiquidityMint) TxType() tx.Type {
	return tx.TypeLiquidityMint
}

// Validate checks the operation's form.
func (m *LiquidityMint) Validate() error {
	if err := m.BaseTx.Validate(); err != nil {
		return err
	}
	if len(m.Common.Payments) == 0 {
		return tx.ErrMissingRequiredField
	}
	if m.MinShares != nil && m.MinShares.Sign() < 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

func (m *LiquidityMint) minShares() *big.Int {
	if m.MinShares == nil {
		return bignum.Zero()
	}
	return m.MinShares
}

// Apply fits the attached amounts to the pool, settles the caller's
// accrued fees, mints shares, and refunds whatever the ratio could not
// use.
func (m *LiquidityMint) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, m.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}
	if !pair.Active {
		return tx.TecPAIR_INACTIVE
	}

	amountA := ctx.PaymentAmount(pair.AssetA)
	amountB := ctx.PaymentAmount(pair.AssetB)
	if amountA == nil || amountA.Sign() == 0 || amountB == nil || amountB.Sign() == 0 {
		return tx.TecBAD_TRANSFER
	}

	match, res := matchLiquidity(pair, amountA, amountB)
	if !res.IsSuccess() {
		return res
	}
	if match.shares.Cmp(m.minShares()) < 0 {
		return tx.TecSLIPPAGE
	}
	if bignum.IsZero(match.shares) {
		return tx.TecSLIPPAGE
	}

	// Settle before the balance change so the new shares cannot claim
	// fees indexed before they existed.
	pos, err := loadPosition(ctx.View, m.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := settleFees(ctx, pair, ctx.Caller, pos); err != nil {
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

	if err := ctx.Send(ctx.Caller, pair.AssetA, match.unusedA); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Send(ctx.Caller, pair.AssetB, match.unusedB); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["shares"] = match.shares.String()
	ctx.Metadata["used_a"] = match.usedA.String()
	ctx.Metadata["used_b"] = match.usedB.String()
	return tx.TesSUCCESS
}
