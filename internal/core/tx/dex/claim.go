package dex

import (
	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeFeeClaim, func() tx.Transaction {
		return &FeeClaim{BaseTx: *tx.NewBaseTx(tx.TypeFeeClaim, "")}
	})
}

// FeeClaim settles the caller's accrued LP fees on a pair without
// touching the position's shares.
type FeeClaim struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
}

// NewFeeClaim creates a FeeClaim operation.
func NewFeeClaim(account string, pairID uint64) *FeeClaim {
	return &FeeClaim{
		BaseTx: *tx.NewBaseTx(tx.TypeFeeClaim, account),
		PairID: pairID,
	}
}

// TxType returns the operation type.
func (c *FeeClaim) TxType() tx.Type {
	return tx.TypeFeeClaim
}

// Validate checks the operation's form.
func (c *FeeClaim) Validate() error {
	return c.BaseTx.Validate()
}

// Apply pays out everything the fee index owes the caller and advances
// its snapshots.
func (c *FeeClaim) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, c.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	pos, err := loadPosition(ctx.View, c.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pos == nil || bignum.IsZero(pos.Shares) {
		return tx.TecNOTHING_TO_CLAIM
	}

	if err := settleFees(ctx, pair, ctx.Caller, pos); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(keylet.Position(c.PairID, ctx.Caller), pos.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
