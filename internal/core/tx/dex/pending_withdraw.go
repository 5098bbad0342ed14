package dex

import (
	"errors"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypePendingWithdraw, func() tx.Transaction {
		return &PendingWithdraw{BaseTx: *tx.NewBaseTx(tx.TypePendingWithdraw, "")}
	})
}

// PendingWithdraw returns the caller's unfinalized pending balance on
// one side, or both with SideAll. A drained entry is erased and the
// pair's pending-account counter decremented.
type PendingWithdraw struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
	Side   Side   `json:"Side"`
}

// NewPendingWithdraw creates a PendingWithdraw operation.
func NewPendingWithdraw(account string, pairID uint64, side Side) *PendingWithdraw {
	return &PendingWithdraw{
		BaseTx: *tx.NewBaseTx(tx.TypePendingWithdraw, account),
		PairID: pairID,
		Side:   side,
	}
}

// TxType returns the operation type.
func (w *PendingWithdraw) TxType() tx.Type {
	return tx.TypePendingWithdraw
}

// Validate checks the operation's form.
func (w *PendingWithdraw) Validate() error {
	if err := w.BaseTx.Validate(); err != nil {
		return err
	}
	if w.Side != SideA && w.Side != SideB && w.Side != SideAll {
		return errors.New("temMALFORMED: Side must be A, B or All")
	}
	return nil
}

// Apply zeroes the selected pending balance(s) and transfers them out.
func (w *PendingWithdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, w.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	pending, err := loadPending(ctx.View, w.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pending == nil {
		return tx.TecNO_PENDING
	}

	outA := bignum.Zero()
	outB := bignum.Zero()
	switch w.Side {
	case SideA:
		if bignum.IsZero(pending.PendingA) {
			return tx.TecNO_PENDING
		}
		outA = pending.PendingA
		pending.PendingA = bignum.Zero()
	case SideB:
		if bignum.IsZero(pending.PendingB) {
			return tx.TecNO_PENDING
		}
		outB = pending.PendingB
		pending.PendingB = bignum.Zero()
	case SideAll:
		if !pending.HasAny() {
			return tx.TecNO_PENDING
		}
		outA = pending.PendingA
		outB = pending.PendingB
		pending.PendingA = bignum.Zero()
		pending.PendingB = bignum.Zero()
	}

	pendingTransition(pair, true, pending.HasAny())

	k := keylet.Pending(w.PairID, ctx.Caller)
	if pending.HasAny() {
		err = ctx.View.Update(k, pending.Serialize())
	} else {
		err = ctx.View.Erase(k)
	}
	if err != nil {
		return tx.TefINTERNAL
	}

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}

	if err := ctx.Send(ctx.Caller, pair.AssetA, outA); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Send(ctx.Caller, pair.AssetB, outB); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
