package dex

import (
	"errors"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypePendingDeposit, func() tx.Transaction {
		return &PendingDeposit{BaseTx: *tx.NewBaseTx(tx.TypePendingDeposit, "")}
	})
}

// PendingDeposit parks an attached amount of one pair asset in the
// caller's pending balance, to be matched into a position later by
// LiquidityFinalize. Each side can be deposited independently, any
// number of times.
type PendingDeposit struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
	Side   Side   `json:"Side"`
}

// NewPendingDeposit creates a PendingDeposit operation carrying the
// amount as an attached payment.
func NewPendingDeposit(account string, pairID uint64, side Side, payment tx.Payment) *PendingDeposit {
	d := &PendingDeposit{
		BaseTx: *tx.NewBaseTx(tx.TypePendingDeposit, account),
		PairID: pairID,
		Side:   side,
	}
	d.Common.Payments = []tx.Payment{payment}
	return d
}

// TxType returns the operation type.
func (d *PendingDeposit) TxType() tx.Type {
	return tx.TypePendingDeposit
}

// Validate checks the operation's form.
func (d *PendingDeposit) Validate() error {
	if err := d.BaseTx.Validate(); err != nil {
		return err
	}
	if d.Side != SideA && d.Side != SideB {
		return errors.New("temMALFORMED: Side must be A or B")
	}
	if len(d.Common.Payments) != 1 {
		return errors.New("temMALFORMED: exactly one payment required")
	}
	return nil
}

// Apply credits the attached amount to the caller's pending balance on
// the declared side.
func (d *PendingDeposit) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, d.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	payment := ctx.Payments()[0]
	if !payment.Asset.Equal(pair.Asset(d.Side)) {
		return tx.TecBAD_TRANSFER
	}

	pending, err := loadPending(ctx.View, d.PairID, ctx.Caller)
	if err != nil {
		return tx.TefINTERNAL
	}
	k := keylet.Pending(d.PairID, ctx.Caller)

	isNew := pending == nil
	if isNew {
		pending = NewPendingState()
	}
	had := pending.HasAny()

	if d.Side == SideA {
		pending.PendingA = bignum.Add(pending.PendingA, payment.Amount)
	} else {
		pending.PendingB = bignum.Add(pending.PendingB, payment.Amount)
	}
	pendingTransition(pair, had, pending.HasAny())

	if isNew {
		err = ctx.View.Insert(k, pending.Serialize())
	} else {
		err = ctx.View.Update(k, pending.Serialize())
	}
	if err != nil {
		return tx.TefINTERNAL
	}

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
