package dex

import (
	"errors"
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeSwap, func() tx.Transaction {
		return &Swap{BaseTx: *tx.NewBaseTx(tx.TypeSwap, "")}
	})
}

// Swap exchanges the attached input asset for the pair's other asset
// along the constant-product curve. The fee is carved out of the raw
// output, so the pool gives up exactly the raw amount: the caller
// receives the post-fee remainder and the fee becomes accrued LP and
// platform value.
type Swap struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`

	// Side is the input side: SideA swaps A for B.
	Side Side `json:"Side"`

	// MinOutput is the slippage floor on the post-fee output.
	MinOutput *big.Int `json:"MinOutput"`
}

// NewSwap creates a Swap operation carrying the input as an attached
// payment.
func NewSwap(account string, pairID uint64, side Side, minOutput *big.Int, payment tx.Payment) *Swap {
	s := &Swap{
		BaseTx:    *tx.NewBaseTx(tx.TypeSwap, account),
		PairID:    pairID,
		Side:      side,
		MinOutput: minOutput,
	}
	s.Common.Payments = []tx.Payment{payment}
	return s
}

// TxType returns the operation type.
func (s *Swap) TxType() tx.Type {
	return tx.TypeSwap
}

// Validate checks the operation's form.
func (s *Swap) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if s.Side != SideA && s.Side != SideB {
		return errors.New("temMALFORMED: Side must be A or B")
	}
	if len(s.Common.Payments) != 1 {
		return errors.New("temMALFORMED: exactly one payment required")
	}
	if s.MinOutput != nil && s.MinOutput.Sign() < 0 {
		return tx.ErrInvalidAmount
	}
	return nil
}

func (s *Swap) minOutput() *big.Int {
	if s.MinOutput == nil {
		return bignum.Zero()
	}
	return s.MinOutput
}

func (s *Swap) outputSide() Side {
	if s.Side == SideA {
		return SideB
	}
	return SideA
}

// Apply quotes the swap, moves the reserves, distributes the fee on the
// output side, and transfers the post-fee output to the caller.
func (s *Swap) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, s.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}
	if !pair.Active {
		return tx.TecPAIR_INACTIVE
	}

	payment := ctx.Payments()[0]
	if !payment.Asset.Equal(pair.Asset(s.Side)) {
		return tx.TecBAD_TRANSFER
	}

	raw, fee, userGets, res := swapQuote(pair, s.Side, payment.Amount)
	if !res.IsSuccess() {
		return res
	}
	if userGets.Cmp(s.minOutput()) < 0 {
		return tx.TecSLIPPAGE
	}

	if s.Side == SideA {
		pair.ReserveA = bignum.Add(pair.ReserveA, payment.Amount)
		pair.ReserveB = bignum.Sub(pair.ReserveB, raw)
	} else {
		pair.ReserveB = bignum.Add(pair.ReserveB, payment.Amount)
		pair.ReserveA = bignum.Sub(pair.ReserveA, raw)
	}

	// The fee accrues in the output asset.
	distributeFee(pair, fee, s.outputSide())

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.Send(ctx.Caller, pair.Asset(s.outputSide()), userGets); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["output"] = userGets.String()
	ctx.Metadata["fee"] = fee.String()
	return tx.TesSUCCESS
}
