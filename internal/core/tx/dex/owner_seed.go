package dex

import (
	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypeOwnerLiquiditySeed, func() tx.Transaction {
		return &OwnerLiquiditySeed{BaseTx: *tx.NewBaseTx(tx.TypeOwnerLiquiditySeed, "")}
	})
}

// OwnerLiquiditySeed deposits platform-owned initial liquidity: both
// attached amounts go to the reserves and OwnerShares is set to
// sqrt(reserveA*reserveB). Platform only, and only before any LP has
// joined, since re-pricing the platform class under live LP shares would
// shift everyone's proportional claims.
type OwnerLiquiditySeed struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
}

// NewOwnerLiquiditySeed creates an OwnerLiquiditySeed operation carrying
// both asset amounts as attached payments.
func NewOwnerLiquiditySeed(account string, pairID uint64, payments ...tx.Payment) *OwnerLiquiditySeed {
	s := &OwnerLiquiditySeed{
		BaseTx: *tx.NewBaseTx(tx.TypeOwnerLiquiditySeed, account),
		PairID: pairID,
	}
	s.Common.Payments = payments
	return s
}

// TxType returns the operation type.
func (s *OwnerLiquiditySeed) TxType() tx.Type {
	return tx.TypeOwnerLiquiditySeed
}

// Validate checks the operation's form.
func (s *OwnerLiquiditySeed) Validate() error {
	if err := s.BaseTx.Validate(); err != nil {
		return err
	}
	if len(s.Common.Payments) == 0 {
		return tx.ErrMissingRequiredField
	}
	return nil
}

// Apply adds the attached amounts to the reserves and recomputes the
// platform share grant.
func (s *OwnerLiquiditySeed) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}

	pair, err := loadPair(ctx.View, s.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}
	if !bignum.IsZero(pair.TotalLPShares) {
		return tx.TecHAS_OBLIGATIONS
	}

	amountA := ctx.PaymentAmount(pair.AssetA)
	amountB := ctx.PaymentAmount(pair.AssetB)
	if amountA == nil && amountB == nil {
		return tx.TecBAD_TRANSFER
	}
	if amountA != nil {
		pair.ReserveA = bignum.Add(pair.ReserveA, amountA)
	}
	if amountB != nil {
		pair.ReserveB = bignum.Add(pair.ReserveB, amountB)
	}
	if bignum.IsZero(pair.ReserveA) || bignum.IsZero(pair.ReserveB) {
		return tx.TecAMOUNTS_TOO_SMALL
	}

	pair.OwnerShares = bignum.Sqrt(bignum.Mul(pair.ReserveA, pair.ReserveB))

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["owner_shares"] = pair.OwnerShares.String()
	return tx.TesSUCCESS
}
