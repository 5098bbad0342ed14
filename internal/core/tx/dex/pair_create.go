package dex

import (
	"errors"

	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypePairCreate, func() tx.Transaction {
		return &PairCreate{BaseTx: *tx.NewBaseTx(tx.TypePairCreate, "")}
	})
}

// PairCreate registers a new trading pair. Anyone may create one;
// duplicate asset combinations are allowed, so callers should check the
// existing pair list first.
type PairCreate struct {
	tx.BaseTx

	// AssetA and AssetB are the pair's two assets.
	AssetA tx.Asset `json:"AssetA"`
	AssetB tx.Asset `json:"AssetB"`

	// FeePercent is the swap fee in whole percent, 1-10.
	FeePercent uint8 `json:"FeePercent"`
}

// NewPairCreate creates a PairCreate operation.
func NewPairCreate(account string, assetA, assetB tx.Asset, feePercent uint8) *PairCreate {
	return &PairCreate{
		BaseTx:     *tx.NewBaseTx(tx.TypePairCreate, account),
		AssetA:     assetA,
		AssetB:     assetB,
		FeePercent: feePercent,
	}
}

// TxType returns the operation type.
func (p *PairCreate) TxType() tx.Type {
	return tx.TypePairCreate
}

// Validate checks the pair definition before any state is touched.
func (p *PairCreate) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if p.AssetA.Symbol == "" || p.AssetB.Symbol == "" {
		return tx.ErrInvalidAsset
	}
	if p.AssetA.Equal(p.AssetB) {
		return errors.New("temBAD_ASSET_PAIR: assets must be different")
	}
	if p.AssetA.Native && p.AssetB.Native {
		return errors.New("temBAD_ASSET_PAIR: both assets cannot be native")
	}
	if p.FeePercent < MinFeePercent || p.FeePercent > MaxFeePercent {
		return errors.New("temBAD_FEE: fee must be 1-10 percent")
	}
	return nil
}

// Apply registers the pair and assigns it the next identifier.
func (p *PairCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	// A non-native asset carrying the native symbol would produce a pair
	// whose transfers can never match its configuration.
	native := ctx.Config.NativeAsset
	if !p.AssetA.Native && p.AssetA.Symbol == native {
		return tx.TemBAD_ASSET_PAIR
	}
	if !p.AssetB.Native && p.AssetB.Symbol == native {
		return tx.TemBAD_ASSET_PAIR
	}

	reg, exists, err := loadRegistry(ctx.View)
	if err != nil {
		return tx.TefINTERNAL
	}

	pairID := reg.NextPairID
	reg.NextPairID++
	reg.PairIDs = append(reg.PairIDs, pairID)

	pair := NewPairState(pairID, p.AssetA, p.AssetB, p.FeePercent, ctx.Caller)
	if err := ctx.View.Insert(keylet.Pair(pairID), pair.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	if err := saveRegistry(ctx.View, reg, exists); err != nil {
		return tx.TefINTERNAL
	}

	ctx.Metadata["pair_id"] = pairID
	return tx.TesSUCCESS
}
