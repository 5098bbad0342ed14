package dex

import (
	"errors"

	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypePairSet, func() tx.Transaction {
		return &PairSet{BaseTx: *tx.NewBaseTx(tx.TypePairSet, "")}
	})
}

// PairSet adjusts a pair's configuration: the active flag, the fee rate,
// or one of the assets. Platform only. Asset replacement is allowed only
// while the affected side's reserve is zero, so recorded liquidity can
// never be re-labeled as a different asset.
type PairSet struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`

	// Active, when set, enables or disables trading on the pair.
	Active *bool `json:"Active,omitempty"`

	// FeePercent, when non-zero, replaces the swap fee (1-10).
	FeePercent uint8 `json:"FeePercent,omitempty"`

	// SetAsset, when set, names the side whose asset is replaced by Asset.
	SetAsset Side     `json:"SetAsset,omitempty"`
	Asset    tx.Asset `json:"Asset,omitempty"`
}

// TxType returns the operation type.
func (p *PairSet) TxType() tx.Type {
	return tx.TypePairSet
}

// Validate checks the operation's form.
func (p *PairSet) Validate() error {
	if err := p.BaseTx.Validate(); err != nil {
		return err
	}
	if p.Active == nil && p.FeePercent == 0 && p.SetAsset == "" {
		return errors.New("temMALFORMED: nothing to set")
	}
	if p.FeePercent != 0 && (p.FeePercent < MinFeePercent || p.FeePercent > MaxFeePercent) {
		return errors.New("temBAD_FEE: fee must be 1-10 percent")
	}
	if p.SetAsset != "" {
		if p.SetAsset != SideA && p.SetAsset != SideB {
			return errors.New("temMALFORMED: SetAsset must be A or B")
		}
		if p.Asset.Symbol == "" {
			return tx.ErrInvalidAsset
		}
	}
	return nil
}

// Apply updates the pair configuration.
func (p *PairSet) Apply(ctx *tx.ApplyContext) tx.Result {
	if !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}

	pair, err := loadPair(ctx.View, p.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	if p.Active != nil {
		pair.Active = *p.Active
	}
	if p.FeePercent != 0 {
		pair.FeePercent = p.FeePercent
	}

	if p.SetAsset != "" {
		other := pair.AssetB
		reserve := pair.ReserveA
		if p.SetAsset == SideB {
			other = pair.AssetA
			reserve = pair.ReserveB
		}
		if reserve.Sign() != 0 {
			return tx.TecHAS_OBLIGATIONS
		}
		if p.Asset.Equal(other) {
			return tx.TemBAD_ASSET_PAIR
		}
		if p.Asset.Native && other.Native {
			return tx.TemBAD_ASSET_PAIR
		}
		if !p.Asset.Native && p.Asset.Symbol == ctx.Config.NativeAsset {
			return tx.TemBAD_ASSET_PAIR
		}
		if p.SetAsset == SideA {
			pair.AssetA = p.Asset
		} else {
			pair.AssetB = p.Asset
		}
	}

	if err := savePair(ctx.View, pair); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
