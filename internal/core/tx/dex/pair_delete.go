package dex

import (
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func init() {
	tx.Register(tx.TypePairDelete, func() tx.Transaction {
		return &PairDelete{BaseTx: *tx.NewBaseTx(tx.TypePairDelete, "")}
	})
}

// PairDelete removes an empty trading pair. Only the pair's creator or
// the platform account may delete it, and only once nothing of value
// remains: reserves, shares of either class, pending deposits, and
// unclaimed platform fees must all be zero.
type PairDelete struct {
	tx.BaseTx

	PairID uint64 `json:"PairID"`
}

// NewPairDelete creates a PairDelete operation.
func NewPairDelete(account string, pairID uint64) *PairDelete {
	return &PairDelete{
		BaseTx: *tx.NewBaseTx(tx.TypePairDelete, account),
		PairID: pairID,
	}
}

// TxType returns the operation type.
func (p *PairDelete) TxType() tx.Type {
	return tx.TypePairDelete
}

// Validate checks the operation's form.
func (p *PairDelete) Validate() error {
	return p.BaseTx.Validate()
}

// CanDelete reports whether a pair holds nothing of value and may be
// deleted. The RPC layer exposes the same check as a view.
func CanDelete(pair *PairState) bool {
	return pair.ReserveA.Sign() == 0 &&
		pair.ReserveB.Sign() == 0 &&
		pair.LPCount == 0 &&
		pair.OwnerShares.Sign() == 0 &&
		pair.PendingAccounts == 0 &&
		pair.OwnerFeesA.Sign() == 0 &&
		pair.OwnerFeesB.Sign() == 0
}

// Apply deletes the pair and drops it from the registry.
func (p *PairDelete) Apply(ctx *tx.ApplyContext) tx.Result {
	pair, err := loadPair(ctx.View, p.PairID)
	if err != nil {
		return tx.TefINTERNAL
	}
	if pair == nil {
		return tx.TecNO_PAIR
	}

	creator := creatorOrAdmin(pair, ctx.Config.AdminAccount)
	if ctx.Caller != creator && !ctx.IsAdmin() {
		return tx.TecNO_PERMISSION
	}

	if !CanDelete(pair) {
		return tx.TecHAS_OBLIGATIONS
	}

	reg, exists, err := loadRegistry(ctx.View)
	if err != nil || !exists {
		return tx.TefINTERNAL
	}
	reg.Remove(p.PairID)

	if err := ctx.View.Erase(keylet.Pair(p.PairID)); err != nil {
		return tx.TefINTERNAL
	}
	if err := saveRegistry(ctx.View, reg, true); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
