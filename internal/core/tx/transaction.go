package tx

import (
	"errors"

	"github.com/digiko/dexd/internal/core/ledger/keylet"
)

// Common validation errors
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidAccount       = errors.New("invalid account")
	ErrInvalidAmount        = errors.New("invalid amount")
	ErrInvalidAsset         = errors.New("invalid asset")
)

// LedgerView provides read/write access to ledger state. Both the
// authoritative state map and the per-operation state table implement it.
type LedgerView interface {
	// Read returns the entry for k, or nil if it does not exist.
	Read(k keylet.Keylet) ([]byte, error)

	// Exists reports whether an entry exists for k.
	Exists(k keylet.Keylet) (bool, error)

	// Insert adds a new entry. It fails if the entry already exists.
	Insert(k keylet.Keylet, data []byte) error

	// Update replaces an existing entry. It fails if the entry does not exist.
	Update(k keylet.Keylet, data []byte) error

	// Erase removes an entry. It fails if the entry does not exist.
	Erase(k keylet.Keylet) error
}

// Transaction is the interface that all operation types implement.
type Transaction interface {
	// TxType returns the operation type.
	TxType() Type

	// GetCommon returns the common operation fields.
	GetCommon() *Common

	// Validate checks the operation's form before any state is touched.
	Validate() error
}

// Appliable is implemented by operation types that apply themselves to
// ledger state. Each type lives in its own file instead of a central
// switch in the engine.
type Appliable interface {
	Apply(ctx *ApplyContext) Result
}

// Common contains fields shared by all operation types.
type Common struct {
	// Account is the caller submitting the operation.
	Account string `json:"Account"`

	// TransactionType names the operation type.
	TransactionType string `json:"TransactionType"`

	// Payments are the asset amounts attached to the operation. The engine
	// debits them from the caller's balances before Apply runs; assets the
	// operation does not consume stay in the engine's custody.
	Payments []Payment `json:"Payments,omitempty"`
}

// BaseTx provides the Common fields plus default behavior for all
// operation types. Concrete types embed it.
type BaseTx struct {
	Common
}

// NewBaseTx creates a BaseTx for the given type and account.
func NewBaseTx(txType Type, account string) *BaseTx {
	return &BaseTx{
		Common: Common{
			Account:         account,
			TransactionType: txType.String(),
		},
	}
}

// GetCommon returns the common operation fields.
func (b *BaseTx) GetCommon() *Common {
	return &b.Common
}

// Validate checks the fields every operation must carry. Concrete types
// call it first from their own Validate.
func (b *BaseTx) Validate() error {
	if b.Account == "" {
		return ErrInvalidAccount
	}
	for _, p := range b.Payments {
		if p.Amount == nil || p.Amount.Sign() <= 0 {
			return ErrInvalidAmount
		}
		if p.Asset.Symbol == "" {
			return ErrInvalidAsset
		}
	}
	return nil
}
