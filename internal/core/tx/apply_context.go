package tx

import "math/big"

// ApplyContext provides the state and helpers an operation needs to apply
// itself. It is passed to Appliable.Apply() instead of individual
// parameters.
type ApplyContext struct {
	// View provides read/write access to ledger state (the state table).
	View LedgerView

	// Caller is the account that submitted the operation. Its attached
	// payments have already been debited from its balances.
	Caller string

	// Config holds engine configuration.
	Config EngineConfig

	// Metadata collects operation outputs (created pair IDs, refunded or
	// delivered amounts) for the submit response.
	Metadata map[string]any

	payments []Payment
}

// PaymentAmount returns the attached amount of the given asset, or nil if
// the caller attached none of it.
func (ctx *ApplyContext) PaymentAmount(asset Asset) *big.Int {
	for _, p := range ctx.payments {
		if p.Asset.Equal(asset) {
			return p.Amount
		}
	}
	return nil
}

// Payments returns all attached payments.
func (ctx *ApplyContext) Payments() []Payment {
	return ctx.payments
}

// IsAdmin reports whether the caller is the configured platform account.
func (ctx *ApplyContext) IsAdmin() bool {
	return ctx.Caller == ctx.Config.AdminAccount
}

// Send credits amount of asset to an account's balance. Operations use it
// for every outgoing transfer: swap proceeds, withdrawals, refunds, fee
// claims.
func (ctx *ApplyContext) Send(to string, asset Asset, amount *big.Int) error {
	if amount.Sign() == 0 {
		return nil
	}
	return creditBalance(ctx.View, to, asset, amount)
}
