// Package dex implements the trading-pair operations: pair management,
// liquidity provision, swaps, and fee claims. All accounting runs on
// arbitrary-precision integers with floor division.
package dex

import "math/big"

const (
	// MinFeePercent and MaxFeePercent bound a pair's swap fee.
	MinFeePercent = 1
	MaxFeePercent = 10

	// minimumLiquidityRaw is the share amount permanently locked by the
	// first mint into an empty pool.
	minimumLiquidityRaw = 1000

	// precisionRaw scales the cumulative fee-per-share index.
	precisionRaw = 1_000_000_000_000
)

// Precision returns the fee-index scaling constant (1e12).
func Precision() *big.Int {
	return new(big.Int).SetUint64(precisionRaw)
}

// MinimumLiquidity returns the locked first-mint share amount.
func MinimumLiquidity() *big.Int {
	return new(big.Int).SetUint64(minimumLiquidityRaw)
}
