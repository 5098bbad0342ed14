package tx

// Type identifies an operation type.
type Type uint16

const (
	TypePairCreate Type = iota + 1
	TypePairSet
	TypePairDelete
	TypeLiquidityMint
	TypePendingDeposit
	TypePendingWithdraw
	TypeLiquidityFinalize
	TypeLiquidityRemove
	TypeFeeClaim
	TypeOwnerFeeClaim
	TypeOwnerLiquidityRemove
	TypeSwap
	TypeOwnerLiquiditySeed
)

var typeNames = map[Type]string{
	TypePairCreate:           "PairCreate",
	TypePairSet:              "PairSet",
	TypePairDelete:           "PairDelete",
	TypeLiquidityMint:        "LiquidityMint",
	TypePendingDeposit:       "PendingDeposit",
	TypePendingWithdraw:      "PendingWithdraw",
	TypeLiquidityFinalize:    "LiquidityFinalize",
	TypeLiquidityRemove:      "LiquidityRemove",
	TypeFeeClaim:             "FeeClaim",
	TypeOwnerFeeClaim:        "OwnerFeeClaim",
	TypeOwnerLiquidityRemove: "OwnerLiquidityRemove",
	TypeSwap:                 "Swap",
	TypeOwnerLiquiditySeed:   "OwnerLiquiditySeed",
}

var typesByName = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, n := range typeNames {
		m[n] = t
	}
	return m
}()

// String returns the canonical name of the operation type.
func (t Type) String() string {
	if n, ok := typeNames[t]; ok {
		return n
	}
	return "Unknown"
}

// TypeFromName resolves an operation type from its canonical name.
func TypeFromName(name string) (Type, bool) {
	t, ok := typesByName[name]
	return t, ok
}
