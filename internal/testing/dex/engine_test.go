package dex_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"

	coretx "github.com/digiko/dexd/internal/core/tx"
	coredex "github.com/digiko/dexd/internal/core/tx/dex"
	jtx "github.com/digiko/dexd/internal/testing"
	"github.com/digiko/dexd/internal/testing/dex"
)

func TestEngineAtomicity(t *testing.T) {
	t.Run("FailedOpLeavesNoTrace", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		entriesBefore := env.State.Len()
		dgkBefore := env.Balance(jtx.Bob, env.DGK)
		usdBefore := env.Balance(jtx.Bob, env.USD)

		// The attached payment is debited before Apply runs; the
		// slippage failure throws the whole buffered table away,
		// debit included.
		res := env.Submit(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, env.Pair(pairID).ReserveB,
			jtx.Pay(env.DGK, 10_000)))
		require.Equal(t, coretx.TecSLIPPAGE, res.Result)
		require.False(t, res.Applied)
		require.Empty(t, res.Changes)

		require.Equal(t, entriesBefore, env.State.Len())
		require.Zero(t, dgkBefore.Cmp(env.Balance(jtx.Bob, env.DGK)))
		require.Zero(t, usdBefore.Cmp(env.Balance(jtx.Bob, env.USD)))
		env.RequireReserves(pairID, 100_000, 100_000)
	})

	t.Run("Unfunded", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()

		stranger := "mallory"
		env.SubmitErr(coredex.NewLiquidityMint(stranger, pairID, nil,
			jtx.Pay(env.DGK, 1_000), jtx.Pay(env.USD, 1_000)), coretx.TecUNFUNDED)
	})

	t.Run("PartiallyFunded", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()

		poor := "poor"
		env.Fund(poor, env.DGK, 10_000)
		env.Fund(poor, env.USD, 500)

		env.SubmitErr(coredex.NewLiquidityMint(poor, pairID, nil,
			jtx.Pay(env.DGK, 10_000), jtx.Pay(env.USD, 1_000)), coretx.TecUNFUNDED)

		// The first debit succeeded in the buffer only.
		env.RequireBalance(poor, env.DGK, 10_000)
		env.RequireBalance(poor, env.USD, 500)
	})

	t.Run("Malformed", func(t *testing.T) {
		env := dex.NewDexEnv(t)

		res := env.Submit(coredex.NewPairCreate("", env.DGK, env.USD, 1))
		require.Equal(t, coretx.TemMALFORMED, res.Result)

		env.SubmitErr(coredex.NewPairCreate(jtx.Alice, env.DGK, env.USD, 0), coretx.TemBAD_FEE)
		env.SubmitErr(coredex.NewPairCreate(jtx.Alice, env.USD, env.USD, 1), coretx.TemBAD_ASSET_PAIR)
	})

	t.Run("ChangesReported", func(t *testing.T) {
		env := dex.NewDexEnv(t)

		res := env.SubmitOK(coredex.NewPairCreate(jtx.Alice, env.DGK, env.USD, 1))
		require.True(t, res.Applied)
		// A creation touches the pair entry and the registry.
		require.Len(t, res.Changes, 2)
	})
}

func TestOperationJSON(t *testing.T) {
	t.Run("SubmitRoundTrip", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		blob := []byte(`{
			"TransactionType": "Swap",
			"Account": "bob",
			"PairID": 1,
			"Side": "A",
			"Payments": [{"asset": {"symbol": "DGK", "native": true}, "amount": 10000}]
		}`)

		txn, err := coretx.FromJSON(blob)
		require.NoError(t, err)
		require.Equal(t, coretx.TypeSwap, txn.TxType())

		res := env.Submit(txn)
		require.True(t, res.Result.IsSuccess(), "%s: %s", res.Result, res.Message)
		require.Equal(t, "9000", res.Meta["output"])
	})

	t.Run("UnknownType", func(t *testing.T) {
		_, err := coretx.FromJSON([]byte(`{"TransactionType": "Teleport", "Account": "bob"}`))
		require.Error(t, err)
	})

	t.Run("AllTypesRegistered", func(t *testing.T) {
		for _, name := range []string{
			"PairCreate", "PairDelete", "PairSet",
			"LiquidityMint", "PendingDeposit", "PendingWithdraw", "LiquidityFinalize",
			"LiquidityRemove", "FeeClaim",
			"OwnerFeeClaim", "OwnerLiquidityRemove", "OwnerLiquiditySeed",
			"Swap",
		} {
			typ, ok := coretx.TypeFromName(name)
			require.True(t, ok, "type %s not named", name)
			txn, err := coretx.NewFromType(typ)
			require.NoError(t, err, "type %s not registered", name)
			require.Equal(t, typ, txn.TxType())

			blob, err := json.Marshal(map[string]any{
				"TransactionType": name,
				"Account":         "alice",
			})
			require.NoError(t, err)
			parsed, err := coretx.FromJSON(blob)
			require.NoError(t, err)
			require.Equal(t, typ, parsed.TxType())
		}
	})
}
