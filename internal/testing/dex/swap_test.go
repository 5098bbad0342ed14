package dex_test

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	coretx "github.com/digiko/dexd/internal/core/tx"
	coredex "github.com/digiko/dexd/internal/core/tx/dex"
	jtx "github.com/digiko/dexd/internal/testing"
	"github.com/digiko/dexd/internal/testing/dex"
)

func TestSwap(t *testing.T) {
	t.Run("Basic", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		dgkBefore := env.Balance(jtx.Bob, env.DGK)
		usdBefore := env.Balance(jtx.Bob, env.USD)

		// raw = 10000 * 100000 / 110000 = 9090, fee = 1% of raw = 90.
		res := env.SubmitOK(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, nil,
			jtx.Pay(env.DGK, 10_000)))
		require.Equal(t, "9000", res.Meta["output"])
		require.Equal(t, "90", res.Meta["fee"])

		// The full raw output leaves the pool; the fee is held for
		// distribution, not returned to reserves.
		env.RequireReserves(pairID, 110_000, 90_910)

		dgkSpent := new(big.Int).Sub(dgkBefore, env.Balance(jtx.Bob, env.DGK))
		usdGained := new(big.Int).Sub(env.Balance(jtx.Bob, env.USD), usdBefore)
		require.Equal(t, int64(10_000), dgkSpent.Int64())
		require.Equal(t, int64(9_000), usdGained.Int64())
	})

	t.Run("ConstantProductNonDecreasing", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 123_457, 654_321)

		for _, amount := range []int64{1_000, 50_000, 7, 31_337} {
			p := env.Pair(pairID)
			before := new(big.Int).Mul(p.ReserveA, p.ReserveB)

			env.SwapOK(jtx.Bob, pairID, coredex.SideA, amount)

			p = env.Pair(pairID)
			after := new(big.Int).Mul(p.ReserveA, p.ReserveB)
			require.True(t, after.Cmp(before) >= 0,
				"product decreased: %s -> %s", before, after)
		}
	})

	t.Run("BothDirections", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		env.SwapOK(jtx.Bob, pairID, coredex.SideA, 10_000)
		out := env.SwapOK(jtx.Bob, pairID, coredex.SideB, 9_000)

		// Round-tripping through the fee loses value.
		require.True(t, out.Int64() < 10_000)
	})

	t.Run("Slippage", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		env.SubmitErr(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, big.NewInt(9_001),
			jtx.Pay(env.DGK, 10_000)), coretx.TecSLIPPAGE)

		// The exact quote passes.
		env.SubmitOK(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, big.NewInt(9_000),
			jtx.Pay(env.DGK, 10_000)))
	})

	t.Run("DustInput", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 2_000, 2_000)

		// raw = 1 * 2000 / 2001 = 0.
		env.SubmitErr(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, nil,
			jtx.Pay(env.DGK, 1)), coretx.TecINVALID_OUTPUT)
	})

	t.Run("WrongAsset", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		// Attaching EUR to a DGK/USD swap cannot match either side.
		env.SubmitErr(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, nil,
			jtx.Pay(env.EUR, 10_000)), coretx.TecBAD_TRANSFER)
	})

	t.Run("InactivePair", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		inactive := false
		env.SubmitOK(&coredex.PairSet{
			BaseTx: *coretx.NewBaseTx(coretx.TypePairSet, jtx.Admin),
			PairID: pairID,
			Active: &inactive,
		})

		env.SubmitErr(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, nil,
			jtx.Pay(env.DGK, 10_000)), coretx.TecPAIR_INACTIVE)
	})

	t.Run("EmptyPool", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()

		env.SubmitErr(coredex.NewSwap(jtx.Bob, pairID, coredex.SideA, nil,
			jtx.Pay(env.DGK, 10_000)), coretx.TecINVALID_OUTPUT)
	})
}

func TestSwapQuotes(t *testing.T) {
	t.Run("MatchesExecution", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 123_457, 654_321)

		quoted, _ := coredex.QuoteSwap(env.Pair(pairID), coredex.SideA, big.NewInt(10_000))
		out := env.SwapOK(jtx.Bob, pairID, coredex.SideA, 10_000)
		require.Zero(t, quoted.Cmp(out), "quote %s != executed %s", quoted, out)
	})

	t.Run("ReverseCoversDesired", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		desired := big.NewInt(9_000)
		required, _ := coredex.QuoteSwapReverse(env.Pair(pairID), coredex.SideA, desired)
		require.True(t, required.Sign() > 0)

		out := env.SwapOK(jtx.Bob, pairID, coredex.SideA, required.Int64())
		require.True(t, out.Cmp(desired) >= 0,
			"reverse quote %s delivered only %s of %s", required, out, desired)
	})

	t.Run("ReverseExhaustsPool", func(t *testing.T) {
		env := dex.NewDexEnv(t)
		pairID := env.StandardPair()
		env.MintOK(jtx.Alice, pairID, 100_000, 100_000)

		// No input can extract the full reserve.
		required, fee := coredex.QuoteSwapReverse(env.Pair(pairID), coredex.SideA, big.NewInt(100_000))
		require.Zero(t, required.Sign())
		require.Zero(t, fee.Sign())
	})
}
