package dex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

func testPair(reserveA, reserveB int64, feePercent uint8) *PairState {
	p := NewPairState(1,
		tx.Asset{Symbol: "DGK", Native: true},
		tx.Asset{Symbol: "USD"},
		feePercent, "alice")
	p.ReserveA = big.NewInt(reserveA)
	p.ReserveB = big.NewInt(reserveB)
	return p
}

func TestSwapQuoteMath(t *testing.T) {
	tests := []struct {
		name               string
		reserveIn          int64
		reserveOut         int64
		fee                uint8
		input              int64
		wantRaw            int64
		wantFee            int64
		wantOut            int64
		wantRes            tx.Result
	}{
		{
			name:      "balanced pool",
			reserveIn: 100_000, reserveOut: 100_000, fee: 1,
			input:   10_000,
			wantRaw: 9_090, wantFee: 90, wantOut: 9_000,
			wantRes: tx.TesSUCCESS,
		},
		{
			name:      "skewed pool",
			reserveIn: 200_000, reserveOut: 50_000, fee: 3,
			input:   10_000,
			wantRaw: 2_380, wantFee: 71, wantOut: 2_309,
			wantRes: tx.TesSUCCESS,
		},
		{
			name:      "max fee",
			reserveIn: 100_000, reserveOut: 100_000, fee: 10,
			input:   10_000,
			wantRaw: 9_090, wantFee: 909, wantOut: 8_181,
			wantRes: tx.TesSUCCESS,
		},
		{
			name:      "dust input rounds to nothing",
			reserveIn: 100_000, reserveOut: 100_000, fee: 1,
			input:   1,
			wantRes: tx.TecINVALID_OUTPUT,
		},
		{
			name:      "empty pool",
			reserveIn: 0, reserveOut: 0, fee: 1,
			input:   10_000,
			wantRes: tx.TecINVALID_OUTPUT,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := testPair(tt.reserveIn, tt.reserveOut, tt.fee)
			raw, fee, out, res := swapQuote(p, SideA, big.NewInt(tt.input))
			require.Equal(t, tt.wantRes, res)
			if !res.IsSuccess() {
				return
			}
			require.Equal(t, tt.wantRaw, raw.Int64())
			require.Equal(t, tt.wantFee, fee.Int64())
			require.Equal(t, tt.wantOut, out.Int64())
		})
	}
}

// The output can approach but never exhaust the opposite reserve.
func TestSwapQuoteCannotDrainReserve(t *testing.T) {
	p := testPair(1_000, 1_000, 1)
	raw, _, _, res := swapQuote(p, SideA, big.NewInt(1_000_000_000))
	require.Equal(t, tx.TesSUCCESS, res)
	require.True(t, raw.Int64() < 1_000)
}

func TestSwapQuoteSides(t *testing.T) {
	p := testPair(100_000, 50_000, 1)

	// Side selects the input reserve.
	rawA, _, _, res := swapQuote(p, SideA, big.NewInt(10_000))
	require.True(t, res.IsSuccess())
	require.Equal(t, int64(4_545), rawA.Int64()) // 10000*50000/110000

	rawB, _, _, res := swapQuote(p, SideB, big.NewInt(10_000))
	require.True(t, res.IsSuccess())
	require.Equal(t, int64(16_666), rawB.Int64()) // 10000*100000/60000
}

func TestFirstLiquidityShares(t *testing.T) {
	tests := []struct {
		a, b    int64
		want    int64
		wantRes tx.Result
	}{
		{a: 100_000, b: 100_000, want: 99_000, wantRes: tx.TesSUCCESS},
		{a: 40_000, b: 10_000, want: 19_000, wantRes: tx.TesSUCCESS},
		{a: 1_001, b: 1_001, want: 1, wantRes: tx.TesSUCCESS},
		{a: 1_000, b: 1_000, wantRes: tx.TecINITIAL_LIQUIDITY},
		{a: 1, b: 1, wantRes: tx.TecINITIAL_LIQUIDITY},
		{a: 1_000_000, b: 1, wantRes: tx.TecINITIAL_LIQUIDITY}, // sqrt(1e6) = 1000
	}
	for _, tt := range tests {
		shares, res := firstLiquidityShares(big.NewInt(tt.a), big.NewInt(tt.b))
		require.Equal(t, tt.wantRes, res, "firstLiquidityShares(%d, %d)", tt.a, tt.b)
		if res.IsSuccess() {
			require.Equal(t, tt.want, shares.Int64())
		}
	}
}

func TestMatchLiquidity(t *testing.T) {
	t.Run("ExcessB", func(t *testing.T) {
		p := testPair(200_000, 100_000, 1)
		p.TotalLPShares = big.NewInt(140_421)

		m, res := matchLiquidity(p, big.NewInt(50_000), big.NewInt(50_000))
		require.True(t, res.IsSuccess())
		require.Equal(t, int64(50_000), m.usedA.Int64())
		require.Equal(t, int64(25_000), m.usedB.Int64())
		require.Equal(t, int64(0), m.unusedA.Int64())
		require.Equal(t, int64(25_000), m.unusedB.Int64())
		require.Equal(t, int64(35_105), m.shares.Int64())
	})

	t.Run("ExcessA", func(t *testing.T) {
		p := testPair(200_000, 100_000, 1)
		p.TotalLPShares = big.NewInt(140_421)

		m, res := matchLiquidity(p, big.NewInt(80_000), big.NewInt(20_000))
		require.True(t, res.IsSuccess())
		require.Equal(t, int64(40_000), m.usedA.Int64())
		require.Equal(t, int64(20_000), m.usedB.Int64())
		require.Equal(t, int64(40_000), m.unusedA.Int64())
		require.Equal(t, int64(0), m.unusedB.Int64())
	})

	t.Run("TooSmallToMatch", func(t *testing.T) {
		p := testPair(1_000_000, 10, 1)
		p.TotalLPShares = big.NewInt(2_162)

		// Matching 100 of A wants 0.001 of B, which floors to zero.
		_, res := matchLiquidity(p, big.NewInt(100), big.NewInt(10))
		require.Equal(t, tx.TecAMOUNTS_TOO_SMALL, res)
	})
}

func TestDistributeFee(t *testing.T) {
	t.Run("FlatTenPercentWithoutOwnerShares", func(t *testing.T) {
		p := testPair(200_000, 200_000, 1)
		p.TotalLPShares = big.NewInt(198_000)

		distributeFee(p, big.NewInt(181), SideB)
		require.Equal(t, int64(18), p.OwnerFeesB.Int64())
		require.Equal(t, int64(823_232_323), p.FeePerShareB.Int64())
		require.Zero(t, p.OwnerFeesA.Sign())
		require.Zero(t, p.FeePerShareA.Sign())
	})

	t.Run("BlendedWithOwnerShares", func(t *testing.T) {
		p := testPair(200_000, 200_000, 1)
		p.OwnerShares = big.NewInt(100_000)
		p.TotalLPShares = big.NewInt(100_000)

		// Half the shares are the platform's: cut = (9*0.5 + 1)/10.
		distributeFee(p, big.NewInt(198), SideB)
		require.Equal(t, int64(108), p.OwnerFeesB.Int64())
		require.Equal(t, int64(900_000_000), p.FeePerShareB.Int64())
	})

	t.Run("NoLPSharesFoldsToPlatform", func(t *testing.T) {
		p := testPair(100_000, 100_000, 1)
		p.OwnerShares = big.NewInt(100_000)

		distributeFee(p, big.NewInt(90), SideA)
		require.Equal(t, int64(90), p.OwnerFeesA.Int64())
		require.Zero(t, p.FeePerShareA.Sign())
	})

	t.Run("IndexAccumulatesAcrossCalls", func(t *testing.T) {
		p := testPair(100_000, 100_000, 1)
		p.TotalLPShares = big.NewInt(99_000)

		distributeFee(p, big.NewInt(90), SideB)
		first := bignum.Clone(p.FeePerShareB)
		distributeFee(p, big.NewInt(90), SideB)
		require.True(t, p.FeePerShareB.Cmp(first) > 0)
		require.Equal(t, int64(2*818_181_818), p.FeePerShareB.Int64())
	})
}
