package dex

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/tx"
)

func TestPairStateCodec(t *testing.T) {
	p := NewPairState(7,
		tx.Asset{Symbol: "DGK", Native: true},
		tx.Asset{Symbol: "USD"},
		3, "alice")
	p.ReserveA = big.NewInt(110_000)
	p.ReserveB = big.NewInt(90_910)
	p.Active = false
	p.OwnerShares = big.NewInt(100_000)
	p.TotalLPShares = big.NewInt(198_000)
	p.LPCount = 2
	p.FeePerShareA, _ = new(big.Int).SetString("823232323000000", 10)
	p.FeePerShareB = big.NewInt(818_181_818)
	p.OwnerFeesA = big.NewInt(18)
	p.OwnerFeesB = big.NewInt(9)
	p.PendingAccounts = 1

	got, err := ParsePairState(p.Serialize())
	require.NoError(t, err)
	require.Equal(t, p, got)
}

func TestPairStateCodecTruncated(t *testing.T) {
	p := NewPairState(1, tx.Asset{Symbol: "DGK", Native: true}, tx.Asset{Symbol: "USD"}, 1, "alice")
	data := p.Serialize()

	for _, n := range []int{0, 1, 8, len(data) / 2, len(data) - 1} {
		_, err := ParsePairState(data[:n])
		require.Error(t, err, "truncated at %d", n)
	}
}

func TestLPPositionCodec(t *testing.T) {
	pos := &LPPosition{
		Shares:      big.NewInt(99_000),
		EntryIndexA: big.NewInt(0),
		EntryIndexB: big.NewInt(818_181_818),
	}
	got, err := ParseLPPosition(pos.Serialize())
	require.NoError(t, err)
	require.Equal(t, pos, got)

	_, err = ParseLPPosition([]byte{0x00})
	require.Error(t, err)
}

func TestPendingStateCodec(t *testing.T) {
	pend := NewPendingState()
	require.False(t, pend.HasAny())

	pend.PendingA = big.NewInt(5_000)
	require.True(t, pend.HasAny())

	got, err := ParsePendingState(pend.Serialize())
	require.NoError(t, err)
	require.Equal(t, pend, got)
}

func TestRegistryCodec(t *testing.T) {
	reg := &Registry{NextPairID: 5, PairIDs: []uint64{1, 3, 4}}
	got, err := ParseRegistry(reg.Serialize())
	require.NoError(t, err)
	require.Equal(t, reg, got)
}

func TestRegistryRemove(t *testing.T) {
	reg := &Registry{NextPairID: 5, PairIDs: []uint64{1, 3, 4}}

	reg.Remove(3)
	require.Equal(t, []uint64{1, 4}, reg.PairIDs)

	// Removing an absent ID is a no-op; the counter never rewinds.
	reg.Remove(9)
	require.Equal(t, []uint64{1, 4}, reg.PairIDs)
	require.Equal(t, uint64(5), reg.NextPairID)
}

func TestPairSideAccessors(t *testing.T) {
	p := testPair(100, 200, 1)

	require.Equal(t, "DGK", p.Asset(SideA).Symbol)
	require.Equal(t, "USD", p.Asset(SideB).Symbol)

	in, out := p.Reserves(SideA)
	require.Equal(t, int64(100), in.Int64())
	require.Equal(t, int64(200), out.Int64())

	in, out = p.Reserves(SideB)
	require.Equal(t, int64(200), in.Int64())
	require.Equal(t, int64(100), out.Int64())

	require.Equal(t, int64(300), testPairTotal(t, 100, 200))
}

func testPairTotal(t *testing.T, owner, lp int64) int64 {
	t.Helper()
	p := testPair(0, 0, 1)
	p.OwnerShares = big.NewInt(owner)
	p.TotalLPShares = big.NewInt(lp)
	return p.TotalShares().Int64()
}
