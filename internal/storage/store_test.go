package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/ledger"
	"github.com/digiko/dexd/internal/core/tx"
	coredex "github.com/digiko/dexd/internal/core/tx/dex"
	"github.com/digiko/dexd/internal/storage"
	pebbledb "github.com/digiko/dexd/internal/storage/database/pebble"
	jtx "github.com/digiko/dexd/internal/testing"
)

func openStore(t *testing.T) *storage.Store {
	t.Helper()
	db, err := pebbledb.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return storage.NewStore(db)
}

// Applied operations persisted change-by-change restore into identical
// state.
func TestSaveAndRestore(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	env := jtx.NewTestEnv(t)
	usd := jtx.Token("USD")
	env.Fund(jtx.Alice, env.Native, 1_000_000)
	env.Fund(jtx.Alice, usd, 1_000_000)

	res := env.SubmitOK(coredex.NewPairCreate(jtx.Alice, env.Native, usd, 1))
	require.NoError(t, store.SaveChanges(ctx, res.Changes))

	res = env.SubmitOK(coredex.NewLiquidityMint(jtx.Alice, 1, nil,
		jtx.Pay(env.Native, 100_000), jtx.Pay(usd, 100_000)))
	require.NoError(t, store.SaveChanges(ctx, res.Changes))

	restored := ledger.NewState()
	n, err := store.Restore(ctx, restored)
	require.NoError(t, err)
	require.Equal(t, env.State.Len(), n)

	pair, err := coredex.LoadPair(restored, 1)
	require.NoError(t, err)
	require.NotNil(t, pair)
	require.Equal(t, int64(100_000), pair.ReserveA.Int64())
	require.Equal(t, int64(99_000), pair.TotalLPShares.Int64())

	pos, err := coredex.LoadPosition(restored, 1, jtx.Alice)
	require.NoError(t, err)
	require.NotNil(t, pos)
	require.Equal(t, int64(99_000), pos.Shares.Int64())

	bal, err := tx.GetBalance(restored, jtx.Alice, usd)
	require.NoError(t, err)
	require.Equal(t, int64(900_000), bal.Int64())
}

// Erasures reach the database: a deleted entry does not come back on
// restart.
func TestEraseIsPersisted(t *testing.T) {
	ctx := context.Background()
	store := openStore(t)

	env := jtx.NewTestEnv(t)
	res := env.SubmitOK(coredex.NewPairCreate(jtx.Alice, env.Native, jtx.Token("USD"), 1))
	require.NoError(t, store.SaveChanges(ctx, res.Changes))

	res = env.SubmitOK(coredex.NewPairDelete(jtx.Alice, 1))
	require.NoError(t, store.SaveChanges(ctx, res.Changes))

	restored := ledger.NewState()
	_, err := store.Restore(ctx, restored)
	require.NoError(t, err)

	pair, err := coredex.LoadPair(restored, 1)
	require.NoError(t, err)
	require.Nil(t, pair)

	reg, err := coredex.LoadRegistry(restored)
	require.NoError(t, err)
	require.Empty(t, reg.PairIDs)
	require.Equal(t, uint64(2), reg.NextPairID)
}

func TestSaveNothing(t *testing.T) {
	store := openStore(t)
	require.NoError(t, store.SaveChanges(context.Background(), nil))
}
