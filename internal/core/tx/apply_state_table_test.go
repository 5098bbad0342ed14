package tx_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/digiko/dexd/internal/core/ledger"
	"github.com/digiko/dexd/internal/core/ledger/keylet"
	"github.com/digiko/dexd/internal/core/tx"
)

func TestApplyStateTableBuffering(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Pair(1)
	require.NoError(t, state.Insert(k, []byte("v1")))

	table := tx.NewApplyStateTable(state)
	require.NoError(t, table.Update(k, []byte("v2")))

	// The write is visible through the table but not the base.
	buffered, err := table.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), buffered)

	base, err := state.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), base)

	changes, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, tx.ActionModify, changes[0].Action)
	require.Equal(t, []byte("v2"), changes[0].Data)

	base, err = state.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("v2"), base)
}

func TestApplyStateTableDiscard(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Pair(1)
	require.NoError(t, state.Insert(k, []byte("v1")))

	// A table that is never applied leaves the base untouched.
	table := tx.NewApplyStateTable(state)
	require.NoError(t, table.Erase(k))
	require.NoError(t, table.Insert(keylet.Pair(2), []byte("new")))

	data, err := state.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("v1"), data)

	exists, err := state.Exists(keylet.Pair(2))
	require.NoError(t, err)
	require.False(t, exists)
}

func TestApplyStateTableInsertAfterErase(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Pending(1, "alice")
	require.NoError(t, state.Insert(k, []byte("old")))

	// Erase followed by insert collapses into a modify of the original.
	table := tx.NewApplyStateTable(state)
	require.NoError(t, table.Erase(k))

	exists, err := table.Exists(k)
	require.NoError(t, err)
	require.False(t, exists)

	require.NoError(t, table.Insert(k, []byte("new")))

	changes, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, changes, 1)
	require.Equal(t, tx.ActionModify, changes[0].Action)

	data, err := state.Read(k)
	require.NoError(t, err)
	require.Equal(t, []byte("new"), data)
}

func TestApplyStateTableEraseAfterInsert(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Position(1, "bob")

	// An entry created and deleted in the same operation never reaches
	// the base and reports no change.
	table := tx.NewApplyStateTable(state)
	require.NoError(t, table.Insert(k, []byte("x")))
	require.NoError(t, table.Erase(k))

	changes, err := table.Apply()
	require.NoError(t, err)
	require.Empty(t, changes)

	exists, err := state.Exists(k)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestApplyStateTableCachedReadsSkipped(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Pair(1)
	require.NoError(t, state.Insert(k, []byte("v1")))

	table := tx.NewApplyStateTable(state)
	_, err := table.Read(k)
	require.NoError(t, err)

	changes, err := table.Apply()
	require.NoError(t, err)
	require.Empty(t, changes)
}

func TestApplyStateTableDuplicateInsert(t *testing.T) {
	state := ledger.NewState()
	k := keylet.Pair(1)
	require.NoError(t, state.Insert(k, []byte("v1")))

	table := tx.NewApplyStateTable(state)
	require.Error(t, table.Insert(k, []byte("v2")))
	require.Error(t, table.Update(keylet.Pair(9), []byte("x")))
	require.Error(t, table.Erase(keylet.Pair(9)))
}
