// Package storage persists ledger entries through a key-value database
// and restores them at startup.
package storage

import (
	"context"
	"fmt"

	"github.com/digiko/dexd/internal/core/ledger"
	"github.com/digiko/dexd/internal/core/tx"
	"github.com/digiko/dexd/internal/storage/database"
)

// entryPrefix namespaces ledger entries inside the database.
var entryPrefix = []byte("e/")

// Store writes applied-operation changes to a database and loads them
// back into the in-memory state on startup.
type Store struct {
	db database.DB
}

// NewStore creates a store over the given database.
func NewStore(db database.DB) *Store {
	return &Store{db: db}
}

func entryKey(key [32]byte) []byte {
	out := make([]byte, 0, len(entryPrefix)+32)
	out = append(out, entryPrefix...)
	return append(out, key[:]...)
}

// SaveChanges persists one applied operation's state changes as a single
// atomic batch.
func (s *Store) SaveChanges(ctx context.Context, changes []tx.Change) error {
	if len(changes) == 0 {
		return nil
	}
	ops := make([]database.BatchOperation, 0, len(changes))
	for _, c := range changes {
		if c.Action == tx.ActionErase {
			ops = append(ops, database.BatchOperation{
				Type: database.BatchDelete,
				Key:  entryKey(c.Key),
			})
			continue
		}
		value := make([]byte, 0, 1+len(c.Data))
		value = append(value, byte(c.Type))
		value = append(value, c.Data...)
		ops = append(ops, database.BatchOperation{
			Type:  database.BatchPut,
			Key:   entryKey(c.Key),
			Value: value,
		})
	}
	return s.db.Batch(ctx, ops)
}

// Restore loads every persisted entry into the state map.
func (s *Store) Restore(ctx context.Context, state *ledger.State) (int, error) {
	end := append(append([]byte(nil), entryPrefix...), 0xFF)
	it, err := s.db.Iterator(ctx, entryPrefix, end)
	if err != nil {
		return 0, err
	}
	defer it.Close()

	n := 0
	for it.Next() {
		k := it.Key()
		if len(k) != len(entryPrefix)+32 {
			return n, fmt.Errorf("storage: malformed entry key length %d", len(k))
		}
		v := it.Value()
		if len(v) < 1 {
			return n, fmt.Errorf("storage: empty entry value")
		}
		var key [32]byte
		copy(key[:], k[len(entryPrefix):])
		state.Restore(key, v[1:])
		n++
	}
	return n, it.Error()
}
