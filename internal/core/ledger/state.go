// Package ledger holds the in-memory state map backing the operation engine.
package ledger

import (
	"fmt"
	"sync"

	"github.com/digiko/dexd/internal/core/ledger/keylet"
)

// State is the authoritative in-memory view of all ledger entries. The
// engine mutates it only through a fully validated operation's state table,
// so readers never observe a half-applied operation.
type State struct {
	mu      sync.RWMutex
	entries map[[32]byte][]byte
}

// NewState returns an empty state map.
func NewState() *State {
	return &State{entries: make(map[[32]byte][]byte)}
}

// Read returns the entry for k, or nil if it does not exist.
func (s *State) Read(k keylet.Keylet) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.entries[k.Key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(data))
	copy(out, data)
	return out, nil
}

// Exists reports whether an entry exists for k.
func (s *State) Exists(k keylet.Keylet) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.entries[k.Key]
	return ok, nil
}

// Insert adds a new entry. It fails if the entry already exists.
func (s *State) Insert(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k.Key]; ok {
		return fmt.Errorf("ledger: entry %x already exists", k.Key[:8])
	}
	s.entries[k.Key] = append([]byte(nil), data...)
	return nil
}

// Update replaces an existing entry. It fails if the entry does not exist.
func (s *State) Update(k keylet.Keylet, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k.Key]; !ok {
		return fmt.Errorf("ledger: entry %x does not exist", k.Key[:8])
	}
	s.entries[k.Key] = append([]byte(nil), data...)
	return nil
}

// Erase removes an entry. It fails if the entry does not exist.
func (s *State) Erase(k keylet.Keylet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.entries[k.Key]; !ok {
		return fmt.Errorf("ledger: entry %x does not exist", k.Key[:8])
	}
	delete(s.entries, k.Key)
	return nil
}

// ForEach iterates over all entries. Iteration stops early if fn returns false.
func (s *State) ForEach(fn func(key [32]byte, data []byte) bool) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for key, data := range s.entries {
		if !fn(key, data) {
			break
		}
	}
	return nil
}

// Restore loads a raw entry during startup, bypassing existence checks.
func (s *State) Restore(key [32]byte, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = append([]byte(nil), data...)
}

// Len returns the number of entries.
func (s *State) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}
