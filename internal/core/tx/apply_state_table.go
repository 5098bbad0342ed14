package tx

import (
	"fmt"

	"github.com/digiko/dexd/internal/core/ledger/keylet"
)

// Action represents the kind of modification made to a ledger entry.
type Action int

const (
	// ActionCache means the entry was read but not modified.
	ActionCache Action = iota
	// ActionInsert means a new entry was created.
	ActionInsert
	// ActionModify means an existing entry was modified.
	ActionModify
	// ActionErase means an entry was deleted.
	ActionErase
)

// TrackedEntry is a ledger entry being tracked for changes.
type TrackedEntry struct {
	Keylet   keylet.Keylet
	Action   Action
	Original []byte // nil for inserts
	Current  []byte // nil after erase
}

// Change describes one committed modification, in the form the storage
// layer and event feed consume.
type Change struct {
	Key    [32]byte
	Type   keylet.Type
	Action Action
	Data   []byte // nil for erases
}

// ApplyStateTable wraps a LedgerView and buffers every modification an
// operation makes. Nothing reaches the base view until Apply; a failed
// operation's table is simply discarded, so partial writes can never leak.
type ApplyStateTable struct {
	base  LedgerView
	items map[[32]byte]*TrackedEntry
}

// NewApplyStateTable creates a state table over the given base view.
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached.
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if entry, ok := t.items[k.Key]; ok {
		if entry.Action == ActionErase {
			return nil, nil
		}
		return entry.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Keylet:   k,
			Action:   ActionCache,
			Original: data,
			Current:  data,
		}
	}
	return data, nil
}

// Exists reports whether an entry exists.
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if entry, ok := t.items[k.Key]; ok {
		return entry.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry. Re-inserting an entry the same operation
// erased becomes a modify against the original.
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if entry, ok := t.items[k.Key]; ok {
		if entry.Action != ActionErase {
			return fmt.Errorf("entry already exists")
		}
		entry.Action = ActionModify
		entry.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("entry already exists")
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:  k,
		Action:  ActionInsert,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry.
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if entry, ok := t.items[k.Key]; ok {
		if entry.Action == ActionErase {
			return fmt.Errorf("entry not found (deleted)")
		}
		if entry.Action == ActionCache {
			entry.Action = ActionModify
		}
		entry.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return fmt.Errorf("entry not found")
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet:   k,
		Action:   ActionModify,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry. Erasing an entry the same operation inserted
// drops it from tracking entirely.
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if entry, ok := t.items[k.Key]; ok {
		switch entry.Action {
		case ActionErase:
			return fmt.Errorf("entry not found (deleted)")
		case ActionInsert:
			delete(t.items, k.Key)
			return nil
		default:
			entry.Action = ActionErase
			entry.Current = nil
			return nil
		}
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("entry not found")
	}

	t.items[k.Key] = &TrackedEntry{
		Keylet: k,
		Action: ActionErase,
	}
	return nil
}

// Apply flushes the buffered modifications to the base view and returns
// the committed changes. Cached reads are skipped.
func (t *ApplyStateTable) Apply() ([]Change, error) {
	changes := make([]Change, 0, len(t.items))
	for _, entry := range t.items {
		switch entry.Action {
		case ActionCache:
			continue
		case ActionInsert:
			if err := t.base.Insert(entry.Keylet, entry.Current); err != nil {
				return nil, err
			}
		case ActionModify:
			if err := t.base.Update(entry.Keylet, entry.Current); err != nil {
				return nil, err
			}
		case ActionErase:
			if err := t.base.Erase(entry.Keylet); err != nil {
				return nil, err
			}
		}
		changes = append(changes, Change{
			Key:    entry.Keylet.Key,
			Type:   entry.Keylet.Type,
			Action: entry.Action,
			Data:   entry.Current,
		})
	}
	return changes, nil
}
