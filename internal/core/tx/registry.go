package tx

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrUnknownTransactionType is returned when an operation type is unknown.
var ErrUnknownTransactionType = errors.New("unknown transaction type")

// Factory creates a fresh, empty operation of one type.
type Factory func() Transaction

var factories = make(map[Type]Factory)

// Register installs a factory for an operation type. Operation packages
// call it from init(); registering the same type twice is a programming
// error and panics at startup.
func Register(t Type, f Factory) {
	if _, ok := factories[t]; ok {
		panic(fmt.Sprintf("tx: type %s registered twice", t))
	}
	factories[t] = f
}

// NewFromType creates a new empty operation of the given type.
func NewFromType(t Type) (Transaction, error) {
	f, ok := factories[t]
	if !ok {
		return nil, ErrUnknownTransactionType
	}
	return f(), nil
}

// FromJSON decodes a JSON object into its concrete operation type, keyed
// on the TransactionType field.
func FromJSON(data []byte) (Transaction, error) {
	var raw struct {
		TransactionType string `json:"TransactionType"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}

	t, ok := TypeFromName(raw.TransactionType)
	if !ok {
		return nil, ErrUnknownTransactionType
	}

	txn, err := NewFromType(t)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, txn); err != nil {
		return nil, err
	}
	return txn, nil
}
