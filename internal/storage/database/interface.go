// Package database defines the key-value store contract the node
// persists ledger entries through.
package database

import (
	"context"
	"errors"
)

var (
	// ErrDBClosed is returned when operating on a closed database.
	ErrDBClosed = errors.New("database is closed")

	// ErrKeyNotFound is returned when a key does not exist.
	ErrKeyNotFound = errors.New("key not found")
)

// DB defines the basic operations any database implementation must support.
type DB interface {
	Read(ctx context.Context, key []byte) ([]byte, error)
	Write(ctx context.Context, key []byte, value []byte) error
	Delete(ctx context.Context, key []byte) error

	// Batch applies a set of operations atomically.
	Batch(ctx context.Context, ops []BatchOperation) error
	Iterator(ctx context.Context, start, end []byte) (Iterator, error)

	Close() error
}

// Iterator allows traversing over database entries.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Error() error
	Close() error
}

// BatchOperation represents a single operation in a batch.
type BatchOperation struct {
	Type  BatchOpType
	Key   []byte
	Value []byte
}

type BatchOpType int

const (
	BatchPut BatchOpType = iota
	BatchDelete
)
