// Package keylet computes addressable locations for ledger state entries.
// Every entry kind hashes a space identifier together with its natural key
// into a fixed 256-bit key, so unrelated entries can never collide.
package keylet

import (
	"crypto/sha256"
	"encoding/binary"
)

// Type identifies the kind of entry a keylet addresses.
type Type uint8

const (
	TypePair Type = iota + 1
	TypePosition
	TypePending
	TypeBalance
	TypeRegistry
)

// Space identifiers used in key derivation.
const (
	spacePair     uint16 = 'p'
	spacePosition uint16 = 'l'
	spacePending  uint16 = 'n'
	spaceBalance  uint16 = 'b'
	spaceRegistry uint16 = 'r'
)

// Keylet combines an entry type with its 256-bit state key.
type Keylet struct {
	Type Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	h := sha256.New()
	var spaceBytes [2]byte
	binary.BigEndian.PutUint16(spaceBytes[:], space)
	h.Write(spaceBytes[:])
	for _, d := range data {
		// Length-prefix each component so concatenations cannot collide.
		var n [4]byte
		binary.BigEndian.PutUint32(n[:], uint32(len(d)))
		h.Write(n[:])
		h.Write(d)
	}
	var key [32]byte
	copy(key[:], h.Sum(nil))
	return key
}

func pairIDBytes(pairID uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], pairID)
	return b[:]
}

// Pair returns the keylet for a trading pair's state entry.
func Pair(pairID uint64) Keylet {
	return Keylet{
		Type: TypePair,
		Key:  indexHash(spacePair, pairIDBytes(pairID)),
	}
}

// Position returns the keylet for an account's LP position on a pair.
func Position(pairID uint64, account string) Keylet {
	return Keylet{
		Type: TypePosition,
		Key:  indexHash(spacePosition, pairIDBytes(pairID), []byte(account)),
	}
}

// Pending returns the keylet for an account's pending deposits on a pair.
func Pending(pairID uint64, account string) Keylet {
	return Keylet{
		Type: TypePending,
		Key:  indexHash(spacePending, pairIDBytes(pairID), []byte(account)),
	}
}

// Balance returns the keylet for an account's balance of one asset.
func Balance(account, assetID string) Keylet {
	return Keylet{
		Type: TypeBalance,
		Key:  indexHash(spaceBalance, []byte(account), []byte(assetID)),
	}
}

// Registry returns the keylet for the singleton pair registry entry.
func Registry() Keylet {
	return Keylet{
		Type: TypeRegistry,
		Key:  indexHash(spaceRegistry),
	}
}
