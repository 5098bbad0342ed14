// Package bignum provides arbitrary-precision unsigned integer arithmetic
// for the accounting engine. All ratios use truncating (floor) division;
// no floating point is ever involved.
package bignum

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"
)

var (
	// ErrNegative is returned when an operation would produce a negative value.
	ErrNegative = errors.New("bignum: negative result")

	// ErrDivByZero is returned on division by zero.
	ErrDivByZero = errors.New("bignum: division by zero")
)

// Zero returns a new zero value.
func Zero() *big.Int {
	return new(big.Int)
}

// New returns a new value initialized to v.
func New(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}

// Clone returns a copy of v.
func Clone(v *big.Int) *big.Int {
	return new(big.Int).Set(v)
}

// Parse converts a base-10 string into a value. Negative inputs are rejected.
func Parse(s string) (*big.Int, error) {
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("bignum: invalid integer %q", s)
	}
	if v.Sign() < 0 {
		return nil, ErrNegative
	}
	return v, nil
}

// Add returns a + b.
func Add(a, b *big.Int) *big.Int {
	return new(big.Int).Add(a, b)
}

// Sub returns a - b. The caller must have established a >= b; the engine
// validates every subtraction against current state before computing it.
func Sub(a, b *big.Int) *big.Int {
	return new(big.Int).Sub(a, b)
}

// Mul returns a * b.
func Mul(a, b *big.Int) *big.Int {
	return new(big.Int).Mul(a, b)
}

// Div returns a / b with floor semantics.
func Div(a, b *big.Int) (*big.Int, error) {
	if b.Sign() == 0 {
		return nil, ErrDivByZero
	}
	return new(big.Int).Quo(a, b), nil
}

// MulDiv returns a * b / den with floor semantics. The product is computed
// at full precision, so the result never overflows intermediate math.
func MulDiv(a, b, den *big.Int) (*big.Int, error) {
	if den.Sign() == 0 {
		return nil, ErrDivByZero
	}
	p := new(big.Int).Mul(a, b)
	return p.Quo(p, den), nil
}

// Sqrt returns the integer square root of v (floor).
func Sqrt(v *big.Int) *big.Int {
	return new(big.Int).Sqrt(v)
}

// Min returns the smaller of a and b.
func Min(a, b *big.Int) *big.Int {
	if a.Cmp(b) < 0 {
		return a
	}
	return b
}

// IsZero reports whether v is zero.
func IsZero(v *big.Int) bool {
	return v.Sign() == 0
}

// AppendBytes appends v to dst as a 2-byte big-endian length followed by the
// magnitude bytes. A zero value encodes as length 0.
func AppendBytes(dst []byte, v *big.Int) []byte {
	raw := v.Bytes()
	if len(raw) > 0xFFFF {
		// 524288-bit values are far beyond any reachable reserve size.
		panic("bignum: value too large to encode")
	}
	var hdr [2]byte
	binary.BigEndian.PutUint16(hdr[:], uint16(len(raw)))
	dst = append(dst, hdr[:]...)
	return append(dst, raw...)
}

// ReadBytes decodes a value written by AppendBytes starting at offset off.
// It returns the value and the offset just past it.
func ReadBytes(data []byte, off int) (*big.Int, int, error) {
	if off+2 > len(data) {
		return nil, 0, errors.New("bignum: truncated length prefix")
	}
	n := int(binary.BigEndian.Uint16(data[off : off+2]))
	off += 2
	if off+n > len(data) {
		return nil, 0, errors.New("bignum: truncated value")
	}
	v := new(big.Int).SetBytes(data[off : off+n])
	return v, off + n, nil
}
