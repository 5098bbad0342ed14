package bignum

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    uint64
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "1000", want: 1000},
		{in: "18446744073709551615", want: 18446744073709551615},
		{in: "-1", wantErr: true},
		{in: "", wantErr: true},
		{in: "1.5", wantErr: true},
		{in: "abc", wantErr: true},
	}
	for _, tt := range tests {
		v, err := Parse(tt.in)
		if tt.wantErr {
			require.Error(t, err, "Parse(%q)", tt.in)
			continue
		}
		require.NoError(t, err, "Parse(%q)", tt.in)
		require.Equal(t, tt.want, v.Uint64())
	}

	// Values past uint64 parse fine.
	v, err := Parse("340282366920938463463374607431768211456")
	require.NoError(t, err)
	require.Equal(t, "340282366920938463463374607431768211456", v.String())
}

func TestMulDiv(t *testing.T) {
	tests := []struct {
		a, b, den uint64
		want      uint64
	}{
		{a: 10, b: 10, den: 4, want: 25},
		{a: 10000, b: 100000, den: 110000, want: 9090},      // floors
		{a: 163, b: 1_000_000_000_000, den: 198000, want: 823_232_323},
		{a: 0, b: 5, den: 7, want: 0},
		{a: 1, b: 1, den: 2, want: 0},
	}
	for _, tt := range tests {
		got, err := MulDiv(New(tt.a), New(tt.b), New(tt.den))
		require.NoError(t, err)
		require.Equal(t, tt.want, got.Uint64(), "MulDiv(%d, %d, %d)", tt.a, tt.b, tt.den)
	}

	_, err := MulDiv(New(1), New(1), Zero())
	require.ErrorIs(t, err, ErrDivByZero)

	_, err = Div(New(1), Zero())
	require.ErrorIs(t, err, ErrDivByZero)

	// The intermediate product exceeds uint64 without overflowing.
	big1 := New(18446744073709551615)
	got, err := MulDiv(big1, big1, big1)
	require.NoError(t, err)
	require.Zero(t, got.Cmp(big1))
}

func TestSqrt(t *testing.T) {
	tests := []struct {
		in, want uint64
	}{
		{in: 0, want: 0},
		{in: 1, want: 1},
		{in: 2, want: 1},
		{in: 1_000_000, want: 1000},
		{in: 999_999, want: 999},
		{in: 10_000_000_000, want: 100_000},
		{in: 20_000_000_000, want: 141_421},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, Sqrt(New(tt.in)).Uint64(), "Sqrt(%d)", tt.in)
	}
}

func TestMin(t *testing.T) {
	a, b := New(3), New(7)
	require.Same(t, a, Min(a, b))
	require.Same(t, b, Min(b, a))
	require.Same(t, a, Min(a, a))
}

func TestCloneIsIndependent(t *testing.T) {
	a := New(42)
	c := Clone(a)
	c.Add(c, New(1))
	require.Equal(t, uint64(42), a.Uint64())
}

func TestBytesRoundTrip(t *testing.T) {
	values := []string{
		"0",
		"1",
		"255",
		"256",
		"1000000000000",
		"18446744073709551616",
		"340282366920938463463374607431768211455",
	}

	// Pack several values back to back, then read them in order.
	var buf []byte
	for _, s := range values {
		v, err := Parse(s)
		require.NoError(t, err)
		buf = AppendBytes(buf, v)
	}

	off := 0
	for _, s := range values {
		var v *big.Int
		var err error
		v, off, err = ReadBytes(buf, off)
		require.NoError(t, err)
		require.Equal(t, s, v.String())
	}
	require.Equal(t, len(buf), off)
}

func TestReadBytesTruncated(t *testing.T) {
	_, _, err := ReadBytes(nil, 0)
	require.Error(t, err)

	_, _, err = ReadBytes([]byte{0x00}, 0)
	require.Error(t, err)

	// Length prefix promises more bytes than exist.
	_, _, err = ReadBytes([]byte{0x00, 0x02, 0xFF}, 0)
	require.Error(t, err)
}
