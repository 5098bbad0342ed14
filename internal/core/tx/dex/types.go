package dex

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/digiko/dexd/internal/core/bignum"
	"github.com/digiko/dexd/internal/core/tx"
)

// Side selects an asset side of a pair.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"

	// SideAll is accepted only by PendingWithdraw.
	SideAll Side = "All"
)

// PairState is the ledger entry for one trading pair. It carries the
// reserves, the share totals for both share classes, the cumulative
// fee-per-share indexes, and the platform's unclaimed fee accumulators.
type PairState struct {
	PairID     uint64
	AssetA     tx.Asset
	AssetB     tx.Asset
	ReserveA   *big.Int
	ReserveB   *big.Int
	FeePercent uint8
	Active     bool
	Creator    string

	OwnerShares   *big.Int
	TotalLPShares *big.Int
	LPCount       uint32

	FeePerShareA *big.Int
	FeePerShareB *big.Int
	OwnerFeesA   *big.Int
	OwnerFeesB   *big.Int

	PendingAccounts uint32
}

// NewPairState returns a freshly created pair with zeroed accounting.
func NewPairState(pairID uint64, assetA, assetB tx.Asset, feePercent uint8, creator string) *PairState {
	return &PairState{
		PairID:        pairID,
		AssetA:        assetA,
		AssetB:        assetB,
		ReserveA:      bignum.Zero(),
		ReserveB:      bignum.Zero(),
		FeePercent:    feePercent,
		Active:        true,
		Creator:       creator,
		OwnerShares:   bignum.Zero(),
		TotalLPShares: bignum.Zero(),
		FeePerShareA:  bignum.Zero(),
		FeePerShareB:  bignum.Zero(),
		OwnerFeesA:    bignum.Zero(),
		OwnerFeesB:    bignum.Zero(),
	}
}

// TotalShares returns the combined share supply of both classes.
func (p *PairState) TotalShares() *big.Int {
	return bignum.Add(p.OwnerShares, p.TotalLPShares)
}

// Asset returns the pair's asset on the given side.
func (p *PairState) Asset(side Side) tx.Asset {
	if side == SideA {
		return p.AssetA
	}
	return p.AssetB
}

// Reserves returns (reserveIn, reserveOut) for a swap whose input is on
// the given side.
func (p *PairState) Reserves(inputSide Side) (*big.Int, *big.Int) {
	if inputSide == SideA {
		return p.ReserveA, p.ReserveB
	}
	return p.ReserveB, p.ReserveA
}

// Serialize encodes the pair state into its ledger entry form.
func (p *PairState) Serialize() []byte {
	buf := make([]byte, 0, 128)
	buf = appendUint64(buf, p.PairID)
	buf = appendAsset(buf, p.AssetA)
	buf = appendAsset(buf, p.AssetB)
	buf = bignum.AppendBytes(buf, p.ReserveA)
	buf = bignum.AppendBytes(buf, p.ReserveB)
	buf = append(buf, p.FeePercent)
	buf = appendBool(buf, p.Active)
	buf = appendString(buf, p.Creator)
	buf = bignum.AppendBytes(buf, p.OwnerShares)
	buf = bignum.AppendBytes(buf, p.TotalLPShares)
	buf = appendUint32(buf, p.LPCount)
	buf = bignum.AppendBytes(buf, p.FeePerShareA)
	buf = bignum.AppendBytes(buf, p.FeePerShareB)
	buf = bignum.AppendBytes(buf, p.OwnerFeesA)
	buf = bignum.AppendBytes(buf, p.OwnerFeesB)
	buf = appendUint32(buf, p.PendingAccounts)
	return buf
}

// ParsePairState decodes a pair ledger entry.
func ParsePairState(data []byte) (*PairState, error) {
	r := reader{data: data}
	p := &PairState{}
	p.PairID = r.uint64()
	p.AssetA = r.asset()
	p.AssetB = r.asset()
	p.ReserveA = r.bignum()
	p.ReserveB = r.bignum()
	p.FeePercent = r.byte()
	p.Active = r.bool()
	p.Creator = r.string()
	p.OwnerShares = r.bignum()
	p.TotalLPShares = r.bignum()
	p.LPCount = r.uint32()
	p.FeePerShareA = r.bignum()
	p.FeePerShareB = r.bignum()
	p.OwnerFeesA = r.bignum()
	p.OwnerFeesB = r.bignum()
	p.PendingAccounts = r.uint32()
	if r.err != nil {
		return nil, fmt.Errorf("dex: bad pair entry: %w", r.err)
	}
	return p, nil
}

// LPPosition is the per (pair, account) ledger entry for a liquidity
// provider: the share balance and the fee-index snapshots taken when the
// account joined or last settled.
type LPPosition struct {
	Shares      *big.Int
	EntryIndexA *big.Int
	EntryIndexB *big.Int
}

// Serialize encodes the position into its ledger entry form.
func (l *LPPosition) Serialize() []byte {
	buf := make([]byte, 0, 48)
	buf = bignum.AppendBytes(buf, l.Shares)
	buf = bignum.AppendBytes(buf, l.EntryIndexA)
	buf = bignum.AppendBytes(buf, l.EntryIndexB)
	return buf
}

// ParseLPPosition decodes an LP position ledger entry.
func ParseLPPosition(data []byte) (*LPPosition, error) {
	r := reader{data: data}
	l := &LPPosition{}
	l.Shares = r.bignum()
	l.EntryIndexA = r.bignum()
	l.EntryIndexB = r.bignum()
	if r.err != nil {
		return nil, fmt.Errorf("dex: bad position entry: %w", r.err)
	}
	return l, nil
}

// PendingState is the per (pair, account) ledger entry for two-phase
// liquidity: each side deposited so far, waiting to be finalized or
// withdrawn.
type PendingState struct {
	PendingA *big.Int
	PendingB *big.Int
}

// NewPendingState returns an empty pending entry.
func NewPendingState() *PendingState {
	return &PendingState{PendingA: bignum.Zero(), PendingB: bignum.Zero()}
}

// HasAny reports whether either side holds a non-zero balance.
func (d *PendingState) HasAny() bool {
	return !bignum.IsZero(d.PendingA) || !bignum.IsZero(d.PendingB)
}

// Serialize encodes the pending deposit into its ledger entry form.
func (d *PendingState) Serialize() []byte {
	buf := make([]byte, 0, 32)
	buf = bignum.AppendBytes(buf, d.PendingA)
	buf = bignum.AppendBytes(buf, d.PendingB)
	return buf
}

// ParsePendingState decodes a pending deposit ledger entry.
func ParsePendingState(data []byte) (*PendingState, error) {
	r := reader{data: data}
	d := &PendingState{}
	d.PendingA = r.bignum()
	d.PendingB = r.bignum()
	if r.err != nil {
		return nil, fmt.Errorf("dex: bad pending entry: %w", r.err)
	}
	return d, nil
}

// Registry is the singleton ledger entry listing all live pairs and the
// next identifier to assign.
type Registry struct {
	NextPairID uint64
	PairIDs    []uint64
}

// Remove drops a pair ID from the registry. Order is preserved.
func (reg *Registry) Remove(pairID uint64) {
	for i, id := range reg.PairIDs {
		if id == pairID {
			reg.PairIDs = append(reg.PairIDs[:i], reg.PairIDs[i+1:]...)
			return
		}
	}
}

// Serialize encodes the registry into its ledger entry form.
func (reg *Registry) Serialize() []byte {
	buf := make([]byte, 0, 16+8*len(reg.PairIDs))
	buf = appendUint64(buf, reg.NextPairID)
	buf = appendUint32(buf, uint32(len(reg.PairIDs)))
	for _, id := range reg.PairIDs {
		buf = appendUint64(buf, id)
	}
	return buf
}

// ParseRegistry decodes the registry ledger entry.
func ParseRegistry(data []byte) (*Registry, error) {
	r := reader{data: data}
	reg := &Registry{}
	reg.NextPairID = r.uint64()
	n := r.uint32()
	if r.err == nil && int(n) > (len(data)-r.off)/8 {
		return nil, errors.New("dex: bad registry entry: truncated id list")
	}
	reg.PairIDs = make([]uint64, 0, n)
	for i := uint32(0); i < n; i++ {
		reg.PairIDs = append(reg.PairIDs, r.uint64())
	}
	if r.err != nil {
		return nil, fmt.Errorf("dex: bad registry entry: %w", r.err)
	}
	return reg, nil
}

// --- binary codec helpers ---

func appendUint64(dst []byte, v uint64) []byte {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	return append(dst, b[:]...)
}

func appendUint32(dst []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(dst, b[:]...)
}

func appendBool(dst []byte, v bool) []byte {
	if v {
		return append(dst, 1)
	}
	return append(dst, 0)
}

func appendString(dst []byte, s string) []byte {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(len(s)))
	dst = append(dst, b[:]...)
	return append(dst, s...)
}

func appendAsset(dst []byte, a tx.Asset) []byte {
	dst = appendString(dst, a.Symbol)
	return appendBool(dst, a.Native)
}

type reader struct {
	data []byte
	off  int
	err  error
}

func (r *reader) fail() {
	if r.err == nil {
		r.err = errors.New("truncated entry")
	}
}

func (r *reader) byte() byte {
	if r.err != nil {
		return 0
	}
	if r.off+1 > len(r.data) {
		r.fail()
		return 0
	}
	v := r.data[r.off]
	r.off++
	return v
}

func (r *reader) bool() bool {
	return r.byte() != 0
}

func (r *reader) uint32() uint32 {
	if r.err != nil {
		return 0
	}
	if r.off+4 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint32(r.data[r.off:])
	r.off += 4
	return v
}

func (r *reader) uint64() uint64 {
	if r.err != nil {
		return 0
	}
	if r.off+8 > len(r.data) {
		r.fail()
		return 0
	}
	v := binary.BigEndian.Uint64(r.data[r.off:])
	r.off += 8
	return v
}

func (r *reader) string() string {
	if r.err != nil {
		return ""
	}
	if r.off+2 > len(r.data) {
		r.fail()
		return ""
	}
	n := int(binary.BigEndian.Uint16(r.data[r.off:]))
	r.off += 2
	if r.off+n > len(r.data) {
		r.fail()
		return ""
	}
	s := string(r.data[r.off : r.off+n])
	r.off += n
	return s
}

func (r *reader) asset() tx.Asset {
	sym := r.string()
	native := r.bool()
	return tx.Asset{Symbol: sym, Native: native}
}

func (r *reader) bignum() *big.Int {
	if r.err != nil {
		return bignum.Zero()
	}
	v, off, err := bignum.ReadBytes(r.data, r.off)
	if err != nil {
		r.err = err
		return bignum.Zero()
	}
	r.off = off
	return v
}
