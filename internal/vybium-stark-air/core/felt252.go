package core

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/holiman/uint256"
)

// Felt252 is an element of the STARK field p = 2^251 + 17*2^192 + 1.
// Values this wide never live in a trace column directly; they are split
// into M31 limbs first.
type Felt252 = fp.Element

// Felt252Bytes is the canonical byte width of a Felt252
const Felt252Bytes = fp.Bytes

// Limb layouts used by the components
const (
	// Felt252Width27Limbs limbs of Felt252Width27Bits bits hold a full felt252
	Felt252Width27Limbs = 10
	Felt252Width27Bits  = 27

	// BigUInt99Limbs limbs of BigUInt99Bits bits hold a value below 2^99
	BigUInt99Limbs = 11
	BigUInt99Bits  = 9
)

// Felt252FromUint256 reduces a 256-bit integer into the field
func Felt252FromUint256(v *uint256.Int) Felt252 {
	b := v.Bytes32()
	var e fp.Element
	e.SetBytes(b[:])
	return e
}

// Felt252ToUint256 returns the canonical integer representative
func Felt252ToUint256(e *Felt252) *uint256.Int {
	b := e.Bytes()
	return new(uint256.Int).SetBytes32(b[:])
}

// Felt252FromUint64 embeds a small integer
func Felt252FromUint64(v uint64) Felt252 {
	var e fp.Element
	e.SetUint64(v)
	return e
}

// parseLiteral reads an unsigned decimal or 0x-prefixed hex integer.
// Leading zeros stay decimal; octal, binary and underscores are rejected.
func parseLiteral(s string) (*big.Int, bool) {
	digits, base := s, 10
	if rest, ok := strings.CutPrefix(s, "0x"); ok {
		digits, base = rest, 16
	} else if rest, ok := strings.CutPrefix(s, "0X"); ok {
		digits, base = rest, 16
	}
	if digits == "" || strings.ContainsAny(digits, "+-") {
		return nil, false
	}
	return new(big.Int).SetString(digits, base)
}

// ParseFelt252 parses a decimal or 0x-prefixed hex string. Values at or
// above the modulus are rejected rather than reduced.
func ParseFelt252(s string) (Felt252, error) {
	b, ok := parseLiteral(s)
	if !ok {
		return Felt252{}, fmt.Errorf("invalid felt252 literal %q", s)
	}
	if b.Cmp(fp.Modulus()) >= 0 {
		return Felt252{}, fmt.Errorf("felt252 literal %q out of range", s)
	}
	var e fp.Element
	e.SetBigInt(b)
	return e, nil
}

// FormatFelt252 returns the 0x-prefixed hex form of a felt
func FormatFelt252(e *Felt252) string {
	return Felt252ToUint256(e).Hex()
}

// ParseUint256 parses a decimal or 0x-prefixed hex string into a 256-bit integer
func ParseUint256(s string) (*uint256.Int, error) {
	b, ok := parseLiteral(s)
	if !ok {
		return nil, fmt.Errorf("invalid integer literal %q", s)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("integer literal %q exceeds 256 bits", s)
	}
	return v, nil
}

// SplitLimbs decomposes v into n little-endian limbs of the given bit width
func SplitLimbs(v *uint256.Int, bits uint, n int) ([]M31, error) {
	if bits == 0 || bits > 30 {
		return nil, fmt.Errorf("limb width %d does not fit M31", bits)
	}
	if v.BitLen() > int(bits)*n {
		return nil, fmt.Errorf("value has %d bits, exceeds %d limbs of %d bits", v.BitLen(), n, bits)
	}
	mask := uint64(1)<<bits - 1
	tmp := v.Clone()
	limbs := make([]M31, n)
	for i := range limbs {
		limbs[i] = M31(tmp.Uint64() & mask)
		tmp.Rsh(tmp, bits)
	}
	return limbs, nil
}

// JoinLimbs recomposes little-endian limbs of the given bit width
func JoinLimbs(limbs []M31, bits uint) *uint256.Int {
	acc := new(uint256.Int)
	for i := len(limbs) - 1; i >= 0; i-- {
		acc.Lsh(acc, bits)
		acc.Or(acc, uint256.NewInt(uint64(limbs[i])))
	}
	return acc
}

// Felt252Width27 is a felt252 as ten 27-bit limbs
type Felt252Width27 [Felt252Width27Limbs]M31

// Felt252Width27From splits a felt into 27-bit limbs
func Felt252Width27From(e *Felt252) Felt252Width27 {
	limbs, err := SplitLimbs(Felt252ToUint256(e), Felt252Width27Bits, Felt252Width27Limbs)
	if err != nil {
		// 10*27 = 270 bits always hold a canonical felt252.
		panic(err)
	}
	var w Felt252Width27
	copy(w[:], limbs)
	return w
}

// Felt252 recomposes the felt
func (w Felt252Width27) Felt252() Felt252 {
	return Felt252FromUint256(JoinLimbs(w[:], Felt252Width27Bits))
}

// BigUInt99 is an integer below 2^99 as eleven 9-bit limbs
type BigUInt99 [BigUInt99Limbs]M31

// BigUInt99From splits v, failing if it does not fit in 99 bits
func BigUInt99From(v *uint256.Int) (BigUInt99, error) {
	limbs, err := SplitLimbs(v, BigUInt99Bits, BigUInt99Limbs)
	if err != nil {
		return BigUInt99{}, err
	}
	var b BigUInt99
	copy(b[:], limbs)
	return b, nil
}

// Uint256 recomposes the integer
func (b BigUInt99) Uint256() *uint256.Int {
	return JoinLimbs(b[:], BigUInt99Bits)
}
