// Package core implements the field and column layer of the AIR: the Mersenne
// prime field M31, its degree-4 secure extension, packed lanes of M31 and
// trace columns.
package core

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// P is the Mersenne prime 2^31 - 1
const P uint32 = (1 << 31) - 1

// M31 is an element of the base field, always kept in canonical form [0, P).
type M31 uint32

// Common constants
const (
	Zero M31 = 0
	One  M31 = 1
	Two  M31 = 2
)

// reduce folds a value below 2^62 into [0, P).
// For Mersenne primes x mod P = (x & P) + (x >> 31), with one final subtraction.
func reduce(x uint64) M31 {
	x = (x & uint64(P)) + (x >> 31)
	if x >= uint64(P) {
		x -= uint64(P)
	}
	return M31(x)
}

// NewM31 creates a field element from an arbitrary uint32, reducing it modulo P
func NewM31(v uint32) M31 {
	return reduce(uint64(v))
}

// FromUint64 reduces an arbitrary uint64 into the field
func FromUint64(v uint64) M31 {
	// Split so that every intermediate stays below 2^62.
	hi := reduce(v >> 32)
	lo := reduce(v & 0xffffffff)
	// 2^32 = 2 (mod P)
	return hi.Mul(Two).Add(lo)
}

// FromInt64 maps a signed integer into the field (negative values wrap around P)
func FromInt64(v int64) M31 {
	if v >= 0 {
		return FromUint64(uint64(v))
	}
	return FromUint64(uint64(-v)).Neg()
}

// Add returns a + b
func (a M31) Add(b M31) M31 {
	s := uint32(a) + uint32(b)
	if s >= P {
		s -= P
	}
	return M31(s)
}

// Sub returns a - b
func (a M31) Sub(b M31) M31 {
	if a >= b {
		return a - b
	}
	return M31(uint32(a) + P - uint32(b))
}

// Neg returns -a
func (a M31) Neg() M31 {
	if a == 0 {
		return 0
	}
	return M31(P - uint32(a))
}

// Mul returns a * b
func (a M31) Mul(b M31) M31 {
	return reduce(uint64(a) * uint64(b))
}

// Square returns a^2
func (a M31) Square() M31 {
	return a.Mul(a)
}

// Double returns 2a
func (a M31) Double() M31 {
	return a.Add(a)
}

// Pow computes a^exp by square-and-multiply
func (a M31) Pow(exp uint64) M31 {
	result := One
	base := a
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
		exp >>= 1
	}
	return result
}

// Inverse computes the multiplicative inverse using Fermat's little theorem:
// a^(-1) = a^(P-2)
func (a M31) Inverse() (M31, error) {
	if a == 0 {
		return 0, fmt.Errorf("cannot invert zero")
	}
	return a.Pow(uint64(P) - 2), nil
}

// IsZero reports whether a is the zero element
func (a M31) IsZero() bool {
	return a == 0
}

// Equal reports whether a and b are the same element
func (a M31) Equal(b M31) bool {
	return a == b
}

// Uint32 returns the canonical representative
func (a M31) Uint32() uint32 {
	return uint32(a)
}

// Signed returns the centered representative in (-P/2, P/2].
// Multiplicities are field elements; this recovers the signed count they encode.
func (a M31) Signed() int64 {
	if uint32(a) > P/2 {
		return int64(a) - int64(P)
	}
	return int64(a)
}

// IsCanonical reports whether the raw value is already reduced
func (a M31) IsCanonical() bool {
	return uint32(a) < P
}

// String returns the decimal representation
func (a M31) String() string {
	return strconv.FormatUint(uint64(a), 10)
}

// UnmarshalJSON decodes a canonical field element from a JSON number
func (a *M31) UnmarshalJSON(data []byte) error {
	var v uint32
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid M31 element: %w", err)
	}
	if v >= P {
		return fmt.Errorf("M31 element %d is not canonical", v)
	}
	*a = M31(v)
	return nil
}
