package core

import (
	"encoding/json"
	"fmt"
)

// SecureExtensionDegree is the degree of QM31 over M31
const SecureExtensionDegree = 4

// CM31 is the complex extension M31[i]/(i^2 + 1), represented as A + B*i
type CM31 struct {
	A, B M31
}

// Add returns x + y
func (x CM31) Add(y CM31) CM31 {
	return CM31{x.A.Add(y.A), x.B.Add(y.B)}
}

// Sub returns x - y
func (x CM31) Sub(y CM31) CM31 {
	return CM31{x.A.Sub(y.A), x.B.Sub(y.B)}
}

// Neg returns -x
func (x CM31) Neg() CM31 {
	return CM31{x.A.Neg(), x.B.Neg()}
}

// Mul returns x * y = (ac - bd) + (ad + bc)i
func (x CM31) Mul(y CM31) CM31 {
	return CM31{
		A: x.A.Mul(y.A).Sub(x.B.Mul(y.B)),
		B: x.A.Mul(y.B).Add(x.B.Mul(y.A)),
	}
}

// MulM31 scales x by a base field element
func (x CM31) MulM31(s M31) CM31 {
	return CM31{x.A.Mul(s), x.B.Mul(s)}
}

// IsZero reports whether x == 0
func (x CM31) IsZero() bool {
	return x.A == 0 && x.B == 0
}

// Inverse returns 1/x = (a - bi) / (a^2 + b^2)
func (x CM31) Inverse() (CM31, error) {
	norm := x.A.Square().Add(x.B.Square())
	inv, err := norm.Inverse()
	if err != nil {
		return CM31{}, fmt.Errorf("cannot invert zero CM31 element")
	}
	return CM31{x.A.Mul(inv), x.B.Neg().Mul(inv)}, nil
}

// qm31R is the non-residue defining QM31 = CM31[u]/(u^2 - R)
var qm31R = CM31{A: 2, B: 1}

// QM31 is the secure field CM31[u]/(u^2 - (2 + i)), represented as A + B*u.
// It is used for Fiat-Shamir challenges and logUp fractions.
type QM31 struct {
	A, B CM31
}

// QM31Zero returns the additive identity
func QM31Zero() QM31 {
	return QM31{}
}

// QM31One returns the multiplicative identity
func QM31One() QM31 {
	return QM31{A: CM31{A: One}}
}

// QM31FromM31 embeds a base field element
func QM31FromM31(v M31) QM31 {
	return QM31{A: CM31{A: v}}
}

// QM31FromM31s builds an element from its four coordinates
func QM31FromM31s(a, b, c, d M31) QM31 {
	return QM31{A: CM31{a, b}, B: CM31{c, d}}
}

// ToM31Array returns the four base field coordinates
func (x QM31) ToM31Array() [SecureExtensionDegree]M31 {
	return [SecureExtensionDegree]M31{x.A.A, x.A.B, x.B.A, x.B.B}
}

// Add returns x + y
func (x QM31) Add(y QM31) QM31 {
	return QM31{x.A.Add(y.A), x.B.Add(y.B)}
}

// Sub returns x - y
func (x QM31) Sub(y QM31) QM31 {
	return QM31{x.A.Sub(y.A), x.B.Sub(y.B)}
}

// Neg returns -x
func (x QM31) Neg() QM31 {
	return QM31{x.A.Neg(), x.B.Neg()}
}

// Mul returns x * y = (ac + R*bd) + (ad + bc)u
func (x QM31) Mul(y QM31) QM31 {
	ac := x.A.Mul(y.A)
	bd := x.B.Mul(y.B)
	return QM31{
		A: ac.Add(qm31R.Mul(bd)),
		B: x.A.Mul(y.B).Add(x.B.Mul(y.A)),
	}
}

// MulM31 scales x by a base field element
func (x QM31) MulM31(s M31) QM31 {
	return QM31{x.A.MulM31(s), x.B.MulM31(s)}
}

// AddM31 returns x + s
func (x QM31) AddM31(s M31) QM31 {
	return QM31{A: CM31{x.A.A.Add(s), x.A.B}, B: x.B}
}

// Square returns x^2
func (x QM31) Square() QM31 {
	return x.Mul(x)
}

// IsZero reports whether x == 0
func (x QM31) IsZero() bool {
	return x.A.IsZero() && x.B.IsZero()
}

// Equal reports whether x and y are the same element
func (x QM31) Equal(y QM31) bool {
	return x == y
}

// Inverse returns 1/x = (a - bu) / (a^2 - R*b^2); fails only at zero
func (x QM31) Inverse() (QM31, error) {
	if x.IsZero() {
		return QM31{}, fmt.Errorf("cannot invert zero QM31 element")
	}
	denom := x.A.Mul(x.A).Sub(qm31R.Mul(x.B.Mul(x.B)))
	denomInv, err := denom.Inverse()
	if err != nil {
		return QM31{}, fmt.Errorf("QM31 norm is zero: %w", err)
	}
	return QM31{
		A: x.A.Mul(denomInv),
		B: x.B.Neg().Mul(denomInv),
	}, nil
}

// String formats the element as (a + bi) + (c + di)u
func (x QM31) String() string {
	return fmt.Sprintf("(%d + %di) + (%d + %di)u", x.A.A, x.A.B, x.B.A, x.B.B)
}

// MarshalJSON encodes the element as its four coordinates
func (x QM31) MarshalJSON() ([]byte, error) {
	return json.Marshal(x.ToM31Array())
}

// UnmarshalJSON decodes four canonical coordinates
func (x *QM31) UnmarshalJSON(data []byte) error {
	var coords [SecureExtensionDegree]M31
	if err := json.Unmarshal(data, &coords); err != nil {
		return fmt.Errorf("invalid QM31 element: %w", err)
	}
	*x = QM31FromM31s(coords[0], coords[1], coords[2], coords[3])
	return nil
}
