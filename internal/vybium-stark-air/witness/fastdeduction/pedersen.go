package fastdeduction

import (
	"fmt"
	"sync"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Point is an affine point of the STARK curve y^2 = x^3 + x + beta
type Point struct {
	X, Y core.Felt252
}

// Equal reports whether both coordinates match
func (p *Point) Equal(q *Point) bool {
	return p.X.Equal(&q.X) && p.Y.Equal(&q.Y)
}

// generator of the STARK curve
var generator = mustPoint(
	"0x1ef15c18599971b7beced415a40f0c7deacfd9b0d1819e03d723d8bc943cfca",
	"0x5668060aa49730b7be4801df46ec62de53ecd11abe43a32873000c36e8dc1f",
)

func mustPoint(x, y string) Point {
	px, err := core.ParseFelt252(x)
	if err != nil {
		panic(err)
	}
	py, err := core.ParseFelt252(y)
	if err != nil {
		panic(err)
	}
	return Point{X: px, Y: py}
}

// Generator returns the curve generator
func Generator() Point {
	return generator
}

// slopeParts returns numerator and denominator of the chord (or tangent)
// slope through p and q.
func slopeParts(p, q *Point) (num, den core.Felt252, err error) {
	if p.X.Equal(&q.X) {
		if !p.Y.Equal(&q.Y) || p.Y.IsZero() {
			return num, den, fmt.Errorf("points sum to infinity")
		}
		// tangent: (3x^2 + 1) / 2y
		three := core.Felt252FromUint64(3)
		one := core.Felt252FromUint64(1)
		num.Square(&p.X).Mul(&num, &three).Add(&num, &one)
		den.Double(&p.Y)
		return num, den, nil
	}
	num.Sub(&q.Y, &p.Y)
	den.Sub(&q.X, &p.X)
	return num, den, nil
}

// addWithSlope completes p + q given the slope
func addWithSlope(p, q *Point, slope *core.Felt252) Point {
	var r Point
	// x3 = slope^2 - x1 - x2, y3 = slope*(x1 - x3) - y1
	r.X.Square(slope).Sub(&r.X, &p.X).Sub(&r.X, &q.X)
	var dx core.Felt252
	dx.Sub(&p.X, &r.X)
	r.Y.Mul(slope, &dx).Sub(&r.Y, &p.Y)
	return r
}

// Add returns p + q and the slope used
func Add(p, q *Point) (Point, core.Felt252, error) {
	num, den, err := slopeParts(p, q)
	if err != nil {
		return Point{}, core.Felt252{}, err
	}
	var slope core.Felt252
	slope.Inverse(&den).Mul(&slope, &num)
	return addWithSlope(p, q, &slope), slope, nil
}

var pointsTable struct {
	once   sync.Once
	points [core.PedersenTableSize]Point
}

// PedersenPointsTable returns the table point at index
func PedersenPointsTable(index int) Point {
	pointsTable.once.Do(func() {
		base := generator
		for w := 0; w < core.PedersenWindows; w++ {
			acc := base
			pointsTable.points[w*core.PedersenTableDigits] = acc
			for d := 1; d < core.PedersenTableDigits; d++ {
				next, _, err := Add(&acc, &base)
				if err != nil {
					panic(fmt.Sprintf("pedersen table window %d digit %d: %v", w, d, err))
				}
				acc = next
				pointsTable.points[w*core.PedersenTableDigits+d] = acc
			}
			// acc is now 16 * base
			base = acc
		}
	})
	return pointsTable.points[index]
}

// PackedPedersenPointsTable looks up the point of each lane's index
func PackedPedersenPointsTable(indices core.PackedM31) [core.NLanes]Point {
	var out [core.NLanes]Point
	for lane, idx := range indices {
		out[lane] = PedersenPointsTable(int(idx))
	}
	return out
}

// PartialEcMulResult is one accumulator step of the scalar multiplication
type PartialEcMulResult struct {
	Point  Point
	Slope  core.Felt252
	Result Point
}

// PartialEcMul adds table point index to the accumulator
func PartialEcMul(acc Point, index int) (PartialEcMulResult, error) {
	if index < 0 || index >= core.PedersenTableSize {
		return PartialEcMulResult{}, fmt.Errorf("pedersen table index %d out of range", index)
	}
	p := PedersenPointsTable(index)
	sum, slope, err := Add(&acc, &p)
	if err != nil {
		return PartialEcMulResult{}, fmt.Errorf("partial ec mul at index %d: %w", index, err)
	}
	return PartialEcMulResult{Point: p, Slope: slope, Result: sum}, nil
}

// PackedPartialEcMul performs one accumulator step per lane with a single
// field inversion for the whole batch.
func PackedPartialEcMul(accs [core.NLanes]Point, indices [core.NLanes]int) ([core.NLanes]PartialEcMulResult, error) {
	var out [core.NLanes]PartialEcMulResult
	nums := make([]fp.Element, core.NLanes)
	dens := make([]fp.Element, core.NLanes)
	for lane := range accs {
		if indices[lane] < 0 || indices[lane] >= core.PedersenTableSize {
			return out, fmt.Errorf("pedersen table index %d out of range", indices[lane])
		}
		out[lane].Point = PedersenPointsTable(indices[lane])
		num, den, err := slopeParts(&accs[lane], &out[lane].Point)
		if err != nil {
			return out, fmt.Errorf("partial ec mul at index %d: %w", indices[lane], err)
		}
		nums[lane], dens[lane] = num, den
	}

	invs := fp.BatchInvert(dens)
	for lane := range accs {
		out[lane].Slope.Mul(&nums[lane], &invs[lane])
		out[lane].Result = addWithSlope(&accs[lane], &out[lane].Point, &out[lane].Slope)
	}
	return out, nil
}
