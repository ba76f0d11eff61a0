package core

import "fmt"

// BatchInverseQM31 inverts every element with a single field inversion
// (Montgomery's trick):
//
//  1. acc[i] = elements[0] * ... * elements[i]
//  2. invert acc[n-1]
//  3. back-substitute: elements[i]^(-1) = acc[i-1] * acc[i]^(-1)
//
// A zero element cannot be inverted; the index of the first one is reported.
func BatchInverseQM31(elements []QM31) ([]QM31, error) {
	n := len(elements)
	if n == 0 {
		return []QM31{}, nil
	}

	for i, elem := range elements {
		if elem.IsZero() {
			return nil, fmt.Errorf("cannot invert zero element at index %d", i)
		}
	}

	acc := make([]QM31, n)
	acc[0] = elements[0]
	for i := 1; i < n; i++ {
		acc[i] = acc[i-1].Mul(elements[i])
	}

	accInv, err := acc[n-1].Inverse()
	if err != nil {
		return nil, fmt.Errorf("failed to invert accumulator: %w", err)
	}

	results := make([]QM31, n)
	for i := n - 1; i > 0; i-- {
		results[i] = accInv.Mul(acc[i-1])
		accInv = accInv.Mul(elements[i])
	}
	results[0] = accInv

	return results, nil
}
