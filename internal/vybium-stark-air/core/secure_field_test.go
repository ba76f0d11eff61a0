package core

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCM31Mul(t *testing.T) {
	i := CM31{A: 0, B: 1}
	// i^2 = -1
	assert.Equal(t, CM31{A: One.Neg(), B: 0}, i.Mul(i))
}

func TestQM31FieldAxioms(t *testing.T) {
	x := QM31FromM31s(1, 2, 3, 4)
	y := QM31FromM31s(M31(P-7), 11, 0, 9)
	z := QM31FromM31s(5, 0, 123456, M31(P-2))

	assert.Equal(t, x.Mul(y), y.Mul(x))
	assert.Equal(t, x.Mul(y).Mul(z), x.Mul(y.Mul(z)))
	assert.Equal(t, x.Mul(y.Add(z)), x.Mul(y).Add(x.Mul(z)))
	assert.Equal(t, QM31Zero(), x.Sub(x))
	assert.Equal(t, x, x.Mul(QM31One()))
	assert.Equal(t, x.MulM31(7), x.Mul(QM31FromM31(7)))
}

func TestQM31UIsSquareRootOfR(t *testing.T) {
	u := QM31FromM31s(0, 0, 1, 0)
	assert.Equal(t, QM31FromM31s(2, 1, 0, 0), u.Square())
}

func TestQM31Inverse(t *testing.T) {
	for _, x := range []QM31{
		QM31One(),
		QM31FromM31s(1, 2, 3, 4),
		QM31FromM31s(0, 0, 0, 1),
		QM31FromM31s(M31(P-1), M31(P-1), M31(P-1), M31(P-1)),
	} {
		inv, err := x.Inverse()
		require.NoError(t, err)
		assert.Equal(t, QM31One(), x.Mul(inv))
	}

	_, err := QM31Zero().Inverse()
	assert.Error(t, err)
}

func TestBatchInverseQM31(t *testing.T) {
	elems := []QM31{
		QM31FromM31s(1, 2, 3, 4),
		QM31FromM31s(9, 0, 0, 0),
		QM31FromM31s(0, 5, 6, 0),
	}
	invs, err := BatchInverseQM31(elems)
	require.NoError(t, err)
	require.Len(t, invs, len(elems))
	for i := range elems {
		single, err := elems[i].Inverse()
		require.NoError(t, err)
		assert.Equal(t, single, invs[i])
	}

	_, err = BatchInverseQM31([]QM31{QM31One(), QM31Zero()})
	assert.ErrorContains(t, err, "index 1")

	empty, err := BatchInverseQM31(nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestQM31JSONRoundTrip(t *testing.T) {
	x := QM31FromM31s(1, M31(P-1), 0, 77)
	data, err := json.Marshal(x)
	require.NoError(t, err)
	assert.JSONEq(t, "[1,2147483646,0,77]", string(data))

	var y QM31
	require.NoError(t, json.Unmarshal(data, &y))
	assert.Equal(t, x, y)
}
