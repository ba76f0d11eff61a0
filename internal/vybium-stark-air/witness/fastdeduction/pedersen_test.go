package fastdeduction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

func TestPointAdditionAssociative(t *testing.T) {
	g := Generator()
	g2, _, err := Add(&g, &g)
	require.NoError(t, err)

	left, _, err := Add(&g2, &g)
	require.NoError(t, err)
	g3, _, err := Add(&g, &g2)
	require.NoError(t, err)
	assert.True(t, left.Equal(&g3))

	// (2G + G) + G == 2G + 2G
	a, _, err := Add(&left, &g)
	require.NoError(t, err)
	b, _, err := Add(&g2, &g2)
	require.NoError(t, err)
	assert.True(t, a.Equal(&b))
}

func TestAddRejectsInverse(t *testing.T) {
	g := Generator()
	var neg Point
	neg.X = g.X
	neg.Y.Neg(&g.Y)
	_, _, err := Add(&g, &neg)
	assert.Error(t, err)
}

func TestPedersenPointsTableLayout(t *testing.T) {
	g := Generator()
	first := PedersenPointsTable(0)
	assert.True(t, first.Equal(&g))

	// row 16 is 16 * G
	acc := g
	for i := 1; i < core.PedersenTableDigits; i++ {
		next, _, err := Add(&acc, &g)
		require.NoError(t, err)
		acc = next
	}
	p16 := PedersenPointsTable(core.PedersenTableDigits - 1)
	assert.True(t, acc.Equal(&p16))
	w1 := PedersenPointsTable(core.PedersenTableDigits)
	assert.True(t, acc.Equal(&w1))
}

func TestPackedPartialEcMulMatchesScalar(t *testing.T) {
	var accs [core.NLanes]Point
	var indices [core.NLanes]int
	var idxCol core.PackedM31
	acc := PedersenPointsTable(core.PedersenTableSize - 1)
	for lane := range accs {
		accs[lane] = acc
		indices[lane] = (lane * 37) % core.PedersenTableSize
		idxCol[lane] = core.M31(indices[lane])
		next, _, err := Add(&acc, &acc)
		require.NoError(t, err)
		acc = next
	}

	packed, err := PackedPartialEcMul(accs, indices)
	require.NoError(t, err)
	table := PackedPedersenPointsTable(idxCol)
	for lane := range accs {
		scalar, err := PartialEcMul(accs[lane], indices[lane])
		require.NoError(t, err)
		assert.Equal(t, scalar, packed[lane], "lane %d", lane)
		assert.Equal(t, scalar.Point, table[lane])
	}

	_, err = PartialEcMul(acc, core.PedersenTableSize)
	assert.Error(t, err)
}
