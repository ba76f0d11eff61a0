package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

func commitColumns(n int, seed core.M31) []*core.Column {
	cols := make([]*core.Column, 3)
	for c := range cols {
		cols[c] = core.NewColumn(n)
		for row := 0; row < n; row++ {
			cols[c].Set(row, seed.Add(core.M31(row*3+c)))
		}
	}
	return cols
}

func TestMerkleCommitterDeterministic(t *testing.T) {
	sets := [][]*core.Column{commitColumns(16, 1), nil, commitColumns(32, 2)}

	serial, err := (&MerkleCommitter{Workers: 1}).Commit(sets)
	require.NoError(t, err)
	parallel, err := (&MerkleCommitter{Workers: 8}).Commit(sets)
	require.NoError(t, err)
	assert.Equal(t, serial, parallel)
	assert.NotEmpty(t, serial.Root)

	sets[0][1].Set(5, 12345)
	changed, err := (&MerkleCommitter{Workers: 1}).Commit(sets)
	require.NoError(t, err)
	assert.NotEqual(t, serial, changed)
}

func TestMerkleCommitterUnequalColumns(t *testing.T) {
	set := append(commitColumns(16, 0), core.NewColumn(32))
	_, err := (&MerkleCommitter{Workers: 1}).Commit([][]*core.Column{set})
	assert.Error(t, err)

	// the failure surfaces from the row-hashing workers across batches
	long := append(commitColumns(3*rowBatch, 0), core.NewColumn(3*rowBatch+1))
	_, err = (&MerkleCommitter{Workers: 4}).Commit([][]*core.Column{long})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unequal length")
}
