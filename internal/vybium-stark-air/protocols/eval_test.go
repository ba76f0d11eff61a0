package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

func TestNewRelationEntryArity(t *testing.T) {
	rels := NewRelations()
	assert.Panics(t, func() { NewRelationEntry(rels.MemoryAddressToID, core.One, 1) })
	assert.Panics(t, func() { Use(rels.RangeCheck9, 1, 2) })

	e := Yield(rels.MemoryAddressToID, 3, 10, 20)
	assert.Equal(t, core.M31(3).Neg(), e.Multiplicity)
	assert.Equal(t, []core.M31{10, 20}, e.Values)
}

func TestReadPositiveNumBits99EmitsTwoEntries(t *testing.T) {
	rels := NewRelations()
	ctx := &collectingContext{}

	address := core.M31(1234)
	id := core.M31(7)
	limbs := []core.M31{1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 511}
	columns := append([]core.M31{id}, limbs...)

	out := ReadPositiveNumBits99.Evaluate([]core.M31{address}, columns, rels, ctx)

	assert.Empty(t, out)
	assert.Empty(t, ctx.constraints)
	require.Len(t, ctx.entries, 2)

	assert.Same(t, rels.MemoryAddressToID, ctx.entries[0].Relation)
	assert.Equal(t, core.One, ctx.entries[0].Multiplicity)
	assert.Equal(t, []core.M31{address, id}, ctx.entries[0].Values)

	assert.Same(t, rels.MemoryIDToBig, ctx.entries[1].Relation)
	assert.Equal(t, core.One, ctx.entries[1].Multiplicity)
	assert.Equal(t, columns, ctx.entries[1].Values)
}

func TestSubroutineArityPanics(t *testing.T) {
	rels := NewRelations()
	ctx := &collectingContext{}
	cols := make([]core.M31, ReadPositiveNumBits99.NumColumns)

	assert.Panics(t, func() { ReadPositiveNumBits99.Evaluate(nil, cols, rels, ctx) })
	assert.Panics(t, func() { ReadPositiveNumBits99.Evaluate([]core.M31{1}, cols[:5], rels, ctx) })
	assert.Empty(t, ctx.entries)
}
