package protocols

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

var blakeGSample = [6]uint32{0x6a09e667, 0xbb67ae85, 0xffffffff, 0x510e527f, 0x61626300, 0xffffffff}

func wordLimbs(v uint32) []core.M31 {
	return []core.M31{core.M31(v & 0xffff), core.M31(v >> 16)}
}

func blakeGComponent(t *testing.T) (*Component, *Relations) {
	rels := NewRelations()
	comp, err := NewComponent(blakeGDecl(), rels.Registry)
	require.NoError(t, err)
	return comp, rels
}

// blakeGRow lays out one enabled blake_g row for the given inputs
func blakeGRow(t *testing.T, comp *Component, in [6]uint32) []core.M31 {
	g := fastdeduction.BlakeG(in[0], in[1], in[2], in[3], in[4], in[5])
	values := make([]core.M31, comp.Width())
	set := func(name string, limbs ...core.M31) {
		start, width := comp.Group(name)
		require.Len(t, limbs, width, name)
		copy(values[start:], limbs)
	}

	var input []core.M31
	for _, v := range in {
		input = append(input, wordLimbs(v)...)
	}
	carries := make([]core.M31, len(g.Carries))
	for i, c := range g.Carries {
		carries[i] = core.M31(c)
	}

	set(EnablerColumn, core.One)
	set(ColInput, input...)
	set(ColA1, wordLimbs(g.A1)...)
	set(ColD1, wordLimbs(g.D1)...)
	set(ColC1, wordLimbs(g.C1)...)
	set(ColB1, wordLimbs(g.B1)...)
	set(ColA2, wordLimbs(g.A2)...)
	set(ColD2, wordLimbs(g.D2)...)
	set(ColC2, wordLimbs(g.C2)...)
	set(ColB2, wordLimbs(g.B2)...)
	set(ColCarries, carries...)
	return values
}

func TestBlakeGEvaluate(t *testing.T) {
	comp, rels := blakeGComponent(t)
	in := blakeGSample
	g := fastdeduction.BlakeG(in[0], in[1], in[2], in[3], in[4], in[5])

	ctx := &collectingContext{}
	evalBlakeG(NewRow(comp, 0, blakeGRow(t, comp, in)), rels, ctx)

	require.Len(t, ctx.constraints, 16)
	for i, r := range ctx.constraints {
		assert.True(t, r.IsZero(), "constraint %d", i)
	}

	require.Len(t, ctx.entries, 1)
	entry := ctx.entries[0]
	assert.Same(t, rels.BlakeG, entry.Relation)
	assert.Equal(t, core.One.Neg(), entry.Multiplicity)
	require.Len(t, entry.Values, rels.BlakeG.Arity)

	var want []core.M31
	for _, v := range in {
		want = append(want, wordLimbs(v)...)
	}
	for _, v := range []uint32{g.A2, g.B2, g.C2, g.D2} {
		want = append(want, wordLimbs(v)...)
	}
	assert.Equal(t, want, entry.Values)
}

func TestBlakeGTamperedRows(t *testing.T) {
	comp, rels := blakeGComponent(t)

	tamper := func(group string) *collectingContext {
		values := blakeGRow(t, comp, blakeGSample)
		start, _ := comp.Group(group)
		values[start] = values[start].Add(core.One)
		ctx := &collectingContext{}
		evalBlakeG(NewRow(comp, 0, values), rels, ctx)
		return ctx
	}
	violated := func(ctx *collectingContext) bool {
		for _, r := range ctx.constraints {
			if !r.IsZero() {
				return true
			}
		}
		return false
	}

	// d1 and d2 feed the c1 and c2 sums
	assert.True(t, violated(tamper(ColD1)))
	assert.True(t, violated(tamper(ColD2)))
	assert.True(t, violated(tamper(ColA1)))

	// b2 is bound only through the yielded entry
	ctx := tamper(ColB2)
	assert.False(t, violated(ctx))
	require.Len(t, ctx.entries, 1)
	g := fastdeduction.BlakeG(blakeGSample[0], blakeGSample[1], blakeGSample[2], blakeGSample[3], blakeGSample[4], blakeGSample[5])
	assert.NotEqual(t, wordLimbs(g.B2), ctx.entries[0].Values[BlakeGInputs+2:BlakeGInputs+4])
}
