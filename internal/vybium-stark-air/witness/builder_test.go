package witness

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

// sampleWitness exercises every root component with row counts that are
// not multiples of the lane count.
func sampleWitness(t *testing.T) *Witness {
	t.Helper()
	w := &Witness{}

	for i := 0; i < 20; i++ {
		w.Memory = append(w.Memory, MemoryEntry{
			Address: uint32(1000 + 3*i),
			Value:   fmt.Sprint(uint64(i) * 7919 * 104729),
		})
	}
	w.Memory[7].Value = "0x7ffffffffffffffffffffffff"
	for i := 0; i < 37; i++ {
		w.MemoryReads = append(w.MemoryReads, w.Memory[(i*i)%len(w.Memory)].Address)
	}

	for i := 0; i < 5; i++ {
		e := BlakeRoundEvent{Round: (3 * i) % core.BlakeRounds}
		for j := range e.State {
			e.State[j] = uint32(0x9e3779b9 * (i*16 + j + 1))
			e.Message[j] = uint32(0x85ebca6b * (i*16 + j + 7))
		}
		w.BlakeRounds = append(w.BlakeRounds, e)
	}

	for i := 0; i < 19; i++ {
		w.PoseidonFullRounds = append(w.PoseidonFullRounds, PoseidonFullRoundEvent{
			Round: i % core.PoseidonFullRounds,
			State: [3]string{fmt.Sprint(i + 1), fmt.Sprintf("0x%x", 1<<40+i), "0"},
		})
	}

	acc := fastdeduction.PedersenPointsTable(core.PedersenTableSize - 1)
	for i := 0; i < 21; i++ {
		w.PartialEcMuls = append(w.PartialEcMuls, PartialEcMulEvent{
			Index:       (i * 13) % (core.PedersenTableSize - 1),
			Accumulator: [2]string{core.FormatFelt252(&acc.X), core.FormatFelt252(&acc.Y)},
		})
	}

	require.NoError(t, w.Validate())
	return w
}

func buildTrace(t *testing.T, config *utils.Config, w *Witness) (*protocols.Trace, *protocols.Relations) {
	t.Helper()
	rels := protocols.NewRelations()
	b, err := NewBuilder(config, rels, zerolog.Nop())
	require.NoError(t, err)
	trace, err := b.Build(w)
	require.NoError(t, err)
	return trace, rels
}

func TestBuildBalances(t *testing.T) {
	w := sampleWitness(t)
	trace, rels := buildTrace(t, utils.DefaultConfig(), w)

	require.NoError(t, trace.Validate())
	assert.NoError(t, protocols.CheckConstraints(trace, rels))
	assert.NoError(t, protocols.TrackRelations(trace, rels))
}

func TestBuildRowCounts(t *testing.T) {
	w := sampleWitness(t)
	trace, _ := buildTrace(t, utils.DefaultConfig(), w)

	want := map[string][2]int{
		protocols.CompMemoryAddressToID:   {20, 5},
		protocols.CompMemoryIDToBig:       {20, 5},
		protocols.CompRangeCheck9:         {512, 9},
		protocols.CompMemoryRead:          {37, 6},
		protocols.CompBlakeRoundSigma:     {10, 4},
		protocols.CompBlakeG:              {40, 6},
		protocols.CompBlakeRound:          {5, 4},
		protocols.CompPoseidonRoundKeys:   {8, 4},
		protocols.CompCube252:             {57, 6},
		protocols.CompPoseidonFullRound:   {19, 5},
		protocols.CompPedersenPointsTable: {128, 7},
		protocols.CompPartialEcMul:        {21, 5},
	}
	require.Len(t, trace.Components, len(want))
	for _, ct := range trace.Components {
		name := ct.Component.Name()
		assert.Equal(t, want[name][0], ct.NRows, name)
		assert.Equal(t, want[name][1], ct.LogSize, name)
	}
}

func TestPackedMatchesScalar(t *testing.T) {
	w := sampleWitness(t)
	packed, _ := buildTrace(t, utils.DefaultConfig().WithWorkers(4), w)
	scalar, _ := buildTrace(t, utils.DefaultConfig().WithPacking(false), w)

	require.Len(t, scalar.Components, len(packed.Components))
	for i, ct := range packed.Components {
		other := scalar.Components[i]
		require.Equal(t, ct.Component.Name(), other.Component.Name())
		require.Equal(t, ct.LogSize, other.LogSize)
		for c := range ct.Columns {
			assert.True(t, ct.Columns[c].Equal(other.Columns[c]),
				"component %s column %d differs", ct.Component.Name(), c)
		}
	}
}

func TestPaddingRowsAreZero(t *testing.T) {
	w := sampleWitness(t)
	for _, config := range []*utils.Config{utils.DefaultConfig(), utils.DefaultConfig().WithPacking(false)} {
		trace, _ := buildTrace(t, config, w)
		for _, ct := range trace.Components {
			for row := ct.NRows; row < ct.Size(); row++ {
				for c, col := range ct.Columns {
					require.True(t, col.At(row).IsZero(),
						"component %s row %d column %d", ct.Component.Name(), row, c)
				}
			}
		}
	}
}

func TestMultiplicities(t *testing.T) {
	w := sampleWitness(t)
	trace, _ := buildTrace(t, utils.DefaultConfig(), w)

	reads := make(map[uint32]int)
	for _, addr := range w.MemoryReads {
		reads[addr]++
	}
	ct, ok := trace.Lookup(protocols.CompMemoryAddressToID)
	require.True(t, ok)
	mult := ct.Group(protocols.ColMultiplicity)[0]
	addrs := ct.Group(protocols.ColAddress)[0]
	for row := 0; row < ct.NRows; row++ {
		assert.Equal(t, core.M31(reads[uint32(addrs.At(row))]), mult.At(row), "row %d", row)
	}

	rc, ok := trace.Lookup(protocols.CompRangeCheck9)
	require.True(t, ok)
	total := 0
	for _, v := range rc.Group(protocols.ColMultiplicity)[0].Values() {
		total += int(v)
	}
	assert.Equal(t, core.BigUInt99Limbs*len(w.Memory), total)

	sigma, ok := trace.Lookup(protocols.CompBlakeRoundSigma)
	require.True(t, ok)
	used := sigma.Group(protocols.ColMultiplicity)[0]
	for _, e := range w.BlakeRounds {
		assert.False(t, used.At(e.Round).IsZero(), "round %d", e.Round)
	}
}

func TestTamperedMultiplicityIsDetected(t *testing.T) {
	w := sampleWitness(t)
	trace, rels := buildTrace(t, utils.DefaultConfig(), w)

	rc, ok := trace.Lookup(protocols.CompRangeCheck9)
	require.True(t, ok)
	mult := rc.Group(protocols.ColMultiplicity)[0]
	mult.Set(3, mult.At(3).Add(core.One))

	var imb *protocols.ImbalanceError
	require.ErrorAs(t, protocols.TrackRelations(trace, rels), &imb)
	assert.Equal(t, protocols.RelRangeCheck9, imb.Relation)
	assert.Equal(t, []core.M31{3}, imb.Values)
	assert.Equal(t, int64(-1), imb.Sum)

	prover, err := protocols.NewProver(utils.DefaultConfig().WithRelationCheck(false), rels, zerolog.Nop())
	require.NoError(t, err)
	_, err = prover.Prove(trace)
	require.ErrorAs(t, err, &imb)
	assert.Empty(t, imb.Relation)
	assert.False(t, imb.ClaimedSum.IsZero())
}

func TestTamperedWitnessValueFailsConstraints(t *testing.T) {
	w := sampleWitness(t)
	trace, rels := buildTrace(t, utils.DefaultConfig(), w)

	g, ok := trace.Lookup(protocols.CompBlakeG)
	require.True(t, ok)
	a1 := g.Group(protocols.ColA1)[0]
	a1.Set(0, a1.At(0).Add(core.One))

	var ce *protocols.ConstraintError
	require.ErrorAs(t, protocols.CheckConstraints(trace, rels), &ce)
	assert.Equal(t, protocols.CompBlakeG, ce.Component)
	assert.Equal(t, 0, ce.Row)
}

func TestProveEndToEnd(t *testing.T) {
	w := sampleWitness(t)
	config := utils.DefaultConfig().WithNumQueries(2).WithRelationCheck(true)
	trace, rels := buildTrace(t, config, w)

	prover, err := protocols.NewProver(config, rels, zerolog.Nop())
	require.NoError(t, err)
	proof, err := prover.Prove(trace)
	require.NoError(t, err)

	assert.Len(t, proof.Claims, len(trace.Components))
	assert.Len(t, proof.Commitments, 3)
	assert.Len(t, proof.InteractionClaims, len(trace.Components))
	assert.Len(t, proof.Openings, 2*len(trace.Components))

	total := core.QM31Zero()
	for _, c := range proof.InteractionClaims {
		total = total.Add(c.ClaimedSum)
	}
	assert.True(t, total.IsZero())

	again, err := prover.Prove(trace)
	require.NoError(t, err)
	assert.Equal(t, proof, again)

	data, err := protocols.EncodeProof(proof, protocols.FormatCompact)
	require.NoError(t, err)
	felts, err := protocols.DecodeCompact(data)
	require.NoError(t, err)
	want, err := proof.SerializeFelts()
	require.NoError(t, err)
	assert.Equal(t, want, felts)
}

func TestBuildEmptyWitness(t *testing.T) {
	w := &Witness{}
	trace, rels := buildTrace(t, utils.DefaultConfig(), w)

	for _, ct := range trace.Components {
		assert.GreaterOrEqual(t, ct.LogSize, core.LogNLanes, ct.Component.Name())
		for _, col := range ct.ColumnsWithRole(protocols.RoleMultiplicity) {
			for _, v := range col.Values() {
				assert.True(t, v.IsZero())
			}
		}
	}
	assert.NoError(t, protocols.TrackRelations(trace, rels))
}
