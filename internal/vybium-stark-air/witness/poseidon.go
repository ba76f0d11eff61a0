package witness

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

type poseidonInput struct {
	round int
	state [core.PoseidonWidth]core.Felt252
}

// poseidonFullRoundRow lays out a round and hands the keyed state to cube_252
func (s *build) poseidonFullRoundRow(row int, state *[core.PoseidonWidth]core.Felt252, res *fastdeduction.PoseidonFullRoundResult) []core.M31 {
	s.counts.roundKeys[res.Round].Add(1)
	for i, k := range res.Keyed {
		s.cubeInputs[core.PoseidonWidth*row+i] = k
	}
	return rowBuilder{}.
		m31(core.M31(res.Round)).
		felt(state[:]...).
		felt(res.Keys[:]...).
		felt(res.Keyed[:]...).
		felt(res.Cubed[:]...).
		felt(res.Out[:]...)
}

// poseidonFullRound writes one row per VM full round
func (s *build) poseidonFullRound() (*protocols.ComponentTrace, error) {
	inputs := make([]poseidonInput, len(s.witness.PoseidonFullRounds))
	for i, e := range s.witness.PoseidonFullRounds {
		inputs[i] = poseidonInput{round: e.Round, state: s.witness.poseidonStates[i]}
	}

	scalar := func(row int, in poseidonInput) ([]core.M31, error) {
		res := fastdeduction.PoseidonFullRound(in.round, in.state)
		return s.poseidonFullRoundRow(row, &in.state, &res), nil
	}

	packed := func(base, nReal int, in *[core.NLanes]poseidonInput) ([core.NLanes][]core.M31, error) {
		var rounds [core.NLanes]int
		var states [core.NLanes][core.PoseidonWidth]core.Felt252
		for lane := range in {
			rounds[lane], states[lane] = in[lane].round, in[lane].state
		}
		results := fastdeduction.PackedPoseidonFullRoundChain(rounds, states, 1)[0]

		var out [core.NLanes][]core.M31
		for lane := 0; lane < nReal; lane++ {
			out[lane] = s.poseidonFullRoundRow(base+lane, &in[lane].state, &results[lane])
		}
		for lane := nReal; lane < core.NLanes; lane++ {
			out[lane] = out[nReal-1]
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompPoseidonFullRound, inputs, scalar, packed)
}

// cube252 writes one row per cube used by poseidon_full_round
func (s *build) cube252() (*protocols.ComponentTrace, error) {
	scalar := func(_ int, x core.Felt252) ([]core.M31, error) {
		return rowBuilder{}.felt(x, fastdeduction.Cube252(&x)), nil
	}

	packed := func(_, _ int, in *[core.NLanes]core.Felt252) ([core.NLanes][]core.M31, error) {
		cubes := fastdeduction.PackedCube252(in)
		var out [core.NLanes][]core.M31
		for lane := range out {
			out[lane] = rowBuilder{}.felt(in[lane], cubes[lane])
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompCube252, s.cubeInputs, scalar, packed)
}

// poseidonRoundKeys is the round-key table with its use counts
func (s *build) poseidonRoundKeys() (*protocols.ComponentTrace, error) {
	rounds := make([]int, core.PoseidonFullRounds)
	for i := range rounds {
		rounds[i] = i
	}
	row := func(r int, keys [core.PoseidonWidth]core.Felt252) []core.M31 {
		return rowBuilder{}.m31(core.M31(r)).felt(keys[:]...).m31(load(s.counts.roundKeys, r))
	}

	scalar := func(_ int, r int) ([]core.M31, error) {
		return row(r, fastdeduction.PoseidonRoundKeys(r)), nil
	}

	packed := func(_, _ int, in *[core.NLanes]int) ([core.NLanes][]core.M31, error) {
		var roundCol core.PackedM31
		for lane, r := range in {
			roundCol[lane] = core.M31(r)
		}
		keys := fastdeduction.PackedPoseidonRoundKeys(roundCol)
		var out [core.NLanes][]core.M31
		for lane, r := range in {
			out[lane] = row(r, keys[lane])
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompPoseidonRoundKeys, rounds, scalar, packed)
}
