package witness

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

// blakeRoundRow lays out a round and hands its G applications to blake_g
func (s *build) blakeRoundRow(row int, res *fastdeduction.BlakeRoundResult, round int, sigma []core.M31, state [16]uint32) []core.M31 {
	s.counts.sigma[round].Add(1)
	for k, g := range res.GInputs {
		s.gInputs[8*row+k] = g
	}
	return rowBuilder{}.
		m31(core.M31(round)).
		m31(sigma...).
		u32(state[:]...).
		u32(res.PermutedMessage[:]...).
		u32(res.Mid[:]...).
		u32(res.Out[:]...)
}

// blakeRound writes one row per VM blake round
func (s *build) blakeRound() (*protocols.ComponentTrace, error) {
	scalar := func(row int, e BlakeRoundEvent) ([]core.M31, error) {
		res := fastdeduction.BlakeRound(e.Round, e.State, e.Message)
		sigma := make([]core.M31, len(res.Sigma))
		for i, v := range res.Sigma {
			sigma[i] = core.M31(v)
		}
		return s.blakeRoundRow(row, &res, e.Round, sigma, e.State), nil
	}

	packed := func(base, nReal int, in *[core.NLanes]BlakeRoundEvent) ([core.NLanes][]core.M31, error) {
		var rounds [core.NLanes]int
		var roundCol core.PackedM31
		var states, messages [core.NLanes][16]uint32
		for lane, e := range in {
			rounds[lane], roundCol[lane] = e.Round, core.M31(e.Round)
			states[lane], messages[lane] = e.State, e.Message
		}
		results := fastdeduction.PackedBlakeRound(rounds, states, messages)
		sigmaCols := fastdeduction.PackedBlakeRoundSigma(roundCol)

		var out [core.NLanes][]core.M31
		for lane := 0; lane < nReal; lane++ {
			sigma := make([]core.M31, len(sigmaCols))
			for j := range sigmaCols {
				sigma[j] = sigmaCols[j][lane]
			}
			out[lane] = s.blakeRoundRow(base+lane, &results[lane], rounds[lane], sigma, states[lane])
		}
		for lane := nReal; lane < core.NLanes; lane++ {
			out[lane] = out[nReal-1]
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompBlakeRound, s.witness.BlakeRounds, scalar, packed)
}

func blakeGRow(in [6]uint32, g *fastdeduction.BlakeGResult) []core.M31 {
	return rowBuilder{}.
		u32(in[:]...).
		u32(g.A1, g.D1, g.C1, g.B1, g.A2, g.D2, g.C2, g.B2).
		m31(core.M31(g.Carries[0]), core.M31(g.Carries[1]), core.M31(g.Carries[2]), core.M31(g.Carries[3]),
			core.M31(g.Carries[4]), core.M31(g.Carries[5]), core.M31(g.Carries[6]), core.M31(g.Carries[7]))
}

// blakeG writes one row per G application used by blake_round
func (s *build) blakeG() (*protocols.ComponentTrace, error) {
	scalar := func(_ int, in [6]uint32) ([]core.M31, error) {
		g := fastdeduction.BlakeG(in[0], in[1], in[2], in[3], in[4], in[5])
		return blakeGRow(in, &g), nil
	}

	packed := func(_, _ int, in *[core.NLanes][6]uint32) ([core.NLanes][]core.M31, error) {
		var args [6]fastdeduction.PackedUInt32
		for lane, words := range in {
			for j, w := range words {
				args[j][lane] = w
			}
		}
		results := fastdeduction.PackedBlakeG(args[0], args[1], args[2], args[3], args[4], args[5])

		var out [core.NLanes][]core.M31
		for lane := range out {
			out[lane] = blakeGRow(in[lane], &results[lane])
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompBlakeG, s.gInputs, scalar, packed)
}

// blakeRoundSigma is the schedule table with its use counts
func (s *build) blakeRoundSigma() (*protocols.ComponentTrace, error) {
	rounds := make([]int, core.BlakeRounds)
	for i := range rounds {
		rounds[i] = i
	}
	row := func(r int, sigma []core.M31) []core.M31 {
		return rowBuilder{}.m31(core.M31(r)).m31(sigma...).m31(load(s.counts.sigma, r))
	}

	scalar := func(_ int, r int) ([]core.M31, error) {
		sigma := make([]core.M31, core.BlakeStateWords)
		for i, v := range fastdeduction.BlakeSigma[r] {
			sigma[i] = core.M31(v)
		}
		return row(r, sigma), nil
	}

	packed := func(_, _ int, in *[core.NLanes]int) ([core.NLanes][]core.M31, error) {
		var roundCol core.PackedM31
		for lane, r := range in {
			roundCol[lane] = core.M31(r)
		}
		cols := fastdeduction.PackedBlakeRoundSigma(roundCol)

		var out [core.NLanes][]core.M31
		for lane, r := range in {
			sigma := make([]core.M31, len(cols))
			for j := range cols {
				sigma[j] = cols[j][lane]
			}
			out[lane] = row(r, sigma)
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompBlakeRoundSigma, rounds, scalar, packed)
}
