package witness

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

type ecInput struct {
	index int
	acc   fastdeduction.Point
}

func (s *build) partialEcMulRow(in *ecInput, res *fastdeduction.PartialEcMulResult) []core.M31 {
	s.counts.points[in.index].Add(1)
	return rowBuilder{}.
		m31(core.M31(in.index)).
		felt(in.acc.X, in.acc.Y).
		felt(res.Point.X, res.Point.Y).
		felt(res.Slope).
		felt(res.Result.X, res.Result.Y)
}

// partialEcMul writes one row per VM accumulator step
func (s *build) partialEcMul() (*protocols.ComponentTrace, error) {
	inputs := make([]ecInput, len(s.witness.PartialEcMuls))
	for i, e := range s.witness.PartialEcMuls {
		inputs[i] = ecInput{index: e.Index, acc: s.witness.accumulators[i]}
	}

	scalar := func(_ int, in ecInput) ([]core.M31, error) {
		res, err := fastdeduction.PartialEcMul(in.acc, in.index)
		if err != nil {
			return nil, err
		}
		return s.partialEcMulRow(&in, &res), nil
	}

	packed := func(_, nReal int, in *[core.NLanes]ecInput) ([core.NLanes][]core.M31, error) {
		var accs [core.NLanes]fastdeduction.Point
		var indices [core.NLanes]int
		for lane := range in {
			accs[lane], indices[lane] = in[lane].acc, in[lane].index
		}
		results, err := fastdeduction.PackedPartialEcMul(accs, indices)
		if err != nil {
			return [core.NLanes][]core.M31{}, err
		}

		var out [core.NLanes][]core.M31
		for lane := 0; lane < nReal; lane++ {
			out[lane] = s.partialEcMulRow(&in[lane], &results[lane])
		}
		for lane := nReal; lane < core.NLanes; lane++ {
			out[lane] = out[nReal-1]
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompPartialEcMul, inputs, scalar, packed)
}

// pedersenPointsTable is the window-multiple table with its use counts
func (s *build) pedersenPointsTable() (*protocols.ComponentTrace, error) {
	indices := make([]int, core.PedersenTableSize)
	for i := range indices {
		indices[i] = i
	}
	row := func(i int, p fastdeduction.Point) []core.M31 {
		return rowBuilder{}.m31(core.M31(i)).felt(p.X, p.Y).m31(load(s.counts.points, i))
	}

	scalar := func(_ int, i int) ([]core.M31, error) {
		return row(i, fastdeduction.PedersenPointsTable(i)), nil
	}

	packed := func(_, _ int, in *[core.NLanes]int) ([core.NLanes][]core.M31, error) {
		var idxCol core.PackedM31
		for lane, i := range in {
			idxCol[lane] = core.M31(i)
		}
		points := fastdeduction.PackedPedersenPointsTable(idxCol)
		var out [core.NLanes][]core.M31
		for lane, i := range in {
			out[lane] = row(i, points[lane])
		}
		return out, nil
	}

	return writeTrace(s.Builder, protocols.CompPedersenPointsTable, indices, scalar, packed)
}
