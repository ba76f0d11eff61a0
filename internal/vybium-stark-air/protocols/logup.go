package protocols

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// InteractionTrace is the logUp column of one component: the running sum
// of the per-row fraction sums, ending at the claimed sum.
type InteractionTrace struct {
	Component  string
	Cumulative *core.SecureColumn
	ClaimedSum core.QM31
}

// fractionCollector gathers numerator/denominator pairs per row
type fractionCollector struct {
	elements  *InteractionElements
	component string
	row       int
	enabler   core.M31
	rowStart  []int
	nums      []core.M31
	dens      []core.QM31
	err       error
}

func (f *fractionCollector) BeginRow(component string, row int, enabler core.M31) {
	f.component, f.row, f.enabler = component, row, enabler
	f.rowStart = append(f.rowStart, len(f.nums))
}

func (f *fractionCollector) AddConstraint(core.M31) {}

func (f *fractionCollector) AddToRelation(entry RelationEntry) {
	den := f.elements.Get(entry.Relation).Combine(entry.Values)
	if den.IsZero() && f.err == nil {
		f.err = fmt.Errorf("component %s row %d relation %s: %w",
			f.component, f.row, entry.Relation.Name, ErrZeroDenominator)
	}
	f.nums = append(f.nums, entry.Multiplicity.Mul(f.enabler))
	f.dens = append(f.dens, den)
}

// GenerateInteractionTrace computes the logUp column of one component.
// Each entry contributes multiplicity/denominator; all denominators of the
// component are inverted in one batch.
func GenerateInteractionTrace(ct *ComponentTrace, rels *Relations, elements *InteractionElements) (*InteractionTrace, error) {
	collector := &fractionCollector{elements: elements}
	ct.Component.Evaluate(ct, rels, collector)
	if collector.err != nil {
		return nil, collector.err
	}

	inverses, err := core.BatchInverseQM31(collector.dens)
	if err != nil {
		return nil, fmt.Errorf("component %s: %w", ct.Component.Name(), ErrZeroDenominator)
	}

	size := ct.Size()
	cumulative := core.NewSecureColumn(size)
	acc := core.QM31Zero()
	for row := 0; row < size; row++ {
		end := len(collector.nums)
		if row+1 < size {
			end = collector.rowStart[row+1]
		}
		for i := collector.rowStart[row]; i < end; i++ {
			acc = acc.Add(inverses[i].MulM31(collector.nums[i]))
		}
		cumulative.Set(row, acc)
	}

	return &InteractionTrace{
		Component:  ct.Component.Name(),
		Cumulative: cumulative,
		ClaimedSum: acc,
	}, nil
}

// GenerateInteraction computes the logUp columns of every component in
// parallel, keeping component order in the result.
func GenerateInteraction(trace *Trace, rels *Relations, elements *InteractionElements, workers int) ([]*InteractionTrace, error) {
	out := make([]*InteractionTrace, len(trace.Components))

	var g errgroup.Group
	g.SetLimit(max(workers, 1))
	for i, ct := range trace.Components {
		g.Go(func() error {
			it, err := GenerateInteractionTrace(ct, rels, elements)
			if err != nil {
				return err
			}
			out[i] = it
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// TotalClaimedSum adds the claimed sums; it is zero iff the relations balance
// (up to negligible probability).
func TotalClaimedSum(its []*InteractionTrace) core.QM31 {
	total := core.QM31Zero()
	for _, it := range its {
		total = total.Add(it.ClaimedSum)
	}
	return total
}
