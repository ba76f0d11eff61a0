package witness

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
)

// Builder derives the trace of every component from a witness
type Builder struct {
	config     *utils.Config
	rels       *protocols.Relations
	components map[string]*protocols.Component
	order      []string
	logger     zerolog.Logger
}

// NewBuilder creates a builder over the standard components
func NewBuilder(config *utils.Config, rels *protocols.Relations, logger zerolog.Logger) (*Builder, error) {
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	b := &Builder{
		config:     config,
		rels:       rels,
		components: make(map[string]*protocols.Component),
		logger:     logger,
	}
	for _, c := range protocols.StandardComponents(rels.Registry) {
		b.components[c.Name()] = c
		b.order = append(b.order, c.Name())
	}
	return b, nil
}

// counters are the multiplicity counters shared by the root writers. Every
// writer only increments, so they need no locking.
type counters struct {
	addressUses []atomic.Uint32
	idUses      []atomic.Uint32
	rangeCheck9 []atomic.Uint32
	sigma       []atomic.Uint32
	roundKeys   []atomic.Uint32
	points      []atomic.Uint32
}

func newCounters(memory int) *counters {
	return &counters{
		addressUses: make([]atomic.Uint32, memory),
		idUses:      make([]atomic.Uint32, memory),
		rangeCheck9: make([]atomic.Uint32, protocols.RangeCheck9Size),
		sigma:       make([]atomic.Uint32, core.BlakeRounds),
		roundKeys:   make([]atomic.Uint32, core.PoseidonFullRounds),
		points:      make([]atomic.Uint32, core.PedersenTableSize),
	}
}

func load(c []atomic.Uint32, i int) core.M31 {
	return core.M31(c[i].Load())
}

// build holds the state of one Build call
type build struct {
	*Builder
	witness *Witness
	counts  *counters
	traces  map[string]*protocols.ComponentTrace

	// inputs handed from root components to derived ones, indexed by the
	// producing row so writers never share a slot
	gInputs    [][6]uint32
	cubeInputs []core.Felt252
}

// Build runs the three phases: root components, derived definers, then
// preprocessed tables. Components within a phase are built in parallel.
func (b *Builder) Build(w *Witness) (*protocols.Trace, error) {
	start := time.Now()
	if w.ids == nil {
		if err := w.Validate(); err != nil {
			return nil, err
		}
	}

	s := &build{
		Builder:    b,
		witness:    w,
		counts:     newCounters(len(w.Memory)),
		traces:     make(map[string]*protocols.ComponentTrace),
		gInputs:    make([][6]uint32, 8*len(w.BlakeRounds)),
		cubeInputs: make([]core.Felt252, core.PoseidonWidth*len(w.PoseidonFullRounds)),
	}

	phases := []struct {
		name    string
		writers map[string]func() (*protocols.ComponentTrace, error)
	}{
		{"roots", map[string]func() (*protocols.ComponentTrace, error){
			protocols.CompMemoryRead:        s.memoryRead,
			protocols.CompBlakeRound:        s.blakeRound,
			protocols.CompPoseidonFullRound: s.poseidonFullRound,
			protocols.CompPartialEcMul:      s.partialEcMul,
		}},
		{"derived", map[string]func() (*protocols.ComponentTrace, error){
			protocols.CompMemoryAddressToID: s.memoryAddressToID,
			protocols.CompMemoryIDToBig:     s.memoryIDToBig,
			protocols.CompBlakeG:            s.blakeG,
			protocols.CompCube252:           s.cube252,
		}},
		{"preprocessed", map[string]func() (*protocols.ComponentTrace, error){
			protocols.CompRangeCheck9:         s.rangeCheck9,
			protocols.CompBlakeRoundSigma:     s.blakeRoundSigma,
			protocols.CompPoseidonRoundKeys:   s.poseidonRoundKeys,
			protocols.CompPedersenPointsTable: s.pedersenPointsTable,
		}},
	}

	for _, phase := range phases {
		phaseStart := time.Now()
		names := make([]string, 0, len(phase.writers))
		fns := make([]func() (*protocols.ComponentTrace, error), 0, len(phase.writers))
		for name, fn := range phase.writers {
			names = append(names, name)
			fns = append(fns, fn)
		}
		out := make([]*protocols.ComponentTrace, len(fns))

		var g errgroup.Group
		for i, fn := range fns {
			g.Go(func() error {
				ct, err := fn()
				if err != nil {
					return fmt.Errorf("component %s: %w", names[i], err)
				}
				out[i] = ct
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		for i, name := range names {
			s.traces[name] = out[i]
		}
		b.logger.Debug().Str("phase", phase.name).Dur("took", time.Since(phaseStart)).Msg("built trace phase")
	}

	trace := &protocols.Trace{}
	for _, name := range b.order {
		ct, ok := s.traces[name]
		if !ok {
			return nil, fmt.Errorf("component %s has no writer", name)
		}
		trace.Components = append(trace.Components, ct)
	}

	b.logger.Info().
		Int("components", len(trace.Components)).
		Bool("packed", !b.config.DisablePacking).
		Dur("took", time.Since(start)).
		Msg("trace built")
	return trace, nil
}

// scalarRow derives the row values (enabler excluded) of one real row
type scalarRow[T any] func(row int, in T) ([]core.M31, error)

// packedRows derives NLanes rows at once. Lanes at or past nReal hold
// copies of the last input and must not touch shared state.
type packedRows[T any] func(base, nReal int, in *[core.NLanes]T) ([core.NLanes][]core.M31, error)

// lanes lifts a scalar derivation to a batch, for components with no
// dedicated packed helper
func lanes[T any](scalar scalarRow[T]) packedRows[T] {
	return func(base, nReal int, in *[core.NLanes]T) ([core.NLanes][]core.M31, error) {
		var out [core.NLanes][]core.M31
		for lane := range in {
			if lane >= nReal {
				out[lane] = out[nReal-1]
				continue
			}
			row, err := scalar(base+lane, in[lane])
			if err != nil {
				return out, err
			}
			out[lane] = row
		}
		return out, nil
	}
}

// writeTrace allocates the trace of a component for the inputs and fills
// it, either packed batch by packed batch on the worker pool or row by
// row. Both paths produce identical columns: padding rows are zero with
// enabler zero.
func writeTrace[T any](b *Builder, name string, inputs []T, scalar scalarRow[T], packed packedRows[T]) (*protocols.ComponentTrace, error) {
	comp := b.components[name]
	n := len(inputs)
	ct := protocols.NewComponentTrace(comp, n, utils.PaddedLogSize(n, core.LogNLanes))

	if b.config.DisablePacking {
		for row, in := range inputs {
			values, err := scalar(row, in)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", row, err)
			}
			if len(values) != comp.Width()-1 {
				return nil, fmt.Errorf("row %d: derived %d values, expected %d", row, len(values), comp.Width()-1)
			}
			for c, v := range values {
				ct.Columns[c+1].Set(row, v)
			}
		}
		return ct, nil
	}

	batches := (n + core.NLanes - 1) / core.NLanes
	var g errgroup.Group
	g.SetLimit(b.config.Workers)
	for batch := 0; batch < batches; batch++ {
		g.Go(func() error {
			base := batch * core.NLanes
			nReal := min(core.NLanes, n-base)

			var in [core.NLanes]T
			for lane := range in {
				in[lane] = inputs[base+min(lane, nReal-1)]
			}
			rows, err := packed(base, nReal, &in)
			if err != nil {
				return fmt.Errorf("rows %d..%d: %w", base, base+nReal-1, err)
			}

			enabler := ct.Columns[0].PackedAt(batch)
			for c := 1; c < comp.Width(); c++ {
				var word core.PackedM31
				for lane := range rows {
					if len(rows[lane]) != comp.Width()-1 {
						return fmt.Errorf("row %d: derived %d values, expected %d", base+lane, len(rows[lane]), comp.Width()-1)
					}
					word[lane] = rows[lane][c-1]
				}
				ct.Columns[c].SetPacked(batch, word.Mul(enabler))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return ct, nil
}

// rowBuilder accumulates the values of one row in column order
type rowBuilder []core.M31

func (r rowBuilder) m31(v ...core.M31) rowBuilder {
	return append(r, v...)
}

func (r rowBuilder) u32(words ...uint32) rowBuilder {
	for _, w := range words {
		r = append(r, core.M31(w&0xffff), core.M31(w>>16))
	}
	return r
}

func (r rowBuilder) felt(fs ...core.Felt252) rowBuilder {
	for i := range fs {
		limbs := core.Felt252Width27From(&fs[i])
		r = append(r, limbs[:]...)
	}
	return r
}
