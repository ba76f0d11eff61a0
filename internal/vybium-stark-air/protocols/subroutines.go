package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Subroutine is a reusable piece of a component: a fixed number of inputs
// and trace columns, a fixed output arity and a pure evaluation function.
type Subroutine struct {
	Name        string
	InputArity  int
	NumColumns  int
	OutputArity int
	Relations   []string

	eval func(inputs, columns []core.M31, rels *Relations, ctx EvalContext) []core.M31
}

// Evaluate runs the subroutine. Arity mismatches are programming errors
// and panic.
func (s *Subroutine) Evaluate(inputs, columns []core.M31, rels *Relations, ctx EvalContext) []core.M31 {
	if len(inputs) != s.InputArity {
		panic(fmt.Sprintf("subroutine %s expects %d inputs, got %d", s.Name, s.InputArity, len(inputs)))
	}
	if len(columns) != s.NumColumns {
		panic(fmt.Sprintf("subroutine %s expects %d columns, got %d", s.Name, s.NumColumns, len(columns)))
	}
	out := s.eval(inputs, columns, rels, ctx)
	if len(out) != s.OutputArity {
		panic(fmt.Sprintf("subroutine %s returned %d outputs, declared %d", s.Name, len(out), s.OutputArity))
	}
	return out
}

// ReadPositiveNumBits99 reads a memory cell holding a value below 2^99.
// Input: the address. Columns: the cell id followed by eleven 9-bit limbs.
// It asserts address -> id and id -> limbs, each with multiplicity one,
// adds no residues and returns nothing.
var ReadPositiveNumBits99 = &Subroutine{
	Name:        "read_positive_num_bits_99",
	InputArity:  1,
	NumColumns:  1 + core.BigUInt99Limbs,
	OutputArity: 0,
	Relations:   []string{RelMemoryAddressToID, RelMemoryIDToBig},
	eval: func(inputs, columns []core.M31, rels *Relations, ctx EvalContext) []core.M31 {
		address := inputs[0]
		id := columns[0]

		ctx.AddToRelation(Use(rels.MemoryAddressToID, address, id))
		ctx.AddToRelation(Use(rels.MemoryIDToBig, columns...))

		return []core.M31{}
	},
}

// Subroutines lists the declared subroutines
func Subroutines() []*Subroutine {
	return []*Subroutine{ReadPositiveNumBits99}
}
