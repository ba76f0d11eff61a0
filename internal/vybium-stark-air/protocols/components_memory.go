package protocols

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Column groups of the memory components
const (
	ColAddress = "address"
	ColID      = "id"
	ColLimbs   = "limbs"
	ColValue   = "value"
	ColRead    = "read"
)

// RangeCheck9Size is the number of rows of the 9-bit range-check table
const RangeCheck9Size = 1 << core.BigUInt99Bits

// memory_address_to_id defines address -> id, one row per memory cell
func memoryAddressToIDDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompMemoryAddressToID,
		Columns: []ColumnGroup{
			{Name: ColAddress, Role: RoleMain, Width: 1},
			{Name: ColID, Role: RoleMain, Width: 1},
			multiplicityGroup(),
		},
		Uses: []string{RelMemoryAddressToID},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			ctx.AddToRelation(Yield(rels.MemoryAddressToID, row.At(ColMultiplicity),
				row.At(ColAddress), row.At(ColID)))
		}),
	}
}

// memory_id_to_big defines id -> limbs and range-checks every limb
func memoryIDToBigDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompMemoryIDToBig,
		Columns: []ColumnGroup{
			{Name: ColID, Role: RoleMain, Width: 1},
			{Name: ColLimbs, Role: RoleMain, Width: core.BigUInt99Limbs},
			multiplicityGroup(),
		},
		Uses: []string{RelMemoryIDToBig, RelRangeCheck9},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			limbs := row.Get(ColLimbs)
			values := append([]core.M31{row.At(ColID)}, limbs...)
			ctx.AddToRelation(Yield(rels.MemoryIDToBig, row.At(ColMultiplicity), values...))
			for _, limb := range limbs {
				ctx.AddToRelation(Use(rels.RangeCheck9, limb))
			}
		}),
	}
}

// range_check_9 is the preprocessed table 0..511
func rangeCheck9Decl() ComponentDecl {
	return ComponentDecl{
		Name: CompRangeCheck9,
		Columns: []ColumnGroup{
			{Name: ColValue, Role: RolePreprocessed, Width: 1},
			multiplicityGroup(),
		},
		Uses: []string{RelRangeCheck9},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			ctx.AddToRelation(Yield(rels.RangeCheck9, row.At(ColMultiplicity), row.At(ColValue)))
		}),
	}
}

// memory_read is a root component: one row per memory read of the VM
func memoryReadDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompMemoryRead,
		Columns: []ColumnGroup{
			{Name: ColAddress, Role: RoleMain, Width: 1},
			{Name: ColRead, Role: RoleMain, Width: ReadPositiveNumBits99.NumColumns},
		},
		Uses: ReadPositiveNumBits99.Relations,
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			ReadPositiveNumBits99.Evaluate([]core.M31{row.At(ColAddress)}, row.Get(ColRead), rels, ctx)
		}),
	}
}
