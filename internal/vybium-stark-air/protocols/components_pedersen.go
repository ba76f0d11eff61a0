package protocols

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Column groups of the pedersen components
const (
	ColIndex   = "index"
	ColX       = "x"
	ColY       = "y"
	ColAccX    = "acc_x"
	ColAccY    = "acc_y"
	ColPointX  = "point_x"
	ColPointY  = "point_y"
	ColSlope   = "slope"
	ColResultX = "result_x"
	ColResultY = "result_y"
)

func feltGroup(name string, role ColumnRole) ColumnGroup {
	return ColumnGroup{Name: name, Role: role, Width: core.Felt252Width27Limbs}
}

// pedersen_points_table is the preprocessed table of window multiples
func pedersenPointsTableDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompPedersenPointsTable,
		Columns: []ColumnGroup{
			{Name: ColIndex, Role: RolePreprocessed, Width: 1},
			feltGroup(ColX, RolePreprocessed),
			feltGroup(ColY, RolePreprocessed),
			multiplicityGroup(),
		},
		Uses: []string{RelPedersenPointsTable},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			values := append([]core.M31{row.At(ColIndex)}, row.Get(ColX)...)
			values = append(values, row.Get(ColY)...)
			ctx.AddToRelation(Yield(rels.PedersenPointsTable, row.At(ColMultiplicity), values...))
		}),
	}
}

// partial_ec_mul is a root component: one row per accumulator += table point
func partialEcMulDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompPartialEcMul,
		Columns: []ColumnGroup{
			{Name: ColIndex, Role: RoleMain, Width: 1},
			feltGroup(ColAccX, RoleMain),
			feltGroup(ColAccY, RoleMain),
			feltGroup(ColPointX, RoleMain),
			feltGroup(ColPointY, RoleMain),
			feltGroup(ColSlope, RoleMain),
			feltGroup(ColResultX, RoleMain),
			feltGroup(ColResultY, RoleMain),
		},
		Uses: []string{RelPedersenPointsTable},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			values := append([]core.M31{row.At(ColIndex)}, row.Get(ColPointX)...)
			values = append(values, row.Get(ColPointY)...)
			ctx.AddToRelation(Use(rels.PedersenPointsTable, values...))
		}),
	}
}
