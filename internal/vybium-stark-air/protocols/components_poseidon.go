package protocols

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Column groups of the poseidon components. Felts are stored as ten
// 27-bit limbs.
const (
	ColKeys   = "keys"
	ColInput  = "input"
	ColOutput = "output"
	ColState  = "state"
	ColKeyed  = "keyed"
	ColCubed  = "cubed"
)

// PoseidonFeltLimbs is the limb width of a full Hades state
const PoseidonFeltLimbs = core.PoseidonWidth * core.Felt252Width27Limbs

// poseidon_round_keys is the preprocessed table of full-round keys
func poseidonRoundKeysDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompPoseidonRoundKeys,
		Columns: []ColumnGroup{
			{Name: ColRound, Role: RolePreprocessed, Width: 1},
			{Name: ColKeys, Role: RolePreprocessed, Width: PoseidonFeltLimbs},
			multiplicityGroup(),
		},
		Uses: []string{RelPoseidonRoundKeys},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			values := append([]core.M31{row.At(ColRound)}, row.Get(ColKeys)...)
			ctx.AddToRelation(Yield(rels.PoseidonRoundKeys, row.At(ColMultiplicity), values...))
		}),
	}
}

// cube_252 defines x -> x^3 over felt252, one row per use
func cube252Decl() ComponentDecl {
	return ComponentDecl{
		Name: CompCube252,
		Columns: []ColumnGroup{
			{Name: ColInput, Role: RoleMain, Width: core.Felt252Width27Limbs},
			{Name: ColOutput, Role: RoleMain, Width: core.Felt252Width27Limbs},
		},
		Uses: []string{RelCube252},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			values := append(append([]core.M31{}, row.Get(ColInput)...), row.Get(ColOutput)...)
			ctx.AddToRelation(Yield(rels.Cube252, core.One, values...))
		}),
	}
}

// poseidon_full_round is a root component: one row per full Hades round
func poseidonFullRoundDecl() ComponentDecl {
	return ComponentDecl{
		Name: CompPoseidonFullRound,
		Columns: []ColumnGroup{
			{Name: ColRound, Role: RoleMain, Width: 1},
			{Name: ColState, Role: RoleMain, Width: PoseidonFeltLimbs},
			{Name: ColKeys, Role: RoleMain, Width: PoseidonFeltLimbs},
			{Name: ColKeyed, Role: RoleMain, Width: PoseidonFeltLimbs},
			{Name: ColCubed, Role: RoleMain, Width: PoseidonFeltLimbs},
			{Name: ColOutput, Role: RoleMain, Width: PoseidonFeltLimbs},
		},
		Uses: []string{RelPoseidonRoundKeys, RelCube252},
		Evaluator: EvaluatorFunc(func(row Row, rels *Relations, ctx EvalContext) {
			keys := append([]core.M31{row.At(ColRound)}, row.Get(ColKeys)...)
			ctx.AddToRelation(Use(rels.PoseidonRoundKeys, keys...))

			keyed, cubed := row.Get(ColKeyed), row.Get(ColCubed)
			for i := 0; i < core.PoseidonWidth; i++ {
				lo, hi := i*core.Felt252Width27Limbs, (i+1)*core.Felt252Width27Limbs
				values := append(append([]core.M31{}, keyed[lo:hi]...), cubed[lo:hi]...)
				ctx.AddToRelation(Use(rels.Cube252, values...))
			}
		}),
	}
}
