package protocols

// Component names, in declaration order
const (
	CompMemoryAddressToID   = "memory_address_to_id"
	CompMemoryIDToBig       = "memory_id_to_big"
	CompRangeCheck9         = "range_check_9"
	CompMemoryRead          = "memory_read"
	CompBlakeRoundSigma     = "blake_round_sigma"
	CompBlakeG              = "blake_g"
	CompBlakeRound          = "blake_round"
	CompPoseidonRoundKeys   = "poseidon_round_keys"
	CompCube252             = "cube_252"
	CompPoseidonFullRound   = "poseidon_full_round"
	CompPedersenPointsTable = "pedersen_points_table"
	CompPartialEcMul        = "partial_ec_mul"
)

// Shared column group names
const (
	ColMultiplicity = "multiplicity"
)

// ComponentDecls returns the declaration table of the standard components
func ComponentDecls() []ComponentDecl {
	return []ComponentDecl{
		memoryAddressToIDDecl(),
		memoryIDToBigDecl(),
		rangeCheck9Decl(),
		memoryReadDecl(),
		blakeRoundSigmaDecl(),
		blakeGDecl(),
		blakeRoundDecl(),
		poseidonRoundKeysDecl(),
		cube252Decl(),
		poseidonFullRoundDecl(),
		pedersenPointsTableDecl(),
		partialEcMulDecl(),
	}
}

// StandardComponents validates the declaration table against the registry
func StandardComponents(reg *Registry) []*Component {
	decls := ComponentDecls()
	comps := make([]*Component, len(decls))
	for i, d := range decls {
		comps[i] = MustNewComponent(d, reg)
	}
	return comps
}

func multiplicityGroup() ColumnGroup {
	return ColumnGroup{Name: ColMultiplicity, Role: RoleMultiplicity, Width: 1}
}
