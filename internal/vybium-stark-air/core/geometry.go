package core

// Blake2s geometry shared by the blake components and their witness
// helpers.
const (
	BlakeStateWords = 16
	BlakeRounds     = 10
	BlakeGPerRound  = 8
)

// BlakeGSchedule holds the state indices (a, b, c, d) updated by each G
// application of a round: four column steps, then four diagonal steps.
var BlakeGSchedule = [BlakeGPerRound][4]int{
	{0, 4, 8, 12}, {1, 5, 9, 13}, {2, 6, 10, 14}, {3, 7, 11, 15},
	{0, 5, 10, 15}, {1, 6, 11, 12}, {2, 7, 8, 13}, {3, 4, 9, 14},
}

// Hades permutation geometry
const (
	PoseidonWidth      = 3
	PoseidonFullRounds = 8
)

// Pedersen table geometry: PedersenWindows windows of PedersenWindowBits
// bits; row w*16 + d holds (d+1) * 16^w * G.
const (
	PedersenWindowBits  = 4
	PedersenWindows     = 8
	PedersenTableDigits = 1 << PedersenWindowBits
	PedersenTableSize   = PedersenWindows * PedersenTableDigits
)
