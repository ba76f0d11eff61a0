package fastdeduction

import (
	"sync"

	"golang.org/x/crypto/sha3"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// Hades permutation geometry
var roundKeys struct {
	once sync.Once
	keys [core.PoseidonFullRounds][core.PoseidonWidth]core.Felt252
}

// PoseidonRoundKeys returns the keys of a full round. Keys are derived
// from SHA3-256 of a fixed label, the round and the state index, reduced
// into the field.
func PoseidonRoundKeys(round int) [core.PoseidonWidth]core.Felt252 {
	roundKeys.once.Do(func() {
		for r := range roundKeys.keys {
			for i := range roundKeys.keys[r] {
				digest := sha3.Sum256([]byte{'h', 'a', 'd', 'e', 's', '-', 'r', 'k', byte(r), byte(i)})
				roundKeys.keys[r][i].SetBytes(digest[:])
			}
		}
	})
	return roundKeys.keys[round%core.PoseidonFullRounds]
}

// PackedPoseidonRoundKeys looks up the keys of each lane's round
func PackedPoseidonRoundKeys(rounds core.PackedM31) [core.NLanes][core.PoseidonWidth]core.Felt252 {
	var out [core.NLanes][core.PoseidonWidth]core.Felt252
	for lane, r := range rounds {
		out[lane] = PoseidonRoundKeys(int(r))
	}
	return out
}

// Cube252 returns x^3
func Cube252(x *core.Felt252) core.Felt252 {
	var sq, cube core.Felt252
	sq.Square(x)
	cube.Mul(&sq, x)
	return cube
}

// PackedCube252 cubes every lane
func PackedCube252(xs *[core.NLanes]core.Felt252) [core.NLanes]core.Felt252 {
	var out [core.NLanes]core.Felt252
	for i := range xs {
		out[i] = Cube252(&xs[i])
	}
	return out
}

// PoseidonFullRoundResult holds a full round and its intermediates
type PoseidonFullRoundResult struct {
	Round int
	Keys  [core.PoseidonWidth]core.Felt252
	Keyed [core.PoseidonWidth]core.Felt252
	Cubed [core.PoseidonWidth]core.Felt252
	Out   [core.PoseidonWidth]core.Felt252
}

// PoseidonFullRound adds the round keys, cubes every element and applies
// the MDS matrix [[3,1,1],[1,-1,1],[1,1,-2]].
func PoseidonFullRound(round int, state [core.PoseidonWidth]core.Felt252) PoseidonFullRoundResult {
	res := PoseidonFullRoundResult{Round: round % core.PoseidonFullRounds, Keys: PoseidonRoundKeys(round)}
	for i := range state {
		res.Keyed[i].Add(&state[i], &res.Keys[i])
		res.Cubed[i] = Cube252(&res.Keyed[i])
	}
	res.Out = mds(res.Cubed)
	return res
}

// mds computes t = s0+s1+s2; (t + 2*s0, t - 2*s1, t - 3*s2)
func mds(s [core.PoseidonWidth]core.Felt252) [core.PoseidonWidth]core.Felt252 {
	var t, tmp core.Felt252
	t.Add(&s[0], &s[1]).Add(&t, &s[2])

	var out [core.PoseidonWidth]core.Felt252
	tmp.Double(&s[0])
	out[0].Add(&t, &tmp)
	tmp.Double(&s[1])
	out[1].Sub(&t, &tmp)
	three := core.Felt252FromUint64(3)
	tmp.Mul(&s[2], &three)
	out[2].Sub(&t, &tmp)
	return out
}

// PoseidonFullRoundChain applies n consecutive full rounds starting at round
func PoseidonFullRoundChain(round int, state [core.PoseidonWidth]core.Felt252, n int) []PoseidonFullRoundResult {
	out := make([]PoseidonFullRoundResult, n)
	for i := range out {
		out[i] = PoseidonFullRound(round+i, state)
		state = out[i].Out
	}
	return out
}

// PackedPoseidonFullRoundChain applies n consecutive rounds in every lane,
// one packed round at a time. out[k][lane] is round k of the lane.
func PackedPoseidonFullRoundChain(rounds [core.NLanes]int, states [core.NLanes][core.PoseidonWidth]core.Felt252, n int) [][core.NLanes]PoseidonFullRoundResult {
	out := make([][core.NLanes]PoseidonFullRoundResult, n)
	for k := range out {
		var keyed [core.PoseidonWidth][core.NLanes]core.Felt252
		for lane := range states {
			r := rounds[lane] + k
			out[k][lane].Round = r % core.PoseidonFullRounds
			out[k][lane].Keys = PoseidonRoundKeys(r)
			for i := 0; i < core.PoseidonWidth; i++ {
				out[k][lane].Keyed[i].Add(&states[lane][i], &out[k][lane].Keys[i])
				keyed[i][lane] = out[k][lane].Keyed[i]
			}
		}
		for i := 0; i < core.PoseidonWidth; i++ {
			cubed := PackedCube252(&keyed[i])
			for lane := range states {
				out[k][lane].Cubed[i] = cubed[lane]
			}
		}
		for lane := range states {
			out[k][lane].Out = mds(out[k][lane].Cubed)
			states[lane] = out[k][lane].Out
		}
	}
	return out
}
