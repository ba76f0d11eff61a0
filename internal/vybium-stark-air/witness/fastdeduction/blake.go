// Package fastdeduction derives the auxiliary trace values of the hash and
// curve primitives directly, one scalar and one packed variant per helper.
// Packed variants process core.NLanes independent inputs and must agree
// lane for lane with the scalar ones.
package fastdeduction

import (
	"math/bits"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// BlakeSigma is the blake2s message schedule
var BlakeSigma = [core.BlakeRounds][core.BlakeStateWords]uint8{
	{0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15},
	{14, 10, 4, 8, 9, 15, 13, 6, 1, 12, 0, 2, 11, 7, 5, 3},
	{11, 8, 12, 0, 5, 2, 15, 13, 10, 14, 3, 6, 7, 1, 9, 4},
	{7, 9, 3, 1, 13, 12, 11, 14, 2, 6, 5, 10, 4, 0, 15, 8},
	{9, 0, 5, 7, 2, 4, 10, 15, 14, 1, 11, 12, 6, 8, 3, 13},
	{2, 12, 6, 10, 0, 11, 8, 3, 4, 13, 7, 5, 15, 14, 1, 9},
	{12, 5, 1, 15, 14, 13, 4, 10, 0, 7, 6, 3, 9, 2, 8, 11},
	{13, 11, 7, 14, 12, 1, 3, 9, 5, 0, 15, 4, 8, 6, 2, 10},
	{6, 15, 14, 9, 11, 3, 0, 8, 12, 2, 13, 7, 1, 4, 10, 5},
	{10, 2, 8, 4, 7, 6, 1, 5, 15, 11, 9, 14, 3, 12, 13, 0},
}

// BlakeIV is the blake2s initialization vector
var BlakeIV = [8]uint32{
	0x6a09e667, 0xbb67ae85, 0x3c6ef372, 0xa54ff53a,
	0x510e527f, 0x9b05688c, 0x1f83d9ab, 0x5be0cd19,
}

// BlakeGResult holds the output of G together with the values the blake_g
// trace row needs.
type BlakeGResult struct {
	A1, B1, C1, D1 uint32
	A2, B2, C2, D2 uint32
	// Carries out of the low and high 16-bit limb of the four additions:
	// a1, c1, a2, c2.
	Carries [8]uint32
}

// BlakeG applies the blake2s mixing function
func BlakeG(a, b, c, d, m0, m1 uint32) BlakeGResult {
	var r BlakeGResult
	r.A1, r.Carries[0], r.Carries[1] = addLimbs(a, b, m0)
	r.D1 = bits.RotateLeft32(d^r.A1, -16)
	r.C1, r.Carries[2], r.Carries[3] = addLimbs(c, r.D1)
	r.B1 = bits.RotateLeft32(b^r.C1, -12)
	r.A2, r.Carries[4], r.Carries[5] = addLimbs(r.A1, r.B1, m1)
	r.D2 = bits.RotateLeft32(r.D1^r.A2, -8)
	r.C2, r.Carries[6], r.Carries[7] = addLimbs(r.C1, r.D2)
	r.B2 = bits.RotateLeft32(r.B1^r.C2, -7)
	return r
}

// addLimbs adds words modulo 2^32, returning the carries out of each
// 16-bit limb
func addLimbs(terms ...uint32) (sum, carryLo, carryHi uint32) {
	var lo, hi uint32
	for _, t := range terms {
		lo += t & 0xffff
		hi += t >> 16
	}
	carryLo = lo >> 16
	hi += carryLo
	carryHi = hi >> 16
	sum = (lo & 0xffff) | (hi&0xffff)<<16
	return sum, carryLo, carryHi
}

// BlakeRoundResult is one round of the compression function
type BlakeRoundResult struct {
	Sigma           [16]uint8
	PermutedMessage [16]uint32
	Mid             [16]uint32
	Out             [16]uint32
	G               [8]BlakeGResult
	// GInputs are (a, b, c, d, m0, m1) of each G application
	GInputs [8][6]uint32
}

// BlakeRound applies round r (taken mod 10) to the state
func BlakeRound(r int, state, message [16]uint32) BlakeRoundResult {
	var res BlakeRoundResult
	res.Sigma = BlakeSigma[r%10]
	for i, s := range res.Sigma {
		res.PermutedMessage[i] = message[s]
	}

	v := state
	for i, idx := range core.BlakeGSchedule {
		m0, m1 := res.PermutedMessage[2*i], res.PermutedMessage[2*i+1]
		res.GInputs[i] = [6]uint32{v[idx[0]], v[idx[1]], v[idx[2]], v[idx[3]], m0, m1}
		g := BlakeG(v[idx[0]], v[idx[1]], v[idx[2]], v[idx[3]], m0, m1)
		res.G[i] = g
		v[idx[0]], v[idx[1]], v[idx[2]], v[idx[3]] = g.A2, g.B2, g.C2, g.D2
		if i == 3 {
			res.Mid = v
		}
	}
	res.Out = v
	return res
}

// PackedUInt32 is one uint32 per lane
type PackedUInt32 [core.NLanes]uint32

// PackedBlakeGResult is BlakeGResult per lane
type PackedBlakeGResult [core.NLanes]BlakeGResult

// PackedBlakeG applies G lane-wise
func PackedBlakeG(a, b, c, d, m0, m1 PackedUInt32) PackedBlakeGResult {
	var out PackedBlakeGResult
	for i := range out {
		out[i] = BlakeG(a[i], b[i], c[i], d[i], m0[i], m1[i])
	}
	return out
}

// PackedBlakeRound applies one round per lane. Rounds may differ per lane.
func PackedBlakeRound(rounds [core.NLanes]int, states, messages [core.NLanes][16]uint32) [core.NLanes]BlakeRoundResult {
	var out [core.NLanes]BlakeRoundResult
	for i := range out {
		out[i] = BlakeRound(rounds[i], states[i], messages[i])
	}
	return out
}

// PackedBlakeRoundSigma looks up the schedule of each lane's round and
// returns it as 16 packed columns.
func PackedBlakeRoundSigma(rounds core.PackedM31) [16]core.PackedM31 {
	var out [16]core.PackedM31
	for lane, r := range rounds {
		sigma := BlakeSigma[int(r)%10]
		for j, s := range sigma {
			out[j][lane] = core.M31(s)
		}
	}
	return out
}

// SplitU32 returns the low and high 16-bit limbs of a word
func SplitU32(w uint32) (lo, hi core.M31) {
	return core.M31(w & 0xffff), core.M31(w >> 16)
}

// BlakeCompress runs the full compression function on one block, as used
// by the tests to check the round logic against blake2s.
func BlakeCompress(h [8]uint32, message [16]uint32, t uint64, last bool) [8]uint32 {
	var v [16]uint32
	copy(v[:8], h[:])
	copy(v[8:], BlakeIV[:])
	v[12] ^= uint32(t)
	v[13] ^= uint32(t >> 32)
	if last {
		v[14] = ^v[14]
	}
	for r := 0; r < 10; r++ {
		v = BlakeRound(r, v, message).Out
	}
	var out [8]uint32
	for i := range out {
		out[i] = h[i] ^ v[i] ^ v[i+8]
	}
	return out
}
