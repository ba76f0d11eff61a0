package fastdeduction

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/blake2s"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

func TestBlakeCompressMatchesBlake2s(t *testing.T) {
	for _, input := range [][]byte{
		{},
		[]byte("abc"),
		[]byte("the quick brown fox jumps over the lazy dog, 64 byte block!!!!!"),
	} {
		require.LessOrEqual(t, len(input), 64)

		var block [64]byte
		copy(block[:], input)
		var msg [16]uint32
		for i := range msg {
			msg[i] = binary.LittleEndian.Uint32(block[4*i:])
		}

		h := BlakeIV
		// parameter block: digest length 32, key length 0, fanout 1, depth 1
		h[0] ^= 0x01010020
		out := BlakeCompress(h, msg, uint64(len(input)), true)

		var got [32]byte
		for i, w := range out {
			binary.LittleEndian.PutUint32(got[4*i:], w)
		}
		assert.Equal(t, blake2s.Sum256(input), got, "input %q", input)
	}
}

func TestBlakeGCarries(t *testing.T) {
	g := BlakeG(0xffffffff, 0xffffffff, 0x12345678, 0x9abcdef0, 0xffffffff, 1)

	// a1 = 3 * 0xffffffff mod 2^32 with a low-limb carry of 2
	assert.Equal(t, uint32(0xfffffffd), g.A1)
	assert.Equal(t, uint32(2), g.Carries[0])
	assert.Equal(t, uint32(2), g.Carries[1])

	for i, c := range g.Carries {
		if i == 2 || i == 3 || i == 6 || i == 7 {
			assert.LessOrEqual(t, c, uint32(1), "two-term carry %d", i)
		} else {
			assert.LessOrEqual(t, c, uint32(2), "three-term carry %d", i)
		}
	}
}

func TestBlakeRoundIntermediates(t *testing.T) {
	var state, msg [16]uint32
	for i := range state {
		state[i] = uint32(i) * 0x01010101
		msg[i] = uint32(i+1) * 0x10203040
	}
	res := BlakeRound(3, state, msg)

	assert.Equal(t, BlakeSigma[3], res.Sigma)
	for i, s := range res.Sigma {
		assert.Equal(t, msg[s], res.PermutedMessage[i])
	}
	// the diagonal step reads the column step's output
	assert.Equal(t, res.Mid[0], res.GInputs[4][0])
	assert.Equal(t, res.G[7].B2, res.Out[4])
}

func TestPackedBlakeMatchesScalar(t *testing.T) {
	var rounds [core.NLanes]int
	var states, msgs [core.NLanes][16]uint32
	var roundCol core.PackedM31
	for lane := 0; lane < core.NLanes; lane++ {
		rounds[lane] = lane % 10
		roundCol[lane] = core.M31(lane % 10)
		for i := 0; i < 16; i++ {
			states[lane][i] = uint32(lane*977 + i*31337)
			msgs[lane][i] = uint32(lane*7919 ^ i*104729)
		}
	}

	packed := PackedBlakeRound(rounds, states, msgs)
	for lane := range packed {
		assert.Equal(t, BlakeRound(rounds[lane], states[lane], msgs[lane]), packed[lane])
	}

	sigma := PackedBlakeRoundSigma(roundCol)
	for lane := 0; lane < core.NLanes; lane++ {
		for j := 0; j < 16; j++ {
			assert.Equal(t, core.M31(BlakeSigma[lane%10][j]), sigma[j][lane])
		}
	}

	var a, b, c, d, m0, m1 PackedUInt32
	for lane := range a {
		a[lane], b[lane], c[lane] = uint32(lane), uint32(lane)<<20, 0xdeadbeef
		d[lane], m0[lane], m1[lane] = uint32(lane)*3, 0xffffffff, uint32(lane)
	}
	pg := PackedBlakeG(a, b, c, d, m0, m1)
	for lane := range pg {
		assert.Equal(t, BlakeG(a[lane], b[lane], c[lane], d[lane], m0[lane], m1[lane]), pg[lane])
	}
}

func TestSplitU32(t *testing.T) {
	lo, hi := SplitU32(0xabcd1234)
	assert.Equal(t, core.M31(0x1234), lo)
	assert.Equal(t, core.M31(0xabcd), hi)
}
