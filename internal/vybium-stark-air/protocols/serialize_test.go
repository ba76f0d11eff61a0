package protocols

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

func sampleProof() *Proof {
	return &Proof{
		Claims: []ComponentClaim{
			{Name: CompMemoryAddressToID, LogSize: 4, NRows: 3},
			{Name: CompRangeCheck9, LogSize: 9, NRows: 512},
		},
		Commitments: []Commitment{{Root: []uint64{1, 2, 3, 4, 5}}},
		InteractionClaims: []InteractionClaim{
			{Name: CompMemoryAddressToID, ClaimedSum: core.QM31FromM31s(1, 2, 3, 4)},
		},
		Openings: []Opening{
			{Component: CompRangeCheck9, Row: 7, Values: []core.M31{1, 7, 0}},
		},
	}
}

func TestParseProofFormat(t *testing.T) {
	for in, want := range map[string]ProofFormat{
		"readable":    FormatReadable,
		"JSON":        FormatReadable,
		"compact":     FormatCompact,
		"cairo-serde": FormatCompact,
	} {
		got, err := ParseProofFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseProofFormat("binary")
	assert.Error(t, err)
}

func TestEmptyProofCompact(t *testing.T) {
	felts, err := (&Proof{}).SerializeFelts()
	require.NoError(t, err)
	assert.Empty(t, felts)

	data, err := EncodeProof(&Proof{}, FormatCompact)
	require.NoError(t, err)
	assert.Equal(t, make([]byte, CompactHeaderSize), data)

	path := filepath.Join(t.TempDir(), "proof.bin")
	require.NoError(t, SerializeProofToFile(&Proof{}, path, FormatCompact, zerolog.Nop()))
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, int64(CompactHeaderSize), info.Size())
}

func TestSerializeFeltsLayout(t *testing.T) {
	felts, err := sampleProof().SerializeFelts()
	require.NoError(t, err)

	// 2 claims * 3 + commitment 1+5 + interaction claim 1+4 + opening 3+3
	require.Len(t, felts, 6+6+5+6)

	name, err := shortString(CompMemoryAddressToID)
	require.NoError(t, err)
	assert.Equal(t, name, felts[0])
	assert.Equal(t, core.Felt252FromUint64(4), felts[1])
	assert.Equal(t, core.Felt252FromUint64(3), felts[2])
	assert.Equal(t, core.Felt252FromUint64(5), felts[6])

	b := name.Bytes()
	assert.True(t, bytes.HasSuffix(b[:], []byte(CompMemoryAddressToID)))
}

func TestCompactRoundTrip(t *testing.T) {
	data, err := EncodeProof(sampleProof(), FormatCompact)
	require.NoError(t, err)
	assert.Equal(t, uint64(23), binary.BigEndian.Uint64(data[:CompactHeaderSize]))
	assert.Len(t, data, CompactHeaderSize+23*CompactElementSize)

	felts, err := DecodeCompact(data)
	require.NoError(t, err)
	want, err := sampleProof().SerializeFelts()
	require.NoError(t, err)
	assert.Equal(t, want, felts)
}

func TestDecodeCompactRejects(t *testing.T) {
	good := EncodeCompact([]core.Felt252{core.Felt252FromUint64(9)})

	_, err := DecodeCompact(good[:4])
	assert.Error(t, err, "short header")

	_, err = DecodeCompact(good[:len(good)-1])
	assert.Error(t, err, "truncated body")

	_, err = DecodeCompact(append(append([]byte{}, good...), 0))
	assert.Error(t, err, "trailing byte")

	bad := append([]byte{}, good...)
	fp.Modulus().FillBytes(bad[CompactHeaderSize:])
	_, err = DecodeCompact(bad)
	assert.ErrorContains(t, err, "canonical")
}

func TestReadableRoundTrip(t *testing.T) {
	data, err := EncodeProof(sampleProof(), FormatReadable)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"claimed_sum": [`)

	got, err := DecodeReadableProof(data)
	require.NoError(t, err)
	assert.Equal(t, sampleProof(), got)

	_, err = DecodeReadableProof([]byte(`{"claims": [], "extra": 1}`))
	assert.Error(t, err)
}

func TestCompactRejectsUnencodableNames(t *testing.T) {
	for _, name := range []string{strings.Repeat("x", 32), "réseau"} {
		proof := &Proof{Claims: []ComponentClaim{{Name: name}}}
		_, err := EncodeProof(proof, FormatCompact)
		var encErr *EncodingError
		require.ErrorAs(t, err, &encErr, name)
		assert.Equal(t, FormatCompact, encErr.Format)

		path := filepath.Join(t.TempDir(), "proof.bin")
		require.Error(t, SerializeProofToFile(proof, path, FormatCompact, zerolog.Nop()))
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr), "no file on encoding failure")
	}

	_, err := shortString(strings.Repeat("x", 31))
	assert.NoError(t, err)
}

func TestSerializeProofToFileIOError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "proof.json")
	err := SerializeProofToFile(sampleProof(), path, FormatReadable, zerolog.Nop())

	var ioErr *ProofIOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "create", ioErr.Op)
	assert.Equal(t, path, ioErr.Path)
}

func TestSerializeProofToFileReadable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "proof.json")
	require.NoError(t, SerializeProofToFile(sampleProof(), path, FormatReadable, zerolog.Nop()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	want, err := EncodeProof(sampleProof(), FormatReadable)
	require.NoError(t, err)
	assert.Equal(t, want, data)
}
