package protocols

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/consensys/gnark-crypto/ecc/stark-curve/fp"
	"github.com/rs/zerolog"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// ProofFormat selects the proof file encoding
type ProofFormat int

const (
	// FormatReadable is indented JSON of the Proof object
	FormatReadable ProofFormat = iota

	// FormatCompact is the length-prefixed felt252 array
	FormatCompact
)

// String returns the name of the format
func (f ProofFormat) String() string {
	switch f {
	case FormatReadable:
		return "readable"
	case FormatCompact:
		return "compact"
	default:
		return fmt.Sprintf("ProofFormat(%d)", int(f))
	}
}

// ParseProofFormat parses a format name
func ParseProofFormat(s string) (ProofFormat, error) {
	switch strings.ToLower(s) {
	case "readable", "json":
		return FormatReadable, nil
	case "compact", "cairo-serde":
		return FormatCompact, nil
	default:
		return 0, fmt.Errorf("unknown proof format %q (want readable or compact)", s)
	}
}

// Compact layout: an 8-byte big-endian element count, then every element
// as its canonical 32-byte big-endian representation.
const (
	CompactHeaderSize  = 8
	CompactElementSize = core.Felt252Bytes
)

// EncodeCompact packs field elements into the compact layout
func EncodeCompact(felts []core.Felt252) []byte {
	out := make([]byte, CompactHeaderSize, CompactHeaderSize+CompactElementSize*len(felts))
	binary.BigEndian.PutUint64(out, uint64(len(felts)))
	for i := range felts {
		b := felts[i].Bytes()
		out = append(out, b[:]...)
	}
	return out
}

// DecodeCompact unpacks the compact layout, rejecting truncated input,
// trailing bytes and non-canonical elements.
func DecodeCompact(data []byte) ([]core.Felt252, error) {
	if len(data) < CompactHeaderSize {
		return nil, fmt.Errorf("compact proof is %d bytes, shorter than its header", len(data))
	}
	n := binary.BigEndian.Uint64(data[:CompactHeaderSize])
	body := data[CompactHeaderSize:]
	if uint64(len(body))%CompactElementSize != 0 || uint64(len(body))/CompactElementSize != n {
		return nil, fmt.Errorf("compact proof declares %d elements but carries %d bytes", n, len(body))
	}

	modulus := fp.Modulus()
	felts := make([]core.Felt252, n)
	for i := range felts {
		chunk := body[i*CompactElementSize : (i+1)*CompactElementSize]
		if new(big.Int).SetBytes(chunk).Cmp(modulus) >= 0 {
			return nil, fmt.Errorf("element %d is not a canonical felt252", i)
		}
		felts[i].SetBytes(chunk)
	}
	return felts, nil
}

// EncodeProof encodes the proof in memory. It is a pure function of the
// proof and the format.
func EncodeProof(proof *Proof, format ProofFormat) ([]byte, error) {
	switch format {
	case FormatReadable:
		data, err := json.MarshalIndent(proof, "", "  ")
		if err != nil {
			return nil, &EncodingError{Format: format, Message: "json marshalling failed", Cause: err}
		}
		return data, nil
	case FormatCompact:
		felts, err := proof.SerializeFelts()
		if err != nil {
			return nil, err
		}
		return EncodeCompact(felts), nil
	default:
		return nil, &EncodingError{Format: format, Message: "unsupported format"}
	}
}

// DecodeReadableProof parses the readable encoding
func DecodeReadableProof(data []byte) (*Proof, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	var proof Proof
	if err := dec.Decode(&proof); err != nil {
		return nil, fmt.Errorf("failed to parse readable proof: %w", err)
	}
	return &proof, nil
}

// SerializeProofToFile encodes the proof and writes it with a single
// create and write. Either the whole file is written or an error is
// returned; the file is closed on every path.
func SerializeProofToFile(proof *Proof, path string, format ProofFormat, logger zerolog.Logger) (err error) {
	start := time.Now()
	logger.Info().Str("path", path).Stringer("format", format).Msg("serializing proof")

	data, err := EncodeProof(proof, format)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return &ProofIOError{Path: path, Op: "create", Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &ProofIOError{Path: path, Op: "close", Err: cerr}
		}
	}()

	if _, err := f.Write(data); err != nil {
		return &ProofIOError{Path: path, Op: "write", Err: err}
	}

	logger.Info().Int("bytes", len(data)).Dur("took", time.Since(start)).Msg("proof written")
	return nil
}
