package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// ComponentClaim states the shape of one component trace
type ComponentClaim struct {
	Name    string `json:"name"`
	LogSize uint32 `json:"log_size"`
	NRows   uint32 `json:"n_rows"`
}

// InteractionClaim is the logUp sum claimed for one component
type InteractionClaim struct {
	Name       string    `json:"name"`
	ClaimedSum core.QM31 `json:"claimed_sum"`
}

// Opening is the main-trace row of a component at a sampled row
type Opening struct {
	Component string     `json:"component"`
	Row       uint32     `json:"row"`
	Values    []core.M31 `json:"values"`
}

// Proof is the terminal object of the pipeline; it is only ever serialized.
// Commitments are ordered preprocessed, main, interaction.
type Proof struct {
	Claims            []ComponentClaim   `json:"claims"`
	Commitments       []Commitment       `json:"commitments"`
	InteractionClaims []InteractionClaim `json:"interaction_claims"`
	Openings          []Opening          `json:"openings"`
}

// maxShortStringLen is the number of bytes a felt252 short string can hold
const maxShortStringLen = 31

// SerializeFelts flattens the proof into field elements. Sections are
// concatenated without counts, so an empty proof has no elements; inner
// variable-length lists carry their length. Names become short strings.
func (p *Proof) SerializeFelts() ([]core.Felt252, error) {
	var out []core.Felt252
	u := func(v uint64) {
		out = append(out, core.Felt252FromUint64(v))
	}
	str := func(s string) error {
		f, err := shortString(s)
		if err != nil {
			return err
		}
		out = append(out, f)
		return nil
	}

	for _, c := range p.Claims {
		if err := str(c.Name); err != nil {
			return nil, err
		}
		u(uint64(c.LogSize))
		u(uint64(c.NRows))
	}
	for _, c := range p.Commitments {
		u(uint64(len(c.Root)))
		for _, v := range c.Root {
			u(v)
		}
	}
	for _, c := range p.InteractionClaims {
		if err := str(c.Name); err != nil {
			return nil, err
		}
		for _, v := range c.ClaimedSum.ToM31Array() {
			u(uint64(v))
		}
	}
	for _, o := range p.Openings {
		if err := str(o.Component); err != nil {
			return nil, err
		}
		u(uint64(o.Row))
		u(uint64(len(o.Values)))
		for _, v := range o.Values {
			u(uint64(v))
		}
	}
	return out, nil
}

// shortString packs an ASCII string of at most 31 bytes big-endian into a felt
func shortString(s string) (core.Felt252, error) {
	if len(s) > maxShortStringLen {
		return core.Felt252{}, &EncodingError{
			Format:  FormatCompact,
			Message: fmt.Sprintf("name %q is longer than %d bytes", s, maxShortStringLen),
		}
	}
	var buf [core.Felt252Bytes]byte
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return core.Felt252{}, &EncodingError{
				Format:  FormatCompact,
				Message: fmt.Sprintf("name %q is not ASCII", s),
			}
		}
		buf[core.Felt252Bytes-len(s)+i] = s[i]
	}
	var f core.Felt252
	f.SetBytes(buf[:])
	return f, nil
}
