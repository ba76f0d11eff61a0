package vybiumstarkair

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness"
)

// M31 is an element of the base field 2^31 - 1
type M31 = core.M31

// QM31 is an element of the degree-4 secure extension
type QM31 = core.QM31

// Config represents the prover configuration
type Config = utils.Config

// Witness is the execution witness the trace is built from
type Witness = witness.Witness

// Trace is the column sets of every component
type Trace = protocols.Trace

// Proof is the serialized output of the prover
type Proof = protocols.Proof

// ProofFormat selects the proof file encoding
type ProofFormat = protocols.ProofFormat

// Proof formats
const (
	FormatReadable = protocols.FormatReadable
	FormatCompact  = protocols.FormatCompact
)

// DefaultConfig returns the default prover configuration
func DefaultConfig() *Config {
	return utils.DefaultConfig()
}

// ParseProofFormat parses "readable" or "compact"
func ParseProofFormat(s string) (ProofFormat, error) {
	f, err := protocols.ParseProofFormat(s)
	if err != nil {
		return 0, &AIRError{Code: ErrInvalidConfig, Message: "invalid proof format", Cause: err}
	}
	return f, nil
}
