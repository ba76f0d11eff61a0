package vybiumstarkair

import (
	"github.com/rs/zerolog"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness"
)

// Prover builds traces and proofs for witnesses
type Prover struct {
	config  *Config
	rels    *protocols.Relations
	builder *witness.Builder
	prover  *protocols.Prover
	logger  zerolog.Logger
}

// NewProver creates a prover. A nil config means DefaultConfig.
func NewProver(config *Config, logger zerolog.Logger) (*Prover, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, &AIRError{Code: ErrInvalidConfig, Message: "invalid configuration", Cause: err}
	}

	rels := protocols.NewRelations()
	builder, err := witness.NewBuilder(config, rels, logger)
	if err != nil {
		return nil, &AIRError{Code: ErrInvalidConfig, Message: "failed to create trace builder", Cause: err}
	}
	prover, err := protocols.NewProver(config, rels, logger)
	if err != nil {
		return nil, &AIRError{Code: ErrInvalidConfig, Message: "failed to create prover", Cause: err}
	}

	return &Prover{
		config:  config,
		rels:    rels,
		builder: builder,
		prover:  prover,
		logger:  logger,
	}, nil
}

// LoadWitness reads and validates a JSON witness file
func LoadWitness(path string) (*Witness, error) {
	w, err := witness.LoadWitness(path)
	if err != nil {
		return nil, &AIRError{Code: ErrInvalidWitness, Message: "failed to load witness", Cause: err}
	}
	return w, nil
}

// ParseWitness decodes and validates a JSON witness
func ParseWitness(data []byte) (*Witness, error) {
	w, err := witness.ParseWitness(data)
	if err != nil {
		return nil, &AIRError{Code: ErrInvalidWitness, Message: "failed to parse witness", Cause: err}
	}
	return w, nil
}

// BuildTrace builds the trace of every component
func (p *Prover) BuildTrace(w *Witness) (*Trace, error) {
	trace, err := p.builder.Build(w)
	if err != nil {
		return nil, classify(ErrTraceGeneration, "failed to build trace", err)
	}
	return trace, nil
}

// CheckTrace runs the constraint checker and the relation tracker
func (p *Prover) CheckTrace(trace *Trace) error {
	if err := protocols.CheckConstraints(trace, p.rels); err != nil {
		return classify(ErrConstraint, "trace does not satisfy its constraints", err)
	}
	if err := protocols.TrackRelations(trace, p.rels); err != nil {
		return classify(ErrRelationImbalance, "trace relations do not balance", err)
	}
	return nil
}

// ProveTrace proves an already built trace
func (p *Prover) ProveTrace(trace *Trace) (*Proof, error) {
	proof, err := p.prover.Prove(trace)
	if err != nil {
		return nil, classify(ErrProofGeneration, "failed to generate proof", err)
	}
	return proof, nil
}

// Prove builds the trace of a witness and proves it
func (p *Prover) Prove(w *Witness) (*Proof, error) {
	trace, err := p.BuildTrace(w)
	if err != nil {
		return nil, err
	}
	return p.ProveTrace(trace)
}

// WriteProof writes the proof to path in the given format
func (p *Prover) WriteProof(proof *Proof, path string, format ProofFormat) error {
	if err := protocols.SerializeProofToFile(proof, path, format, p.logger); err != nil {
		return classify(ErrIO, "failed to write proof", err)
	}
	return nil
}

// EncodeProof encodes the proof in memory
func EncodeProof(proof *Proof, format ProofFormat) ([]byte, error) {
	data, err := protocols.EncodeProof(proof, format)
	if err != nil {
		return nil, classify(ErrEncoding, "failed to encode proof", err)
	}
	return data, nil
}
