package protocols

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
)

// Prover drives the arithmetization of a built trace into a Proof:
// claims, commitments, lookup elements, logUp sums and openings.
type Prover struct {
	config    *utils.Config
	rels      *Relations
	committer Committer
	logger    zerolog.Logger
}

// NewProver creates a prover with a Merkle committer
func NewProver(config *utils.Config, rels *Relations, logger zerolog.Logger) (*Prover, error) {
	if config == nil {
		config = utils.DefaultConfig()
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Prover{
		config:    config,
		rels:      rels,
		committer: &MerkleCommitter{Workers: config.Workers},
		logger:    logger,
	}, nil
}

// WithCommitter replaces the commitment layer
func (p *Prover) WithCommitter(c Committer) *Prover {
	p.committer = c
	return p
}

// Prove runs the pipeline over a trace
func (p *Prover) Prove(trace *Trace) (*Proof, error) {
	start := time.Now()
	if err := trace.Validate(); err != nil {
		return nil, fmt.Errorf("invalid trace: %w", err)
	}

	ch := utils.NewChannel(p.config.HashFunction)
	proof := &Proof{}

	// 1. Claims
	for _, ct := range trace.Components {
		proof.Claims = append(proof.Claims, ComponentClaim{
			Name:    ct.Component.Name(),
			LogSize: uint32(ct.LogSize),
			NRows:   uint32(ct.NRows),
		})
		ch.MixU64s([]uint64{uint64(ct.LogSize), uint64(ct.NRows)})
	}

	// 2. Preprocessed and main commitments
	stepStart := time.Now()
	pre := make([][]*core.Column, len(trace.Components))
	mainSets := make([][]*core.Column, len(trace.Components))
	for i, ct := range trace.Components {
		pre[i] = ct.ColumnsWithRole(RolePreprocessed)
		mainSets[i] = ct.ColumnsWithRole(RoleEnabler, RoleMain, RoleMultiplicity)
	}
	for _, sets := range [][][]*core.Column{pre, mainSets} {
		c, err := p.committer.Commit(sets)
		if err != nil {
			return nil, fmt.Errorf("failed to commit trace: %w", err)
		}
		proof.Commitments = append(proof.Commitments, c)
		ch.MixU64s(c.Root)
	}
	p.logger.Debug().Dur("took", time.Since(stepStart)).Msg("committed preprocessed and main trace")

	// 3. Lookup elements
	elements := DrawInteractionElements(ch, p.rels.Registry)

	// 4. Optional internal consistency checks
	if p.config.CheckRelations {
		if err := CheckConstraints(trace, p.rels); err != nil {
			return nil, err
		}
		if err := TrackRelations(trace, p.rels); err != nil {
			return nil, err
		}
		p.logger.Debug().Msg("constraints and relations check out")
	}

	// 5. logUp interaction
	stepStart = time.Now()
	its, err := GenerateInteraction(trace, p.rels, elements, p.config.Workers)
	if err != nil {
		return nil, fmt.Errorf("failed to generate interaction trace: %w", err)
	}
	if total := TotalClaimedSum(its); !total.IsZero() {
		return nil, &ImbalanceError{ClaimedSum: total}
	}
	p.logger.Debug().Dur("took", time.Since(stepStart)).Msg("generated interaction trace")

	// 6. Interaction commitment and claims
	inter := make([][]*core.Column, len(its))
	sums := make([]core.QM31, len(its))
	for i, it := range its {
		inter[i] = it.Cumulative.Columns[:]
		sums[i] = it.ClaimedSum
		proof.InteractionClaims = append(proof.InteractionClaims, InteractionClaim{
			Name:       it.Component,
			ClaimedSum: it.ClaimedSum,
		})
	}
	c, err := p.committer.Commit(inter)
	if err != nil {
		return nil, fmt.Errorf("failed to commit interaction trace: %w", err)
	}
	proof.Commitments = append(proof.Commitments, c)
	ch.MixU64s(c.Root)
	ch.MixSecureFelts(sums)

	// 7. Openings
	for _, ct := range trace.Components {
		cols := ct.ColumnsWithRole(RoleEnabler, RoleMain, RoleMultiplicity)
		for _, row := range ch.DrawQueries(p.config.NumQueries, ct.Size()) {
			values := make([]core.M31, len(cols))
			for i, col := range cols {
				values[i] = col.At(row)
			}
			proof.Openings = append(proof.Openings, Opening{
				Component: ct.Component.Name(),
				Row:       uint32(row),
				Values:    values,
			})
		}
	}

	p.logger.Info().
		Int("components", len(trace.Components)).
		Int("openings", len(proof.Openings)).
		Dur("took", time.Since(start)).
		Msg("proof assembled")
	return proof, nil
}
