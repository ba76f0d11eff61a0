package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/utils"
)

// LookupElements are the random coefficients owned by one relation:
// a tuple (v_0, ..., v_{n-1}) is combined into sum(alpha^i * v_i) - z.
type LookupElements struct {
	Relation    *Relation
	Z           core.QM31
	Alpha       core.QM31
	AlphaPowers []core.QM31
}

// DrawLookupElements draws z and alpha for a relation from the channel
func DrawLookupElements(ch *utils.Channel, rel *Relation) *LookupElements {
	z := ch.DrawSecureFelt()
	alpha := ch.DrawSecureFelt()

	powers := make([]core.QM31, rel.Arity)
	acc := core.QM31One()
	for i := range powers {
		powers[i] = acc
		acc = acc.Mul(alpha)
	}

	return &LookupElements{
		Relation:    rel,
		Z:           z,
		Alpha:       alpha,
		AlphaPowers: powers,
	}
}

// Combine returns the logUp denominator of a tuple. A tuple of the wrong
// arity is a programming error and panics.
func (le *LookupElements) Combine(values []core.M31) core.QM31 {
	if len(values) != len(le.AlphaPowers) {
		panic(fmt.Sprintf("relation %s: combine called with %d values", le.Relation, len(values)))
	}
	acc := core.QM31Zero()
	for i, v := range values {
		acc = acc.Add(le.AlphaPowers[i].MulM31(v))
	}
	return acc.Sub(le.Z)
}

// InteractionElements holds the lookup elements of every relation
type InteractionElements struct {
	elements []*LookupElements
}

// DrawInteractionElements draws lookup elements for every relation in
// registry order, so prover and verifier agree on ownership.
func DrawInteractionElements(ch *utils.Channel, reg *Registry) *InteractionElements {
	rels := reg.Relations()
	ie := &InteractionElements{elements: make([]*LookupElements, len(rels))}
	for _, rel := range rels {
		ie.elements[rel.ID] = DrawLookupElements(ch, rel)
	}
	return ie
}

// Get returns the lookup elements of a relation
func (ie *InteractionElements) Get(rel *Relation) *LookupElements {
	if rel.ID < 0 || rel.ID >= len(ie.elements) || ie.elements[rel.ID].Relation != rel {
		panic(fmt.Sprintf("no lookup elements drawn for relation %s", rel))
	}
	return ie.elements[rel.ID]
}
