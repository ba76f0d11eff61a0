package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// RelationEntry is one contribution to a lookup argument: the row asserts
// that Values appears in Relation with the given signed multiplicity.
type RelationEntry struct {
	Relation     *Relation
	Multiplicity core.M31
	Values       []core.M31
}

// NewRelationEntry builds an entry, panicking if the tuple does not match
// the relation's arity.
func NewRelationEntry(rel *Relation, multiplicity core.M31, values ...core.M31) RelationEntry {
	if len(values) != rel.Arity {
		panic(fmt.Sprintf("relation %s expects %d arguments, got %d", rel.Name, rel.Arity, len(values)))
	}
	return RelationEntry{
		Relation:     rel,
		Multiplicity: multiplicity,
		Values:       append([]core.M31(nil), values...),
	}
}

// Use is a consuming entry with multiplicity one
func Use(rel *Relation, values ...core.M31) RelationEntry {
	return NewRelationEntry(rel, core.One, values...)
}

// Yield is a defining entry: the multiplicity is negated
func Yield(rel *Relation, multiplicity core.M31, values ...core.M31) RelationEntry {
	return NewRelationEntry(rel, multiplicity.Neg(), values...)
}

// EvalContext is the accumulator every evaluator writes into.
// Residues must vanish on every row; entries must balance across components.
type EvalContext interface {
	AddConstraint(residue core.M31)
	AddToRelation(entry RelationEntry)
}

// RowContext is an EvalContext that is told which row it is evaluating.
// Backends scale every relation entry by the row enabler.
type RowContext interface {
	EvalContext
	BeginRow(component string, row int, enabler core.M31)
}

// collectingContext records everything an evaluator emits
type collectingContext struct {
	constraints []core.M31
	entries     []RelationEntry
}

func (c *collectingContext) AddConstraint(residue core.M31) {
	c.constraints = append(c.constraints, residue)
}

func (c *collectingContext) AddToRelation(entry RelationEntry) {
	c.entries = append(c.entries, entry)
}

// usageGuard rejects entries to relations the component did not declare
type usageGuard struct {
	RowContext
	component *Component
}

func (g usageGuard) AddToRelation(entry RelationEntry) {
	if !g.component.Uses(entry.Relation) {
		panic(fmt.Sprintf("component %s emitted an entry for undeclared relation %s",
			g.component.Name(), entry.Relation.Name))
	}
	g.RowContext.AddToRelation(entry)
}
