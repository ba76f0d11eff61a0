// Package protocols implements the arithmetization of the prover: the
// relation registry, the component evaluator contract and the declaration
// table of components, the logUp interaction phase, column commitments and
// proof serialization.
package protocols

import (
	"fmt"
)

// Relation names used by the standard components
const (
	RelMemoryAddressToID   = "MemoryAddressToId"
	RelMemoryIDToBig       = "MemoryIdToBig"
	RelRangeCheck9         = "RangeCheck_9"
	RelBlakeRoundSigma     = "BlakeRoundSigma"
	RelBlakeG              = "BlakeG"
	RelPoseidonRoundKeys   = "PoseidonRoundKeys"
	RelCube252             = "Cube252"
	RelPedersenPointsTable = "PedersenPointsTable"
)

// Relation is a named lookup relation with a fixed argument arity.
// The table it describes is defined implicitly by every entry that
// references it; the signed multiplicities per tuple must sum to zero.
type Relation struct {
	// ID is the declaration index; it fixes which lookup elements the
	// relation owns.
	ID int

	Name  string
	Arity int
}

func (r *Relation) String() string {
	return fmt.Sprintf("%s/%d", r.Name, r.Arity)
}

// Registry holds the declared relations. It is filled once at pipeline
// start and read-only after Seal, so it can be shared without locking.
type Registry struct {
	relations []*Relation
	byName    map[string]*Relation
	sealed    bool
}

// NewRegistry creates an empty, unsealed registry
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*Relation)}
}

// Declare adds a relation
func (r *Registry) Declare(name string, arity int) (*Relation, error) {
	if r.sealed {
		return nil, fmt.Errorf("cannot declare relation %q: registry is sealed", name)
	}
	if name == "" {
		return nil, fmt.Errorf("relation name cannot be empty")
	}
	if arity <= 0 {
		return nil, fmt.Errorf("relation %q: arity must be positive, got %d", name, arity)
	}
	if _, exists := r.byName[name]; exists {
		return nil, fmt.Errorf("relation %q already declared", name)
	}

	rel := &Relation{ID: len(r.relations), Name: name, Arity: arity}
	r.relations = append(r.relations, rel)
	r.byName[name] = rel
	return rel, nil
}

// MustDeclare is Declare for static declaration tables; it panics on error
func (r *Registry) MustDeclare(name string, arity int) *Relation {
	rel, err := r.Declare(name, arity)
	if err != nil {
		panic(err)
	}
	return rel
}

// Seal makes the registry read-only
func (r *Registry) Seal() {
	r.sealed = true
}

// Sealed reports whether Seal was called
func (r *Registry) Sealed() bool {
	return r.sealed
}

// Relations returns the relations in declaration order
func (r *Registry) Relations() []*Relation {
	return append([]*Relation(nil), r.relations...)
}

// Lookup finds a relation by name
func (r *Registry) Lookup(name string) (*Relation, bool) {
	rel, ok := r.byName[name]
	return rel, ok
}

// Len returns the number of declared relations
func (r *Registry) Len() int {
	return len(r.relations)
}

// Relations bundles the sealed registry with typed handles to the standard
// relations. One value is built per pipeline and passed to every component
// and builder.
type Relations struct {
	Registry *Registry

	MemoryAddressToID   *Relation
	MemoryIDToBig       *Relation
	RangeCheck9         *Relation
	BlakeRoundSigma     *Relation
	BlakeG              *Relation
	PoseidonRoundKeys   *Relation
	Cube252             *Relation
	PedersenPointsTable *Relation
}

// NewRelations declares the standard relations and seals the registry
func NewRelations() *Relations {
	reg := NewRegistry()
	rels := &Relations{
		Registry:            reg,
		MemoryAddressToID:   reg.MustDeclare(RelMemoryAddressToID, 2),
		MemoryIDToBig:       reg.MustDeclare(RelMemoryIDToBig, 12),
		RangeCheck9:         reg.MustDeclare(RelRangeCheck9, 1),
		BlakeRoundSigma:     reg.MustDeclare(RelBlakeRoundSigma, 17),
		BlakeG:              reg.MustDeclare(RelBlakeG, 20),
		PoseidonRoundKeys:   reg.MustDeclare(RelPoseidonRoundKeys, 31),
		Cube252:             reg.MustDeclare(RelCube252, 20),
		PedersenPointsTable: reg.MustDeclare(RelPedersenPointsTable, 21),
	}
	reg.Seal()
	return rels
}
