package protocols

import (
	"sort"
	"strconv"
	"strings"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// RelationTracker sums signed multiplicities per relation tuple over a
// whole trace. It is the internal consistency check behind the logUp
// argument: every tuple must end at zero.
type RelationTracker struct {
	enabler core.M31
	sums    map[string]*trackedTuple
}

type trackedTuple struct {
	relation string
	values   []core.M31
	sum      core.M31
}

// NewRelationTracker creates an empty tracker
func NewRelationTracker() *RelationTracker {
	return &RelationTracker{sums: make(map[string]*trackedTuple)}
}

// BeginRow records the enabler of the row being evaluated
func (t *RelationTracker) BeginRow(_ string, _ int, enabler core.M31) {
	t.enabler = enabler
}

// AddConstraint ignores residues
func (t *RelationTracker) AddConstraint(core.M31) {}

// AddToRelation adds the enabler-scaled multiplicity of the tuple
func (t *RelationTracker) AddToRelation(entry RelationEntry) {
	mult := entry.Multiplicity.Mul(t.enabler)
	if mult.IsZero() {
		return
	}
	key := tupleKey(entry.Relation.Name, entry.Values)
	tt, ok := t.sums[key]
	if !ok {
		tt = &trackedTuple{relation: entry.Relation.Name, values: append([]core.M31(nil), entry.Values...)}
		t.sums[key] = tt
	}
	tt.sum = tt.sum.Add(mult)
}

// Imbalances returns every tuple with a non-zero sum, sorted by key
func (t *RelationTracker) Imbalances() []*ImbalanceError {
	keys := make([]string, 0, len(t.sums))
	for k, tt := range t.sums {
		if !tt.sum.IsZero() {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	out := make([]*ImbalanceError, len(keys))
	for i, k := range keys {
		tt := t.sums[k]
		out[i] = &ImbalanceError{Relation: tt.relation, Values: tt.values, Sum: tt.sum.Signed()}
	}
	return out
}

// Check returns the first imbalance, or nil
func (t *RelationTracker) Check() error {
	if imb := t.Imbalances(); len(imb) > 0 {
		return imb[0]
	}
	return nil
}

func tupleKey(relation string, values []core.M31) string {
	var b strings.Builder
	b.WriteString(relation)
	for _, v := range values {
		b.WriteByte(':')
		b.WriteString(strconv.FormatUint(uint64(v), 10))
	}
	return b.String()
}

// TrackRelations evaluates every row of every component into a tracker
// and reports the first unbalanced tuple.
func TrackRelations(trace *Trace, rels *Relations) error {
	tracker := NewRelationTracker()
	for _, ct := range trace.Components {
		ct.Component.Evaluate(ct, rels, tracker)
	}
	return tracker.Check()
}

// constraintChecker fails on the first non-zero residue
type constraintChecker struct {
	component string
	row       int
	index     int
	err       *ConstraintError
}

func (c *constraintChecker) BeginRow(component string, row int, _ core.M31) {
	c.component, c.row, c.index = component, row, 0
}

func (c *constraintChecker) AddConstraint(residue core.M31) {
	if c.err == nil && !residue.IsZero() {
		c.err = &ConstraintError{Component: c.component, Row: c.row, Constraint: c.index, Residue: residue}
	}
	c.index++
}

func (c *constraintChecker) AddToRelation(RelationEntry) {}

// CheckConstraints evaluates every row and reports the first residue that
// does not vanish.
func CheckConstraints(trace *Trace, rels *Relations) error {
	checker := &constraintChecker{}
	for _, ct := range trace.Components {
		for row := 0; row < ct.Size(); row++ {
			ct.Component.EvaluateRow(ct, row, rels, checker)
			if checker.err != nil {
				return checker.err
			}
		}
	}
	return nil
}
