package protocols

import (
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// ColumnRole classifies a column group of a component
type ColumnRole int

const (
	// RoleEnabler is the 0/1 column marking real rows; every component has one
	RoleEnabler ColumnRole = iota

	// RolePreprocessed columns are fixed tables independent of the witness
	RolePreprocessed

	// RoleMain columns are derived from the witness
	RoleMain

	// RoleMultiplicity columns count how often a defined tuple is used
	RoleMultiplicity
)

// String returns the name of the role
func (r ColumnRole) String() string {
	switch r {
	case RoleEnabler:
		return "enabler"
	case RolePreprocessed:
		return "preprocessed"
	case RoleMain:
		return "main"
	case RoleMultiplicity:
		return "multiplicity"
	default:
		return fmt.Sprintf("ColumnRole(%d)", int(r))
	}
}

// EnablerColumn is the name of the group NewComponent prepends
const EnablerColumn = "enabler"

// ColumnGroup is a named run of adjacent columns sharing a role
type ColumnGroup struct {
	Name  string
	Role  ColumnRole
	Width int
}

// Evaluator is the primitive-specific part of a component: it reads one
// row and emits constraint residues and relation entries.
type Evaluator interface {
	Evaluate(row Row, rels *Relations, ctx EvalContext)
}

// EvaluatorFunc adapts a function to the Evaluator interface
type EvaluatorFunc func(row Row, rels *Relations, ctx EvalContext)

// Evaluate calls f
func (f EvaluatorFunc) Evaluate(row Row, rels *Relations, ctx EvalContext) {
	f(row, rels, ctx)
}

// ComponentDecl is the data-driven declaration of a component: its column
// layout, the relations it references and its evaluator.
type ComponentDecl struct {
	Name      string
	Columns   []ColumnGroup
	Uses      []string
	Evaluator Evaluator
}

// Component is a validated declaration. Column groups are laid out in
// declaration order after the enabler column.
type Component struct {
	name      string
	groups    []ColumnGroup
	offsets   []int
	index     map[string]int
	uses      map[*Relation]bool
	width     int
	evaluator Evaluator
}

// NewComponent validates a declaration against the registry. All arity and
// layout checks happen here, once, so evaluation never has to.
func NewComponent(decl ComponentDecl, reg *Registry) (*Component, error) {
	if decl.Name == "" {
		return nil, fmt.Errorf("component name cannot be empty")
	}
	if decl.Evaluator == nil {
		return nil, fmt.Errorf("component %s: evaluator is nil", decl.Name)
	}

	c := &Component{
		name:      decl.Name,
		index:     make(map[string]int),
		uses:      make(map[*Relation]bool),
		evaluator: decl.Evaluator,
	}

	groups := append([]ColumnGroup{{Name: EnablerColumn, Role: RoleEnabler, Width: 1}}, decl.Columns...)
	for i, g := range groups {
		if g.Name == "" {
			return nil, fmt.Errorf("component %s: column group %d has no name", decl.Name, i)
		}
		if g.Width <= 0 {
			return nil, fmt.Errorf("component %s: column group %s has width %d", decl.Name, g.Name, g.Width)
		}
		if i > 0 && g.Role == RoleEnabler {
			return nil, fmt.Errorf("component %s: enabler column is implicit", decl.Name)
		}
		if _, dup := c.index[g.Name]; dup {
			return nil, fmt.Errorf("component %s: duplicate column group %s", decl.Name, g.Name)
		}
		c.index[g.Name] = i
		c.groups = append(c.groups, g)
		c.offsets = append(c.offsets, c.width)
		c.width += g.Width
	}

	for _, name := range decl.Uses {
		rel, ok := reg.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("component %s: unknown relation %s", decl.Name, name)
		}
		c.uses[rel] = true
	}

	return c, nil
}

// MustNewComponent is NewComponent for static declaration tables
func MustNewComponent(decl ComponentDecl, reg *Registry) *Component {
	c, err := NewComponent(decl, reg)
	if err != nil {
		panic(err)
	}
	return c
}

// Name returns the component name
func (c *Component) Name() string {
	return c.name
}

// Width returns the total number of columns, enabler included
func (c *Component) Width() int {
	return c.width
}

// Groups returns the column groups in layout order
func (c *Component) Groups() []ColumnGroup {
	return append([]ColumnGroup(nil), c.groups...)
}

// Group returns the column range [start, start+width) of a group
func (c *Component) Group(name string) (start, width int) {
	i, ok := c.index[name]
	if !ok {
		panic(fmt.Sprintf("component %s has no column group %q", c.name, name))
	}
	return c.offsets[i], c.groups[i].Width
}

// Uses reports whether the component declared the relation
func (c *Component) Uses(rel *Relation) bool {
	return c.uses[rel]
}

// ColumnIndices returns the indices of all columns with one of the roles
func (c *Component) ColumnIndices(roles ...ColumnRole) []int {
	var out []int
	for i, g := range c.groups {
		for _, r := range roles {
			if g.Role == r {
				for j := 0; j < g.Width; j++ {
					out = append(out, c.offsets[i]+j)
				}
				break
			}
		}
	}
	return out
}

// EvaluateRow runs the evaluator on one row of a trace. The harness adds the
// enabler booleanity constraint and rejects entries to undeclared relations.
func (c *Component) EvaluateRow(t *ComponentTrace, row int, rels *Relations, ctx RowContext) {
	r := t.Row(row)
	e := r.Enabler()
	ctx.BeginRow(c.name, row, e)
	ctx.AddConstraint(e.Mul(e.Sub(core.One)))
	c.evaluator.Evaluate(r, rels, usageGuard{RowContext: ctx, component: c})
}

// Evaluate runs EvaluateRow over every row, padding included
func (c *Component) Evaluate(t *ComponentTrace, rels *Relations, ctx RowContext) {
	for row := 0; row < t.Size(); row++ {
		c.EvaluateRow(t, row, rels, ctx)
	}
}

// Row is a read-only view of one trace row
type Row struct {
	comp   *Component
	index  int
	values []core.M31
}

// NewRow wraps row values laid out for the component
func NewRow(c *Component, index int, values []core.M31) Row {
	if len(values) != c.width {
		panic(fmt.Sprintf("component %s: row has %d values, expected %d", c.name, len(values), c.width))
	}
	return Row{comp: c, index: index, values: values}
}

// Index returns the row number
func (r Row) Index() int {
	return r.index
}

// Enabler returns the enabler value of the row
func (r Row) Enabler() core.M31 {
	return r.values[0]
}

// Get returns the values of a column group
func (r Row) Get(name string) []core.M31 {
	start, width := r.comp.Group(name)
	return r.values[start : start+width]
}

// At returns the value of a single-column group
func (r Row) At(name string) core.M31 {
	v := r.Get(name)
	if len(v) != 1 {
		panic(fmt.Sprintf("component %s: column group %q has width %d", r.comp.name, name, len(v)))
	}
	return v[0]
}

// Values returns the whole row
func (r Row) Values() []core.M31 {
	return r.values
}

// MaxTraceLogSize bounds the row count of a component at 2^30, below the
// order of the M31 circle group.
const MaxTraceLogSize = 30

// ComponentTrace is the column set of one component. Its row count is a
// power of two; rows at or past NRows are padding with enabler zero.
type ComponentTrace struct {
	Component *Component
	LogSize   int
	NRows     int
	Columns   []*core.Column
}

// NewComponentTrace allocates zeroed columns for nRows real rows padded to
// 2^logSize and sets the enabler on the real rows.
func NewComponentTrace(c *Component, nRows, logSize int) *ComponentTrace {
	size := 1 << logSize
	if nRows < 0 || nRows > size {
		panic(fmt.Sprintf("component %s: %d rows do not fit 2^%d", c.name, nRows, logSize))
	}
	cols := make([]*core.Column, c.width)
	for i := range cols {
		cols[i] = core.NewColumn(size)
	}
	for row := 0; row < nRows; row++ {
		cols[0].Set(row, core.One)
	}
	return &ComponentTrace{Component: c, LogSize: logSize, NRows: nRows, Columns: cols}
}

// Size returns the padded row count
func (t *ComponentTrace) Size() int {
	return 1 << t.LogSize
}

// Group returns the columns of a group
func (t *ComponentTrace) Group(name string) []*core.Column {
	start, width := t.Component.Group(name)
	return t.Columns[start : start+width]
}

// Row gathers the values of one row
func (t *ComponentTrace) Row(row int) Row {
	values := make([]core.M31, len(t.Columns))
	for i, col := range t.Columns {
		values[i] = col.At(row)
	}
	return NewRow(t.Component, row, values)
}

// ColumnsWithRole returns the columns with one of the roles, in layout order
func (t *ComponentTrace) ColumnsWithRole(roles ...ColumnRole) []*core.Column {
	idx := t.Component.ColumnIndices(roles...)
	out := make([]*core.Column, len(idx))
	for i, j := range idx {
		out[i] = t.Columns[j]
	}
	return out
}

// Validate checks the shape of the trace
func (t *ComponentTrace) Validate() error {
	name := t.Component.name
	if len(t.Columns) != t.Component.width {
		return fmt.Errorf("component %s: %d columns, expected %d", name, len(t.Columns), t.Component.width)
	}
	if t.LogSize < core.LogNLanes || t.LogSize > MaxTraceLogSize {
		return fmt.Errorf("component %s: log size %d outside [%d, %d]", name, t.LogSize, core.LogNLanes, MaxTraceLogSize)
	}
	if t.NRows > t.Size() {
		return fmt.Errorf("component %s: %d real rows exceed size %d", name, t.NRows, t.Size())
	}
	for i, col := range t.Columns {
		if col.Len() != t.Size() {
			return fmt.Errorf("component %s: column %d has length %d, expected %d", name, i, col.Len(), t.Size())
		}
	}
	return nil
}

// Trace is the column sets of all components, in declaration order
type Trace struct {
	Components []*ComponentTrace
}

// Lookup returns the trace of a named component
func (t *Trace) Lookup(name string) (*ComponentTrace, bool) {
	for _, ct := range t.Components {
		if ct.Component.name == name {
			return ct, true
		}
	}
	return nil, false
}

// Validate checks every component trace
func (t *Trace) Validate() error {
	for _, ct := range t.Components {
		if err := ct.Validate(); err != nil {
			return err
		}
	}
	return nil
}
