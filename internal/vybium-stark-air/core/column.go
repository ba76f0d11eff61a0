package core

import "fmt"

// Column is an execution-trace column. The values live in a single owned
// buffer of packed lanes; At/Set expose the row-indexed scalar view of the
// same buffer and Packed/SetPacked expose the lane-grouped view. Row i lives
// in lane i%NLanes of word i/NLanes.
type Column struct {
	data   []PackedM31
	length int
}

// NewColumn allocates a zeroed column of the given length
func NewColumn(length int) *Column {
	if length < 0 {
		panic(fmt.Sprintf("negative column length %d", length))
	}
	return &Column{
		data:   make([]PackedM31, (length+NLanes-1)/NLanes),
		length: length,
	}
}

// ColumnFromValues packs a scalar slice into a column
func ColumnFromValues(values []M31) *Column {
	c := NewColumn(len(values))
	for i := 0; i < len(c.data); i++ {
		end := min((i+1)*NLanes, len(values))
		c.data[i] = PackedFromSlice(values[i*NLanes : end])
	}
	return c
}

// Len returns the number of rows
func (c *Column) Len() int {
	return c.length
}

// At returns the value at row
func (c *Column) At(row int) M31 {
	c.checkRow(row)
	return c.data[row/NLanes][row%NLanes]
}

// Set stores v at row
func (c *Column) Set(row int, v M31) {
	c.checkRow(row)
	c.data[row/NLanes][row%NLanes] = v
}

// PackedLen returns the number of packed words
func (c *Column) PackedLen() int {
	return len(c.data)
}

// PackedAt returns the packed word holding rows [i*NLanes, (i+1)*NLanes)
func (c *Column) PackedAt(i int) PackedM31 {
	return c.data[i]
}

// SetPacked stores a packed word. Lanes past the column length must be zero.
func (c *Column) SetPacked(i int, v PackedM31) {
	c.data[i] = v
}

// Packed returns the packed view. The slice aliases the column buffer.
func (c *Column) Packed() []PackedM31 {
	return c.data
}

// Values unpacks the column into a fresh scalar slice in row order
func (c *Column) Values() []M31 {
	out := make([]M31, c.length)
	for i := range out {
		out[i] = c.data[i/NLanes][i%NLanes]
	}
	return out
}

// Equal reports whether both columns hold the same rows
func (c *Column) Equal(other *Column) bool {
	if c.length != other.length {
		return false
	}
	for i := 0; i < c.length; i++ {
		if c.At(i) != other.At(i) {
			return false
		}
	}
	return true
}

func (c *Column) checkRow(row int) {
	if row < 0 || row >= c.length {
		panic(fmt.Sprintf("row %d out of range [0, %d)", row, c.length))
	}
}

// SecureColumn stores one QM31 per row as four base columns
type SecureColumn struct {
	Columns [SecureExtensionDegree]*Column
}

// NewSecureColumn allocates a zeroed secure column
func NewSecureColumn(length int) *SecureColumn {
	var sc SecureColumn
	for i := range sc.Columns {
		sc.Columns[i] = NewColumn(length)
	}
	return &sc
}

// Len returns the number of rows
func (sc *SecureColumn) Len() int {
	return sc.Columns[0].Len()
}

// At returns the QM31 value at row
func (sc *SecureColumn) At(row int) QM31 {
	return QM31FromM31s(
		sc.Columns[0].At(row),
		sc.Columns[1].At(row),
		sc.Columns[2].At(row),
		sc.Columns[3].At(row),
	)
}

// Set stores a QM31 value at row
func (sc *SecureColumn) Set(row int, v QM31) {
	coords := v.ToM31Array()
	for i, c := range coords {
		sc.Columns[i].Set(row, c)
	}
}
