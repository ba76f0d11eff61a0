package core

// Packing geometry. A PackedM31 holds NLanes consecutive rows of one column.
const (
	LogNLanes = 4
	NLanes    = 1 << LogNLanes
)

// PackedM31 is one machine word worth of M31 lanes
type PackedM31 [NLanes]M31

// Broadcast returns a packed value with v in every lane
func Broadcast(v M31) PackedM31 {
	var p PackedM31
	for i := range p {
		p[i] = v
	}
	return p
}

// PackedFromSlice packs up to NLanes values; missing lanes are zero
func PackedFromSlice(values []M31) PackedM31 {
	var p PackedM31
	copy(p[:], values)
	return p
}

// Add returns the lane-wise sum
func (p PackedM31) Add(q PackedM31) PackedM31 {
	var r PackedM31
	for i := range r {
		r[i] = p[i].Add(q[i])
	}
	return r
}

// Sub returns the lane-wise difference
func (p PackedM31) Sub(q PackedM31) PackedM31 {
	var r PackedM31
	for i := range r {
		r[i] = p[i].Sub(q[i])
	}
	return r
}

// Mul returns the lane-wise product
func (p PackedM31) Mul(q PackedM31) PackedM31 {
	var r PackedM31
	for i := range r {
		r[i] = p[i].Mul(q[i])
	}
	return r
}

// Unpack returns the lanes as a slice
func (p PackedM31) Unpack() []M31 {
	out := make([]M31, NLanes)
	copy(out, p[:])
	return out
}
