package witness

import (
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
)

// memoryRead writes one row per VM read and counts the uses of the
// address and id tables
func (s *build) memoryRead() (*protocols.ComponentTrace, error) {
	scalar := func(row int, addr uint32) ([]core.M31, error) {
		id := s.witness.ids[addr]
		s.counts.addressUses[id].Add(1)
		s.counts.idUses[id].Add(1)
		limbs := s.witness.values[id]
		return rowBuilder{}.m31(core.M31(addr), core.M31(id)).m31(limbs[:]...), nil
	}
	return writeTrace(s.Builder, protocols.CompMemoryRead, s.witness.MemoryReads, scalar, lanes(scalar))
}

func (s *build) memoryIDs() []uint32 {
	ids := make([]uint32, len(s.witness.Memory))
	for i := range ids {
		ids[i] = uint32(i)
	}
	return ids
}

// memoryAddressToID defines every memory cell's address -> id
func (s *build) memoryAddressToID() (*protocols.ComponentTrace, error) {
	scalar := func(_ int, id uint32) ([]core.M31, error) {
		addr := s.witness.Memory[id].Address
		return rowBuilder{}.m31(core.M31(addr), core.M31(id), load(s.counts.addressUses, int(id))), nil
	}
	return writeTrace(s.Builder, protocols.CompMemoryAddressToID, s.memoryIDs(), scalar, lanes(scalar))
}

// memoryIDToBig defines id -> limbs and counts the range-checked limbs
func (s *build) memoryIDToBig() (*protocols.ComponentTrace, error) {
	scalar := func(_ int, id uint32) ([]core.M31, error) {
		limbs := s.witness.values[id]
		for _, l := range limbs {
			s.counts.rangeCheck9[l].Add(1)
		}
		return rowBuilder{}.m31(core.M31(id)).m31(limbs[:]...).m31(load(s.counts.idUses, int(id))), nil
	}
	return writeTrace(s.Builder, protocols.CompMemoryIDToBig, s.memoryIDs(), scalar, lanes(scalar))
}

// rangeCheck9 is the table 0..511 with its use counts
func (s *build) rangeCheck9() (*protocols.ComponentTrace, error) {
	values := make([]uint32, protocols.RangeCheck9Size)
	for i := range values {
		values[i] = uint32(i)
	}
	scalar := func(_ int, v uint32) ([]core.M31, error) {
		return rowBuilder{}.m31(core.M31(v), load(s.counts.rangeCheck9, int(v))), nil
	}
	return writeTrace(s.Builder, protocols.CompRangeCheck9, values, scalar, lanes(scalar))
}
