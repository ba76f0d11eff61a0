// Package witness turns the execution witness of the VM into the column
// sets of every component.
package witness

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/witness/fastdeduction"
)

// MemoryEntry is one memory cell. Value is a decimal or 0x-prefixed hex
// integer below 2^99.
type MemoryEntry struct {
	Address uint32 `json:"address"`
	Value   string `json:"value"`
}

// BlakeRoundEvent is one blake2s round executed by the VM
type BlakeRoundEvent struct {
	Round   int        `json:"round"`
	State   [16]uint32 `json:"state"`
	Message [16]uint32 `json:"message"`
}

// PoseidonFullRoundEvent is one full Hades round; State holds felt252 literals
type PoseidonFullRoundEvent struct {
	Round int       `json:"round"`
	State [3]string `json:"state"`
}

// PartialEcMulEvent adds pedersen table point Index to the accumulator
type PartialEcMulEvent struct {
	Index       int       `json:"index"`
	Accumulator [2]string `json:"accumulator"`
}

// Witness is the execution witness. Events of each kind are kept in VM
// order, which fixes the row order of the root components.
type Witness struct {
	Memory             []MemoryEntry            `json:"memory"`
	MemoryReads        []uint32                 `json:"memory_reads"`
	BlakeRounds        []BlakeRoundEvent        `json:"blake_rounds"`
	PoseidonFullRounds []PoseidonFullRoundEvent `json:"poseidon_full_rounds"`
	PartialEcMuls      []PartialEcMulEvent      `json:"partial_ec_muls"`

	// Parsed by Validate
	ids            map[uint32]uint32
	values         []core.BigUInt99
	poseidonStates [][core.PoseidonWidth]core.Felt252
	accumulators   []fastdeduction.Point
}

// ParseWitness decodes and validates a JSON witness
func ParseWitness(data []byte) (*Witness, error) {
	var w Witness
	if err := json.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("failed to decode witness: %w", err)
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &w, nil
}

// LoadWitness reads and validates a witness file
func LoadWitness(path string) (*Witness, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read witness: %w", err)
	}
	return ParseWitness(data)
}

// Validate checks the schema and parses the literal values. Memory ids are
// assigned in memory order.
func (w *Witness) Validate() error {
	w.ids = make(map[uint32]uint32, len(w.Memory))
	w.values = make([]core.BigUInt99, len(w.Memory))
	for i, m := range w.Memory {
		if m.Address >= core.P {
			return fmt.Errorf("memory[%d]: address %d is not a field element", i, m.Address)
		}
		if _, dup := w.ids[m.Address]; dup {
			return fmt.Errorf("memory[%d]: duplicate address %d", i, m.Address)
		}
		v, err := core.ParseUint256(m.Value)
		if err != nil {
			return fmt.Errorf("memory[%d]: %w", i, err)
		}
		limbs, err := core.BigUInt99From(v)
		if err != nil {
			return fmt.Errorf("memory[%d]: %w", i, err)
		}
		w.ids[m.Address] = uint32(i)
		w.values[i] = limbs
	}

	for i, addr := range w.MemoryReads {
		if _, ok := w.ids[addr]; !ok {
			return fmt.Errorf("memory_reads[%d]: address %d was never written", i, addr)
		}
	}

	for i, e := range w.BlakeRounds {
		if e.Round < 0 || e.Round >= core.BlakeRounds {
			return fmt.Errorf("blake_rounds[%d]: round %d out of range", i, e.Round)
		}
	}

	w.poseidonStates = make([][core.PoseidonWidth]core.Felt252, len(w.PoseidonFullRounds))
	for i, e := range w.PoseidonFullRounds {
		if e.Round < 0 || e.Round >= core.PoseidonFullRounds {
			return fmt.Errorf("poseidon_full_rounds[%d]: round %d out of range", i, e.Round)
		}
		for j, s := range e.State {
			f, err := core.ParseFelt252(s)
			if err != nil {
				return fmt.Errorf("poseidon_full_rounds[%d].state[%d]: %w", i, j, err)
			}
			w.poseidonStates[i][j] = f
		}
	}

	w.accumulators = make([]fastdeduction.Point, len(w.PartialEcMuls))
	for i, e := range w.PartialEcMuls {
		if e.Index < 0 || e.Index >= core.PedersenTableSize {
			return fmt.Errorf("partial_ec_muls[%d]: index %d out of range", i, e.Index)
		}
		x, err := core.ParseFelt252(e.Accumulator[0])
		if err != nil {
			return fmt.Errorf("partial_ec_muls[%d].accumulator.x: %w", i, err)
		}
		y, err := core.ParseFelt252(e.Accumulator[1])
		if err != nil {
			return fmt.Errorf("partial_ec_muls[%d].accumulator.y: %w", i, err)
		}
		w.accumulators[i] = fastdeduction.Point{X: x, Y: y}
	}

	return nil
}
