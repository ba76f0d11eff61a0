// Package vybiumstarkair is the public entry point of the Vybium STARK AIR
// prover: it loads an execution witness, builds the packed trace of every
// component, runs the logUp interaction phase and writes the proof.
//
// # Components
//
// The arithmetization is a fixed table of components, each owning a set of
// trace columns and talking to the others only through lookup relations:
//
//   - memory: memory_read, memory_address_to_id, memory_id_to_big, range_check_9
//   - blake2s: blake_round, blake_g, blake_round_sigma
//   - poseidon: poseidon_full_round, cube_252, poseidon_round_keys
//   - pedersen: partial_ec_mul, pedersen_points_table
//
// # Quick Start
//
//	prover, err := vybiumstarkair.NewProver(vybiumstarkair.DefaultConfig(), logger)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	witness, err := vybiumstarkair.LoadWitness("witness.json")
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	proof, err := prover.Prove(witness)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	err = prover.WriteProof(proof, "proof.bin", vybiumstarkair.FormatCompact)
//
// # Proof formats
//
// FormatReadable writes the proof as indented JSON. FormatCompact writes an
// 8-byte big-endian element count followed by 32-byte big-endian felt252
// elements.
//
// # Errors
//
// Every error returned by this package is an *AIRError carrying an
// ErrorCode; the underlying cause stays reachable through errors.As.
package vybiumstarkair
