package protocols

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/core"
)

// ErrZeroDenominator is returned when a relation tuple combines to the
// random offset itself. It is fatal for the proof attempt.
var ErrZeroDenominator = errors.New("logUp denominator is zero")

// EncodingError reports that a proof value cannot be represented in the
// chosen output format
type EncodingError struct {
	Format  ProofFormat
	Message string
	Cause   error
}

func (e *EncodingError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s encoding failed: %s: %v", e.Format, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s encoding failed: %s", e.Format, e.Message)
}

func (e *EncodingError) Unwrap() error {
	return e.Cause
}

// ProofIOError reports a failure to create or write the proof file
type ProofIOError struct {
	Path string
	Op   string
	Err  error
}

func (e *ProofIOError) Error() string {
	return fmt.Sprintf("proof file %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *ProofIOError) Unwrap() error {
	return e.Err
}

// ImbalanceError reports a relation whose multiplicities do not cancel
type ImbalanceError struct {
	Relation string
	// Values is the offending tuple; empty when only the logUp sum is known
	Values []core.M31
	// Sum is the signed multiplicity left over
	Sum int64
	// ClaimedSum is the non-zero total of the interaction claims
	ClaimedSum core.QM31
}

func (e *ImbalanceError) Error() string {
	if e.Relation == "" {
		return fmt.Sprintf("relations do not balance: logUp total is %s", e.ClaimedSum)
	}
	return fmt.Sprintf("relation %s does not balance: tuple %v has multiplicity %d", e.Relation, e.Values, e.Sum)
}

// ConstraintError reports a non-vanishing constraint residue
type ConstraintError struct {
	Component  string
	Row        int
	Constraint int
	Residue    core.M31
}

func (e *ConstraintError) Error() string {
	return fmt.Sprintf("component %s: constraint %d does not vanish at row %d (residue %d)",
		e.Component, e.Constraint, e.Row, e.Residue)
}
