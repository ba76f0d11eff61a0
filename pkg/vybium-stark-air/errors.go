package vybiumstarkair

import (
	"errors"
	"fmt"

	"github.com/vybium/vybium-stark-air/internal/vybium-stark-air/protocols"
)

// ErrorCode classifies an AIRError
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidWitness represents a witness that fails to load or validate
	ErrInvalidWitness

	// ErrTraceGeneration represents a failure while building the trace
	ErrTraceGeneration

	// ErrRelationImbalance represents lookup relations that do not cancel
	ErrRelationImbalance

	// ErrConstraint represents a constraint that does not vanish
	ErrConstraint

	// ErrProofGeneration represents any other proving failure
	ErrProofGeneration

	// ErrEncoding represents a proof that cannot be encoded
	ErrEncoding

	// ErrIO represents a failure to write the proof file
	ErrIO
)

var codeNames = map[ErrorCode]string{
	ErrUnknown:           "unknown",
	ErrInvalidConfig:     "invalid config",
	ErrInvalidWitness:    "invalid witness",
	ErrTraceGeneration:   "trace generation",
	ErrRelationImbalance: "relation imbalance",
	ErrConstraint:        "constraint",
	ErrProofGeneration:   "proof generation",
	ErrEncoding:          "encoding",
	ErrIO:                "io",
}

// String returns the name of the code
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int(c))
}

// AIRError represents a Vybium STARK AIR error
type AIRError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *AIRError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("vybium-stark-air error [%s]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("vybium-stark-air error [%s]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *AIRError) Unwrap() error {
	return e.Cause
}

// Is matches any *AIRError with the same code
func (e *AIRError) Is(target error) bool {
	t, ok := target.(*AIRError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// CodeOf returns the code of the first AIRError in the chain
func CodeOf(err error) ErrorCode {
	var airErr *AIRError
	if errors.As(err, &airErr) {
		return airErr.Code
	}
	return ErrUnknown
}

// classify wraps an error from the prover internals, picking the code from
// the typed errors of the protocols package.
func classify(fallback ErrorCode, message string, err error) error {
	if err == nil {
		return nil
	}
	code := fallback

	var (
		imbalance  *protocols.ImbalanceError
		constraint *protocols.ConstraintError
		encoding   *protocols.EncodingError
		ioErr      *protocols.ProofIOError
	)
	switch {
	case errors.As(err, &imbalance):
		code = ErrRelationImbalance
	case errors.As(err, &constraint):
		code = ErrConstraint
	case errors.As(err, &encoding):
		code = ErrEncoding
	case errors.As(err, &ioErr):
		code = ErrIO
	}
	return &AIRError{Code: code, Message: message, Cause: err}
}
