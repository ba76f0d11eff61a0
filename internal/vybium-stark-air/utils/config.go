// Package utils holds the configuration, the Fiat-Shamir channel and small
// helpers shared by the prover packages.
package utils

import (
	"fmt"
	"runtime"

	"github.com/rs/zerolog"
)

// Config represents the configuration for trace generation and proving
type Config struct {
	// Hash function used by the Fiat-Shamir channel: "sha3" or "sha256"
	HashFunction string

	// Number of main-trace rows opened per component
	NumQueries int

	// Number of goroutines used by the trace writers and the logUp phase
	Workers int

	// DisablePacking switches the trace writers to the row-by-row path
	DisablePacking bool

	// CheckRelations runs the relation tracker and the constraint checker
	// before the interaction phase
	CheckRelations bool

	// LogLevel is a zerolog level name ("debug", "info", ...)
	LogLevel string
}

// DefaultConfig returns the default prover configuration
func DefaultConfig() *Config {
	return &Config{
		HashFunction:   "sha3",
		NumQueries:     3,
		Workers:        runtime.GOMAXPROCS(0),
		DisablePacking: false,
		CheckRelations: false,
		LogLevel:       "info",
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.HashFunction != "sha256" && c.HashFunction != "sha3" {
		return fmt.Errorf("hash function must be 'sha256' or 'sha3', got '%s'", c.HashFunction)
	}

	if c.NumQueries < 0 {
		return fmt.Errorf("number of queries must not be negative, got %d", c.NumQueries)
	}

	if c.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Workers)
	}

	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level '%s': %w", c.LogLevel, err)
	}

	return nil
}

// WithHashFunction sets the hash function
func (c *Config) WithHashFunction(hashFunc string) *Config {
	c.HashFunction = hashFunc
	return c
}

// WithNumQueries sets the number of opened rows per component
func (c *Config) WithNumQueries(queries int) *Config {
	c.NumQueries = queries
	return c
}

// WithWorkers sets the worker count
func (c *Config) WithWorkers(workers int) *Config {
	c.Workers = workers
	return c
}

// WithPacking enables or disables the packed trace writers
func (c *Config) WithPacking(enabled bool) *Config {
	c.DisablePacking = !enabled
	return c
}

// WithRelationCheck enables or disables the relation tracker
func (c *Config) WithRelationCheck(enabled bool) *Config {
	c.CheckRelations = enabled
	return c
}

// WithLogLevel sets the log level
func (c *Config) WithLogLevel(level string) *Config {
	c.LogLevel = level
	return c
}

// Clone creates a copy of the configuration
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
