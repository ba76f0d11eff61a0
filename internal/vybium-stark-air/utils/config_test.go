package utils

import "testing"

// TestDefaultConfig tests the DefaultConfig function
func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	if config == nil {
		t.Fatal("DefaultConfig() returned nil")
	}

	if config.Workers <= 0 {
		t.Error("Workers should be positive")
	}

	if config.HashFunction == "" {
		t.Error("HashFunction should not be empty")
	}

	if config.DisablePacking {
		t.Error("packing should be enabled by default")
	}

	if err := config.Validate(); err != nil {
		t.Errorf("DefaultConfig() should be valid: %v", err)
	}
}

// TestConfigValidate tests the Validate method
func TestConfigValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{HashFunction: "sha3", NumQueries: 3, Workers: 4, LogLevel: "info"}
	}

	tests := []struct {
		name      string
		mutate    func(*Config)
		expectErr bool
	}{
		{"valid sha3", func(c *Config) {}, false},
		{"valid sha256", func(c *Config) { c.HashFunction = "sha256" }, false},
		{"zero queries", func(c *Config) { c.NumQueries = 0 }, false},
		{"empty log level", func(c *Config) { c.LogLevel = "" }, false},
		{"invalid hash function", func(c *Config) { c.HashFunction = "poseidon" }, true},
		{"negative queries", func(c *Config) { c.NumQueries = -1 }, true},
		{"zero workers", func(c *Config) { c.Workers = 0 }, true},
		{"invalid log level", func(c *Config) { c.LogLevel = "loud" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := valid()
			tt.mutate(config)
			err := config.Validate()
			if (err != nil) != tt.expectErr {
				t.Errorf("Validate() error = %v, expectErr = %v", err, tt.expectErr)
			}
		})
	}
}

// TestConfigWithMethods tests the With* methods
func TestConfigWithMethods(t *testing.T) {
	config := DefaultConfig().
		WithHashFunction("sha256").
		WithNumQueries(7).
		WithWorkers(2).
		WithPacking(false).
		WithRelationCheck(true).
		WithLogLevel("debug")

	if config.HashFunction != "sha256" {
		t.Errorf("WithHashFunction() failed: got %s", config.HashFunction)
	}
	if config.NumQueries != 7 {
		t.Errorf("WithNumQueries() failed: got %d", config.NumQueries)
	}
	if config.Workers != 2 {
		t.Errorf("WithWorkers() failed: got %d", config.Workers)
	}
	if !config.DisablePacking {
		t.Error("WithPacking(false) should disable packing")
	}
	if !config.CheckRelations {
		t.Error("WithRelationCheck(true) should enable the tracker")
	}
	if config.LogLevel != "debug" {
		t.Errorf("WithLogLevel() failed: got %s", config.LogLevel)
	}
}

// TestConfigClone tests that Clone returns an independent copy
func TestConfigClone(t *testing.T) {
	original := DefaultConfig()
	clone := original.Clone()

	if clone == original {
		t.Fatal("Clone() returned the same pointer")
	}

	clone.WithWorkers(99).WithHashFunction("sha256")
	if original.Workers == 99 || original.HashFunction == "sha256" {
		t.Error("modifying the clone affected the original")
	}
}
