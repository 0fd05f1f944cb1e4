package world

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// AllocatorConfig holds the allocator's tunable knobs.
type AllocatorConfig struct {
	// Seed records a master seed alongside the other knobs and feeds
	// into Hash. allocator.New takes its master seed as a separate
	// argument and does not read this field; a zero Seed is not replaced
	// by a generated one.
	Seed uint64 `yaml:"seed" json:"seed"`

	// PreferNewLocations makes findItemHome walk the open list newest-
	// first for non-Minor items, extending reach depth-first.
	PreferNewLocations bool `yaml:"preferNewLocations" json:"preferNewLocations"`

	// MatchCategory requires an item's category to match its location's
	// category for a placement to be eligible.
	MatchCategory bool `yaml:"matchCategory" json:"matchCategory"`

	// Temperature adds uniform(0, Temperature) jitter to item weights
	// when ranking unlock-pass candidates.
	Temperature uint32 `yaml:"temperature" json:"temperature"`

	// RoundCap bounds the number of stagnant rounds before the
	// allocator gives up and reports a failure outcome.
	RoundCap int `yaml:"roundCap" json:"roundCap"`

	// Parameters supplies the boolean value of every Parameters.Name
	// reference a world file's requirements text may use.
	Parameters map[string]bool `yaml:"parameters,omitempty" json:"parameters,omitempty"`
}

// DefaultRoundCap is the stagnant-round cutoff.
const DefaultRoundCap = 150

// Validate checks AllocatorConfig constraints.
func (c *AllocatorConfig) Validate() error {
	if c.RoundCap <= 0 {
		return errors.New("roundCap must be positive")
	}
	return nil
}

// LoadAllocatorConfig reads and validates a YAML allocator config file.
func LoadAllocatorConfig(path string) (*AllocatorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading allocator config: %w", err)
	}
	return LoadAllocatorConfigFromBytes(data)
}

// LoadAllocatorConfigFromBytes parses allocator config YAML from memory.
func LoadAllocatorConfigFromBytes(data []byte) (*AllocatorConfig, error) {
	cfg := &AllocatorConfig{RoundCap: DefaultRoundCap}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing allocator config YAML: %w", err)
	}
	if cfg.RoundCap <= 0 {
		cfg.RoundCap = DefaultRoundCap
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating allocator config: %w", err)
	}
	return cfg, nil
}

// Hash computes a deterministic digest of the configuration, used to
// derive per-stage RNG seeds alongside the master seed and stage name.
func (c *AllocatorConfig) Hash() []byte {
	data, err := yaml.Marshal(c)
	if err != nil {
		h := sha256.New()
		var buf [8]byte
		binary.LittleEndian.PutUint64(buf[:], c.Seed)
		h.Write(buf[:])
		return h.Sum(nil)
	}
	h := sha256.New()
	h.Write(data)
	return h.Sum(nil)
}
