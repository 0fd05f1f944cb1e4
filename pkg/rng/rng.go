package rng

import (
	"crypto/sha256"
	"encoding/binary"
	"math/rand/v2"
)

// RNG provides deterministic random number generation for a single
// allocator stage (backfill pass, unlock pass, missing-item pass).
// Each stage derives its own seed from the master seed to ensure
// isolation and reproducibility. The derivation follows the formula:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where H is SHA-256 and its first 16 bytes seed a PCG source.
//
// All methods are deterministic given the same initial seed, so the
// same world, config, and master seed always produce the same item
// placement (spec.md §5, §8 P7).
type RNG struct {
	source *rand.Rand
}

// NewRNG creates a stage-specific RNG by deriving a sub-seed from the
// master seed. The derivation combines:
//   - masterSeed: the top-level seed for the entire allocation run
//   - stageName: identifies the round-strategy pass (e.g.,
//     "unlock-pass", "backfill", "missing-item-pass")
//   - configHash: hash of the allocator config, so different configs
//     yield different placements even with the same master seed
//
// This ensures that different stages get independent random sequences
// (isolation) while the run as a whole stays reproducible (determinism).
func NewRNG(masterSeed uint64, stageName string, configHash []byte) *RNG {
	h := sha256.New()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], masterSeed)
	h.Write(buf[:])
	h.Write([]byte(stageName))
	h.Write(configHash)
	sum := h.Sum(nil)

	seed1 := binary.BigEndian.Uint64(sum[:8])
	seed2 := binary.BigEndian.Uint64(sum[8:16])
	return &RNG{source: rand.New(rand.NewPCG(seed1, seed2))}
}

// IntRange returns a pseudo-random integer in [min, max].
// It panics if min > max.
func (r *RNG) IntRange(min, max int) int {
	if min > max {
		panic("rng: IntRange min must be <= max")
	}
	if min == max {
		return min
	}
	return min + r.source.IntN(max-min+1)
}

// Shuffle pseudo-randomizes the order of elements in a slice of length
// n, via swap. Used to randomize candidate order within the
// missing-item pass and the open-location search in findItemHome.
func (r *RNG) Shuffle(n int, swap func(i, j int)) {
	r.source.Shuffle(n, swap)
}

// WeightedChoice selects an index from weights using weighted random
// selection. Weights must be non-negative. Returns -1 if weights is
// empty or every weight is zero.
func (r *RNG) WeightedChoice(weights []float64) int {
	if len(weights) == 0 {
		return -1
	}

	total := 0.0
	for _, w := range weights {
		if w < 0 {
			panic("rng: WeightedChoice weights must be non-negative")
		}
		total += w
	}
	if total == 0 {
		return -1
	}

	randVal := r.source.Float64() * total
	cumulative := 0.0
	for i, w := range weights {
		cumulative += w
		if randVal < cumulative {
			return i
		}
	}
	return len(weights) - 1
}
