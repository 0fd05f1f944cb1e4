// Package rng provides deterministic random number generation for the
// placement allocator.
//
// # Overview
//
// The RNG type ensures reproducible item placement by deriving stage-
// specific seeds from a master seed. This allows each round-strategy
// pass (backfill, unlock, missing-item) to have an independent random
// sequence while maintaining overall determinism: the same world,
// config, and master seed always produce the same assignment.
//
// # Sub-Seed Derivation
//
// Each RNG derives its seed using SHA-256:
//
//	seed_stage = H(masterSeed, stageName, configHash)
//
// where:
//   - masterSeed: top-level seed for the entire allocation run
//   - stageName: pass identifier (e.g., "unlock-pass", "backfill",
//     "missing-item-pass")
//   - configHash: hash of the allocator configuration
//
// This ensures:
//  1. Same inputs always produce the same RNG sequence (determinism)
//  2. Different stages get independent random sequences (isolation)
//  3. Config changes result in different sequences (sensitivity)
//
// # Usage
//
// Create an RNG for each pass that needs one:
//
//	configHash := cfg.Hash()
//	unlockRNG := rng.NewRNG(masterSeed, "unlock-pass", configHash)
//	backfillRNG := rng.NewRNG(masterSeed, "backfill", configHash)
//
// Use the RNG for all random decisions in that pass:
//
//	jitter := unlockRNG.IntRange(0, int(cfg.Temperature))
//	idx := backfillRNG.WeightedChoice(weights)
//
// # Thread Safety
//
// RNG instances are NOT thread-safe. Each pass uses its own RNG
// instance; the allocator never shares one across passes or goroutines.
package rng
