package rng

import (
	"context"
	"math/rand"
)

// SeededAdapter implements ports.RNGPort with plain seeded generators, so
// any operation that names its stream replays bit-identically for a fixed
// seed.
type SeededAdapter struct{}

// NewSeededAdapter creates the adapter.
func NewSeededAdapter() *SeededAdapter {
	return &SeededAdapter{}
}

// SeededStream creates a deterministic random number generator for a named
// operation. The name participates in the seed so distinct operations get
// distinct streams.
func (r *SeededAdapter) SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error) {
	return rand.New(rand.NewSource(int64(hashString(name)) + seed)), nil
}

// hashString creates a simple hash for deterministic seeding
func hashString(s string) uint32 {
	var hash uint32 = 5381
	for _, c := range s {
		hash = ((hash << 5) + hash) + uint32(c) // djb2 algorithm
	}
	return hash
}
