package ports

import (
	"context"
	"math/rand"
)

// RNGPort provides seeded random number generation for deterministic
// operations such as calibration sweeps.
type RNGPort interface {
	// SeededStream creates a deterministic random number generator for a
	// named operation. Identical (name, seed) pairs yield identical streams.
	SeededStream(ctx context.Context, name string, seed int64) (*rand.Rand, error)
}
