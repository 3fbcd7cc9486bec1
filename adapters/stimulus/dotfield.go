package stimulus

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/montanaflynn/stats"

	"goscreen/domain/screening"
	"goscreen/ports"
)

// DefaultDotCount matches the dense background the plates are tuned for.
const DefaultDotCount = 15000

// DotFieldGenerator builds Ishihara-style plates: a dense field of randomly
// colored dots with a two-digit figure drawn in a single random color.
type DotFieldGenerator struct {
	dotCount int
}

// NewDotFieldGenerator creates a generator. A non-positive dotCount falls
// back to DefaultDotCount.
func NewDotFieldGenerator(dotCount int) *DotFieldGenerator {
	if dotCount <= 0 {
		dotCount = DefaultDotCount
	}
	return &DotFieldGenerator{dotCount: dotCount}
}

// GeneratePlate derives the plate for a trial. Everything is drawn from a
// generator seeded by (trialIndex, seed) and scoped to this call, so the
// same inputs always reproduce the same plate.
//
// The figure brightness is the stream's first draw, and the reported
// discriminability comes from the shared figure-contrast rule. The session
// derives its trial likelihoods from the same rule over the same stream, so
// the contrast the subject sees and the contrast the inference consumes are
// bit-identical.
func (g *DotFieldGenerator) GeneratePlate(ctx context.Context, trialIndex int, seed int64) (ports.Plate, error) {
	if trialIndex < 0 {
		return ports.Plate{}, fmt.Errorf("trial index must be >= 0, got %d", trialIndex)
	}

	rng := rand.New(rand.NewSource(screening.TrialSeed(trialIndex, seed)))

	figure := screening.FigureBrightness(rng)
	discriminability := screening.FigureDiscriminability(figure)

	target := rng.Intn(100)

	// Per-dot brightness is the mean of its RGB channels; the background
	// brightness is the mean over the whole field, reported for rendering
	// only. With a dense field it sits at the nominal 0.5 the contrast
	// rule assumes.
	dotBrightness := make([]float64, g.dotCount)
	for i := range dotBrightness {
		dotBrightness[i] = (rng.Float64() + rng.Float64() + rng.Float64()) / 3.0
	}
	background, err := stats.Mean(dotBrightness)
	if err != nil {
		return ports.Plate{}, fmt.Errorf("background brightness: %w", err)
	}

	return ports.Plate{
		TrialIndex:           trialIndex,
		Target:               target,
		Discriminability:     discriminability,
		DotCount:             g.dotCount,
		FigureBrightness:     figure,
		BackgroundBrightness: background,
	}, nil
}
