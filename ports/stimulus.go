package ports

import (
	"context"
)

// Plate describes one generated stimulus: a dot-field figure whose
// two-digit target value the subject must read. The engine treats the
// target as opaque ground truth and consumes only the discriminability.
type Plate struct {
	TrialIndex           int     `json:"trial_index"`
	Target               int     `json:"target"` // ground-truth value, [0,100)
	Discriminability     float64 `json:"discriminability"`
	DotCount             int     `json:"dot_count"`
	FigureBrightness     float64 `json:"figure_brightness"`
	BackgroundBrightness float64 `json:"background_brightness"`
}

// StimulusPort generates the stimulus for a trial. Implementations must be
// deterministic: the same (trialIndex, seed) always yields the same plate,
// so a trial revisited mid-answer is never re-randomized.
type StimulusPort interface {
	GeneratePlate(ctx context.Context, trialIndex int, seed int64) (Plate, error)
}
