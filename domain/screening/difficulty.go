package screening

import (
	"fmt"
	"math"
	"math/rand"

	"goscreen/domain/core"
)

// LikelihoodRange maps discriminability to a correct-response probability
// via intercept + slope*d, capped so the result can never reach 0 or 1.
type LikelihoodRange struct {
	Intercept float64
	Slope     float64
	Cap       float64
}

// At evaluates the range at effective discriminability d.
func (r LikelihoodRange) At(d float64) float64 {
	return math.Min(r.Intercept+r.Slope*d, r.Cap)
}

// DifficultyPreset names one historical set of engine constants. The three
// presets differ only in numeric bounds; none of them is canonical.
type DifficultyPreset struct {
	Name      string
	Positive  LikelihoodRange // correct-response probability if condition-positive
	Negative  LikelihoodRange // correct-response probability if condition-negative
	RampDecay float64         // per-trial reduction of effective discriminability
	RampFloor float64         // minimum ramp multiplier, keeps some signal in every trial
}

// The named presets correspond to the three generations of the engine's
// tuning. Gradual keeps the hypotheses close together for slow posterior
// movement; coarse separates them aggressively.
var (
	PresetGradual = DifficultyPreset{
		Name:      "gradual",
		Positive:  LikelihoodRange{Intercept: 0.35, Slope: 0.20, Cap: 0.60},
		Negative:  LikelihoodRange{Intercept: 0.45, Slope: 0.25, Cap: 0.70},
		RampDecay: 0.04,
		RampFloor: 0.70,
	}
	PresetBalanced = DifficultyPreset{
		Name:      "balanced",
		Positive:  LikelihoodRange{Intercept: 0.40, Slope: 0.20, Cap: 0.65},
		Negative:  LikelihoodRange{Intercept: 0.50, Slope: 0.25, Cap: 0.75},
		RampDecay: 0.05,
		RampFloor: 0.60,
	}
	PresetCoarse = DifficultyPreset{
		Name:      "coarse",
		Positive:  LikelihoodRange{Intercept: 0.55, Slope: 0.25, Cap: 0.80},
		Negative:  LikelihoodRange{Intercept: 0.70, Slope: 0.25, Cap: 0.95},
		RampDecay: 0.08,
		RampFloor: 0.50,
	}
)

// PresetByName resolves a preset from configuration.
func PresetByName(name string) (DifficultyPreset, error) {
	switch name {
	case PresetGradual.Name, "":
		return PresetGradual, nil
	case PresetBalanced.Name:
		return PresetBalanced, nil
	case PresetCoarse.Name:
		return PresetCoarse, nil
	}
	return DifficultyPreset{}, fmt.Errorf("%w: unknown preset %q", core.ErrInvalidPreset, name)
}

// Validate checks that the preset keeps both likelihoods strictly inside
// (0,1) and preserves pNeg >= pPos over the whole discriminability range.
func (p DifficultyPreset) Validate() error {
	for _, r := range []struct {
		label string
		lr    LikelihoodRange
	}{{"positive", p.Positive}, {"negative", p.Negative}} {
		if r.lr.Intercept <= 0 {
			return fmt.Errorf("%w: %s intercept must be > 0", core.ErrInvalidPreset, r.label)
		}
		if r.lr.Slope < 0 {
			return fmt.Errorf("%w: %s slope must be >= 0", core.ErrInvalidPreset, r.label)
		}
		if r.lr.Cap >= 1 || r.lr.Cap < r.lr.Intercept {
			return fmt.Errorf("%w: %s cap must lie in [intercept, 1)", core.ErrInvalidPreset, r.label)
		}
	}

	// The condition degrades discrimination, never improves it.
	if p.Positive.Intercept > p.Negative.Intercept ||
		p.Positive.Slope > p.Negative.Slope ||
		p.Positive.Cap > p.Negative.Cap {
		return fmt.Errorf("%w: positive range must not exceed negative range", core.ErrInvalidPreset)
	}

	if p.RampDecay < 0 {
		return fmt.Errorf("%w: ramp decay must be >= 0", core.ErrInvalidPreset)
	}
	if p.RampFloor <= 0 || p.RampFloor > 1 {
		return fmt.Errorf("%w: ramp floor must lie in (0,1]", core.ErrInvalidPreset)
	}
	return nil
}

// TrialDifficultyModel converts a trial index and a discriminability value
// into the likelihood pair for the two hypotheses. The model is stateless
// and safe to share across sessions.
type TrialDifficultyModel struct {
	preset DifficultyPreset
}

// NewTrialDifficultyModel validates the preset and builds a model.
func NewTrialDifficultyModel(preset DifficultyPreset) (*TrialDifficultyModel, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}
	return &TrialDifficultyModel{preset: preset}, nil
}

// DefaultTrialDifficultyModel uses the gradual preset.
func DefaultTrialDifficultyModel() *TrialDifficultyModel {
	m, err := NewTrialDifficultyModel(PresetGradual)
	if err != nil {
		panic(err)
	}
	return m
}

// Preset returns the preset in force.
func (m *TrialDifficultyModel) Preset() DifficultyPreset {
	return m.preset
}

// Ramp returns the effective-discriminability multiplier for a trial index:
// linear decay with a strictly positive floor, so a late trial still
// carries some signal.
func (m *TrialDifficultyModel) Ramp(trialIndex int) float64 {
	return math.Max(1.0-m.preset.RampDecay*float64(trialIndex), m.preset.RampFloor)
}

// ParametersFor returns (pCorrectIfPositive, pCorrectIfNegative) for one
// trial. Both probabilities are monotone non-decreasing in discriminability
// and clamped into bounded sub-ranges of (0,1), so no single answer can
// snap the posterior to exactly 0 or 1.
func (m *TrialDifficultyModel) ParametersFor(trialIndex int, discriminability float64) (pPos, pNeg float64, err error) {
	if trialIndex < 0 {
		return 0, 0, core.NewInvalidArgumentError("trialIndex", fmt.Sprintf("must be >= 0, got %d", trialIndex))
	}
	if discriminability < 0 || discriminability > 1 || math.IsNaN(discriminability) {
		return 0, 0, fmt.Errorf("%w: got %v", core.ErrInvalidDiscrimin, discriminability)
	}

	effective := discriminability * m.Ramp(trialIndex)
	return m.preset.Positive.At(effective), m.preset.Negative.At(effective), nil
}

// TrialSeed derives the deterministic seed for one trial from the session
// seed material. Re-deriving trial i with the same inputs is bit-identical.
func TrialSeed(trialIndex int, seed int64) int64 {
	return int64(trialIndex)*42 + seed
}

// SeedFromPrior turns a session prior into seed material, matching the
// engine's historical seeding scheme.
func SeedFromPrior(prior float64) int64 {
	return int64(prior * 10000)
}

// FigureBrightness draws a figure brightness from a trial stream: the mean
// of the next three uniforms, modeling an RGB triple. Stimulus generators
// must draw the figure through this function as the FIRST consumption of
// the trial's stream, so the brightness they render and the brightness the
// inference sees are the same number.
func FigureBrightness(rng *rand.Rand) float64 {
	return (rng.Float64() + rng.Float64() + rng.Float64()) / 3.0
}

// FigureDiscriminability maps a figure brightness onto [0,1]: contrast
// against the nominal 0.5 background of a dense dot field, rescaled so the
// maximum contrast of 0.5 lands at 1.
func FigureDiscriminability(figure float64) float64 {
	d := math.Abs(figure-0.5) * 2
	if d > 1 {
		d = 1
	}
	return d
}

// DrawDiscriminability produces the per-trial discriminability value as a
// pure function of (trialIndex, seed). The generator is scoped to this
// single call; no shared or global randomness is involved. Any stimulus
// adapter that draws its figure via FigureBrightness at the head of the
// same trial stream yields a plate with this exact discriminability.
func (m *TrialDifficultyModel) DrawDiscriminability(trialIndex int, seed int64) (float64, error) {
	if trialIndex < 0 {
		return 0, core.NewInvalidArgumentError("trialIndex", fmt.Sprintf("must be >= 0, got %d", trialIndex))
	}

	rng := rand.New(rand.NewSource(TrialSeed(trialIndex, seed)))
	return FigureDiscriminability(FigureBrightness(rng)), nil
}
