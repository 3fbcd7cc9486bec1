package screening

import (
	"fmt"
	"math"

	"goscreen/domain/core"
)

// MixtureComponent is one weighted reference to a base-rate category.
type MixtureComponent struct {
	Of     Category
	Weight float64
}

// PriorModel maps a subject category to a base-rate prior probability.
// Concrete categories carry a rate directly; mixture categories are a
// weighted average over concrete categories, computed at lookup time so a
// custom rate table automatically flows into its mixtures.
type PriorModel struct {
	rates    map[Category]float64
	mixtures map[Category][]MixtureComponent
}

// DefaultPriorModel returns the population base rates for red-green color
// vision deficiency: ~8% of males, ~0.5% of females, and an unspecified
// category mixing the two at the observed testing-population split.
func DefaultPriorModel() *PriorModel {
	m, err := NewPriorModel(
		map[Category]float64{
			CategoryMale:   0.08,
			CategoryFemale: 0.005,
		},
		map[Category][]MixtureComponent{
			CategoryUnspecified: {
				{Of: CategoryMale, Weight: 0.33},
				{Of: CategoryFemale, Weight: 0.67},
			},
		},
	)
	if err != nil {
		// Static table, cannot fail
		panic(err)
	}
	return m
}

// NewPriorModel builds a prior model from a rate table and optional mixture
// definitions, validating every entry up front.
func NewPriorModel(rates map[Category]float64, mixtures map[Category][]MixtureComponent) (*PriorModel, error) {
	if len(rates) == 0 {
		return nil, core.NewInvalidArgumentError("rates", "at least one category is required")
	}

	for cat, rate := range rates {
		if rate <= 0 || rate >= 1 {
			return nil, fmt.Errorf("%w: base rate for %q is %v", core.ErrInvalidPrior, cat, rate)
		}
	}

	for cat, components := range mixtures {
		if _, clash := rates[cat]; clash {
			return nil, core.NewInvalidArgumentError("mixtures", fmt.Sprintf("category %q has both a base rate and a mixture", cat))
		}
		if len(components) == 0 {
			return nil, core.NewInvalidArgumentError("mixtures", fmt.Sprintf("mixture %q has no components", cat))
		}

		weightSum := 0.0
		for _, comp := range components {
			if _, ok := rates[comp.Of]; !ok {
				return nil, core.NewInvalidArgumentError("mixtures", fmt.Sprintf("mixture %q references unknown category %q", cat, comp.Of))
			}
			if comp.Weight <= 0 {
				return nil, core.NewInvalidArgumentError("mixtures", fmt.Sprintf("mixture %q has non-positive weight for %q", cat, comp.Of))
			}
			weightSum += comp.Weight
		}
		if math.Abs(weightSum-1.0) > 1e-9 {
			return nil, core.NewInvalidArgumentError("mixtures", fmt.Sprintf("mixture %q weights sum to %v, want 1", cat, weightSum))
		}
	}

	return &PriorModel{rates: rates, mixtures: mixtures}, nil
}

// PriorFor returns the prior probability of condition-positive for the
// given category. Unknown categories fail rather than defaulting to zero.
func (m *PriorModel) PriorFor(category Category) (float64, error) {
	if rate, ok := m.rates[category]; ok {
		return rate, nil
	}

	if components, ok := m.mixtures[category]; ok {
		prior := 0.0
		for _, comp := range components {
			prior += comp.Weight * m.rates[comp.Of]
		}
		return prior, nil
	}

	return 0, fmt.Errorf("%w: %q", core.ErrUnknownCategory, category)
}

// Categories lists every category the model recognizes.
func (m *PriorModel) Categories() []Category {
	out := make([]Category, 0, len(m.rates)+len(m.mixtures))
	for cat := range m.rates {
		out = append(out, cat)
	}
	for cat := range m.mixtures {
		out = append(out, cat)
	}
	return out
}
