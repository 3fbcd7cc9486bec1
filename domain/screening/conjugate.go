package screening

import (
	"fmt"

	"gonum.org/v1/gonum/stat/distuv"

	"goscreen/domain/core"
)

// DefaultVirtualSampleSize is the weight the prior carries when translated
// into Beta pseudo-counts.
const DefaultVirtualSampleSize = 10.0

// BetaSummary is the Beta-distribution posterior over the population
// condition rate, derived from the same outcome sequence the tracker sees
// but through the conjugate Beta-Bernoulli route. It is an independent
// cross-check estimator.
type BetaSummary struct {
	AlphaPrior     float64 `json:"alpha_prior"`
	BetaPrior      float64 `json:"beta_prior"`
	AlphaPosterior float64 `json:"alpha_posterior"`
	BetaPosterior  float64 `json:"beta_posterior"`
	Mean           float64 `json:"mean"`
	Variance       float64 `json:"variance"`
	CredibleLow    float64 `json:"credible_low"`  // 2.5% quantile
	CredibleHigh   float64 `json:"credible_high"` // 97.5% quantile
	TrialCount     int     `json:"trial_count"`
	CorrectCount   int     `json:"correct_count"`
}

// ConjugateSummary derives Beta posteriors from a prior and a virtual
// sample size w: alphaPrior = prior*w, betaPrior = (1-prior)*w.
type ConjugateSummary struct {
	prior float64
	w     float64
}

// NewConjugateSummary validates the prior and virtual sample size.
func NewConjugateSummary(prior, virtualSampleSize float64) (*ConjugateSummary, error) {
	if prior <= 0 || prior >= 1 {
		return nil, fmt.Errorf("%w: got %v", core.ErrInvalidPrior, prior)
	}
	if virtualSampleSize <= 0 {
		return nil, core.NewInvalidArgumentError("virtualSampleSize", fmt.Sprintf("must be > 0, got %v", virtualSampleSize))
	}
	return &ConjugateSummary{prior: prior, w: virtualSampleSize}, nil
}

// Summarize folds n trials with k correct outcomes into the Beta posterior.
// Policy: zero trials fails with ErrInsufficientData rather than returning
// the prior trivially; callers wanting the prior should read it directly.
func (c *ConjugateSummary) Summarize(n, k int) (BetaSummary, error) {
	if n <= 0 {
		return BetaSummary{}, fmt.Errorf("%w: %d trials recorded", core.ErrInsufficientData, n)
	}
	if k < 0 || k > n {
		return BetaSummary{}, core.NewInvalidArgumentError("correctCount", fmt.Sprintf("must lie in [0,%d], got %d", n, k))
	}

	alphaPrior := c.prior * c.w
	betaPrior := (1 - c.prior) * c.w
	alphaPost := alphaPrior + float64(k)
	betaPost := betaPrior + float64(n-k)

	dist := distuv.Beta{Alpha: alphaPost, Beta: betaPost}

	return BetaSummary{
		AlphaPrior:     alphaPrior,
		BetaPrior:      betaPrior,
		AlphaPosterior: alphaPost,
		BetaPosterior:  betaPost,
		Mean:           dist.Mean(),
		Variance:       dist.Variance(),
		CredibleLow:    dist.Quantile(0.025),
		CredibleHigh:   dist.Quantile(0.975),
		TrialCount:     n,
		CorrectCount:   k,
	}, nil
}
