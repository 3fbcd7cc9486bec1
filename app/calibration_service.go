package app

import (
	"context"
	"fmt"
	"sync"

	"github.com/montanaflynn/stats"
	"golang.org/x/sync/semaphore"

	"goscreen/domain/screening"
	"goscreen/internal/errors"
	"goscreen/ports"
)

// CalibrationSpec describes one Monte Carlo sweep: many synthetic subjects
// of a known ground-truth condition run through full sessions, so a preset
// can be judged by where it lands the posterior for each truth.
type CalibrationSpec struct {
	Category      screening.Category
	TruthPositive bool // simulated subjects actually have the condition
	Subjects      int
	TrialCount    int
	Seed          int64
	Concurrency   int64
}

// CalibrationResult summarizes the final posteriors over all subjects.
type CalibrationResult struct {
	FinalPosteriors []float64
	Mean            float64
	Median          float64
	P10             float64
	P90             float64
	VerdictCounts   map[screening.VerdictBand]int
}

// CalibrationService replays the screening engine against synthetic
// subjects with bounded concurrency. Each subject gets its own session and
// its own seeded RNG stream, so runs are deterministic for a fixed seed
// and sessions never share mutable state.
type CalibrationService struct {
	priors     *screening.PriorModel
	difficulty *screening.TrialDifficultyModel
	rng        ports.RNGPort
}

// NewCalibrationService wires up the calibration harness.
func NewCalibrationService(priors *screening.PriorModel, difficulty *screening.TrialDifficultyModel, rng ports.RNGPort) (*CalibrationService, error) {
	if rng == nil {
		return nil, errors.ConfigInvalid("rng port is required")
	}
	if priors == nil {
		priors = screening.DefaultPriorModel()
	}
	if difficulty == nil {
		difficulty = screening.DefaultTrialDifficultyModel()
	}
	return &CalibrationService{priors: priors, difficulty: difficulty, rng: rng}, nil
}

// Run executes the sweep. Results are collected by subject index so the
// output order is deterministic regardless of scheduling.
func (s *CalibrationService) Run(ctx context.Context, spec CalibrationSpec) (CalibrationResult, error) {
	if spec.Subjects <= 0 {
		return CalibrationResult{}, errors.ConfigInvalid("subjects must be positive")
	}
	if spec.TrialCount <= 0 {
		return CalibrationResult{}, errors.ConfigInvalid("trial count must be positive")
	}
	concurrency := spec.Concurrency
	if concurrency <= 0 {
		concurrency = 8
	}

	sem := semaphore.NewWeighted(concurrency)
	posteriors := make([]float64, spec.Subjects)
	errs := make([]error, spec.Subjects)

	var wg sync.WaitGroup
	for i := 0; i < spec.Subjects; i++ {
		if err := sem.Acquire(ctx, 1); err != nil {
			return CalibrationResult{}, err
		}
		wg.Add(1)
		go func(subject int) {
			defer wg.Done()
			defer sem.Release(1)
			posteriors[subject], errs[subject] = s.simulateSubject(ctx, spec, subject)
		}(i)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return CalibrationResult{}, err
		}
	}

	return summarize(posteriors)
}

// simulateSubject runs one synthetic subject through a full session. The
// outcome of each trial is a Bernoulli draw with the correct-response
// probability of the subject's true hypothesis.
func (s *CalibrationService) simulateSubject(ctx context.Context, spec CalibrationSpec, subject int) (float64, error) {
	rng, err := s.rng.SeededStream(ctx, fmt.Sprintf("calibration_subject_%d", subject), spec.Seed+int64(subject))
	if err != nil {
		return 0, err
	}

	session, err := screening.NewSession(screening.SessionConfig{
		TrialCount: spec.TrialCount,
		Priors:     s.priors,
		Difficulty: s.difficulty,
	})
	if err != nil {
		return 0, err
	}
	if err := session.Start(spec.Category); err != nil {
		return 0, err
	}

	for i := 0; i < spec.TrialCount; i++ {
		trial, err := session.TrialFor(i)
		if err != nil {
			return 0, err
		}

		pCorrect := trial.LikelihoodIfNegative
		if spec.TruthPositive {
			pCorrect = trial.LikelihoodIfPositive
		}
		correct := rng.Float64() < pCorrect

		if _, err := session.Record(correct, trial.LikelihoodIfPositive, trial.LikelihoodIfNegative); err != nil {
			return 0, err
		}
	}

	return session.CurrentPosterior()
}

func summarize(posteriors []float64) (CalibrationResult, error) {
	mean, err := stats.Mean(posteriors)
	if err != nil {
		return CalibrationResult{}, err
	}
	median, err := stats.Median(posteriors)
	if err != nil {
		return CalibrationResult{}, err
	}
	p10, err := stats.Percentile(posteriors, 10)
	if err != nil {
		return CalibrationResult{}, err
	}
	p90, err := stats.Percentile(posteriors, 90)
	if err != nil {
		return CalibrationResult{}, err
	}

	verdicts := make(map[screening.VerdictBand]int)
	for _, p := range posteriors {
		verdicts[screening.VerdictFor(p)]++
	}

	return CalibrationResult{
		FinalPosteriors: posteriors,
		Mean:            mean,
		Median:          median,
		P10:             p10,
		P90:             p90,
		VerdictCounts:   verdicts,
	}, nil
}
