package testkit

import (
	"context"
	"fmt"

	"goscreen/adapters/rng"
	"goscreen/adapters/store"
	"goscreen/app"
	"goscreen/domain/screening"
	"goscreen/ports"
)

// TestKit provides deterministic fixtures for exercising the screening
// engine without a real stimulus pipeline.
type TestKit struct {
	store *store.MemorySessionStore
}

// NewTestKit creates a new test kit instance.
func NewTestKit() *TestKit {
	return &TestKit{store: store.NewMemorySessionStore()}
}

// Store returns the shared in-memory session store.
func (t *TestKit) Store() *store.MemorySessionStore {
	return t.store
}

// ScreeningService builds a service backed by a scripted stimulus, so the
// ground-truth targets and discriminability values are known to the test.
func (t *TestKit) ScreeningService(trialCount int, stimulus ports.StimulusPort) (*app.ScreeningService, error) {
	if stimulus == nil {
		stimulus = NewScriptedStimulus(trialCount)
	}
	return app.NewScreeningService(app.ScreeningServiceDeps{
		Stimulus:   stimulus,
		Store:      t.store,
		TrialCount: trialCount,
	})
}

// RNGAdapter returns the deterministic seeded RNG port.
func (t *TestKit) RNGAdapter() ports.RNGPort {
	return rng.NewSeededAdapter()
}

// ScriptedStimulus serves pre-set targets and discriminability values in
// trial order, ignoring the seed.
type ScriptedStimulus struct {
	Targets          []int
	Discriminability []float64
}

// NewScriptedStimulus builds a script where trial i has target (i*7)%100
// and mid-range discriminability.
func NewScriptedStimulus(trials int) *ScriptedStimulus {
	s := &ScriptedStimulus{
		Targets:          make([]int, trials),
		Discriminability: make([]float64, trials),
	}
	for i := 0; i < trials; i++ {
		s.Targets[i] = (i * 7) % 100
		s.Discriminability[i] = 0.5
	}
	return s
}

func (s *ScriptedStimulus) GeneratePlate(ctx context.Context, trialIndex int, seed int64) (ports.Plate, error) {
	if trialIndex < 0 || trialIndex >= len(s.Targets) {
		return ports.Plate{}, fmt.Errorf("scripted stimulus has no trial %d", trialIndex)
	}
	return ports.Plate{
		TrialIndex:       trialIndex,
		Target:           s.Targets[trialIndex],
		Discriminability: s.Discriminability[trialIndex],
		DotCount:         100,
	}, nil
}

// CannedOutcomes builds observation sequences for replay tests.

// AllCorrect returns n correct observations with a fixed likelihood pair.
func AllCorrect(n int, pPos, pNeg float64) []screening.Observation {
	out := make([]screening.Observation, n)
	for i := range out {
		out[i] = screening.Observation{Correct: true, LikelihoodIfPositive: pPos, LikelihoodIfNegative: pNeg}
	}
	return out
}

// Alternating returns n observations alternating correct/wrong.
func Alternating(n int, pPos, pNeg float64) []screening.Observation {
	out := make([]screening.Observation, n)
	for i := range out {
		out[i] = screening.Observation{Correct: i%2 == 0, LikelihoodIfPositive: pPos, LikelihoodIfNegative: pNeg}
	}
	return out
}

// Replay feeds a canned observation sequence into a fresh session with an
// explicit prior and returns the session.
func Replay(prior float64, trialCount int, observations []screening.Observation) (*screening.Session, error) {
	session, err := screening.NewSession(screening.SessionConfig{TrialCount: trialCount})
	if err != nil {
		return nil, err
	}
	if err := session.StartWithPrior(prior); err != nil {
		return nil, err
	}
	for _, obs := range observations {
		if _, err := session.Record(obs.Correct, obs.LikelihoodIfPositive, obs.LikelihoodIfNegative); err != nil {
			return nil, err
		}
	}
	return session, nil
}
