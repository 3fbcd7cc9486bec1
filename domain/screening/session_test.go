package screening

import (
	"errors"
	"math"
	"testing"

	"goscreen/domain/core"
)

func newStartedSession(t *testing.T, prior float64, trials int) *Session {
	t.Helper()
	session, err := NewSession(SessionConfig{TrialCount: trials})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.StartWithPrior(prior); err != nil {
		t.Fatalf("StartWithPrior: %v", err)
	}
	return session
}

func TestNewSession_Validation(t *testing.T) {
	for _, count := range []int{0, -1} {
		if _, err := NewSession(SessionConfig{TrialCount: count}); !errors.Is(err, core.ErrInvalidTrialCount) {
			t.Errorf("TrialCount %d: expected ErrInvalidTrialCount, got %v", count, err)
		}
	}
}

func TestRecord_SingleTrialScenario(t *testing.T) {
	// prior=0.08, one correct trial with (0.4, 0.6):
	// (0.08*0.4) / (0.08*0.4 + 0.92*0.6) = 0.032/0.584
	session := newStartedSession(t, 0.08, 3)

	posterior, err := session.Record(true, 0.4, 0.6)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	want := 0.032 / 0.584
	if math.Abs(posterior-want) > 1e-12 {
		t.Errorf("posterior = %v, want %v", posterior, want)
	}
}

func TestRecord_TwoTrialScenario(t *testing.T) {
	// Two correct trials with identical (0.4, 0.6):
	// (0.08*0.16) / (0.08*0.16 + 0.92*0.36) = 0.0128/0.344
	session := newStartedSession(t, 0.08, 3)

	if _, err := session.Record(true, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}
	posterior, err := session.Record(true, 0.4, 0.6)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	want := 0.0128 / 0.344
	if math.Abs(posterior-want) > 1e-12 {
		t.Errorf("posterior = %v, want %v", posterior, want)
	}
}

func TestRecord_Direction(t *testing.T) {
	// With pPos < pNeg, a correct answer is evidence against the
	// condition; a wrong answer is evidence for it.
	correct := newStartedSession(t, 0.08, 1)
	posterior, err := correct.Record(true, 0.4, 0.6)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if posterior >= 0.08 {
		t.Errorf("correct outcome: posterior %v did not decrease from prior", posterior)
	}

	wrong := newStartedSession(t, 0.08, 1)
	posterior, err = wrong.Record(false, 0.4, 0.6)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if posterior <= 0.08 {
		t.Errorf("wrong outcome: posterior %v did not increase from prior", posterior)
	}
}

func TestRecord_PosteriorStaysInsideUnitInterval(t *testing.T) {
	session := newStartedSession(t, 0.08, 100)

	for i := 0; i < 100; i++ {
		posterior, err := session.Record(i%3 == 0, 0.35, 0.70)
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		if posterior <= 0 || posterior >= 1 {
			t.Fatalf("trial %d: posterior %v escaped (0,1)", i, posterior)
		}
	}
}

func TestRecord_LikelihoodValidation(t *testing.T) {
	tests := []struct {
		name string
		pPos float64
		pNeg float64
	}{
		{name: "pPos zero", pPos: 0, pNeg: 0.6},
		{name: "pPos one", pPos: 1, pNeg: 0.6},
		{name: "pNeg zero", pPos: 0.4, pNeg: 0},
		{name: "pNeg one", pPos: 0.4, pNeg: 1},
		{name: "pPos negative", pPos: -0.2, pNeg: 0.6},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			session := newStartedSession(t, 0.08, 1)
			if _, err := session.Record(true, tt.pPos, tt.pNeg); !errors.Is(err, core.ErrInvalidLikelihood) {
				t.Errorf("expected ErrInvalidLikelihood, got %v", err)
			}
		})
	}
}

func TestRecord_DegenerateDenominatorFallsBack(t *testing.T) {
	// Likelihoods near the float64 minimum underflow both products to
	// zero after a couple of trials; the posterior must then hold its
	// previous value instead of dividing by zero.
	session := newStartedSession(t, 0.08, 10)

	tiny := 1e-308
	var last float64
	var err error
	for i := 0; i < 4; i++ {
		last, err = session.Record(true, tiny, tiny)
		if err != nil {
			t.Fatalf("Record %d: %v", i, err)
		}
		if math.IsNaN(last) {
			t.Fatalf("trial %d: posterior is NaN", i)
		}
	}

	trajectory := session.Trajectory()
	if got := trajectory[len(trajectory)-1]; got != last {
		t.Errorf("trajectory tail %v != last returned posterior %v", got, last)
	}
	// Once the denominator underflows, consecutive entries repeat.
	if trajectory[len(trajectory)-1] != trajectory[len(trajectory)-2] {
		t.Errorf("expected fallback to previous value, got %v then %v",
			trajectory[len(trajectory)-2], trajectory[len(trajectory)-1])
	}
}

func TestTrajectory_ShapeAndPrefix(t *testing.T) {
	session := newStartedSession(t, 0.08, 3)

	if got := session.Trajectory(); len(got) != 1 || got[0] != 0.08 {
		t.Fatalf("fresh trajectory = %v, want [0.08]", got)
	}

	for i := 0; i < 3; i++ {
		if _, err := session.Record(true, 0.4, 0.6); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	trajectory := session.Trajectory()
	if len(trajectory) != 4 {
		t.Fatalf("trajectory length = %d, want N+1 = 4", len(trajectory))
	}
	if trajectory[0] != 0.08 {
		t.Errorf("trajectory[0] = %v, want the prior", trajectory[0])
	}
}

func TestReplay_ReproducesIdenticalTrajectory(t *testing.T) {
	observations := []Observation{
		{Correct: true, LikelihoodIfPositive: 0.40, LikelihoodIfNegative: 0.60},
		{Correct: false, LikelihoodIfPositive: 0.38, LikelihoodIfNegative: 0.65},
		{Correct: true, LikelihoodIfPositive: 0.55, LikelihoodIfNegative: 0.70},
		{Correct: false, LikelihoodIfPositive: 0.35, LikelihoodIfNegative: 0.45},
	}

	run := func() []float64 {
		session := newStartedSession(t, 0.08, len(observations))
		for _, obs := range observations {
			if _, err := session.Record(obs.Correct, obs.LikelihoodIfPositive, obs.LikelihoodIfNegative); err != nil {
				t.Fatalf("Record: %v", err)
			}
		}
		return session.Trajectory()
	}

	first := run()
	second := run()
	if len(first) != len(second) {
		t.Fatalf("trajectory lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("trajectory[%d]: %v != %v", i, first[i], second[i])
		}
	}
}

func TestReset_ReplayAfterResetMatches(t *testing.T) {
	session := newStartedSession(t, 0.08, 2)
	if _, err := session.Record(true, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := session.Record(false, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}
	want := session.Trajectory()
	wantFingerprint := session.Fingerprint()

	session.Reset()
	if session.State() != StateAwaitingPrior {
		t.Fatalf("state after reset = %v, want %v", session.State(), StateAwaitingPrior)
	}
	if _, err := session.CurrentPosterior(); !errors.Is(err, core.ErrNotStarted) {
		t.Fatalf("expected ErrNotStarted after reset, got %v", err)
	}
	if _, err := session.Record(true, 0.4, 0.6); !core.IsInvalidState(err) {
		t.Fatalf("expected invalid-state error recording after reset, got %v", err)
	}

	if err := session.StartWithPrior(0.08); err != nil {
		t.Fatalf("StartWithPrior: %v", err)
	}
	if _, err := session.Record(true, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if _, err := session.Record(false, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}

	got := session.Trajectory()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("trajectory[%d]: %v != %v after replay", i, got[i], want[i])
		}
	}
	if session.Fingerprint() != wantFingerprint {
		t.Error("fingerprint changed after identical replay")
	}
}

func TestSession_StateMachine(t *testing.T) {
	session, err := NewSession(SessionConfig{TrialCount: 1})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}

	// AwaitingPrior: no posterior, no recording.
	if _, err := session.CurrentPosterior(); !errors.Is(err, core.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted, got %v", err)
	}
	if _, err := session.Record(true, 0.4, 0.6); !core.IsInvalidState(err) {
		t.Errorf("expected invalid-state error, got %v", err)
	}
	if _, err := session.TrialFor(0); !errors.Is(err, core.ErrNotStarted) {
		t.Errorf("expected ErrNotStarted from TrialFor, got %v", err)
	}

	if err := session.Start(CategoryMale); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if session.State() != StateInProgress {
		t.Fatalf("state = %v, want %v", session.State(), StateInProgress)
	}
	if err := session.Start(CategoryMale); !core.IsInvalidState(err) {
		t.Errorf("expected invalid-state error starting twice, got %v", err)
	}

	if _, err := session.Record(true, 0.4, 0.6); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if session.State() != StateCompleted {
		t.Fatalf("state = %v, want %v", session.State(), StateCompleted)
	}

	// Completed: further recording is rejected.
	if _, err := session.Record(true, 0.4, 0.6); !core.IsInvalidState(err) {
		t.Errorf("expected invalid-state error after completion, got %v", err)
	}
}

func TestTrialFor_PinsParameters(t *testing.T) {
	session, err := NewSession(SessionConfig{TrialCount: 3})
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	if err := session.Start(CategoryMale); err != nil {
		t.Fatalf("Start: %v", err)
	}

	first, err := session.TrialFor(1)
	if err != nil {
		t.Fatalf("TrialFor: %v", err)
	}
	second, err := session.TrialFor(1)
	if err != nil {
		t.Fatalf("TrialFor: %v", err)
	}
	if first != second {
		t.Errorf("revisited trial regenerated: %+v vs %+v", first, second)
	}

	if _, err := session.TrialFor(3); !errors.Is(err, core.ErrTrialNotFound) {
		t.Errorf("expected ErrTrialNotFound for out-of-range index, got %v", err)
	}
	if _, err := session.TrialFor(-1); !errors.Is(err, core.ErrTrialNotFound) {
		t.Errorf("expected ErrTrialNotFound for negative index, got %v", err)
	}
}

func TestStartWithPrior_Validation(t *testing.T) {
	for _, prior := range []float64{0, 1, -0.1, 1.5} {
		session, err := NewSession(SessionConfig{TrialCount: 1})
		if err != nil {
			t.Fatalf("NewSession: %v", err)
		}
		if err := session.StartWithPrior(prior); !errors.Is(err, core.ErrInvalidPrior) {
			t.Errorf("prior %v: expected ErrInvalidPrior, got %v", prior, err)
		}
	}
}
