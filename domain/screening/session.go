package screening

import (
	"fmt"

	"goscreen/domain/core"
)

// SessionConfig carries everything a session needs at construction. Models
// are shared, immutable configuration; all mutable state lives on the
// session itself.
type SessionConfig struct {
	TrialCount        int
	Priors            *PriorModel
	Difficulty        *TrialDifficultyModel
	VirtualSampleSize float64 // for the conjugate cross-check, default 10
}

// Session is the sequential posterior tracker for one subject. It owns the
// prior, the ordered outcome history, and the posterior trajectory, and it
// recomputes the posterior from the full history on every record so each
// trajectory entry is independently reproducible.
//
// Lifecycle: AwaitingPrior -> InProgress -> Completed, with Reset back to
// AwaitingPrior from any state. A session is not safe for concurrent use;
// callers serialize access per session.
type Session struct {
	id         core.SessionID
	cfg        SessionConfig
	state      SessionState
	category   Category
	prior      float64
	seed       int64
	trials     map[int]Trial
	history    []Observation
	trajectory []float64
	createdAt  core.Timestamp
}

// NewSession creates a session in the AwaitingPrior state.
func NewSession(cfg SessionConfig) (*Session, error) {
	if cfg.TrialCount <= 0 {
		return nil, fmt.Errorf("%w: got %d", core.ErrInvalidTrialCount, cfg.TrialCount)
	}
	if cfg.Priors == nil {
		cfg.Priors = DefaultPriorModel()
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = DefaultTrialDifficultyModel()
	}
	if cfg.VirtualSampleSize <= 0 {
		cfg.VirtualSampleSize = DefaultVirtualSampleSize
	}

	return &Session{
		id:        core.SessionID(core.NewID()),
		cfg:       cfg,
		state:     StateAwaitingPrior,
		trials:    make(map[int]Trial),
		createdAt: core.Now(),
	}, nil
}

// Start derives the prior from the subject category and opens the session
// for recording.
func (s *Session) Start(category Category) error {
	prior, err := s.cfg.Priors.PriorFor(category)
	if err != nil {
		return err
	}
	if err := s.StartWithPrior(prior); err != nil {
		return err
	}
	s.category = category
	return nil
}

// StartWithPrior opens the session with an explicit prior. Used for replay
// and calibration where the category lookup has already happened.
func (s *Session) StartWithPrior(prior float64) error {
	if s.state != StateAwaitingPrior {
		return core.NewInvalidStateError(string(s.state), "start")
	}
	if prior <= 0 || prior >= 1 {
		return fmt.Errorf("%w: got %v", core.ErrInvalidPrior, prior)
	}

	s.prior = prior
	s.seed = SeedFromPrior(prior)
	s.trajectory = append(s.trajectory, prior)
	s.state = StateInProgress
	return nil
}

// TrialFor returns the diagnostic parameters for a trial index, generating
// them on first request and caching them so a revisited trial is never
// re-randomized while the subject is answering it.
func (s *Session) TrialFor(index int) (Trial, error) {
	if s.state == StateAwaitingPrior {
		return Trial{}, core.ErrNotStarted
	}
	if index < 0 || index >= s.cfg.TrialCount {
		return Trial{}, fmt.Errorf("%w: index %d outside [0,%d)", core.ErrTrialNotFound, index, s.cfg.TrialCount)
	}

	if trial, ok := s.trials[index]; ok {
		return trial, nil
	}

	d, err := s.cfg.Difficulty.DrawDiscriminability(index, s.seed)
	if err != nil {
		return Trial{}, err
	}
	pPos, pNeg, err := s.cfg.Difficulty.ParametersFor(index, d)
	if err != nil {
		return Trial{}, err
	}

	trial := Trial{
		Index:                index,
		Discriminability:     d,
		LikelihoodIfPositive: pPos,
		LikelihoodIfNegative: pNeg,
	}
	s.trials[index] = trial
	return trial, nil
}

// Record folds one observed outcome into the posterior. The posterior is
// recomputed from the entire history rather than incrementally, so every
// trajectory entry can be audited from the stored triples alone. Returns
// the updated posterior.
func (s *Session) Record(correct bool, likelihoodIfPositive, likelihoodIfNegative float64) (float64, error) {
	if s.state != StateInProgress {
		return 0, core.NewInvalidStateError(string(s.state), "record")
	}
	for _, p := range []float64{likelihoodIfPositive, likelihoodIfNegative} {
		if p <= 0 || p >= 1 {
			return 0, fmt.Errorf("%w: got %v", core.ErrInvalidLikelihood, p)
		}
	}

	s.history = append(s.history, Observation{
		Correct:              correct,
		LikelihoodIfPositive: likelihoodIfPositive,
		LikelihoodIfNegative: likelihoodIfNegative,
	})

	posterior := s.recomputePosterior()
	s.trajectory = append(s.trajectory, posterior)

	if len(s.history) >= s.cfg.TrialCount {
		s.state = StateCompleted
	}
	return posterior, nil
}

// recomputePosterior applies the product-of-likelihoods form of Bayes'
// rule over the full history. A denominator of exactly zero is only
// reachable through floating-point underflow on long extreme histories; in
// that case the previous posterior is returned unchanged so the trajectory
// stays well-defined.
func (s *Session) recomputePosterior() float64 {
	likelihoodPos, likelihoodNeg := 1.0, 1.0
	for _, obs := range s.history {
		if obs.Correct {
			likelihoodPos *= obs.LikelihoodIfPositive
			likelihoodNeg *= obs.LikelihoodIfNegative
		} else {
			likelihoodPos *= 1 - obs.LikelihoodIfPositive
			likelihoodNeg *= 1 - obs.LikelihoodIfNegative
		}
	}

	numerator := s.prior * likelihoodPos
	denominator := numerator + (1-s.prior)*likelihoodNeg
	if denominator == 0 {
		return s.trajectory[len(s.trajectory)-1]
	}
	return numerator / denominator
}

// CurrentPosterior returns the trajectory tail.
func (s *Session) CurrentPosterior() (float64, error) {
	if s.state == StateAwaitingPrior || len(s.trajectory) == 0 {
		return 0, core.ErrNotStarted
	}
	return s.trajectory[len(s.trajectory)-1], nil
}

// Trajectory returns a copy of the posterior trajectory, index 0 being the
// prior and index k the posterior after trial k.
func (s *Session) Trajectory() []float64 {
	out := make([]float64, len(s.trajectory))
	copy(out, s.trajectory)
	return out
}

// History returns a copy of the recorded observations in trial order.
func (s *Session) History() []Observation {
	out := make([]Observation, len(s.history))
	copy(out, s.history)
	return out
}

// Reset discards all state and returns to AwaitingPrior. A new prior must
// be supplied before recording resumes.
func (s *Session) Reset() {
	s.state = StateAwaitingPrior
	s.category = ""
	s.prior = 0
	s.seed = 0
	s.trials = make(map[int]Trial)
	s.history = nil
	s.trajectory = nil
}

// Conjugate derives the Beta-Bernoulli cross-check estimate over the
// outcomes recorded so far. It is never fed back into the likelihood-ratio
// posterior; the two estimators are allowed to disagree.
func (s *Session) Conjugate() (BetaSummary, error) {
	if s.state == StateAwaitingPrior {
		return BetaSummary{}, core.ErrNotStarted
	}
	summary, err := NewConjugateSummary(s.prior, s.cfg.VirtualSampleSize)
	if err != nil {
		return BetaSummary{}, err
	}
	return summary.Summarize(len(s.history), s.CorrectCount())
}

// Fingerprint hashes the prior and full observation history, so two
// sessions that replayed identical evidence carry identical fingerprints.
func (s *Session) Fingerprint() core.Hash {
	data := fmt.Sprintf("%.17g", s.prior)
	for _, obs := range s.history {
		data += fmt.Sprintf("|%t:%.17g:%.17g", obs.Correct, obs.LikelihoodIfPositive, obs.LikelihoodIfNegative)
	}
	return core.NewHash([]byte(data))
}

// CorrectCount returns how many recorded outcomes were correct.
func (s *Session) CorrectCount() int {
	k := 0
	for _, obs := range s.history {
		if obs.Correct {
			k++
		}
	}
	return k
}

// Accessors

func (s *Session) ID() core.SessionID        { return s.id }
func (s *Session) State() SessionState       { return s.state }
func (s *Session) Category() Category        { return s.category }
func (s *Session) Prior() float64            { return s.prior }
func (s *Session) Seed() int64               { return s.seed }
func (s *Session) TrialCount() int           { return s.cfg.TrialCount }
func (s *Session) CompletedTrials() int      { return len(s.history) }
func (s *Session) CreatedAt() core.Timestamp { return s.createdAt }
