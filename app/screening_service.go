package app

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"goscreen/domain/core"
	"goscreen/domain/screening"
	"goscreen/internal/errors"
	"goscreen/ports"
)

// ScreeningService orchestrates a screening session: it derives the prior,
// pins each trial's stimulus and likelihood pair, validates raw subject
// input, and feeds outcomes into the session's posterior tracker. The
// service owns no mutable state of its own; everything lives on sessions
// in the store, so independent subjects stay isolated.
type ScreeningService struct {
	priors            *screening.PriorModel
	difficulty        *screening.TrialDifficultyModel
	stimulus          ports.StimulusPort
	store             ports.SessionStorePort
	trialCount        int
	virtualSampleSize float64
}

// ScreeningServiceDeps bundles the service's collaborators.
type ScreeningServiceDeps struct {
	Priors            *screening.PriorModel
	Difficulty        *screening.TrialDifficultyModel
	Stimulus          ports.StimulusPort
	Store             ports.SessionStorePort
	TrialCount        int
	VirtualSampleSize float64
}

// NewScreeningService wires up the service. Nil models fall back to the
// defaults; stimulus and store are required.
func NewScreeningService(deps ScreeningServiceDeps) (*ScreeningService, error) {
	if deps.Stimulus == nil {
		return nil, errors.ConfigInvalid("stimulus port is required")
	}
	if deps.Store == nil {
		return nil, errors.ConfigInvalid("session store is required")
	}
	if deps.TrialCount <= 0 {
		return nil, errors.ConfigInvalid("trial count must be positive")
	}
	if deps.Priors == nil {
		deps.Priors = screening.DefaultPriorModel()
	}
	if deps.Difficulty == nil {
		deps.Difficulty = screening.DefaultTrialDifficultyModel()
	}
	if deps.VirtualSampleSize <= 0 {
		deps.VirtualSampleSize = screening.DefaultVirtualSampleSize
	}

	return &ScreeningService{
		priors:            deps.Priors,
		difficulty:        deps.Difficulty,
		stimulus:          deps.Stimulus,
		store:             deps.Store,
		trialCount:        deps.TrialCount,
		virtualSampleSize: deps.VirtualSampleSize,
	}, nil
}

// TrialPrompt is what the presentation layer needs to surface one trial.
// The plate carries the ground-truth target; presentation layers must not
// reveal it to the subject.
type TrialPrompt struct {
	SessionID  core.SessionID
	TrialIndex int
	TrialCount int
	Plate      ports.Plate
	Trial      screening.Trial
}

// UpdateExplanation narrates one Bayesian update back to the subject.
type UpdateExplanation struct {
	Correct         bool
	Target          int
	PosteriorBefore float64
	PosteriorAfter  float64
	Delta           float64
	Rationale       string
	Completed       bool
}

// StartSession creates and starts a session for a subject category.
func (s *ScreeningService) StartSession(ctx context.Context, category screening.Category) (*screening.Session, error) {
	session, err := screening.NewSession(screening.SessionConfig{
		TrialCount:        s.trialCount,
		Priors:            s.priors,
		Difficulty:        s.difficulty,
		VirtualSampleSize: s.virtualSampleSize,
	})
	if err != nil {
		return nil, err
	}
	if err := session.Start(category); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return nil, errors.Wrap(err, "save session")
	}
	return session, nil
}

// NextTrial returns the prompt for the subject's next open trial. Calling
// it repeatedly without an intervening answer returns the identical
// prompt: trial parameters are pinned on first generation.
func (s *ScreeningService) NextTrial(ctx context.Context, id core.SessionID) (TrialPrompt, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return TrialPrompt{}, err
	}
	if session.State() == screening.StateCompleted {
		return TrialPrompt{}, core.NewInvalidStateError(string(session.State()), "present a trial")
	}

	index := session.CompletedTrials()
	trial, err := session.TrialFor(index)
	if err != nil {
		return TrialPrompt{}, err
	}
	plate, err := s.stimulus.GeneratePlate(ctx, index, session.Seed())
	if err != nil {
		return TrialPrompt{}, errors.Wrap(err, "generate plate")
	}

	return TrialPrompt{
		SessionID:  session.ID(),
		TrialIndex: index,
		TrialCount: session.TrialCount(),
		Plate:      plate,
		Trial:      trial,
	}, nil
}

// SubmitAnswer validates the subject's raw input, scores it against the
// open trial's ground truth, and records the outcome. Malformed input is
// rejected here and never reaches the tracker.
func (s *ScreeningService) SubmitAnswer(ctx context.Context, id core.SessionID, rawAnswer string) (UpdateExplanation, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return UpdateExplanation{}, err
	}

	guess, err := parseAnswer(rawAnswer)
	if err != nil {
		return UpdateExplanation{}, err
	}

	index := session.CompletedTrials()
	trial, err := session.TrialFor(index)
	if err != nil {
		return UpdateExplanation{}, err
	}
	plate, err := s.stimulus.GeneratePlate(ctx, index, session.Seed())
	if err != nil {
		return UpdateExplanation{}, errors.Wrap(err, "generate plate")
	}

	before, err := session.CurrentPosterior()
	if err != nil {
		return UpdateExplanation{}, err
	}

	correct := guess == plate.Target
	after, err := session.Record(correct, trial.LikelihoodIfPositive, trial.LikelihoodIfNegative)
	if err != nil {
		return UpdateExplanation{}, err
	}
	if err := s.store.Save(ctx, session); err != nil {
		return UpdateExplanation{}, errors.Wrap(err, "save session")
	}

	return UpdateExplanation{
		Correct:         correct,
		Target:          plate.Target,
		PosteriorBefore: before,
		PosteriorAfter:  after,
		Delta:           after - before,
		Rationale:       rationale(correct, trial),
		Completed:       session.State() == screening.StateCompleted,
	}, nil
}

// Summary builds the report for a session.
func (s *ScreeningService) Summary(ctx context.Context, id core.SessionID) (screening.Report, error) {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return screening.Report{}, err
	}
	return screening.BuildReport(session)
}

// ResetSession discards all session state; a new category must be supplied
// before recording resumes.
func (s *ScreeningService) ResetSession(ctx context.Context, id core.SessionID) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	session.Reset()
	return s.store.Save(ctx, session)
}

// Restart resets a session and starts it again for a category.
func (s *ScreeningService) Restart(ctx context.Context, id core.SessionID, category screening.Category) error {
	session, err := s.store.Get(ctx, id)
	if err != nil {
		return err
	}
	session.Reset()
	if err := session.Start(category); err != nil {
		return err
	}
	return s.store.Save(ctx, session)
}

func parseAnswer(raw string) (int, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, errors.InvalidInput("answer is empty")
	}
	guess, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, errors.InvalidInput(fmt.Sprintf("answer %q is not a number", raw))
	}
	if guess < 0 || guess > 99 {
		return 0, errors.InvalidInput(fmt.Sprintf("answer %d outside plate range [0,99]", guess))
	}
	return guess, nil
}

func rationale(correct bool, trial screening.Trial) string {
	if correct {
		return fmt.Sprintf(
			"Correct answers are more likely from unaffected subjects (%.1f%% vs %.1f%%), so the probability decreases.",
			trial.LikelihoodIfNegative*100, trial.LikelihoodIfPositive*100)
	}
	return fmt.Sprintf(
		"Wrong answers are more likely from affected subjects (%.1f%% vs %.1f%% chance of answering correctly), so the probability increases.",
		100-trial.LikelihoodIfPositive*100, 100-trial.LikelihoodIfNegative*100)
}
