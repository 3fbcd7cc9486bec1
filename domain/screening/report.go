package screening

import (
	"goscreen/domain/core"
)

// TrialRecord pairs one recorded outcome with the posterior movement it
// caused, for reporting.
type TrialRecord struct {
	Index                int     `json:"index"`
	Correct              bool    `json:"correct"`
	LikelihoodIfPositive float64 `json:"likelihood_if_positive"`
	LikelihoodIfNegative float64 `json:"likelihood_if_negative"`
	PosteriorBefore      float64 `json:"posterior_before"`
	PosteriorAfter       float64 `json:"posterior_after"`
}

// Report is the full session summary: trajectory, per-trial history, the
// verdict band over the final posterior, and the conjugate cross-check
// when at least one trial was recorded.
type Report struct {
	SessionID       core.SessionID `json:"session_id"`
	Category        Category       `json:"category,omitempty"`
	Prior           float64        `json:"prior"`
	TrialCount      int            `json:"trial_count"`
	CompletedTrials int            `json:"completed_trials"`
	CorrectCount    int            `json:"correct_count"`
	Posterior       float64        `json:"posterior"`
	Verdict         VerdictBand    `json:"verdict"`
	Trajectory      []float64      `json:"trajectory"`
	Trials          []TrialRecord  `json:"trials"`
	Conjugate       *BetaSummary   `json:"conjugate,omitempty"`
	Fingerprint     core.Hash      `json:"fingerprint"`
	GeneratedAt     core.Timestamp `json:"generated_at"`
}

// BuildReport assembles a report from a started session.
func BuildReport(s *Session) (Report, error) {
	posterior, err := s.CurrentPosterior()
	if err != nil {
		return Report{}, err
	}

	trajectory := s.Trajectory()
	history := s.History()

	trials := make([]TrialRecord, len(history))
	for i, obs := range history {
		trials[i] = TrialRecord{
			Index:                i,
			Correct:              obs.Correct,
			LikelihoodIfPositive: obs.LikelihoodIfPositive,
			LikelihoodIfNegative: obs.LikelihoodIfNegative,
			PosteriorBefore:      trajectory[i],
			PosteriorAfter:       trajectory[i+1],
		}
	}

	report := Report{
		SessionID:       s.ID(),
		Category:        s.Category(),
		Prior:           s.Prior(),
		TrialCount:      s.TrialCount(),
		CompletedTrials: s.CompletedTrials(),
		CorrectCount:    s.CorrectCount(),
		Posterior:       posterior,
		Verdict:         VerdictFor(posterior),
		Trajectory:      trajectory,
		Trials:          trials,
		Fingerprint:     s.Fingerprint(),
		GeneratedAt:     core.Now(),
	}

	if len(history) > 0 {
		conjugate, err := s.Conjugate()
		if err != nil {
			return Report{}, err
		}
		report.Conjugate = &conjugate
	}

	return report, nil
}
