package screening

// Category identifies the subject population used to seed the prior.
type Category string

const (
	CategoryMale        Category = "male"
	CategoryFemale      Category = "female"
	CategoryUnspecified Category = "unspecified"
)

// SessionState tracks the screening session lifecycle
type SessionState string

const (
	StateAwaitingPrior SessionState = "awaiting_prior"
	StateInProgress    SessionState = "in_progress"
	StateCompleted     SessionState = "completed"
)

// Trial holds the diagnostic parameters for one discrimination trial.
// INVARIANTS:
// - Discriminability in [0,1]
// - Both likelihoods strictly inside (0,1)
// - Once generated for an index, never regenerated with different values
type Trial struct {
	Index                int     `json:"index"`
	Discriminability     float64 `json:"discriminability"`
	LikelihoodIfPositive float64 `json:"likelihood_if_positive"`
	LikelihoodIfNegative float64 `json:"likelihood_if_negative"`
}

// Observation is one recorded trial outcome together with the likelihood
// pair that was in force when the subject answered. The trajectory must be
// reproducible from these triples alone.
type Observation struct {
	Correct              bool    `json:"correct"`
	LikelihoodIfPositive float64 `json:"likelihood_if_positive"`
	LikelihoodIfNegative float64 `json:"likelihood_if_negative"`
}
