package models

type ScoringMode string

const (
	ScoringWinLose       ScoringMode = "WIN_LOSE"
	ScoringTop4          ScoringMode = "TOP4"
	ScoringParticipation ScoringMode = "PARTICIPATION"
)

func (m ScoringMode) Valid() bool {
	switch m {
	case ScoringWinLose, ScoringTop4, ScoringParticipation:
		return true
	}
	return false
}

// FinalsMetric tells how finals metrics (lap time, score) are compared.
type FinalsMetric string

const (
	HigherIsBetter FinalsMetric = "HigherIsBetter"
	LowerIsBetter  FinalsMetric = "LowerIsBetter"
)

func (m FinalsMetric) Valid() bool {
	return m == HigherIsBetter || m == LowerIsBetter
}

type Game struct {
	ID             int           `json:"id" db:"id"`
	Name           string        `json:"name" db:"name"`
	Platform       *string       `json:"platform,omitempty" db:"platform"`
	ScoringMode    ScoringMode   `json:"scoring_mode" db:"scoring_mode"`
	FinalsMetric   *FinalsMetric `json:"finals_metric,omitempty" db:"finals_metric"`
	Notes          *string       `json:"notes,omitempty" db:"notes"`
	OverridePoints bool          `json:"override_points" db:"override_points"`
}
