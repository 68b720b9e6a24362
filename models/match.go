package models

import "time"

// SubmissionMode is how a logger submission is scored.
type SubmissionMode string

const (
	ModeWinLose       SubmissionMode = "WIN_LOSE"
	ModeTop4          SubmissionMode = "TOP4"
	ModeFinals        SubmissionMode = "FINALS"
	ModeParticipation SubmissionMode = "PARTICIPATION"
)

const (
	StageGroup = "Group"
	StageFinal = "Final"
)

type Match struct {
	ID           int       `json:"id" db:"id"`
	EventID      int       `json:"event_id" db:"event_id"`
	AreaID       int       `json:"area_id" db:"area_id"`
	RoundID      int       `json:"round_id" db:"round_id"`
	Stage        *string   `json:"stage,omitempty" db:"stage"`
	Cancelled    bool      `json:"cancelled" db:"cancelled"`
	CancelReason *string   `json:"cancel_reason,omitempty" db:"cancel_reason"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MatchParticipant is an award row. UID4 is the student's public identifier;
// PointsAwarded is the resolved value at the time of the award.
type MatchParticipant struct {
	ID            int     `json:"id" db:"id"`
	MatchID       int     `json:"match_id" db:"match_id"`
	UID4          int     `json:"uid4" db:"uid4"`
	Slot          int     `json:"slot" db:"slot"`
	Outcome       *string `json:"outcome,omitempty" db:"outcome"`
	PointsAwarded int     `json:"points_awarded" db:"points_awarded"`
	MetricValueMs *int64  `json:"metric_value_ms,omitempty" db:"metric_value_ms"`
}

// MatchResult is a match together with the award rows written for it.
type MatchResult struct {
	Match        *Match              `json:"match"`
	Participants []*MatchParticipant `json:"participants"`
}

// MatchSummary is a match row joined with display names, used by the logger page.
type MatchSummary struct {
	Match
	GameName     string              `json:"game_name"`
	Stream       Stream              `json:"stream"`
	RoundLabel   string              `json:"round_label"`
	AreaName     string              `json:"area_name"`
	Participants []*MatchParticipant `json:"participants,omitempty"`
}
