package models

// Outcome codes used by the match recorder.
const (
	CodeWin           = "Win"
	CodeLose          = "Lose"
	CodeTie           = "Tie"
	CodeFirst         = "1st"
	CodeSecond        = "2nd"
	CodeThird         = "3rd"
	CodeFourth        = "4th"
	CodeTimeLap       = "TimeLap"
	CodeParticipation = "Participation"
)

// PlaceCodes maps a 1-based finishing place to its outcome code.
var PlaceCodes = [4]string{CodeFirst, CodeSecond, CodeThird, CodeFourth}

// PointsEntry is a row of the global points catalogue.
type PointsEntry struct {
	Code      string `json:"code" db:"code"`
	Label     string `json:"label" db:"label"`
	Value     int    `json:"value" db:"value"`
	SortOrder int    `json:"sort_order" db:"sort_order"`
	Active    bool   `json:"active" db:"active"`
}

// GamePointsOverride replaces the catalogue value of Code for a single game.
type GamePointsOverride struct {
	ID     int    `json:"id" db:"id"`
	GameID int    `json:"game_id" db:"game_id"`
	Code   string `json:"code" db:"code"`
	Value  int    `json:"value" db:"value"`
}
