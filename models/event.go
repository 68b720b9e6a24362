package models

// Stream is one of the two competitive tracks.
type Stream string

const (
	StreamSchoolsCup  Stream = "SchoolsCup"
	StreamCompetition Stream = "Competition"
)

var Streams = []Stream{StreamSchoolsCup, StreamCompetition}

func (s Stream) Valid() bool {
	return s == StreamSchoolsCup || s == StreamCompetition
}

// DefaultAreaName is the area created for every (game, stream) pair on seeding.
func (s Stream) DefaultAreaName() string {
	if s == StreamSchoolsCup {
		return "Schools Cup Side"
	}
	return "Competition Side"
}

type Event struct {
	ID     int    `json:"id" db:"id"`
	GameID int    `json:"game_id" db:"game_id"`
	Stream Stream `json:"stream" db:"stream"`
}

type Area struct {
	ID     int    `json:"id" db:"id"`
	GameID int    `json:"game_id" db:"game_id"`
	Stream Stream `json:"stream" db:"stream"`
	Name   string `json:"name" db:"name"`
}

// Round is a time slot. StartTime is formatted "HH:MM".
type Round struct {
	ID        int    `json:"id" db:"id"`
	Label     string `json:"label" db:"label"`
	StartTime string `json:"start_time" db:"start_time"`
}
