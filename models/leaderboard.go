package models

// AwardPoints is the slice of an award row the leaderboard needs.
type AwardPoints struct {
	UID4   int
	Points int
}

type LeaderboardRow struct {
	UID4       int    `json:"uid4"`
	SchoolName string `json:"school"`
	Total      int    `json:"points"`
}

type SchoolBoardRow struct {
	SchoolUID4 int    `json:"school_uid4"`
	SchoolName string `json:"school"`
	Total      int    `json:"points"`
}

// LeaderboardFilter restricts which award rows are summed. Nil fields do not filter.
type LeaderboardFilter struct {
	GameID *int
	Stream *Stream
	Limit  int
}
