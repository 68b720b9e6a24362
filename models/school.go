package models

// School is a participating school. UID4 is its public 4-digit identifier.
type School struct {
	ID   int    `json:"id" db:"id"`
	UID4 int    `json:"uid4" db:"uid4"`
	Name string `json:"name" db:"name"`
}
