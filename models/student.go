package models

type Cohort string

const (
	CohortHigh    Cohort = "High"
	CohortPrimary Cohort = "Primary"
)

// Student is a competitor. Award rows reference students by UID4, never by ID.
type Student struct {
	ID         int     `json:"id" db:"id"`
	UID4       int     `json:"uid4" db:"uid4"`
	FirstName  string  `json:"first_name" db:"first_name"`
	LastName   string  `json:"last_name" db:"last_name"`
	SchoolID   int     `json:"school_id" db:"school_id"`
	Cohort     string  `json:"cohort" db:"cohort"`
	YearLevel  *string `json:"year_level,omitempty" db:"year_level"`
	NonConsent bool    `json:"non_consent" db:"non_consent"`
	IsRef      bool    `json:"is_ref" db:"is_ref"`
	IsAdmin    bool    `json:"is_admin" db:"is_admin"`

	SchoolName string  `json:"school_name,omitempty" db:"-"`
}

// StudentFlag names one of the boolean columns an admin can toggle.
type StudentFlag string

const (
	FlagNonConsent StudentFlag = "non_consent"
	FlagReferee    StudentFlag = "is_ref"
	FlagAdmin      StudentFlag = "is_admin"
)

func (f StudentFlag) Valid() bool {
	switch f {
	case FlagNonConsent, FlagReferee, FlagAdmin:
		return true
	}
	return false
}
