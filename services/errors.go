package services

import (
	"errors"
	"sort"
	"strings"
)

// Errors shared across services and the HTTP error mapping.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed = errors.New("validation failed")
	ErrWinnerMismatch   = errors.New("winner must be one of the two participants")
	ErrUIDPoolExhausted = errors.New("no free 4-digit identifier left")

	// ErrPointsNotFound is internal: the recorder awards 0 points when a code cannot be resolved.
	ErrPointsNotFound = errors.New("no points value for code")

	ErrSchoolNotFound      = errors.New("school not found")
	ErrStudentNotFound     = errors.New("student not found")
	ErrGameNotFound        = errors.New("game not found")
	ErrEventNotFound       = errors.New("event not found")
	ErrAreaNotFound        = errors.New("area not found")
	ErrRoundNotFound       = errors.New("round not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrPointsEntryNotFound = errors.New("points entry not found")

	ErrGameNameConflict = errors.New("game name already exists")
)

// ValidationError carries per-field messages. It matches ErrValidationFailed
// under errors.Is.
type ValidationError struct {
	Fields map[string]string
}

func newValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidationFailed
}
