package store

import "errors"

var (
	// ErrNotFound is returned when a record doesn't exist
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a unique constraint would be violated
	ErrConflict = errors.New("already exists")

	// ErrAlreadySubmitted is returned when an attendee answers a survey twice
	ErrAlreadySubmitted = errors.New("survey already submitted")

	// ErrHasResponses is returned when editing questions of an answered survey
	ErrHasResponses = errors.New("survey already has responses")

	// ErrInvalidOrder is returned when a reorder is not a permutation of the survey's questions
	ErrInvalidOrder = errors.New("question order must list every question of the survey exactly once")
)
