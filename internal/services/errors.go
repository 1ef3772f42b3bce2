package services

import "errors"

var (
	ErrNotFound     = errors.New("session not found")
	ErrUnauthorized = errors.New("token does not match a seat in this session")
	ErrAlreadyFull  = errors.New("session is already full")
	ErrNotFinished  = errors.New("session is not finished")
	ErrConflict     = errors.New("session changed concurrently, please retry")
	ErrInvalidName  = errors.New("name must be 2-20 characters: letters, numbers, space, _ or -")
)

// Rejection reasons for answers that reach the resolver but are not
// accepted. These are not errors: the response still carries the session.
const (
	ReasonSessionNotActive = "session_not_active"
	ReasonStaleProblem     = "stale_problem"
	ReasonWrongAnswer      = "wrong_answer"
)
