package models

import "fmt"

// Typed domain errors. The helper maps these onto HTTP status codes by
// concrete type, so every service returns one of them rather than a bare
// errors.New.

type ErrorNotFound struct {
	Entity string
	ID     string
}

func (e ErrorNotFound) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

type ErrorUnauthorized struct {
	Message string
}

func (e ErrorUnauthorized) Error() string {
	return e.Message
}

// ErrorInvalidTransition carries the actual current state so a stale
// client can resynchronize.
type ErrorInvalidTransition struct {
	Requested string
	Current   string
}

func (e ErrorInvalidTransition) Error() string {
	return fmt.Sprintf("transition %s is not allowed from state %s", e.Requested, e.Current)
}

type ErrorValidation struct {
	Field   string
	Message string
}

func (e ErrorValidation) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ErrorConflict signals a lost optimistic-concurrency race. The caller
// should reread and retry; it is never retried here.
type ErrorConflict struct {
	Entity string
	ID     string
}

func (e ErrorConflict) Error() string {
	return fmt.Sprintf("%s %s was modified concurrently", e.Entity, e.ID)
}

// ErrorInternalServer wraps storage and provider failures so raw driver
// internals never reach the caller.
type ErrorInternalServer struct {
	Message string
	Err     error
}

func (e ErrorInternalServer) Error() string {
	return e.Message
}

func (e ErrorInternalServer) Unwrap() error {
	return e.Err
}
