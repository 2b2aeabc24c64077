package usecase

import "errors"

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflicting write")
	ErrInconsistentState     = errors.New("inconsistent state")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)
