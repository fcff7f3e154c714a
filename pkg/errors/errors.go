package gigmarket_errors

import "errors"

// Common errors
var (
	ErrUnauthenticated    = errors.New("not authenticated")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrInvalidInput       = errors.New("invalid input")
	ErrPersistenceFailure = errors.New("persistence failure")
	ErrAlreadyExists      = errors.New("already exists")
)
