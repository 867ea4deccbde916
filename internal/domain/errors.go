package domain

import "errors"

var (
	// ErrNotFound indicates that a requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidID indicates a malformed document identifier.
	ErrInvalidID = errors.New("invalid ID")
	// ErrInvalidInput indicates missing or malformed request data.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrRepository indicates a generic data persistence error.
	ErrRepository = errors.New("repository error")
)
