package db

import "errors"

// Sentinel errors the repo surfaces instead of nulls; controllers map these
// onto HTTP statuses.
var (
	ErrNotFound   = errors.New("record not found")
	ErrConflict   = errors.New("conflicting state")
	ErrValidation = errors.New("invalid input")
)
