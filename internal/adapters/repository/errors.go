package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrNotFound         = errors.New("week not found")
	ErrRevisionConflict = errors.New("revision conflict")
	ErrInvalidKey       = errors.New("invalid store key")
)
