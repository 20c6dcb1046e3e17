package coach

import "errors"

// Package errors.
var (
	// ErrEmptyPool is returned when a picker receives no candidates.
	ErrEmptyPool = errors.New("empty candidate pool")
)
