package repository

import "errors"

// Sentinel kinds for store errors.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProblemNotFound = errors.New("problem not found")
)
