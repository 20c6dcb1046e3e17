package cache

import "errors"

// Sentinel kinds for cache errors.
var (
	// ErrMiss means the key is absent or its entry expired.
	ErrMiss = errors.New("cache miss")
)
