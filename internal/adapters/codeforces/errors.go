package codeforces

import "errors"

// Sentinel kinds for upstream API errors.
var (
	// ErrUpstream means Codeforces answered with status FAILED.
	ErrUpstream = errors.New("codeforces api rejected the request")
	// ErrUnavailable means the request could not complete after retries.
	ErrUnavailable = errors.New("codeforces api unavailable")
	// ErrHandleNotFound means the requested handle does not exist.
	ErrHandleNotFound = errors.New("codeforces handle not found")
)
