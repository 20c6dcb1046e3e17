package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrSyncInFlight    = errors.New("sync already in flight for handle")
	ErrNotSynced       = errors.New("user history not synced yet")
	ErrUnknownProblem  = errors.New("problem not in catalog")
	ErrNoCandidates    = errors.New("no recommendable problems")
	ErrInvalidFeedback = errors.New("invalid skip feedback")
)
