package apicheck

import "time"

// Config holds configuration for an API check run.
type Config struct {
	BaseURL  string        // Base URL of the service
	Handle   string        // Codeforces handle to exercise
	Topic    string        // Optional topic filter for recommendations
	Timeout  time.Duration // HTTP request timeout
	SyncWait time.Duration // How long to wait for a history sync
	LogFile  string        // Log file for check output
	Verbose  bool          // Enable verbose logging
}

// profileResponse mirrors the user profile endpoint payload.
type profileResponse struct {
	Handle       string `json:"handle"`
	Rating       int    `json:"rating"`
	TargetRating int    `json:"target_rating"`
	SolvedCount  int    `json:"solved_count"`
	SyncState    string `json:"sync_state"`
}

// recommendationResponse mirrors the recommendation endpoint payload.
type recommendationResponse struct {
	Handle string `json:"handle"`
	Picked struct {
		Problem struct {
			ID     string `json:"id"`
			Name   string `json:"name"`
			Rating int    `json:"rating"`
		} `json:"problem"`
		Reason string `json:"reason"`
	} `json:"picked"`
	Message string `json:"message,omitempty"`
}

// ackResponse mirrors the solve/skip acknowledgement payload.
type ackResponse struct {
	Handle       string `json:"handle"`
	ProblemID    string `json:"problem_id"`
	Kind         string `json:"kind"`
	Slow         bool   `json:"slow,omitempty"`
	TargetRating int    `json:"target_rating"`
}

// analysisResponse mirrors the weakness analysis payload.
type analysisResponse struct {
	Report struct {
		Handle    string `json:"handle"`
		Rating    int    `json:"rating"`
		WeakBands []struct {
			Band         string  `json:"band"`
			UnsolvedRate float64 `json:"unsolved_rate"`
		} `json:"weak_bands"`
		WeakTopics []struct {
			Topic string `json:"topic"`
		} `json:"weak_topics"`
		Summary string `json:"summary,omitempty"`
	} `json:"report"`
	Upsolve []struct {
		ProblemID string  `json:"problem_id"`
		Score     float64 `json:"score"`
	} `json:"upsolve"`
}

// statsResponse mirrors the stats endpoint payload.
type statsResponse struct {
	Users      int `json:"users"`
	Problems   int `json:"problems"`
	QueueDepth int `json:"queue_depth"`
}

// Stats holds check run statistics.
type Stats struct {
	ChecksRun    int
	ChecksPassed int
	ChecksFailed int
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration
}
