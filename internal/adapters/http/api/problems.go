// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/okian/cpcoach/internal/domain/model"
)

// ProblemsDependencies defines the interface for catalog queries.
type ProblemsDependencies interface {
	Problems(ctx context.Context, topic string, lo, hi int) ([]model.Problem, error)
}

// ProblemsHandler handles problem catalog requests.
type ProblemsHandler struct {
	deps ProblemsDependencies
}

// NewProblemsHandler creates a new problems handler.
func NewProblemsHandler(deps ProblemsDependencies) *ProblemsHandler {
	return &ProblemsHandler{deps: deps}
}

// HandleProblems handles GET /problems requests.
// Query parameters: topic, min_rating, max_rating.
func (h *ProblemsHandler) HandleProblems(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	topic := q.Get("topic")
	if err := validateTopic(topic); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	lo, ok := ratingParam(q.Get("min_rating"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	hi, ok := ratingParam(q.Get("max_rating"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	problems, err := h.deps.Problems(r.Context(), topic, lo, hi)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if problems == nil {
		problems = []model.Problem{}
	}
	writeJSON(w, http.StatusOK, problems)
}

func ratingParam(raw string) (int, bool) {
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}
