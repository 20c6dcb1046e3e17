// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/types"
)

// SolveDependencies defines the interface for solve reporting.
type SolveDependencies interface {
	RecordSolve(ctx context.Context, handle, problemID string, verdict model.Verdict, taken time.Duration) (types.InteractionAck, error)
}

// SkipDependencies defines the interface for skip reporting.
type SkipDependencies interface {
	RecordSkip(ctx context.Context, handle, problemID string, feedback model.SkipFeedback) (types.InteractionAck, error)
}

// solveRequest mirrors the OpenAPI schema for POST /solve/{problem_id}.
type solveRequest struct {
	Handle           string `json:"handle"`
	Verdict          string `json:"verdict"`
	TimeTakenSeconds int64  `json:"time_taken_seconds"`
}

func (r solveRequest) validate() error {
	if err := validateHandle(r.Handle); err != nil {
		return err
	}
	switch strings.ToUpper(strings.TrimSpace(r.Verdict)) {
	case "AC", "WA", "OK":
	default:
		return errors.New("verdict must be AC or WA")
	}
	if r.TimeTakenSeconds < 0 {
		return errors.New("time_taken_seconds must not be negative")
	}
	return nil
}

// skipRequest mirrors the OpenAPI schema for POST /skip/{problem_id}.
type skipRequest struct {
	Handle   string `json:"handle"`
	Feedback string `json:"feedback"`
}

func (r skipRequest) validate() error {
	if err := validateHandle(r.Handle); err != nil {
		return err
	}
	switch model.SkipFeedback(r.Feedback) {
	case model.FeedbackNone, model.FeedbackTooEasy, model.FeedbackTooHard:
		return nil
	default:
		return errors.New("feedback must be empty, too_easy, or too_hard")
	}
}

// SolveHandler handles solve reports.
type SolveHandler struct {
	deps SolveDependencies
}

// NewSolveHandler creates a new solve handler.
func NewSolveHandler(deps SolveDependencies) *SolveHandler {
	return &SolveHandler{deps: deps}
}

// HandleSolve handles POST /solve/{problem_id} requests.
func (h *SolveHandler) HandleSolve(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	problemID, ok := pathParam(r, "/solve/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req solveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	verdict := model.ParseVerdict(strings.ToUpper(strings.TrimSpace(req.Verdict)))
	taken := time.Duration(req.TimeTakenSeconds) * time.Second

	ack, err := h.deps.RecordSolve(r.Context(), req.Handle, problemID, verdict, taken)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

// SkipHandler handles skip reports.
type SkipHandler struct {
	deps SkipDependencies
}

// NewSkipHandler creates a new skip handler.
func NewSkipHandler(deps SkipDependencies) *SkipHandler {
	return &SkipHandler{deps: deps}
}

// HandleSkip handles POST /skip/{problem_id} requests.
func (h *SkipHandler) HandleSkip(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	problemID, ok := pathParam(r, "/skip/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	var req skipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	ack, err := h.deps.RecordSkip(r.Context(), req.Handle, problemID, model.SkipFeedback(req.Feedback))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}
