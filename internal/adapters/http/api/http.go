// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/okian/cpcoach/internal/adapters/repository"
	"github.com/okian/cpcoach/internal/domain/model"
	"github.com/okian/cpcoach/internal/domain/target"
	"github.com/okian/cpcoach/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Profile(ctx context.Context, handle string) (types.UserProfile, error)
	Recommend(ctx context.Context, handle, topic string, offset int) (types.Recommendation, error)
	RecordSolve(ctx context.Context, handle, problemID string, verdict model.Verdict, taken time.Duration) (types.InteractionAck, error)
	RecordSkip(ctx context.Context, handle, problemID string, feedback model.SkipFeedback) (types.InteractionAck, error)
	Weaknesses(ctx context.Context, handle string, sync, refresh bool) (types.AnalysisReport, error)
	Problems(ctx context.Context, topic string, lo, hi int) ([]model.Problem, error)
	Stats(ctx context.Context) types.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	userHandler      *UserHandler
	recommendHandler *RecommendHandler
	solveHandler     *SolveHandler
	skipHandler      *SkipHandler
	analysisHandler  *AnalysisHandler
	problemsHandler  *ProblemsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		userHandler:      NewUserHandler(deps),
		recommendHandler: NewRecommendHandler(deps),
		solveHandler:     NewSolveHandler(deps),
		skipHandler:      NewSkipHandler(deps),
		analysisHandler:  NewAnalysisHandler(deps),
		problemsHandler:  NewProblemsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/user/", MetricsMiddleware(s.userHandler.HandleGetUser, "user"))
	mux.HandleFunc("/recommend", MetricsMiddleware(s.recommendHandler.HandleRecommend, "recommend"))
	mux.HandleFunc("/solve/", MetricsMiddleware(s.solveHandler.HandleSolve, "solve"))
	mux.HandleFunc("/skip/", MetricsMiddleware(s.skipHandler.HandleSkip, "skip"))
	mux.HandleFunc("/analysis/weaknesses", MetricsMiddleware(s.analysisHandler.HandleWeaknesses, "analysis"))
	mux.HandleFunc("/problems", MetricsMiddleware(s.problemsHandler.HandleProblems, "problems"))
}

var handlePattern = regexp.MustCompile(`^[a-zA-Z0-9_.-]{3,24}$`)

// validateHandle checks a Codeforces handle before it reaches the service.
func validateHandle(handle string) error {
	if !handlePattern.MatchString(handle) {
		return errors.New("handle must be 3-24 characters of letters, digits, '_', '.', or '-'")
	}
	return nil
}

// validateTopic bounds topic length; normalization happens downstream.
func validateTopic(topic string) error {
	if topic == "" {
		return nil
	}
	if n := len(strings.TrimSpace(topic)); n < 2 || n > 50 {
		return errors.New("topic must be 2-50 characters")
	}
	return nil
}

// validateOffset bounds the difficulty offset.
func validateOffset(offset int) error {
	if offset < -target.MaxOffset || offset > target.MaxOffset {
		return errors.New("offset out of range")
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service errors into HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, repository.ErrUserNotFound),
		errors.Is(err, repository.ErrProblemNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case isNotSynced(err):
		writeError(w, http.StatusAccepted, "sync_pending", err)
	case err != nil && strings.Contains(err.Error(), "no recommendable"):
		writeError(w, http.StatusNotFound, "no_candidates", err)
	case isBadInput(err):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}

// isNotSynced and isBadInput match on error text so the handler layer does
// not import the service package.
func isNotSynced(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not synced")
}

func isBadInput(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "invalid") || strings.Contains(msg, "inverted")
}

// pathParam extracts the single path segment after prefix, rejecting empty
// or nested values.
func pathParam(r *http.Request, prefix string) (string, bool) {
	p := strings.TrimPrefix(r.URL.Path, prefix)
	if p == "" || strings.Contains(p, "/") {
		return "", false
	}
	return p, true
}
