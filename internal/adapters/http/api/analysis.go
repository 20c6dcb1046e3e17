// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/cpcoach/internal/domain/types"
)

// AnalysisDependencies defines the interface for weakness analysis.
type AnalysisDependencies interface {
	Weaknesses(ctx context.Context, handle string, sync, refresh bool) (types.AnalysisReport, error)
}

// AnalysisHandler handles weakness analysis requests.
type AnalysisHandler struct {
	deps AnalysisDependencies
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(deps AnalysisDependencies) *AnalysisHandler {
	return &AnalysisHandler{deps: deps}
}

// HandleWeaknesses handles GET /analysis/weaknesses requests.
// Query parameters: handle (required), sync, refresh.
func (h *AnalysisHandler) HandleWeaknesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	q := r.URL.Query()
	handle := q.Get("handle")
	if err := validateHandle(handle); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	sync := q.Get("sync") == "true" || q.Get("sync") == "1"
	refresh := q.Get("refresh") == "true" || q.Get("refresh") == "1"

	report, err := h.deps.Weaknesses(r.Context(), handle, sync, refresh)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
