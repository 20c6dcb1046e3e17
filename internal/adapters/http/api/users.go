// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/cpcoach/internal/domain/types"
)

// UserDependencies defines the interface for user profile operations.
type UserDependencies interface {
	Profile(ctx context.Context, handle string) (types.UserProfile, error)
}

// UserHandler handles user profile requests.
type UserHandler struct {
	deps UserDependencies
}

// NewUserHandler creates a new user handler.
func NewUserHandler(deps UserDependencies) *UserHandler {
	return &UserHandler{deps: deps}
}

// HandleGetUser handles GET /user/{handle} requests. First contact with an
// unknown handle registers it and schedules a history sync.
func (h *UserHandler) HandleGetUser(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	handle, ok := pathParam(r, "/user/")
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	if err := validateHandle(handle); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}

	profile, err := h.deps.Profile(r.Context(), handle)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
