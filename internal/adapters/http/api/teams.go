// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/liga/internal/domain/week"
)

// TeamsDependencies defines the interface for roster reads.
type TeamsDependencies interface {
	Teams(ctx context.Context) []week.Team
}

// TeamsHandler handles roster requests.
type TeamsHandler struct {
	deps TeamsDependencies
}

// NewTeamsHandler creates a new teams handler.
func NewTeamsHandler(deps TeamsDependencies) *TeamsHandler {
	return &TeamsHandler{deps: deps}
}

// HandleGetTeams handles GET /teams requests.
func (h *TeamsHandler) HandleGetTeams(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	teams := h.deps.Teams(r.Context())
	if teams == nil {
		teams = []week.Team{}
	}
	writeJSON(w, http.StatusOK, teams)
}
