// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"

	"github.com/okian/liga/internal/domain/annual"
)

// AnnualDependencies defines the interface for annual ledger reads.
type AnnualDependencies interface {
	Annual(ctx context.Context) ([]annual.Record, []string, error)
}

// AnnualHandler handles annual ledger requests.
type AnnualHandler struct {
	deps AnnualDependencies
}

// NewAnnualHandler creates a new annual handler.
func NewAnnualHandler(deps AnnualDependencies) *AnnualHandler {
	return &AnnualHandler{deps: deps}
}

type annualResponse struct {
	Labels  []string        `json:"labels"`
	Records []annual.Record `json:"records"`
}

// HandleGetAnnual handles GET /annual requests.
func (h *AnnualHandler) HandleGetAnnual(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_annual"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	records, labels, err := h.deps.Annual(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	if labels == nil {
		labels = []string{}
	}
	if records == nil {
		records = []annual.Record{}
	}
	writeJSON(w, http.StatusOK, annualResponse{Labels: labels, Records: records})
}
