// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	service "github.com/okian/liga/internal/app"
	"github.com/okian/liga/internal/domain/annual"
	"github.com/okian/liga/internal/domain/week"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitCapture applies one team's submission to the current week.
	SubmitCapture(ctx context.Context, sub service.Submission) (service.Receipt, error)

	// Read operations expose computed competition data.
	Scoreboard(ctx context.Context, offset int) (week.Summary, error)
	Annual(ctx context.Context) ([]annual.Record, []string, error)
	Teams(ctx context.Context) []week.Team
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	captureHandler    *CaptureHandler
	scoreboardHandler *ScoreboardHandler
	annualHandler     *AnnualHandler
	teamsHandler      *TeamsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		captureHandler:    NewCaptureHandler(deps),
		scoreboardHandler: NewScoreboardHandler(deps),
		annualHandler:     NewAnnualHandler(deps),
		teamsHandler:      NewTeamsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/capture", MetricsMiddleware(s.captureHandler.HandlePutCapture, "capture"))
	mux.HandleFunc("/scoreboard", MetricsMiddleware(s.scoreboardHandler.HandleGetScoreboard, "scoreboard"))
	mux.HandleFunc("/annual", MetricsMiddleware(s.annualHandler.HandleGetAnnual, "annual"))
	mux.HandleFunc("/teams", MetricsMiddleware(s.teamsHandler.HandleGetTeams, "teams"))
}

// captureRequest mirrors the wire schema for PUT /capture.
type captureRequest struct {
	SubmissionID string             `json:"submissionId"`
	Team         string             `json:"team"`
	Challenge    string             `json:"challenge"`
	TargetTotal  week.FlexInt       `json:"targetTotal"`
	FinishTime   string             `json:"finishTime"`
	PlayerPoints map[string]float64 `json:"playerPoints"`
	Revision     string             `json:"revision"`
}

func (c captureRequest) validate() error {
	if strings.TrimSpace(c.Team) == "" {
		return ErrBadRequest
	}
	if c.FinishTime != "" {
		if _, err := time.Parse(time.RFC3339, c.FinishTime); err != nil {
			return ErrBadRequest
		}
	}
	return nil
}

type captureResponse struct {
	Status   string `json:"status"`
	Key      string `json:"key"`
	Revision string `json:"revision,omitempty"`
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
