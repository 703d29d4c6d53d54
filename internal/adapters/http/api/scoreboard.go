// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/okian/liga/internal/domain/score"
	"github.com/okian/liga/internal/domain/week"
)

// ScoreboardDependencies defines the interface for scoreboard reads.
type ScoreboardDependencies interface {
	Scoreboard(ctx context.Context, offset int) (week.Summary, error)
}

// ScoreboardHandler handles scoreboard requests.
type ScoreboardHandler struct {
	deps ScoreboardDependencies
}

// NewScoreboardHandler creates a new scoreboard handler.
func NewScoreboardHandler(deps ScoreboardDependencies) *ScoreboardHandler {
	return &ScoreboardHandler{deps: deps}
}

// HandleGetScoreboard handles GET /scoreboard?week=prev requests.
// The week parameter selects how many weeks back to read: empty or
// "current" for the running week, "prev"/"prev2" or a plain number for
// earlier ones.
func (h *ScoreboardHandler) HandleGetScoreboard(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_scoreboard"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	offset, ok := parseWeekOffset(r.URL.Query().Get("week"))
	if !ok {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	summary, err := h.deps.Scoreboard(r.Context(), offset)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, toScoreboardResponse(summary))
}

func parseWeekOffset(value string) (int, bool) {
	switch value {
	case "", "current":
		return 0, true
	case "prev":
		return 1, true
	case "prev2":
		return 2, true
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// scoreboardResponse is the wire shape of a computed week.
type scoreboardResponse struct {
	Meta         scoreboardMeta   `json:"meta"`
	Teams        []teamRow        `json:"teams"`
	Participants []participantRow `json:"participants"`
}

type scoreboardMeta struct {
	Label         string  `json:"label"`
	Challenge     string  `json:"challenge"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	DurationHours float64 `json:"durationHours"`
	OfficialRate  float64 `json:"officialRate"`
	MediaQuantity float64 `json:"mediaQuantity"`
}

type teamRow struct {
	Team         string  `json:"team"`
	Place        int     `json:"place"`
	Finished     bool    `json:"finished"`
	FinishTime   string  `json:"finishTime,omitempty"`
	ElapsedHours float64 `json:"elapsedHours"`
	Points       int     `json:"points"`
}

type participantRow struct {
	Position       int            `json:"position"`
	Name           string         `json:"name"`
	Team           string         `json:"team"`
	Quantity       int            `json:"quantity"`
	Sanction       score.Sanction `json:"sanction"`
	SpeedBonus     int            `json:"speedBonus"`
	TeamPoints     int            `json:"teamPoints"`
	QuantityPoints int            `json:"quantityPoints"`
	SpeedPoints    int            `json:"speedPoints"`
	TotalPoints    int            `json:"totalPoints"`
}

func toScoreboardResponse(s week.Summary) scoreboardResponse {
	out := scoreboardResponse{
		Meta: scoreboardMeta{
			Label:         s.Meta.Label,
			Challenge:     s.Meta.Challenge,
			Start:         s.Meta.Start.UTC().Format(time.RFC3339),
			End:           s.Meta.End.UTC().Format(time.RFC3339),
			DurationHours: s.Meta.DurationHours,
			OfficialRate:  s.Meta.OfficialRate,
			MediaQuantity: s.Meta.MediaQuantity,
		},
		Teams:        make([]teamRow, 0, len(s.Teams)),
		Participants: make([]participantRow, 0, len(s.Participants)),
	}
	for _, t := range s.Teams {
		row := teamRow{
			Team:         t.Team,
			Place:        t.Place,
			Finished:     t.Finished,
			ElapsedHours: t.ElapsedHours,
			Points:       t.Points,
		}
		if t.Finished {
			row.FinishTime = t.Finish.UTC().Format(time.RFC3339)
		}
		out.Teams = append(out.Teams, row)
	}
	for _, p := range s.Participants {
		out.Participants = append(out.Participants, participantRow{
			Position:       p.Position,
			Name:           p.Name,
			Team:           p.Team,
			Quantity:       p.Quantity,
			Sanction:       p.Sanction,
			SpeedBonus:     p.SpeedBonus,
			TeamPoints:     p.TeamPoints,
			QuantityPoints: p.QuantityPoints,
			SpeedPoints:    p.SpeedPoints,
			TotalPoints:    p.TotalPoints,
		})
	}
	return out
}
