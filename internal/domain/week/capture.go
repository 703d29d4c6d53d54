// Package week models one week of the competition: the captured raw
// submissions, the week window schedule, and the scoreboard aggregation.
package week

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/okian/liga/internal/domain/score"
)

// Team is a week's fixed grouping of players. Player order matters only as
// the default bookkeeping order during sanction redistribution.
type Team struct {
	Name    string   `json:"team"`
	Players []string `json:"players"`
}

// TeamCapture is one team's sub-object of the week capture: when the team
// finished (RFC3339, empty while unfinished) and each player's raw points.
type TeamCapture struct {
	FinishTime   string             `json:"finishTime"`
	PlayerPoints map[string]float64 `json:"playerPoints"`
}

// Capture is the mutable record of one week's raw submissions. Challenge
// and TargetTotal are set-once: the first team to write a non-empty value
// locks it for the week.
type Capture struct {
	Challenge   string                 `json:"challenge"`
	TargetTotal FlexInt                `json:"targetTotal"`
	UpdatedAt   string                 `json:"updatedAt"`
	WeekLabel   string                 `json:"weekLabel,omitempty"`
	ByTeam      map[string]TeamCapture `json:"byTeam"`
}

// FlexInt is the wire form of targetTotal: a number, or the empty string
// while unset. Unparsable input fails closed to unset.
type FlexInt struct {
	Set   bool
	Value float64
}

// MarshalJSON writes the stored number, or "" while unset.
func (f FlexInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte(`""`), nil
	}
	return json.Marshal(f.Value)
}

// UnmarshalJSON accepts a JSON number, a numeric string, or the empty
// string. Anything else leaves the value unset rather than failing.
func (f *FlexInt) UnmarshalJSON(data []byte) error {
	*f = FlexInt{}
	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Set = true
		f.Value = n
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil {
		f.Set = true
		f.Value = n
	}
	return nil
}

// NewCapture returns an empty capture with a zeroed sub-object per team.
func NewCapture(teams []Team) Capture {
	byTeam := make(map[string]TeamCapture, len(teams))
	for _, t := range teams {
		points := make(map[string]float64, len(t.Players))
		for _, p := range t.Players {
			points[p] = 0
		}
		byTeam[t.Name] = TeamCapture{PlayerPoints: points}
	}
	return Capture{ByTeam: byTeam}
}

// Normalize returns a fresh capture with every team sub-object and player
// entry present. Missing pieces are backfilled with zeros; nothing in the
// input is mutated.
func Normalize(c Capture, teams []Team) Capture {
	out := Capture{
		Challenge:   c.Challenge,
		TargetTotal: c.TargetTotal,
		UpdatedAt:   c.UpdatedAt,
		WeekLabel:   c.WeekLabel,
		ByTeam:      make(map[string]TeamCapture, len(teams)),
	}
	for _, t := range teams {
		src := c.ByTeam[t.Name]
		points := make(map[string]float64, len(t.Players))
		for _, p := range t.Players {
			points[p] = src.PlayerPoints[p]
		}
		out.ByTeam[t.Name] = TeamCapture{FinishTime: src.FinishTime, PlayerPoints: points}
	}
	return out
}

// Clone returns a deep copy sharing no maps with the receiver.
func (c Capture) Clone() Capture {
	out := c
	out.ByTeam = make(map[string]TeamCapture, len(c.ByTeam))
	for name, team := range c.ByTeam {
		points := make(map[string]float64, len(team.PlayerPoints))
		for p, v := range team.PlayerPoints {
			points[p] = v
		}
		out.ByTeam[name] = TeamCapture{FinishTime: team.FinishTime, PlayerPoints: points}
	}
	return out
}

// HasData reports whether anything meaningful was submitted yet: a
// challenge, a positive target, a finish time, or any positive points.
func (c Capture) HasData() bool {
	if strings.TrimSpace(c.Challenge) != "" {
		return true
	}
	if c.Objective() > 0 {
		return true
	}
	for _, team := range c.ByTeam {
		if team.FinishTime != "" {
			return true
		}
		for _, v := range team.PlayerPoints {
			if score.SanitizeNonNegativeInt(v) > 0 {
				return true
			}
		}
	}
	return false
}

// Objective resolves the sanctioned objective for the week: the sanitized
// target total, or 0 while unset.
func (c Capture) Objective() int {
	if !c.TargetTotal.Set {
		return 0
	}
	return score.SanitizeNonNegativeInt(c.TargetTotal.Value)
}

// ChallengeLocked reports whether a first writer already fixed the
// challenge text.
func (c Capture) ChallengeLocked() bool {
	return strings.TrimSpace(c.Challenge) != ""
}

// TargetLocked reports whether a first writer already fixed the objective.
func (c Capture) TargetLocked() bool {
	return c.Objective() > 0
}
