package week

import (
	"sort"
	"strings"
	"time"

	"github.com/okian/liga/internal/domain/rank"
	"github.com/okian/liga/internal/domain/score"
)

// Meta carries the week-level summary statistics.
type Meta struct {
	Label         string
	Challenge     string
	Start         time.Time
	End           time.Time
	DurationHours float64
	OfficialRate  float64
	MediaQuantity float64
}

// TeamResult is one team's final standing for the week.
type TeamResult struct {
	Team         string
	Place        int
	Finished     bool
	Finish       time.Time
	ElapsedHours float64
	Points       int
}

// Participant is one player's fully scored week.
type Participant struct {
	Position       int
	Name           string
	Team           string
	Quantity       int
	Sanction       score.Sanction
	SpeedBonus     int
	TeamPoints     int
	QuantityPoints int
	SpeedPoints    int
	TotalPoints    int
}

// Summary is the week's computed scoreboard: a pure view over the capture,
// recomputed on every read and never stored.
type Summary struct {
	Meta         Meta
	Teams        []TeamResult
	Participants []Participant
}

// teamStanding is the intermediate used while ordering teams.
type teamStanding struct {
	team     string
	total    int
	finished bool
	finish   time.Time
}

// teamOrderKey is the dense-rank equality key for team placement: teams tie
// only when their finish status, finish time, and corrected total all match.
type teamOrderKey struct {
	finished bool
	finish   int64
	total    int
}

// BuildScoreboard scores the whole week from its capture. It runs the
// sanction engine per team, ranks every dimension, and assembles the
// summary. Pure: fixed inputs always produce the identical summary.
func BuildScoreboard(teams []Team, capture Capture, start, end time.Time) Summary {
	capture = Normalize(capture, teams)
	objective := capture.Objective()
	rawObjective := 0.0
	if capture.TargetTotal.Set {
		rawObjective = capture.TargetTotal.Value
	}

	corrected := make(map[string]score.Result, len(teams))
	for _, t := range teams {
		corrected[t.Name] = score.Apply(t.Players, capture.ByTeam[t.Name].PlayerPoints, rawObjective)
	}

	participants := make([]Participant, 0)
	for _, t := range teams {
		res := corrected[t.Name]
		for _, name := range t.Players {
			participants = append(participants, Participant{
				Name:     name,
				Team:     t.Name,
				Quantity: res.Points[name],
				Sanction: res.Sanctions[name],
			})
		}
	}

	durationHours := end.Sub(start).Hours()
	if durationHours < 1 {
		durationHours = 1
	}
	officialRate := 0.0
	if objective > 0 {
		officialRate = float64(objective) / durationHours
	}
	mediaQuantity := 0.0
	if len(participants) > 0 {
		mediaQuantity = float64(objective) / float64(len(participants))
	}

	standings := make([]teamStanding, 0, len(teams))
	for _, t := range teams {
		res := corrected[t.Name]
		total := 0
		for _, name := range t.Players {
			total += res.Points[name]
		}
		finish, finished := parseFinish(capture.ByTeam[t.Name].FinishTime)
		standings = append(standings, teamStanding{team: t.Name, total: total, finished: finished, finish: finish})
	}

	// Finished teams first, earlier finish wins, then corrected totals
	// descending, then team name.
	sort.SliceStable(standings, func(i, j int) bool {
		a, b := standings[i], standings[j]
		if a.finished != b.finished {
			return a.finished
		}
		if a.finished && b.finished && !a.finish.Equal(b.finish) {
			return a.finish.Before(b.finish)
		}
		if a.total != b.total {
			return a.total > b.total
		}
		return rank.LessNames(a.team, b.team)
	})
	rankedTeams := rank.Dense(standings, func(s teamStanding) teamOrderKey {
		k := teamOrderKey{finished: s.finished, total: s.total}
		if s.finished {
			k.finish = s.finish.UnixNano()
		}
		return k
	})

	teamPoints := make(map[string]int, len(standings))
	teamResults := make([]TeamResult, 0, len(rankedTeams))
	for _, r := range rankedTeams {
		pts := rank.TeamPlacement.Points(r.Rank)
		teamPoints[r.Item.team] = pts
		tr := TeamResult{
			Team:     r.Item.team,
			Place:    r.Rank,
			Finished: r.Item.finished,
			Points:   pts,
		}
		if r.Item.finished {
			tr.Finish = r.Item.finish
			tr.ElapsedHours = r.Item.finish.Sub(start).Hours()
		}
		teamResults = append(teamResults, tr)
	}

	// Finish-order rank only counts teams that actually finished.
	finished := make([]teamStanding, 0, len(standings))
	for _, s := range standings {
		if s.finished {
			finished = append(finished, s)
		}
	}
	sort.SliceStable(finished, func(i, j int) bool { return finished[i].finish.Before(finished[j].finish) })
	speedBonus := make(map[string]int, len(finished))
	for i, s := range finished {
		speedBonus[s.team] = rank.SpeedBonus.Points(i + 1)
	}
	for i := range participants {
		participants[i].SpeedBonus = speedBonus[participants[i].Team]
	}

	// Quantity rank: corrected quantity descending, name ascending.
	byQuantity := make([]Participant, len(participants))
	copy(byQuantity, participants)
	sort.SliceStable(byQuantity, func(i, j int) bool {
		if byQuantity[i].Quantity != byQuantity[j].Quantity {
			return byQuantity[i].Quantity > byQuantity[j].Quantity
		}
		return rank.LessNames(byQuantity[i].Name, byQuantity[j].Name)
	})
	quantityRank := make(map[string]int, len(byQuantity))
	for _, r := range rank.Dense(byQuantity, func(p Participant) int { return p.Quantity }) {
		quantityRank[r.Item.Name] = r.Rank
	}

	// Speed rank: speed bonus descending.
	bySpeed := make([]Participant, len(participants))
	copy(bySpeed, participants)
	sort.SliceStable(bySpeed, func(i, j int) bool { return bySpeed[i].SpeedBonus > bySpeed[j].SpeedBonus })
	speedRank := make(map[string]int, len(bySpeed))
	for _, r := range rank.Dense(bySpeed, func(p Participant) int { return p.SpeedBonus }) {
		speedRank[r.Item.Name] = r.Rank
	}

	for i := range participants {
		p := &participants[i]
		p.TeamPoints = teamPoints[p.Team]
		p.QuantityPoints = rank.QuantityPoints(quantityRank[p.Name], p.Quantity, mediaQuantity)
		p.SpeedPoints = rank.SpeedPoints(speedRank[p.Name], p.SpeedBonus)
		p.TotalPoints = p.TeamPoints + p.QuantityPoints + p.SpeedPoints
	}

	// Final display ordering is a fresh dense rank over total points; it does
	// not reuse the per-dimension ranks above.
	sort.SliceStable(participants, func(i, j int) bool {
		a, b := participants[i], participants[j]
		if a.TotalPoints != b.TotalPoints {
			return a.TotalPoints > b.TotalPoints
		}
		if a.Quantity != b.Quantity {
			return a.Quantity > b.Quantity
		}
		return rank.LessNames(a.Name, b.Name)
	})
	for i, r := range rank.Dense(participants, func(p Participant) int { return p.TotalPoints }) {
		participants[i].Position = r.Rank
	}

	return Summary{
		Meta: Meta{
			Label:         capture.WeekLabel,
			Challenge:     strings.TrimSpace(capture.Challenge),
			Start:         start,
			End:           end,
			DurationHours: durationHours,
			OfficialRate:  officialRate,
			MediaQuantity: mediaQuantity,
		},
		Teams:        teamResults,
		Participants: participants,
	}
}

// parseFinish reads a submitted finish timestamp. Anything that is not
// RFC3339 counts as "not finished yet" rather than an error.
func parseFinish(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
