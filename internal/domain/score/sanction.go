package score

import (
	"fmt"
	"sort"

	"github.com/okian/liga/internal/domain/rank"
)

// Sanction is the audit trail of one player's correction.
type Sanction struct {
	Removed  int      `json:"removed"`
	Added    int      `json:"added"`
	Messages []string `json:"messages,omitempty"`
}

// Result holds a team's corrected points next to the per-player audit trail.
// Both maps are freshly allocated on every call and safe for the caller to own.
type Result struct {
	Points    map[string]int
	Sanctions map[string]Sanction
}

// Apply corrects one team's raw points against the shared objective.
//
// Rules, in order, short-circuiting:
//  1. No objective or a roster smaller than two players: sanitized raw
//     points pass through untouched.
//  2. Solo scorer: when exactly one player has positive points and covers
//     the whole objective alone, that player is disqualified and the
//     objective is split evenly among the teammates. An indivisible
//     remainder is lost and logged, never redistributed.
//  3. Half-objective cap: every player whose original points exceed
//     floor(objective/2) is clamped to the cap and the excess flows to the
//     lowest-scoring teammates one point at a time. Offenders are processed
//     in roster order, so later offenders see earlier redistributions.
//
// Conservation: after rule 3, total team points equal the pre-correction
// total minus exactly the remainders logged as lost.
func Apply(roster []string, raw map[string]float64, objective float64) Result {
	target := SanitizeNonNegativeInt(objective)
	points := make(map[string]int, len(roster))
	sanctions := make(map[string]Sanction, len(roster))
	for _, name := range roster {
		points[name] = SanitizeNonNegativeInt(raw[name])
		sanctions[name] = Sanction{}
	}
	if target <= 0 || len(roster) < 2 {
		return Result{Points: points, Sanctions: sanctions}
	}

	if done := applySoloRule(roster, points, sanctions, target); done {
		return Result{Points: points, Sanctions: sanctions}
	}
	applyHalfCapRule(roster, points, sanctions, target)
	return Result{Points: points, Sanctions: sanctions}
}

// applySoloRule zeroes a player who completed the objective alone and splits
// the objective among the teammates. Returns true when the rule fired, which
// short-circuits the half-cap rule.
func applySoloRule(roster []string, points map[string]int, sanctions map[string]Sanction, target int) bool {
	var scorers []string
	for _, name := range roster {
		if points[name] > 0 {
			scorers = append(scorers, name)
		}
	}
	if len(scorers) != 1 || points[scorers[0]] < target {
		return false
	}

	solo := scorers[0]
	teammates := everyoneBut(roster, solo)
	split := target / len(teammates)
	leftover := target % len(teammates)

	removed := points[solo]
	points[solo] = 0
	s := sanctions[solo]
	s.Removed += removed
	s.Messages = append(s.Messages, fmt.Sprintf("Descalificado por completar solo el desafio: -%d puntos.", removed))
	sanctions[solo] = s

	for _, name := range teammates {
		points[name] = split
		t := sanctions[name]
		t.Added += split
		t.Messages = append(t.Messages, fmt.Sprintf("Beneficiado por sancion de %s: +%d puntos.", solo, split))
		sanctions[name] = t
	}
	if leftover > 0 {
		s := sanctions[solo]
		s.Messages = append(s.Messages, fmt.Sprintf("Se perdieron %d puntos por no ser divisible entre %d.", leftover, len(teammates)))
		sanctions[solo] = s
	}
	return true
}

// applyHalfCapRule clamps every offender to half the objective and hands the
// excess to the teammates furthest below the cap. Offenders are collected from
// the points as they stood before this rule, then processed in roster order.
func applyHalfCapRule(roster []string, points map[string]int, sanctions map[string]Sanction, target int) {
	maxPerPlayer := target / 2

	type offender struct {
		name     string
		original int
	}
	var offenders []offender
	for _, name := range roster {
		if points[name] > maxPerPlayer {
			offenders = append(offenders, offender{name: name, original: points[name]})
		}
	}

	for _, off := range offenders {
		excess := off.original - maxPerPlayer
		points[off.name] = maxPerPlayer
		s := sanctions[off.name]
		s.Removed += excess
		s.Messages = append(s.Messages, fmt.Sprintf("Supero la mitad del objetivo (%d): -%d puntos.", maxPerPlayer, excess))
		sanctions[off.name] = s

		teammates := everyoneBut(roster, off.name)
		given, remaining := distribute(excess, teammates, points, maxPerPlayer)
		for _, name := range teammates {
			amount := given[name]
			if amount == 0 {
				continue
			}
			t := sanctions[name]
			t.Added += amount
			t.Messages = append(t.Messages, fmt.Sprintf("Beneficiado por exceso de %s: +%d puntos.", off.name, amount))
			sanctions[name] = t
		}
		if remaining > 0 {
			s := sanctions[off.name]
			s.Messages = append(s.Messages, fmt.Sprintf("No se pudieron reasignar %d puntos por limite de mitad.", remaining))
			sanctions[off.name] = s
		}
	}
}

// distribute hands excess points to teammates one point per round. Each round
// goes to every eligible teammate sitting at the minimum current score,
// alphabetically. Teammates at the cap are not eligible; whatever cannot be
// placed comes back as the remainder.
func distribute(excess int, teammates []string, points map[string]int, maxPerPlayer int) (map[string]int, int) {
	remaining := excess
	given := make(map[string]int)
	for remaining > 0 {
		var eligible []string
		for _, name := range teammates {
			if points[name] < maxPerPlayer {
				eligible = append(eligible, name)
			}
		}
		if len(eligible) == 0 {
			break
		}
		minValue := points[eligible[0]]
		for _, name := range eligible[1:] {
			if points[name] < minValue {
				minValue = points[name]
			}
		}
		var group []string
		for _, name := range eligible {
			if points[name] == minValue {
				group = append(group, name)
			}
		}
		sort.SliceStable(group, func(i, j int) bool { return rank.LessNames(group[i], group[j]) })

		canGive := remaining
		if len(group) < canGive {
			canGive = len(group)
		}
		for i := 0; i < canGive; i++ {
			points[group[i]]++
			given[group[i]]++
		}
		remaining -= canGive
	}
	return given, remaining
}

func everyoneBut(roster []string, excluded string) []string {
	out := make([]string, 0, len(roster)-1)
	for _, name := range roster {
		if name != excluded {
			out = append(out, name)
		}
	}
	return out
}
