// Package roster deals the player pool into the week's teams. The draw is
// seeded by the week key, so the same week always produces the same teams;
// randomness never reaches the scoring engine.
package roster

import (
	"hash/fnv"
	"math/rand"
	"sort"

	"github.com/okian/liga/internal/domain/rank"
	"github.com/okian/liga/internal/domain/week"
)

// Assign shuffles pool with a PRNG seeded from seed and deals the players
// round-robin across teamNames. Each team's players come back in
// alphabetical order.
func Assign(pool, teamNames []string, seed string) []week.Team {
	teams := make([]week.Team, len(teamNames))
	for i, name := range teamNames {
		teams[i] = week.Team{Name: name}
	}
	if len(teams) == 0 {
		return teams
	}

	shuffled := append([]string(nil), pool...)
	rng := rand.New(rand.NewSource(seedFrom(seed))) //nolint:gosec // deterministic draw, not security
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	for i, player := range shuffled {
		t := &teams[i%len(teams)]
		t.Players = append(t.Players, player)
	}
	for i := range teams {
		players := teams[i].Players
		sort.SliceStable(players, func(a, b int) bool { return rank.LessNames(players[a], players[b]) })
	}
	return teams
}

func seedFrom(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}
