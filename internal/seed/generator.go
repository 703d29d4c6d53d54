package seed

import (
	"context"
	"crypto/rand"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/okian/liga/pkg/logger"
)

// Constants for random number generation.
const (
	randomFloatDivisor = 1000000
	profileDivisor     = 4
)

// Constants for per-round point ranges by player profile.
const (
	steadyMin   = 2.0
	steadyRange = 3.0
	burstMin    = 5.0
	burstRange  = 4.0
	quietMin    = 0.0
	quietRange  = 2.0
	wideMin     = 0.0
	wideRange   = 9.0
)

// Player profile cases.
const (
	caseSteady = 0
	caseBurst  = 1
	caseQuiet  = 2
	caseWide   = 3
)

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := rand.Int(rand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// generateSubmissions creates one submission per team per round. The first
// round carries the challenge name so the week gets locked to it, and the
// last round marks roughly half the teams as finished.
func generateSubmissions(ctx context.Context, config *Config, rosters []Roster, stats *Stats) []Submission {
	logger.Get().Info(ctx, "generating submissions",
		logger.Int("teams", len(rosters)),
		logger.Int("rounds", config.Rounds))

	subs := make([]Submission, 0, len(rosters)*config.Rounds)

	for round := 0; round < config.Rounds; round++ {
		for i, roster := range rosters {
			sub := Submission{
				SubmissionID: uuid.New().String(),
				Team:         roster.Name,
				PlayerPoints: make(map[string]float64, len(roster.Players)),
			}

			if round == 0 {
				sub.Challenge = config.Challenge
			}

			for _, player := range roster.Players {
				sub.PlayerPoints[player] = generateRoundPoints()
			}

			// Alternate teams finish on the last round so the speed
			// bonus table has both finished and unfinished rows.
			if round == config.Rounds-1 && i%2 == 0 {
				sub.FinishTime = finishTimestamp(i)
			}

			subs = append(subs, sub)
		}
	}

	stats.SubmissionsGenerated = len(subs)
	logger.Get().Info(ctx, "generated submissions", logger.Int("count", len(subs)))
	return subs
}

// finishTimestamp staggers finish times an hour apart so finishing
// teams land in a deterministic speed order.
func finishTimestamp(offset int) string {
	return time.Now().UTC().Add(-time.Duration(offset) * time.Hour).Format(time.RFC3339)
}

// generateRoundPoints draws a per-round point total from one of a few
// player profiles so the scoreboard gets a varied spread.
func generateRoundPoints() float64 {
	profile, _ := rand.Int(rand.Reader, big.NewInt(profileDivisor))
	switch profile.Int64() {
	case caseSteady:
		return steadyMin + getRandomFloat()*steadyRange
	case caseBurst:
		return burstMin + getRandomFloat()*burstRange
	case caseQuiet:
		return quietMin + getRandomFloat()*quietRange
	case caseWide:
		return wideMin + getRandomFloat()*wideRange
	default:
		return wideMin + getRandomFloat()*wideRange
	}
}
