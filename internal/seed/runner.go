package seed

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/liga/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	outputPermission    = 0600
)

// duplicateProbe is how many submissions get re-sent to confirm the
// service drops repeats.
const duplicateProbe = 3

// Run executes the complete seeding flow against a live service.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "starting capture seeding",
		logger.String("baseURL", config.BaseURL),
		logger.Int("rounds", config.Rounds),
		logger.Int("workers", config.Workers),
		logger.String("challenge", config.Challenge),
		logger.String("timeout", config.Timeout.String()))

	if err := checkServiceHealth(ctx, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	rosters, err := fetchRosters(ctx, config)
	if err != nil {
		return fmt.Errorf("roster fetch failed: %w", err)
	}

	subs := generateSubmissions(ctx, config, rosters, stats)

	if err := submitCaptures(ctx, config, subs, stats); err != nil {
		return fmt.Errorf("capture submission failed: %w", err)
	}

	if err := probeDuplicates(ctx, config, subs, stats); err != nil {
		return fmt.Errorf("duplicate probe failed: %w", err)
	}

	board, err := fetchScoreboard(ctx, config)
	if err != nil {
		return fmt.Errorf("scoreboard retrieval failed: %w", err)
	}

	if err := verifyScoreboard(ctx, config, rosters, board, stats); err != nil {
		return fmt.Errorf("scoreboard verification failed: %w", err)
	}

	if err := saveSubmissionsToFile(ctx, config, subs); err != nil {
		logger.Get().Warn(ctx, "failed to save submissions to file", logger.Error(err))
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	displayFinalStats(stats)

	logger.Get().Info(ctx, "seeding completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	client := newHTTPClient(config)

	resp, err := client.get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logger.Get().Error(context.Background(), "failed to close response body", logger.Error(err))
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// probeDuplicates re-sends a few submissions and checks they come back
// as duplicates rather than double-counting points.
func probeDuplicates(ctx context.Context, config *Config, subs []Submission, stats *Stats) error {
	n := duplicateProbe
	if len(subs) < n {
		n = len(subs)
	}
	if n == 0 {
		return nil
	}

	client := newHTTPClient(config)
	url := config.BaseURL + "/capture"

	for i := 0; i < n; i++ {
		result := submitSingleCapture(ctx, client, url, subs[i])
		if result != "duplicate" {
			return fmt.Errorf("resent submission %s was not reported as duplicate (got %q)",
				subs[i].SubmissionID, result)
		}
		stats.SubmissionsDuplicate++
	}

	logger.Get().Info(ctx, "duplicate probe passed", logger.Int("resent", n))
	return nil
}

// verifyScoreboard checks that every roster player shows up on the
// scoreboard and that the challenge lock took hold.
func verifyScoreboard(ctx context.Context, config *Config, rosters []Roster, board *Scoreboard, stats *Stats) error {
	if config.Challenge != "" && board.Meta.Challenge != config.Challenge {
		return fmt.Errorf("scoreboard challenge %q does not match submitted %q",
			board.Meta.Challenge, config.Challenge)
	}

	expected := make(map[string]bool)
	for _, roster := range rosters {
		for _, player := range roster.Players {
			expected[player] = false
		}
	}

	for _, row := range board.Participants {
		if _, ok := expected[row.Name]; ok {
			expected[row.Name] = true
		}
	}

	for player, seen := range expected {
		if !seen {
			return fmt.Errorf("player %q missing from scoreboard", player)
		}
	}

	stats.ParticipantsSeen = len(board.Participants)
	logger.Get().Info(ctx, "scoreboard verification passed",
		logger.String("label", board.Meta.Label),
		logger.Int("participants", stats.ParticipantsSeen))
	return nil
}

// saveSubmissionsToFile writes the generated submissions to a JSON file
// so a run can be replayed or inspected.
func saveSubmissionsToFile(ctx context.Context, config *Config, subs []Submission) error {
	if len(subs) == 0 {
		return fmt.Errorf("no submissions to save")
	}

	filename := config.OutputFile
	if filename == "" {
		timestamp := time.Now().Format("20060102_150405")
		filename = "seed_submissions_" + timestamp + ".json"
	}

	dir := filepath.Dir(filename)
	if dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(subs, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal submissions: %w", err)
	}
	if err := os.WriteFile(filename, data, outputPermission); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	logger.Get().Info(ctx, "submissions saved to file", logger.String("filename", filename))
	return nil
}

// displayFinalStats prints the final run statistics.
func displayFinalStats(stats *Stats) {
	var perSecond float64
	if stats.Duration > 0 {
		perSecond = float64(stats.SubmissionsSent) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("submissionsGenerated", stats.SubmissionsGenerated),
		logger.Int("submissionsSent", stats.SubmissionsSent),
		logger.Int("submissionsSaved", stats.SubmissionsSaved),
		logger.Int("submissionsDuplicate", stats.SubmissionsDuplicate),
		logger.Int("submissionsFailed", stats.SubmissionsFailed),
		logger.Int("participantsSeen", stats.ParticipantsSeen),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("submissionsPerSecond", perSecond))
}
