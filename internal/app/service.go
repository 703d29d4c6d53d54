// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	repository "github.com/okian/liga/internal/adapters/repository"
	"github.com/okian/liga/internal/domain/annual"
	"github.com/okian/liga/internal/domain/dedupe"
	"github.com/okian/liga/internal/domain/roster"
	"github.com/okian/liga/internal/domain/week"
	"github.com/okian/liga/pkg/logger"
	"github.com/okian/liga/pkg/metrics"
)

// Submission is one team's capture payload for the current week.
type Submission struct {
	SubmissionID string
	Team         string
	Challenge    string
	TargetTotal  week.FlexInt
	FinishTime   string
	PlayerPoints map[string]float64
	Revision     repository.Revision
}

// Receipt is what a successful (or duplicate) submission returns.
type Receipt struct {
	Status   string
	Key      string
	Revision repository.Revision
}

// Submission statuses.
const (
	StatusSaved     = "saved"
	StatusDuplicate = "duplicate"
)

// Service implements the API dependencies for the competition system.
type Service struct {
	mu sync.RWMutex

	// Core components
	store   repository.Store
	deduper dedupe.Deduper

	// Configuration
	namespace  string
	schedule   week.Schedule
	teamNames  []string
	playerPool []string
	fixedTeams []week.Team
	storePath  string
	annualPath string
	dedupeSize int

	// Seeded annual baseline, loaded once at start.
	annualBase   []annual.Record
	annualLabels []string

	// State
	started bool

	// Logging and time
	logger logger.Logger
	now    func() time.Time
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets a pre-built capture store.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithStorePath sets the backing file for the capture store.
func WithStorePath(path string) Option {
	return func(s *Service) {
		s.storePath = path
	}
}

// WithNamespace sets the storage key namespace.
func WithNamespace(namespace string) Option {
	return func(s *Service) {
		if namespace != "" {
			s.namespace = namespace
		}
	}
}

// WithSchedule sets the weekly window schedule.
func WithSchedule(schedule week.Schedule) Option {
	return func(s *Service) {
		s.schedule = schedule
	}
}

// WithTeamNames sets the team names used for the weekly roster draw.
func WithTeamNames(names []string) Option {
	return func(s *Service) {
		if len(names) > 0 {
			s.teamNames = names
		}
	}
}

// WithPlayerPool sets the player pool for the weekly roster draw.
func WithPlayerPool(players []string) Option {
	return func(s *Service) {
		s.playerPool = players
	}
}

// WithFixedTeams pins the week's teams instead of drawing them.
func WithFixedTeams(teams []week.Team) Option {
	return func(s *Service) {
		s.fixedTeams = teams
	}
}

// WithAnnualPath sets the file holding the seeded annual ledger baseline.
func WithAnnualPath(path string) Option {
	return func(s *Service) {
		s.annualPath = path
	}
}

// WithDedupeSize sets the size of the submission deduplication cache.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the time source. Tests pin it to fixed moments.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		namespace:  "liga",
		schedule:   week.DefaultSchedule(),
		teamNames:  []string{"team1", "team2", "team3"},
		dedupeSize: 50000,
		now:        time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start initializes the service components.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.logger.Info(ctx, "starting competition service...")

	if s.store == nil {
		store, err := repository.NewFileStore(repository.WithPath(s.storePath))
		if err != nil {
			return fmt.Errorf("opening capture store: %w", err)
		}
		s.store = store
	}
	s.deduper = dedupe.NewInMemoryDeduper(
		dedupe.WithMaxSize(s.dedupeSize),
	)

	if s.annualPath != "" {
		base, labels, err := loadAnnualBaseline(s.annualPath)
		if err != nil {
			return fmt.Errorf("loading annual baseline: %w", err)
		}
		s.annualBase = base
		s.annualLabels = labels
	}

	s.started = true
	s.logger.Info(ctx, "competition service started",
		logger.String("namespace", s.namespace),
		logger.Int("teams", len(s.teamNames)),
		logger.Int("storedWeeks", s.store.Count(ctx)),
	)

	return nil
}

// Stop gracefully shuts down the service.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	s.started = false
	s.logger.Info(context.Background(), "competition service stopped")
}

// Teams returns the roster for the current week. Without pinned teams the
// roster is drawn deterministically from the week key, so every caller in
// the same week sees the same draw.
func (s *Service) Teams(ctx context.Context) []week.Team {
	now := s.now()
	start := s.schedule.CurrentStart(now)
	return s.teamsFor(week.Key(s.namespace, start))
}

func (s *Service) teamsFor(key string) []week.Team {
	if len(s.fixedTeams) > 0 {
		return s.fixedTeams
	}
	return roster.Assign(s.playerPool, s.teamNames, key)
}

// Scoreboard computes the scoreboard for the week offset weeks back from
// the current one. Offset 0 is the running week, 1 the previous, and so
// on. The summary is recomputed from the stored capture on every call.
func (s *Service) Scoreboard(ctx context.Context, offset int) (week.Summary, error) {
	if offset < 0 {
		offset = 0
	}

	now := s.now()
	start := s.schedule.CurrentStart(now).AddDate(0, 0, -7*offset)
	end := s.schedule.End(start)
	key := week.Key(s.namespace, start)
	teams := s.teamsFor(key)

	capture, _, err := s.store.Load(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		capture = week.NewCapture(teams)
	case err != nil:
		return week.Summary{}, fmt.Errorf("loading capture %s: %w", key, err)
	}
	if capture.WeekLabel == "" {
		capture.WeekLabel = s.schedule.Label(start)
	}

	summary := week.BuildScoreboard(teams, capture, start, end)
	metrics.RecordScoreboardBuild()
	recordSanctionMetrics(summary)

	s.logger.Debug(ctx, "scoreboard built",
		logger.String("key", key),
		logger.Int("offset", offset),
		logger.Int("participants", len(summary.Participants)),
	)
	return summary, nil
}

// SubmitCapture applies one team's submission to the current week and
// persists the result. Duplicate submission IDs are acknowledged without
// being applied again. A stale revision fails with
// repository.ErrRevisionConflict and does not burn the submission ID.
func (s *Service) SubmitCapture(ctx context.Context, sub Submission) (Receipt, error) {
	now := s.now()
	start := s.schedule.CurrentStart(now)
	key := week.Key(s.namespace, start)
	teams := s.teamsFor(key)

	if !knownTeam(teams, sub.Team) {
		return Receipt{}, fmt.Errorf("team %q: %w", sub.Team, ErrUnknownTeam)
	}
	if !s.schedule.Active(now, start) {
		return Receipt{}, fmt.Errorf("week %s: %w", key, ErrWindowClosed)
	}

	if sub.SubmissionID != "" && s.deduper.SeenAndRecord(ctx, sub.SubmissionID) {
		metrics.RecordDuplicateSubmission()
		s.logger.Debug(ctx, "duplicate submission skipped",
			logger.String("submissionID", sub.SubmissionID),
			logger.String("team", sub.Team),
		)
		return Receipt{Status: StatusDuplicate, Key: key}, nil
	}

	capture, current, err := s.store.Load(ctx, key)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		capture = week.NewCapture(teams)
		current = ""
	case err != nil:
		s.unrecord(ctx, sub.SubmissionID)
		return Receipt{}, fmt.Errorf("loading capture %s: %w", key, err)
	}

	// Callers that read first pass the revision back; callers that never
	// read keep last-write-wins semantics.
	expected := sub.Revision
	if expected == "" {
		expected = current
	}

	if err := applySubmission(&capture, sub); err != nil {
		s.unrecord(ctx, sub.SubmissionID)
		return Receipt{}, err
	}
	capture.UpdatedAt = now.UTC().Format(time.RFC3339)
	capture.WeekLabel = s.schedule.Label(start)

	revision, err := s.store.Save(ctx, key, capture, expected)
	if err != nil {
		s.unrecord(ctx, sub.SubmissionID)
		return Receipt{}, fmt.Errorf("saving capture %s: %w", key, err)
	}

	s.logger.Info(ctx, "capture saved",
		logger.String("key", key),
		logger.String("team", sub.Team),
		logger.String("revision", string(revision)),
	)
	return Receipt{Status: StatusSaved, Key: key, Revision: revision}, nil
}

// applySubmission folds one submission into the capture, honoring the
// set-once challenge and target locks.
func applySubmission(capture *week.Capture, sub Submission) error {
	if !capture.ChallengeLocked() {
		if strings.TrimSpace(sub.Challenge) == "" {
			return ErrChallengeRequired
		}
		capture.Challenge = strings.TrimSpace(sub.Challenge)
	}
	if !capture.TargetLocked() && sub.TargetTotal.Set {
		capture.TargetTotal = sub.TargetTotal
	}

	tc := capture.ByTeam[sub.Team]
	if strings.TrimSpace(sub.FinishTime) != "" {
		tc.FinishTime = strings.TrimSpace(sub.FinishTime)
	}
	if tc.PlayerPoints == nil {
		tc.PlayerPoints = make(map[string]float64, len(sub.PlayerPoints))
	}
	for player, points := range sub.PlayerPoints {
		tc.PlayerPoints[player] = points
	}
	if capture.ByTeam == nil {
		capture.ByTeam = make(map[string]week.TeamCapture, 1)
	}
	capture.ByTeam[sub.Team] = tc
	return nil
}

// Annual folds every stored week whose window has closed into the annual
// ledger, on top of the seeded baseline, ordered by week start.
func (s *Service) Annual(ctx context.Context) ([]annual.Record, []string, error) {
	now := s.now()

	keys, err := s.store.Keys(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing stored weeks: %w", err)
	}

	starts := make([]time.Time, 0, len(keys))
	for _, key := range keys {
		start, err := week.KeyTime(s.namespace, key, now.Location())
		if err != nil {
			s.logger.Warn(ctx, "skipping unparsable week key", logger.String("key", key))
			continue
		}
		if now.After(s.schedule.End(start)) {
			starts = append(starts, start)
		}
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	records := s.annualBase
	labels := s.annualLabels
	for _, start := range starts {
		key := week.Key(s.namespace, start)
		capture, _, err := s.store.Load(ctx, key)
		if err != nil {
			return nil, nil, fmt.Errorf("loading capture %s: %w", key, err)
		}
		if !capture.HasData() {
			continue
		}
		if capture.WeekLabel == "" {
			capture.WeekLabel = s.schedule.Label(start)
		}
		summary := week.BuildScoreboard(s.teamsFor(key), capture, start, s.schedule.End(start))
		records, labels = annual.Merge(records, labels, summary)
		metrics.RecordAnnualMerge()
	}

	sorted := append([]annual.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Total > sorted[j].Total })
	return sorted, labels, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	now := s.now()
	start := s.schedule.CurrentStart(now)

	stats := map[string]interface{}{
		"started":   s.started,
		"namespace": s.namespace,
		"weekKey":   week.Key(s.namespace, start),
		"weekLabel": s.schedule.Label(start),
		"weekStart": start.UTC().Format(time.RFC3339),
		"weekEnd":   s.schedule.End(start).UTC().Format(time.RFC3339),
		"active":    s.schedule.Active(now, start),
	}

	if s.started {
		storedWeeks := s.store.Count(ctx)
		stats["storedWeeks"] = storedWeeks
		stats["seenSubmissions"] = s.deduper.Size()
		metrics.UpdateStoredWeeks(storedWeeks)
	}

	return stats
}

func (s *Service) unrecord(ctx context.Context, submissionID string) {
	if submissionID != "" {
		s.deduper.Unrecord(ctx, submissionID)
	}
}

func knownTeam(teams []week.Team, name string) bool {
	for _, t := range teams {
		if t.Name == name {
			return true
		}
	}
	return false
}

func recordSanctionMetrics(summary week.Summary) {
	removed, added := 0, 0
	for _, p := range summary.Participants {
		removed += p.Sanction.Removed
		added += p.Sanction.Added
	}
	metrics.RecordSanctionedPoints(removed)
	if removed > added {
		metrics.RecordPointsLost(removed - added)
	}
}

// annualBaseline is the on-disk shape of a seeded ledger.
type annualBaseline struct {
	Labels  []string        `json:"labels"`
	Records []annual.Record `json:"records"`
}

func loadAnnualBaseline(path string) ([]annual.Record, []string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	var base annualBaseline
	if err := json.Unmarshal(data, &base); err != nil {
		return nil, nil, err
	}
	return base.Records, base.Labels, nil
}
