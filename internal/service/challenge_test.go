package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/challenge-tracker/internal/calendar"
	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/domain"
)

type fixedClock struct {
	now time.Time
}

func (c *fixedClock) Now() time.Time { return c.now }

// memRepo is an in-memory Repository that enforces the same
// one-record-per-(user, day) constraint as the PostgreSQL schema.
type memRepo struct {
	events  map[int]domain.Event
	records map[string]map[int]domain.ActivityRecord
	users   []domain.User
}

func newMemRepo() *memRepo {
	return &memRepo{
		events:  make(map[int]domain.Event),
		records: make(map[string]map[int]domain.ActivityRecord),
	}
}

func (r *memRepo) GetEvent(_ context.Context, day int) (*domain.Event, error) {
	event, ok := r.events[day]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return &event, nil
}

func (r *memRepo) ListEvents(_ context.Context) ([]domain.Event, error) {
	var events []domain.Event
	for _, event := range r.events {
		events = append(events, event)
	}
	return events, nil
}

func (r *memRepo) InsertEvent(_ context.Context, event domain.Event) error {
	r.events[event.Day] = event
	return nil
}

func (r *memRepo) InsertActivityRecord(_ context.Context, record domain.ActivityRecord) error {
	byDay, ok := r.records[record.UserID]
	if !ok {
		byDay = make(map[int]domain.ActivityRecord)
		r.records[record.UserID] = byDay
	}
	if _, exists := byDay[record.Day]; exists {
		return domain.ErrDuplicateEntry
	}
	byDay[record.Day] = record
	return nil
}

func (r *memRepo) ListActivityRecords(_ context.Context, userID string) ([]domain.ActivityRecord, error) {
	var records []domain.ActivityRecord
	byDay := r.records[userID]
	for day := 0; day < 1000; day++ {
		if record, ok := byDay[day]; ok {
			records = append(records, record)
		}
	}
	return records, nil
}

func (r *memRepo) ListUsers(_ context.Context) ([]domain.User, error) {
	return r.users, nil
}

func (r *memRepo) addUser(id, username string) {
	r.users = append(r.users, domain.User{ID: id, Username: username, CreatedAt: time.Now()})
}

func (r *memRepo) recordCount(userID string) int {
	return len(r.records[userID])
}

var challengeStart = time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)

// newTestService builds a service over a 24-day challenge where every day
// has target distance 5, except day 10 whose target is 21.
func newTestService(t *testing.T, now time.Time) (*ChallengeService, *memRepo, *fixedClock) {
	t.Helper()

	repo := newMemRepo()
	for day := 0; day < 24; day++ {
		target := 5
		if day == 10 {
			target = 21
		}
		repo.events[day] = domain.Event{Day: day, TargetDistance: target}
	}

	clock := &fixedClock{now: now}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.ChallengeConfig{StartDate: "2025-12-01", Days: 24}

	cal, err := calendar.New(repo, clock, cfg, logger)
	if err != nil {
		t.Fatalf("calendar.New: %v", err)
	}

	return NewChallengeService(repo, cal, logger), repo, clock
}

func TestLogActivitySameDayScore(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(10*24*time.Hour)) // day 10, target 21

	record, err := svc.LogActivity(context.Background(), "u1", 10, domain.ActivityRun, 21)
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	// 10 * (21/1) / 21 = exactly the cap.
	if record.Score != 10 {
		t.Errorf("score = %v, want 10", record.Score)
	}
}

func TestLogActivityBackfillHalvesScore(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(10*24*time.Hour))

	// Day 5 has target 5; 5 km RUN would be a full 10 on the day itself.
	record, err := svc.LogActivity(context.Background(), "u1", 5, domain.ActivityRun, 5)
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if record.Score != 5 {
		t.Errorf("backfilled score = %v, want 5", record.Score)
	}
}

func TestLogActivityDuplicateEntry(t *testing.T) {
	svc, repo, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))
	ctx := context.Background()

	if _, err := svc.LogActivity(ctx, "u1", 3, domain.ActivityWalk, 2); err != nil {
		t.Fatalf("first LogActivity: %v", err)
	}
	_, err := svc.LogActivity(ctx, "u1", 3, domain.ActivityBike, 9)
	if !errors.Is(err, domain.ErrDuplicateEntry) {
		t.Fatalf("second LogActivity error = %v, want ErrDuplicateEntry", err)
	}
	if got := repo.recordCount("u1"); got != 1 {
		t.Errorf("repository holds %d records, want exactly 1", got)
	}
}

func TestLogActivityFutureDayRejected(t *testing.T) {
	svc, repo, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))

	_, err := svc.LogActivity(context.Background(), "u1", 4, domain.ActivityRun, 5)
	if !errors.Is(err, domain.ErrFutureDay) {
		t.Fatalf("LogActivity error = %v, want ErrFutureDay", err)
	}
	if got := repo.recordCount("u1"); got != 0 {
		t.Errorf("repository holds %d records, want none", got)
	}
}

func TestLogActivityInvalidDay(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))
	ctx := context.Background()

	for _, day := range []int{-1, 24, 99} {
		if _, err := svc.LogActivity(ctx, "u1", day, domain.ActivityRun, 5); !errors.Is(err, domain.ErrInvalidDay) {
			t.Errorf("LogActivity(day=%d) error = %v, want ErrInvalidDay", day, err)
		}
	}
}

func TestLogActivityBeforeChallengeStart(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(-time.Hour))

	_, err := svc.LogActivity(context.Background(), "u1", 0, domain.ActivityRun, 5)
	if !errors.Is(err, domain.ErrChallengeNotStarted) {
		t.Errorf("LogActivity error = %v, want ErrChallengeNotStarted", err)
	}
}

func TestLogActivityUnknownActivity(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))

	_, err := svc.LogActivity(context.Background(), "u1", 3, domain.Activity("SWIM"), 5)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Errorf("LogActivity error = %v, want ErrInvalidRequest", err)
	}
}

func TestLogActivityClampsNegativeDistance(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))

	record, err := svc.LogActivity(context.Background(), "u1", 3, domain.ActivityRun, -7)
	if err != nil {
		t.Fatalf("LogActivity: %v", err)
	}
	if record.Distance != 0 || record.Score != 0 {
		t.Errorf("record = {distance: %v, score: %v}, want zeros", record.Distance, record.Score)
	}
}

func TestAvailableActivitiesForDay(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart.Add(3*24*time.Hour))

	targets, err := svc.AvailableActivitiesForDay(context.Background(), 3) // base target 5
	if err != nil {
		t.Fatalf("AvailableActivitiesForDay: %v", err)
	}

	want := map[domain.Activity]float64{
		domain.ActivityBike: 15,
		domain.ActivityRun:  5,
		domain.ActivityWalk: 5,
		domain.ActivitySki:  10,
	}
	if len(targets) != len(want) {
		t.Fatalf("got %d targets, want %d", len(targets), len(want))
	}
	for _, target := range targets {
		if target.Value != want[target.Activity] {
			t.Errorf("target for %s = %v, want %v", target.Activity, target.Value, want[target.Activity])
		}
	}
}

func TestEvaluateAchievementsHalfMarathon(t *testing.T) {
	svc, _, clock := newTestService(t, challengeStart)
	ctx := context.Background()

	// Run 7 km on each of days 8 and 9, then 7 more on day 10: cumulative
	// RUN distance hits 21 km.
	for _, day := range []int{8, 9, 10} {
		clock.now = challengeStart.Add(time.Duration(day) * 24 * time.Hour)
		if _, err := svc.LogActivity(ctx, "u1", day, domain.ActivityRun, 7); err != nil {
			t.Fatalf("LogActivity(day=%d): %v", day, err)
		}
	}

	summary, err := svc.EvaluateAchievements(ctx, "u1")
	if err != nil {
		t.Fatalf("EvaluateAchievements: %v", err)
	}

	var found bool
	for _, status := range summary.Achievements {
		if status.Title == "Half marathon" {
			found = true
			if !status.Unlocked {
				t.Error("Half marathon should unlock at 21 km cumulative running")
			}
		}
	}
	if !found {
		t.Fatal("Half marathon missing from summary")
	}
}

func TestBuildLeaderboardNoCrossUserLeakage(t *testing.T) {
	svc, repo, clock := newTestService(t, challengeStart)
	ctx := context.Background()

	repo.addUser("u1", "alice")
	repo.addUser("u2", "bob")

	clock.now = challengeStart.Add(2 * 24 * time.Hour)
	if _, err := svc.LogActivity(ctx, "u1", 2, domain.ActivityBike, 30); err != nil {
		t.Fatalf("LogActivity u1: %v", err)
	}
	clock.now = challengeStart.Add(3 * 24 * time.Hour)
	if _, err := svc.LogActivity(ctx, "u2", 3, domain.ActivitySki, 12); err != nil {
		t.Fatalf("LogActivity u2: %v", err)
	}

	board, err := svc.BuildLeaderboard(ctx)
	if err != nil {
		t.Fatalf("BuildLeaderboard: %v", err)
	}

	if board.TotalEntries != 2 {
		t.Fatalf("TotalEntries = %d, want 2", board.TotalEntries)
	}
	if board.StartOfRange != 0 {
		t.Errorf("StartOfRange = %d, want 0", board.StartOfRange)
	}

	alice := board.Details[0]
	bob := board.Details[1]
	if alice.Username != "alice" || bob.Username != "bob" {
		t.Fatalf("entries out of repository order: %q, %q", alice.Username, bob.Username)
	}

	if alice.BikeDistance != 30 || alice.SkiDistance != 0 {
		t.Errorf("alice distances = {bike: %v, ski: %v}, want {30, 0}", alice.BikeDistance, alice.SkiDistance)
	}
	if bob.SkiDistance != 12 || bob.BikeDistance != 0 {
		t.Errorf("bob distances = {ski: %v, bike: %v}, want {12, 0}", bob.SkiDistance, bob.BikeDistance)
	}

	// 30 km bike vs target 5: 10*(30/3)/5 = 20, capped at 10.
	if alice.TotalScore != 10 {
		t.Errorf("alice TotalScore = %v, want 10", alice.TotalScore)
	}
	// 12 km ski vs target 5: 10*(12/2)/5 = 12, capped at 10.
	if bob.TotalScore != 10 {
		t.Errorf("bob TotalScore = %v, want 10", bob.TotalScore)
	}

	// One bike activity: Game on (bronze) + I want to ride my bicycle (bronze).
	if alice.Achievements.Bronze != 2 {
		t.Errorf("alice bronze count = %d, want 2", alice.Achievements.Bronze)
	}
	if bob.Achievements.Bronze != 2 { // Game on + Let it snow
		t.Errorf("bob bronze count = %d, want 2", bob.Achievements.Bronze)
	}
}

func TestBuildLeaderboardEmpty(t *testing.T) {
	svc, _, _ := newTestService(t, challengeStart)

	board, err := svc.BuildLeaderboard(context.Background())
	if err != nil {
		t.Fatalf("BuildLeaderboard: %v", err)
	}
	if board.TotalEntries != 0 || len(board.Details) != 0 {
		t.Errorf("board = %+v, want empty", board)
	}
}
