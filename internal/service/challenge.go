package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/challenge-tracker/internal/achievement"
	"github.com/challenge-tracker/internal/calendar"
	"github.com/challenge-tracker/internal/domain"
	"github.com/challenge-tracker/internal/scoring"
)

// Repository is the persistence surface the challenge core depends on.
type Repository interface {
	GetEvent(ctx context.Context, day int) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	InsertEvent(ctx context.Context, event domain.Event) error
	InsertActivityRecord(ctx context.Context, record domain.ActivityRecord) error
	ListActivityRecords(ctx context.Context, userID string) ([]domain.ActivityRecord, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
}

// ChallengeService provides business logic for logging activities,
// evaluating achievements and building the leaderboard.
type ChallengeService struct {
	repo   Repository
	cal    *calendar.Calendar
	logger *slog.Logger
}

// NewChallengeService creates a new challenge service
func NewChallengeService(repo Repository, cal *calendar.Calendar, logger *slog.Logger) *ChallengeService {
	return &ChallengeService{
		repo:   repo,
		cal:    cal,
		logger: logger,
	}
}

// CurrentDay returns today's day index, clamped to the challenge range.
func (s *ChallengeService) CurrentDay() int {
	return s.cal.CurrentDay()
}

// LastDay returns the final day index of the challenge.
func (s *ChallengeService) LastDay() int {
	return s.cal.LastDay()
}

// LogActivity scores and persists one activity for a user. Exactly one
// activity may be logged per user per day; an entry for a past day earns
// half the score.
func (s *ChallengeService) LogActivity(ctx context.Context, userID string, day int, activity domain.Activity, rawDistance float64) (*domain.ActivityRecord, error) {
	if day < 0 || day > s.cal.LastDay() {
		return nil, domain.ErrInvalidDay
	}
	if !s.cal.HasStarted() {
		return nil, domain.ErrChallengeNotStarted
	}
	if day > s.cal.CurrentDay() {
		return nil, domain.ErrFutureDay
	}
	if !activity.Valid() {
		return nil, domain.ErrInvalidRequest
	}

	distance := rawDistance
	if distance < 0 {
		distance = 0
	}

	event, err := s.cal.TargetForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	score := scoring.Score(activity, distance, event.TargetDistance)
	if day != s.cal.CurrentDay() {
		score = scoring.Backfill(score)
	}

	record := domain.ActivityRecord{
		UserID:   userID,
		Day:      day,
		Activity: activity,
		Distance: distance,
		Score:    score,
	}

	if err := s.repo.InsertActivityRecord(ctx, record); err != nil {
		if errors.Is(err, domain.ErrDuplicateEntry) {
			return nil, domain.ErrDuplicateEntry
		}
		return nil, fmt.Errorf("persisting activity record: %w", err)
	}

	s.logger.Info("activity logged",
		"user_id", userID,
		"day", day,
		"activity", activity,
		"distance", distance,
		"score", score,
	)

	return &record, nil
}

// AvailableActivitiesForDay returns the per-activity scaled targets for a
// day: the base target multiplied by each activity's effort multiplier.
func (s *ChallengeService) AvailableActivitiesForDay(ctx context.Context, day int) ([]domain.ActivityTarget, error) {
	event, err := s.cal.TargetForDay(ctx, day)
	if err != nil {
		return nil, err
	}

	targets := make([]domain.ActivityTarget, 0, len(domain.Activities))
	for _, activity := range domain.Activities {
		targets = append(targets, domain.ActivityTarget{
			Activity: activity,
			Value:    float64(event.TargetDistance) * scoring.Multiplier(activity),
		})
	}
	return targets, nil
}

// LoggedActivities returns a user's records in ascending day order.
func (s *ChallengeService) LoggedActivities(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	records, err := s.repo.ListActivityRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activity records: %w", err)
	}
	return records, nil
}

// EvaluateAchievements checks the full catalog against one user's history.
func (s *ChallengeService) EvaluateAchievements(ctx context.Context, userID string) (*domain.AchievementSummary, error) {
	records, err := s.repo.ListActivityRecords(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activity records: %w", err)
	}

	distances, _ := totals(records)
	summary := achievement.Evaluate(records, distances, s.cal.LastDay())
	return &summary, nil
}

// BuildLeaderboard recomputes the full board from activity records. Entries
// follow repository iteration order (users by registration time); no sort
// by score is applied.
func (s *ChallengeService) BuildLeaderboard(ctx context.Context) (*domain.LeaderboardInfo, error) {
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}

	info := &domain.LeaderboardInfo{
		TotalEntries: len(users),
		StartOfRange: 0,
		Details:      make([]domain.LeaderboardEntry, 0, len(users)),
	}

	for _, user := range users {
		records, err := s.repo.ListActivityRecords(ctx, user.ID)
		if err != nil {
			return nil, fmt.Errorf("listing records for user %s: %w", user.ID, err)
		}

		distances, totalScore := totals(records)
		summary := achievement.Evaluate(records, distances, s.cal.LastDay())

		entry := domain.LeaderboardEntry{
			UserID:       user.ID,
			Username:     user.Username,
			TotalScore:   totalScore,
			BikeDistance: distances[domain.ActivityBike],
			RunDistance:  distances[domain.ActivityRun],
			WalkDistance: distances[domain.ActivityWalk],
			SkiDistance:  distances[domain.ActivitySki],
		}

		for _, status := range summary.Achievements {
			if !status.Unlocked {
				continue
			}
			switch status.Rank {
			case domain.RankBronze:
				entry.Achievements.Bronze++
			case domain.RankSilver:
				entry.Achievements.Silver++
			case domain.RankGold:
				entry.Achievements.Gold++
			case domain.RankDiamond:
				entry.Achievements.Diamond++
			}
		}

		info.Details = append(info.Details, entry)
	}

	return info, nil
}

// totals sums distance per activity and total score over one user's records.
func totals(records []domain.ActivityRecord) (map[domain.Activity]float64, float64) {
	distances := make(map[domain.Activity]float64)
	var totalScore float64
	for _, record := range records {
		distances[record.Activity] += record.Distance
		totalScore += record.Score
	}
	return distances, totalScore
}
