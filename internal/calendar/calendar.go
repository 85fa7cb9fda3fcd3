// Package calendar maps challenge day indices to their target distances
// and derives "today" from an injected clock.
package calendar

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/domain"
)

// Clock supplies the current time so day arithmetic stays deterministic
// in tests.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now().UTC() }

// SystemClock returns a Clock backed by the wall clock.
func SystemClock() Clock { return systemClock{} }

// EventStore is the slice of the repository the calendar needs.
type EventStore interface {
	GetEvent(ctx context.Context, day int) (*domain.Event, error)
	ListEvents(ctx context.Context) ([]domain.Event, error)
	InsertEvent(ctx context.Context, event domain.Event) error
}

// Calendar resolves day indices against the fixed challenge window.
type Calendar struct {
	store  EventStore
	clock  Clock
	start  time.Time
	days   int
	logger *slog.Logger
}

// New creates a calendar for the configured challenge window.
func New(store EventStore, clock Clock, cfg *config.ChallengeConfig, logger *slog.Logger) (*Calendar, error) {
	start, err := cfg.Start()
	if err != nil {
		return nil, err
	}
	if cfg.Days <= 0 {
		return nil, fmt.Errorf("challenge length must be positive, got %d days", cfg.Days)
	}

	return &Calendar{
		store:  store,
		clock:  clock,
		start:  start,
		days:   cfg.Days,
		logger: logger,
	}, nil
}

// LastDay returns the final day index of the challenge.
func (c *Calendar) LastDay() int {
	return c.days - 1
}

// HasStarted reports whether the challenge start has been reached.
func (c *Calendar) HasStarted() bool {
	return !c.clock.Now().Before(c.start)
}

// CurrentDay returns today's day index, clamped to [0, LastDay].
func (c *Calendar) CurrentDay() int {
	now := c.clock.Now()
	if now.Before(c.start) {
		return 0
	}
	day := int(now.Sub(c.start) / (24 * time.Hour))
	if day > c.LastDay() {
		return c.LastDay()
	}
	return day
}

// TargetForDay looks up the event for a day index.
func (c *Calendar) TargetForDay(ctx context.Context, day int) (*domain.Event, error) {
	if day < 0 || day > c.LastDay() {
		return nil, domain.ErrEventNotFound
	}
	event, err := c.store.GetEvent(ctx, day)
	if err != nil {
		return nil, err
	}
	return event, nil
}

// InitializeIfEmpty generates the event calendar on first startup: the
// configured distance multiset is shuffled uniformly and one target is
// assigned per day. Once events exist the call is a no-op, so the targets
// never change after the first initialization.
func (c *Calendar) InitializeIfEmpty(ctx context.Context, buckets []config.DistanceBucket) error {
	events, err := c.store.ListEvents(ctx)
	if err != nil {
		return fmt.Errorf("listing events: %w", err)
	}
	if len(events) > 0 {
		c.logger.Debug("event calendar already initialized", "events", len(events))
		return nil
	}

	targets := make([]int, 0, c.days)
	for _, bucket := range buckets {
		for i := 0; i < bucket.Count; i++ {
			targets = append(targets, bucket.Distance)
		}
	}
	if len(targets) != c.days {
		return fmt.Errorf("distance buckets cover %d days, challenge has %d", len(targets), c.days)
	}

	rand.Shuffle(len(targets), func(i, j int) {
		targets[i], targets[j] = targets[j], targets[i]
	})

	for day, target := range targets {
		if err := c.store.InsertEvent(ctx, domain.Event{Day: day, TargetDistance: target}); err != nil {
			return fmt.Errorf("inserting event for day %d: %w", day, err)
		}
	}

	c.logger.Info("event calendar initialized", "days", c.days)
	return nil
}
