package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/postgres"
	"github.com/challenge-tracker/internal/redis"
)

// CacheWarmer periodically refreshes the username cache from PostgreSQL so
// leaderboard rendering rarely has to fall back to the store.
type CacheWarmer struct {
	cache    *redis.Cache
	postgres *postgres.Repository
	config   *config.WarmupConfig
	logger   *slog.Logger
	stopCh   chan struct{}
	doneCh   chan struct{}
	mu       sync.Mutex
	running  bool
}

// NewCacheWarmer creates a new cache warmer
func NewCacheWarmer(
	cache *redis.Cache,
	postgres *postgres.Repository,
	cfg *config.WarmupConfig,
	logger *slog.Logger,
) *CacheWarmer {
	return &CacheWarmer{
		cache:    cache,
		postgres: postgres,
		config:   cfg,
		logger:   logger,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background warmup process
func (w *CacheWarmer) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	w.logger.Info("cache warmer started", "interval", w.config.Interval)

	go w.run(ctx)
	return nil
}

// Stop stops the background warmup process
func (w *CacheWarmer) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	w.mu.Lock()
	w.running = false
	w.mu.Unlock()

	w.logger.Info("cache warmer stopped")
	return nil
}

// run is the main worker loop
func (w *CacheWarmer) run(ctx context.Context) {
	defer close(w.doneCh)

	ticker := time.NewTicker(w.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.warm(ctx)
		}
	}
}

// warm loads every username into the cache in one pipeline.
func (w *CacheWarmer) warm(ctx context.Context) {
	w.logger.Info("starting warmup cycle")
	startTime := time.Now()

	users, err := w.postgres.ListUsers(ctx)
	if err != nil {
		w.logger.Error("failed to list users for warmup", "error", err)
		return
	}

	if len(users) == 0 {
		w.logger.Debug("no users to warm")
		return
	}

	names := make(map[string]string, len(users))
	for _, user := range users {
		names[user.ID] = user.Username
	}

	if err := w.cache.SetUsernames(ctx, names); err != nil {
		w.logger.Error("failed to warm username cache", "error", err, "user_count", len(names))
		return
	}

	w.logger.Info("warmup cycle completed",
		"duration", time.Since(startTime),
		"user_count", len(names),
	)
}

// IsRunning returns whether the worker is currently running
func (w *CacheWarmer) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

// RunOnce runs a single warmup cycle (useful at startup)
func (w *CacheWarmer) RunOnce(ctx context.Context) {
	w.warm(ctx)
}
