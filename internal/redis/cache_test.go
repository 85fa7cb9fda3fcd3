package redis

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"

	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/domain"
)

func newTestCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := &config.RedisConfig{
		Addr:         mr.Addr(),
		DialTimeout:  time.Second,
		ReadTimeout:  time.Second,
		WriteTimeout: time.Second,
		PoolSize:     2,
		MinIdleConns: 1,
	}

	cache, err := NewCache(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("NewCache: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	return cache, mr
}

func TestUsernameCache(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	_, hit, err := cache.GetUsername(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUsername: %v", err)
	}
	if hit {
		t.Error("expected a cache miss before SetUsername")
	}

	if err := cache.SetUsername(ctx, "u1", "alice"); err != nil {
		t.Fatalf("SetUsername: %v", err)
	}

	username, hit, err := cache.GetUsername(ctx, "u1")
	if err != nil {
		t.Fatalf("GetUsername: %v", err)
	}
	if !hit || username != "alice" {
		t.Errorf("GetUsername = (%q, %v), want (\"alice\", true)", username, hit)
	}
}

func TestSetUsernamesBatch(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	names := map[string]string{"u1": "alice", "u2": "bob"}
	if err := cache.SetUsernames(ctx, names); err != nil {
		t.Fatalf("SetUsernames: %v", err)
	}

	for userID, want := range names {
		got, hit, err := cache.GetUsername(ctx, userID)
		if err != nil || !hit || got != want {
			t.Errorf("GetUsername(%s) = (%q, %v, %v), want (%q, true, nil)", userID, got, hit, err, want)
		}
	}
}

func TestSessionLifecycle(t *testing.T) {
	cache, mr := newTestCache(t)
	ctx := context.Background()

	key, err := cache.CreateSession(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}
	if key == "" {
		t.Fatal("CreateSession returned an empty key")
	}

	userID, err := cache.GetSession(ctx, key)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if userID != "u1" {
		t.Errorf("GetSession = %q, want %q", userID, "u1")
	}

	// Sessions expire with their TTL.
	mr.FastForward(2 * time.Hour)
	if _, err := cache.GetSession(ctx, key); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetSession after expiry = %v, want ErrSessionNotFound", err)
	}
}

func TestDeleteSession(t *testing.T) {
	cache, _ := newTestCache(t)
	ctx := context.Background()

	key, err := cache.CreateSession(ctx, "u1", time.Hour)
	if err != nil {
		t.Fatalf("CreateSession: %v", err)
	}

	if err := cache.DeleteSession(ctx, key); err != nil {
		t.Fatalf("DeleteSession: %v", err)
	}

	if _, err := cache.GetSession(ctx, key); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetSession after delete = %v, want ErrSessionNotFound", err)
	}
}

func TestUnknownSession(t *testing.T) {
	cache, _ := newTestCache(t)

	if _, err := cache.GetSession(context.Background(), "nope"); !errors.Is(err, domain.ErrSessionNotFound) {
		t.Errorf("GetSession(unknown) = %v, want ErrSessionNotFound", err)
	}
}
