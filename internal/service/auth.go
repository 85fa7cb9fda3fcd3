package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/challenge-tracker/internal/domain"
	"github.com/challenge-tracker/internal/redis"
)

// UserStore is the persistence surface the auth service depends on.
type UserStore interface {
	CreateUser(ctx context.Context, user domain.User) error
	GetUserByName(ctx context.Context, username string) (*domain.User, error)
	ResolveUsername(ctx context.Context, userID string) (string, error)
}

// AuthService handles registration, login and session resolution.
type AuthService struct {
	store      UserStore
	cache      *redis.Cache
	sessionTTL time.Duration
	logger     *slog.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(store UserStore, cache *redis.Cache, sessionTTL time.Duration, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:      store,
		cache:      cache,
		sessionTTL: sessionTTL,
		logger:     logger,
	}
}

// Register creates a user and returns a fresh session key.
func (a *AuthService) Register(ctx context.Context, username, password string) (string, error) {
	if username == "" || password == "" {
		return "", domain.ErrInvalidRequest
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}

	user := domain.User{
		ID:           uuid.NewString(),
		Username:     username,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}

	if err := a.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return "", domain.ErrUserExists
		}
		return "", fmt.Errorf("creating user: %w", err)
	}

	if err := a.cache.SetUsername(ctx, user.ID, user.Username); err != nil {
		a.logger.Warn("failed to cache username", "user_id", user.ID, "error", err)
	}

	a.logger.Info("user registered", "user_id", user.ID, "username", username)

	return a.cache.CreateSession(ctx, user.ID, a.sessionTTL)
}

// Login verifies credentials and returns a fresh session key.
func (a *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	user, err := a.store.GetUserByName(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", domain.ErrInvalidCredentials
	}

	return a.cache.CreateSession(ctx, user.ID, a.sessionTTL)
}

// Logout invalidates a session key.
func (a *AuthService) Logout(ctx context.Context, sessionKey string) error {
	return a.cache.DeleteSession(ctx, sessionKey)
}

// Authenticate resolves a session key to a user id.
func (a *AuthService) Authenticate(ctx context.Context, sessionKey string) (string, error) {
	return a.cache.GetSession(ctx, sessionKey)
}

// ResolveUsername returns a user's display name, serving from the cache
// when possible and falling back to the store.
func (a *AuthService) ResolveUsername(ctx context.Context, userID string) (string, error) {
	username, hit, err := a.cache.GetUsername(ctx, userID)
	if err != nil {
		a.logger.Warn("username cache lookup failed", "user_id", userID, "error", err)
	}
	if hit {
		return username, nil
	}

	username, err = a.store.ResolveUsername(ctx, userID)
	if err != nil {
		return "", err
	}

	if err := a.cache.SetUsername(ctx, userID, username); err != nil {
		a.logger.Warn("failed to cache username", "user_id", userID, "error", err)
	}
	return username, nil
}
