package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/challenge-tracker/internal/config"
	"github.com/challenge-tracker/internal/domain"
)

// uniqueViolation is the PostgreSQL error code for a unique constraint hit.
const uniqueViolation = "23505"

// Repository provides PostgreSQL-based data access
type Repository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(cfg *config.PostgresConfig, logger *slog.Logger) (*Repository, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.ConnectionString())
	if err != nil {
		return nil, fmt.Errorf("parsing connection string: %w", err)
	}

	poolConfig.MaxConns = int32(cfg.MaxConnections)
	poolConfig.MinConns = int32(cfg.MinConnections)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(context.Background(), poolConfig)
	if err != nil {
		return nil, fmt.Errorf("creating connection pool: %w", err)
	}

	// Test connection
	if err := pool.Ping(context.Background()); err != nil {
		pool.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	return &Repository{
		pool:   pool,
		logger: logger,
	}, nil
}

// Close closes the database connection pool
func (r *Repository) Close() {
	r.pool.Close()
}

// Pool returns the underlying connection pool
func (r *Repository) Pool() *pgxpool.Pool {
	return r.pool
}

// RunMigrations executes database migrations
func (r *Repository) RunMigrations(ctx context.Context) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id VARCHAR(64) PRIMARY KEY,
			username VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			day INT PRIMARY KEY,
			target_distance INT NOT NULL CHECK (target_distance > 0)
		)`,
		`CREATE TABLE IF NOT EXISTS activity_records (
			id BIGSERIAL PRIMARY KEY,
			user_id VARCHAR(64) NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			day INT NOT NULL,
			activity VARCHAR(10) NOT NULL,
			distance DOUBLE PRECISION NOT NULL,
			score DOUBLE PRECISION NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(user_id, day)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_activity_records_user ON activity_records(user_id, day)`,
	}

	for _, migration := range migrations {
		_, err := r.pool.Exec(ctx, migration)
		if err != nil {
			return fmt.Errorf("executing migration: %w", err)
		}
	}

	r.logger.Info("database migrations completed")
	return nil
}

// InsertEvent stores one challenge day's target distance
func (r *Repository) InsertEvent(ctx context.Context, event domain.Event) error {
	query := `INSERT INTO events (day, target_distance) VALUES ($1, $2)`
	if _, err := r.pool.Exec(ctx, query, event.Day, event.TargetDistance); err != nil {
		return fmt.Errorf("inserting event: %w", err)
	}
	return nil
}

// GetEvent retrieves the event for a day index
func (r *Repository) GetEvent(ctx context.Context, day int) (*domain.Event, error) {
	query := `SELECT day, target_distance FROM events WHERE day = $1`
	var event domain.Event
	err := r.pool.QueryRow(ctx, query, day).Scan(&event.Day, &event.TargetDistance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("getting event: %w", err)
	}
	return &event, nil
}

// ListEvents retrieves every challenge day in day order
func (r *Repository) ListEvents(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT day, target_distance FROM events ORDER BY day`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var events []domain.Event
	for rows.Next() {
		var event domain.Event
		if err := rows.Scan(&event.Day, &event.TargetDistance); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		events = append(events, event)
	}
	return events, nil
}

// CreateUser registers a new user
func (r *Repository) CreateUser(ctx context.Context, user domain.User) error {
	query := `
		INSERT INTO users (id, username, password_hash, created_at)
		VALUES ($1, $2, $3, $4)
	`
	_, err := r.pool.Exec(ctx, query, user.ID, user.Username, user.PasswordHash, user.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrUserExists
		}
		return fmt.Errorf("creating user: %w", err)
	}
	return nil
}

// GetUserByName retrieves a user by username
func (r *Repository) GetUserByName(ctx context.Context, username string) (*domain.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users WHERE username = $1`
	var user domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("getting user: %w", err)
	}
	return &user, nil
}

// ResolveUsername returns the display name for a user id
func (r *Repository) ResolveUsername(ctx context.Context, userID string) (string, error) {
	query := `SELECT username FROM users WHERE id = $1`
	var username string
	err := r.pool.QueryRow(ctx, query, userID).Scan(&username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrUserNotFound
		}
		return "", fmt.Errorf("resolving username: %w", err)
	}
	return username, nil
}

// ListUsers retrieves all registered users in registration order
func (r *Repository) ListUsers(ctx context.Context) ([]domain.User, error) {
	query := `SELECT id, username, password_hash, created_at FROM users ORDER BY created_at`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var user domain.User
		err := rows.Scan(&user.ID, &user.Username, &user.PasswordHash, &user.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		users = append(users, user)
	}
	return users, nil
}

// InsertActivityRecord stores one logged activity. The UNIQUE(user_id, day)
// constraint makes this an atomic insert-if-absent: a second record for the
// same user and day is rejected as ErrDuplicateEntry no matter how the
// requests interleave.
func (r *Repository) InsertActivityRecord(ctx context.Context, record domain.ActivityRecord) error {
	query := `
		INSERT INTO activity_records (user_id, day, activity, distance, score)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err := r.pool.Exec(ctx, query,
		record.UserID,
		record.Day,
		string(record.Activity),
		record.Distance,
		record.Score,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return domain.ErrDuplicateEntry
		}
		return fmt.Errorf("inserting activity record: %w", err)
	}
	return nil
}

// ListActivityRecords retrieves a user's records in ascending day order
func (r *Repository) ListActivityRecords(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	query := `
		SELECT user_id, day, activity, distance, score
		FROM activity_records
		WHERE user_id = $1
		ORDER BY day
	`
	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("listing activity records: %w", err)
	}
	defer rows.Close()

	var records []domain.ActivityRecord
	for rows.Next() {
		var record domain.ActivityRecord
		err := rows.Scan(
			&record.UserID,
			&record.Day,
			&record.Activity,
			&record.Distance,
			&record.Score,
		)
		if err != nil {
			return nil, fmt.Errorf("scanning activity record: %w", err)
		}
		records = append(records, record)
	}
	return records, nil
}
