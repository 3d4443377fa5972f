package repository

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"weather-dashboard/internal/models"
)

// Schema creates the tables the repository works on. Every statement is
// idempotent.
//
//go:embed schema.sql
var Schema string

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("repository: not found")

	// ErrDuplicate is returned when an insert violates a unique constraint.
	ErrDuplicate = errors.New("repository: duplicate")
)

const uniqueViolation = "23505"

const upsertLocationSQL = `
	INSERT INTO locations (user_id, name, lat, lon)
	VALUES ($1, $2, $3::numeric, $4::numeric)
	ON CONFLICT (user_id, name) DO UPDATE
	SET lat = EXCLUDED.lat, lon = EXCLUDED.lon
`

// DB is what the repository needs from a connection. Both *pgxpool.Pool and
// *pgx.Conn satisfy it.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
}

// Repository implements the repository interfaces for PostgreSQL
type Repository struct {
	db DB
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(db DB) *Repository {
	return &Repository{db: db}
}

// Migrate applies Schema.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.db.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("repository: failed to apply schema: %w", err)
	}
	return nil
}

// Ping checks the database connection.
func (r *Repository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

// CreateUser inserts a user and returns it with its id and creation time.
func (r *Repository) CreateUser(ctx context.Context, username, password string) (*models.User, error) {
	sql := `
		INSERT INTO users (username, password)
		VALUES ($1, $2)
		RETURNING id, username, password, created_at
	`

	var u models.User
	err := r.db.QueryRow(ctx, sql, username, password).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, fmt.Errorf("repository: username %q: %w", username, ErrDuplicate)
		}
		return nil, fmt.Errorf("repository: failed to insert user: %w", err)
	}
	return &u, nil
}

// FindUserByCredentials returns the user whose username and password both match.
func (r *Repository) FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error) {
	sql := `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1 AND password = $2
	`

	var u models.User
	err := r.db.QueryRow(ctx, sql, username, password).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to query user: %w", err)
	}
	return &u, nil
}

// FindUserByUsername returns the user with username.
func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*models.User, error) {
	sql := `
		SELECT id, username, password, created_at
		FROM users
		WHERE username = $1
	`

	var u models.User
	err := r.db.QueryRow(ctx, sql, username).Scan(&u.ID, &u.Username, &u.Password, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to query user: %w", err)
	}
	return &u, nil
}

// CreateSession stores a session.
func (r *Repository) CreateSession(ctx context.Context, s models.Session) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO sessions (token, user_id, expires_at) VALUES ($1, $2, $3)`,
		s.Token, s.UserID, s.ExpiresAt)
	if err != nil {
		return fmt.Errorf("repository: failed to insert session: %w", err)
	}
	return nil
}

// FindSession returns the session for token, expired or not.
func (r *Repository) FindSession(ctx context.Context, token string) (*models.Session, error) {
	var s models.Session
	err := r.db.QueryRow(ctx,
		`SELECT token::text, user_id, expires_at FROM sessions WHERE token = $1`,
		token).Scan(&s.Token, &s.UserID, &s.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("repository: failed to query session: %w", err)
	}
	return &s, nil
}

// DeleteSession removes the session for token. Deleting an unknown token is
// not an error.
func (r *Repository) DeleteSession(ctx context.Context, token string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE token = $1`, token); err != nil {
		return fmt.Errorf("repository: failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpiredSessions removes every session that expired before now and
// returns how many were removed.
func (r *Repository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	tag, err := r.db.Exec(ctx, `DELETE FROM sessions WHERE expires_at < $1`, now)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to purge sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpsertLocation inserts loc for the user or, when the name already exists,
// replaces its coordinates.
func (r *Repository) UpsertLocation(ctx context.Context, userID int64, loc models.Location) error {
	if _, err := r.db.Exec(ctx, upsertLocationSQL, userID, loc.Name, loc.Lat, loc.Lon); err != nil {
		return fmt.Errorf("repository: failed to upsert location: %w", err)
	}
	return nil
}

// UpsertLocations applies UpsertLocation for every entry in one transaction.
func (r *Repository) UpsertLocations(ctx context.Context, userID int64, locs []models.Location) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repository: failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck // no-op after commit

	batch := &pgx.Batch{}
	for _, loc := range locs {
		batch.Queue(upsertLocationSQL, userID, loc.Name, loc.Lat, loc.Lon)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("repository: failed to upsert locations: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repository: failed to commit locations: %w", err)
	}
	return nil
}

// ListLocations returns the user's locations ordered by name. Coordinates are
// read back as text so the stored decimal round-trips unchanged.
func (r *Repository) ListLocations(ctx context.Context, userID int64) ([]models.Location, error) {
	sql := `
		SELECT name, lat::text, lon::text
		FROM locations
		WHERE user_id = $1
		ORDER BY name
	`

	rows, err := r.db.Query(ctx, sql, userID)
	if err != nil {
		return nil, fmt.Errorf("repository: failed to execute location query: %w", err)
	}
	defer rows.Close()

	locations := []models.Location{}
	for rows.Next() {
		var loc models.Location
		if err := rows.Scan(&loc.Name, &loc.Lat, &loc.Lon); err != nil {
			return nil, fmt.Errorf("repository: failed to scan location: %w", err)
		}
		locations = append(locations, loc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repository: error iterating rows: %w", err)
	}

	return locations, nil
}

// DeleteLocations removes the named locations of the user and returns the
// number of rows deleted.
func (r *Repository) DeleteLocations(ctx context.Context, userID int64, names []string) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM locations WHERE user_id = $1 AND name = ANY($2)`,
		userID, names)
	if err != nil {
		return 0, fmt.Errorf("repository: failed to delete locations: %w", err)
	}
	return tag.RowsAffected(), nil
}
