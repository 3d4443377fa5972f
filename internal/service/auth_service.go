package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"weather-dashboard/internal/models"
	"weather-dashboard/internal/repository"
)

var (
	ErrUsernameTaken      = errors.New("service: username already taken")
	ErrInvalidCredentials = errors.New("service: invalid username or password")
	ErrSessionExpired     = errors.New("service: session expired")
	ErrMissingCredentials = errors.New("service: username and password are required")
)

// AuthRepository is the persistence the auth service needs.
type AuthRepository interface {
	CreateUser(ctx context.Context, username, password string) (*models.User, error)
	FindUserByCredentials(ctx context.Context, username, password string) (*models.User, error)
	CreateSession(ctx context.Context, s models.Session) error
	FindSession(ctx context.Context, token string) (*models.Session, error)
	DeleteSession(ctx context.Context, token string) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// AuthService registers users and manages their sessions.
type AuthService struct {
	repo  AuthRepository
	clock clockwork.Clock
	ttl   time.Duration
}

// NewAuthService creates an auth service issuing sessions that last ttl.
func NewAuthService(repo AuthRepository, clock clockwork.Clock, ttl time.Duration) *AuthService {
	return &AuthService{repo: repo, clock: clock, ttl: ttl}
}

// Register creates an account.
func (s *AuthService) Register(ctx context.Context, username, password string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.repo.CreateUser(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("service: failed to register user: %w", err)
	}
	return u, nil
}

// Login checks the credentials and opens a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*models.Session, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	u, err := s.repo.FindUserByCredentials(ctx, username, password)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("service: failed to look up user: %w", err)
	}

	session := models.Session{
		Token:     uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: s.clock.Now().Add(s.ttl),
	}
	if err := s.repo.CreateSession(ctx, session); err != nil {
		return nil, fmt.Errorf("service: failed to create session: %w", err)
	}
	return &session, nil
}

// Logout ends the session. Unknown tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.repo.DeleteSession(ctx, token); err != nil {
		return fmt.Errorf("service: failed to end session: %w", err)
	}
	return nil
}

// Authenticate resolves a session token to its live session. Unknown,
// malformed and expired tokens all yield ErrSessionExpired; an expired
// session is deleted on the way.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.Session, error) {
	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrSessionExpired
	}

	session, err := s.repo.FindSession(ctx, token)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrSessionExpired
		}
		return nil, fmt.Errorf("service: failed to look up session: %w", err)
	}

	if !s.clock.Now().Before(session.ExpiresAt) {
		if err := s.repo.DeleteSession(ctx, token); err != nil {
			return nil, fmt.Errorf("service: failed to delete expired session: %w", err)
		}
		return nil, ErrSessionExpired
	}
	return session, nil
}

// PurgeExpiredSessions deletes every expired session and returns the count.
func (s *AuthService) PurgeExpiredSessions(ctx context.Context) (int64, error) {
	n, err := s.repo.DeleteExpiredSessions(ctx, s.clock.Now())
	if err != nil {
		return 0, fmt.Errorf("service: failed to purge sessions: %w", err)
	}
	return n, nil
}
