package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// UserStore is the user persistence needed by [Service].
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SessionStore is the session persistence needed by [Service].
type SessionStore interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// LoginResult is returned by a successful [Service.Login].
type LoginResult struct {
	Token     string            `json:"sessionToken"`
	ExpiresAt time.Time         `json:"expiresAt"`
	User      models.PublicUser `json:"user"`
}

// Service implements registration, login, session lookup and logout.
type Service struct {
	users    UserStore
	sessions SessionStore
	secret   []byte
	ttl      time.Duration
	cost     int
	logger   *log.Logger
	now      func() time.Time
}

// Option configures a [Service].
type Option func(*Service)

// WithHashCost overrides the bcrypt cost; tests use bcrypt.MinCost.
func WithHashCost(cost int) Option {
	return func(s *Service) { s.cost = cost }
}

// WithClock replaces the time source used for session expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a [Service] signing tokens with secret and issuing sessions that last ttl.
func NewService(users UserStore, sessions SessionStore, secret string, ttl time.Duration, logger *log.Logger, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		secret:   []byte(secret),
		ttl:      ttl,
		logger:   shared.WithLogger(logger, "component", "auth"),
		now:      func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates an account and returns its ID. It does not log the user in.
func (s *Service) Register(ctx context.Context, name, email, password string) (string, error) {
	name = strings.TrimSpace(name)
	email = shared.NormalizeEmail(email)

	if name == "" || email == "" || password == "" {
		return "", fmt.Errorf("%w: name, email and password are required", shared.ErrMissingArgument)
	}
	if !strings.Contains(email, "@") {
		return "", fmt.Errorf("%w: email address is not valid", shared.ErrInvalidArgument)
	}
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: password must be at least %d characters", shared.ErrInvalidArgument, MinPasswordLength)
	}

	hash, err := HashPassword(password, s.cost)
	if err != nil {
		return "", err
	}

	user := models.NewUser(0, email, name, hash)
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrConflict) {
			return "", fmt.Errorf("%w: user already exists", shared.ErrConflict)
		}
		return "", err
	}

	s.logger.Info("registered user", "user", user.ID())
	return user.ID(), nil
}

// Login checks credentials and opens a session.
// Unknown emails and wrong passwords produce the same [shared.ErrInvalidCredentials].
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", shared.ErrMissingArgument)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, shared.ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	ok, err := CheckPassword(user.PasswordHash(), password)
	if err != nil {
		s.logger.Warn("stored password hash unreadable", "user", user.ID(), "error", err)
	}
	if !ok {
		return nil, shared.ErrInvalidCredentials
	}

	if n, err := s.sessions.DeleteExpired(ctx, s.now()); err != nil {
		s.logger.Warn("failed to purge expired sessions", "error", err)
	} else if n > 0 {
		s.logger.Debug("purged expired sessions", "count", n)
	}

	session := models.RestoreSession(shared.GenerateID(), user.ID(), s.now(), s.now().Add(s.ttl))
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	token, err := SignToken(s.secret, session)
	if err != nil {
		return nil, err
	}

	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt(), User: user.Public()}, nil
}

// CurrentUser resolves a session token to its user.
//
// A missing, malformed, badly signed, expired or revoked token is an auth error.
// A valid session whose user row is gone yields [shared.ErrNotFound].
func (s *Service) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	claims, err := ParseToken(s.secret, token, s.now())
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.Get(ctx, claims.ID)
	if errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("%w: session has ended", shared.ErrInvalidToken)
	}
	if err != nil {
		return nil, err
	}
	if session.UserID() != claims.Subject {
		return nil, shared.ErrInvalidToken
	}
	if session.Expired(s.now()) {
		return nil, shared.ErrTokenExpired
	}

	user, err := s.users.GetByID(ctx, session.UserID())
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Logout ends the session named by token. It always succeeds for tokens that
// cannot be parsed, so logging out twice is harmless.
func (s *Service) Logout(ctx context.Context, token string) error {
	claims, err := parseSignature(s.secret, token)
	if err != nil {
		return nil
	}
	return s.sessions.Delete(ctx, claims.ID)
}

// PurgeExpired deletes sessions past their expiry.
func (s *Service) PurgeExpired(ctx context.Context) (int64, error) {
	n, err := s.sessions.DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.logger.Info("purged expired sessions", "count", n)
	}
	return n, nil
}
