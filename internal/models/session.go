package models

import (
	"fmt"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// Session is the server-side half of a login. The token handed to clients carries its ID.
type Session struct {
	id        string
	userID    string
	createdAt time.Time
	expiresAt time.Time
}

// NewSession creates a session for userID that lasts ttl from now.
func NewSession(userID string, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		id:        shared.GenerateID(),
		userID:    userID,
		createdAt: now,
		expiresAt: now.Add(ttl),
	}
}

// RestoreSession rebuilds a session loaded from storage.
func RestoreSession(id, userID string, createdAt, expiresAt time.Time) *Session {
	return &Session{id: id, userID: userID, createdAt: createdAt, expiresAt: expiresAt}
}

func (s *Session) ID() string           { return s.id }
func (s *Session) UserID() string       { return s.userID }
func (s *Session) CreatedAt() time.Time { return s.createdAt }
func (s *Session) ExpiresAt() time.Time { return s.expiresAt }

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.expiresAt)
}

func (s *Session) Validate() error {
	if s.id == "" || s.userID == "" {
		return fmt.Errorf("%w: session requires id and user", shared.ErrValidation)
	}
	if !s.expiresAt.After(s.createdAt) {
		return fmt.Errorf("%w: session expiry must follow creation", shared.ErrValidation)
	}
	return nil
}
