package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// User is a registered account.
type User struct {
	id           string
	sequence     int
	name         string
	email        string
	passwordHash string
	createdAt    time.Time
	updatedAt    time.Time
}

// PublicUser is the serialized view of a [User].
type PublicUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// NewUser creates a user with a normalized email and the current timestamps.
func NewUser(sequence int, email, name, passwordHash string) *User {
	now := time.Now().UTC()
	return &User{
		sequence:     sequence,
		name:         strings.TrimSpace(name),
		email:        shared.NormalizeEmail(email),
		passwordHash: passwordHash,
		createdAt:    now,
		updatedAt:    now,
	}
}

func (u *User) ID() string           { return u.id }
func (u *User) Sequence() int        { return u.sequence }
func (u *User) Name() string         { return u.name }
func (u *User) Email() string        { return u.email }
func (u *User) PasswordHash() string { return u.passwordHash }
func (u *User) CreatedAt() time.Time { return u.createdAt }
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

func (u *User) SetID(id string)             { u.id = id }
func (u *User) SetSequence(seq int)         { u.sequence = seq }
func (u *User) SetCreatedAt(t time.Time)    { u.createdAt = t }
func (u *User) SetUpdatedAt(t time.Time)    { u.updatedAt = t }
func (u *User) SetPasswordHash(hash string) { u.passwordHash = hash }

// Public returns the fields that may be shown to the account owner.
func (u *User) Public() PublicUser {
	return PublicUser{ID: u.id, Name: u.name, Email: u.email}
}

// MarshalJSON encodes the public view; the password hash is never serialized.
func (u *User) MarshalJSON() ([]byte, error) {
	return json.Marshal(u.Public())
}

// Validate checks required fields.
func (u *User) Validate() error {
	if u.name == "" {
		return fmt.Errorf("%w: name is required", shared.ErrValidation)
	}
	if u.email == "" || !strings.Contains(u.email, "@") {
		return fmt.Errorf("%w: a valid email is required", shared.ErrValidation)
	}
	if u.passwordHash == "" {
		return fmt.Errorf("%w: password hash is required", shared.ErrValidation)
	}
	return nil
}
