package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// Activity is one entry of a user's activity feed. Entries are never edited.
type Activity struct {
	id        string
	sequence  int
	userID    string // empty for anonymous entries
	message   string
	createdAt time.Time
}

func NewActivity(userID, message string) *Activity {
	return &Activity{
		userID:    userID,
		message:   strings.TrimSpace(message),
		createdAt: time.Now().UTC(),
	}
}

func (a *Activity) ID() string           { return a.id }
func (a *Activity) Sequence() int        { return a.sequence }
func (a *Activity) UserID() string       { return a.userID }
func (a *Activity) Message() string      { return a.message }
func (a *Activity) CreatedAt() time.Time { return a.createdAt }

func (a *Activity) SetID(id string)          { a.id = id }
func (a *Activity) SetSequence(seq int)      { a.sequence = seq }
func (a *Activity) SetCreatedAt(t time.Time) { a.createdAt = t }

func (a *Activity) Validate() error {
	if a.message == "" {
		return fmt.Errorf("%w: message is required", shared.ErrValidation)
	}
	return nil
}

// ActivityView is the serialized form of an [Activity].
type ActivityView struct {
	ID        string    `json:"id"`
	UserID    *string   `json:"user_id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func (a *Activity) View() ActivityView {
	v := ActivityView{ID: a.id, Message: a.message, CreatedAt: a.createdAt}
	if a.userID != "" {
		uid := a.userID
		v.UserID = &uid
	}
	return v
}

func (a *Activity) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.View())
}

func (a *Activity) UnmarshalJSON(data []byte) error {
	var v ActivityView
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	a.id, a.message, a.createdAt = v.ID, v.Message, v.CreatedAt
	a.userID = ""
	if v.UserID != nil {
		a.userID = *v.UserID
	}
	return nil
}
