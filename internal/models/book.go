package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/shelf/internal/shared"
)

// BookStatus is the reading state of a tracked book.
type BookStatus string

const (
	StatusWishlist  BookStatus = "wishlist"
	StatusReading   BookStatus = "reading"
	StatusCompleted BookStatus = "completed"
)

// Statuses lists every valid [BookStatus] in display order.
var Statuses = []BookStatus{StatusWishlist, StatusReading, StatusCompleted}

// Valid reports whether s is one of the known statuses.
func (s BookStatus) Valid() bool {
	switch s {
	case StatusWishlist, StatusReading, StatusCompleted:
		return true
	}
	return false
}

func (s BookStatus) String() string { return string(s) }

// ParseBookStatus validates a raw status string; empty input yields [StatusWishlist].
func ParseBookStatus(raw string) (BookStatus, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return StatusWishlist, nil
	}
	s := BookStatus(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: status must be one of wishlist, reading, completed", shared.ErrValidation)
	}
	return s, nil
}

// Book is a user's tracked copy of a catalog (or custom) book.
type Book struct {
	id         string
	sequence   int
	userID     string
	bookID     string
	title      string
	author     string
	coverImage string
	status     BookStatus
	progress   int
	addedAt    time.Time
	updatedAt  time.Time
}

// NewBook creates a wishlist entry for userID with zero progress.
func NewBook(userID, bookID, title, author, coverImage string) *Book {
	now := time.Now().UTC()
	return &Book{
		userID:     userID,
		bookID:     strings.TrimSpace(bookID),
		title:      strings.TrimSpace(title),
		author:     strings.TrimSpace(author),
		coverImage: strings.TrimSpace(coverImage),
		status:     StatusWishlist,
		addedAt:    now,
		updatedAt:  now,
	}
}

func (b *Book) ID() string           { return b.id }
func (b *Book) Sequence() int        { return b.sequence }
func (b *Book) UserID() string       { return b.userID }
func (b *Book) BookID() string       { return b.bookID }
func (b *Book) Title() string        { return b.title }
func (b *Book) Author() string       { return b.author }
func (b *Book) CoverImage() string   { return b.coverImage }
func (b *Book) Status() BookStatus   { return b.status }
func (b *Book) Progress() int        { return b.progress }
func (b *Book) AddedAt() time.Time   { return b.addedAt }
func (b *Book) CreatedAt() time.Time { return b.addedAt }
func (b *Book) UpdatedAt() time.Time { return b.updatedAt }

func (b *Book) SetID(id string)          { b.id = id }
func (b *Book) SetSequence(seq int)      { b.sequence = seq }
func (b *Book) SetTitle(title string)    { b.title = strings.TrimSpace(title) }
func (b *Book) SetAuthor(author string)  { b.author = strings.TrimSpace(author) }
func (b *Book) SetCoverImage(uri string) { b.coverImage = strings.TrimSpace(uri) }
func (b *Book) SetStatus(s BookStatus)   { b.status = s }
func (b *Book) SetProgress(p int)        { b.progress = p }
func (b *Book) SetAddedAt(t time.Time)   { b.addedAt = t }
func (b *Book) SetUpdatedAt(t time.Time) { b.updatedAt = t }

// Validate enforces the book invariants checked before every write.
func (b *Book) Validate() error {
	if b.userID == "" {
		return fmt.Errorf("%w: book owner is required", shared.ErrValidation)
	}
	if b.bookID == "" {
		return fmt.Errorf("%w: book_id is required", shared.ErrValidation)
	}
	if b.title == "" {
		return fmt.Errorf("%w: title is required", shared.ErrValidation)
	}
	if !b.status.Valid() {
		return fmt.Errorf("%w: unknown status %q", shared.ErrValidation, b.status)
	}
	if b.progress < 0 || b.progress > 100 {
		return fmt.Errorf("%w: progress must be between 0 and 100", shared.ErrValidation)
	}
	return nil
}

// BookView is the serialized form of a [Book].
type BookView struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	BookID     string     `json:"book_id"`
	Title      string     `json:"title"`
	Author     string     `json:"author"`
	CoverImage string     `json:"cover_image"`
	Status     BookStatus `json:"status"`
	Progress   int        `json:"progress"`
	AddedAt    time.Time  `json:"added_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (b *Book) View() BookView {
	return BookView{
		ID:         b.id,
		UserID:     b.userID,
		BookID:     b.bookID,
		Title:      b.title,
		Author:     b.author,
		CoverImage: b.coverImage,
		Status:     b.status,
		Progress:   b.progress,
		AddedAt:    b.addedAt,
		UpdatedAt:  b.updatedAt,
	}
}

func (b *Book) MarshalJSON() ([]byte, error) {
	return json.Marshal(b.View())
}

// RestoreBook rebuilds a book from a [BookView], as decoded from an API response.
func RestoreBook(v BookView) *Book {
	return &Book{
		id:         v.ID,
		userID:     v.UserID,
		bookID:     v.BookID,
		title:      v.Title,
		author:     v.Author,
		coverImage: v.CoverImage,
		status:     v.Status,
		progress:   v.Progress,
		addedAt:    v.AddedAt,
		updatedAt:  v.UpdatedAt,
	}
}

// UnmarshalJSON decodes the [BookView] form.
func (b *Book) UnmarshalJSON(data []byte) error {
	var v BookView
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*b = *RestoreBook(v)
	return nil
}
