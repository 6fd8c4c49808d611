package library

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// RecentLimit caps how many entries [Service.Recent] returns.
const RecentLimit = 10

// BookStore is the book persistence needed by [Service].
type BookStore interface {
	Create(ctx context.Context, book *models.Book) error
	ListByUser(ctx context.Context, userID string) ([]*models.Book, error)
	GetForUser(ctx context.Context, userID, id string) (*models.Book, error)
	Update(ctx context.Context, book *models.Book) error
	DeleteForUser(ctx context.Context, userID, id string) error
}

// ActivityStore is the activity persistence needed by [Service].
type ActivityStore interface {
	Create(ctx context.Context, a *models.Activity) error
	RecentByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
}

// AddBookInput describes a book to add to a user's list. Empty Status means wishlist.
type AddBookInput struct {
	BookID     string `json:"book_id"`
	Title      string `json:"title"`
	Author     string `json:"author,omitempty"`
	CoverImage string `json:"cover_image,omitempty"`
	Status     string `json:"status,omitempty"`
}

// BookPatch lists fields to change on a record; nil fields keep their prior value.
type BookPatch struct {
	Status     *string `json:"status,omitempty"`
	Progress   *int    `json:"progress,omitempty"`
	Title      *string `json:"title,omitempty"`
	Author     *string `json:"author,omitempty"`
	CoverImage *string `json:"cover_image,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p BookPatch) Empty() bool {
	return p.Status == nil && p.Progress == nil && p.Title == nil && p.Author == nil && p.CoverImage == nil
}

// Service manages books and activity for authenticated users.
type Service struct {
	books    BookStore
	activity ActivityStore
	logger   *log.Logger
}

func NewService(books BookStore, activity ActivityStore, logger *log.Logger) *Service {
	return &Service{
		books:    books,
		activity: activity,
		logger:   shared.WithLogger(logger, "component", "library"),
	}
}

func requireOwner(userID string) error {
	if userID == "" {
		return shared.ErrNotAuthenticated
	}
	return nil
}

// List returns every book owned by userID, newest added first.
func (s *Service) List(ctx context.Context, userID string) ([]*models.Book, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	return s.books.ListByUser(ctx, userID)
}

// Get returns one record owned by userID.
func (s *Service) Get(ctx context.Context, userID, recordID string) (*models.Book, error) {
	if err := requireOwner(userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(recordID) == "" {
		return nil, fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}
	return s.books.GetForUser(ctx, userID, recordID)
}

// Add puts a book on userID's list and returns the new record ID.
func (s *Service) Add(ctx context.Context, userID string, in AddBookInput) (string, error) {
	if err := requireOwner(userID); err != nil {
		return "", err
	}
	if strings.TrimSpace(in.BookID) == "" || strings.TrimSpace(in.Title) == "" {
		return "", fmt.Errorf("%w: book_id and title are required", shared.ErrMissingArgument)
	}

	status, err := models.ParseBookStatus(in.Status)
	if err != nil {
		return "", err
	}

	book := models.NewBook(userID, in.BookID, in.Title, in.Author, in.CoverImage)
	book.SetStatus(status)

	if err := s.books.Create(ctx, book); err != nil {
		return "", err
	}

	s.record(ctx, userID, fmt.Sprintf("Added %q to %s", book.Title(), status))
	return book.ID(), nil
}

// Update applies patch to a record owned by userID.
//
// A record that is missing or owned by someone else yields [shared.ErrNotFound] and is left untouched.
func (s *Service) Update(ctx context.Context, userID, recordID string, patch BookPatch) error {
	if err := requireOwner(userID); err != nil {
		return err
	}
	if strings.TrimSpace(recordID) == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	var status models.BookStatus
	if patch.Status != nil {
		if strings.TrimSpace(*patch.Status) == "" {
			return fmt.Errorf("%w: status cannot be empty", shared.ErrInvalidArgument)
		}
		parsed, err := models.ParseBookStatus(*patch.Status)
		if err != nil {
			return err
		}
		status = parsed
	}
	if patch.Progress != nil && (*patch.Progress < 0 || *patch.Progress > 100) {
		return fmt.Errorf("%w: progress must be between 0 and 100", shared.ErrInvalidArgument)
	}
	if patch.Title != nil && strings.TrimSpace(*patch.Title) == "" {
		return fmt.Errorf("%w: title cannot be empty", shared.ErrInvalidArgument)
	}

	book, err := s.books.GetForUser(ctx, userID, recordID)
	if err != nil {
		return err
	}

	if patch.Status != nil {
		book.SetStatus(status)
	}
	if patch.Progress != nil {
		book.SetProgress(*patch.Progress)
	}
	if patch.Title != nil {
		book.SetTitle(*patch.Title)
	}
	if patch.Author != nil {
		book.SetAuthor(*patch.Author)
	}
	if patch.CoverImage != nil {
		book.SetCoverImage(*patch.CoverImage)
	}

	if err := s.books.Update(ctx, book); err != nil {
		return err
	}

	switch {
	case patch.Status == nil:
	case status == models.StatusReading:
		s.record(ctx, userID, fmt.Sprintf("Started reading %q", book.Title()))
	case status == models.StatusCompleted:
		s.record(ctx, userID, fmt.Sprintf("Completed reading %q", book.Title()))
	}
	return nil
}

// Remove deletes a record owned by userID.
func (s *Service) Remove(ctx context.Context, userID, recordID string) error {
	if err := requireOwner(userID); err != nil {
		return err
	}
	if strings.TrimSpace(recordID) == "" {
		return fmt.Errorf("%w: id", shared.ErrMissingArgument)
	}

	book, err := s.books.GetForUser(ctx, userID, recordID)
	if err != nil {
		return err
	}
	if err := s.books.DeleteForUser(ctx, userID, recordID); err != nil {
		return err
	}

	s.record(ctx, userID, fmt.Sprintf("Removed %q", book.Title()))
	return nil
}

// Record appends an activity entry. An empty userID records an anonymous entry.
func (s *Service) Record(ctx context.Context, userID, message string) error {
	entry := models.NewActivity(userID, message)
	if err := entry.Validate(); err != nil {
		return err
	}
	return s.activity.Create(ctx, entry)
}

// Recent returns up to [RecentLimit] entries for userID, newest first.
// Anonymous callers get an empty list.
func (s *Service) Recent(ctx context.Context, userID string) ([]*models.Activity, error) {
	if userID == "" {
		return []*models.Activity{}, nil
	}
	return s.activity.RecentByUser(ctx, userID, RecentLimit)
}

// Clear deletes all of userID's activity.
func (s *Service) Clear(ctx context.Context, userID string) error {
	if err := requireOwner(userID); err != nil {
		return err
	}
	n, err := s.activity.DeleteByUser(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Debug("cleared activity", "user", userID, "count", n)
	return nil
}

// record is the best-effort activity write that follows a book mutation.
func (s *Service) record(ctx context.Context, userID, message string) {
	if err := s.Record(ctx, userID, message); err != nil {
		s.logger.Warn("failed to record activity", "user", userID, "error", err)
	}
}
