package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// BookRepository persists [models.Book] rows. Every read and write is scoped to an owner.
type BookRepository struct {
	db *sql.DB
}

func NewBookRepository(db *sql.DB) *BookRepository {
	return &BookRepository{db: db}
}

const bookColumns = `id, sequence, user_id, book_id, title, author, cover_image, status, progress, added_at, updated_at`

// Create inserts a book with generated ID and sequence.
// Adding the same external book twice for one user yields [shared.ErrConflict].
func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	sequence, err := NextSequence(ctx, r.db, "user_books")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()

	query := `INSERT INTO user_books (` + bookColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.ExecContext(ctx, query,
		id, sequence, book.UserID(), book.BookID(), book.Title(), book.Author(), book.CoverImage(),
		string(book.Status()), book.Progress(), book.AddedAt(), book.UpdatedAt())
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: book already in your list", shared.ErrConflict)
		}
		return fmt.Errorf("failed to insert book: %w", err)
	}

	book.SetID(id)
	book.SetSequence(sequence)
	return nil
}

// ListByUser returns the user's books, newest added first.
func (r *BookRepository) ListByUser(ctx context.Context, userID string) ([]*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM user_books WHERE user_id = ? ORDER BY added_at DESC, sequence DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query books: %w", err)
	}
	defer rows.Close()

	books := []*models.Book{}
	for rows.Next() {
		book, err := scanBook(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, book)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return books, nil
}

// GetForUser returns the record id if it belongs to userID, otherwise [shared.ErrNotFound].
func (r *BookRepository) GetForUser(ctx context.Context, userID, id string) (*models.Book, error) {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	query := `SELECT ` + bookColumns + ` FROM user_books WHERE id = ? AND user_id = ?`
	book, err := scanBook(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: book", shared.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query book: %w", err)
	}
	return book, nil
}

// Update writes the mutable fields of book, matching on both its ID and owner.
func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	if err := book.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	now := time.Now().UTC()
	query := `
		UPDATE user_books
		SET title = ?, author = ?, cover_image = ?, status = ?, progress = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`
	result, err := r.db.ExecContext(ctx, query,
		book.Title(), book.Author(), book.CoverImage(), string(book.Status()), book.Progress(), now,
		book.ID(), book.UserID())
	if err != nil {
		return fmt.Errorf("failed to update book: %w", err)
	}
	if err := expectOneRow(result, "book"); err != nil {
		return err
	}

	book.SetUpdatedAt(now)
	return nil
}

// DeleteForUser removes the record id if userID owns it.
func (r *BookRepository) DeleteForUser(ctx context.Context, userID, id string) error {
	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM user_books WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete book: %w", err)
	}
	return expectOneRow(result, "book")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBook(row rowScanner) (*models.Book, error) {
	var (
		id, userID, bookID, title  string
		author, coverImage, status string
		sequence, progress         int
		addedAt, updatedAt         time.Time
	)

	if err := row.Scan(&id, &sequence, &userID, &bookID, &title, &author, &coverImage, &status, &progress, &addedAt, &updatedAt); err != nil {
		return nil, err
	}

	book := models.NewBook(userID, bookID, title, author, coverImage)
	book.SetID(id)
	book.SetSequence(sequence)
	book.SetStatus(models.BookStatus(status))
	book.SetProgress(progress)
	book.SetAddedAt(addedAt)
	book.SetUpdatedAt(updatedAt)
	return book, nil
}
