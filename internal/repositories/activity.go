package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/shelf/internal/models"
	"github.com/desertthunder/shelf/internal/shared"
)

// ActivityRepository appends to and reads the activity feed.
type ActivityRepository struct {
	db *sql.DB
}

func NewActivityRepository(db *sql.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// Create appends an entry. An empty user ID is stored as NULL.
func (r *ActivityRepository) Create(ctx context.Context, a *models.Activity) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, rowTimeout)
	defer cancel()

	sequence, err := NextSequence(ctx, r.db, "user_activity")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	_, err = r.db.ExecContext(ctx,
		`INSERT INTO user_activity (id, sequence, user_id, message, created_at) VALUES (?, ?, ?, ?, ?)`,
		id, sequence, nullable(a.UserID()), a.Message(), a.CreatedAt())
	if err != nil {
		return fmt.Errorf("failed to insert activity: %w", err)
	}

	a.SetID(id)
	a.SetSequence(sequence)
	return nil
}

// RecentByUser returns at most limit entries for userID, newest first.
func (r *ActivityRepository) RecentByUser(ctx context.Context, userID string, limit int) ([]*models.Activity, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, sequence, user_id, message, created_at
		FROM user_activity
		WHERE user_id = ?
		ORDER BY created_at DESC, sequence DESC
		LIMIT ?
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query activity: %w", err)
	}
	defer rows.Close()

	entries := []*models.Activity{}
	for rows.Next() {
		var (
			id        string
			sequence  int
			owner     sql.NullString
			message   string
			createdAt time.Time
		)
		if err := rows.Scan(&id, &sequence, &owner, &message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}

		entry := models.NewActivity(owner.String, message)
		entry.SetID(id)
		entry.SetSequence(sequence)
		entry.SetCreatedAt(createdAt)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// DeleteByUser removes every entry owned by userID and returns the number removed.
func (r *ActivityRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, listTimeout)
	defer cancel()

	result, err := r.db.ExecContext(ctx, `DELETE FROM user_activity WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear activity: %w", err)
	}
	return result.RowsAffected()
}
