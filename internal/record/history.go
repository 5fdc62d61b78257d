package record

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookhub/pkg/models"
)

// AddStatusChange appends one entry to a record's status history.
func (r *Repo) AddStatusChange(ctx context.Context, change models.StatusChange) error {
	if change.At.IsZero() {
		change.At = time.Now().UTC()
	}

	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO record_status_history (user_id, record_id, status, at)
		VALUES (?, ?, ?, ?)
	`, change.UserID, change.RecordID, change.Status, change.At)
	if err != nil {
		return fmt.Errorf("insert status history: %w", err)
	}
	return nil
}

// ListStatusHistory returns a record's status transitions, newest first.
func (r *Repo) ListStatusHistory(ctx context.Context, userID string, recordID int64, limit, offset int) ([]models.StatusChange, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	if err := r.DB.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM record_status_history
		WHERE user_id = ? AND record_id = ?
	`, userID, recordID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count status history: %w", err)
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT user_id, record_id, status, at
		FROM record_status_history
		WHERE user_id = ? AND record_id = ?
		ORDER BY at DESC
		LIMIT ? OFFSET ?
	`, userID, recordID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list status history: %w", err)
	}
	defer rows.Close()

	out := make([]models.StatusChange, 0, limit)
	for rows.Next() {
		var change models.StatusChange
		var at sql.NullTime
		if err := rows.Scan(&change.UserID, &change.RecordID, &change.Status, &at); err != nil {
			return nil, 0, fmt.Errorf("scan status history: %w", err)
		}
		if at.Valid {
			change.At = at.Time
		}
		out = append(out, change)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows status history: %w", err)
	}
	return out, total, nil
}
