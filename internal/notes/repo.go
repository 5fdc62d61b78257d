package notes

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"bookhub/pkg/models"
)

type Repo struct {
	DB *sql.DB
}

func NewRepo(db *sql.DB) *Repo {
	return &Repo{DB: db}
}

func (r *Repo) Create(ctx context.Context, userID string, recordID int64, text string) (*models.Note, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO notes (user_id, record_id, text)
		VALUES (?, ?, ?)
	`, userID, recordID, text)
	if err != nil {
		return nil, fmt.Errorf("insert note: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, id)
}

func (r *Repo) GetByID(ctx context.Context, id int64) (*models.Note, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, record_id, text, created_at
		FROM notes
		WHERE id = ?
	`, id)

	var n models.Note
	var created time.Time
	if err := row.Scan(&n.ID, &n.UserID, &n.RecordID, &n.Text, &created); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("scan note: %w", err)
	}
	n.CreatedAt = created
	return &n, nil
}

func (r *Repo) ListByRecord(ctx context.Context, userID string, recordID int64, limit, offset int) ([]models.Note, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, record_id, text, created_at
		FROM notes
		WHERE user_id = ? AND record_id = ?
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?
	`, userID, recordID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	defer rows.Close()

	out := make([]models.Note, 0, limit)
	for rows.Next() {
		var n models.Note
		var created time.Time
		if err := rows.Scan(&n.ID, &n.UserID, &n.RecordID, &n.Text, &created); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		n.CreatedAt = created
		out = append(out, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

func (r *Repo) Delete(ctx context.Context, id int64, userID string) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM notes
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete note: %w", err)
	}
	rows, _ := res.RowsAffected()
	return rows > 0, nil
}
