package record

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

func (r *Repo) Create(ctx context.Context, rec models.Record) (*models.Record, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO records (user_id, title, author, quote, status)
		VALUES (?, ?, ?, ?, ?)
	`, rec.UserID, rec.Title, nullable(rec.Author), nullable(rec.Quote), rec.Status)
	if err != nil {
		return nil, fmt.Errorf("insert record: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return r.GetByID(ctx, rec.UserID, id)
}

func (r *Repo) GetByID(ctx context.Context, userID string, id int64) (*models.Record, error) {
	row := r.DB.QueryRowContext(ctx, `
		SELECT id, user_id, title, author, quote, status, created_at
		FROM records
		WHERE id = ? AND user_id = ?
	`, id, userID)

	rec, err := scanRecord(row.Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// List returns one page of a user's records, newest first, with the
// unpaged total. An empty status means no filter.
func (r *Repo) List(ctx context.Context, userID, status string, limit, offset int) ([]models.Record, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	var total int
	var countErr error
	if status == "" {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM records WHERE user_id = ?
		`, userID).Scan(&total)
	} else {
		countErr = r.DB.QueryRowContext(ctx, `
			SELECT COUNT(*) FROM records WHERE user_id = ? AND status = ?
		`, userID, status).Scan(&total)
	}
	if countErr != nil {
		return nil, 0, fmt.Errorf("count records: %w", countErr)
	}

	var rows *sql.Rows
	var err error
	if status == "" {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, user_id, title, author, quote, status, created_at
			FROM records
			WHERE user_id = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ? OFFSET ?
		`, userID, limit, offset)
	} else {
		rows, err = r.DB.QueryContext(ctx, `
			SELECT id, user_id, title, author, quote, status, created_at
			FROM records
			WHERE user_id = ? AND status = ?
			ORDER BY created_at DESC, id DESC
			LIMIT ? OFFSET ?
		`, userID, status, limit, offset)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	out := make([]models.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, 0, fmt.Errorf("scan record row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows err: %w", err)
	}
	return out, total, nil
}

// ListAll returns a user's full record set, newest first. The aggregation
// and recommendation engines consume this.
func (r *Repo) ListAll(ctx context.Context, userID string) ([]models.Record, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT id, user_id, title, author, quote, status, created_at
		FROM records
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("list all records: %w", err)
	}
	defer rows.Close()

	var out []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan record row: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows err: %w", err)
	}
	return out, nil
}

// Update rewrites the mutable fields of a record the user owns. Returns
// false when the record does not exist or belongs to someone else.
func (r *Repo) Update(ctx context.Context, rec models.Record) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		UPDATE records
		SET title = ?, author = ?, quote = ?, status = ?
		WHERE id = ? AND user_id = ?
	`, rec.Title, nullable(rec.Author), nullable(rec.Quote), rec.Status, rec.ID, rec.UserID)
	if err != nil {
		return false, fmt.Errorf("update record: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *Repo) Delete(ctx context.Context, userID string, id int64) (bool, error) {
	res, err := r.DB.ExecContext(ctx, `
		DELETE FROM records
		WHERE id = ? AND user_id = ?
	`, id, userID)
	if err != nil {
		return false, fmt.Errorf("delete record: %w", err)
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func scanRecord(scan func(...any) error) (*models.Record, error) {
	var (
		rec     models.Record
		author  sql.NullString
		quote   sql.NullString
		created time.Time
	)
	if err := scan(&rec.ID, &rec.UserID, &rec.Title, &author, &quote, &rec.Status, &created); err != nil {
		return nil, err
	}
	rec.Author = author.String
	rec.Quote = quote.String
	rec.CreatedAt = created
	return &rec, nil
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
