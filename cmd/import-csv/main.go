package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"bookhub/pkg/database"
)

func main() {
	var (
		recordsIn = flag.String("records", "data/records.csv", "input CSV path for reading records")
		notesIn   = flag.String("notes", "", "optional input CSV path for notes")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := importRecords(ctx, db, *recordsIn); err != nil {
		log.Fatalf("import records failed: %v", err)
	}
	if *notesIn != "" {
		if err := importNotes(ctx, db, *notesIn); err != nil {
			log.Fatalf("import notes failed: %v", err)
		}
	}

	log.Printf("✅ imported records from %s", *recordsIn)
}

func importRecords(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO records (id, user_id, title, author, quote, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  title = excluded.title,
		  author = excluded.author,
		  quote = excluded.quote,
		  status = excluded.status
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		title := valueAt(header, row, "title")
		if userID == "" || title == "" {
			continue
		}

		id, err := parseNullInt(valueAt(header, row, "id"))
		if err != nil {
			return fmt.Errorf("parse id for %q: %w", title, err)
		}

		createdAt, err := parseTime(valueAt(header, row, "created_at"))
		if err != nil {
			return fmt.Errorf("parse created_at for %q: %w", title, err)
		}
		if !createdAt.Valid {
			createdAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		}

		status := valueAt(header, row, "status")
		if status == "" {
			status = "read"
		}

		if _, err := stmt.ExecContext(
			ctx,
			id,
			userID,
			title,
			nullString(valueAt(header, row, "author")),
			nullString(valueAt(header, row, "quote")),
			status,
			createdAt,
		); err != nil {
			return err
		}
	}

	return nil
}

func importNotes(ctx context.Context, db *sql.DB, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	header, err := readHeader(r)
	if err != nil {
		return err
	}

	stmt, err := db.PrepareContext(ctx, `
		INSERT INTO notes (id, user_id, record_id, text, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
		  text = excluded.text
	`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if len(row) == 0 {
			continue
		}

		userID := valueAt(header, row, "user_id")
		text := valueAt(header, row, "text")
		if userID == "" || text == "" {
			continue
		}

		id, err := parseNullInt(valueAt(header, row, "id"))
		if err != nil {
			return fmt.Errorf("parse note id: %w", err)
		}
		recordID, err := parseNullInt(valueAt(header, row, "record_id"))
		if err != nil || !recordID.Valid {
			return fmt.Errorf("parse record_id: %w", err)
		}

		createdAt, err := parseTime(valueAt(header, row, "created_at"))
		if err != nil {
			return fmt.Errorf("parse note created_at: %w", err)
		}
		if !createdAt.Valid {
			createdAt = sql.NullTime{Time: time.Now().UTC(), Valid: true}
		}

		if _, err := stmt.ExecContext(ctx, id, userID, recordID.Int64, text, createdAt); err != nil {
			return err
		}
	}

	return nil
}

func readHeader(r *csv.Reader) (map[string]int, error) {
	row, err := r.Read()
	if err != nil {
		return nil, err
	}
	header := make(map[string]int, len(row))
	for idx, name := range row {
		header[strings.TrimSpace(strings.ToLower(name))] = idx
	}
	return header, nil
}

func valueAt(header map[string]int, row []string, key string) string {
	idx, ok := header[key]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func parseNullInt(raw string) (sql.NullInt64, error) {
	if raw == "" {
		return sql.NullInt64{}, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return sql.NullInt64{}, err
	}
	return sql.NullInt64{Int64: n, Valid: true}, nil
}

func parseTime(raw string) (sql.NullTime, error) {
	if raw == "" {
		return sql.NullTime{}, nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return sql.NullTime{}, err
	}
	return sql.NullTime{Time: t, Valid: true}, nil
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
