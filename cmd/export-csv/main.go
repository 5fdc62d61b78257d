package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"flag"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"bookhub/pkg/database"
)

func main() {
	var (
		recordsOut = flag.String("records", "data/records.csv", "output CSV path for reading records")
		notesOut   = flag.String("notes", "data/notes.csv", "output CSV path for notes")
	)
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db := database.MustOpen(database.DefaultConfig())
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("db migrate failed: %v", err)
	}

	if err := exportRecords(ctx, db, *recordsOut); err != nil {
		log.Fatalf("export records failed: %v", err)
	}
	if err := exportNotes(ctx, db, *notesOut); err != nil {
		log.Fatalf("export notes failed: %v", err)
	}

	log.Printf("✅ exported records to %s and notes to %s", *recordsOut, *notesOut)
}

func exportRecords(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "title", "author", "quote", "status", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, title, author, quote, status, created_at
        FROM records
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        int64
			userID    string
			title     string
			author    sql.NullString
			quote     sql.NullString
			status    sql.NullString
			createdAt sql.NullTime
		)

		if err := rows.Scan(&id, &userID, &title, &author, &quote, &status, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10),
			userID,
			title,
			author.String,
			quote.String,
			status.String,
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}

func exportNotes(ctx context.Context, db *sql.DB, outPath string) error {
	if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
		return err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"id", "user_id", "record_id", "text", "created_at"}); err != nil {
		return err
	}

	rows, err := db.QueryContext(ctx, `
        SELECT id, user_id, record_id, text, created_at
        FROM notes
        ORDER BY created_at DESC
    `)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id        int64
			userID    string
			recordID  int64
			text      string
			createdAt sql.NullTime
		)

		if err := rows.Scan(&id, &userID, &recordID, &text, &createdAt); err != nil {
			return err
		}

		created := ""
		if createdAt.Valid {
			created = createdAt.Time.Format(time.RFC3339)
		}

		if err := w.Write([]string{
			strconv.FormatInt(id, 10),
			userID,
			strconv.FormatInt(recordID, 10),
			text,
			created,
		}); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	w.Flush()
	return w.Error()
}
