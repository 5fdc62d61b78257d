package models

import "time"

// Reading statuses a record can carry.
const (
	StatusRead       = "read"
	StatusReading    = "reading"
	StatusWantToRead = "want_to_read"
)

// Record is one entry in a user's reading log. Title is always non-empty;
// author and quote are optional.
type Record struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Title     string    `json:"title"`
	Author    string    `json:"author,omitempty"`
	Quote     string    `json:"quote,omitempty"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// StatusChange is one entry in a record's status transition history.
type StatusChange struct {
	UserID   string    `json:"user_id"`
	RecordID int64     `json:"record_id"`
	Status   string    `json:"status"`
	At       time.Time `json:"at"`
}
