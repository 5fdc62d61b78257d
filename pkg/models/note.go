package models

import "time"

type Note struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	RecordID  int64     `json:"record_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}
