package feed

import "time"

// Event types broadcast to connected feed clients.
const (
	RecordCreated = "record.created"
	RecordUpdated = "record.updated"
	RecordDeleted = "record.deleted"
)

type RecordEvent struct {
	Type     string    `json:"type"`
	UserID   string    `json:"user_id"`
	RecordID int64     `json:"record_id"`
	Title    string    `json:"title,omitempty"`
	Status   string    `json:"status,omitempty"`
	At       time.Time `json:"at"`
}
