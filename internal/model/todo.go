package model

import "time"

// Todo is the domain model for a todo entry.
// ID is assigned by the server and never changes; Text is only changed
// through an update round-trip.
type Todo struct {
	ID        int64     `json:"id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
