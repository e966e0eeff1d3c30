package model

import "time"

// Notification ordering is server-defined (newest first); the client never
// re-sorts, and never flips Read locally — the next fetch reflects whatever
// read-state change the server applied.
type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	GroupID   string    `json:"group_id,omitempty"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}
