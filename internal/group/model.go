package group

import "time"

// Group represents an expense-sharing group
type Group struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupMember represents a user's membership in a group
type GroupMember struct {
	GroupID int64 `json:"group_id"`
	UserID  int64 `json:"user_id"`

	// Populated via JOIN
	Username string `json:"username,omitempty"`
}
