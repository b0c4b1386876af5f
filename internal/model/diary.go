package model

import "time"

// DiaryEntry is a single journal record written by a user.
type DiaryEntry struct {
	ID               string    `json:"id"`
	Title            string    `json:"title"`
	Description      *string   `json:"description,omitempty"`
	PhotoURI         *string   `json:"photo_uri,omitempty"`
	Price            float64   `json:"price"`
	Rating           float64   `json:"rating"`
	FormattedAddress *string   `json:"formatted_address,omitempty"`
	Journal          *string   `json:"journal,omitempty"`
	UserID           string    `json:"user_id"`
	CreatedAt        time.Time `json:"created_at"`
}

// IsOwnedBy reports whether userID owns the entry.
func (e *DiaryEntry) IsOwnedBy(userID string) bool {
	return userID != "" && e.UserID == userID
}
