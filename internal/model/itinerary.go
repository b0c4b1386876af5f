package model

import "time"

// Itinerary is a user-owned trip plan made of ordered locations.
type Itinerary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	UserID      string      `json:"user_id"`
	Locations   []*Location `json:"locations"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// IsOwnedBy reports whether userID owns the itinerary.
func (i *Itinerary) IsOwnedBy(userID string) bool {
	return userID != "" && i.UserID == userID
}

// Location is a stop on an itinerary.
type Location struct {
	ID               string    `json:"id"`
	PhotoURI         string    `json:"photo_uri"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	FormattedAddress string    `json:"formatted_address"`
	ItineraryID      string    `json:"itinerary_id"`
	CreatedAt        time.Time `json:"created_at"`
}
