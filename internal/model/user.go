// Package model defines domain entities for the application.
package model

import (
	"strings"
	"time"
)

// User is an account that owns diary entries and itineraries.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize
	CreatedAt    time.Time `json:"created_at"`
}

// DefaultUsername derives a username from the local part of an email address.
func DefaultUsername(email string) string {
	local, _, found := strings.Cut(email, "@")
	if !found || local == "" {
		return email
	}
	return local
}

// Identity holds the authenticated caller.
// This is injected into the request context by auth middleware.
type Identity struct {
	UserID    string
	Token     string
	ExpiresAt time.Time
}
