package model

import "time"

// User is the root entity. PasswordHash is opaque to the graph and feed code
// and never leaves the process.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	Bio          string    `json:"bio,omitempty"`
	Location     string    `json:"location,omitempty"`
	WebsiteURL   string    `json:"website_url,omitempty"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
