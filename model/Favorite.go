package model

import (
	"time"

	"github.com/google/uuid"
)

// Favorite joins a user and a tweet. There is at most one per (UserID, TweetID).
type Favorite struct {
	ID        uuid.UUID `json:"id"`
	UserID    string    `json:"user_id"`
	TweetID   string    `json:"tweet_id"`
	CreatedAt time.Time `json:"created_at"`
}
