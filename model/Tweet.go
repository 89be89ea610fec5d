package model

import "time"

type Tweet struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type Reply struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	TweetID   string    `json:"tweet_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
