package repo

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"social-graph/model"
)

func getStringFromRecord(record *neo4j.Record, key string) string {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

func getInt64FromRecord(record *neo4j.Record, key string) int64 {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return 0
	}
	switch v := val.(type) {
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

func getBoolFromRecord(record *neo4j.Record, key string) bool {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return false
	}
	b, _ := val.(bool)
	return b
}

func getTimeFromRecord(record *neo4j.Record, key string) time.Time {
	val, ok := record.Get(key)
	if !ok || val == nil {
		return time.Time{}
	}
	return toTime(val)
}

func getStringFromMap(m map[string]any, key string) string {
	if str, ok := m[key].(string); ok {
		return str
	}
	return ""
}

// toTime accepts the driver's DateTime (time.Time) and LocalDateTime values.
func toTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v.UTC()
	case neo4j.LocalDateTime:
		return v.Time().UTC()
	}
	return time.Time{}
}

func userFromRecord(record *neo4j.Record) model.User {
	val, _ := record.Get("user")
	m, _ := val.(map[string]any)
	return model.User{
		ID:           getStringFromMap(m, "id"),
		Username:     getStringFromMap(m, "username"),
		Email:        getStringFromMap(m, "email"),
		Name:         getStringFromMap(m, "name"),
		Bio:          getStringFromMap(m, "bio"),
		Location:     getStringFromMap(m, "location"),
		WebsiteURL:   getStringFromMap(m, "website_url"),
		PasswordHash: getStringFromMap(m, "password_hash"),
		CreatedAt:    toTime(m["created_at"]),
		UpdatedAt:    toTime(m["updated_at"]),
	}
}

func usersFromRecords(records []*neo4j.Record) []model.User {
	users := make([]model.User, 0, len(records))
	for _, rec := range records {
		users = append(users, userFromRecord(rec))
	}
	return users
}

func tweetFromRecord(record *neo4j.Record) model.Tweet {
	return model.Tweet{
		ID:        getStringFromRecord(record, "id"),
		UserID:    getStringFromRecord(record, "user_id"),
		Body:      getStringFromRecord(record, "body"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
	}
}

func tweetsFromRecords(records []*neo4j.Record) []model.Tweet {
	tweets := make([]model.Tweet, 0, len(records))
	for _, rec := range records {
		tweets = append(tweets, tweetFromRecord(rec))
	}
	return tweets
}

func favoriteFromRecord(record *neo4j.Record) (*model.Favorite, error) {
	raw := getStringFromRecord(record, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("favorite id %q: %w", raw, err)
	}
	return &model.Favorite{
		ID:        id,
		UserID:    getStringFromRecord(record, "user_id"),
		TweetID:   getStringFromRecord(record, "tweet_id"),
		CreatedAt: getTimeFromRecord(record, "created_at"),
	}, nil
}

func favoritesFromRecords(records []*neo4j.Record) ([]model.Favorite, error) {
	favs := make([]model.Favorite, 0, len(records))
	for _, rec := range records {
		f, err := favoriteFromRecord(rec)
		if err != nil {
			return nil, err
		}
		favs = append(favs, *f)
	}
	return favs, nil
}
