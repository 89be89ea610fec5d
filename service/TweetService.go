package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"social-graph/metrics"
	"social-graph/model"
	"social-graph/repo"
)

const MaxBodyLength = 280

// TweetService publishes tweets and replies. Ids are UUIDv7 so that ordering
// by id matches insertion order within the same timestamp.
type TweetService struct {
	Tweets repo.TweetStore
	Feed   *FeedService
}

func (s *TweetService) Post(ctx context.Context, userID, body string) (*model.Tweet, error) {
	body, err := checkBody(body)
	if err != nil {
		return nil, err
	}
	if userID == "" {
		return nil, invalid("missing user_id")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	t := &model.Tweet{ID: id.String(), UserID: userID, Body: body, CreatedAt: time.Now().UTC()}
	if err := s.Tweets.CreateTweet(ctx, t); err != nil {
		return nil, storeError("post tweet", err)
	}
	metrics.TweetsPosted.Inc()
	return t, nil
}

func (s *TweetService) Reply(ctx context.Context, userID, tweetID, body string) (*model.Reply, error) {
	body, err := checkBody(body)
	if err != nil {
		return nil, err
	}
	if userID == "" || tweetID == "" {
		return nil, invalid("user_id and tweet_id are required")
	}
	id, err := uuid.NewV7()
	if err != nil {
		return nil, err
	}
	r := &model.Reply{ID: id.String(), UserID: userID, TweetID: tweetID, Body: body, CreatedAt: time.Now().UTC()}
	if err := s.Tweets.CreateReply(ctx, r); err != nil {
		return nil, storeError("reply", err)
	}
	metrics.TweetsPosted.Inc()
	return r, nil
}

// Show returns one tweet hydrated the same way timeline entries are.
func (s *TweetService) Show(ctx context.Context, viewerID, tweetID string) (*model.TweetView, error) {
	t, err := s.Tweets.TweetByID(ctx, tweetID)
	if err != nil {
		return nil, storeError("show tweet", err)
	}
	views, err := s.Feed.Hydrate(ctx, viewerID, []model.Tweet{*t})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func checkBody(body string) (string, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return "", invalid("body is required")
	}
	if utf8.RuneCountInString(body) > MaxBodyLength {
		return "", invalid("body must be at most %d characters", MaxBodyLength)
	}
	return body, nil
}
