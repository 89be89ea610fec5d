package repo

import (
	"context"
	"errors"

	"social-graph/model"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrTweetNotFound = errors.New("tweet not found")
	ErrDuplicateUser = errors.New("username or email already taken")
)

// Store is the entity store the graph, ledger and feed services run against.
// Follow and FindOrCreateFavorite must be atomic insert-if-absent operations:
// concurrent calls for the same pair converge on a single row.
type Store interface {
	UserStore
	GraphStore
	FavoriteStore
	TweetStore

	Health(ctx context.Context) error
	Close(ctx context.Context) error
}

type UserStore interface {
	CreateUser(ctx context.Context, u *model.User) error
	UpdateUser(ctx context.Context, u *model.User) error
	UpdatePassword(ctx context.Context, userID, passwordHash string) error
	UserByID(ctx context.Context, id string) (*model.User, error)
	UserByUsername(ctx context.Context, username string) (*model.User, error)
	UserByEmail(ctx context.Context, email string) (*model.User, error)
	// UsersByIDs skips unknown ids; order is unspecified.
	UsersByIDs(ctx context.Context, ids []string) ([]model.User, error)
	// UsersExcluding returns at most limit users whose id is not in excluded,
	// oldest account first.
	UsersExcluding(ctx context.Context, excluded []string, limit int) ([]model.User, error)
}

type GraphStore interface {
	// Follow creates the edge if absent and reports whether it did.
	Follow(ctx context.Context, followerID, followeeID string) (bool, error)
	Unfollow(ctx context.Context, followerID, followeeID string) error
	FollowingIDs(ctx context.Context, userID string) ([]string, error)
	FollowerIDs(ctx context.Context, userID string) ([]string, error)
	IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error)
}

type FavoriteStore interface {
	// FindOrCreateFavorite returns the favorite for the pair, creating it if
	// absent; created reports which happened.
	FindOrCreateFavorite(ctx context.Context, userID, tweetID string) (fav *model.Favorite, created bool, err error)
	DeleteFavorites(ctx context.Context, userID, tweetID string) (int64, error)
	HasFavorite(ctx context.Context, userID, tweetID string) (bool, error)
	FavoritesByTweets(ctx context.Context, tweetIDs []string) ([]model.Favorite, error)
	FavoritesByUser(ctx context.Context, userID string) ([]model.Favorite, error)
}

type TweetStore interface {
	CreateTweet(ctx context.Context, t *model.Tweet) error
	TweetByID(ctx context.Context, id string) (*model.Tweet, error)
	TweetsByIDs(ctx context.Context, ids []string) ([]model.Tweet, error)
	// TweetsByAuthors returns newest first, ties broken by id descending.
	TweetsByAuthors(ctx context.Context, authorIDs []string) ([]model.Tweet, error)
	CreateReply(ctx context.Context, r *model.Reply) error
	// RepliesByTweets returns oldest first.
	RepliesByTweets(ctx context.Context, tweetIDs []string) ([]model.Reply, error)
}
