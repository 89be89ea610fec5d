package handlers

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-graph/repo"
	"social-graph/service"
	"social-graph/util"
)

type fixture struct {
	store  *repo.SQLiteRepository
	svc    Services
	tokens *util.TokenManager
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store, err := repo.NewSQLiteRepository(filepath.Join(t.TempDir(), "social.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	tokens := util.NewTokenManager("handler-test-secret", time.Hour)
	feed := &service.FeedService{Users: store, Graph: store, Favorites: store, Tweets: store}
	return &fixture{
		store:  store,
		tokens: tokens,
		svc: Services{
			Followers: &service.FollowerService{Graph: store},
			Favorites: &service.FavoriteService{Favorites: store},
			Feed:      feed,
			Recs:      &service.RecommendationService{Users: store, Graph: store, DefaultLimit: 3},
			Accounts:  service.NewAccountService(store, util.NewBcryptHasher(4), tokens, nil),
			Tweets:    &service.TweetService{Tweets: store, Feed: feed},
		},
	}
}

type account struct {
	ID       string
	Username string
	Email    string
	Token    string
}

func (f *fixture) signup(t *testing.T, username string) account {
	t.Helper()
	ctx := context.Background()
	u, err := f.svc.Accounts.Signup(ctx, service.SignupInput{
		Name:     username,
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	token, _, err := f.svc.Accounts.Login(ctx, u.Email, "secret123")
	require.NoError(t, err)
	return account{ID: u.ID, Username: u.Username, Email: u.Email, Token: token}
}
