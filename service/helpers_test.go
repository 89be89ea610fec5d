package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"social-graph/model"
	"social-graph/repo"
	"social-graph/util"
)

type testEnv struct {
	store     *repo.SQLiteRepository
	followers *FollowerService
	favorites *FavoriteService
	feed      *FeedService
	recs      *RecommendationService
	accounts  *AccountService
	tweets    *TweetService
	tokens    *util.TokenManager
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := repo.NewSQLiteRepository(filepath.Join(t.TempDir(), "social.db"), zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close(context.Background()) })

	feed := &FeedService{Users: store, Graph: store, Favorites: store, Tweets: store}
	tokens := util.NewTokenManager("test-secret", time.Hour)
	return &testEnv{
		store:     store,
		followers: &FollowerService{Graph: store},
		favorites: &FavoriteService{Favorites: store},
		feed:      feed,
		recs:      &RecommendationService{Users: store, Graph: store, DefaultLimit: DefaultRecommendationLimit},
		accounts:  NewAccountService(store, util.NewBcryptHasher(4), tokens, nil),
		tweets:    &TweetService{Tweets: store, Feed: feed},
		tokens:    tokens,
	}
}

var userSeq atomic.Int64

func (e *testEnv) user(t *testing.T, name string) *model.User {
	t.Helper()
	n := userSeq.Add(1)
	u, err := e.accounts.Signup(context.Background(), SignupInput{
		Name:     name,
		Username: fmt.Sprintf("%s%04d", name, n),
		Email:    fmt.Sprintf("%s%d@example.com", name, n),
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func (e *testEnv) post(t *testing.T, u *model.User, body string) *model.Tweet {
	t.Helper()
	tw, err := e.tweets.Post(context.Background(), u.ID, body)
	require.NoError(t, err)
	return tw
}

func (e *testEnv) follow(t *testing.T, a, b *model.User) {
	t.Helper()
	require.NoError(t, e.followers.Follow(context.Background(), a.ID, b.ID))
}
