package repo

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"social-graph/model"
)

// runStoreContract exercises the behaviour every Store implementation must share.
func runStoreContract(t *testing.T, newStore func(t *testing.T) Store) {
	ctx := context.Background()

	t.Run("users are unique by username and email", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "alice")

		dupName := &model.User{Username: a.Username, Email: "other-" + a.Email}
		assert.ErrorIs(t, s.CreateUser(ctx, dupName), ErrDuplicateUser)

		dupEmail := &model.User{Username: "other" + a.Username, Email: a.Email}
		assert.ErrorIs(t, s.CreateUser(ctx, dupEmail), ErrDuplicateUser)

		got, err := s.UserByUsername(ctx, a.Username)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)

		got, err = s.UserByEmail(ctx, a.Email)
		require.NoError(t, err)
		assert.Equal(t, a.ID, got.ID)

		_, err = s.UserByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("update user and password", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "anna")
		b := seedUser(t, s, "bert")

		a.Bio = "hello"
		a.Location = "Lisbon"
		require.NoError(t, s.UpdateUser(ctx, a))

		got, err := s.UserByID(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, "hello", got.Bio)
		assert.Equal(t, "Lisbon", got.Location)

		a.Username = b.Username
		assert.ErrorIs(t, s.UpdateUser(ctx, a), ErrDuplicateUser)

		require.NoError(t, s.UpdatePassword(ctx, b.ID, "new-hash"))
		got, err = s.UserByID(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, "new-hash", got.PasswordHash)

		assert.ErrorIs(t, s.UpdatePassword(ctx, uuid.NewString(), "x"), ErrUserNotFound)
	})

	t.Run("follow is insert-if-absent", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "ann")
		b := seedUser(t, s, "bob")

		created, err := s.Follow(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = s.Follow(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.False(t, created)

		following, err := s.FollowingIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{b.ID}, following)

		followers, err := s.FollowerIDs(ctx, b.ID)
		require.NoError(t, err)
		assert.Equal(t, []string{a.ID}, followers)

		ok, err := s.IsFollowing(ctx, a.ID, b.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.IsFollowing(ctx, b.ID, a.ID)
		require.NoError(t, err)
		assert.False(t, ok)

		require.NoError(t, s.Unfollow(ctx, a.ID, b.ID))
		require.NoError(t, s.Unfollow(ctx, a.ID, b.ID))

		following, err = s.FollowingIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Empty(t, following)

		_, err = s.Follow(ctx, a.ID, uuid.NewString())
		assert.ErrorIs(t, err, ErrUserNotFound)
	})

	t.Run("concurrent follows create one edge", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "cara")
		b := seedUser(t, s, "dan")

		const n = 8
		var (
			wg      sync.WaitGroup
			mu      sync.Mutex
			created int
		)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				c, err := s.Follow(ctx, a.ID, b.ID)
				assert.NoError(t, err)
				if c {
					mu.Lock()
					created++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 1, created)
		following, err := s.FollowingIDs(ctx, a.ID)
		require.NoError(t, err)
		assert.Len(t, following, 1)
	})

	t.Run("favorite find-or-create", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "eve")
		tw := seedTweet(t, s, a.ID, "first")

		f1, created, err := s.FindOrCreateFavorite(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.True(t, created)

		f2, created, err := s.FindOrCreateFavorite(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.False(t, created)
		assert.Equal(t, f1.ID, f2.ID)

		ok, err := s.HasFavorite(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		n, err := s.DeleteFavorites(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		n, err = s.DeleteFavorites(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), n)

		_, _, err = s.FindOrCreateFavorite(ctx, a.ID, uuid.NewString())
		assert.ErrorIs(t, err, ErrTweetNotFound)
	})

	t.Run("concurrent favorites converge on one row", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "finn")
		tw := seedTweet(t, s, a.ID, "popular")

		const n = 8
		ids := make([]uuid.UUID, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				f, _, err := s.FindOrCreateFavorite(ctx, a.ID, tw.ID)
				if assert.NoError(t, err) {
					ids[i] = f.ID
				}
			}(i)
		}
		wg.Wait()

		for _, id := range ids {
			assert.Equal(t, ids[0], id)
		}
		favs, err := s.FavoritesByTweets(ctx, []string{tw.ID})
		require.NoError(t, err)
		assert.Len(t, favs, 1)
	})

	t.Run("tweets by authors are newest first", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "gus")
		b := seedUser(t, s, "hal")
		c := seedUser(t, s, "ivy")

		base := time.Now().UTC().Add(-time.Hour)
		t1 := seedTweetAt(t, s, a.ID, "a1", base)
		t2 := seedTweetAt(t, s, b.ID, "b1", base.Add(time.Minute))
		t3 := seedTweetAt(t, s, a.ID, "a2", base.Add(2*time.Minute))
		seedTweetAt(t, s, c.ID, "c1", base.Add(3*time.Minute))

		tweets, err := s.TweetsByAuthors(ctx, []string{a.ID, b.ID})
		require.NoError(t, err)
		require.Len(t, tweets, 3)
		assert.Equal(t, []string{t3.ID, t2.ID, t1.ID}, tweetIDs(tweets))

		empty, err := s.TweetsByAuthors(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, empty)

		got, err := s.TweetByID(ctx, t2.ID)
		require.NoError(t, err)
		assert.Equal(t, "b1", got.Body)
		assert.Equal(t, b.ID, got.UserID)

		_, err = s.TweetByID(ctx, uuid.NewString())
		assert.ErrorIs(t, err, ErrTweetNotFound)
	})

	t.Run("replies", func(t *testing.T) {
		s := newStore(t)
		a := seedUser(t, s, "jon")
		b := seedUser(t, s, "kim")
		tw := seedTweet(t, s, a.ID, "question")

		r1 := &model.Reply{ID: uuid.NewString(), UserID: b.ID, TweetID: tw.ID, Body: "answer"}
		require.NoError(t, s.CreateReply(ctx, r1))

		bad := &model.Reply{ID: uuid.NewString(), UserID: b.ID, TweetID: uuid.NewString(), Body: "x"}
		assert.ErrorIs(t, s.CreateReply(ctx, bad), ErrTweetNotFound)

		replies, err := s.RepliesByTweets(ctx, []string{tw.ID})
		require.NoError(t, err)
		require.Len(t, replies, 1)
		assert.Equal(t, b.ID, replies[0].UserID)
		assert.Equal(t, "answer", replies[0].Body)
	})

	t.Run("users excluding", func(t *testing.T) {
		s := newStore(t)
		var users []*model.User
		for i := 0; i < 5; i++ {
			users = append(users, seedUser(t, s, fmt.Sprintf("user%d", i)))
		}

		got, err := s.UsersExcluding(ctx, []string{users[0].ID, users[2].ID}, 2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, u := range got {
			assert.NotEqual(t, users[0].ID, u.ID)
			assert.NotEqual(t, users[2].ID, u.ID)
		}

		all, err := s.UsersExcluding(ctx, nil, 10)
		require.NoError(t, err)
		assert.Len(t, all, 5)

		byIDs, err := s.UsersByIDs(ctx, []string{users[1].ID, users[3].ID, uuid.NewString()})
		require.NoError(t, err)
		assert.Len(t, byIDs, 2)
	})
}

var seedCounter struct {
	sync.Mutex
	n int
}

func seedUser(t *testing.T, s Store, name string) *model.User {
	t.Helper()
	seedCounter.Lock()
	seedCounter.n++
	n := seedCounter.n
	seedCounter.Unlock()

	u := &model.User{
		ID:           uuid.NewString(),
		Username:     fmt.Sprintf("%s%d%s", name, n, uuid.NewString()[:8]),
		Name:         name,
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC().Add(time.Duration(n) * time.Millisecond),
	}
	u.Email = u.Username + "@example.com"
	require.NoError(t, s.CreateUser(context.Background(), u))
	return u
}

func seedTweet(t *testing.T, s Store, userID, body string) *model.Tweet {
	return seedTweetAt(t, s, userID, body, time.Now().UTC())
}

func seedTweetAt(t *testing.T, s Store, userID, body string, at time.Time) *model.Tweet {
	t.Helper()
	id, err := uuid.NewV7()
	require.NoError(t, err)
	tw := &model.Tweet{ID: id.String(), UserID: userID, Body: body, CreatedAt: at}
	require.NoError(t, s.CreateTweet(context.Background(), tw))
	return tw
}

func tweetIDs(tweets []model.Tweet) []string {
	ids := make([]string, len(tweets))
	for i, tw := range tweets {
		ids[i] = tw.ID
	}
	return ids
}
