package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTweetService(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	a := env.user(t, "tia")

	t.Run("body limits", func(t *testing.T) {
		_, err := env.tweets.Post(ctx, a.ID, "   ")
		assert.ErrorIs(t, err, ErrInvalidOperation)

		_, err = env.tweets.Post(ctx, a.ID, strings.Repeat("x", MaxBodyLength+1))
		assert.ErrorIs(t, err, ErrInvalidOperation)

		tw, err := env.tweets.Post(ctx, a.ID, strings.Repeat("é", MaxBodyLength))
		require.NoError(t, err)
		assert.Equal(t, a.ID, tw.UserID)
	})

	t.Run("reply to unknown tweet", func(t *testing.T) {
		_, err := env.tweets.Reply(ctx, a.ID, uuid.NewString(), "hello?")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("show", func(t *testing.T) {
		tw := env.post(t, a, "look")
		_, err := env.tweets.Reply(ctx, a.ID, tw.ID, "self reply")
		require.NoError(t, err)

		v, err := env.tweets.Show(ctx, a.ID, tw.ID)
		require.NoError(t, err)
		assert.Equal(t, "look", v.Body)
		assert.Equal(t, 1, v.ReplyCount)
		require.NotNil(t, v.Author)
		assert.Equal(t, a.ID, v.Author.ID)

		_, err = env.tweets.Show(ctx, a.ID, uuid.NewString())
		assert.ErrorIs(t, err, ErrNotFound)
	})
}
