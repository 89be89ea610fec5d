package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUsersToFollow(t *testing.T) {
	ctx := context.Background()

	t.Run("excludes self and followees", func(t *testing.T) {
		env := newTestEnv(t)
		a, b, c, d, e := env.user(t, "ra"), env.user(t, "rb"), env.user(t, "rc"), env.user(t, "rd"), env.user(t, "re")
		env.follow(t, a, b)
		env.follow(t, a, d)

		got, err := env.recs.UsersToFollow(ctx, a.ID, 0)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{c.ID, e.ID}, userIDs(got))
	})

	t.Run("never exceeds limit", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.user(t, "rf")
		for i := 0; i < 6; i++ {
			env.user(t, "rg")
		}

		got, err := env.recs.UsersToFollow(ctx, a.ID, 0)
		require.NoError(t, err)
		assert.Len(t, got, DefaultRecommendationLimit)

		got, err = env.recs.UsersToFollow(ctx, a.ID, 5)
		require.NoError(t, err)
		assert.Len(t, got, 5)
		for _, u := range got {
			assert.NotEqual(t, a.ID, u.ID)
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		env := newTestEnv(t)
		a := env.user(t, "rh")
		for i := 0; i < 5; i++ {
			env.user(t, "ri")
		}
		first, err := env.recs.UsersToFollow(ctx, a.ID, 3)
		require.NoError(t, err)
		second, err := env.recs.UsersToFollow(ctx, a.ID, 3)
		require.NoError(t, err)
		assert.Equal(t, userIDs(first), userIDs(second))
	})

	t.Run("nobody left to recommend", func(t *testing.T) {
		env := newTestEnv(t)
		a, b := env.user(t, "rj"), env.user(t, "rk")
		env.follow(t, a, b)

		got, err := env.recs.UsersToFollow(ctx, a.ID, 3)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
