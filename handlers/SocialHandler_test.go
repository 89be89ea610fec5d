package handlers

import (
	"context"
	"net"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	socialpb "social-graph/proto/social"
)

func startGRPC(t *testing.T, f *fixture) *socialpb.SocialServiceClient {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(
		LoggingInterceptor(zap.NewNop()),
		AuthInterceptor(f.tokens),
	))
	socialpb.RegisterSocialServiceServer(srv, NewSocialHandler(f.svc, zap.NewNop()))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return socialpb.NewSocialServiceClient(conn)
}

func as(a account) context.Context {
	return metadata.AppendToOutgoingContext(context.Background(), "authorization", "Bearer "+a.Token)
}

func TestSocialHandlerGRPC(t *testing.T) {
	f := newFixture(t)
	client := startGRPC(t, f)
	alice, bob, carol := f.signup(t, "alice"), f.signup(t, "bob"), f.signup(t, "carol")

	t.Run("ping needs no token", func(t *testing.T) {
		resp, err := client.Ping(context.Background(), &socialpb.PingRequest{})
		require.NoError(t, err)
		assert.Equal(t, "pong", resp.Message)
	})

	t.Run("missing token", func(t *testing.T) {
		_, err := client.Timeline(context.Background(), &socialpb.UserRequest{})
		assert.Equal(t, codes.Unauthenticated, status.Code(err))
	})

	t.Run("follow and list", func(t *testing.T) {
		_, err := client.Follow(as(alice), &socialpb.FollowRequest{FolloweeId: bob.ID})
		require.NoError(t, err)
		_, err = client.Follow(as(alice), &socialpb.FollowRequest{FolloweeId: bob.ID})
		require.NoError(t, err)

		resp, err := client.FollowingIds(as(alice), &socialpb.UserRequest{})
		require.NoError(t, err)
		assert.Equal(t, []string{bob.ID}, resp.Ids)

		followers, err := client.FollowerIds(as(alice), &socialpb.UserRequest{UserId: bob.ID})
		require.NoError(t, err)
		assert.Equal(t, []string{alice.ID}, followers.Ids)

		is, err := client.IsFollowing(as(carol), &socialpb.FollowRequest{FollowerId: alice.ID, FolloweeId: bob.ID})
		require.NoError(t, err)
		assert.True(t, is.Following)
	})

	t.Run("error codes", func(t *testing.T) {
		_, err := client.Follow(as(alice), &socialpb.FollowRequest{FolloweeId: alice.ID})
		assert.Equal(t, codes.InvalidArgument, status.Code(err))

		_, err = client.Follow(as(alice), &socialpb.FollowRequest{FolloweeId: uuid.NewString()})
		assert.Equal(t, codes.NotFound, status.Code(err))

		_, err = client.Follow(as(alice), &socialpb.FollowRequest{FollowerId: bob.ID, FolloweeId: carol.ID})
		assert.Equal(t, codes.PermissionDenied, status.Code(err))
	})

	t.Run("timeline with favorites", func(t *testing.T) {
		tweet, err := client.PostTweet(as(bob), &socialpb.PostTweetRequest{Body: "hello grpc"})
		require.NoError(t, err)

		fav1, err := client.Favorite(as(alice), &socialpb.FavoriteRequest{TweetId: tweet.Tweet.ID})
		require.NoError(t, err)
		fav2, err := client.Favorite(as(alice), &socialpb.FavoriteRequest{TweetId: tweet.Tweet.ID})
		require.NoError(t, err)
		assert.Equal(t, fav1.Favorite.ID, fav2.Favorite.ID)

		_, err = client.Reply(as(carol), &socialpb.ReplyRequest{TweetId: tweet.Tweet.ID, Body: "hi bob"})
		require.NoError(t, err)

		tl, err := client.Timeline(as(alice), &socialpb.UserRequest{})
		require.NoError(t, err)
		require.Len(t, tl.Tweets, 1)
		got := tl.Tweets[0]
		assert.Equal(t, tweet.Tweet.ID, got.ID)
		assert.True(t, got.Favorited)
		assert.Equal(t, 1, got.FavoriteCount)
		require.Len(t, got.Replies, 1)
		require.NotNil(t, got.Replies[0].Author)
		assert.Equal(t, carol.Username, got.Replies[0].Author.Username)

		_, err = client.Unfavorite(as(alice), &socialpb.FavoriteRequest{TweetId: tweet.Tweet.ID})
		require.NoError(t, err)
		isFav, err := client.IsFavorited(as(alice), &socialpb.FavoriteRequest{TweetId: tweet.Tweet.ID})
		require.NoError(t, err)
		assert.False(t, isFav.Favorited)
	})

	t.Run("profile and recommendations", func(t *testing.T) {
		p, err := client.Profile(context.Background(), &socialpb.ProfileRequest{Username: bob.Username})
		require.NoError(t, err)
		assert.Equal(t, bob.ID, p.Profile.ID)
		require.Len(t, p.Profile.Followers, 1)
		assert.Equal(t, alice.ID, p.Profile.Followers[0].ID)

		_, err = client.Profile(context.Background(), &socialpb.ProfileRequest{Username: "ghost"})
		assert.Equal(t, codes.NotFound, status.Code(err))

		recs, err := client.UsersToFollow(as(alice), &socialpb.UsersToFollowRequest{})
		require.NoError(t, err)
		require.Len(t, recs.Users, 1)
		assert.Equal(t, carol.ID, recs.Users[0].ID)

		me, err := client.Me(as(carol), &socialpb.UserRequest{})
		require.NoError(t, err)
		assert.Equal(t, carol.Username, me.Profile.Username)
	})

	t.Run("unfollow converges", func(t *testing.T) {
		_, err := client.Unfollow(as(alice), &socialpb.FollowRequest{FolloweeId: bob.ID})
		require.NoError(t, err)
		_, err = client.Unfollow(as(alice), &socialpb.FollowRequest{FolloweeId: bob.ID})
		require.NoError(t, err)

		resp, err := client.FollowingIds(as(alice), &socialpb.UserRequest{})
		require.NoError(t, err)
		assert.Empty(t, resp.Ids)
	})
}
