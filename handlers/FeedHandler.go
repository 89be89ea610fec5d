package handlers

import (
	"context"

	"google.golang.org/protobuf/types/known/emptypb"

	socialpb "social-graph/proto/social"
	"social-graph/util"
)

func (h *SocialHandler) Favorite(ctx context.Context, req *socialpb.FavoriteRequest) (*socialpb.FavoriteResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	fav, err := h.Svc.Favorites.Favorite(ctx, userID, req.TweetId)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.FavoriteResponse{Favorite: fav}, nil
}

func (h *SocialHandler) Unfavorite(ctx context.Context, req *socialpb.FavoriteRequest) (*emptypb.Empty, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := h.Svc.Favorites.Unfavorite(ctx, userID, req.TweetId); err != nil {
		return nil, h.fail(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *SocialHandler) IsFavorited(ctx context.Context, req *socialpb.FavoriteRequest) (*socialpb.IsFavoritedResponse, error) {
	userID, err := lookupUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	ok, err := h.Svc.Favorites.IsFavorited(ctx, userID, req.TweetId)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.IsFavoritedResponse{Favorited: ok}, nil
}

func (h *SocialHandler) Timeline(ctx context.Context, req *socialpb.UserRequest) (*socialpb.TimelineResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	tweets, err := h.Svc.Feed.Timeline(ctx, userID)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.TimelineResponse{Tweets: tweets}, nil
}

func (h *SocialHandler) Me(ctx context.Context, req *socialpb.UserRequest) (*socialpb.ProfileResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	p, err := h.Svc.Feed.Me(ctx, userID)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.ProfileResponse{Profile: p}, nil
}

func (h *SocialHandler) Profile(ctx context.Context, req *socialpb.ProfileRequest) (*socialpb.ProfileResponse, error) {
	viewerID := req.ViewerId
	if claims, ok := util.ClaimsFromContext(ctx); ok {
		viewerID = claims.ID
	}
	p, err := h.Svc.Feed.ProfileByUsername(ctx, viewerID, req.Username)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.ProfileResponse{Profile: p}, nil
}

func (h *SocialHandler) UsersToFollow(ctx context.Context, req *socialpb.UsersToFollowRequest) (*socialpb.UsersResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	users, err := h.Svc.Recs.UsersToFollow(ctx, userID, int(req.Limit))
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.UsersResponse{Users: users}, nil
}

func (h *SocialHandler) PostTweet(ctx context.Context, req *socialpb.PostTweetRequest) (*socialpb.TweetResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	t, err := h.Svc.Tweets.Post(ctx, userID, req.Body)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.TweetResponse{Tweet: t}, nil
}

func (h *SocialHandler) Reply(ctx context.Context, req *socialpb.ReplyRequest) (*socialpb.ReplyResponse, error) {
	userID, err := actingUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	r, err := h.Svc.Tweets.Reply(ctx, userID, req.TweetId, req.Body)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.ReplyResponse{Reply: r}, nil
}
