package handlers

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"

	socialpb "social-graph/proto/social"
	"social-graph/service"
	"social-graph/util"
)

// Services bundles what the transports call into.
type Services struct {
	Followers *service.FollowerService
	Favorites *service.FavoriteService
	Feed      *service.FeedService
	Recs      *service.RecommendationService
	Accounts  *service.AccountService
	Tweets    *service.TweetService
}

// SocialHandler serves social.SocialService over gRPC. Graph methods live in
// this file, feed and ledger methods in FeedHandler.go.
type SocialHandler struct {
	socialpb.UnimplementedSocialServiceServer
	Svc    Services
	Logger *zap.Logger
}

func NewSocialHandler(svc Services, logger *zap.Logger) *SocialHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SocialHandler{Svc: svc, Logger: logger}
}

// actingUser resolves who a request acts for. With claims in the context the
// request may omit the id or repeat it, but not name someone else.
func actingUser(ctx context.Context, requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	claims, ok := util.ClaimsFromContext(ctx)
	if !ok {
		if requested == "" {
			return "", service.ErrUnauthenticated
		}
		return requested, nil
	}
	if requested != "" && requested != claims.ID {
		return "", errForbidden
	}
	return claims.ID, nil
}

func (h *SocialHandler) Ping(ctx context.Context, _ *socialpb.PingRequest) (*socialpb.PingResponse, error) {
	return &socialpb.PingResponse{Message: "pong"}, nil
}

func (h *SocialHandler) Follow(ctx context.Context, req *socialpb.FollowRequest) (*emptypb.Empty, error) {
	followerID, err := actingUser(ctx, req.FollowerId)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := h.Svc.Followers.Follow(ctx, followerID, req.FolloweeId); err != nil {
		return nil, h.fail(err)
	}
	return &emptypb.Empty{}, nil
}

func (h *SocialHandler) Unfollow(ctx context.Context, req *socialpb.FollowRequest) (*emptypb.Empty, error) {
	followerID, err := actingUser(ctx, req.FollowerId)
	if err != nil {
		return nil, h.fail(err)
	}
	if err := h.Svc.Followers.Unfollow(ctx, followerID, req.FolloweeId); err != nil {
		return nil, h.fail(err)
	}
	return &emptypb.Empty{}, nil
}

// FollowingIds and FollowerIds are readable for any user id.
func (h *SocialHandler) FollowingIds(ctx context.Context, req *socialpb.UserRequest) (*socialpb.IdsResponse, error) {
	userID, err := lookupUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	ids, err := h.Svc.Followers.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.IdsResponse{Ids: ids}, nil
}

func (h *SocialHandler) FollowerIds(ctx context.Context, req *socialpb.UserRequest) (*socialpb.IdsResponse, error) {
	userID, err := lookupUser(ctx, req.UserId)
	if err != nil {
		return nil, h.fail(err)
	}
	ids, err := h.Svc.Followers.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.IdsResponse{Ids: ids}, nil
}

func (h *SocialHandler) IsFollowing(ctx context.Context, req *socialpb.FollowRequest) (*socialpb.IsFollowingResponse, error) {
	followerID, err := lookupUser(ctx, req.FollowerId)
	if err != nil {
		return nil, h.fail(err)
	}
	ok, err := h.Svc.Followers.IsFollowing(ctx, followerID, req.FolloweeId)
	if err != nil {
		return nil, h.fail(err)
	}
	return &socialpb.IsFollowingResponse{Following: ok}, nil
}

// lookupUser is actingUser for reads: any explicit id is allowed, an empty
// one falls back to the caller.
func lookupUser(ctx context.Context, requested string) (string, error) {
	if requested = strings.TrimSpace(requested); requested != "" {
		return requested, nil
	}
	return actingUser(ctx, "")
}

func (h *SocialHandler) fail(err error) error {
	st := grpcError(err)
	if status.Code(st) == codes.Internal {
		h.Logger.Error("request failed", zap.Error(err))
	}
	return st
}
