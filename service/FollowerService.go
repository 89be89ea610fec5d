package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"social-graph/metrics"
	"social-graph/repo"
)

var ErrInvalidIDs = invalid("followerID and followeeID must be non-empty and different")

// FollowerService owns the directed follow graph. Follow and Unfollow converge:
// repeating either leaves the same single edge (or none) and is not an error.
type FollowerService struct {
	Graph  repo.GraphStore
	Logger *zap.Logger
}

func (s *FollowerService) Follow(ctx context.Context, followerID, followeeID string) error {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" || followerID == followeeID {
		return ErrInvalidIDs
	}

	created, err := s.Graph.Follow(ctx, followerID, followeeID)
	if err != nil {
		return storeError("follow", err)
	}
	if created {
		metrics.FollowsCreated.Inc()
		s.logger().Info("user followed",
			zap.String("follower_id", followerID),
			zap.String("followee_id", followeeID),
		)
	}
	return nil
}

// Unfollow removes the edge if present. Unfollowing yourself is a no-op since
// that edge can never exist.
func (s *FollowerService) Unfollow(ctx context.Context, followerID, followeeID string) error {
	followerID = strings.TrimSpace(followerID)
	followeeID = strings.TrimSpace(followeeID)
	if followerID == "" || followeeID == "" {
		return invalid("followerID and followeeID must be non-empty")
	}
	if followerID == followeeID {
		return nil
	}
	return storeError("unfollow", s.Graph.Unfollow(ctx, followerID, followeeID))
}

func (s *FollowerService) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, invalid("missing user_id")
	}
	ids, err := s.Graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, storeError("following ids", err)
	}
	return uniqueSorted(ids), nil
}

func (s *FollowerService) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	if userID == "" {
		return nil, invalid("missing user_id")
	}
	ids, err := s.Graph.FollowerIDs(ctx, userID)
	if err != nil {
		return nil, storeError("follower ids", err)
	}
	return uniqueSorted(ids), nil
}

func (s *FollowerService) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	if followerID == "" || followeeID == "" {
		return false, invalid("followerID and followeeID must be non-empty")
	}
	ok, err := s.Graph.IsFollowing(ctx, followerID, followeeID)
	if err != nil {
		return false, storeError("is following", err)
	}
	return ok, nil
}

func (s *FollowerService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}

func uniqueSorted(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}
