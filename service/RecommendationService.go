package service

import (
	"context"

	"social-graph/model"
	"social-graph/repo"
)

const DefaultRecommendationLimit = 3

// RecommendationService suggests accounts the user does not follow yet.
type RecommendationService struct {
	Users        repo.UserStore
	Graph        repo.GraphStore
	DefaultLimit int
}

// UsersToFollow returns at most limit users, never the user themselves and
// never someone they already follow. A non-positive limit means the default.
// Selection is deterministic: oldest accounts first.
func (s *RecommendationService) UsersToFollow(ctx context.Context, userID string, limit int) ([]model.User, error) {
	if userID == "" {
		return nil, invalid("missing user_id")
	}
	if limit <= 0 {
		limit = s.DefaultLimit
	}
	if limit <= 0 {
		limit = DefaultRecommendationLimit
	}

	following, err := s.Graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, storeError("users to follow", err)
	}
	excluded := uniqueSorted(append(following, userID))

	candidates, err := s.Users.UsersExcluding(ctx, excluded, limit)
	if err != nil {
		return nil, storeError("users to follow", err)
	}

	skip := make(map[string]struct{}, len(excluded))
	for _, id := range excluded {
		skip[id] = struct{}{}
	}
	out := make([]model.User, 0, limit)
	for _, u := range candidates {
		if _, ok := skip[u.ID]; ok {
			continue
		}
		out = append(out, u)
		if len(out) == limit {
			break
		}
	}
	return out, nil
}
