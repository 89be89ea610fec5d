package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"social-graph/metrics"
	"social-graph/model"
	"social-graph/repo"
)

// FavoriteService is the favorite ledger. Favorite is an atomic find-or-create
// in the store, so duplicate or concurrent calls return the same record.
type FavoriteService struct {
	Favorites repo.FavoriteStore
	Logger    *zap.Logger
}

func (s *FavoriteService) Favorite(ctx context.Context, userID, tweetID string) (*model.Favorite, error) {
	userID = strings.TrimSpace(userID)
	tweetID = strings.TrimSpace(tweetID)
	if userID == "" || tweetID == "" {
		return nil, invalid("user_id and tweet_id are required")
	}

	fav, created, err := s.Favorites.FindOrCreateFavorite(ctx, userID, tweetID)
	if err != nil {
		return nil, storeError("favorite", err)
	}
	if created {
		metrics.FavoritesCreated.Inc()
		s.logger().Debug("tweet favorited",
			zap.String("user_id", userID),
			zap.String("tweet_id", tweetID),
		)
	}
	return fav, nil
}

func (s *FavoriteService) Unfavorite(ctx context.Context, userID, tweetID string) error {
	userID = strings.TrimSpace(userID)
	tweetID = strings.TrimSpace(tweetID)
	if userID == "" || tweetID == "" {
		return invalid("user_id and tweet_id are required")
	}
	if _, err := s.Favorites.DeleteFavorites(ctx, userID, tweetID); err != nil {
		return storeError("unfavorite", err)
	}
	return nil
}

func (s *FavoriteService) IsFavorited(ctx context.Context, userID, tweetID string) (bool, error) {
	if userID == "" || tweetID == "" {
		return false, invalid("user_id and tweet_id are required")
	}
	ok, err := s.Favorites.HasFavorite(ctx, userID, tweetID)
	if err != nil {
		return false, storeError("is favorited", err)
	}
	return ok, nil
}

func (s *FavoriteService) logger() *zap.Logger {
	if s.Logger == nil {
		return zap.NewNop()
	}
	return s.Logger
}
