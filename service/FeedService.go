package service

import (
	"context"
	"sort"

	"golang.org/x/sync/errgroup"

	"social-graph/model"
	"social-graph/repo"
)

// FeedService assembles timelines and profile pages.
//
// Hydration depth is fixed: a tweet carries its author, favorites and replies,
// and each reply carries only its author. Every relation is loaded with one
// batched store call per level, never per tweet.
type FeedService struct {
	Users     repo.UserStore
	Graph     repo.GraphStore
	Favorites repo.FavoriteStore
	Tweets    repo.TweetStore
}

// Timeline returns every tweet written by the user or anyone they follow,
// newest first. There is no pagination.
func (s *FeedService) Timeline(ctx context.Context, userID string) ([]model.TweetView, error) {
	if userID == "" {
		return nil, invalid("missing user_id")
	}
	if _, err := s.Users.UserByID(ctx, userID); err != nil {
		return nil, storeError("timeline", err)
	}

	following, err := s.Graph.FollowingIDs(ctx, userID)
	if err != nil {
		return nil, storeError("timeline", err)
	}
	audience := uniqueSorted(append(following, userID))

	tweets, err := s.Tweets.TweetsByAuthors(ctx, audience)
	if err != nil {
		return nil, storeError("timeline", err)
	}
	tweets = filterByAuthors(tweets, audience)
	sortNewestFirst(tweets)

	return s.Hydrate(ctx, userID, tweets)
}

// Me builds the profile of the authenticated user.
func (s *FeedService) Me(ctx context.Context, userID string) (*model.Profile, error) {
	u, err := s.Users.UserByID(ctx, userID)
	if err != nil {
		return nil, storeError("profile", err)
	}
	return s.ProfileFeed(ctx, userID, u)
}

// ProfileByUsername builds another user's profile as seen by viewerID.
// viewerID may be empty for anonymous viewers.
func (s *FeedService) ProfileByUsername(ctx context.Context, viewerID, username string) (*model.Profile, error) {
	if username == "" {
		return nil, invalid("missing username")
	}
	u, err := s.Users.UserByUsername(ctx, username)
	if err != nil {
		return nil, storeError("profile", err)
	}
	return s.ProfileFeed(ctx, viewerID, u)
}

// ProfileFeed loads the target's tweets, following, followers and favorites.
// The four relation loads are independent and run concurrently.
func (s *FeedService) ProfileFeed(ctx context.Context, viewerID string, target *model.User) (*model.Profile, error) {
	var (
		own       []model.Tweet
		following []model.User
		followers []model.User
		favs      []model.Favorite
		favTweets []model.Tweet
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		own, err = s.Tweets.TweetsByAuthors(gctx, []string{target.ID})
		return err
	})
	g.Go(func() error {
		ids, err := s.Graph.FollowingIDs(gctx, target.ID)
		if err != nil {
			return err
		}
		following, err = s.Users.UsersByIDs(gctx, uniqueSorted(ids))
		return err
	})
	g.Go(func() error {
		ids, err := s.Graph.FollowerIDs(gctx, target.ID)
		if err != nil {
			return err
		}
		followers, err = s.Users.UsersByIDs(gctx, uniqueSorted(ids))
		return err
	})
	g.Go(func() error {
		var err error
		favs, err = s.Favorites.FavoritesByUser(gctx, target.ID)
		if err != nil {
			return err
		}
		ids := make([]string, 0, len(favs))
		for _, f := range favs {
			ids = append(ids, f.TweetID)
		}
		favTweets, err = s.Tweets.TweetsByIDs(gctx, uniqueSorted(ids))
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storeError("profile", err)
	}

	own = filterByAuthors(own, []string{target.ID})
	sortNewestFirst(own)

	// hydrate own and favorited tweets in one pass; they often overlap
	all := make([]model.Tweet, 0, len(own)+len(favTweets))
	all = append(all, own...)
	all = append(all, favTweets...)
	views, err := s.Hydrate(ctx, viewerID, dedupeTweets(all))
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*model.TweetView, len(views))
	for i := range views {
		byID[views[i].ID] = &views[i]
	}

	profile := &model.Profile{
		User:      *target,
		Tweets:    make([]model.TweetView, 0, len(own)),
		Following: nonNilUsers(following),
		Followers: nonNilUsers(followers),
		Favorites: make([]model.FavoriteView, 0, len(favs)),
	}
	for _, t := range own {
		profile.Tweets = append(profile.Tweets, *byID[t.ID])
	}
	for _, f := range favs {
		v, ok := byID[f.TweetID]
		if !ok {
			continue
		}
		tv := *v
		profile.Favorites = append(profile.Favorites, model.FavoriteView{Favorite: f, Tweet: &tv})
	}
	return profile, nil
}

// Hydrate attaches authors, favorites and replies to tweets, keeping their order.
// Favorited is set for viewerID.
func (s *FeedService) Hydrate(ctx context.Context, viewerID string, tweets []model.Tweet) ([]model.TweetView, error) {
	views := make([]model.TweetView, 0, len(tweets))
	if len(tweets) == 0 {
		return views, nil
	}

	tweetIDs := make([]string, 0, len(tweets))
	for _, t := range tweets {
		tweetIDs = append(tweetIDs, t.ID)
	}

	favs, err := s.Favorites.FavoritesByTweets(ctx, tweetIDs)
	if err != nil {
		return nil, storeError("hydrate favorites", err)
	}
	replies, err := s.Tweets.RepliesByTweets(ctx, tweetIDs)
	if err != nil {
		return nil, storeError("hydrate replies", err)
	}

	authorIDs := make([]string, 0, len(tweets)+len(replies))
	for _, t := range tweets {
		authorIDs = append(authorIDs, t.UserID)
	}
	for _, r := range replies {
		authorIDs = append(authorIDs, r.UserID)
	}
	users, err := s.Users.UsersByIDs(ctx, uniqueSorted(authorIDs))
	if err != nil {
		return nil, storeError("hydrate authors", err)
	}
	authors := make(map[string]*model.User, len(users))
	for i := range users {
		authors[users[i].ID] = &users[i]
	}

	favsByTweet := make(map[string][]model.Favorite)
	for _, f := range favs {
		favsByTweet[f.TweetID] = append(favsByTweet[f.TweetID], f)
	}
	repliesByTweet := make(map[string][]model.ReplyView)
	for _, r := range replies {
		repliesByTweet[r.TweetID] = append(repliesByTweet[r.TweetID], model.ReplyView{
			Reply:  r,
			Author: authors[r.UserID],
		})
	}

	for _, t := range tweets {
		tf := favsByTweet[t.ID]
		if tf == nil {
			tf = []model.Favorite{}
		}
		tr := repliesByTweet[t.ID]
		if tr == nil {
			tr = []model.ReplyView{}
		}
		favorited := false
		if viewerID != "" {
			for _, f := range tf {
				if f.UserID == viewerID {
					favorited = true
					break
				}
			}
		}
		views = append(views, model.TweetView{
			Tweet:         t,
			Author:        authors[t.UserID],
			Favorites:     tf,
			FavoriteCount: len(tf),
			Favorited:     favorited,
			Replies:       tr,
			ReplyCount:    len(tr),
		})
	}
	return views, nil
}

// sortNewestFirst orders by creation time descending, then id descending.
// Tweet ids are UUIDv7, so the id tie-break follows insertion order.
func sortNewestFirst(tweets []model.Tweet) {
	sort.SliceStable(tweets, func(i, j int) bool {
		if !tweets[i].CreatedAt.Equal(tweets[j].CreatedAt) {
			return tweets[i].CreatedAt.After(tweets[j].CreatedAt)
		}
		return tweets[i].ID > tweets[j].ID
	})
}

func filterByAuthors(tweets []model.Tweet, authorIDs []string) []model.Tweet {
	allowed := make(map[string]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		allowed[id] = struct{}{}
	}
	out := tweets[:0]
	for _, t := range tweets {
		if _, ok := allowed[t.UserID]; ok {
			out = append(out, t)
		}
	}
	return out
}

func dedupeTweets(tweets []model.Tweet) []model.Tweet {
	seen := make(map[string]struct{}, len(tweets))
	out := make([]model.Tweet, 0, len(tweets))
	for _, t := range tweets {
		if _, ok := seen[t.ID]; ok {
			continue
		}
		seen[t.ID] = struct{}{}
		out = append(out, t)
	}
	return out
}

func nonNilUsers(users []model.User) []model.User {
	if users == nil {
		return []model.User{}
	}
	return users
}
