package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"social-graph/model"
)

const constraintViolation = "Neo.ClientError.Schema.ConstraintValidationFailed"

var neo4jConstraints = []string{
	`CREATE CONSTRAINT user_id IF NOT EXISTS FOR (u:User) REQUIRE u.id IS UNIQUE`,
	`CREATE CONSTRAINT user_username IF NOT EXISTS FOR (u:User) REQUIRE u.username IS UNIQUE`,
	`CREATE CONSTRAINT user_email IF NOT EXISTS FOR (u:User) REQUIRE u.email IS UNIQUE`,
	`CREATE CONSTRAINT tweet_id IF NOT EXISTS FOR (t:Tweet) REQUIRE t.id IS UNIQUE`,
	`CREATE CONSTRAINT reply_id IF NOT EXISTS FOR (r:Reply) REQUIRE r.id IS UNIQUE`,
}

// Neo4jRepository keeps users, tweets and replies as nodes and follows and
// favorites as relationships. MERGE between two matched nodes gives the
// insert-if-absent semantics Follow and FindOrCreateFavorite need.
type Neo4jRepository struct {
	driver neo4j.DriverWithContext
	logger *zap.Logger
}

func NewNeo4jRepository(uri, user, pass string, logger *zap.Logger) (*Neo4jRepository, error) {
	auth := neo4j.BasicAuth(user, pass, "")
	driver, err := neo4j.NewDriverWithContext(uri, auth)
	if err != nil {
		return nil, fmt.Errorf("create neo4j driver: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("verify neo4j connectivity: %w", err)
	}

	logger.Info("Neo4j store ready", zap.String("uri", uri))
	return &Neo4jRepository{driver: driver, logger: logger}, nil
}

func (r *Neo4jRepository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

func (r *Neo4jRepository) Health(ctx context.Context) error {
	return r.driver.VerifyConnectivity(ctx)
}

// EnsureSchema creates the uniqueness constraints the store relies on.
func (r *Neo4jRepository) EnsureSchema(ctx context.Context) error {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)

	for _, stmt := range neo4jConstraints {
		if _, err := session.Run(ctx, stmt, nil); err != nil {
			return fmt.Errorf("create constraint: %w", err)
		}
	}
	return nil
}

// --- users ---

func (r *Neo4jRepository) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		taken, err := countUsersTaken(ctx, tx, u)
		if err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, ErrDuplicateUser
		}

		const cypher = `
			CREATE (u:User {
				id: $id, username: $username, email: $email, name: $name,
				bio: $bio, location: $location, website_url: $websiteURL,
				password_hash: $passwordHash,
				created_at: datetime($createdAt), updated_at: datetime($updatedAt)
			})
		`
		params := userParams(u)
		params["passwordHash"] = u.PasswordHash
		params["createdAt"] = formatTime(u.CreatedAt)
		_, err = tx.Run(ctx, cypher, params)
		return nil, err
	})
	return mapConstraintError(err)
}

func (r *Neo4jRepository) UpdateUser(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()

	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		taken, err := countUsersTaken(ctx, tx, u)
		if err != nil {
			return nil, err
		}
		if taken > 0 {
			return nil, ErrDuplicateUser
		}

		const cypher = `
			MATCH (u:User {id: $id})
			SET u.username = $username, u.email = $email, u.name = $name,
			    u.bio = $bio, u.location = $location, u.website_url = $websiteURL,
			    u.updated_at = datetime($updatedAt)
			RETURN u.id AS id
		`
		res, err := tx.Run(ctx, cypher, userParams(u))
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if res.Err() != nil {
				return nil, res.Err()
			}
			return nil, ErrUserNotFound
		}
		return nil, nil
	})
	return mapConstraintError(err)
}

func (r *Neo4jRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		const cypher = `
			MATCH (u:User {id: $id})
			SET u.password_hash = $hash, u.updated_at = datetime($now)
			RETURN u.id AS id
		`
		res, err := tx.Run(ctx, cypher, map[string]any{
			"id":   userID,
			"hash": passwordHash,
			"now":  formatTime(time.Now()),
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if res.Err() != nil {
				return nil, res.Err()
			}
			return nil, ErrUserNotFound
		}
		return nil, nil
	})
	return err
}

func (r *Neo4jRepository) UserByID(ctx context.Context, id string) (*model.User, error) {
	return r.userWhere(ctx, "u.id = $value", id)
}

func (r *Neo4jRepository) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.userWhere(ctx, "u.username = $value", username)
}

func (r *Neo4jRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.userWhere(ctx, "u.email = $value", email)
}

func (r *Neo4jRepository) userWhere(ctx context.Context, cond, value string) (*model.User, error) {
	records, err := r.read(ctx, `MATCH (u:User) WHERE `+cond+` RETURN u {.*} AS user LIMIT 1`,
		map[string]any{"value": value})
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrUserNotFound
	}
	u := userFromRecord(records[0])
	return &u, nil
}

func (r *Neo4jRepository) UsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	records, err := r.read(ctx, `
		MATCH (u:User) WHERE u.id IN $ids
		RETURN u {.*} AS user
		ORDER BY u.created_at, u.id
	`, map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return usersFromRecords(records), nil
}

func (r *Neo4jRepository) UsersExcluding(ctx context.Context, excluded []string, limit int) ([]model.User, error) {
	if excluded == nil {
		excluded = []string{}
	}
	records, err := r.read(ctx, `
		MATCH (u:User) WHERE NOT u.id IN $excluded
		RETURN u {.*} AS user
		ORDER BY u.created_at, u.id
		LIMIT $limit
	`, map[string]any{"excluded": excluded, "limit": int64(limit)})
	if err != nil {
		return nil, fmt.Errorf("list users to follow: %w", err)
	}
	return usersFromRecords(records), nil
}

// --- follow graph ---

func (r *Neo4jRepository) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	out, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		const cypher = `
			MATCH (f:User {id: $followerID})
			MATCH (u:User {id: $followeeID})
			MERGE (f)-[r:FOLLOWS]->(u)
			ON CREATE SET r.id = $id, r.since = datetime($now)
			RETURN r.id = $id AS created
		`
		params := map[string]any{
			"followerID": followerID,
			"followeeID": followeeID,
			"id":         uuid.NewString(),
			"now":        formatTime(time.Now()),
		}

		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		// no row means one of the MATCH clauses found nothing
		if !res.Next(ctx) {
			if res.Err() != nil {
				return nil, res.Err()
			}
			return nil, ErrUserNotFound
		}
		return getBoolFromRecord(res.Record(), "created"), nil
	})
	if err != nil {
		return false, err
	}
	created := out.(bool)
	if created {
		r.logger.Debug("follow edge created",
			zap.String("follower_id", followerID),
			zap.String("followee_id", followeeID),
		)
	}
	return created, nil
}

func (r *Neo4jRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		const cypher = `
			MATCH (:User {id: $followerID})-[r:FOLLOWS]->(:User {id: $followeeID})
			DELETE r
		`
		_, err := tx.Run(ctx, cypher, map[string]any{
			"followerID": followerID,
			"followeeID": followeeID,
		})
		return nil, err
	})
	return err
}

func (r *Neo4jRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.readIDs(ctx, `
		MATCH (:User {id: $id})-[:FOLLOWS]->(u:User)
		RETURN u.id AS id ORDER BY id
	`, userID)
}

func (r *Neo4jRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.readIDs(ctx, `
		MATCH (u:User)-[:FOLLOWS]->(:User {id: $id})
		RETURN u.id AS id ORDER BY id
	`, userID)
}

func (r *Neo4jRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	records, err := r.read(ctx, `
		OPTIONAL MATCH (:User {id: $followerID})-[r:FOLLOWS]->(:User {id: $followeeID})
		RETURN count(r) > 0 AS ok
	`, map[string]any{"followerID": followerID, "followeeID": followeeID})
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return len(records) > 0 && getBoolFromRecord(records[0], "ok"), nil
}

// --- favorites ---

func (r *Neo4jRepository) FindOrCreateFavorite(ctx context.Context, userID, tweetID string) (*model.Favorite, bool, error) {
	newID := uuid.NewString()
	out, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		check, err := tx.Run(ctx, `
			OPTIONAL MATCH (t:Tweet {id: $tweetID})
			OPTIONAL MATCH (u:User {id: $userID})
			RETURN t IS NOT NULL AS tweet, u IS NOT NULL AS user
		`, map[string]any{"tweetID": tweetID, "userID": userID})
		if err != nil {
			return nil, err
		}
		rec, err := check.Single(ctx)
		if err != nil {
			return nil, err
		}
		if !getBoolFromRecord(rec, "tweet") {
			return nil, ErrTweetNotFound
		}
		if !getBoolFromRecord(rec, "user") {
			return nil, ErrUserNotFound
		}

		const cypher = `
			MATCH (u:User {id: $userID})
			MATCH (t:Tweet {id: $tweetID})
			MERGE (u)-[f:FAVORITED]->(t)
			ON CREATE SET f.id = $id, f.created_at = datetime($now)
			RETURN f.id AS id, u.id AS user_id, t.id AS tweet_id, f.created_at AS created_at
		`
		res, err := tx.Run(ctx, cypher, map[string]any{
			"userID":  userID,
			"tweetID": tweetID,
			"id":      newID,
			"now":     formatTime(time.Now()),
		})
		if err != nil {
			return nil, err
		}
		rec, err = res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return favoriteFromRecord(rec)
	})
	if err != nil {
		return nil, false, err
	}
	fav := out.(*model.Favorite)
	return fav, fav.ID.String() == newID, nil
}

func (r *Neo4jRepository) DeleteFavorites(ctx context.Context, userID, tweetID string) (int64, error) {
	out, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (:User {id: $userID})-[f:FAVORITED]->(:Tweet {id: $tweetID})
			DELETE f
			RETURN count(*) AS n
		`, map[string]any{"userID": userID, "tweetID": tweetID})
		if err != nil {
			return nil, err
		}
		rec, err := res.Single(ctx)
		if err != nil {
			return nil, err
		}
		return getInt64FromRecord(rec, "n"), nil
	})
	if err != nil {
		return 0, err
	}
	return out.(int64), nil
}

func (r *Neo4jRepository) HasFavorite(ctx context.Context, userID, tweetID string) (bool, error) {
	records, err := r.read(ctx, `
		OPTIONAL MATCH (:User {id: $userID})-[f:FAVORITED]->(:Tweet {id: $tweetID})
		RETURN count(f) > 0 AS ok
	`, map[string]any{"userID": userID, "tweetID": tweetID})
	if err != nil {
		return false, fmt.Errorf("check favorite: %w", err)
	}
	return len(records) > 0 && getBoolFromRecord(records[0], "ok"), nil
}

func (r *Neo4jRepository) FavoritesByTweets(ctx context.Context, tweetIDs []string) ([]model.Favorite, error) {
	if len(tweetIDs) == 0 {
		return []model.Favorite{}, nil
	}
	records, err := r.read(ctx, `
		MATCH (u:User)-[f:FAVORITED]->(t:Tweet) WHERE t.id IN $ids
		RETURN f.id AS id, u.id AS user_id, t.id AS tweet_id, f.created_at AS created_at
		ORDER BY f.created_at, f.id
	`, map[string]any{"ids": tweetIDs})
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return favoritesFromRecords(records)
}

func (r *Neo4jRepository) FavoritesByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	records, err := r.read(ctx, `
		MATCH (u:User {id: $id})-[f:FAVORITED]->(t:Tweet)
		RETURN f.id AS id, u.id AS user_id, t.id AS tweet_id, f.created_at AS created_at
		ORDER BY f.created_at DESC, f.id DESC
	`, map[string]any{"id": userID})
	if err != nil {
		return nil, fmt.Errorf("list user favorites: %w", err)
	}
	return favoritesFromRecords(records)
}

// --- tweets & replies ---

func (r *Neo4jRepository) CreateTweet(ctx context.Context, t *model.Tweet) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, `
			MATCH (u:User {id: $userID})
			CREATE (u)-[:POSTED]->(t:Tweet {id: $id, body: $body, created_at: datetime($createdAt)})
			RETURN t.id AS id
		`, map[string]any{
			"userID":    t.UserID,
			"id":        t.ID,
			"body":      t.Body,
			"createdAt": formatTime(t.CreatedAt),
		})
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if res.Err() != nil {
				return nil, res.Err()
			}
			return nil, ErrUserNotFound
		}
		return nil, nil
	})
	return err
}

const tweetReturn = `t.id AS id, u.id AS user_id, t.body AS body, t.created_at AS created_at`

func (r *Neo4jRepository) TweetByID(ctx context.Context, id string) (*model.Tweet, error) {
	records, err := r.read(ctx, `
		MATCH (u:User)-[:POSTED]->(t:Tweet {id: $id})
		RETURN `+tweetReturn, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("find tweet: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrTweetNotFound
	}
	t := tweetFromRecord(records[0])
	return &t, nil
}

func (r *Neo4jRepository) TweetsByIDs(ctx context.Context, ids []string) ([]model.Tweet, error) {
	if len(ids) == 0 {
		return []model.Tweet{}, nil
	}
	records, err := r.read(ctx, `
		MATCH (u:User)-[:POSTED]->(t:Tweet) WHERE t.id IN $ids
		RETURN `+tweetReturn+`
		ORDER BY created_at DESC, id DESC
	`, map[string]any{"ids": ids})
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return tweetsFromRecords(records), nil
}

func (r *Neo4jRepository) TweetsByAuthors(ctx context.Context, authorIDs []string) ([]model.Tweet, error) {
	if len(authorIDs) == 0 {
		return []model.Tweet{}, nil
	}
	records, err := r.read(ctx, `
		MATCH (u:User)-[:POSTED]->(t:Tweet) WHERE u.id IN $ids
		RETURN `+tweetReturn+`
		ORDER BY created_at DESC, id DESC
	`, map[string]any{"ids": authorIDs})
	if err != nil {
		return nil, fmt.Errorf("list tweets by authors: %w", err)
	}
	return tweetsFromRecords(records), nil
}

func (r *Neo4jRepository) CreateReply(ctx context.Context, rp *model.Reply) error {
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = time.Now().UTC()
	}
	_, err := r.write(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		check, err := tx.Run(ctx, `
			OPTIONAL MATCH (t:Tweet {id: $tweetID})
			OPTIONAL MATCH (u:User {id: $userID})
			RETURN t IS NOT NULL AS tweet, u IS NOT NULL AS user
		`, map[string]any{"tweetID": rp.TweetID, "userID": rp.UserID})
		if err != nil {
			return nil, err
		}
		rec, err := check.Single(ctx)
		if err != nil {
			return nil, err
		}
		if !getBoolFromRecord(rec, "tweet") {
			return nil, ErrTweetNotFound
		}
		if !getBoolFromRecord(rec, "user") {
			return nil, ErrUserNotFound
		}

		_, err = tx.Run(ctx, `
			MATCH (u:User {id: $userID})
			MATCH (t:Tweet {id: $tweetID})
			CREATE (u)-[:WROTE]->(r:Reply {id: $id, body: $body, created_at: datetime($createdAt)})-[:REPLY_TO]->(t)
		`, map[string]any{
			"userID":    rp.UserID,
			"tweetID":   rp.TweetID,
			"id":        rp.ID,
			"body":      rp.Body,
			"createdAt": formatTime(rp.CreatedAt),
		})
		return nil, err
	})
	return err
}

func (r *Neo4jRepository) RepliesByTweets(ctx context.Context, tweetIDs []string) ([]model.Reply, error) {
	if len(tweetIDs) == 0 {
		return []model.Reply{}, nil
	}
	records, err := r.read(ctx, `
		MATCH (u:User)-[:WROTE]->(r:Reply)-[:REPLY_TO]->(t:Tweet) WHERE t.id IN $ids
		RETURN r.id AS id, u.id AS user_id, t.id AS tweet_id, r.body AS body, r.created_at AS created_at
		ORDER BY created_at, id
	`, map[string]any{"ids": tweetIDs})
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	replies := make([]model.Reply, 0, len(records))
	for _, rec := range records {
		replies = append(replies, model.Reply{
			ID:        getStringFromRecord(rec, "id"),
			UserID:    getStringFromRecord(rec, "user_id"),
			TweetID:   getStringFromRecord(rec, "tweet_id"),
			Body:      getStringFromRecord(rec, "body"),
			CreatedAt: getTimeFromRecord(rec, "created_at"),
		})
	}
	return replies, nil
}

// --- session plumbing ---

func (r *Neo4jRepository) write(ctx context.Context, work neo4j.ManagedTransactionWork) (any, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(ctx)
	return session.ExecuteWrite(ctx, work)
}

func (r *Neo4jRepository) read(ctx context.Context, cypher string, params map[string]any) ([]*neo4j.Record, error) {
	session := r.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeRead})
	defer session.Close(ctx)

	out, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, cypher, params)
		if err != nil {
			return nil, err
		}
		return res.Collect(ctx)
	})
	if err != nil {
		return nil, err
	}
	return out.([]*neo4j.Record), nil
}

func (r *Neo4jRepository) readIDs(ctx context.Context, cypher, id string) ([]string, error) {
	records, err := r.read(ctx, cypher, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("list ids: %w", err)
	}
	ids := make([]string, 0, len(records))
	for _, rec := range records {
		ids = append(ids, getStringFromRecord(rec, "id"))
	}
	return ids, nil
}

func countUsersTaken(ctx context.Context, tx neo4j.ManagedTransaction, u *model.User) (int64, error) {
	res, err := tx.Run(ctx, `
		MATCH (x:User)
		WHERE (x.username = $username OR x.email = $email) AND x.id <> $id
		RETURN count(x) AS taken
	`, map[string]any{"username": u.Username, "email": u.Email, "id": u.ID})
	if err != nil {
		return 0, err
	}
	rec, err := res.Single(ctx)
	if err != nil {
		return 0, err
	}
	return getInt64FromRecord(rec, "taken"), nil
}

func userParams(u *model.User) map[string]any {
	return map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"name":       u.Name,
		"bio":        u.Bio,
		"location":   u.Location,
		"websiteURL": u.WebsiteURL,
		"updatedAt":  formatTime(u.UpdatedAt),
	}
}

// mapConstraintError turns a uniqueness violation that slipped past the
// pre-check (a concurrent signup) into ErrDuplicateUser.
func mapConstraintError(err error) error {
	var nerr *neo4j.Neo4jError
	if errors.As(err, &nerr) && nerr.Code == constraintViolation {
		return ErrDuplicateUser
	}
	return err
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
