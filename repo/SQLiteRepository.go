package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"go.uber.org/zap"

	"social-graph/model"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	id            TEXT PRIMARY KEY,
	username      TEXT NOT NULL UNIQUE,
	email         TEXT NOT NULL UNIQUE,
	name          TEXT NOT NULL DEFAULT '',
	bio           TEXT NOT NULL DEFAULT '',
	location      TEXT NOT NULL DEFAULT '',
	website_url   TEXT NOT NULL DEFAULT '',
	password_hash TEXT NOT NULL DEFAULT '',
	created_at    INTEGER NOT NULL,
	updated_at    INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS tweets (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	body       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tweets_user ON tweets(user_id, created_at);

CREATE TABLE IF NOT EXISTS replies (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	tweet_id   TEXT NOT NULL REFERENCES tweets(id),
	body       TEXT NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_replies_tweet ON replies(tweet_id, created_at);

CREATE TABLE IF NOT EXISTS favorites (
	id         TEXT PRIMARY KEY,
	user_id    TEXT NOT NULL REFERENCES users(id),
	tweet_id   TEXT NOT NULL REFERENCES tweets(id),
	created_at INTEGER NOT NULL,
	UNIQUE (user_id, tweet_id)
);
CREATE INDEX IF NOT EXISTS idx_favorites_tweet ON favorites(tweet_id);

CREATE TABLE IF NOT EXISTS follows (
	id          TEXT NOT NULL,
	follower_id TEXT NOT NULL REFERENCES users(id),
	followee_id TEXT NOT NULL REFERENCES users(id),
	created_at  INTEGER NOT NULL,
	PRIMARY KEY (follower_id, followee_id),
	CHECK (follower_id <> followee_id)
);
CREATE INDEX IF NOT EXISTS idx_follows_followee ON follows(followee_id);
`

const (
	userColumns     = `id, username, email, name, bio, location, website_url, password_hash, created_at, updated_at`
	tweetColumns    = `id, user_id, body, created_at`
	replyColumns    = `id, user_id, tweet_id, body, created_at`
	favoriteColumns = `id, user_id, tweet_id, created_at`
)

// SQLiteRepository is the single-node Store. Every write runs in an IMMEDIATE
// transaction, so insert-if-absent sequences are serialized by SQLite's write lock.
type SQLiteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

func NewSQLiteRepository(path string, logger *zap.Logger) (*SQLiteRepository, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	dsn := "file:" + path + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(10000)&_pragma=synchronous(NORMAL)&_pragma=foreign_keys(ON)&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	logger.Info("SQLite store ready", zap.String("path", path))
	return &SQLiteRepository{db: db, logger: logger}, nil
}

func (r *SQLiteRepository) Close(ctx context.Context) error {
	return r.db.Close()
}

func (r *SQLiteRepository) Health(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

func (r *SQLiteRepository) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// --- users ---

func (r *SQLiteRepository) CreateUser(ctx context.Context, u *model.User) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	u.UpdatedAt = now

	res, err := r.db.ExecContext(ctx,
		`INSERT INTO users (`+userColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ON CONFLICT DO NOTHING`,
		u.ID, u.Username, u.Email, u.Name, u.Bio, u.Location, u.WebsiteURL, u.PasswordHash,
		toNanos(u.CreatedAt), toNanos(u.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrDuplicateUser
	}
	return nil
}

func (r *SQLiteRepository) UpdateUser(ctx context.Context, u *model.User) error {
	u.UpdatedAt = time.Now().UTC()
	return r.withTx(ctx, func(tx *sql.Tx) error {
		var taken int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE (username = ? OR email = ?) AND id <> ?`,
			u.Username, u.Email, u.ID,
		).Scan(&taken)
		if err != nil {
			return fmt.Errorf("check user uniqueness: %w", err)
		}
		if taken > 0 {
			return ErrDuplicateUser
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET username = ?, email = ?, name = ?, bio = ?, location = ?, website_url = ?, updated_at = ? WHERE id = ?`,
			u.Username, u.Email, u.Name, u.Bio, u.Location, u.WebsiteURL, toNanos(u.UpdatedAt), u.ID,
		)
		if err != nil {
			return fmt.Errorf("update user: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}

func (r *SQLiteRepository) UpdatePassword(ctx context.Context, userID, passwordHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		passwordHash, toNanos(time.Now()), userID,
	)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *SQLiteRepository) UserByID(ctx context.Context, id string) (*model.User, error) {
	return r.userWhere(ctx, "id = ?", id)
}

func (r *SQLiteRepository) UserByUsername(ctx context.Context, username string) (*model.User, error) {
	return r.userWhere(ctx, "username = ?", username)
}

func (r *SQLiteRepository) UserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.userWhere(ctx, "email = ?", email)
}

func (r *SQLiteRepository) userWhere(ctx context.Context, cond string, arg any) (*model.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+cond, arg)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) UsersByIDs(ctx context.Context, ids []string) ([]model.User, error) {
	if len(ids) == 0 {
		return []model.User{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id IN (`+placeholders(len(ids))+`) ORDER BY created_at, id`,
		stringArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return collectUsers(rows)
}

func (r *SQLiteRepository) UsersExcluding(ctx context.Context, excluded []string, limit int) ([]model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users`
	args := stringArgs(excluded)
	if len(excluded) > 0 {
		query += ` WHERE id NOT IN (` + placeholders(len(excluded)) + `)`
	}
	query += ` ORDER BY created_at, id LIMIT ?`
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list users to follow: %w", err)
	}
	return collectUsers(rows)
}

// --- follow graph ---

func (r *SQLiteRepository) Follow(ctx context.Context, followerID, followeeID string) (bool, error) {
	var created bool
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		var n int
		err := tx.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM users WHERE id IN (?, ?)`, followerID, followeeID,
		).Scan(&n)
		if err != nil {
			return fmt.Errorf("check users: %w", err)
		}
		if n != 2 {
			return ErrUserNotFound
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO follows (id, follower_id, followee_id, created_at) VALUES (?, ?, ?, ?)
			 ON CONFLICT (follower_id, followee_id) DO NOTHING`,
			uuid.NewString(), followerID, followeeID, toNanos(time.Now()),
		)
		if err != nil {
			return fmt.Errorf("insert follow: %w", err)
		}
		affected, _ := res.RowsAffected()
		created = affected == 1
		return nil
	})
	return created, err
}

func (r *SQLiteRepository) Unfollow(ctx context.Context, followerID, followeeID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID,
	)
	if err != nil {
		return fmt.Errorf("delete follow: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FollowingIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT followee_id FROM follows WHERE follower_id = ? ORDER BY followee_id`, userID)
}

func (r *SQLiteRepository) FollowerIDs(ctx context.Context, userID string) ([]string, error) {
	return r.queryIDs(ctx, `SELECT follower_id FROM follows WHERE followee_id = ? ORDER BY follower_id`, userID)
}

func (r *SQLiteRepository) IsFollowing(ctx context.Context, followerID, followeeID string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM follows WHERE follower_id = ? AND followee_id = ?`, followerID, followeeID)
}

// --- favorites ---

func (r *SQLiteRepository) FindOrCreateFavorite(ctx context.Context, userID, tweetID string) (*model.Favorite, bool, error) {
	var (
		fav     *model.Favorite
		created bool
	)
	err := r.withTx(ctx, func(tx *sql.Tx) error {
		if ok, err := txExists(ctx, tx, `SELECT 1 FROM tweets WHERE id = ?`, tweetID); err != nil {
			return err
		} else if !ok {
			return ErrTweetNotFound
		}
		if ok, err := txExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, userID); err != nil {
			return err
		} else if !ok {
			return ErrUserNotFound
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO favorites (`+favoriteColumns+`) VALUES (?, ?, ?, ?)
			 ON CONFLICT (user_id, tweet_id) DO NOTHING`,
			uuid.NewString(), userID, tweetID, toNanos(time.Now()),
		)
		if err != nil {
			return fmt.Errorf("insert favorite: %w", err)
		}
		affected, _ := res.RowsAffected()
		created = affected == 1

		row := tx.QueryRowContext(ctx,
			`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? AND tweet_id = ?`, userID, tweetID,
		)
		fav, err = scanFavorite(row)
		if err != nil {
			return fmt.Errorf("read favorite: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return fav, created, nil
}

func (r *SQLiteRepository) DeleteFavorites(ctx context.Context, userID, tweetID string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM favorites WHERE user_id = ? AND tweet_id = ?`, userID, tweetID,
	)
	if err != nil {
		return 0, fmt.Errorf("delete favorites: %w", err)
	}
	n, _ := res.RowsAffected()
	return n, nil
}

func (r *SQLiteRepository) HasFavorite(ctx context.Context, userID, tweetID string) (bool, error) {
	return r.exists(ctx, `SELECT 1 FROM favorites WHERE user_id = ? AND tweet_id = ?`, userID, tweetID)
}

func (r *SQLiteRepository) FavoritesByTweets(ctx context.Context, tweetIDs []string) ([]model.Favorite, error) {
	if len(tweetIDs) == 0 {
		return []model.Favorite{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE tweet_id IN (`+placeholders(len(tweetIDs))+`) ORDER BY created_at, id`,
		stringArgs(tweetIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list favorites: %w", err)
	}
	return collectFavorites(rows)
}

func (r *SQLiteRepository) FavoritesByUser(ctx context.Context, userID string) ([]model.Favorite, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+favoriteColumns+` FROM favorites WHERE user_id = ? ORDER BY created_at DESC, id DESC`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list user favorites: %w", err)
	}
	return collectFavorites(rows)
}

// --- tweets & replies ---

func (r *SQLiteRepository) CreateTweet(ctx context.Context, t *model.Tweet) error {
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if ok, err := txExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, t.UserID); err != nil {
			return err
		} else if !ok {
			return ErrUserNotFound
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO tweets (`+tweetColumns+`) VALUES (?, ?, ?, ?)`,
			t.ID, t.UserID, t.Body, toNanos(t.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert tweet: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) TweetByID(ctx context.Context, id string) (*model.Tweet, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+tweetColumns+` FROM tweets WHERE id = ?`, id)
	t, err := scanTweet(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTweetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan tweet: %w", err)
	}
	return t, nil
}

func (r *SQLiteRepository) TweetsByIDs(ctx context.Context, ids []string) ([]model.Tweet, error) {
	if len(ids) == 0 {
		return []model.Tweet{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tweetColumns+` FROM tweets WHERE id IN (`+placeholders(len(ids))+`) ORDER BY created_at DESC, id DESC`,
		stringArgs(ids)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list tweets: %w", err)
	}
	return collectTweets(rows)
}

func (r *SQLiteRepository) TweetsByAuthors(ctx context.Context, authorIDs []string) ([]model.Tweet, error) {
	if len(authorIDs) == 0 {
		return []model.Tweet{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+tweetColumns+` FROM tweets WHERE user_id IN (`+placeholders(len(authorIDs))+`) ORDER BY created_at DESC, id DESC`,
		stringArgs(authorIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list tweets by authors: %w", err)
	}
	return collectTweets(rows)
}

func (r *SQLiteRepository) CreateReply(ctx context.Context, rp *model.Reply) error {
	if rp.CreatedAt.IsZero() {
		rp.CreatedAt = time.Now().UTC()
	}
	return r.withTx(ctx, func(tx *sql.Tx) error {
		if ok, err := txExists(ctx, tx, `SELECT 1 FROM tweets WHERE id = ?`, rp.TweetID); err != nil {
			return err
		} else if !ok {
			return ErrTweetNotFound
		}
		if ok, err := txExists(ctx, tx, `SELECT 1 FROM users WHERE id = ?`, rp.UserID); err != nil {
			return err
		} else if !ok {
			return ErrUserNotFound
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO replies (`+replyColumns+`) VALUES (?, ?, ?, ?, ?)`,
			rp.ID, rp.UserID, rp.TweetID, rp.Body, toNanos(rp.CreatedAt),
		)
		if err != nil {
			return fmt.Errorf("insert reply: %w", err)
		}
		return nil
	})
}

func (r *SQLiteRepository) RepliesByTweets(ctx context.Context, tweetIDs []string) ([]model.Reply, error) {
	if len(tweetIDs) == 0 {
		return []model.Reply{}, nil
	}
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+replyColumns+` FROM replies WHERE tweet_id IN (`+placeholders(len(tweetIDs))+`) ORDER BY created_at, id`,
		stringArgs(tweetIDs)...,
	)
	if err != nil {
		return nil, fmt.Errorf("list replies: %w", err)
	}
	defer rows.Close()

	replies := []model.Reply{}
	for rows.Next() {
		var (
			rp      model.Reply
			created int64
		)
		if err := rows.Scan(&rp.ID, &rp.UserID, &rp.TweetID, &rp.Body, &created); err != nil {
			return nil, fmt.Errorf("scan reply: %w", err)
		}
		rp.CreatedAt = fromNanos(created)
		replies = append(replies, rp)
	}
	return replies, rows.Err()
}

// --- helpers ---

func (r *SQLiteRepository) queryIDs(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ids: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *SQLiteRepository) exists(ctx context.Context, query string, args ...any) (bool, error) {
	var one int
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

func txExists(ctx context.Context, tx *sql.Tx, query string, args ...any) (bool, error) {
	var one int
	err := tx.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("exists query: %w", err)
	}
	return true, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*model.User, error) {
	var (
		u                model.User
		created, updated int64
	)
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.Name, &u.Bio, &u.Location, &u.WebsiteURL,
		&u.PasswordHash, &created, &updated)
	if err != nil {
		return nil, err
	}
	u.CreatedAt = fromNanos(created)
	u.UpdatedAt = fromNanos(updated)
	return &u, nil
}

func scanTweet(row rowScanner) (*model.Tweet, error) {
	var (
		t       model.Tweet
		created int64
	)
	if err := row.Scan(&t.ID, &t.UserID, &t.Body, &created); err != nil {
		return nil, err
	}
	t.CreatedAt = fromNanos(created)
	return &t, nil
}

func scanFavorite(row rowScanner) (*model.Favorite, error) {
	var (
		f       model.Favorite
		id      string
		created int64
	)
	if err := row.Scan(&id, &f.UserID, &f.TweetID, &created); err != nil {
		return nil, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("favorite id %q: %w", id, err)
	}
	f.ID = parsed
	f.CreatedAt = fromNanos(created)
	return &f, nil
}

func collectUsers(rows *sql.Rows) ([]model.User, error) {
	defer rows.Close()
	users := []model.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

func collectTweets(rows *sql.Rows) ([]model.Tweet, error) {
	defer rows.Close()
	tweets := []model.Tweet{}
	for rows.Next() {
		t, err := scanTweet(rows)
		if err != nil {
			return nil, fmt.Errorf("scan tweet: %w", err)
		}
		tweets = append(tweets, *t)
	}
	return tweets, rows.Err()
}

func collectFavorites(rows *sql.Rows) ([]model.Favorite, error) {
	defer rows.Close()
	favs := []model.Favorite{}
	for rows.Next() {
		f, err := scanFavorite(rows)
		if err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		favs = append(favs, *f)
	}
	return favs, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?, ", n), ", ")
}

func stringArgs(vals []string) []any {
	args := make([]any, len(vals))
	for i, v := range vals {
		args[i] = v
	}
	return args
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}
