package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"social-graph/repo"
	"social-graph/service"
	"social-graph/util"
)

type RouterDeps struct {
	Services Services
	Tokens   *util.TokenManager
	Store    repo.Store
	Logger   *zap.Logger
}

type httpAPI struct {
	svc    Services
	tokens *util.TokenManager
	log    *zap.Logger
}

// NewRouter builds the HTTP API. Responses use the envelope
// {"status": "success", "data": ...} or {"status": "error", "message": ...}.
func NewRouter(d RouterDeps) *gin.Engine {
	log := d.Logger
	if log == nil {
		log = zap.NewNop()
	}
	api := &httpAPI{svc: d.Services, tokens: d.Tokens, log: log}

	router := gin.New()
	router.Use(requestID())
	router.Use(ginLogger(log))
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		if d.Store != nil {
			if err := d.Store.Health(c.Request.Context()); err != nil {
				log.Warn("health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "message": "store unavailable"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r := router.Group("/api")
	r.POST("/signup", api.signup)
	r.POST("/login", api.login)
	r.GET("/profile/:username", authOptional(d.Tokens), api.showProfile)

	auth := r.Group("", authRequired(d.Tokens))
	{
		auth.GET("/account/me", api.me)
		auth.PUT("/account/update_profile", api.updateProfile)
		auth.PUT("/account/change_password", api.changePassword)

		auth.GET("/users_to_follow", api.usersToFollow)
		auth.POST("/users/follow", api.follow)
		auth.DELETE("/users/unfollow/:id", api.unfollow)
		auth.GET("/users/timeline", api.timeline)

		auth.POST("/tweets", api.postTweet)
		auth.GET("/tweets/:id", api.showTweet)
		auth.POST("/tweets/reply/:id", api.reply)
		auth.POST("/tweets/favorite", api.favorite)
		auth.DELETE("/tweets/unfavorite/:id", api.unfavorite)
	}
	return router
}

func (a *httpAPI) respondError(c *gin.Context, err error) {
	code := httpStatus(err)
	if code == http.StatusInternalServerError {
		a.log.Error("request failed", zap.Error(err), zap.String("path", c.FullPath()))
	}
	fail(c, code, httpMessage(err))
}

func (a *httpAPI) signup(c *gin.Context) {
	var in service.SignupInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.svc.Accounts.Signup(c.Request.Context(), in)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, u)
}

func (a *httpAPI) login(c *gin.Context) {
	var in struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	token, u, err := a.svc.Accounts.Login(c.Request.Context(), in.Email, in.Password)
	if err != nil {
		if httpStatus(err) == http.StatusUnauthorized {
			fail(c, http.StatusUnauthorized, "invalid email or password")
			return
		}
		a.respondError(c, err)
		return
	}
	ok(c, gin.H{"token": token, "type": "bearer", "user": u})
}

func (a *httpAPI) me(c *gin.Context) {
	p, err := a.svc.Feed.Me(c.Request.Context(), currentUserID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, p)
}

func (a *httpAPI) showProfile(c *gin.Context) {
	p, err := a.svc.Feed.ProfileByUsername(c.Request.Context(), currentUserID(c), c.Param("username"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, p)
}

func (a *httpAPI) updateProfile(c *gin.Context) {
	var in service.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := a.svc.Accounts.UpdateProfile(c.Request.Context(), currentUserID(c), in)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, u)
}

func (a *httpAPI) changePassword(c *gin.Context) {
	var in struct {
		Password    string `json:"password" binding:"required"`
		NewPassword string `json:"newPassword" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	err := a.svc.Accounts.ChangePassword(c.Request.Context(), currentUserID(c), in.Password, in.NewPassword)
	if err != nil {
		if httpStatus(err) == http.StatusUnauthorized {
			fail(c, http.StatusBadRequest, "current password could not be verified")
			return
		}
		a.respondError(c, err)
		return
	}
	ok(c, gin.H{"message": "password updated"})
}

func (a *httpAPI) usersToFollow(c *gin.Context) {
	users, err := a.svc.Recs.UsersToFollow(c.Request.Context(), currentUserID(c), 0)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, users)
}

func (a *httpAPI) follow(c *gin.Context) {
	var in struct {
		UserID string `json:"user_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	ctx := c.Request.Context()
	me := currentUserID(c)
	if err := a.svc.Followers.Follow(ctx, me, in.UserID); err != nil {
		a.respondError(c, err)
		return
	}
	a.followingIDs(c, me)
}

func (a *httpAPI) unfollow(c *gin.Context) {
	ctx := c.Request.Context()
	me := currentUserID(c)
	if err := a.svc.Followers.Unfollow(ctx, me, c.Param("id")); err != nil {
		a.respondError(c, err)
		return
	}
	a.followingIDs(c, me)
}

// followingIDs answers follow and unfollow with the caller's updated following set.
func (a *httpAPI) followingIDs(c *gin.Context, userID string) {
	ids, err := a.svc.Followers.FollowingIDs(c.Request.Context(), userID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, gin.H{"following": ids})
}

func (a *httpAPI) timeline(c *gin.Context) {
	tweets, err := a.svc.Feed.Timeline(c.Request.Context(), currentUserID(c))
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, tweets)
}

func (a *httpAPI) postTweet(c *gin.Context) {
	var in struct {
		Body string `json:"tweet" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	t, err := a.svc.Tweets.Post(c.Request.Context(), currentUserID(c), in.Body)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, t)
}

func (a *httpAPI) showTweet(c *gin.Context) {
	v, err := a.svc.Tweets.Show(c.Request.Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, v)
}

func (a *httpAPI) reply(c *gin.Context) {
	var in struct {
		Body string `json:"reply" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	r, err := a.svc.Tweets.Reply(c.Request.Context(), currentUserID(c), c.Param("id"), in.Body)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, r)
}

func (a *httpAPI) favorite(c *gin.Context) {
	var in struct {
		TweetID string `json:"tweet_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	f, err := a.svc.Favorites.Favorite(c.Request.Context(), currentUserID(c), in.TweetID)
	if err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, f)
}

func (a *httpAPI) unfavorite(c *gin.Context) {
	if err := a.svc.Favorites.Unfavorite(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		a.respondError(c, err)
		return
	}
	ok(c, nil)
}
