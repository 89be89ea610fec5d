package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"social-graph/metrics"
	"social-graph/util"
)

const requestIDHeader = "X-Request-ID"

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// ginLogger logs every request with zap and records its duration by route.
func ginLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		metrics.ObserveRequest("http", route, strconv.Itoa(status), latency)

		if raw != "" {
			path = path + "?" + raw
		}
		log.Info("HTTP Request",
			zap.Int("status", status),
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Duration("latency", latency),
			zap.String("ip", c.ClientIP()),
			zap.String("request_id", c.GetString("request_id")),
		)
	}
}

// authRequired rejects requests without a valid bearer token. The claims are
// stored on the request context so services see the same value gRPC uses.
func authRequired(tokens *util.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, err := util.ParseBearer(c.GetHeader("Authorization"))
		if err != nil {
			fail(c, http.StatusUnauthorized, err.Error())
			return
		}
		claims, err := tokens.ValidateToken(raw)
		if err != nil {
			fail(c, http.StatusUnauthorized, "invalid token")
			return
		}
		c.Request = c.Request.WithContext(util.WithClaims(c.Request.Context(), claims))
		c.Next()
	}
}

// authOptional attaches claims when a valid token is sent and ignores it otherwise.
func authOptional(tokens *util.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if raw, err := util.ParseBearer(c.GetHeader("Authorization")); err == nil {
			if claims, err := tokens.ValidateToken(raw); err == nil {
				c.Request = c.Request.WithContext(util.WithClaims(c.Request.Context(), claims))
			}
		}
		c.Next()
	}
}

func currentUserID(c *gin.Context) string {
	if claims, ok := util.ClaimsFromContext(c.Request.Context()); ok {
		return claims.ID
	}
	return ""
}

func ok(c *gin.Context, data any) {
	c.JSON(http.StatusOK, gin.H{"status": "success", "data": data})
}

func fail(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"status": "error", "message": message})
}
