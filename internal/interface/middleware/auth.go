package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/standup-tracker/pkg/apperror"
	"github.com/oksasatya/standup-tracker/pkg/helpers"
	"github.com/oksasatya/standup-tracker/pkg/response"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserEmailKey = "userEmail"

	msgUnauthenticated = "Authentication required"
	msgInvalidToken    = "Invalid or expired token"
)

// Auth validates the access token from the accessToken cookie or an
// Authorization: Bearer header and puts userID and userEmail in the Gin context.
// Tokens issued before the user's last global sign-out are rejected.
func Auth(jwt *helpers.JWTManager, rdb *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			response.Error[any](c, http.StatusUnauthorized, apperror.CodeUnauthorized, msgUnauthenticated, nil)
			return
		}
		claims, err := jwt.ParseAccessToken(token)
		if err != nil || claims.UserID == "" {
			response.Error[any](c, http.StatusUnauthorized, apperror.CodeUnauthorized, msgInvalidToken, nil)
			return
		}

		if rdb != nil {
			revokedAt, err := helpers.UserRevokedAt(c.Request.Context(), rdb, claims.UserID)
			if err != nil {
				// fail open, same as the rate limiter
				helpers.LogWarn(logger, "revocation lookup failed", err, logrus.Fields{"user_id": claims.UserID})
			} else if !revokedAt.IsZero() && claims.IssuedAt != nil && claims.IssuedAt.Time.Before(revokedAt) {
				response.Error[any](c, http.StatusUnauthorized, apperror.CodeUnauthorized, msgInvalidToken, nil)
				return
			}
		}

		c.Set(CtxUserIDKey, claims.UserID)
		c.Set(CtxUserEmailKey, claims.Email)
		c.Next()
	}
}

// UserID returns the authenticated user id set by Auth.
func UserID(c *gin.Context) string {
	return c.GetString(CtxUserIDKey)
}

func accessToken(c *gin.Context) string {
	if v, err := c.Cookie(helpers.AccessTokenCookie); err == nil && v != "" {
		return v
	}
	h := c.GetHeader("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
