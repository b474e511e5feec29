package router

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/preneur/storefront-api/pkg/auth"
	"github.com/preneur/storefront-api/pkg/global"
	"github.com/preneur/storefront-api/pkg/models"
)

const (
	contextUserID = "userID"
	contextRole   = "role"
)

// RequestIDMiddleware tags every request with an X-Request-ID, generating one
// when the client did not send its own, so log lines can be correlated.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("requestID", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// AuthMiddleware requires a valid Bearer access token and stores the caller's
// identity on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Authentication required", nil))
			c.Abort()
			return
		}

		userID, err := claims.Subject()
		if err != nil {
			c.JSON(http.StatusUnauthorized, global.ErrorResponse("Invalid token", nil))
			c.Abort()
			return
		}

		c.Set(contextUserID, userID)
		c.Set(contextRole, claims.Role)
		c.Next()
	}
}

// AdminMiddleware runs after AuthMiddleware and rejects non-admin callers.
func AdminMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(contextRole) != models.RoleAdmin {
			c.JSON(http.StatusForbidden, global.ErrorResponse("Admin access required", nil))
			c.Abort()
			return
		}
		c.Next()
	}
}

// OptionalAuthMiddleware attaches the caller's identity when a valid token is
// present but lets anonymous requests through. Used by product browsing,
// where authenticated searches additionally feed search history.
func OptionalAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, ok := bearerClaims(c); ok {
			if userID, err := claims.Subject(); err == nil {
				c.Set(contextUserID, userID)
				c.Set(contextRole, claims.Role)
			}
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context) (*auth.Claims, bool) {
	header := c.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return nil, false
	}

	claims, err := auth.ParseAccessToken(token)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// currentUserID returns the authenticated caller's ID. Only valid behind
// AuthMiddleware.
func currentUserID(c *gin.Context) bson.ObjectID {
	return c.MustGet(contextUserID).(bson.ObjectID)
}
