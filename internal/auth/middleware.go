package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/Niche-Job-Board/internal/apperrors"
)

const (
	CookieName = "token"

	ctxUserID = "authUserID"
	ctxRole   = "authRole"
)

// Middleware verifies the session token (cookie first, then the
// Authorization header) and attaches the identity to the request.
func Middleware(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(CookieName)
		if err != nil || token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			abort(c, apperrors.Auth("you are not logged in"))
			return
		}

		claims, err := ParseToken(secret, token)
		if err != nil {
			abort(c, apperrors.Classify(err))
			return
		}

		c.Set(ctxUserID, claims.UserID)
		c.Set(ctxRole, claims.Role)
		c.Next()
	}
}

// Identity reads the verified identity the middleware attached.
func Identity(c *gin.Context) (userID, role string) {
	return c.GetString(ctxUserID), c.GetString(ctxRole)
}

func abort(c *gin.Context, ae *apperrors.AppError) {
	c.AbortWithStatusJSON(ae.Status, gin.H{
		"status":  ae.Kind(),
		"message": ae.Message,
	})
}

// RequireRole gates a route to one role.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, got := Identity(c); got != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"status":  "fail",
				"message": "you do not have permission to perform this action",
			})
			return
		}
		c.Next()
	}
}
