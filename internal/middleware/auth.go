package middleware

import (
	"net/http"
	"strings"

	"oqunet/internal/model"
	"oqunet/internal/pkg"
	"oqunet/internal/repository/mysql"
	"oqunet/internal/repository/redis"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const ContextUserKey = "current_user"

// CurrentUser returns the caller resolved by AuthMiddleware. Only
// valid on routes behind it.
func CurrentUser(c *gin.Context) *model.User {
	userAny, _ := c.Get(ContextUserKey)
	return userAny.(*model.User)
}

// AuthMiddleware verifies the bearer token, checks it is still the
// user's latest session, and loads the caller fresh so role and
// membership reflect the current row.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	sessions := &redis.SessionRepository{}

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "missing authorization header"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid authorization format"})
			return
		}
		tokenStr := parts[1]

		claims, err := pkg.ParseToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "invalid or expired token"})
			return
		}

		if redis.Client != nil {
			stored, err := sessions.Get(claims.UserID)
			if err != nil || stored != tokenStr {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "session expired, please log in again"})
				return
			}
		}

		users := &mysql.UserRepository{DB: db}
		user, err := users.FindByID(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "user no longer exists"})
			return
		}

		c.Set(ContextUserKey, user)
		c.Next()
	}
}

// AdminOnly gates administrative routes; must run after AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentUser(c).IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "admin only"})
			return
		}
		c.Next()
	}
}
