package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dailydev/internal/auth"
	"github.com/dailydev/internal/db"
	"github.com/dailydev/internal/middleware"
	"github.com/dailydev/internal/service"
	"github.com/gin-gonic/gin"
)

const principalContextKey = "__principal"

const (
	msgUnauthenticated = "Access denied. Please log in again."
	msgInvalidToken    = "Invalid token. Please log in again."
	msgTokenExpired    = "Token expired. Please log in again."
)

// AuthRequired 校验 Bearer 令牌并把当前用户放入上下文，失败时返回 401
func (a *API) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
			return
		}

		user, err := a.users.Authenticate(token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgTokenExpired})
			case errors.Is(err, auth.ErrInvalidToken):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgInvalidToken})
			case errors.Is(err, service.ErrUnauthenticated):
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": msgUnauthenticated})
			default:
				a.serverError(c, err, "authenticate request")
				c.Abort()
			}
			return
		}

		setPrincipal(c, user)
		c.Next()
	}
}

// OptionalAuth 尝试解析令牌，任何失败都按匿名请求继续
func (a *API) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if user, err := a.users.Authenticate(token); err == nil {
				setPrincipal(c, user)
			}
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(header) < 7 || !strings.EqualFold(header[:7], "Bearer ") {
		return ""
	}
	return strings.TrimSpace(header[7:])
}

func setPrincipal(c *gin.Context, user *db.User) {
	c.Set(principalContextKey, user)
	c.Set(middleware.PrincipalIDKey, user.ID)
}

// principal 返回当前请求的用户；未认证时为 nil
func principal(c *gin.Context) *db.User {
	if value, exists := c.Get(principalContextKey); exists {
		if user, ok := value.(*db.User); ok {
			return user
		}
	}
	return nil
}
