package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
)

// AuthProtect ensures a valid bearer token and loads the caller
// token 可来自 Authorization 头或 jwt cookie
func AuthProtect(tokens *services.TokenService, users store.UserStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := extractToken(c)
		if raw == "" {
			abortWithError(c, apperror.New("You are not logged in! Please login to get access.", http.StatusUnauthorized))
			return
		}

		userID, err := tokens.Parse(raw)
		if err != nil {
			// jwt 错误原样上抛，由分类层区分过期/非法
			abortWithError(c, err)
			return
		}

		user, err := users.FindByID(c.Request.Context(), userID)
		if err != nil {
			abortWithError(c, apperror.New("The user belonging to this token no longer exists.", http.StatusUnauthorized))
			return
		}

		c.Set(CheckUserKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	if cookie, err := c.Cookie("jwt"); err == nil {
		return cookie
	}
	return ""
}
