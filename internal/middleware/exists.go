package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
)

// ValidateResourceExists 在 handler 之前按 :id 加载实体
// 未命中直接以 404 短路；命中则挂到上下文，后续 handler 不再查库
func ValidateResourceExists(polls store.PollStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		poll, err := polls.FindByPid(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				abortWithError(c, apperror.New("Document Not Found!", http.StatusNotFound))
				return
			}
			abortWithError(c, err)
			return
		}

		c.Set(DocumentKey, poll)
		c.Next()
	}
}
