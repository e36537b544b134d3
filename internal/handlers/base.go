package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/Umer-siddique/Polling-App-Backend/internal/middleware"
	"github.com/Umer-siddique/Polling-App-Backend/internal/models"
)

// 成功响应统一为 {status: "success", data: {...}}
func respondData(c *gin.Context, code int, data gin.H) {
	c.JSON(code, gin.H{"status": "success", "data": data})
}

// currentUser 取出认证中间件挂载的调用方
func currentUser(c *gin.Context) (*models.User, bool) {
	v, exists := c.Get(middleware.CheckUserKey)
	if !exists {
		return nil, false
	}
	user, ok := v.(*models.User)
	return user, ok
}

// documentPoll 取出存在性守卫挂载的实体
func documentPoll(c *gin.Context) (*models.Poll, bool) {
	v, exists := c.Get(middleware.DocumentKey)
	if !exists {
		return nil, false
	}
	poll, ok := v.(*models.Poll)
	return poll, ok
}

// fail 错误不在 handler 内渲染，交给集中错误处理中间件
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
