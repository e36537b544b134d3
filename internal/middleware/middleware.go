package middleware

import (
	"github.com/gin-gonic/gin"
)

// 上下文键
const (
	CheckUserKey = "user"       // 已认证用户
	DocumentKey  = "document"   // 存在性守卫加载的实体
	RequestIDKey = "request_id" // 请求标识
)

// abortWithError 把错误挂到上下文并中断后续 handler，
// 渲染由集中错误处理中间件完成
func abortWithError(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
