package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecureHeaders 设置基础安全响应头（helmet 的最小等价）
func SecureHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "0")
		c.Header("Referrer-Policy", "no-referrer")
		c.Next()
	}
}
