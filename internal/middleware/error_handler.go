package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
)

// ErrorHandler 集中错误处理
// handler 只负责 c.Error(err)，这里统一分类、落盘、渲染
// dev=true 时响应附带原始错误与调用栈，绝不能在生产开启
func ErrorHandler(errLog *zap.Logger, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		last := c.Errors.Last()
		if last == nil {
			return
		}
		err := last.Err
		appErr := apperror.From(err)

		// 无论哪种模式，完整错误都要进错误日志
		errLog.Error(fmt.Sprintf("%T: %s\t%s\t%s\t%s",
			err, err.Error(), c.Request.Method, c.Request.URL.RequestURI(), c.GetHeader("Origin")),
			zap.Int("status", appErr.Code),
			zap.String("request_id", c.GetString(RequestIDKey)),
		)

		if c.Writer.Written() {
			return
		}

		if dev {
			c.JSON(appErr.Code, gin.H{
				"status":  appErr.Status(),
				"error":   err.Error(),
				"stack":   string(debug.Stack()),
				"message": appErr.Message,
			})
			return
		}

		if appErr.Operational {
			c.JSON(appErr.Code, gin.H{"status": appErr.Status(), "message": appErr.Message})
			return
		}

		// 意外故障只暴露通用提示
		c.JSON(http.StatusInternalServerError, gin.H{
			"status":  "error",
			"message": "Something went very wrong!",
		})
	}
}
