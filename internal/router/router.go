package router

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Umer-siddique/Polling-App-Backend/internal/config"
	"github.com/Umer-siddique/Polling-App-Backend/internal/handlers"
	"github.com/Umer-siddique/Polling-App-Backend/internal/middleware"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

// Deps 路由依赖集合，全部在 main 中构造后注入
type Deps struct {
	Cfg       *config.Config
	Polls     store.PollStore
	Users     store.UserStore
	Optimizer services.ImageOptimizer
	Tokens    *services.TokenService
	Cache     *utils.TTLCache
	Log       *zap.Logger
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	// Handlers
	pollHandler := handlers.NewPollHandler(d.Polls, d.Optimizer, d.Log)
	authHandler := handlers.NewAuthHandler(d.Users, d.Tokens)

	authProtect := middleware.AuthProtect(d.Tokens, d.Users)

	// 静态资源
	r.Static("/static", "./public")

	api := r.Group("/api/v1")
	api.Use(middleware.RateLimit(d.Cache, d.Cfg.RateLimitMax, d.Cfg.RateLimitWindow))
	{
		users := api.Group("/users")
		{
			users.POST("/register", authHandler.Register) // 注册
			users.POST("/login", authHandler.Login)       // 登录
			users.GET("/logout", authHandler.Logout)      // 退出登录
		}

		polls := api.Group("/polls")
		{
			polls.GET("", pollHandler.List)                  // 全部投票，最新在前
			polls.POST("", authProtect, pollHandler.Create)  // 创建投票（带图片）
			polls.PATCH("/:id/vote", pollHandler.Vote)       // 投一票

			// id 寻址的路由统一走存在性守卫
			guarded := polls.Group("/:id")
			guarded.Use(middleware.ValidateResourceExists(d.Polls))
			{
				guarded.GET("", pollHandler.Fetch)
				guarded.PATCH("", authProtect, pollHandler.Update)
				guarded.DELETE("", authProtect, pollHandler.Delete)
			}
		}
	}

	// 404 内容协商: HTML 页面 / JSON / 纯文本
	r.NoRoute(func(c *gin.Context) {
		switch c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON, gin.MIMEPlain) {
		case gin.MIMEJSON:
			c.JSON(http.StatusNotFound, gin.H{
				"status":  "fail",
				"message": fmt.Sprintf("Can't find %s on this server!", c.Request.URL.Path),
			})
		case gin.MIMEHTML:
			if page, err := os.ReadFile("./views/404.html"); err == nil {
				c.Data(http.StatusNotFound, "text/html; charset=utf-8", page)
				return
			}
			c.String(http.StatusNotFound, "404 Not Found")
		default:
			c.String(http.StatusNotFound, "404 Not Found")
		}
	})
}
