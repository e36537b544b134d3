package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Umer-siddique/Polling-App-Backend/internal/config"
	"github.com/Umer-siddique/Polling-App-Backend/internal/db"
	"github.com/Umer-siddique/Polling-App-Backend/internal/logger"
	"github.com/Umer-siddique/Polling-App-Backend/internal/middleware"
	"github.com/Umer-siddique/Polling-App-Backend/internal/router"
	"github.com/Umer-siddique/Polling-App-Backend/internal/services"
	"github.com/Umer-siddique/Polling-App-Backend/internal/store"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, reading env vars from system")
	}

	cfg := config.Load()

	// 请求日志与错误日志分开落盘
	reqLog, err := logger.NewRequestLogger(cfg.IsDev())
	if err != nil {
		log.Fatalf("Failed to create request logger: %v", err)
	}
	defer reqLog.Sync()

	errLog, err := logger.NewErrorLogger(cfg.IsDev())
	if err != nil {
		log.Fatalf("Failed to create error logger: %v", err)
	}
	defer errLog.Sync()

	// Initialize Database（失败直接退出，不无限重试）
	gdb, err := db.Init(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Db connection error: %v", err)
	}
	log.Println("Database connected successfully!")

	cache, err := utils.NewTTLCache(500)
	if err != nil {
		log.Fatalf("Failed to create cache: %v", err)
	}

	if !cfg.IsDev() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())

	// Cross-cutting middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(reqLog))
	r.Use(middleware.SecureHeaders())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "HEAD", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))
	r.Use(middleware.CleanXSS())
	r.Use(middleware.ErrorHandler(errLog, cfg.IsDev()))

	router.RegisterRoutes(r, router.Deps{
		Cfg:       cfg,
		Polls:     store.NewPollStore(gdb),
		Users:     store.NewUserStore(gdb),
		Optimizer: services.NewTinifyService(cfg.TinifyAPIURL, cfg.TinifyAPIKey),
		Tokens:    services.NewTokenService(cfg.JWTSecret, cfg.JWTExpiresIn),
		Cache:     cache,
		Log:       reqLog,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Printf("Server running on PORT %s in %s mode", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// 优雅关停：收到信号后先排空在途请求再退出
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("SIGTERM RECEIVED. Shutting down gracefully")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Forced shutdown: %v", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		sqlDB.Close()
	}
	log.Println("Process terminated!")
}
