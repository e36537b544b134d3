package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Umer-siddique/Polling-App-Backend/internal/apperror"
	"github.com/Umer-siddique/Polling-App-Backend/internal/utils"
)

// rateWindow 单个 IP 的固定窗口计数
type rateWindow struct {
	Count   int
	ResetAt time.Time
}

// RateLimit 基于 IP 的固定窗口限流，计数放在 TTL-LRU 缓存里
// 超出配额返回 429
func RateLimit(cache *utils.TTLCache, max int, window time.Duration) gin.HandlerFunc {
	var mu sync.Mutex

	return func(c *gin.Context) {
		key := "ratelimit:" + c.ClientIP()

		mu.Lock()
		win, _ := cache.Get(key).(*rateWindow)
		now := time.Now()
		if win == nil || now.After(win.ResetAt) {
			win = &rateWindow{ResetAt: now.Add(window)}
			cache.Set(key, win, window)
		}
		win.Count++
		count := win.Count
		resetAt := win.ResetAt
		mu.Unlock()

		remaining := max - count
		if remaining < 0 {
			remaining = 0
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(max))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if count > max {
			c.Header("Retry-After", strconv.Itoa(int(time.Until(resetAt).Seconds())))
			abortWithError(c, apperror.New(
				"Too many requests from this IP, please try again in an hour!",
				http.StatusTooManyRequests))
			return
		}

		c.Next()
	}
}
