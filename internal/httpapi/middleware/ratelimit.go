package middleware

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

type Limiter interface {
	Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error)
}

// RateLimit allows perMinute requests per user, or per client IP for
// anonymous callers. Limiter errors let the request through.
func RateLimit(l Limiter, perMinute int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil || perMinute <= 0 {
			c.Next()
			return
		}
		key := "ip:" + c.ClientIP()
		if v, ok := c.Get(UserIDKey); ok {
			if uid, ok := v.(uint64); ok {
				key = "user:" + strconv.FormatUint(uid, 10)
			}
		}
		allowed, err := l.Allow(c.Request.Context(), key, perMinute, time.Minute)
		if err != nil {
			log.Printf("[RateLimit] limiter error key=%s err=%v", key, err)
			c.Next()
			return
		}
		if !allowed {
			c.Header("Retry-After", "60")
			common.Fail(c, http.StatusTooManyRequests, 42901, "rate limit exceeded")
			return
		}
		c.Next()
	}
}
