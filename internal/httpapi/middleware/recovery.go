package middleware

import (
	"log"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"
	"github.com/suPer8Hu/wholesale-platform/internal/common"
)

// Recovery turns a panic into the standard 500 envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Printf("[Recovery] panic request_id=%s %s %s: %v\n%s",
					c.GetString(RequestIDKey), c.Request.Method, c.Request.URL.Path, rec, debug.Stack())
				common.Fail(c, http.StatusInternalServerError, 50001, "internal error")
			}
		}()
		c.Next()
	}
}
