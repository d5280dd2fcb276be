package ratelimit

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/xyz-asif/todospa/internal/pkg/response"
)

// Middleware limits requests per client IP.
func Middleware(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP()

		if !limiter.Allow(key) {
			wait := limiter.RetryAfter(key)
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(wait.Seconds()))))
			response.TooManyRequests(c, "Rate limit exceeded. Try again later.")
			c.Abort()
			return
		}

		c.Next()
	}
}
