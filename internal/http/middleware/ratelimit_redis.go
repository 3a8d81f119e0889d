package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	redis "github.com/redis/go-redis/v9"
)

var redisClient *redis.Client

// InitRedisRateLimiter shares client with the limiters. A nil client makes
// them fall back to the in-process window.
func InitRedisRateLimiter(client *redis.Client) {
	redisClient = client
}

// hit counts one request of key in a fixed window using INCR/EXPIRE. On Redis
// errors it fails open.
func hit(c *gin.Context, key string, window time.Duration, local *localLimiter) (int64, bool) {
	if redisClient == nil {
		return local.hit(key, window), true
	}
	ctx := c.Request.Context()
	val, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		c.Header("X-RateLimit-Error", "redis-error")
		return 0, false
	}
	if val == 1 {
		redisClient.Expire(ctx, key, window)
	}
	return val, true
}

var ipWindows = newLocalLimiter()

// RedisRateLimit implements a simple fixed-window rate limiter per client IP.
// key format: rl:<window_seconds>:<ip>
func RedisRateLimit(maxRequests int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "rl:" + strconv.FormatInt(int64(window.Seconds()), 10) + ":" + c.ClientIP()
		val, ok := hit(c, key, window, ipWindows)
		if !ok {
			c.Next()
			return
		}

		if val > int64(maxRequests) {
			RLBlocked.WithLabelValues(c.FullPath()).Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		RLRequests.WithLabelValues(c.FullPath()).Inc()
		c.Next()
	}
}
