package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

var userWindows = newLocalLimiter()

// CommandRateLimit limits bot commands per user (not per IP). Requires JWT to
// run before it.
func CommandRateLimit(maxCommands int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		key := "cmd_rl:" + userID + ":" + strconv.FormatInt(int64(window.Seconds()), 10)
		val, ok := hit(c, key, window, userWindows)
		if !ok {
			c.Next()
			return
		}

		c.Header("X-CommandRateLimit-Limit", strconv.Itoa(maxCommands))
		c.Header("X-CommandRateLimit-Remaining", strconv.FormatInt(max(0, int64(maxCommands)-val), 10))

		if val > int64(maxCommands) {
			RLBlocked.WithLabelValues("command").Inc()
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "command rate limit exceeded",
				"retry_after": int(window.Seconds()),
			})
			return
		}
		RLRequests.WithLabelValues("command").Inc()
		c.Next()
	}
}
