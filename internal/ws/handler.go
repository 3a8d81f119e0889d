package ws

import (
	"net/http"

	"vie_bot/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// HandleFeed upgrades to a feed connection. user_id must already be set by the
// JWT middleware; ?scope=mine limits the stream to the caller's own events.
func HandleFeed(hub *Hub, allowedOrigin string) gin.HandlerFunc {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warn("ws upgrade error", "error", err, "user_id", userID)
			return
		}

		client := NewClient(userID, c.Query("scope") == "mine", conn, hub)
		go client.Run()
	}
}
