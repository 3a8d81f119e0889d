package handlers

import (
	"net/http"

	"vie_bot/internal/bot"

	"github.com/gin-gonic/gin"
)

type InteractionRequest struct {
	Command string            `json:"command" binding:"required"`
	Options map[string]string `json:"options"`
	// UserID lets an admin token relay interactions for other users.
	UserID string `json:"user_id"`
}

// statusFor maps a reply to an HTTP status. Rejections are still 200-class
// replies for the gateway, except cooldowns and bad input.
func statusFor(r bot.Reply) int {
	switch r.Failure {
	case "":
		return http.StatusOK
	case "cooldown_active":
		return http.StatusTooManyRequests
	case "invalid_target":
		return http.StatusBadRequest
	default:
		return http.StatusUnprocessableEntity
	}
}

// Interact runs one slash command for the authenticated user
func (h *Handler) Interact(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req InteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	if req.UserID != "" && req.UserID != userID {
		if !c.GetBool("admin") {
			c.JSON(http.StatusForbidden, gin.H{"error": "cannot act for another user"})
			return
		}
		userID = req.UserID
	}

	reply := h.Dispatcher.Handle(c.Request.Context(), bot.Interaction{
		UserID:  userID,
		Command: req.Command,
		Options: req.Options,
	})
	c.JSON(statusFor(reply), reply)
}

// Commands lists the routed command names
func (h *Handler) Commands(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"commands": h.Dispatcher.Commands()})
}
