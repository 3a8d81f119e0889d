package handlers

import (
	"strconv"

	"vie_bot/internal/bot"
	"vie_bot/internal/service"
)

type Handler struct {
	Dispatcher *bot.Dispatcher
	Services   bot.Services
	Audit      *service.AuditService
}

func NewHandler(d *bot.Dispatcher, svc bot.Services, audit *service.AuditService) *Handler {
	return &Handler{Dispatcher: d, Services: svc, Audit: audit}
}

// getUserID returns the user_id set by the JWT middleware
func getUserID(c interface{ GetString(string) string }) (string, bool) {
	id := c.GetString("user_id")
	return id, id != ""
}

// queryLimit parses ?limit=, clamped to [1, max].
func queryLimit(c interface{ Query(string) string }, def, max int) int {
	n, err := strconv.Atoi(c.Query("limit"))
	if err != nil || n <= 0 {
		return def
	}
	if n > max {
		return max
	}
	return n
}
