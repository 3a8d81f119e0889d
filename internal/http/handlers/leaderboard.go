package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GetLeaderboard returns the richest players
func (h *Handler) GetLeaderboard(c *gin.Context) {
	limit := queryLimit(c, 10, 100)
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": h.Services.Leaderboard.Top(c.Request.Context(), limit),
		"by":          "balance",
	})
}

// GetDungeonLeaderboard ranks players by dungeon clears
func (h *Handler) GetDungeonLeaderboard(c *gin.Context) {
	limit := queryLimit(c, 10, 100)
	c.JSON(http.StatusOK, gin.H{
		"leaderboard": h.Services.Dungeon.Leaderboard(limit),
		"by":          "dungeon_clears",
	})
}
