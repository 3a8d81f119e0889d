package handlers

import (
	"net/http"

	"vie_bot/internal/domain"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Me(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, h.Services.Economy.Profile(userID))
}

func (h *Handler) MyInventory(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"inventory": h.Services.Economy.Inventory(userID),
		"hunting":   h.Services.Hunt.HuntInventory(userID),
		"hatchery":  h.Services.Hatchery.Status(userID),
	})
}

func (h *Handler) MyQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	dq, err := h.Services.Quests.Today(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get quests"})
		return
	}
	c.JSON(http.StatusOK, dq)
}

// ClaimQuests pays out today's finished quests
func (h *Handler) ClaimQuests(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	res, err := h.Services.Quests.Claim(c.Request.Context(), userID)
	if err != nil {
		if domain.IsFailure(err) {
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to claim quests"})
		return
	}
	h.Services.Leaderboard.Touch(c.Request.Context(), userID)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) MyGames(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	games, err := h.Audit.GameHistory(c.Request.Context(), userID, queryLimit(c, 20, 100))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": games})
}

func (h *Handler) MyDungeon(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stats": h.Services.Dungeon.Stats(userID),
		"tiers": h.Services.Dungeon.Tiers(userID),
	})
}
