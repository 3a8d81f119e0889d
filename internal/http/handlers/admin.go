package handlers

import (
	"net/http"

	"vie_bot/internal/domain"
	"vie_bot/internal/service"

	"github.com/gin-gonic/gin"
)

type TokenRequest struct {
	UserID string `json:"user_id" binding:"required"`
	Admin  bool   `json:"admin"`
}

// IssueToken mints an API token, e.g. for the gateway relaying interactions
func (h *Handler) IssueToken(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	token, err := service.GenerateJWT(req.UserID, req.Admin)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create token"})
		return
	}
	adminID, _ := getUserID(c)
	h.Audit.LogAdminAction(c.Request.Context(), adminID, domain.AuditActionAdminIssueToken, req.UserID, map[string]any{"admin": req.Admin})
	c.JSON(http.StatusOK, gin.H{"token": token, "expires_in": int(service.TokenTTL.Seconds())})
}

func (h *Handler) AdminStats(c *gin.Context) {
	c.JSON(http.StatusOK, h.Services.Admin.GetStats())
}

type BalanceRequest struct {
	Op     string `json:"op" binding:"required,oneof=add remove reset"`
	Amount int64  `json:"amount"`
}

// AdjustBalance adds, removes or resets a player's balance
func (h *Handler) AdjustBalance(c *gin.Context) {
	var req BalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
		return
	}
	adminID, _ := getUserID(c)
	target := c.Param("id")
	ctx := c.Request.Context()

	var (
		res service.BalanceChange
		err error
	)
	switch req.Op {
	case "add":
		res, err = h.Services.Admin.AddBalance(ctx, adminID, target, req.Amount)
	case "remove":
		res, err = h.Services.Admin.RemoveBalance(ctx, adminID, target, req.Amount)
	default:
		res, err = h.Services.Admin.ResetBalance(ctx, adminID, target)
	}
	if err != nil {
		if domain.IsFailure(err) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update balance"})
		return
	}
	h.Services.Leaderboard.Touch(ctx, target)
	c.JSON(http.StatusOK, res)
}

func (h *Handler) PlayerAudit(c *gin.Context) {
	logs, err := h.Audit.GetUserAuditLogs(c.Request.Context(), c.Param("id"), queryLimit(c, 50, 500))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get audit logs"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"logs": logs})
}

func (h *Handler) RecentGames(c *gin.Context) {
	logs, err := h.Services.Admin.GetRecentGames(c.Request.Context(), queryLimit(c, 50, 500))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get games"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"games": logs})
}
