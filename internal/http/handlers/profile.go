package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Profile shows another player's public profile without creating a record
func (h *Handler) Profile(c *gin.Context) {
	id := c.Param("id")
	if _, ok := h.Services.Admin.GetUser(id); !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "player not found"})
		return
	}
	c.JSON(http.StatusOK, h.Services.Economy.Profile(id))
}

func (h *Handler) Guilds(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"guilds": h.Services.Guilds.List()})
}

func (h *Handler) Guild(c *gin.Context) {
	view, err := h.Services.Guilds.Info(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "guild not found"})
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *Handler) Shop(c *gin.Context) {
	items, err := h.Services.Shop.Catalog(c.Query("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}
