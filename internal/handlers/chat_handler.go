package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandleChat forwards one user message to the assistant and returns the raw
// reply. Conversation state lives on the client for the life of its chat
// widget; nothing is persisted here.
func (h *Handler) HandleChat(c *gin.Context) {
	var req struct {
		Message string `json:"message"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format, expecting {\"message\": \"...\"}"})
		return
	}
	if req.Message == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		return
	}

	reply, err := h.AI.Converse(c.Request.Context(), req.Message)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}
