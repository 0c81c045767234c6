package handler

import (
	"net/http"

	"pecas/internal/model"
	"pecas/internal/service"

	"github.com/gin-gonic/gin"
)

// AssistantHandler handles assistant HTTP requests
type AssistantHandler struct {
	assistant *service.PartsAssistant
}

// NewAssistantHandler creates a new assistant handler
func NewAssistantHandler(assistant *service.PartsAssistant) *AssistantHandler {
	return &AssistantHandler{assistant: assistant}
}

// Search handles POST /api/v1/assistant
func (h *AssistantHandler) Search(c *gin.Context) {
	var req model.AssistantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	resp := h.assistant.SearchAndFormat(c.Request.Context(), req.Query)
	if !resp.OK {
		c.JSON(http.StatusInternalServerError, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
