package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/service"
	"github.com/jeremiep/portfolio-be/types"
)

// ChatHandler serves the portfolio chat assistant over plain HTTP.
type ChatHandler struct {
	ai     service.AIService
	logger *zap.Logger
}

func NewChatHandler(ai service.AIService, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{ai: ai, logger: logger}
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	if h.ai == nil {
		c.JSON(http.StatusServiceUnavailable, types.DataResponse{
			Success: false,
			Message: "Chat is not configured",
		})
		return
	}

	var req types.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "Invalid request body",
		})
		return
	}
	if len(req.Messages) == 0 {
		c.JSON(http.StatusBadRequest, types.DataResponse{
			Success: false,
			Message: "At least one message is required",
		})
		return
	}

	res, err := h.ai.Chat(c.Request.Context(), req.Messages)
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, types.DataResponse{
			Success: false,
			Message: "Failed to generate response",
		})
		return
	}

	c.JSON(http.StatusOK, types.DataResponse{
		Success: true,
		Data:    types.ChatResponse{Message: res.Content},
	})
}
