package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/tharun242005/EMPATH-AI/internal/chat"
	"github.com/tharun242005/EMPATH-AI/internal/models"
)

type ChatHandler interface {
	Chat(c *gin.Context)
	Reset(c *gin.Context)
	TriggerSupport(c *gin.Context)
	Health(c *gin.Context)
	Stats(c *gin.Context)
}

type chatHandler struct {
	service *chat.Service
	logger  *zap.Logger
}

func NewChatHandler(service *chat.Service, logger *zap.Logger) ChatHandler {
	return &chatHandler{
		service: service,
		logger:  logger,
	}
}

// Chat handles POST /api/chat
func (h *chatHandler) Chat(c *gin.Context) {
	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.Chat(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		case errors.Is(err, chat.ErrNotReady):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded. Please wait for initialization."})
		default:
			h.logger.Error("Failed to process chat request", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Reset handles POST /api/reset
func (h *chatHandler) Reset(c *gin.Context) {
	var req models.ResetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	message := h.service.Reset(req.SessionID)
	c.JSON(http.StatusOK, gin.H{"status": "success", "message": message})
}

// TriggerSupport handles POST /api/trigger-support
func (h *chatHandler) TriggerSupport(c *gin.Context) {
	var req models.SupportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	resp, err := h.service.TriggerSupport(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, chat.ErrEmptyMessage):
			c.JSON(http.StatusBadRequest, gin.H{"error": "Message cannot be empty"})
		case errors.Is(err, chat.ErrNotReady):
			c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Models not loaded. Please wait for initialization."})
		default:
			h.logger.Error("Failed to trigger support", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// Health handles GET /health
func (h *chatHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, h.service.Health(c.Request.Context()))
}

// Stats handles GET /api/stats
func (h *chatHandler) Stats(c *gin.Context) {
	stats, err := h.service.Stats()
	if err != nil {
		h.logger.Error("Failed to get stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
