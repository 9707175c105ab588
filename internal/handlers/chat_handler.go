package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/middleware"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/internal/services"
)

// ChatHandler handles conversational turns with the concierge agent
type ChatHandler struct {
	chat   *services.ChatService
	logger *logrus.Logger
}

// NewChatHandler creates a new ChatHandler
func NewChatHandler(chat *services.ChatService, logger *logrus.Logger) *ChatHandler {
	return &ChatHandler{
		chat:   chat,
		logger: logger,
	}
}

// Chat runs one conversational turn and streams the agent's reply as
// newline-delimited JSON objects, one fragment per line, flushed as
// they arrive.
// POST /chat
func (h *ChatHandler) Chat(c *gin.Context) {
	guestCtx, exists := middleware.GetGuestContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	guest := models.Guest{
		ID:       guestCtx.GuestID,
		FullName: guestCtx.FullName,
		Email:    guestCtx.Email,
	}

	fragments, errs := h.chat.Stream(c.Request.Context(), guestCtx.SessionID, guest, req.Message)

	flusher, canFlush := c.Writer.(http.Flusher)
	wrote := false

	for fragment := range fragments {
		if !wrote {
			c.Header("Content-Type", "application/json")
			c.Header("X-Accel-Buffering", "no")
			c.Status(http.StatusOK)
			wrote = true
		}

		line, err := json.Marshal(gin.H{"message": fragment})
		if err != nil {
			h.logger.WithError(err).Error("Failed to encode chat fragment")
			return
		}
		if _, err := c.Writer.Write(append(line, '\n')); err != nil {
			// Client went away; the agent run and persistence finish
			// on their own.
			h.logger.WithError(err).Debug("Chat client disconnected")
			return
		}
		if canFlush {
			flusher.Flush()
		}
	}

	if err := <-errs; err != nil {
		h.logger.WithError(err).Error("Chat turn failed")
		if !wrote {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Chat turn failed"})
		}
	}
}

// History retrieves the stored turns of the authenticated session
// GET /chat/history
func (h *ChatHandler) History(c *gin.Context) {
	guestCtx, exists := middleware.GetGuestContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	pairs, err := h.chat.History(guestCtx.SessionID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to load chat history")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, pairs)
}

// ClearHistory deletes the stored turns of the authenticated session
// DELETE /chat/history
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	guestCtx, exists := middleware.GetGuestContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.chat.ClearHistory(guestCtx.SessionID); err != nil {
		h.logger.WithError(err).Error("Failed to clear chat history")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Chat history cleared"})
}
