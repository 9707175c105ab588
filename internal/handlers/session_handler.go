package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/middleware"
)

// SessionHandler handles chat session listing and cleanup
type SessionHandler struct {
	sessionRepo *database.SessionRepository
	messageRepo *database.MessageRepository
	logger      *logrus.Logger
}

// NewSessionHandler creates a new SessionHandler
func NewSessionHandler(
	sessionRepo *database.SessionRepository,
	messageRepo *database.MessageRepository,
	logger *logrus.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionRepo: sessionRepo,
		messageRepo: messageRepo,
		logger:      logger,
	}
}

// List retrieves the authenticated guest's chat sessions
// GET /sessions
func (h *SessionHandler) List(c *gin.Context) {
	guestCtx, exists := middleware.GetGuestContext(c)
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	sessions, err := h.sessionRepo.ListByGuest(guestCtx.GuestID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list sessions")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, sessions)
}

// DeleteMessages removes all stored turns of one session
// DELETE /sessions/:session_id/messages
func (h *SessionHandler) DeleteMessages(c *gin.Context) {
	sessionID, err := uuid.Parse(c.Param("session_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid session id"})
		return
	}

	if err := h.messageRepo.DeleteBySession(sessionID); err != nil {
		h.logger.WithError(err).Error("Failed to delete session messages")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Messages for session " + sessionID.String() + " deleted"})
}
