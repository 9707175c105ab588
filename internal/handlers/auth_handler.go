package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/mssola/user_agent"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/config"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/pkg/jwt"
)

// AuthHandler issues guest session tokens. A token binds a guest
// identity to a fresh chat session; the chat endpoints read both from
// the token.
type AuthHandler struct {
	guestRepo   *database.GuestRepository
	sessionRepo *database.SessionRepository
	jwtService  *jwt.Service
	jwtConfig   config.JWTConfig
	logger      *logrus.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(
	guestRepo *database.GuestRepository,
	sessionRepo *database.SessionRepository,
	jwtService *jwt.Service,
	jwtConfig config.JWTConfig,
	logger *logrus.Logger,
) *AuthHandler {
	return &AuthHandler{
		guestRepo:   guestRepo,
		sessionRepo: sessionRepo,
		jwtService:  jwtService,
		jwtConfig:   jwtConfig,
		logger:      logger,
	}
}

// TokenRequest represents the request to open a guest session
type TokenRequest struct {
	GuestID  *uuid.UUID `json:"guest_id,omitempty"`
	FullName string     `json:"full_name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Phone    *string    `json:"phone,omitempty"`
}

// Token resolves or creates the guest, opens a chat session and sets
// the session cookie
// POST /auth/token
func (h *AuthHandler) Token(c *gin.Context) {
	var req TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	guest, err := h.resolveGuest(req)
	if err != nil {
		h.logger.WithError(err).Error("Failed to resolve guest")
		respondDomainError(c, err)
		return
	}

	device := deviceFamily(c.Request.UserAgent())
	session := &models.Session{
		GuestID: guest.ID,
		Title:   "Chat " + time.Now().Format("2006-01-02 15:04"),
		Device:  device,
	}
	if err := h.sessionRepo.Create(session); err != nil {
		h.logger.WithError(err).Error("Failed to create session")
		respondDomainError(c, err)
		return
	}

	token, err := h.jwtService.GenerateToken(guest.ID, session.ID, guest.Email, guest.FullName)
	if err != nil {
		h.logger.WithError(err).Error("Failed to generate token")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}

	c.SetCookie(
		h.jwtConfig.CookieName,
		token,
		int(h.jwtConfig.TokenExpiry.Seconds()),
		"/",
		"",
		false,
		true,
	)

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"guest":   guest,
		"session": session,
	})
}

func (h *AuthHandler) resolveGuest(req TokenRequest) (*models.Guest, error) {
	if req.GuestID != nil {
		guest, err := h.guestRepo.GetByID(*req.GuestID)
		if err == nil {
			return guest, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}

	guest, err := h.guestRepo.GetByEmail(req.Email)
	if err == nil {
		return guest, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	created := &models.Guest{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if err := h.guestRepo.Create(created); err != nil {
		return nil, err
	}

	return created, nil
}

// deviceFamily condenses a User-Agent header into a short device label
func deviceFamily(header string) *string {
	if header == "" {
		return nil
	}

	ua := user_agent.New(header)
	name, _ := ua.Browser()
	label := name
	if ua.Mobile() {
		label += " mobile"
	}
	if label == "" {
		return nil
	}

	return &label
}
