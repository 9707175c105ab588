package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/internal/services"
)

// ReservationHandler handles reservation operations
type ReservationHandler struct {
	reservations *services.ReservationService
	logger       *logrus.Logger
}

// NewReservationHandler creates a new ReservationHandler
func NewReservationHandler(reservations *services.ReservationService, logger *logrus.Logger) *ReservationHandler {
	return &ReservationHandler{
		reservations: reservations,
		logger:       logger,
	}
}

// ListForGuest retrieves all reservations for a guest
// GET /reservations/:id (the id is a guest id)
func (h *ReservationHandler) ListForGuest(c *gin.Context) {
	guestID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid guest id"})
		return
	}

	reservations, err := h.reservations.ListForGuest(guestID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list reservations")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservations)
}

// Create creates a new reservation
// POST /reservations
func (h *ReservationHandler) Create(c *gin.Context) {
	var req models.CreateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	guest := models.Guest{
		FullName: req.FullName,
		Email:    req.Email,
		Phone:    req.Phone,
	}
	if req.GuestID != nil {
		guest.ID = *req.GuestID
	}

	reservation, err := h.reservations.Book(guest, models.RoomType(req.RoomType), req.CheckIn, req.CheckOut)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to create reservation")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, reservation)
}

// Update partially updates a reservation's dates or room type
// PATCH /reservations/:id
func (h *ReservationHandler) Update(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	var req models.UpdateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var roomType *models.RoomType
	if req.RoomType != nil {
		rt := models.RoomType(*req.RoomType)
		roomType = &rt
	}

	reservation, err := h.reservations.Modify(reservationID, req.CheckIn, req.CheckOut, roomType)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to update reservation")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, reservation)
}

// Cancel deletes a reservation
// DELETE /reservations/:id
func (h *ReservationHandler) Cancel(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	if err := h.reservations.Cancel(reservationID); err != nil {
		h.logger.WithError(err).Warn("Failed to cancel reservation")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Reservation " + reservationID.String() + " successfully cancelled"})
}
