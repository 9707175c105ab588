package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/whipsplash/concierge-backend/internal/database"
)

// respondDomainError translates domain failures into HTTP responses:
// missing rows become 404, range and availability violations become
// 400, anything else is a 500 with a generic detail.
func respondDomainError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, database.ErrInvalidRange),
		errors.Is(err, database.ErrRoomUnavailable),
		errors.Is(err, database.ErrNoAvailability):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
