package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/internal/services"
)

// OrderHandler handles service catalog and service order operations
type OrderHandler struct {
	orders *services.OrderService
	logger *logrus.Logger
}

// NewOrderHandler creates a new OrderHandler
func NewOrderHandler(orders *services.OrderService, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		orders: orders,
		logger: logger,
	}
}

// ListServices retrieves the service catalog
// GET /services
func (h *OrderHandler) ListServices(c *gin.Context) {
	catalog, err := h.orders.ListServices()
	if err != nil {
		h.logger.WithError(err).Error("Failed to list services")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, catalog)
}

// PlaceOrder creates a service order against a reservation
// POST /reservations/:id/orders
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	var req models.PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := h.orders.PlaceOrder(reservationID, req.ServiceID, req.Quantity, models.OrderStatusPending)
	if err != nil {
		h.logger.WithError(err).Warn("Failed to place service order")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, order)
}

// ListOrders retrieves all service orders for a reservation
// GET /reservations/:id/orders
func (h *OrderHandler) ListOrders(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	orders, err := h.orders.ListOrders(reservationID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to list service orders")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// DeleteOrder removes a single service order
// DELETE /orders/:order_id
func (h *OrderHandler) DeleteOrder(c *gin.Context) {
	orderID, err := uuid.Parse(c.Param("order_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
		return
	}

	if err := h.orders.DeleteOrder(orderID); err != nil {
		h.logger.WithError(err).Warn("Failed to delete service order")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Service order " + orderID.String() + " deleted"})
}

// DeleteOrdersForReservation removes all service orders for a reservation
// DELETE /reservations/:id/orders
func (h *OrderHandler) DeleteOrdersForReservation(c *gin.Context) {
	reservationID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid reservation id"})
		return
	}

	if err := h.orders.DeleteOrdersForReservation(reservationID); err != nil {
		h.logger.WithError(err).Error("Failed to delete service orders")
		respondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"detail": "Service orders for reservation " + reservationID.String() + " deleted"})
}
