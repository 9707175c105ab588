package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// OrderService manages the service catalog and per-reservation orders
type OrderService struct {
	serviceRepo *database.ServiceRepository
	orderRepo   *database.ServiceOrderRepository
	logger      *logrus.Logger
}

// NewOrderService creates a new OrderService
func NewOrderService(
	serviceRepo *database.ServiceRepository,
	orderRepo *database.ServiceOrderRepository,
	logger *logrus.Logger,
) *OrderService {
	return &OrderService{
		serviceRepo: serviceRepo,
		orderRepo:   orderRepo,
		logger:      logger,
	}
}

// ListServices returns the full service catalog
func (s *OrderService) ListServices() ([]models.Service, error) {
	return s.serviceRepo.List()
}

// GetService returns a single catalog service by ID
func (s *OrderService) GetService(serviceID uuid.UUID) (*models.Service, error) {
	return s.serviceRepo.GetByID(serviceID)
}

// PlaceOrder creates a service order against a reservation after
// checking that the service exists. An empty status defaults to
// "pending".
func (s *OrderService) PlaceOrder(
	reservationID, serviceID uuid.UUID,
	quantity int,
	status models.OrderStatus,
) (*models.ServiceOrder, error) {
	if _, err := s.serviceRepo.GetByID(serviceID); err != nil {
		return nil, err
	}

	if status == "" {
		status = models.OrderStatusPending
	}

	order := &models.ServiceOrder{
		ReservationID: reservationID,
		ServiceID:     serviceID,
		Quantity:      quantity,
		Status:        status,
	}

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"order_id":       order.ID,
		"reservation_id": reservationID,
		"service_id":     serviceID,
	}).Info("Service order placed")

	return order, nil
}

// ListOrders returns all service orders for a reservation
func (s *OrderService) ListOrders(reservationID uuid.UUID) ([]models.ServiceOrder, error) {
	return s.orderRepo.ListByReservation(reservationID)
}

// DeleteOrder removes a single service order. It fails with
// ErrNotFound when the order does not exist.
func (s *OrderService) DeleteOrder(orderID uuid.UUID) error {
	deleted, err := s.orderRepo.Delete(orderID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("service order %s: %w", orderID, database.ErrNotFound)
	}

	s.logger.WithField("order_id", orderID).Info("Service order deleted")

	return nil
}

// DeleteOrdersForReservation removes all service orders for a
// reservation. Always succeeds; deleting none is a no-op.
func (s *OrderService) DeleteOrdersForReservation(reservationID uuid.UUID) error {
	return s.orderRepo.DeleteByReservation(reservationID)
}
