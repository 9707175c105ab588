package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Service represents a purchasable hotel service from the catalog
type Service struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// OrderStatus represents the status of a service order
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusFulfilled OrderStatus = "fulfilled"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// ServiceOrder represents a service ordered against a reservation
type ServiceOrder struct {
	ID            uuid.UUID   `json:"id" db:"id"`
	ReservationID uuid.UUID   `json:"reservation_id" db:"reservation_id"`
	ServiceID     uuid.UUID   `json:"service_id" db:"service_id"`
	Quantity      int         `json:"quantity" db:"quantity"`
	Status        OrderStatus `json:"status" db:"status"`
	CreatedAt     time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at" db:"updated_at"`
}

// PlaceOrderRequest represents the request to place a service order
type PlaceOrderRequest struct {
	ServiceID uuid.UUID `json:"service_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// Validate validates the place order request
func (r *PlaceOrderRequest) Validate() error {
	if r.Quantity < 1 {
		return errors.New("quantity must be at least 1")
	}
	return nil
}
