package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// ServiceOrderRepository handles database operations for service orders
type ServiceOrderRepository struct {
	db DB
}

// NewServiceOrderRepository creates a new ServiceOrderRepository
func NewServiceOrderRepository(db DB) *ServiceOrderRepository {
	return &ServiceOrderRepository{db: db}
}

const orderColumns = `id, reservation_id, service_id, quantity, status, created_at, updated_at`

// Create inserts a new service order
func (r *ServiceOrderRepository) Create(order *models.ServiceOrder) error {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = order.CreatedAt

	query := `
		INSERT INTO service_orders (id, reservation_id, service_id, quantity, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		query,
		order.ID, order.ReservationID, order.ServiceID, order.Quantity,
		order.Status, order.CreatedAt, order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create service order: %w", err)
	}

	return nil
}

// GetByID retrieves a service order by ID
func (r *ServiceOrderRepository) GetByID(orderID uuid.UUID) (*models.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE id = $1
	`

	order := &models.ServiceOrder{}
	err := r.db.QueryRow(query, orderID).Scan(
		&order.ID, &order.ReservationID, &order.ServiceID, &order.Quantity,
		&order.Status, &order.CreatedAt, &order.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service order %s: %w", orderID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service order: %w", err)
	}

	return order, nil
}

// ListByReservation retrieves all service orders for a reservation
func (r *ServiceOrderRepository) ListByReservation(reservationID uuid.UUID) ([]models.ServiceOrder, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM service_orders
		WHERE reservation_id = $1
		ORDER BY created_at
	`

	rows, err := r.db.Query(query, reservationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list service orders: %w", err)
	}
	defer rows.Close()

	orders := []models.ServiceOrder{}
	for rows.Next() {
		var order models.ServiceOrder
		err := rows.Scan(
			&order.ID, &order.ReservationID, &order.ServiceID, &order.Quantity,
			&order.Status, &order.CreatedAt, &order.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service order: %w", err)
		}
		orders = append(orders, order)
	}

	return orders, rows.Err()
}

// Delete removes a single service order. It returns false, not an
// error, when no order with the given ID exists.
func (r *ServiceOrderRepository) Delete(orderID uuid.UUID) (bool, error) {
	query := `DELETE FROM service_orders WHERE id = $1`

	result, err := r.db.Exec(query, orderID)
	if err != nil {
		return false, fmt.Errorf("failed to delete service order: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// DeleteByReservation removes all service orders for a reservation.
// Deleting when none exist is a no-op, not an error.
func (r *ServiceOrderRepository) DeleteByReservation(reservationID uuid.UUID) error {
	query := `DELETE FROM service_orders WHERE reservation_id = $1`

	if _, err := r.db.Exec(query, reservationID); err != nil {
		return fmt.Errorf("failed to delete service orders for reservation: %w", err)
	}

	return nil
}
