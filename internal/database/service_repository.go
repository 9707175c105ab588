package database

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// ServiceRepository handles database operations for the services catalog
type ServiceRepository struct {
	db DB
}

// NewServiceRepository creates a new ServiceRepository
func NewServiceRepository(db DB) *ServiceRepository {
	return &ServiceRepository{db: db}
}

// List retrieves the full service catalog
func (r *ServiceRepository) List() ([]models.Service, error) {
	query := `
		SELECT id, name, description, price, created_at, updated_at
		FROM services
		ORDER BY name
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list services: %w", err)
	}
	defer rows.Close()

	services := []models.Service{}
	for rows.Next() {
		var svc models.Service
		err := rows.Scan(
			&svc.ID, &svc.Name, &svc.Description, &svc.Price,
			&svc.CreatedAt, &svc.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan service: %w", err)
		}
		services = append(services, svc)
	}

	return services, rows.Err()
}

// GetByID retrieves a service by ID
func (r *ServiceRepository) GetByID(serviceID uuid.UUID) (*models.Service, error) {
	query := `
		SELECT id, name, description, price, created_at, updated_at
		FROM services
		WHERE id = $1
	`

	svc := &models.Service{}
	err := r.db.QueryRow(query, serviceID).Scan(
		&svc.ID, &svc.Name, &svc.Description, &svc.Price,
		&svc.CreatedAt, &svc.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("service %s: %w", serviceID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch service: %w", err)
	}

	return svc, nil
}
