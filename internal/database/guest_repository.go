package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// GuestRepository handles database operations for the guests table
type GuestRepository struct {
	db DB
}

// NewGuestRepository creates a new GuestRepository
func NewGuestRepository(db DB) *GuestRepository {
	return &GuestRepository{db: db}
}

// Create inserts a new guest. The guest's ID is generated when not set.
func (r *GuestRepository) Create(guest *models.Guest) error {
	if guest.ID == uuid.Nil {
		guest.ID = uuid.New()
	}
	guest.CreatedAt = time.Now()
	guest.UpdatedAt = guest.CreatedAt

	query := `
		INSERT INTO guests (id, full_name, email, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		guest.ID, guest.FullName, guest.Email, guest.Phone,
		guest.CreatedAt, guest.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create guest: %w", err)
	}

	return nil
}

// GetByID retrieves a guest by ID
func (r *GuestRepository) GetByID(guestID uuid.UUID) (*models.Guest, error) {
	query := `
		SELECT id, full_name, email, phone, created_at, updated_at
		FROM guests
		WHERE id = $1
	`

	return r.scanGuest(r.db.QueryRow(query, guestID))
}

// GetByEmail retrieves a guest by email. The lookup is case-insensitive.
func (r *GuestRepository) GetByEmail(email string) (*models.Guest, error) {
	query := `
		SELECT id, full_name, email, phone, created_at, updated_at
		FROM guests
		WHERE LOWER(email) = LOWER($1)
	`

	return r.scanGuest(r.db.QueryRow(query, email))
}

func (r *GuestRepository) scanGuest(row *sql.Row) (*models.Guest, error) {
	guest := &models.Guest{}
	var phone sql.NullString

	err := row.Scan(
		&guest.ID, &guest.FullName, &guest.Email, &phone,
		&guest.CreatedAt, &guest.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("guest: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch guest: %w", err)
	}

	if phone.Valid {
		guest.Phone = &phone.String
	}

	return guest, nil
}
