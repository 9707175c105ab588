package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// ReservationRepository handles database operations for the reservations
// table. It is the sole writer of overlap-checked inserts: every create
// runs the range validation and the overlap check before touching the
// table, inside a serializable transaction so that two concurrent
// bookings for the same room cannot both pass the check.
type ReservationRepository struct {
	db DB
}

// NewReservationRepository creates a new ReservationRepository
func NewReservationRepository(db DB) *ReservationRepository {
	return &ReservationRepository{db: db}
}

const reservationColumns = `id, guest_id, room_id, check_in, check_out, status, created_at, updated_at`

// List retrieves all reservations
func (r *ReservationRepository) List() ([]models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		ORDER BY check_in
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations: %w", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// ListByGuest retrieves all reservations for a guest. Returns an empty
// slice, not an error, when the guest has none.
func (r *ReservationRepository) ListByGuest(guestID uuid.UUID) ([]models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE guest_id = $1
		ORDER BY check_in
	`

	rows, err := r.db.Query(query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reservations for guest: %w", err)
	}
	defer rows.Close()

	return r.scanReservations(rows)
}

// GetByID retrieves a reservation by ID
func (r *ReservationRepository) GetByID(reservationID uuid.UUID) (*models.Reservation, error) {
	query := `
		SELECT ` + reservationColumns + `
		FROM reservations
		WHERE id = $1
	`

	return r.scanReservation(r.db.QueryRow(query, reservationID))
}

// Create validates and inserts a new reservation. It returns
// ErrInvalidRange when check_in is not strictly before check_out, and
// ErrRoomUnavailable when the room already has a non-cancelled
// reservation whose half-open [check_in, check_out) interval overlaps
// the requested one. Intervals that only touch at an endpoint do not
// overlap. The check and the insert share one serializable transaction.
func (r *ReservationRepository) Create(res *models.Reservation) error {
	if !res.CheckIn.Before(res.CheckOut) {
		return ErrInvalidRange
	}

	if res.ID == uuid.Nil {
		res.ID = uuid.New()
	}
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt

	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`SET TRANSACTION ISOLATION LEVEL SERIALIZABLE`); err != nil {
		return fmt.Errorf("failed to set transaction isolation: %w", err)
	}

	overlapQuery := `
		SELECT EXISTS (
			SELECT 1
			FROM reservations
			WHERE room_id = $1
			  AND status != 'cancelled'
			  AND check_in < $3
			  AND check_out > $2
		)
	`

	var overlapping bool
	err = tx.QueryRow(overlapQuery, res.RoomID, res.CheckIn, res.CheckOut).Scan(&overlapping)
	if err != nil {
		return fmt.Errorf("failed to check for overlapping reservations: %w", err)
	}
	if overlapping {
		return fmt.Errorf("room %s: %w", res.RoomID, ErrRoomUnavailable)
	}

	insertQuery := `
		INSERT INTO reservations (id, guest_id, room_id, check_in, check_out, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err = tx.Exec(
		insertQuery,
		res.ID, res.GuestID, res.RoomID, res.CheckIn, res.CheckOut,
		res.Status, res.CreatedAt, res.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create reservation: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit reservation: %w", err)
	}

	return nil
}

// ReservationUpdate carries the fields of a partial reservation update.
// Nil fields retain the value already stored.
type ReservationUpdate struct {
	CheckIn  *time.Time
	CheckOut *time.Time
	RoomID   *uuid.UUID
	Status   *models.ReservationStatus
}

// Update applies a partial update to a reservation and returns the
// updated record. The effective date range is re-validated, combining
// supplied fields with retained ones. Overlap against other
// reservations is not re-checked here.
func (r *ReservationRepository) Update(reservationID uuid.UUID, update ReservationUpdate) (*models.Reservation, error) {
	existing, err := r.GetByID(reservationID)
	if err != nil {
		return nil, err
	}

	if update.CheckIn != nil {
		existing.CheckIn = *update.CheckIn
	}
	if update.CheckOut != nil {
		existing.CheckOut = *update.CheckOut
	}
	if update.RoomID != nil {
		existing.RoomID = *update.RoomID
	}
	if update.Status != nil {
		existing.Status = *update.Status
	}

	if !existing.CheckIn.Before(existing.CheckOut) {
		return nil, ErrInvalidRange
	}

	query := `
		UPDATE reservations
		SET check_in = $2, check_out = $3, room_id = $4, status = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`

	err = r.db.QueryRow(
		query,
		existing.ID, existing.CheckIn, existing.CheckOut, existing.RoomID, existing.Status,
	).Scan(&existing.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to update reservation: %w", err)
	}

	return existing, nil
}

// Delete removes a reservation. It returns false, not an error, when
// no reservation with the given ID exists.
func (r *ReservationRepository) Delete(reservationID uuid.UUID) (bool, error) {
	query := `DELETE FROM reservations WHERE id = $1`

	result, err := r.db.Exec(query, reservationID)
	if err != nil {
		return false, fmt.Errorf("failed to delete reservation: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

func (r *ReservationRepository) scanReservation(row *sql.Row) (*models.Reservation, error) {
	res := &models.Reservation{}
	err := row.Scan(
		&res.ID, &res.GuestID, &res.RoomID, &res.CheckIn, &res.CheckOut,
		&res.Status, &res.CreatedAt, &res.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("reservation: %w", ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch reservation: %w", err)
	}

	return res, nil
}

func (r *ReservationRepository) scanReservations(rows *sql.Rows) ([]models.Reservation, error) {
	reservations := []models.Reservation{}

	for rows.Next() {
		var res models.Reservation
		err := rows.Scan(
			&res.ID, &res.GuestID, &res.RoomID, &res.CheckIn, &res.CheckOut,
			&res.Status, &res.CreatedAt, &res.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan reservation: %w", err)
		}
		reservations = append(reservations, res)
	}

	return reservations, rows.Err()
}
