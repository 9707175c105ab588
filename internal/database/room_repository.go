package database

import (
	"database/sql"
	"fmt"

	"github.com/lib/pq"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// RoomRepository handles database operations for the rooms table
type RoomRepository struct {
	db DB
}

// NewRoomRepository creates a new RoomRepository
func NewRoomRepository(db DB) *RoomRepository {
	return &RoomRepository{db: db}
}

const roomColumns = `id, number, room_type, rate, available, amenities, created_at, updated_at`

// List retrieves all rooms ordered by room number
func (r *RoomRepository) List() ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		ORDER BY number
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer rows.Close()

	return r.scanRooms(rows)
}

// ListByType retrieves all rooms of the given type ordered by room number
func (r *RoomRepository) ListByType(roomType models.RoomType) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE room_type = $1
		ORDER BY number
	`

	rows, err := r.db.Query(query, roomType)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms by type: %w", err)
	}
	defer rows.Close()

	return r.scanRooms(rows)
}

// ListAvailableByType retrieves available rooms of the given type.
// Ordering by room number keeps the first pick deterministic.
func (r *RoomRepository) ListAvailableByType(roomType models.RoomType) ([]models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE room_type = $1
		  AND available = TRUE
		ORDER BY number
	`

	rows, err := r.db.Query(query, roomType)
	if err != nil {
		return nil, fmt.Errorf("failed to list available rooms: %w", err)
	}
	defer rows.Close()

	return r.scanRooms(rows)
}

// GetByNumber retrieves a room by its room number
func (r *RoomRepository) GetByNumber(number string) (*models.Room, error) {
	query := `
		SELECT ` + roomColumns + `
		FROM rooms
		WHERE number = $1
	`

	room := &models.Room{}
	err := r.db.QueryRow(query, number).Scan(
		&room.ID, &room.Number, &room.RoomType, &room.Rate,
		&room.Available, pq.Array(&room.Amenities),
		&room.CreatedAt, &room.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("room %s: %w", number, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch room: %w", err)
	}

	return room, nil
}

// SetAvailability updates the availability flag of a room
func (r *RoomRepository) SetAvailability(number string, available bool) error {
	query := `
		UPDATE rooms
		SET available = $2, updated_at = NOW()
		WHERE number = $1
	`

	result, err := r.db.Exec(query, number, available)
	if err != nil {
		return fmt.Errorf("failed to update room availability: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return fmt.Errorf("room %s: %w", number, ErrNotFound)
	}

	return nil
}

func (r *RoomRepository) scanRooms(rows *sql.Rows) ([]models.Room, error) {
	rooms := []models.Room{}

	for rows.Next() {
		var room models.Room
		err := rows.Scan(
			&room.ID, &room.Number, &room.RoomType, &room.Rate,
			&room.Available, pq.Array(&room.Amenities),
			&room.CreatedAt, &room.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	return rooms, rows.Err()
}
