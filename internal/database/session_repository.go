package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// SessionRepository handles database operations for chat sessions
type SessionRepository struct {
	db DB
}

// NewSessionRepository creates a new SessionRepository
func NewSessionRepository(db DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Create inserts a new session
func (r *SessionRepository) Create(session *models.Session) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt

	query := `
		INSERT INTO sessions (id, guest_id, title, device, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		session.ID, session.GuestID, session.Title, session.Device,
		session.CreatedAt, session.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}

	return nil
}

// GetByID retrieves a session by ID
func (r *SessionRepository) GetByID(sessionID uuid.UUID) (*models.Session, error) {
	query := `
		SELECT id, guest_id, title, device, created_at, updated_at
		FROM sessions
		WHERE id = $1
	`

	session := &models.Session{}
	var device sql.NullString
	err := r.db.QueryRow(query, sessionID).Scan(
		&session.ID, &session.GuestID, &session.Title, &device,
		&session.CreatedAt, &session.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %s: %w", sessionID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session: %w", err)
	}

	if device.Valid {
		session.Device = &device.String
	}

	return session, nil
}

// ListByGuest retrieves all sessions for a guest, newest first
func (r *SessionRepository) ListByGuest(guestID uuid.UUID) ([]models.Session, error) {
	query := `
		SELECT id, guest_id, title, device, created_at, updated_at
		FROM sessions
		WHERE guest_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.Query(query, guestID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	sessions := []models.Session{}
	for rows.Next() {
		var session models.Session
		var device sql.NullString
		err := rows.Scan(
			&session.ID, &session.GuestID, &session.Title, &device,
			&session.CreatedAt, &session.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		if device.Valid {
			session.Device = &device.String
		}
		sessions = append(sessions, session)
	}

	return sessions, rows.Err()
}

// DeleteByGuest removes all sessions for a guest
func (r *SessionRepository) DeleteByGuest(guestID uuid.UUID) error {
	query := `DELETE FROM sessions WHERE guest_id = $1`

	if _, err := r.db.Exec(query, guestID); err != nil {
		return fmt.Errorf("failed to delete sessions for guest: %w", err)
	}

	return nil
}
