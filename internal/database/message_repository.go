package database

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// MessageRepository handles database operations for persisted
// conversation turns. A row holds one user/assistant message pair.
type MessageRepository struct {
	db DB
}

// NewMessageRepository creates a new MessageRepository
func NewMessageRepository(db DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Append persists one completed conversational turn
func (r *MessageRepository) Append(pair *models.MessagePair) error {
	if pair.ID == uuid.Nil {
		pair.ID = uuid.New()
	}
	pair.CreatedAt = time.Now()

	query := `
		INSERT INTO messages (id, session_id, guest_id, user_message, assistant_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.Exec(
		query,
		pair.ID, pair.SessionID, pair.GuestID,
		pair.UserMessage, pair.AssistantText, pair.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append message pair: %w", err)
	}

	return nil
}

// ListBySession retrieves all message pairs for a session in insertion
// order
func (r *MessageRepository) ListBySession(sessionID uuid.UUID) ([]models.MessagePair, error) {
	query := `
		SELECT id, session_id, guest_id, user_message, assistant_message, created_at
		FROM messages
		WHERE session_id = $1
		ORDER BY created_at, id
	`

	rows, err := r.db.Query(query, sessionID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	pairs := []models.MessagePair{}
	for rows.Next() {
		var pair models.MessagePair
		err := rows.Scan(
			&pair.ID, &pair.SessionID, &pair.GuestID,
			&pair.UserMessage, &pair.AssistantText, &pair.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message pair: %w", err)
		}
		pairs = append(pairs, pair)
	}

	return pairs, rows.Err()
}

// DeleteBySession removes all message pairs for a session
func (r *MessageRepository) DeleteBySession(sessionID uuid.UUID) error {
	query := `DELETE FROM messages WHERE session_id = $1`

	if _, err := r.db.Exec(query, sessionID); err != nil {
		return fmt.Errorf("failed to delete messages for session: %w", err)
	}

	return nil
}
