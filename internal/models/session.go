package models

import (
	"time"

	"github.com/google/uuid"
)

// Session represents a chat session owned by a guest. The device field
// records the browser or app family the session was opened from.
type Session struct {
	ID        uuid.UUID `json:"id" db:"id"`
	GuestID   uuid.UUID `json:"guest_id" db:"guest_id"`
	Title     string    `json:"title" db:"title"`
	Device    *string   `json:"device,omitempty" db:"device"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// MessagePair represents one completed conversational turn: the guest's
// message and the assistant's reply, persisted together.
type MessagePair struct {
	ID            uuid.UUID `json:"id" db:"id"`
	SessionID     uuid.UUID `json:"session_id" db:"session_id"`
	GuestID       uuid.UUID `json:"guest_id" db:"guest_id"`
	UserMessage   string    `json:"user_message" db:"user_message"`
	AssistantText string    `json:"assistant_message" db:"assistant_message"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
}

// ChatRequest is the body of a chat turn
type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}
