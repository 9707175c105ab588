package models

import (
	"time"

	"github.com/google/uuid"
)

// RoomType represents the category of a room
type RoomType string

const (
	RoomTypeSingle RoomType = "single"
	RoomTypeDouble RoomType = "double"
	RoomTypeSuite  RoomType = "suite"
)

// ValidRoomType reports whether the given string names a known room type
func ValidRoomType(t string) bool {
	switch RoomType(t) {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite:
		return true
	}
	return false
}

// Room represents a physical hotel room
type Room struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Number    string    `json:"number" db:"number"`
	RoomType  RoomType  `json:"room_type" db:"room_type"`
	Rate      float64   `json:"rate" db:"rate"`
	Available bool      `json:"available" db:"available"`
	Amenities []string  `json:"amenities" db:"amenities"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
