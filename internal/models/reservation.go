package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ReservationStatus represents the status of a reservation
type ReservationStatus string

const (
	ReservationStatusBooked    ReservationStatus = "booked"
	ReservationStatusConfirmed ReservationStatus = "confirmed"
	ReservationStatusCheckedIn ReservationStatus = "checked_in"
	ReservationStatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a room booking for a guest over a half-open
// [check_in, check_out) date range
type Reservation struct {
	ID        uuid.UUID         `json:"id" db:"id"`
	GuestID   uuid.UUID         `json:"guest_id" db:"guest_id"`
	RoomID    uuid.UUID         `json:"room_id" db:"room_id"`
	CheckIn   time.Time         `json:"check_in" db:"check_in"`
	CheckOut  time.Time         `json:"check_out" db:"check_out"`
	Status    ReservationStatus `json:"status" db:"status"`
	CreatedAt time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" db:"updated_at"`
}

// CreateReservationRequest represents the request to create a reservation
type CreateReservationRequest struct {
	GuestID  *uuid.UUID `json:"guest_id,omitempty"`
	FullName string     `json:"full_name" binding:"required"`
	Email    string     `json:"email" binding:"required,email"`
	Phone    *string    `json:"phone,omitempty"`
	RoomType string     `json:"room_type" binding:"required"`
	CheckIn  time.Time  `json:"check_in" binding:"required"`
	CheckOut time.Time  `json:"check_out" binding:"required"`
}

// UpdateReservationRequest represents a partial reservation update.
// Absent fields retain their current values.
type UpdateReservationRequest struct {
	CheckIn  *time.Time `json:"check_in,omitempty"`
	CheckOut *time.Time `json:"check_out,omitempty"`
	RoomType *string    `json:"room_type,omitempty"`
}

// Validate validates the create reservation request
func (r *CreateReservationRequest) Validate() error {
	if !ValidRoomType(r.RoomType) {
		return errors.New("room_type must be one of: single, double, suite")
	}
	if !r.CheckIn.Before(r.CheckOut) {
		return errors.New("check_in must be before check_out")
	}
	return nil
}

// Validate validates the update reservation request
func (r *UpdateReservationRequest) Validate() error {
	if r.CheckIn == nil && r.CheckOut == nil && r.RoomType == nil {
		return errors.New("at least one of check_in, check_out or room_type is required")
	}
	if r.RoomType != nil && !ValidRoomType(*r.RoomType) {
		return errors.New("room_type must be one of: single, double, suite")
	}
	if r.CheckIn != nil && r.CheckOut != nil && !r.CheckIn.Before(*r.CheckOut) {
		return errors.New("check_in must be before check_out")
	}
	return nil
}
