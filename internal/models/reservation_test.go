package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidRoomType(t *testing.T) {
	assert.True(t, ValidRoomType("single"))
	assert.True(t, ValidRoomType("double"))
	assert.True(t, ValidRoomType("suite"))
	assert.False(t, ValidRoomType("penthouse"))
	assert.False(t, ValidRoomType(""))
	assert.False(t, ValidRoomType("Single"))
}

func TestCreateReservationRequestValidate(t *testing.T) {
	checkIn := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 5, 11, 0, 0, 0, time.UTC)

	t.Run("Valid", func(t *testing.T) {
		req := CreateReservationRequest{
			FullName: "Peter Griffin",
			Email:    "peter.bigbelly@puffy.com",
			RoomType: "double",
			CheckIn:  checkIn,
			CheckOut: checkOut,
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("Unknown Room Type", func(t *testing.T) {
		req := CreateReservationRequest{
			FullName: "Peter Griffin",
			Email:    "peter.bigbelly@puffy.com",
			RoomType: "penthouse",
			CheckIn:  checkIn,
			CheckOut: checkOut,
		}
		assert.Error(t, req.Validate())
	})

	t.Run("Inverted Range", func(t *testing.T) {
		req := CreateReservationRequest{
			FullName: "Peter Griffin",
			Email:    "peter.bigbelly@puffy.com",
			RoomType: "double",
			CheckIn:  checkOut,
			CheckOut: checkIn,
		}
		assert.Error(t, req.Validate())
	})

	t.Run("Empty Range", func(t *testing.T) {
		req := CreateReservationRequest{
			FullName: "Peter Griffin",
			Email:    "peter.bigbelly@puffy.com",
			RoomType: "double",
			CheckIn:  checkIn,
			CheckOut: checkIn,
		}
		assert.Error(t, req.Validate())
	})
}

func TestUpdateReservationRequestValidate(t *testing.T) {
	checkIn := time.Date(2026, 9, 1, 15, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 9, 5, 11, 0, 0, 0, time.UTC)

	t.Run("At Least One Field", func(t *testing.T) {
		req := UpdateReservationRequest{}
		assert.Error(t, req.Validate())
	})

	t.Run("Dates Only", func(t *testing.T) {
		req := UpdateReservationRequest{CheckIn: &checkIn, CheckOut: &checkOut}
		assert.NoError(t, req.Validate())
	})

	t.Run("Single Date", func(t *testing.T) {
		req := UpdateReservationRequest{CheckOut: &checkOut}
		assert.NoError(t, req.Validate())
	})

	t.Run("Inverted Range", func(t *testing.T) {
		req := UpdateReservationRequest{CheckIn: &checkOut, CheckOut: &checkIn}
		assert.Error(t, req.Validate())
	})

	t.Run("Room Type Only", func(t *testing.T) {
		roomType := "suite"
		req := UpdateReservationRequest{RoomType: &roomType}
		assert.NoError(t, req.Validate())
	})

	t.Run("Unknown Room Type", func(t *testing.T) {
		roomType := "penthouse"
		req := UpdateReservationRequest{RoomType: &roomType}
		assert.Error(t, req.Validate())
	})
}
