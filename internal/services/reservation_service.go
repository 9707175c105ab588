package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
)

// ReservationService orchestrates the guest-facing booking workflow
// across the guest, room and reservation repositories. It holds no
// reservation state itself; all persistence and the overlap invariant
// live in the reservation repository.
type ReservationService struct {
	guestRepo       *database.GuestRepository
	roomRepo        *database.RoomRepository
	reservationRepo *database.ReservationRepository
	logger          *logrus.Logger
}

// NewReservationService creates a new ReservationService
func NewReservationService(
	guestRepo *database.GuestRepository,
	roomRepo *database.RoomRepository,
	reservationRepo *database.ReservationRepository,
	logger *logrus.Logger,
) *ReservationService {
	return &ReservationService{
		guestRepo:       guestRepo,
		roomRepo:        roomRepo,
		reservationRepo: reservationRepo,
		logger:          logger,
	}
}

// Book creates a reservation for the given guest identity:
//  1. Resolve the guest by ID, then by email; create the guest when
//     neither resolves.
//  2. Find available rooms of the requested type.
//  3. Pick the first one (lowest room number).
//  4. Create the reservation with status "booked".
//
// Guest resolution is idempotent, so a failed booking leaves no state
// behind that would block a retry.
func (s *ReservationService) Book(
	guest models.Guest,
	roomType models.RoomType,
	checkIn, checkOut time.Time,
) (*models.Reservation, error) {
	resolved, err := s.resolveGuest(guest)
	if err != nil {
		return nil, err
	}

	rooms, err := s.roomRepo.ListAvailableByType(roomType)
	if err != nil {
		return nil, err
	}
	if len(rooms) == 0 {
		return nil, fmt.Errorf("%s rooms: %w", roomType, database.ErrNoAvailability)
	}

	selected := rooms[0]

	reservation := &models.Reservation{
		GuestID:  resolved.ID,
		RoomID:   selected.ID,
		CheckIn:  checkIn,
		CheckOut: checkOut,
		Status:   models.ReservationStatusBooked,
	}

	if err := s.reservationRepo.Create(reservation); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"reservation_id": reservation.ID,
		"guest_id":       resolved.ID,
		"room":           selected.Number,
	}).Info("Reservation created")

	return reservation, nil
}

// ListForGuest returns all reservations for the given guest
func (s *ReservationService) ListForGuest(guestID uuid.UUID) ([]models.Reservation, error) {
	return s.reservationRepo.ListByGuest(guestID)
}

// Modify applies a partial update to a reservation. When a new room
// type is requested, an available room of that type is resolved first
// and its ID is passed along with the date changes.
func (s *ReservationService) Modify(
	reservationID uuid.UUID,
	checkIn, checkOut *time.Time,
	roomType *models.RoomType,
) (*models.Reservation, error) {
	update := database.ReservationUpdate{
		CheckIn:  checkIn,
		CheckOut: checkOut,
	}

	if roomType != nil {
		rooms, err := s.roomRepo.ListAvailableByType(*roomType)
		if err != nil {
			return nil, err
		}
		if len(rooms) == 0 {
			return nil, fmt.Errorf("%s rooms: %w", *roomType, database.ErrNoAvailability)
		}
		update.RoomID = &rooms[0].ID
	}

	reservation, err := s.reservationRepo.Update(reservationID, update)
	if err != nil {
		return nil, err
	}

	s.logger.WithField("reservation_id", reservationID).Info("Reservation modified")

	return reservation, nil
}

// Cancel removes a reservation. It fails with ErrNotFound when no
// reservation with the given ID exists.
func (s *ReservationService) Cancel(reservationID uuid.UUID) error {
	deleted, err := s.reservationRepo.Delete(reservationID)
	if err != nil {
		return err
	}
	if !deleted {
		return fmt.Errorf("reservation %s: %w", reservationID, database.ErrNotFound)
	}

	s.logger.WithField("reservation_id", reservationID).Info("Reservation cancelled")

	return nil
}

// resolveGuest looks up the guest by ID, then by email, creating a new
// guest record from the supplied identity fields when neither matches.
func (s *ReservationService) resolveGuest(guest models.Guest) (*models.Guest, error) {
	if guest.ID != uuid.Nil {
		existing, err := s.guestRepo.GetByID(guest.ID)
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, database.ErrNotFound) {
			return nil, err
		}
	}

	existing, err := s.guestRepo.GetByEmail(guest.Email)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, database.ErrNotFound) {
		return nil, err
	}

	if err := s.guestRepo.Create(&guest); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"guest_id": guest.ID,
		"email":    guest.Email,
	}).Info("Guest created")

	return &guest, nil
}
