package services

import (
	"errors"
	"io"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
)

func newOrderService(t *testing.T) (*OrderService, sqlmock.Sqlmock, func()) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: db}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := NewOrderService(
		database.NewServiceRepository(mockDB),
		database.NewServiceOrderRepository(mockDB),
		logger,
	)

	return service, mock, func() { db.Close() }
}

var serviceColumnNames = []string{
	"id", "name", "description", "price", "created_at", "updated_at",
}

func TestPlaceOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service, mock, cleanup := newOrderService(t)
		defer cleanup()

		reservationID := uuid.New()
		serviceID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM services WHERE id`).
			WithArgs(serviceID).
			WillReturnRows(sqlmock.NewRows(serviceColumnNames).
				AddRow(serviceID, "laundry", "Same-day wash and fold", 29.99, now, now))
		mock.ExpectExec(`INSERT INTO service_orders`).
			WithArgs(sqlmock.AnyArg(), reservationID, serviceID, 2,
				models.OrderStatusPending, sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		order, err := service.PlaceOrder(reservationID, serviceID, 2, "")
		require.NoError(t, err)
		assert.Equal(t, models.OrderStatusPending, order.Status)
		assert.Equal(t, 2, order.Quantity)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Service", func(t *testing.T) {
		service, mock, cleanup := newOrderService(t)
		defer cleanup()

		reservationID := uuid.New()
		serviceID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM services WHERE id`).
			WithArgs(serviceID).
			WillReturnRows(sqlmock.NewRows(serviceColumnNames))

		order, err := service.PlaceOrder(reservationID, serviceID, 1, models.OrderStatusPending)
		assert.Error(t, err)
		assert.Nil(t, order)
		assert.True(t, errors.Is(err, database.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteOrder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		service, mock, cleanup := newOrderService(t)
		defer cleanup()

		orderID := uuid.New()

		mock.ExpectExec(`DELETE FROM service_orders WHERE id`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := service.DeleteOrder(orderID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not Found", func(t *testing.T) {
		service, mock, cleanup := newOrderService(t)
		defer cleanup()

		orderID := uuid.New()

		mock.ExpectExec(`DELETE FROM service_orders WHERE id`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.DeleteOrder(orderID)
		assert.Error(t, err)
		assert.True(t, errors.Is(err, database.ErrNotFound))

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteOrdersForReservation(t *testing.T) {
	t.Run("No Orders Is A No-Op", func(t *testing.T) {
		service, mock, cleanup := newOrderService(t)
		defer cleanup()

		reservationID := uuid.New()

		mock.ExpectExec(`DELETE FROM service_orders WHERE reservation_id`).
			WithArgs(reservationID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := service.DeleteOrdersForReservation(reservationID)
		require.NoError(t, err)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
