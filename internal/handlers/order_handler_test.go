package handlers

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/internal/services"
)

func setupOrderHandler(t *testing.T) (*OrderHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: db}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	service := services.NewOrderService(
		database.NewServiceRepository(mockDB),
		database.NewServiceOrderRepository(mockDB),
		logger,
	)

	return NewOrderHandler(service, logger), mock, func() { db.Close() }
}

var serviceColumnNames = []string{
	"id", "name", "description", "price", "created_at", "updated_at",
}

func TestListServicesHandler(t *testing.T) {
	handler, mock, cleanup := setupOrderHandler(t)
	defer cleanup()

	now := time.Now()

	mock.ExpectQuery(`SELECT (.+) FROM services ORDER BY name`).
		WillReturnRows(sqlmock.NewRows(serviceColumnNames).
			AddRow(uuid.New(), "breakfast", "Buffet breakfast for one guest", 24.99, now, now).
			AddRow(uuid.New(), "laundry", "Same-day wash and fold", 29.99, now, now))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/services", nil)

	handler.ListServices(c)

	assert.Equal(t, http.StatusOK, w.Code)

	var catalog []models.Service
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &catalog))
	assert.Len(t, catalog, 2)
	assert.Equal(t, "breakfast", catalog[0].Name)
}

func TestPlaceOrderHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mock, cleanup := setupOrderHandler(t)
		defer cleanup()

		reservationID := uuid.New()
		serviceID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM services WHERE id`).
			WithArgs(serviceID).
			WillReturnRows(sqlmock.NewRows(serviceColumnNames).
				AddRow(serviceID, "laundry", "Same-day wash and fold", 29.99, now, now))
		mock.ExpectExec(`INSERT INTO service_orders`).
			WillReturnResult(sqlmock.NewResult(1, 1))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(http.MethodPost, "/reservations/"+reservationID.String()+"/orders", gin.H{
			"service_id": serviceID,
			"quantity":   2,
		})
		c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

		handler.PlaceOrder(c)

		assert.Equal(t, http.StatusCreated, w.Code)

		var order models.ServiceOrder
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &order))
		assert.Equal(t, reservationID, order.ReservationID)
		assert.Equal(t, serviceID, order.ServiceID)
		assert.Equal(t, 2, order.Quantity)
		assert.Equal(t, models.OrderStatusPending, order.Status)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unknown Service", func(t *testing.T) {
		handler, mock, cleanup := setupOrderHandler(t)
		defer cleanup()

		reservationID := uuid.New()
		serviceID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM services WHERE id`).
			WithArgs(serviceID).
			WillReturnRows(sqlmock.NewRows(serviceColumnNames))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(http.MethodPost, "/reservations/"+reservationID.String()+"/orders", gin.H{
			"service_id": serviceID,
			"quantity":   1,
		})
		c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

		handler.PlaceOrder(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Zero Quantity Rejected", func(t *testing.T) {
		handler, _, cleanup := setupOrderHandler(t)
		defer cleanup()

		reservationID := uuid.New()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(http.MethodPost, "/reservations/"+reservationID.String()+"/orders", gin.H{
			"service_id": uuid.New(),
			"quantity":   0,
		})
		c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

		handler.PlaceOrder(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteOrderHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mock, cleanup := setupOrderHandler(t)
		defer cleanup()

		orderID := uuid.New()

		mock.ExpectExec(`DELETE FROM service_orders WHERE id`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 1))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/orders/"+orderID.String(), nil)
		c.Params = gin.Params{{Key: "order_id", Value: orderID.String()}}

		handler.DeleteOrder(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), orderID.String())
	})

	t.Run("Not Found", func(t *testing.T) {
		handler, mock, cleanup := setupOrderHandler(t)
		defer cleanup()

		orderID := uuid.New()

		mock.ExpectExec(`DELETE FROM service_orders WHERE id`).
			WithArgs(orderID).
			WillReturnResult(sqlmock.NewResult(0, 0))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodDelete, "/orders/"+orderID.String(), nil)
		c.Params = gin.Params{{Key: "order_id", Value: orderID.String()}}

		handler.DeleteOrder(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDeleteOrdersForReservationHandler(t *testing.T) {
	handler, mock, cleanup := setupOrderHandler(t)
	defer cleanup()

	reservationID := uuid.New()

	mock.ExpectExec(`DELETE FROM service_orders WHERE reservation_id`).
		WithArgs(reservationID).
		WillReturnResult(sqlmock.NewResult(0, 2))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodDelete, "/reservations/"+reservationID.String()+"/orders", nil)
	c.Params = gin.Params{{Key: "id", Value: reservationID.String()}}

	handler.DeleteOrdersForReservation(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}
