package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/middleware"
	"github.com/whipsplash/concierge-backend/internal/services"
	"github.com/whipsplash/concierge-backend/pkg/agent"
)

// scriptedRuntime plays back a fixed reply for chat handler tests.
type scriptedRuntime struct {
	fragments []string
}

func (s *scriptedRuntime) Run(ctx context.Context, req agent.RunRequest, fragments chan<- string) (*agent.RunResult, error) {
	var full strings.Builder
	for _, fragment := range s.fragments {
		full.WriteString(fragment)
		fragments <- fragment
	}
	return &agent.RunResult{NewMessages: []agent.Message{
		{Role: agent.RoleUser, Content: req.UserPrompt},
		{Role: agent.RoleAssistant, Content: full.String()},
	}}, nil
}

func (s *scriptedRuntime) GetName() string {
	return "scripted"
}

func setupChatHandler(t *testing.T, runtime agent.Runtime) (*ChatHandler, sqlmock.Sqlmock, func()) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	mockDB := &mockDatabase{db: db}
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	reservations := services.NewReservationService(
		database.NewGuestRepository(mockDB),
		database.NewRoomRepository(mockDB),
		database.NewReservationRepository(mockDB),
		logger,
	)
	orders := services.NewOrderService(
		database.NewServiceRepository(mockDB),
		database.NewServiceOrderRepository(mockDB),
		logger,
	)
	chat := services.NewChatService(runtime, database.NewMessageRepository(mockDB), reservations, orders, logger)

	return NewChatHandler(chat, logger), mock, func() { db.Close() }
}

func authenticatedChatContext(w *httptest.ResponseRecorder, guestID, sessionID uuid.UUID) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	c.Set(middleware.GuestContextKey, middleware.GuestContext{
		GuestID:   guestID,
		SessionID: sessionID,
		Email:     "peter.bigbelly@puffy.com",
		FullName:  "Peter Griffin",
	})
	return c
}

var messageColumnNames = []string{
	"id", "session_id", "guest_id", "user_message", "assistant_message", "created_at",
}

func TestChatHandler(t *testing.T) {
	t.Run("Streams NDJSON Fragments", func(t *testing.T) {
		runtime := &scriptedRuntime{fragments: []string{"Suite 121 ", "is booked."}}
		handler, mock, cleanup := setupChatHandler(t, runtime)
		defer cleanup()

		guestID := uuid.New()
		sessionID := uuid.New()

		mock.ExpectQuery(`SELECT (.+) FROM messages WHERE session_id`).
			WithArgs(sessionID).
			WillReturnRows(sqlmock.NewRows(messageColumnNames))
		mock.ExpectExec(`INSERT INTO messages`).
			WithArgs(sqlmock.AnyArg(), sessionID, guestID,
				"book a suite", "Suite 121 is booked.", sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))

		w := httptest.NewRecorder()
		c := authenticatedChatContext(w, guestID, sessionID)
		c.Request = jsonRequest(http.MethodPost, "/chat", gin.H{"message": "book a suite"})

		handler.Chat(c)

		assert.Equal(t, http.StatusOK, w.Code)

		lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
		require.Len(t, lines, 2)

		var first struct {
			Message string `json:"message"`
		}
		require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
		assert.Equal(t, "Suite 121 ", first.Message)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Unauthorized Without Guest Context", func(t *testing.T) {
		handler, _, cleanup := setupChatHandler(t, &scriptedRuntime{})
		defer cleanup()

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = jsonRequest(http.MethodPost, "/chat", gin.H{"message": "hello"})

		handler.Chat(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("Missing Message Rejected", func(t *testing.T) {
		handler, _, cleanup := setupChatHandler(t, &scriptedRuntime{})
		defer cleanup()

		w := httptest.NewRecorder()
		c := authenticatedChatContext(w, uuid.New(), uuid.New())
		c.Request = jsonRequest(http.MethodPost, "/chat", gin.H{})

		handler.Chat(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestChatHistoryHandler(t *testing.T) {
	t.Run("Returns Stored Turns", func(t *testing.T) {
		handler, mock, cleanup := setupChatHandler(t, &scriptedRuntime{})
		defer cleanup()

		guestID := uuid.New()
		sessionID := uuid.New()
		now := time.Now()

		mock.ExpectQuery(`SELECT (.+) FROM messages WHERE session_id`).
			WithArgs(sessionID).
			WillReturnRows(sqlmock.NewRows(messageColumnNames).
				AddRow(uuid.New(), sessionID, guestID, "any rooms?", "Yes, several.", now))

		w := httptest.NewRecorder()
		c := authenticatedChatContext(w, guestID, sessionID)
		c.Request = httptest.NewRequest(http.MethodGet, "/chat/history", nil)

		handler.History(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "any rooms?")
	})

	t.Run("Clear History", func(t *testing.T) {
		handler, mock, cleanup := setupChatHandler(t, &scriptedRuntime{})
		defer cleanup()

		sessionID := uuid.New()

		mock.ExpectExec(`DELETE FROM messages WHERE session_id`).
			WithArgs(sessionID).
			WillReturnResult(sqlmock.NewResult(0, 3))

		w := httptest.NewRecorder()
		c := authenticatedChatContext(w, uuid.New(), sessionID)
		c.Request = httptest.NewRequest(http.MethodDelete, "/chat/history", nil)

		handler.ClearHistory(c)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Chat history cleared")
	})
}
