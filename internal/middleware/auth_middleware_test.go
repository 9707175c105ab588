package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/whipsplash/concierge-backend/pkg/jwt"
)

const testCookieName = "concierge_session"

func setupAuthRouter(t *testing.T) (*gin.Engine, *jwt.Service, *GuestContext) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtService := jwt.NewService("test-secret", time.Hour)

	var captured GuestContext
	router := gin.New()
	router.GET("/protected", AuthMiddleware(jwtService, testCookieName), func(c *gin.Context) {
		guest, ok := GetGuestContext(c)
		require.True(t, ok)
		captured = guest
		c.JSON(http.StatusOK, gin.H{"detail": "ok"})
	})

	return router, jwtService, &captured
}

func TestAuthMiddleware_CookieToken(t *testing.T) {
	router, jwtService, captured := setupAuthRouter(t)

	guestID := uuid.New()
	sessionID := uuid.New()
	token, err := jwtService.GenerateToken(guestID, sessionID, "peter.bigbelly@puffy.com", "Peter Griffin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guestID, captured.GuestID)
	assert.Equal(t, sessionID, captured.SessionID)
	assert.Equal(t, "Peter Griffin", captured.FullName)
}

func TestAuthMiddleware_BearerFallback(t *testing.T) {
	router, jwtService, captured := setupAuthRouter(t)

	guestID := uuid.New()
	token, err := jwtService.GenerateToken(guestID, uuid.New(), "lois.griffin@puffy.com", "Lois Griffin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, guestID, captured.GuestID)
}

func TestAuthMiddleware_MissingToken(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Missing access token")
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: "invalid.token.here"})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid or expired access token")
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	router, _, _ := setupAuthRouter(t)

	otherService := jwt.NewService("other-secret", time.Hour)
	token, err := otherService.GenerateToken(uuid.New(), uuid.New(), "stewie.griffin@puffy.com", "Stewie Griffin")
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: testCookieName, Value: token})
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
