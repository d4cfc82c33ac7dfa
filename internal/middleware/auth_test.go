package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/repository"
	"github.com/invoicepal/invoicepal-api/internal/service"
)

// newTestAuth returns an auth service with one registered user and a valid
// access token for that user.
func newTestAuth(t *testing.T) (service.AuthService, *domain.User, string) {
	t.Helper()

	users := repository.NewMemoryUserRepository()
	auth := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:             users,
		JWTSecret:            "test-secret",
		JWTAccessExpiration:  time.Minute,
		JWTRefreshExpiration: time.Hour,
	})

	user := &domain.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "irrelevant"}
	require.NoError(t, users.CreateUser(context.Background(), user))

	tokens, err := auth.GenerateTokens(context.Background(), user.ID)
	require.NoError(t, err)

	return auth, user, tokens.AccessToken
}

// whoamiRouter registers a route behind mw that echoes the userID the
// middleware put in the context.
func whoamiRouter(mw gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", mw, func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString("userID"))
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	auth, user, token := newTestAuth(t)
	router := whoamiRouter(AuthMiddleware(auth))

	t.Run("missing header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Basic abc123")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, w.Body.String())
	})
}

func TestOptionalAuthMiddleware(t *testing.T) {
	auth, user, token := newTestAuth(t)
	router := whoamiRouter(OptionalAuthMiddleware(auth))

	t.Run("anonymous request passes through", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("invalid token passes through anonymously", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer not-a-jwt")
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Body.String())
	})

	t.Run("valid token sets identity", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, user.ID, w.Body.String())
	})
}
