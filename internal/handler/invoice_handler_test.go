package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/middleware"
	"github.com/invoicepal/invoicepal-api/internal/model"
	"github.com/invoicepal/invoicepal-api/internal/repository"
	"github.com/invoicepal/invoicepal-api/internal/service"
)

// newTestRouter wires the invoice routes against in-memory storage, the way
// main does against Postgres. Returns the router and a valid access token.
func newTestRouter(t *testing.T) (*gin.Engine, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	users := repository.NewMemoryUserRepository()
	authService := service.NewAuthService(service.AuthServiceConfig{
		UserRepo:             users,
		JWTSecret:            "test-secret",
		JWTAccessExpiration:  time.Minute,
		JWTRefreshExpiration: time.Hour,
	})

	user := &domain.User{Email: "owner@example.com", Name: "Owner", PasswordHash: "irrelevant"}
	require.NoError(t, users.CreateUser(context.Background(), user))
	tokens, err := authService.GenerateTokens(context.Background(), user.ID)
	require.NoError(t, err)

	router := gin.New()
	invoiceService := service.NewInvoiceService(repository.NewMemoryInvoiceRepository())
	NewInvoiceHandler(invoiceService).RegisterRoutes(router,
		middleware.AuthMiddleware(authService),
		middleware.OptionalAuthMiddleware(authService))

	return router, tokens.AccessToken
}

func previewPayload() map[string]interface{} {
	return map[string]interface{}{
		"businessDetails": map[string]interface{}{"name": "Acme Design Studio"},
		"clientDetails":   map[string]interface{}{"name": "Globex Corp"},
		"invoiceDetails": map[string]interface{}{
			"invoiceNumber": "INV-260831-042",
			"date":          "2026-08-31",
		},
		"lineItems": []map[string]interface{}{
			{"description": "Logo design", "quantity": 1, "price": 500.0},
			{"description": "Business cards", "quantity": 3, "price": 25.0},
		},
		"taxRate": 10,
	}
}

func postJSON(t *testing.T, router *gin.Engine, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	router.ServeHTTP(w, req)
	return w
}

func TestPreviewInvoiceWithoutCredentials(t *testing.T) {
	router, _ := newTestRouter(t)

	w := postJSON(t, router, "/v1/invoices/preview", "", previewPayload())
	require.Equal(t, http.StatusOK, w.Code)

	var resp model.PreviewResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.InDelta(t, 575.0, resp.Invoice.Subtotal, 1e-9)
	assert.InDelta(t, 57.5, resp.Invoice.TaxAmount, 1e-9)
	assert.InDelta(t, 632.5, resp.Invoice.Total, 1e-9)
	assert.Equal(t, "$632.50", resp.Preview.Total)
}

func TestPreviewInvoiceBadDate(t *testing.T) {
	router, _ := newTestRouter(t)

	payload := previewPayload()
	payload["invoiceDetails"].(map[string]interface{})["date"] = "08/31/2026"
	w := postJSON(t, router, "/v1/invoices/preview", "", payload)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateInvoiceRequiresCredentials(t *testing.T) {
	router, token := newTestRouter(t)

	w := postJSON(t, router, "/v1/invoices", "", previewPayload())
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = postJSON(t, router, "/v1/invoices", token, previewPayload())
	require.Equal(t, http.StatusCreated, w.Code)

	var created model.CreateInvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.NotEmpty(t, created.ID)
}
