package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testInvoice is the invoice payload shape used by the API
type testInvoice struct {
	BusinessDetails map[string]interface{}   `json:"businessDetails"`
	ClientDetails   map[string]interface{}   `json:"clientDetails"`
	InvoiceDetails  map[string]interface{}   `json:"invoiceDetails"`
	LineItems       []map[string]interface{} `json:"lineItems"`
	TaxRate         float64                  `json:"taxRate"`
	TaxAmount       float64                  `json:"taxAmount"`
	Subtotal        float64                  `json:"subtotal"`
	Total           float64                  `json:"total"`
}

// testRecord is an invoice record as returned by the API
type testRecord struct {
	ID            string      `json:"id"`
	PaymentStatus string      `json:"paymentStatus"`
	Data          testInvoice `json:"data"`
	CreatedAt     string      `json:"createdAt"`
}

type testListResponse struct {
	Data []testRecord `json:"data"`
}

func sampleInvoice() testInvoice {
	return testInvoice{
		BusinessDetails: map[string]interface{}{
			"name":    "Acme Design Studio",
			"email":   "billing@acme.test",
			"address": "1 Main St",
		},
		ClientDetails: map[string]interface{}{
			"name":  "Globex Corp",
			"email": "ap@globex.test",
		},
		InvoiceDetails: map[string]interface{}{
			"invoiceNumber": "INV-260831-042",
			"date":          "2026-08-31",
			"dueDate":       "2026-09-30",
		},
		LineItems: []map[string]interface{}{
			{"description": "Logo design", "quantity": 1, "price": 500.0},
			{"description": "Business cards", "quantity": 3, "price": 25.0},
		},
		TaxRate: 10,
	}
}

// TestInvoiceAPI exercises the invoice API against a running server.
// Set API_BASE_URL to run it, e.g. API_BASE_URL=http://localhost:8080
func TestInvoiceAPI(t *testing.T) {
	baseURL := os.Getenv("API_BASE_URL")
	if baseURL == "" {
		t.Skip("API_BASE_URL not set, skipping integration test")
	}

	client := &http.Client{Timeout: 10 * time.Second}

	var (
		accessToken string
		recordID    string
	)

	doJSON := func(t *testing.T, method, path string, body interface{}, out interface{}) *http.Response {
		t.Helper()

		var buf bytes.Buffer
		if body != nil {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}

		req, err := http.NewRequest(method, baseURL+path, &buf)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		if accessToken != "" {
			req.Header.Set("Authorization", "Bearer "+accessToken)
		}

		resp, err := client.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()

		if out != nil {
			require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
		}
		return resp
	}

	t.Run("PreviewWithoutAuth", func(t *testing.T) {
		var preview struct {
			Invoice testInvoice            `json:"invoice"`
			Preview map[string]interface{} `json:"preview"`
		}
		resp := doJSON(t, http.MethodPost, "/v1/invoices/preview", sampleInvoice(), &preview)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		assert.InDelta(t, 575.0, preview.Invoice.Subtotal, 1e-9)
		assert.InDelta(t, 57.5, preview.Invoice.TaxAmount, 1e-9)
		assert.InDelta(t, 632.5, preview.Invoice.Total, 1e-9)
	})

	t.Run("Register", func(t *testing.T) {
		email := fmt.Sprintf("it-%d@invoicepal.test", time.Now().UnixNano())
		var auth struct {
			AccessToken string `json:"accessToken"`
		}
		resp := doJSON(t, http.MethodPost, "/v1/auth/register", map[string]string{
			"email":    email,
			"password": "correct-horse",
			"name":     "Integration Test",
		}, &auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotEmpty(t, auth.AccessToken)
		accessToken = auth.AccessToken
	})

	t.Run("CreateInvoice", func(t *testing.T) {
		var created struct {
			ID string `json:"id"`
		}
		resp := doJSON(t, http.MethodPost, "/v1/invoices", sampleInvoice(), &created)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		require.NotEmpty(t, created.ID)
		recordID = created.ID
	})

	t.Run("ListInvoices", func(t *testing.T) {
		var list testListResponse
		resp := doJSON(t, http.MethodGet, "/v1/invoices", nil, &list)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.Len(t, list.Data, 1)
		assert.Equal(t, recordID, list.Data[0].ID)
		assert.Equal(t, "draft", list.Data[0].PaymentStatus)
	})

	t.Run("GetInvoice", func(t *testing.T) {
		var record testRecord
		resp := doJSON(t, http.MethodGet, "/v1/invoices/"+recordID, nil, &record)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, recordID, record.ID)
		assert.InDelta(t, 632.5, record.Data.Total, 1e-9)
	})

	t.Run("UpdateInvoice", func(t *testing.T) {
		updated := sampleInvoice()
		updated.LineItems = updated.LineItems[:1]
		resp := doJSON(t, http.MethodPut, "/v1/invoices/"+recordID, updated, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var record testRecord
		resp = doJSON(t, http.MethodGet, "/v1/invoices/"+recordID, nil, &record)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Len(t, record.Data.LineItems, 1)
		assert.InDelta(t, 550.0, record.Data.Total, 1e-9)
	})

	t.Run("RejectInvalidInvoice", func(t *testing.T) {
		invalid := sampleInvoice()
		invalid.LineItems[0]["quantity"] = 0
		resp := doJSON(t, http.MethodPost, "/v1/invoices", invalid, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("UpdateStatus", func(t *testing.T) {
		resp := doJSON(t, http.MethodPatch, "/v1/invoices/"+recordID+"/status", map[string]string{
			"paymentStatus": "paid",
		}, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		var record testRecord
		resp = doJSON(t, http.MethodGet, "/v1/invoices/"+recordID, nil, &record)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "paid", record.PaymentStatus)
	})

	t.Run("DeleteInvoice", func(t *testing.T) {
		resp := doJSON(t, http.MethodDelete, "/v1/invoices/"+recordID, nil, nil)
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		resp = doJSON(t, http.MethodGet, "/v1/invoices/"+recordID, nil, nil)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}
