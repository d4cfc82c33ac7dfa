package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInvoice_RecalculateTotals(t *testing.T) {
	tests := []struct {
		name         string
		items        []LineItem
		taxRate      float64
		wantSubtotal float64
		wantTax      float64
		wantTotal    float64
	}{
		{
			name:         "empty invoice",
			items:        nil,
			taxRate:      0,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
		{
			name:         "single item no tax",
			items:        []LineItem{{Description: "Design work", Quantity: 3, Price: 9.99}},
			taxRate:      0,
			wantSubtotal: 29.97,
			wantTax:      0,
			wantTotal:    29.97,
		},
		{
			name: "multiple items with tax",
			items: []LineItem{
				{Description: "Consulting", Quantity: 8, Price: 120},
				{Description: "Hosting", Quantity: 2, Price: 100},
				{Description: "Setup fee", Quantity: 1, Price: 500},
			},
			taxRate:      19,
			wantSubtotal: 1660,
			wantTax:      315.4,
			wantTotal:    1975.4,
		},
		{
			name:         "zero quantity contributes nothing",
			items:        []LineItem{{Description: "Placeholder", Quantity: 0, Price: 50}},
			taxRate:      10,
			wantSubtotal: 0,
			wantTax:      0,
			wantTotal:    0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NewInvoice()
			inv.LineItems = tt.items
			inv.TaxRate = tt.taxRate
			inv.RecalculateTotals()

			assert.InDelta(t, tt.wantSubtotal, inv.Subtotal, 1e-9)
			assert.InDelta(t, tt.wantTax, inv.TaxAmount, 1e-9)
			assert.InDelta(t, tt.wantTotal, inv.Total, 1e-9)

			// Per-line totals must match their inputs
			for _, item := range inv.LineItems {
				assert.InDelta(t, item.Quantity*item.Price, item.Total, 1e-9)
			}
		})
	}
}

func TestInvoice_RecalculateTotalsIdempotent(t *testing.T) {
	inv := NewInvoice()
	inv.LineItems = []LineItem{{Description: "Widget", Quantity: 3, Price: 9.99}}
	inv.TaxRate = 10

	inv.RecalculateTotals()
	first := *inv
	inv.RecalculateTotals()
	inv.RecalculateTotals()

	assert.Equal(t, first.Subtotal, inv.Subtotal)
	assert.Equal(t, first.TaxAmount, inv.TaxAmount)
	assert.Equal(t, first.Total, inv.Total)
}

func TestInvoice_NormalizeRepairsStaleTotals(t *testing.T) {
	// Simulates a snapshot loaded from storage whose persisted totals no
	// longer match the line items.
	inv := Invoice{
		LineItems: []LineItem{{Description: "Widget", Quantity: 2, Price: 5, Total: 999}},
		TaxRate:   10,
		Subtotal:  999,
		TaxAmount: 999,
		Total:     999,
	}

	inv.Normalize()

	assert.InDelta(t, 10.0, inv.Subtotal, 1e-9)
	assert.InDelta(t, 1.0, inv.TaxAmount, 1e-9)
	assert.InDelta(t, 11.0, inv.Total, 1e-9)
	assert.InDelta(t, 10.0, inv.LineItems[0].Total, 1e-9)
}

func TestInvoice_NormalizeNilLineItems(t *testing.T) {
	var inv Invoice
	inv.Normalize()
	require.NotNil(t, inv.LineItems)
	assert.Len(t, inv.LineItems, 0)
	assert.Zero(t, inv.Subtotal)
}

func TestInvoice_JSONRoundTrip(t *testing.T) {
	inv := Invoice{
		InvoiceDetails: InvoiceDetails{
			InvoiceNumber: "INV-250831-042",
			Date:          NewDateOnly(time.Date(2025, 8, 31, 14, 30, 0, 0, time.UTC)),
			DueDate:       NewDateOnly(time.Date(2025, 9, 30, 0, 0, 0, 0, time.UTC)),
		},
		BusinessDetails: BusinessDetails{Name: "Acme Co", Email: "billing@acme.test"},
		ClientDetails:   ClientDetails{Name: "Wile E."},
		LineItems: []LineItem{
			{ID: "a", Description: "Anvil", Quantity: 2, Price: 75.5},
		},
		Notes:   "Net 30",
		TaxRate: 7.5,
	}
	inv.RecalculateTotals()

	data, err := json.Marshal(inv)
	require.NoError(t, err)

	var decoded Invoice
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, inv, decoded)
	// Dates must round-trip exactly to the day
	assert.Equal(t, "2025-08-31", decoded.InvoiceDetails.Date.Format("2006-01-02"))
	assert.Equal(t, "2025-09-30", decoded.InvoiceDetails.DueDate.Format("2006-01-02"))
}

func TestDateOnly_NullHandling(t *testing.T) {
	var d DateOnly
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "null", string(data))

	require.NoError(t, json.Unmarshal([]byte(`null`), &d))
	assert.True(t, d.IsZero())
	require.NoError(t, json.Unmarshal([]byte(`""`), &d))
	assert.True(t, d.IsZero())

	err = json.Unmarshal([]byte(`"not-a-date"`), &d)
	assert.Error(t, err)
}

func TestNewInvoiceNumber(t *testing.T) {
	num := NewInvoiceNumber()
	assert.Regexp(t, `^INV-\d{6}-\d{3}$`, num)
}
