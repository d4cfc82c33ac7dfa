package domain

import (
	"encoding/json"
	"fmt"
	"math/rand"
	"time"
)

// DateOnly is a custom type for handling date-only strings in JSON. Invoices
// care about calendar days, not times of day, so values round-trip through
// their ISO-8601 date form exactly to the day.
type DateOnly struct {
	time.Time
}

// NewDateOnly truncates t to its calendar day.
func NewDateOnly(t time.Time) DateOnly {
	return DateOnly{time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)}
}

// UnmarshalJSON implements custom unmarshaling for date-only strings
func (d *DateOnly) UnmarshalJSON(b []byte) error {
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	// Handle null/empty dates
	if s == nil || *s == "" {
		d.Time = time.Time{}
		return nil
	}

	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// MarshalJSON implements custom marshaling for date-only strings
func (d DateOnly) MarshalJSON() ([]byte, error) {
	if d.Time.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(d.Time.Format("2006-01-02"))
}

// LineItem represents a single billable row on an invoice. The ID is an
// ephemeral per-session identifier used to address the item during editing;
// it is not a business key and is not meaningful outside the session that
// assigned it.
type LineItem struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// LineTotal computes the amount for this row. The Total field caches the last
// computed value for serialization; it is always rewritten by
// RecalculateTotals and is never an input.
func (li LineItem) LineTotal() float64 {
	return li.Quantity * li.Price
}

// BusinessDetails holds the issuing party's information
type BusinessDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	LogoURL string `json:"logoUrl,omitempty" validate:"omitempty,logodata"`
}

// ClientDetails holds the billed party's information
type ClientDetails struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email,omitempty" validate:"omitempty,email"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
}

// InvoiceDetails holds the invoice's identifying fields. DueDate is optional;
// a zero value means none was set and renders as "N/A".
type InvoiceDetails struct {
	InvoiceNumber string   `json:"invoiceNumber" validate:"required"`
	Date          DateOnly `json:"date"`
	DueDate       DateOnly `json:"dueDate"`
}

// Invoice is the aggregate root for a single invoice document. The derived
// fields (Subtotal, TaxAmount, Total and each item's Total) are recomputed
// from line items and TaxRate after every mutation; they are persisted with
// the snapshot but never treated as authoritative on load.
type Invoice struct {
	InvoiceDetails  InvoiceDetails  `json:"invoiceDetails"`
	BusinessDetails BusinessDetails `json:"businessDetails"`
	ClientDetails   ClientDetails   `json:"clientDetails"`
	LineItems       []LineItem      `json:"lineItems"`
	Notes           string          `json:"notes,omitempty"`
	Subtotal        float64         `json:"subtotal"`
	TaxRate         float64         `json:"taxRate"`
	TaxAmount       float64         `json:"taxAmount"`
	Total           float64         `json:"total"`
}

// NewInvoice creates a blank invoice with a freshly generated invoice number
// and today's date.
func NewInvoice() *Invoice {
	return &Invoice{
		InvoiceDetails: InvoiceDetails{
			InvoiceNumber: NewInvoiceNumber(),
			Date:          NewDateOnly(time.Now()),
		},
		LineItems: make([]LineItem, 0),
	}
}

// NewInvoiceNumber generates an invoice number of the form INV-YYMMDD-NNN.
func NewInvoiceNumber() string {
	return fmt.Sprintf("INV-%s-%03d", time.Now().Format("060102"), rand.Intn(1000))
}

// RecalculateTotals rewrites every derived amount from the line items and the
// tax rate:
//
//	lineTotal = quantity * price
//	subtotal  = sum of line totals (empty sequence -> 0)
//	taxAmount = subtotal * taxRate / 100
//	total     = subtotal + taxAmount
//
// Values are kept unrounded so repeated recomputation is idempotent; the
// display layer rounds to 2 decimal places.
func (i *Invoice) RecalculateTotals() {
	var subtotal float64
	for idx := range i.LineItems {
		item := &i.LineItems[idx]
		item.Total = item.LineTotal()
		subtotal += item.Total
	}
	i.Subtotal = subtotal
	i.TaxAmount = subtotal * i.TaxRate / 100
	i.Total = subtotal + i.TaxAmount
}

// Clone returns a deep copy of the invoice
func (i *Invoice) Clone() *Invoice {
	dup := *i
	dup.LineItems = make([]LineItem, len(i.LineItems))
	copy(dup.LineItems, i.LineItems)
	return &dup
}

// Normalize ensures the invoice is in its canonical in-memory form: line
// items are a non-nil slice and every derived amount matches its inputs.
// Snapshots loaded from storage pass through here so stale persisted totals
// cannot survive deserialization.
func (i *Invoice) Normalize() {
	if i.LineItems == nil {
		i.LineItems = make([]LineItem, 0)
	}
	if i.TaxRate < 0 {
		i.TaxRate = 0
	}
	i.RecalculateTotals()
}
