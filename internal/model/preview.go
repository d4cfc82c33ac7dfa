package model

import (
	"fmt"
	"strconv"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// Display fallbacks for fields the user has not filled in yet. These are
// preview-only placeholders, never stored values.
const (
	placeholderBusinessName    = "Your Business Name"
	placeholderClientName      = "Client Name"
	placeholderItemDescription = "Item description"
	placeholderNoItems         = "No items added yet"
	placeholderNoDueDate       = "N/A"
)

// PreviewRow is one rendered line-item row
type PreviewRow struct {
	Description string `json:"description"`
	Quantity    string `json:"quantity"`
	Price       string `json:"price"`
	Amount      string `json:"amount"`
}

// PreviewParty is a rendered business or client block
type PreviewParty struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Address string `json:"address,omitempty"`
	Phone   string `json:"phone,omitempty"`
	LogoURL string `json:"logoUrl,omitempty"`
}

// InvoicePreview is the display-ready projection of an invoice: formatted
// currency, long-form dates, and placeholder fallbacks for everything the
// user has not typed yet. Building it never fails and never mutates the
// invoice it projects.
type InvoicePreview struct {
	InvoiceNumber string       `json:"invoiceNumber"`
	Date          string       `json:"date"`
	DueDate       string       `json:"dueDate"`
	Business      PreviewParty `json:"business"`
	Client        PreviewParty `json:"client"`
	Rows          []PreviewRow `json:"rows"`
	EmptyMessage  string       `json:"emptyMessage,omitempty"`
	Subtotal      string       `json:"subtotal"`
	TaxLabel      string       `json:"taxLabel,omitempty"`
	TaxAmount     string       `json:"taxAmount,omitempty"`
	Total         string       `json:"total"`
	Notes         string       `json:"notes,omitempty"`
}

// BuildInvoicePreview constructs the read-only view model for inv.
func BuildInvoicePreview(inv *domain.Invoice) InvoicePreview {
	preview := InvoicePreview{
		InvoiceNumber: inv.InvoiceDetails.InvoiceNumber,
		Date:          formatLongDate(inv.InvoiceDetails.Date),
		DueDate:       placeholderNoDueDate,
		Business: PreviewParty{
			Name:    fallback(inv.BusinessDetails.Name, placeholderBusinessName),
			Email:   inv.BusinessDetails.Email,
			Address: inv.BusinessDetails.Address,
			Phone:   inv.BusinessDetails.Phone,
			LogoURL: inv.BusinessDetails.LogoURL,
		},
		Client: PreviewParty{
			Name:    fallback(inv.ClientDetails.Name, placeholderClientName),
			Email:   inv.ClientDetails.Email,
			Address: inv.ClientDetails.Address,
			Phone:   inv.ClientDetails.Phone,
		},
		Subtotal: formatCurrency(inv.Subtotal),
		Total:    formatCurrency(inv.Total),
		Notes:    inv.Notes,
	}

	if !inv.InvoiceDetails.DueDate.IsZero() {
		preview.DueDate = formatLongDate(inv.InvoiceDetails.DueDate)
	}

	if len(inv.LineItems) == 0 {
		preview.Rows = []PreviewRow{}
		preview.EmptyMessage = placeholderNoItems
	} else {
		preview.Rows = make([]PreviewRow, len(inv.LineItems))
		for i, item := range inv.LineItems {
			preview.Rows[i] = PreviewRow{
				Description: fallback(item.Description, placeholderItemDescription),
				Quantity:    strconv.FormatFloat(item.Quantity, 'f', -1, 64),
				Price:       formatCurrency(item.Price),
				Amount:      formatCurrency(item.Quantity * item.Price),
			}
		}
	}

	// The tax row is omitted entirely when no tax applies
	if inv.TaxRate != 0 {
		preview.TaxLabel = fmt.Sprintf("Tax (%s%%)", strconv.FormatFloat(inv.TaxRate, 'f', -1, 64))
		preview.TaxAmount = formatCurrency(inv.TaxAmount)
	}

	return preview
}

func formatCurrency(amount float64) string {
	return fmt.Sprintf("$%.2f", amount)
}

func formatLongDate(d domain.DateOnly) string {
	if d.IsZero() {
		return ""
	}
	return d.Format("January 2, 2006")
}

func fallback(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
