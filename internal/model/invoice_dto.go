package model

import (
	"time"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/validation"
)

// LineItemDTO represents a single invoice row for data transfer
type LineItemDTO struct {
	ID          string  `json:"id,omitempty"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Price       float64 `json:"price"`
	Total       float64 `json:"total"`
}

// InvoiceDetailsDTO carries the invoice's identifying fields with dates as
// ISO-8601 strings (YYYY-MM-DD). An empty dueDate means none was set.
type InvoiceDetailsDTO struct {
	InvoiceNumber string `json:"invoiceNumber"`
	Date          string `json:"date"`
	DueDate       string `json:"dueDate,omitempty"`
}

// InvoiceDTO represents the invoice aggregate for data transfer. Its JSON
// shape is exactly the persisted snapshot shape.
type InvoiceDTO struct {
	InvoiceDetails  InvoiceDetailsDTO      `json:"invoiceDetails"`
	BusinessDetails domain.BusinessDetails `json:"businessDetails"`
	ClientDetails   domain.ClientDetails   `json:"clientDetails"`
	LineItems       []LineItemDTO          `json:"lineItems"`
	Notes           string                 `json:"notes,omitempty"`
	Subtotal        float64                `json:"subtotal"`
	TaxRate         float64                `json:"taxRate"`
	TaxAmount       float64                `json:"taxAmount"`
	Total           float64                `json:"total"`
}

// InvoiceRecordDTO represents a persisted invoice record for data transfer
type InvoiceRecordDTO struct {
	ID            string     `json:"id"`
	OwnerID       string     `json:"ownerId"`
	PaymentStatus string     `json:"paymentStatus"`
	Data          InvoiceDTO `json:"data"`
	CreatedAt     time.Time  `json:"createdAt"`
}

// FromDomain converts a domain Invoice to an InvoiceDTO
func (dto *InvoiceDTO) FromDomain(inv *domain.Invoice) {
	dto.InvoiceDetails = InvoiceDetailsDTO{
		InvoiceNumber: inv.InvoiceDetails.InvoiceNumber,
	}
	if !inv.InvoiceDetails.Date.IsZero() {
		dto.InvoiceDetails.Date = inv.InvoiceDetails.Date.Format("2006-01-02")
	}
	if !inv.InvoiceDetails.DueDate.IsZero() {
		dto.InvoiceDetails.DueDate = inv.InvoiceDetails.DueDate.Format("2006-01-02")
	}
	dto.BusinessDetails = inv.BusinessDetails
	dto.ClientDetails = inv.ClientDetails
	dto.Notes = inv.Notes
	dto.Subtotal = inv.Subtotal
	dto.TaxRate = inv.TaxRate
	dto.TaxAmount = inv.TaxAmount
	dto.Total = inv.Total

	dto.LineItems = make([]LineItemDTO, len(inv.LineItems))
	for i, item := range inv.LineItems {
		dto.LineItems[i] = LineItemDTO{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}
}

// ToDomain converts an InvoiceDTO to a domain Invoice. Malformed dates are
// reported as field errors rather than a hard failure so they can be surfaced
// next to the offending field like any other validation problem.
func (dto *InvoiceDTO) ToDomain() (*domain.Invoice, []validation.FieldError) {
	var errs []validation.FieldError

	inv := &domain.Invoice{
		InvoiceDetails: domain.InvoiceDetails{
			InvoiceNumber: dto.InvoiceDetails.InvoiceNumber,
		},
		BusinessDetails: dto.BusinessDetails,
		ClientDetails:   dto.ClientDetails,
		Notes:           dto.Notes,
		Subtotal:        dto.Subtotal,
		TaxRate:         dto.TaxRate,
		TaxAmount:       dto.TaxAmount,
		Total:           dto.Total,
	}

	if dto.InvoiceDetails.Date != "" {
		date, err := time.Parse("2006-01-02", dto.InvoiceDetails.Date)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "date", Message: "Invalid date"})
		} else {
			inv.InvoiceDetails.Date = domain.DateOnly{Time: date}
		}
	}

	if dto.InvoiceDetails.DueDate != "" {
		dueDate, err := time.Parse("2006-01-02", dto.InvoiceDetails.DueDate)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "dueDate", Message: "Invalid due date"})
		} else {
			inv.InvoiceDetails.DueDate = domain.DateOnly{Time: dueDate}
		}
	}

	inv.LineItems = make([]domain.LineItem, len(dto.LineItems))
	for i, item := range dto.LineItems {
		inv.LineItems[i] = domain.LineItem{
			ID:          item.ID,
			Description: item.Description,
			Quantity:    item.Quantity,
			Price:       item.Price,
			Total:       item.Total,
		}
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return inv, nil
}

// RecordFromDomain converts a domain InvoiceRecord to an InvoiceRecordDTO
func RecordFromDomain(rec *domain.InvoiceRecord) InvoiceRecordDTO {
	var data InvoiceDTO
	data.FromDomain(&rec.Data)
	return InvoiceRecordDTO{
		ID:            rec.ID,
		OwnerID:       rec.OwnerID,
		PaymentStatus: string(rec.PaymentStatus),
		Data:          data,
		CreatedAt:     rec.CreatedAt,
	}
}
