// Package validation implements the declarative rules for every invoice
// sub-entity and for the full aggregate. Validation never mutates its input:
// it returns an ordered list of field-level errors, empty when the value
// passes. Structural rules run through go-playground/validator; the numeric
// line-item bounds and the aggregate invariants are checked explicitly so the
// error messages and field paths stay under our control.
package validation

import (
	"encoding/base64"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// FieldError is a single field-level rule violation
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// totalTolerance bounds the float drift allowed when re-verifying persisted
// derived totals against their inputs.
const totalTolerance = 1e-6

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("logodata", isLogoData); err != nil {
		panic(fmt.Sprintf("register logodata validation: %v", err))
	}
	return v
}

// isLogoData accepts base64-encoded image content, either bare or wrapped in
// a data URL ("data:image/png;base64,....").
func isLogoData(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	if idx := strings.Index(value, ";base64,"); idx >= 0 && strings.HasPrefix(value, "data:") {
		value = value[idx+len(";base64,"):]
	}
	if value == "" {
		return false
	}
	_, err := base64.StdEncoding.DecodeString(value)
	return err == nil
}

// LineItem validates a single line item
func LineItem(item domain.LineItem) []FieldError {
	return lineItemAt(item, "")
}

func lineItemAt(item domain.LineItem, prefix string) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(item.Description) == "" {
		errs = append(errs, FieldError{prefix + "description", "Description is required"})
	}
	if item.Quantity < 1 {
		errs = append(errs, FieldError{prefix + "quantity", "Quantity must be greater than 0"})
	}
	if item.Price < 0.01 {
		errs = append(errs, FieldError{prefix + "price", "Price must be greater than 0"})
	}
	return errs
}

// BusinessDetails validates the issuing party
func BusinessDetails(details domain.BusinessDetails) []FieldError {
	return structErrors(details, "businessDetails.")
}

// ClientDetails validates the billed party
func ClientDetails(details domain.ClientDetails) []FieldError {
	return structErrors(details, "clientDetails.")
}

// InvoiceDetails validates the invoice's identifying fields
func InvoiceDetails(details domain.InvoiceDetails) []FieldError {
	var errs []FieldError
	if strings.TrimSpace(details.InvoiceNumber) == "" {
		errs = append(errs, FieldError{"invoiceNumber", "Invoice number is required"})
	}
	if details.Date.IsZero() {
		errs = append(errs, FieldError{"date", "Invalid date"})
	}
	return errs
}

// Invoice validates the full aggregate: every sub-entity rule plus the
// derived-total invariants. The invariants are re-verified rather than
// trusted so snapshots deserialized from the store are caught when their
// persisted totals no longer match their line items.
func Invoice(inv *domain.Invoice) []FieldError {
	var errs []FieldError

	errs = append(errs, InvoiceDetails(inv.InvoiceDetails)...)
	errs = append(errs, BusinessDetails(inv.BusinessDetails)...)
	errs = append(errs, ClientDetails(inv.ClientDetails)...)

	var subtotal float64
	for i, item := range inv.LineItems {
		prefix := fmt.Sprintf("lineItems[%d].", i)
		errs = append(errs, lineItemAt(item, prefix)...)
		subtotal += item.Quantity * item.Price
	}

	for _, check := range []struct {
		field string
		value float64
	}{
		{"subtotal", inv.Subtotal},
		{"taxRate", inv.TaxRate},
		{"taxAmount", inv.TaxAmount},
		{"total", inv.Total},
	} {
		if check.value < 0 {
			errs = append(errs, FieldError{check.field, fmt.Sprintf("%s must not be negative", check.field)})
		}
	}

	if math.Abs(inv.Subtotal-subtotal) > totalTolerance {
		errs = append(errs, FieldError{"subtotal", "Subtotal does not match line items"})
	}
	if math.Abs(inv.TaxAmount-inv.Subtotal*inv.TaxRate/100) > totalTolerance {
		errs = append(errs, FieldError{"taxAmount", "Tax amount does not match subtotal and tax rate"})
	}
	if math.Abs(inv.Total-(inv.Subtotal+inv.TaxAmount)) > totalTolerance {
		errs = append(errs, FieldError{"total", "Total does not match subtotal and tax amount"})
	}

	return errs
}

// structErrors runs the tag-driven rules on a details struct and translates
// the violations into display messages with JSON field paths.
func structErrors(value interface{}, prefix string) []FieldError {
	err := validate.Struct(value)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []FieldError{{Field: prefix, Message: err.Error()}}
	}

	errs := make([]FieldError, 0, len(verrs))
	for _, ve := range verrs {
		errs = append(errs, FieldError{
			Field:   prefix + jsonFieldName(ve.StructField()),
			Message: messageFor(ve),
		})
	}
	return errs
}

func messageFor(ve validator.FieldError) string {
	switch {
	case ve.StructField() == "Name" && ve.Tag() == "required":
		return "Name is required"
	case ve.StructField() == "Email":
		return "Invalid email address"
	case ve.StructField() == "LogoURL":
		return "Invalid logo URL"
	default:
		return fmt.Sprintf("Invalid value for %s", jsonFieldName(ve.StructField()))
	}
}

func jsonFieldName(structField string) string {
	switch structField {
	case "LogoURL":
		return "logoUrl"
	default:
		return strings.ToLower(structField[:1]) + structField[1:]
	}
}
