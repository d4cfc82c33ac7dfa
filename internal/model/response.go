package model

// ErrorDetail is a single field-level error in an API response
type ErrorDetail struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// ErrorResponse is the standardized error body for all endpoints
type ErrorResponse struct {
	Status  string        `json:"status"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// InvoiceListResponse is the response for listing a user's invoices
type InvoiceListResponse struct {
	Data []InvoiceRecordDTO `json:"data"`
}

// CreateInvoiceResponse is the response for a successful create
type CreateInvoiceResponse struct {
	ID string `json:"id"`
}

// UpdateStatusRequest is the request body for a payment status change
type UpdateStatusRequest struct {
	PaymentStatus string `json:"paymentStatus" binding:"required"`
}

// PreviewResponse pairs the recomputed invoice snapshot with its rendered
// projection, for the live-preview editing loop.
type PreviewResponse struct {
	Invoice InvoiceDTO     `json:"invoice"`
	Preview InvoicePreview `json:"preview"`
}
