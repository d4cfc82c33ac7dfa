package handler

import (
	"errors"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/model"
	"github.com/invoicepal/invoicepal-api/internal/service"
)

// InvoiceHandler handles HTTP requests for invoice records
type InvoiceHandler struct {
	invoices service.InvoiceService
}

// NewInvoiceHandler creates a new invoice handler
func NewInvoiceHandler(invoices service.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{
		invoices: invoices,
	}
}

// RegisterRoutes registers the handler's routes with the given router.
// The preview endpoint takes optional auth: the live preview works before
// sign-in, and signed-in callers are identified for request logging.
func (h *InvoiceHandler) RegisterRoutes(router *gin.Engine, auth, optionalAuth gin.HandlerFunc) {
	router.POST("/v1/invoices/preview", optionalAuth, h.PreviewInvoice)

	protected := router.Group("/v1/invoices", auth)
	protected.POST("", h.CreateInvoice)
	protected.GET("", h.ListInvoices)
	protected.GET("/:id", h.GetInvoice)
	protected.PUT("/:id", h.UpdateInvoice)
	protected.PATCH("/:id/status", h.UpdateInvoiceStatus)
	protected.DELETE("/:id", h.DeleteInvoice)
}

// PreviewInvoice recomputes totals for a submitted draft and returns the
// normalized snapshot with its display-ready projection
// @Summary Preview an invoice draft
// @Description Recompute derived totals for a draft and render the formatted preview
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body model.InvoiceDTO true "Invoice draft"
// @Success 200 {object} model.PreviewResponse "Recomputed draft and preview"
// @Failure 400 {object} model.ErrorResponse "Malformed request"
// @Router /v1/invoices/preview [post]
func (h *InvoiceHandler) PreviewInvoice(c *gin.Context) {
	var dto model.InvoiceDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	draft, errs := dto.ToDomain()
	if len(errs) > 0 {
		respondBadRequest(c, ErrInvalidInput, fieldErrorDetails(errs)...)
		return
	}

	// Run the draft through an editing session so it picks up the same
	// normalization and recomputation every local mutation gets.
	editor := service.NewEditor(nil, "")
	editor.ReplaceInvoice(draft)
	snapshot := editor.Snapshot()

	var out model.InvoiceDTO
	out.FromDomain(snapshot)
	respondOK(c, model.PreviewResponse{
		Invoice: out,
		Preview: model.BuildInvoicePreview(snapshot),
	})
}

// CreateInvoice persists a new invoice record for the authenticated user
// @Summary Create an invoice
// @Description Validate and persist a new invoice owned by the caller
// @Tags invoices
// @Accept json
// @Produce json
// @Param invoice body model.InvoiceDTO true "Invoice data"
// @Success 201 {object} model.CreateInvoiceResponse "Created"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 422 {object} model.ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /v1/invoices [post]
func (h *InvoiceHandler) CreateInvoice(c *gin.Context) {
	var dto model.InvoiceDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	inv, errs := dto.ToDomain()
	if len(errs) > 0 {
		respondUnprocessableEntity(c, ErrValidationFailed, fieldErrorDetails(errs)...)
		return
	}

	record, err := h.invoices.Create(c.Request.Context(), currentUserID(c), inv)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondCreated(c, model.CreateInvoiceResponse{ID: record.ID})
}

// ListInvoices returns all invoice records owned by the authenticated user
// @Summary List invoices
// @Description List all invoices owned by the caller, order unspecified
// @Tags invoices
// @Produce json
// @Success 200 {object} model.InvoiceListResponse "Invoices"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Security BearerAuth
// @Router /v1/invoices [get]
func (h *InvoiceHandler) ListInvoices(c *gin.Context) {
	records, err := h.invoices.List(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	response := model.InvoiceListResponse{Data: make([]model.InvoiceRecordDTO, 0, len(records))}
	for i := range records {
		response.Data = append(response.Data, model.RecordFromDomain(&records[i]))
	}
	respondOK(c, response)
}

// GetInvoice returns a single invoice record
// @Summary Get an invoice
// @Description Fetch one invoice record owned by the caller
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice record id"
// @Success 200 {object} model.InvoiceRecordDTO "Invoice record"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /v1/invoices/{id} [get]
func (h *InvoiceHandler) GetInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	record, err := h.invoices.Get(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondOK(c, model.RecordFromDomain(record))
}

// UpdateInvoice wholesale-replaces the data snapshot of an invoice record
// @Summary Update an invoice
// @Description Validate and replace the stored invoice snapshot
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice record id"
// @Param invoice body model.InvoiceDTO true "Invoice data"
// @Success 204 "Updated"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Failure 422 {object} model.ErrorResponse "Validation failed"
// @Security BearerAuth
// @Router /v1/invoices/{id} [put]
func (h *InvoiceHandler) UpdateInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var dto model.InvoiceDTO
	if err := bindJSON(c, &dto); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	inv, errs := dto.ToDomain()
	if len(errs) > 0 {
		respondUnprocessableEntity(c, ErrValidationFailed, fieldErrorDetails(errs)...)
		return
	}

	if err := h.invoices.Update(c.Request.Context(), currentUserID(c), id, inv); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondNoContent(c)
}

// UpdateInvoiceStatus changes only the payment status of a record
// @Summary Change payment status
// @Description Set the record's payment status to draft, pending, paid or failed
// @Tags invoices
// @Accept json
// @Produce json
// @Param id path string true "Invoice record id"
// @Param status body model.UpdateStatusRequest true "New payment status"
// @Success 204 "Updated"
// @Failure 400 {object} model.ErrorResponse "Invalid status"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /v1/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateInvoiceStatus(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	var req model.UpdateStatusRequest
	if err := bindJSON(c, &req); err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	err = h.invoices.UpdateStatus(c.Request.Context(), currentUserID(c), id, domain.PaymentStatus(req.PaymentStatus))
	if err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondNoContent(c)
}

// DeleteInvoice removes an invoice record
// @Summary Delete an invoice
// @Description Remove one invoice record owned by the caller
// @Tags invoices
// @Produce json
// @Param id path string true "Invoice record id"
// @Success 204 "Deleted"
// @Failure 401 {object} model.ErrorResponse "Unauthorized"
// @Failure 404 {object} model.ErrorResponse "Not found"
// @Security BearerAuth
// @Router /v1/invoices/{id} [delete]
func (h *InvoiceHandler) DeleteInvoice(c *gin.Context) {
	id, err := getPathParam(c, "id")
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	if err := h.invoices.Delete(c.Request.Context(), currentUserID(c), id); err != nil {
		h.respondServiceError(c, err)
		return
	}

	respondNoContent(c)
}

// respondServiceError maps service and repository errors onto HTTP responses
func (h *InvoiceHandler) respondServiceError(c *gin.Context, err error) {
	var vErr *service.ValidationFailedError

	switch {
	case errors.As(err, &vErr):
		respondUnprocessableEntity(c, ErrValidationFailed, fieldErrorDetails(vErr.Errors)...)
	case errors.Is(err, domain.ErrUnauthorized):
		respondUnauthorized(c, "You do not have access to this invoice")
	case errors.Is(err, domain.ErrNotFound):
		respondNotFound(c, ErrResourceNotFound)
	case errors.Is(err, domain.ErrInvalidStatus):
		respondBadRequest(c, "Payment status must be one of: draft, pending, paid, failed")
	default:
		log.Printf("Invoice operation failed: %v", err)
		respondInternalServerError(c, ErrInternalServer)
	}
}
