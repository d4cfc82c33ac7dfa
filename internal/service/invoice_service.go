package service

import (
	"context"
	"fmt"
	"log"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/repository"
	"github.com/invoicepal/invoicepal-api/internal/validation"
)

// InvoiceService exposes the persistence operations for invoice records,
// enforcing validation before anything reaches the store.
type InvoiceService interface {
	// Create validates the invoice and stores a new record owned by ownerID
	Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.InvoiceRecord, error)

	// Get retrieves a single record owned by ownerID
	Get(ctx context.Context, ownerID, id string) (*domain.InvoiceRecord, error)

	// List returns all records owned by ownerID
	List(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error)

	// Update validates the invoice and wholesale-replaces the record's snapshot
	Update(ctx context.Context, ownerID, id string, inv *domain.Invoice) error

	// UpdateStatus changes only the record's payment status
	UpdateStatus(ctx context.Context, ownerID, id string, status domain.PaymentStatus) error

	// Delete removes the record
	Delete(ctx context.Context, ownerID, id string) error
}

// invoiceService implements InvoiceService
type invoiceService struct {
	repo repository.InvoiceRepository
}

// NewInvoiceService creates a new invoice service backed by repo
func NewInvoiceService(repo repository.InvoiceRepository) InvoiceService {
	return &invoiceService{repo: repo}
}

// Create validates the invoice and stores a new record owned by ownerID
func (s *invoiceService) Create(ctx context.Context, ownerID string, inv *domain.Invoice) (*domain.InvoiceRecord, error) {
	draft := inv.Clone()
	draft.Normalize()

	if errs := validation.Invoice(draft); len(errs) > 0 {
		return nil, &ValidationFailedError{Errors: errs}
	}

	record, err := s.repo.Create(ctx, ownerID, draft)
	if err != nil {
		return nil, err
	}

	log.Printf("Created invoice %s for user %s", record.ID, ownerID)
	return record, nil
}

// Get retrieves a single record owned by ownerID
func (s *invoiceService) Get(ctx context.Context, ownerID, id string) (*domain.InvoiceRecord, error) {
	return s.repo.GetByID(ctx, ownerID, id)
}

// List returns all records owned by ownerID
func (s *invoiceService) List(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Update validates the invoice and wholesale-replaces the record's snapshot
func (s *invoiceService) Update(ctx context.Context, ownerID, id string, inv *domain.Invoice) error {
	draft := inv.Clone()
	draft.Normalize()

	if errs := validation.Invoice(draft); len(errs) > 0 {
		return &ValidationFailedError{Errors: errs}
	}

	if err := s.repo.Update(ctx, ownerID, id, draft); err != nil {
		return err
	}

	log.Printf("Updated invoice %s for user %s", id, ownerID)
	return nil
}

// UpdateStatus changes only the record's payment status
func (s *invoiceService) UpdateStatus(ctx context.Context, ownerID, id string, status domain.PaymentStatus) error {
	if !status.Valid() {
		return fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	return s.repo.UpdateStatus(ctx, ownerID, id, status)
}

// Delete removes the record
func (s *invoiceService) Delete(ctx context.Context, ownerID, id string) error {
	return s.repo.Delete(ctx, ownerID, id)
}
