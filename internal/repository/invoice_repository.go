package repository

import (
	"context"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// InvoiceRepository defines the persistence gateway for invoice records.
//
// Every operation takes the calling owner's id; an empty ownerID fails with
// domain.ErrUnauthorized before touching the store. Operations addressing a
// record that does not exist fail with domain.ErrNotFound, except where noted.
type InvoiceRepository interface {
	// Create stores a new record owned by ownerID with payment status draft
	// and returns it with its assigned id.
	Create(ctx context.Context, ownerID string, data *domain.Invoice) (*domain.InvoiceRecord, error)

	// GetByID retrieves a record. Fails with domain.ErrUnauthorized when the
	// record exists but is owned by someone else.
	GetByID(ctx context.Context, ownerID, id string) (*domain.InvoiceRecord, error)

	// ListByOwner returns all records owned by ownerID, order unspecified.
	// An owner with zero records gets an empty slice, not an error.
	ListByOwner(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error)

	// Update wholesale-replaces the data snapshot of an existing record.
	Update(ctx context.Context, ownerID, id string, data *domain.Invoice) error

	// UpdateStatus mutates only the record's payment status.
	UpdateStatus(ctx context.Context, ownerID, id string, status domain.PaymentStatus) error

	// Delete removes the record.
	Delete(ctx context.Context, ownerID, id string) error
}
