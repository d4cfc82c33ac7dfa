package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// MemoryInvoiceRepository implements InvoiceRepository with an in-process
// map. It honors the same Unauthorized/NotFound contracts as the PostgreSQL
// implementation and is used when no database is configured, and in tests.
type MemoryInvoiceRepository struct {
	mu      sync.RWMutex
	records map[string]domain.InvoiceRecord
}

// NewMemoryInvoiceRepository creates an empty in-memory invoice repository
func NewMemoryInvoiceRepository() *MemoryInvoiceRepository {
	return &MemoryInvoiceRepository{
		records: make(map[string]domain.InvoiceRecord),
	}
}

// Create stores a new invoice record and returns it with its assigned id
func (r *MemoryInvoiceRepository) Create(ctx context.Context, ownerID string, data *domain.Invoice) (*domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	record := domain.InvoiceRecord{
		ID:            uuid.NewString(),
		OwnerID:       ownerID,
		PaymentStatus: domain.PaymentStatusDraft,
		Data:          *data.Clone(),
		CreatedAt:     time.Now(),
	}

	r.mu.Lock()
	r.records[record.ID] = record
	r.mu.Unlock()

	result := record
	result.Data = *record.Data.Clone()
	return &result, nil
}

// GetByID retrieves an invoice record by its id
func (r *MemoryInvoiceRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	record, ok := r.records[id]
	r.mu.RUnlock()

	if !ok {
		return nil, domain.ErrNotFound
	}
	if record.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}

	result := record
	result.Data = *record.Data.Clone()
	result.Data.Normalize()
	return &result, nil
}

// ListByOwner retrieves all invoice records owned by ownerID
func (r *MemoryInvoiceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	records := []domain.InvoiceRecord{}
	for _, record := range r.records {
		if record.OwnerID != ownerID {
			continue
		}
		result := record
		result.Data = *record.Data.Clone()
		result.Data.Normalize()
		records = append(records, result)
	}
	return records, nil
}

// Update wholesale-replaces the data snapshot of an existing record
func (r *MemoryInvoiceRepository) Update(ctx context.Context, ownerID, id string, data *domain.Invoice) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.OwnerID != ownerID {
		return domain.ErrNotFound
	}

	record.Data = *data.Clone()
	r.records[id] = record
	return nil
}

// UpdateStatus mutates only the payment status of an existing record
func (r *MemoryInvoiceRepository) UpdateStatus(ctx context.Context, ownerID, id string, status domain.PaymentStatus) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.OwnerID != ownerID {
		return domain.ErrNotFound
	}

	record.PaymentStatus = status
	r.records[id] = record
	return nil
}

// Delete removes an invoice record
func (r *MemoryInvoiceRepository) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok || record.OwnerID != ownerID {
		return domain.ErrNotFound
	}

	delete(r.records, id)
	return nil
}
