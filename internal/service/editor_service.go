package service

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/invoicepal/invoicepal-api/internal/domain"
	"github.com/invoicepal/invoicepal-api/internal/repository"
	"github.com/invoicepal/invoicepal-api/internal/validation"
)

// ValidationFailedError carries the field-level errors that blocked a save.
// It is always recoverable: the draft stays editable and unchanged.
type ValidationFailedError struct {
	Errors []validation.FieldError
}

func (e *ValidationFailedError) Error() string {
	return fmt.Sprintf("invoice validation failed with %d error(s)", len(e.Errors))
}

// Editor holds the single invoice being edited in a session and exposes the
// only sanctioned mutation operations. Every mutation reruns the totals
// recomputation before returning, so the aggregate invariants hold at all
// times. The session tracks a dirty flag: any mutation marks the draft dirty,
// and only a successful save acknowledged by the store marks it clean.
//
// Saves are serialized: a second Save blocks until the one in flight
// completes rather than racing a concurrent write to the same record. Local
// mutations are never blocked by an in-flight save, and a save that completes
// after the session has moved to a different document is discarded instead of
// being applied to the wrong draft.
type Editor struct {
	mu      sync.Mutex
	invoice *domain.Invoice
	dirty   bool
	version uint64 // bumped on every mutation
	doc     uint64 // bumped when the whole document is replaced

	recordID string

	saveMu sync.Mutex // serializes gateway writes

	repo    repository.InvoiceRepository
	ownerID string
}

// NewEditor starts an editing session for a fresh blank invoice. The draft
// starts dirty: it has never been saved.
func NewEditor(repo repository.InvoiceRepository, ownerID string) *Editor {
	return &Editor{
		invoice: domain.NewInvoice(),
		dirty:   true,
		repo:    repo,
		ownerID: ownerID,
	}
}

// Snapshot returns a deep copy of the current invoice for rendering or
// persistence. Callers cannot mutate session state through it.
func (e *Editor) Snapshot() *domain.Invoice {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.invoice.Clone()
}

// Dirty reports whether the draft has unsaved changes
func (e *Editor) Dirty() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dirty
}

// RecordID returns the persisted record id, or "" before the first save
func (e *Editor) RecordID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.recordID
}

// SetInvoiceDetails replaces the invoice details sub-section wholesale
func (e *Editor) SetInvoiceDetails(details domain.InvoiceDetails) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoice.InvoiceDetails = details
	e.touch()
}

// SetBusinessDetails replaces the business details sub-section wholesale
func (e *Editor) SetBusinessDetails(details domain.BusinessDetails) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoice.BusinessDetails = details
	e.touch()
}

// SetClientDetails replaces the client details sub-section wholesale
func (e *Editor) SetClientDetails(details domain.ClientDetails) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoice.ClientDetails = details
	e.touch()
}

// SetNotes replaces the notes text
func (e *Editor) SetNotes(text string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoice.Notes = text
	e.touch()
}

// AddLineItem appends a blank line item with defaults (quantity 1, price 0)
// and returns its session-local id.
func (e *Editor) AddLineItem() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	item := domain.LineItem{
		ID:       uuid.NewString(),
		Quantity: 1,
	}
	e.invoice.LineItems = append(e.invoice.LineItems, item)
	e.invoice.RecalculateTotals()
	e.touch()
	return item.ID
}

// UpdateLineItem replaces the item matching id with the given value, keeping
// the session-local id. A no-op when no item matches.
func (e *Editor) UpdateLineItem(id string, item domain.LineItem) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for idx := range e.invoice.LineItems {
		if e.invoice.LineItems[idx].ID != id {
			continue
		}
		item.ID = id
		e.invoice.LineItems[idx] = item
		e.invoice.RecalculateTotals()
		e.touch()
		return
	}
}

// RemoveLineItem removes the item matching id. A no-op when no item matches,
// so removal is idempotent under retry.
func (e *Editor) RemoveLineItem(id string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for idx := range e.invoice.LineItems {
		if e.invoice.LineItems[idx].ID != id {
			continue
		}
		e.invoice.LineItems = append(e.invoice.LineItems[:idx], e.invoice.LineItems[idx+1:]...)
		e.invoice.RecalculateTotals()
		e.touch()
		return
	}
}

// SetTaxRate updates the tax rate and recomputes the tax amount and total
// from the current subtotal without touching the line items.
func (e *Editor) SetTaxRate(rate float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.invoice.TaxRate = rate
	e.invoice.TaxAmount = e.invoice.Subtotal * rate / 100
	e.invoice.Total = e.invoice.Subtotal + e.invoice.TaxAmount
	e.touch()
}

// ReplaceInvoice makes inv the session's current document, normalizing it on
// the way in. The previous document is abandoned; a save still in flight for
// it will be discarded. The new draft starts dirty and unsaved.
func (e *Editor) ReplaceInvoice(inv *domain.Invoice) {
	e.mu.Lock()
	defer e.mu.Unlock()

	draft := inv.Clone()
	draft.Normalize()
	e.invoice = draft
	e.recordID = ""
	e.dirty = true
	e.doc++
	e.version++
}

// Load fetches a persisted record and makes its snapshot the session's
// current document. On failure the session keeps its prior state untouched.
func (e *Editor) Load(ctx context.Context, id string) error {
	record, err := e.repo.GetByID(ctx, e.ownerID, id)
	if err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.invoice = record.Data.Clone()
	e.recordID = record.ID
	e.dirty = false
	e.doc++
	e.version++
	return nil
}

// Save validates the draft and writes it through the persistence gateway:
// the first successful save creates the record, later saves replace its data
// snapshot wholesale. Validation failures return a *ValidationFailedError
// and nothing is written. On any failure the draft is preserved unchanged so
// the user can retry.
func (e *Editor) Save(ctx context.Context) (string, error) {
	// One write at a time against the same record
	e.saveMu.Lock()
	defer e.saveMu.Unlock()

	e.mu.Lock()
	snapshot := e.invoice.Clone()
	recordID := e.recordID
	doc := e.doc
	version := e.version
	e.mu.Unlock()

	if errs := validation.Invoice(snapshot); len(errs) > 0 {
		return "", &ValidationFailedError{Errors: errs}
	}

	if recordID == "" {
		record, err := e.repo.Create(ctx, e.ownerID, snapshot)
		if err != nil {
			return "", err
		}
		e.finishSave(doc, version, record.ID)
		return record.ID, nil
	}

	if err := e.repo.Update(ctx, e.ownerID, recordID, snapshot); err != nil {
		return "", err
	}
	e.finishSave(doc, version, recordID)
	return recordID, nil
}

// finishSave applies the result of a completed gateway write, unless the
// session has since replaced the document, in which case the late response is
// discarded.
func (e *Editor) finishSave(doc, version uint64, recordID string) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.doc != doc {
		return
	}
	e.recordID = recordID
	// Edits made while the save was in flight keep the draft dirty
	if e.version == version {
		e.dirty = false
	}
}

// touch must be called with e.mu held
func (e *Editor) touch() {
	e.dirty = true
	e.version++
}
