package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/invoicepal/invoicepal-api/internal/domain"
)

// PostgresInvoiceRepository implements InvoiceRepository using PostgreSQL.
// The data column holds the full invoice snapshot as JSONB; saves replace it
// wholesale.
type PostgresInvoiceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresInvoiceRepository creates a new PostgreSQL invoice repository
func NewPostgresInvoiceRepository(db *pgxpool.Pool) *PostgresInvoiceRepository {
	return &PostgresInvoiceRepository{
		db: db,
	}
}

// Create stores a new invoice record and returns it with its assigned id
func (r *PostgresInvoiceRepository) Create(ctx context.Context, ownerID string, data *domain.Invoice) (*domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	snapshot, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal invoice data: %w", err)
	}

	record := &domain.InvoiceRecord{
		OwnerID:       ownerID,
		PaymentStatus: domain.PaymentStatusDraft,
		Data:          *data.Clone(),
	}

	err = r.db.QueryRow(ctx, `
		INSERT INTO invoices (user_id, payment_status, data)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`, ownerID, record.PaymentStatus, snapshot).Scan(&record.ID, &record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert invoice: %w", err)
	}

	return record, nil
}

// GetByID retrieves an invoice record by its id
func (r *PostgresInvoiceRepository) GetByID(ctx context.Context, ownerID, id string) (*domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	var (
		record   domain.InvoiceRecord
		snapshot []byte
	)
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, payment_status, data, created_at
		FROM invoices
		WHERE id = $1
	`, id).Scan(&record.ID, &record.OwnerID, &record.PaymentStatus, &snapshot, &record.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invoice: %w", err)
	}

	if record.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}

	if err := json.Unmarshal(snapshot, &record.Data); err != nil {
		return nil, fmt.Errorf("failed to unmarshal invoice data: %w", err)
	}
	record.Data.Normalize()

	return &record, nil
}

// ListByOwner retrieves all invoice records owned by ownerID
func (r *PostgresInvoiceRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.InvoiceRecord, error) {
	if ownerID == "" {
		return nil, domain.ErrUnauthorized
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, user_id, payment_status, data, created_at
		FROM invoices
		WHERE user_id = $1
	`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query invoices: %w", err)
	}
	defer rows.Close()

	records := []domain.InvoiceRecord{}
	for rows.Next() {
		var (
			record   domain.InvoiceRecord
			snapshot []byte
		)
		if err := rows.Scan(&record.ID, &record.OwnerID, &record.PaymentStatus, &snapshot, &record.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan invoice: %w", err)
		}
		if err := json.Unmarshal(snapshot, &record.Data); err != nil {
			return nil, fmt.Errorf("failed to unmarshal invoice data: %w", err)
		}
		record.Data.Normalize()
		records = append(records, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating invoices: %w", err)
	}

	return records, nil
}

// Update wholesale-replaces the data snapshot of an existing record
func (r *PostgresInvoiceRepository) Update(ctx context.Context, ownerID, id string, data *domain.Invoice) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}

	snapshot, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal invoice data: %w", err)
	}

	commandTag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET data = $1
		WHERE id = $2 AND user_id = $3
	`, snapshot, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// UpdateStatus mutates only the payment status of an existing record
func (r *PostgresInvoiceRepository) UpdateStatus(ctx context.Context, ownerID, id string, status domain.PaymentStatus) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}
	if !status.Valid() {
		return domain.ErrInvalidStatus
	}

	commandTag, err := r.db.Exec(ctx, `
		UPDATE invoices
		SET payment_status = $1
		WHERE id = $2 AND user_id = $3
	`, status, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update invoice status: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}

// Delete removes an invoice record
func (r *PostgresInvoiceRepository) Delete(ctx context.Context, ownerID, id string) error {
	if ownerID == "" {
		return domain.ErrUnauthorized
	}

	commandTag, err := r.db.Exec(ctx, `DELETE FROM invoices WHERE id = $1 AND user_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete invoice: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}

	return nil
}
