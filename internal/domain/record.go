package domain

import (
	"time"
)

// PaymentStatus is the lifecycle status of a persisted invoice record
type PaymentStatus string

const (
	PaymentStatusDraft   PaymentStatus = "draft"
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Valid reports whether s is one of the known payment statuses
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusDraft, PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// InvoiceRecord is a persisted invoice as the store owns it. Data is a
// wholesale snapshot of the Invoice aggregate; subsequent saves replace it
// entirely. New records start as draft.
type InvoiceRecord struct {
	ID            string        `json:"id"`
	OwnerID       string        `json:"ownerId"`
	PaymentStatus PaymentStatus `json:"paymentStatus"`
	Data          Invoice       `json:"data"`
	CreatedAt     time.Time     `json:"createdAt"`
}
