package supplier

import (
	"strings"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SubmissionStatus is the admin decision on a submission
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionAccepted SubmissionStatus = "accepted"
	SubmissionRejected SubmissionStatus = "rejected"
)

// ErrSubmissionAlreadyAccepted is returned when accepting twice
var ErrSubmissionAlreadyAccepted = shared.NewDomainError("BAD_REQUEST", "Submission already accepted")

// SubmissionItem is one line a supplier offers
type SubmissionItem struct {
	Name         string          `json:"name"`
	RequestedQty decimal.Decimal `json:"requestedQty"`
	Qty          decimal.Decimal `json:"qty"`
	Price        decimal.Decimal `json:"price"`
}

// Value returns qty * price
func (i SubmissionItem) Value() decimal.Decimal {
	return i.Qty.Mul(i.Price)
}

// Submission is a supplier's offer against a material request
type Submission struct {
	shared.BaseAggregateRoot
	SupplierID     uuid.UUID
	RequestID      *uuid.UUID
	Items          []SubmissionItem
	Notes          string
	SupplierAmount decimal.Decimal
	Status         SubmissionStatus
	PaidAmount     decimal.Decimal
	DecidedAt      *time.Time
}

// NewSubmission creates a pending submission. SupplierAmount defaults to the
// item total when the supplier does not quote one.
func NewSubmission(supplierID uuid.UUID, requestID *uuid.UUID, items []SubmissionItem, notes string, supplierAmount decimal.Decimal) (*Submission, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier is required")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "At least one item is required")
	}
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		if items[i].Name == "" || !items[i].Qty.IsPositive() || items[i].Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_ITEMS", "Each item needs a name, a positive quantity and a non-negative price")
		}
	}
	if supplierAmount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Supplier amount cannot be negative")
	}

	s := &Submission{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SupplierID:        supplierID,
		RequestID:         requestID,
		Items:             items,
		Notes:             strings.TrimSpace(notes),
		SupplierAmount:    supplierAmount,
		Status:            SubmissionPending,
		PaidAmount:        decimal.Zero,
	}
	if s.SupplierAmount.IsZero() {
		s.SupplierAmount = s.TotalValue()
	}
	s.AddDomainEvent(newSubmissionEvent(EventTypeSubmissionCreated, s, s.SupplierAmount))
	return s, nil
}

// TotalQuantity sums item quantities
func (s *Submission) TotalQuantity() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Qty)
	}
	return total
}

// TotalValue sums qty * price over items
func (s *Submission) TotalValue() decimal.Decimal {
	total := decimal.Zero
	for _, it := range s.Items {
		total = total.Add(it.Value())
	}
	return total
}

// Accept marks the submission accepted with the amount actually paid.
// The caller-supplied amount is trusted; it is not checked against the items.
func (s *Submission) Accept(paid decimal.Decimal) error {
	if s.Status == SubmissionAccepted {
		return ErrSubmissionAlreadyAccepted
	}
	if paid.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Paid amount cannot be negative")
	}
	now := time.Now()
	s.Status = SubmissionAccepted
	s.PaidAmount = paid
	s.DecidedAt = &now
	s.Touch()
	s.AddDomainEvent(newSubmissionEvent(EventTypeSubmissionAccepted, s, paid))
	return nil
}

// Reject declines a pending submission
func (s *Submission) Reject() error {
	if s.Status != SubmissionPending {
		return shared.NewDomainErrorf("INVALID_STATE", "Submission already %s", s.Status)
	}
	now := time.Now()
	s.Status = SubmissionRejected
	s.DecidedAt = &now
	s.Touch()
	s.AddDomainEvent(newSubmissionEvent(EventTypeSubmissionRejected, s, s.SupplierAmount))
	return nil
}
