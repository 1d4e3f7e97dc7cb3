package inventory

import (
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ErrBatchValidationFailed is returned when a batch cannot cover a deduction
var ErrBatchValidationFailed = shared.NewDomainError("INSUFFICIENT_STOCK", "Batch validation failed")

// BatchStatus tracks consumption and retirement of exactly one batch.
// A batch without a stored status behaves as DefaultBatchStatus.
type BatchStatus struct {
	BatchID      uuid.UUID
	UsedQuantity decimal.Decimal
	IsDeleted    bool
	// Version is 0 until the status is first stored.
	Version   int
	UpdatedAt time.Time

	events []shared.DomainEvent
}

// DefaultBatchStatus returns the status of a batch nothing has touched yet
func DefaultBatchStatus(batchID uuid.UUID) *BatchStatus {
	return &BatchStatus{
		BatchID:      batchID,
		UsedQuantity: decimal.Zero,
	}
}

// IsNew reports whether the status has never been stored
func (s *BatchStatus) IsNew() bool {
	return s.Version == 0
}

// Remaining returns batch.Quantity minus the used quantity
func (s *BatchStatus) Remaining(batch *Batch) decimal.Decimal {
	return batch.Quantity.Sub(s.UsedQuantity)
}

// Consume records usage of qty from the batch. Usage can never exceed what
// the batch still holds, and retired batches cannot be consumed.
func (s *BatchStatus) Consume(batch *Batch, qty decimal.Decimal, reason string) error {
	if batch.ID != s.BatchID {
		return shared.NewDomainError("INVALID_INPUT", "Status does not belong to this batch")
	}
	if !qty.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Used quantity must be positive")
	}
	if s.IsDeleted {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK", "Batch validation failed: batch %d has been deleted", batch.BatchNumber)
	}
	remaining := s.Remaining(batch)
	if remaining.LessThan(qty) {
		return shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Batch validation failed: batch %d has %s %s remaining, requested %s",
			batch.BatchNumber, remaining.String(), batch.Unit, qty.String())
	}

	s.UsedQuantity = s.UsedQuantity.Add(qty)
	s.UpdatedAt = time.Now()
	s.events = append(s.events, NewBatchConsumedEvent(batch, qty, s.Remaining(batch), reason))
	return nil
}

// Retire logically deletes the batch. Retiring twice is a no-op.
func (s *BatchStatus) Retire(batch *Batch) {
	if s.IsDeleted {
		return
	}
	s.IsDeleted = true
	s.UpdatedAt = time.Now()
	s.events = append(s.events, NewBatchRetiredEvent(batch, s.Remaining(batch)))
}

// GetDomainEvents returns events raised since the status was loaded
func (s *BatchStatus) GetDomainEvents() []shared.DomainEvent {
	return s.events
}

// ClearDomainEvents clears pending events
func (s *BatchStatus) ClearDomainEvents() {
	s.events = nil
}

// BatchStock pairs a batch with its resolved status
type BatchStock struct {
	Batch  *Batch
	Status *BatchStatus
}

// NewBatchStock joins a batch with its status, defaulting a missing one
func NewBatchStock(batch *Batch, status *BatchStatus) BatchStock {
	if status == nil {
		status = DefaultBatchStatus(batch.ID)
	}
	return BatchStock{Batch: batch, Status: status}
}

// JoinBatchStock resolves a status for every batch, defaulting missing entries
func JoinBatchStock(batches []*Batch, statuses map[uuid.UUID]*BatchStatus) []BatchStock {
	out := make([]BatchStock, 0, len(batches))
	for _, b := range batches {
		out = append(out, NewBatchStock(b, statuses[b.ID]))
	}
	return out
}

// Remaining returns the quantity still available in the batch
func (s BatchStock) Remaining() decimal.Decimal {
	return s.Status.Remaining(s.Batch)
}

// IsUsable reports whether the batch can still be allocated on day now
func (s BatchStock) IsUsable(now time.Time) bool {
	return !s.Status.IsDeleted && !s.Batch.IsExpired(now) && s.Remaining().IsPositive()
}
