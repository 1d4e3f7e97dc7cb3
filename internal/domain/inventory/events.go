package inventory

import (
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constants
const (
	AggregateTypeBatch             = "Batch"
	AggregateTypeProductionRequest = "ProductionRequest"
)

// Event type constants. Every inventory event means batch views are stale.
const (
	EventTypeBatchReceived             = "inventory.batch.received"
	EventTypeBatchConsumed             = "inventory.batch.consumed"
	EventTypeBatchRetired              = "inventory.batch.retired"
	EventTypeProductionRequestApproved = "inventory.production_request.approved"
	EventTypeProductionRequestDenied   = "inventory.production_request.denied"
)

// RefreshEventTypes lists the events after which batch tables should reload
func RefreshEventTypes() []string {
	return []string{
		EventTypeBatchReceived,
		EventTypeBatchConsumed,
		EventTypeBatchRetired,
		EventTypeProductionRequestApproved,
		EventTypeProductionRequestDenied,
	}
}

// BatchReceivedEvent is raised when a batch is taken into inventory
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	BatchNumber int             `json:"batch_number"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewBatchReceivedEvent creates a BatchReceivedEvent
func NewBatchReceivedEvent(b *Batch) *BatchReceivedEvent {
	return &BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReceived, AggregateTypeBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		ProductName:     b.ProductName,
		Quantity:        b.Quantity,
	}
}

// BatchConsumedEvent is raised when usage is recorded against a batch
type BatchConsumedEvent struct {
	shared.BaseDomainEvent
	BatchNumber int             `json:"batch_number"`
	ProductName string          `json:"product_name"`
	Quantity    decimal.Decimal `json:"quantity"`
	Remaining   decimal.Decimal `json:"remaining"`
	Reason      string          `json:"reason,omitempty"`
}

// NewBatchConsumedEvent creates a BatchConsumedEvent
func NewBatchConsumedEvent(b *Batch, qty, remaining decimal.Decimal, reason string) *BatchConsumedEvent {
	return &BatchConsumedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchConsumed, AggregateTypeBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		ProductName:     b.ProductName,
		Quantity:        qty,
		Remaining:       remaining,
		Reason:          reason,
	}
}

// BatchRetiredEvent is raised when a batch is logically deleted
type BatchRetiredEvent struct {
	shared.BaseDomainEvent
	BatchNumber int             `json:"batch_number"`
	Discarded   decimal.Decimal `json:"discarded"`
}

// NewBatchRetiredEvent creates a BatchRetiredEvent
func NewBatchRetiredEvent(b *Batch, discarded decimal.Decimal) *BatchRetiredEvent {
	return &BatchRetiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchRetired, AggregateTypeBatch, b.ID),
		BatchNumber:     b.BatchNumber,
		Discarded:       discarded,
	}
}

// ProductionRequestApprovedEvent is raised when a request is approved
type ProductionRequestApprovedEvent struct {
	shared.BaseDomainEvent
	RequestNo   string          `json:"request_no"`
	Material    string          `json:"material"`
	Quantity    decimal.Decimal `json:"quantity"`
	Allocations []Allocation    `json:"allocations"`
}

// NewProductionRequestApprovedEvent creates a ProductionRequestApprovedEvent
func NewProductionRequestApprovedEvent(r *ProductionRequest) *ProductionRequestApprovedEvent {
	return &ProductionRequestApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionRequestApproved, AggregateTypeProductionRequest, r.ID),
		RequestNo:       r.RequestNo,
		Material:        r.Material,
		Quantity:        r.Quantity,
		Allocations:     r.Allocations,
	}
}

// ProductionRequestDeniedEvent is raised when a request is denied
type ProductionRequestDeniedEvent struct {
	shared.BaseDomainEvent
	RequestNo string `json:"request_no"`
}

// NewProductionRequestDeniedEvent creates a ProductionRequestDeniedEvent
func NewProductionRequestDeniedEvent(r *ProductionRequest) *ProductionRequestDeniedEvent {
	return &ProductionRequestDeniedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductionRequestDenied, AggregateTypeProductionRequest, r.ID),
		RequestNo:       r.RequestNo,
	}
}

var (
	_ shared.DomainEvent = (*BatchReceivedEvent)(nil)
	_ shared.DomainEvent = (*BatchConsumedEvent)(nil)
	_ shared.DomainEvent = (*BatchRetiredEvent)(nil)
	_ shared.DomainEvent = (*ProductionRequestApprovedEvent)(nil)
	_ shared.DomainEvent = (*ProductionRequestDeniedEvent)(nil)
)
