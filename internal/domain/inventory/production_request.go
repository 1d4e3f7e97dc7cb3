package inventory

import (
	"strings"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ProductionRequestStatus is the approval state of a production request
type ProductionRequestStatus string

const (
	ProductionRequestPending  ProductionRequestStatus = "Pending"
	ProductionRequestApproved ProductionRequestStatus = "Approved"
	ProductionRequestDenied   ProductionRequestStatus = "Denied"
)

// IsTerminal reports whether no further transition is allowed
func (s ProductionRequestStatus) IsTerminal() bool {
	return s == ProductionRequestApproved || s == ProductionRequestDenied
}

// ParseProductionRequestStatus accepts any casing of a known status
func ParseProductionRequestStatus(s string) (ProductionRequestStatus, error) {
	for _, st := range []ProductionRequestStatus{ProductionRequestPending, ProductionRequestApproved, ProductionRequestDenied} {
		if strings.EqualFold(strings.TrimSpace(s), string(st)) {
			return st, nil
		}
	}
	return "", shared.NewDomainErrorf("INVALID_STATUS", "Unknown production request status %q", s)
}

// ProductionRequestDetails carries the requester-supplied fields
type ProductionRequestDetails struct {
	RequestNo            string
	Material             string
	Quantity             decimal.Decimal
	RequestedBy          string
	RequestedDate        time.Time
	RequirementCondition string
	Note                 string
}

func (d ProductionRequestDetails) validate() error {
	if strings.TrimSpace(d.RequestNo) == "" {
		return shared.NewDomainError("INVALID_REQUEST_NO", "Request number is required")
	}
	if strings.TrimSpace(d.Material) == "" {
		return shared.NewDomainError("INVALID_MATERIAL", "Material is required")
	}
	if !d.Quantity.IsPositive() {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if strings.TrimSpace(d.RequestedBy) == "" {
		return shared.NewDomainError("INVALID_REQUESTER", "Requester is required")
	}
	return nil
}

// ProductionRequest is a request from production for a quantity of material.
// Pending moves once to Approved or Denied; both are terminal.
type ProductionRequest struct {
	shared.BaseAggregateRoot
	ProductionRequestDetails
	Status      ProductionRequestStatus
	Allocations []Allocation
	DecidedAt   *time.Time
}

// NewProductionRequest creates a pending request
func NewProductionRequest(d ProductionRequestDetails) (*ProductionRequest, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	d.RequestNo = strings.TrimSpace(d.RequestNo)
	d.Material = strings.TrimSpace(d.Material)
	d.RequestedBy = strings.TrimSpace(d.RequestedBy)

	r := &ProductionRequest{
		BaseAggregateRoot:        shared.NewBaseAggregateRoot(),
		ProductionRequestDetails: d,
		Status:                   ProductionRequestPending,
	}
	if r.RequestedDate.IsZero() {
		r.RequestedDate = r.CreatedAt
	}
	return r, nil
}

// IsPending reports whether the request still awaits a decision
func (r *ProductionRequest) IsPending() bool {
	return r.Status == ProductionRequestPending
}

// Approve marks the request approved with the batches that covered it.
// The allocations must add up to exactly the requested quantity.
func (r *ProductionRequest) Approve(allocs []Allocation) error {
	if !r.IsPending() {
		return shared.NewDomainErrorf("INVALID_STATE", "Production request is already %s", r.Status)
	}
	if len(allocs) == 0 || !TotalAllocated(allocs).Equal(r.Quantity) {
		return shared.NewDomainError("INVALID_ALLOCATION", "Allocations must cover the requested quantity")
	}

	now := time.Now()
	r.Status = ProductionRequestApproved
	r.Allocations = allocs
	r.DecidedAt = &now
	r.Touch()
	r.AddDomainEvent(NewProductionRequestApprovedEvent(r))
	return nil
}

// Deny rejects the request; stock is never touched
func (r *ProductionRequest) Deny() error {
	if !r.IsPending() {
		return shared.NewDomainErrorf("INVALID_STATE", "Production request is already %s", r.Status)
	}

	now := time.Now()
	r.Status = ProductionRequestDenied
	r.DecidedAt = &now
	r.Touch()
	r.AddDomainEvent(NewProductionRequestDeniedEvent(r))
	return nil
}

// ProductionStockEntry is production's own log of a material request it sent
type ProductionStockEntry struct {
	shared.BaseEntity
	ProductionRequestDetails
}

// NewProductionStockEntry creates a log entry
func NewProductionStockEntry(d ProductionRequestDetails) (*ProductionStockEntry, error) {
	if err := d.validate(); err != nil {
		return nil, err
	}
	e := &ProductionStockEntry{
		BaseEntity:               shared.NewBaseEntity(),
		ProductionRequestDetails: d,
	}
	if e.RequestedDate.IsZero() {
		e.RequestedDate = e.CreatedAt
	}
	return e, nil
}

// Update replaces the entry's fields
func (e *ProductionStockEntry) Update(d ProductionRequestDetails) error {
	if err := d.validate(); err != nil {
		return err
	}
	if d.RequestedDate.IsZero() {
		d.RequestedDate = e.RequestedDate
	}
	e.ProductionRequestDetails = d
	e.Touch()
	return nil
}
