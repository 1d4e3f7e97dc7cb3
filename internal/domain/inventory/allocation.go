package inventory

import (
	"sort"
	"strings"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationStrategyType selects how a requested quantity is spread over batches
type AllocationStrategyType string

const (
	// AllocationStrategyFEFO takes from the batches closest to expiry first
	AllocationStrategyFEFO AllocationStrategyType = "FEFO"
	// AllocationStrategySpecified takes everything from one batch named by the approver
	AllocationStrategySpecified AllocationStrategyType = "SPECIFIED"
)

// IsValid checks if the strategy type is valid
func (t AllocationStrategyType) IsValid() bool {
	switch t {
	case AllocationStrategyFEFO, AllocationStrategySpecified:
		return true
	}
	return false
}

// ParseAllocationStrategyType parses a strategy name, case-insensitively
func ParseAllocationStrategyType(s string) (AllocationStrategyType, error) {
	t := AllocationStrategyType(strings.ToUpper(strings.TrimSpace(s)))
	if !t.IsValid() {
		return "", shared.NewDomainErrorf("INVALID_STRATEGY", "Unknown allocation strategy %q", s)
	}
	return t, nil
}

// Allocation is the quantity taken from one batch
type Allocation struct {
	BatchID     uuid.UUID       `json:"batchId"`
	BatchNumber int             `json:"batchNumber"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// TotalAllocated sums the quantities of allocs
func TotalAllocated(allocs []Allocation) decimal.Decimal {
	total := decimal.Zero
	for _, a := range allocs {
		total = total.Add(a.Quantity)
	}
	return total
}

// AllocationStrategy decides which batches cover a requested quantity.
// Implementations never mutate the candidates.
type AllocationStrategy interface {
	Type() AllocationStrategyType
	SelectBatches(candidates []BatchStock, qty decimal.Decimal, now time.Time) ([]Allocation, error)
}

// NewAllocationStrategy builds a strategy. batchNumber is required for SPECIFIED.
func NewAllocationStrategy(t AllocationStrategyType, batchNumber int) (AllocationStrategy, error) {
	switch t {
	case AllocationStrategyFEFO:
		return FEFOStrategy{}, nil
	case AllocationStrategySpecified:
		if batchNumber <= 0 {
			return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "A batch number is required for approval")
		}
		return SpecifiedBatchStrategy{BatchNumber: batchNumber}, nil
	}
	return nil, shared.NewDomainErrorf("INVALID_STRATEGY", "Unknown allocation strategy %q", string(t))
}

// FEFOStrategy allocates from usable batches ordered by expiry date, then
// received date, then batch number. Expired and retired batches are skipped.
type FEFOStrategy struct{}

// Type returns AllocationStrategyFEFO
func (FEFOStrategy) Type() AllocationStrategyType { return AllocationStrategyFEFO }

// SelectBatches implements AllocationStrategy
func (FEFOStrategy) SelectBatches(candidates []BatchStock, qty decimal.Decimal, now time.Time) ([]Allocation, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}

	usable := make([]BatchStock, 0, len(candidates))
	for _, c := range candidates {
		if c.IsUsable(now) {
			usable = append(usable, c)
		}
	}
	sort.SliceStable(usable, func(i, j int) bool {
		bi, bj := usable[i].Batch, usable[j].Batch
		if !bi.ExpiryDate.Equal(bj.ExpiryDate) {
			return bi.ExpiryDate.Before(bj.ExpiryDate)
		}
		if !bi.ReceivedAt.Equal(bj.ReceivedAt) {
			return bi.ReceivedAt.Before(bj.ReceivedAt)
		}
		return bi.BatchNumber < bj.BatchNumber
	})

	allocs := make([]Allocation, 0)
	left := qty
	for _, c := range usable {
		if !left.IsPositive() {
			break
		}
		take := decimal.Min(left, c.Remaining())
		allocs = append(allocs, Allocation{
			BatchID:     c.Batch.ID,
			BatchNumber: c.Batch.BatchNumber,
			Quantity:    take,
		})
		left = left.Sub(take)
	}

	if left.IsPositive() {
		return nil, shared.NewDomainErrorf("INSUFFICIENT_STOCK",
			"Insufficient stock: requested %s, available %s", qty.String(), qty.Sub(left).String())
	}
	return allocs, nil
}

// SpecifiedBatchStrategy takes the whole quantity from one named batch.
// The batch must be among the candidates, not retired, and hold enough.
type SpecifiedBatchStrategy struct {
	BatchNumber int
}

// Type returns AllocationStrategySpecified
func (SpecifiedBatchStrategy) Type() AllocationStrategyType { return AllocationStrategySpecified }

// SelectBatches implements AllocationStrategy
func (s SpecifiedBatchStrategy) SelectBatches(candidates []BatchStock, qty decimal.Decimal, _ time.Time) ([]Allocation, error) {
	if !qty.IsPositive() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Requested quantity must be positive")
	}
	for _, c := range candidates {
		if c.Batch.BatchNumber != s.BatchNumber {
			continue
		}
		if c.Status.IsDeleted || c.Remaining().LessThan(qty) {
			return nil, ErrBatchValidationFailed
		}
		return []Allocation{{
			BatchID:     c.Batch.ID,
			BatchNumber: c.Batch.BatchNumber,
			Quantity:    qty,
		}}, nil
	}
	return nil, ErrBatchValidationFailed
}
