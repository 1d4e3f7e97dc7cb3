package supplier

import (
	"strings"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MaterialRequestStatus is whether suppliers may still respond
type MaterialRequestStatus string

const (
	MaterialRequestOpen   MaterialRequestStatus = "open"
	MaterialRequestClosed MaterialRequestStatus = "closed"
)

// RequestItem is one material line an admin asks suppliers for
type RequestItem struct {
	Name string          `json:"name"`
	Qty  decimal.Decimal `json:"qty"`
}

// MaterialRequest is an admin-issued call for materials
type MaterialRequest struct {
	shared.BaseAggregateRoot
	Title       string
	Description string
	Items       []RequestItem
	DueDate     *time.Time
	Status      MaterialRequestStatus
}

// NewMaterialRequest creates an open request
func NewMaterialRequest(title, description string, items []RequestItem, dueDate *time.Time) (*MaterialRequest, error) {
	r := &MaterialRequest{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Status:            MaterialRequestOpen,
	}
	if err := r.Update(title, description, items, dueDate); err != nil {
		return nil, err
	}
	return r, nil
}

// Update replaces the request's content
func (r *MaterialRequest) Update(title, description string, items []RequestItem, dueDate *time.Time) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return shared.NewDomainError("INVALID_TITLE", "Title is required")
	}
	if len(items) == 0 {
		return shared.NewDomainError("INVALID_ITEMS", "At least one item is required")
	}
	for i := range items {
		items[i].Name = strings.TrimSpace(items[i].Name)
		if items[i].Name == "" || !items[i].Qty.IsPositive() {
			return shared.NewDomainError("INVALID_ITEMS", "Each item needs a name and a positive quantity")
		}
	}
	r.Title = title
	r.Description = strings.TrimSpace(description)
	r.Items = items
	r.DueDate = dueDate
	r.Touch()
	return nil
}

// IsOpen reports whether suppliers can still submit against the request
func (r *MaterialRequest) IsOpen(now time.Time) bool {
	if r.Status != MaterialRequestOpen {
		return false
	}
	return r.DueDate == nil || !now.After(*r.DueDate)
}

// Close stops further submissions
func (r *MaterialRequest) Close() {
	r.Status = MaterialRequestClosed
	r.Touch()
}
