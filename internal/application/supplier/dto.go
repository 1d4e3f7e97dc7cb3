package supplier

import (
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProfileInput holds the descriptive supplier fields
type ProfileInput struct {
	Name    string `json:"name" binding:"required,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"max=500"`
	Company string `json:"company" binding:"max=200"`
}

func (p ProfileInput) profile() supplier.Profile {
	return supplier.Profile{Name: p.Name, Phone: p.Phone, Address: p.Address, Company: p.Company}
}

// CreateSupplierRequest is used both by admins and by self-registration
type CreateSupplierRequest struct {
	ProfileInput
	Email    string `json:"email" binding:"required,email,max=200"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// UpdateSupplierRequest is the admin edit; empty email or password keeps the old value
type UpdateSupplierRequest struct {
	ProfileInput
	Email    string `json:"email" binding:"omitempty,email,max=200"`
	Password string `json:"password" binding:"omitempty,min=6,max=72"`
}

// UpdateProfileRequest is a supplier editing their own profile
type UpdateProfileRequest struct {
	ProfileInput
}

// SupplierListFilter represents filter options for the supplier list
type SupplierListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// SupplierResponse never carries the password hash
type SupplierResponse struct {
	ID              uuid.UUID       `json:"id"`
	Name            string          `json:"name"`
	Email           string          `json:"email"`
	Phone           string          `json:"phone"`
	Address         string          `json:"address"`
	Company         string          `json:"company"`
	Role            string          `json:"role"`
	Earnings        decimal.Decimal `json:"earnings"`
	PendingPayments decimal.Decimal `json:"pendingPayments"`
	RatingAverage   decimal.Decimal `json:"ratingAverage"`
	RatingCount     int             `json:"ratingCount"`
	Version         int             `json:"version"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

// ToSupplierResponse converts a domain Supplier to SupplierResponse
func ToSupplierResponse(s *supplier.Supplier) SupplierResponse {
	return SupplierResponse{
		ID:              s.ID,
		Name:            s.Name,
		Email:           s.Email,
		Phone:           s.Phone,
		Address:         s.Address,
		Company:         s.Company,
		Role:            "supplier",
		Earnings:        s.Earnings,
		PendingPayments: s.PendingPayments,
		RatingAverage:   s.RatingAverage,
		RatingCount:     s.RatingCount,
		Version:         s.Version,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
	}
}

// SupplierWithTotalsResponse is a list row: ledger values plus totals
// recomputed from submission history
type SupplierWithTotalsResponse struct {
	SupplierResponse
	TotalOrders        int             `json:"totalOrders"`
	TotalItemsSupplied decimal.Decimal `json:"totalItemsSupplied"`
	AcceptedValue      decimal.Decimal `json:"acceptedValue"`
	PendingValue       decimal.Decimal `json:"pendingValue"`
	// LedgerDrift is earnings minus the paid total of accepted submissions
	LedgerDrift decimal.Decimal `json:"ledgerDrift"`
	// PendingDrift is pending payments minus what undecided submissions owe
	PendingDrift decimal.Decimal `json:"pendingDrift"`
}

func toSupplierWithTotals(s *supplier.Supplier, subs []*supplier.Submission) SupplierWithTotalsResponse {
	sum := supplier.Summarize(subs)
	return SupplierWithTotalsResponse{
		SupplierResponse:   ToSupplierResponse(s),
		TotalOrders:        sum.TotalOrders,
		TotalItemsSupplied: sum.TotalItemsSupplied,
		AcceptedValue:      sum.AcceptedValue,
		PendingValue:       sum.PendingValue,
		LedgerDrift:        sum.Drift(s),
		PendingDrift:       sum.PendingDrift(s),
	}
}

// EarningsResponse is the supplier earnings dashboard
type EarningsResponse struct {
	Earnings        decimal.Decimal          `json:"earnings"`
	PendingPayments decimal.Decimal          `json:"pendingPayments"`
	Summary         supplier.EarningsSummary `json:"summary"`
	LedgerDrift     decimal.Decimal          `json:"ledgerDrift"`
	PendingDrift    decimal.Decimal          `json:"pendingDrift"`
	RecentAccepted  []SubmissionResponse     `json:"recentAccepted"`
}

// RequestItemInput is one material line of a material request
type RequestItemInput struct {
	Name string          `json:"name" binding:"required,max=200"`
	Qty  decimal.Decimal `json:"qty" binding:"decimal_gt0"`
}

// MaterialRequestInput creates or replaces a material request
type MaterialRequestInput struct {
	Title       string             `json:"title" binding:"required,max=200"`
	Description string             `json:"description" binding:"max=2000"`
	Items       []RequestItemInput `json:"items" binding:"required,min=1,dive"`
	DueDate     *shared.Date       `json:"dueDate"`
	Closed      bool               `json:"closed"`
}

func (in MaterialRequestInput) items() []supplier.RequestItem {
	items := make([]supplier.RequestItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = supplier.RequestItem{Name: it.Name, Qty: it.Qty}
	}
	return items
}

func (in MaterialRequestInput) dueDate() *time.Time {
	if in.DueDate == nil {
		return nil
	}
	return in.DueDate.Ptr()
}

// MaterialRequestListFilter represents filter options for material request listing
type MaterialRequestListFilter struct {
	Search   string `form:"search"`
	Status   string `form:"status" binding:"omitempty,oneof=open closed"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
}

// MaterialRequestResponse represents a material request in API responses
type MaterialRequestResponse struct {
	ID          uuid.UUID              `json:"id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Items       []supplier.RequestItem `json:"items"`
	DueDate     *shared.Date           `json:"dueDate"`
	Status      string                 `json:"status"`
	Version     int                    `json:"version"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

// ToMaterialRequestResponse converts a domain MaterialRequest to MaterialRequestResponse
func ToMaterialRequestResponse(r *supplier.MaterialRequest) MaterialRequestResponse {
	resp := MaterialRequestResponse{
		ID:          r.ID,
		Title:       r.Title,
		Description: r.Description,
		Items:       r.Items,
		Status:      string(r.Status),
		Version:     r.Version,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.DueDate != nil {
		due := shared.NewDate(*r.DueDate)
		resp.DueDate = &due
	}
	return resp
}

// SubmissionItemInput is one line a supplier offers
type SubmissionItemInput struct {
	Name         string          `json:"name" binding:"required,max=200"`
	RequestedQty decimal.Decimal `json:"requestedQty"`
	Qty          decimal.Decimal `json:"qty" binding:"decimal_gt0"`
	Price        decimal.Decimal `json:"price"`
}

// CreateSubmissionRequest is a supplier's offer. SupplierAmount defaults to the item total.
type CreateSubmissionRequest struct {
	RequestID      *uuid.UUID            `json:"requestId"`
	Items          []SubmissionItemInput `json:"items" binding:"required,min=1,dive"`
	Notes          string                `json:"notes" binding:"max=2000"`
	SupplierAmount decimal.Decimal       `json:"supplierAmount"`
}

func (in CreateSubmissionRequest) items() []supplier.SubmissionItem {
	items := make([]supplier.SubmissionItem, len(in.Items))
	for i, it := range in.Items {
		items[i] = supplier.SubmissionItem{Name: it.Name, RequestedQty: it.RequestedQty, Qty: it.Qty, Price: it.Price}
	}
	return items
}

// AcceptSubmissionRequest carries the amount actually paid
type AcceptSubmissionRequest struct {
	PaidAmount decimal.Decimal `json:"paidAmount"`
}

// SubmissionListFilter represents filter options for submission listing
type SubmissionListFilter struct {
	Status     string `form:"status" binding:"omitempty,oneof=pending accepted rejected"`
	SupplierID string `form:"supplierId" binding:"omitempty,uuid"`
	RequestID  string `form:"requestId" binding:"omitempty,uuid"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
}

// SubmissionResponse represents a submission in API responses
type SubmissionResponse struct {
	ID             uuid.UUID                 `json:"id"`
	SupplierID     uuid.UUID                 `json:"supplierId"`
	RequestID      *uuid.UUID                `json:"requestId"`
	Items          []supplier.SubmissionItem `json:"items"`
	Notes          string                    `json:"notes"`
	SupplierAmount decimal.Decimal           `json:"supplierAmount"`
	TotalQuantity  decimal.Decimal           `json:"totalQuantity"`
	TotalValue     decimal.Decimal           `json:"totalValue"`
	Status         string                    `json:"status"`
	PaidAmount     decimal.Decimal           `json:"paidAmount"`
	DecidedAt      *time.Time                `json:"decidedAt"`
	Version        int                       `json:"version"`
	CreatedAt      time.Time                 `json:"createdAt"`
}

// ToSubmissionResponse converts a domain Submission to SubmissionResponse
func ToSubmissionResponse(s *supplier.Submission) SubmissionResponse {
	return SubmissionResponse{
		ID:             s.ID,
		SupplierID:     s.SupplierID,
		RequestID:      s.RequestID,
		Items:          s.Items,
		Notes:          s.Notes,
		SupplierAmount: s.SupplierAmount,
		TotalQuantity:  s.TotalQuantity(),
		TotalValue:     s.TotalValue(),
		Status:         string(s.Status),
		PaidAmount:     s.PaidAmount,
		DecidedAt:      s.DecidedAt,
		Version:        s.Version,
		CreatedAt:      s.CreatedAt,
	}
}

// AcceptSubmissionResponse is the accept payload: the submission and the updated supplier
type AcceptSubmissionResponse struct {
	Submission SubmissionResponse `json:"submission"`
	Supplier   SupplierResponse   `json:"supplier"`
}

// CreateRatingRequest is an admin's score for a supplier
type CreateRatingRequest struct {
	Score   int    `json:"score" binding:"required,min=1,max=5"`
	Comment string `json:"comment" binding:"max=1000"`
}

// RatingResponse represents a rating in API responses
type RatingResponse struct {
	ID         uuid.UUID `json:"id"`
	SupplierID uuid.UUID `json:"supplierId"`
	Score      int       `json:"score"`
	Comment    string    `json:"comment"`
	RatedBy    string    `json:"ratedBy"`
	CreatedAt  time.Time `json:"createdAt"`
}

// ToRatingResponse converts a domain Rating to RatingResponse
func ToRatingResponse(r *supplier.Rating) RatingResponse {
	return RatingResponse{
		ID:         r.ID,
		SupplierID: r.SupplierID,
		Score:      r.Score,
		Comment:    r.Comment,
		RatedBy:    r.RatedBy,
		CreatedAt:  r.CreatedAt,
	}
}
