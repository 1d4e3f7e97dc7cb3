package inventory

import (
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateBatchRequest represents a request to take a batch into inventory
type CreateBatchRequest struct {
	ProductName  string          `json:"productName" binding:"required,max=200"`
	BatchNumber  int             `json:"batchNumber" binding:"required,gt=0"`
	Quantity     decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	Unit         string          `json:"unit" binding:"required,max=20"`
	SupplierName string          `json:"supplierName" binding:"max=200"`
	ReceivedDate shared.Date     `json:"receivedDate"`
	ExpiryDate   shared.Date     `json:"expiryDate"`
}

// UpdateBatchRequest changes batch metadata. Quantity is accepted only so a
// changed value can be rejected explicitly.
type UpdateBatchRequest struct {
	ProductName  *string          `json:"productName" binding:"omitempty,max=200"`
	Unit         *string          `json:"unit" binding:"omitempty,max=20"`
	SupplierName *string          `json:"supplierName" binding:"omitempty,max=200"`
	ExpiryDate   *shared.Date     `json:"expiryDate"`
	Quantity     *decimal.Decimal `json:"quantity"`
}

// BatchListFilter represents filter options for batch listing
type BatchListFilter struct {
	Search   string `form:"search"`
	Material string `form:"material"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// BatchResponse is a batch joined with its consumption status
type BatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	ProductName       string          `json:"productName"`
	BatchNumber       int             `json:"batchNumber"`
	Quantity          decimal.Decimal `json:"quantity"`
	Unit              string          `json:"unit"`
	SupplierName      string          `json:"supplierName"`
	ReceivedDate      shared.Date     `json:"receivedDate"`
	ExpiryDate        shared.Date     `json:"expiryDate"`
	UsedQuantity      decimal.Decimal `json:"usedQuantity"`
	RemainingQuantity decimal.Decimal `json:"remainingQuantity"`
	IsDeleted         bool            `json:"isDeleted"`
	DaysLeft          int             `json:"daysLeft"`
	CreatedAt         time.Time       `json:"createdAt"`
	UpdatedAt         time.Time       `json:"updatedAt"`
}

// ToBatchResponse converts a batch and its status to a response
func ToBatchResponse(s inventory.BatchStock, now time.Time) BatchResponse {
	b := s.Batch
	return BatchResponse{
		ID:                b.ID,
		ProductName:       b.ProductName,
		BatchNumber:       b.BatchNumber,
		Quantity:          b.Quantity,
		Unit:              b.Unit,
		SupplierName:      b.SupplierName,
		ReceivedDate:      shared.NewDate(b.ReceivedAt),
		ExpiryDate:        shared.NewDate(b.ExpiryDate),
		UsedQuantity:      s.Status.UsedQuantity,
		RemainingQuantity: s.Remaining(),
		IsDeleted:         s.Status.IsDeleted,
		DaysLeft:          b.DaysUntilExpiry(now),
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
	}
}

// ImportRowError reports why one spreadsheet row was skipped
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// ImportResult summarizes a bulk batch import
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors"`
}

// BatchStatusResponse is the stored or defaulted status of one batch
type BatchStatusResponse struct {
	BatchID      uuid.UUID       `json:"batchId"`
	UsedQuantity decimal.Decimal `json:"usedQuantity"`
	IsDeleted    bool            `json:"isDeleted"`
	Version      int             `json:"version"`
	UpdatedAt    *time.Time      `json:"updatedAt,omitempty"`
}

// ToBatchStatusResponse converts a status to a response
func ToBatchStatusResponse(s *inventory.BatchStatus) BatchStatusResponse {
	resp := BatchStatusResponse{
		BatchID:      s.BatchID,
		UsedQuantity: s.UsedQuantity,
		IsDeleted:    s.IsDeleted,
		Version:      s.Version,
	}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		resp.UpdatedAt = &t
	}
	return resp
}

// RecordUsageRequest increments the used quantity of a batch
type RecordUsageRequest struct {
	UsedQuantity decimal.Decimal `json:"usedQuantity" binding:"decimal_gt0"`
	Reason       string          `json:"reason" binding:"max=200"`
}

// ApproveWithBatchRequest deducts quantity from one named batch
type ApproveWithBatchRequest struct {
	BatchNumber int             `json:"batchNumber" binding:"required,gt=0"`
	Quantity    decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
}

// MaterialStocksQuery controls the material stock aggregation
type MaterialStocksQuery struct {
	ExcludeExpired bool `form:"excludeExpired"`
}

// AvailableQuantityResponse is the available stock of one material
type AvailableQuantityResponse struct {
	Material  string          `json:"material"`
	Available decimal.Decimal `json:"available"`
}

// ProductionRequestInput carries the fields production sends for a request.
// Field names match the production client's payload.
type ProductionRequestInput struct {
	RequestNo            string          `json:"RequestNo" binding:"required,max=50"`
	Material             string          `json:"Material" binding:"required,max=200"`
	Quantity             decimal.Decimal `json:"Quantity" binding:"decimal_gt0"`
	RequestedBy          string          `json:"RequestedBy" binding:"required,max=100"`
	RequestedDate        shared.Date     `json:"RequestedDate"`
	RequirementCondition string          `json:"RequirementCondition" binding:"max=500"`
	Note                 string          `json:"Note" binding:"max=1000"`
}

func (in ProductionRequestInput) details() inventory.ProductionRequestDetails {
	return inventory.ProductionRequestDetails{
		RequestNo:            in.RequestNo,
		Material:             in.Material,
		Quantity:             in.Quantity,
		RequestedBy:          in.RequestedBy,
		RequestedDate:        in.RequestedDate.Time,
		RequirementCondition: in.RequirementCondition,
		Note:                 in.Note,
	}
}

// CreateProductionRequestRequest creates a pending production request
type CreateProductionRequestRequest struct {
	ProductionRequestInput
	// LogToProductionStock also records the request in the production stock log
	LogToProductionStock bool `json:"logToProductionStock"`
}

// DecideProductionRequestRequest approves or denies a request.
// BatchNumber is required when Strategy is SPECIFIED.
type DecideProductionRequestRequest struct {
	Status      string `json:"Status" binding:"required"`
	Strategy    string `json:"strategy"`
	BatchNumber int    `json:"batchNumber" binding:"omitempty,gt=0"`
}

// ProductionRequestListFilter represents filter options for request listing
type ProductionRequestListFilter struct {
	Status   string `form:"status"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
	OrderBy  string `form:"orderBy"`
	OrderDir string `form:"orderDir" binding:"omitempty,oneof=asc desc"`
}

// ProductionRequestResponse represents a production request in API responses
type ProductionRequestResponse struct {
	ID                   uuid.UUID              `json:"_id"`
	RequestNo            string                 `json:"RequestNo"`
	Material             string                 `json:"Material"`
	Quantity             decimal.Decimal        `json:"Quantity"`
	RequestedBy          string                 `json:"RequestedBy"`
	RequestedDate        shared.Date            `json:"RequestedDate"`
	RequirementCondition string                 `json:"RequirementCondition"`
	Note                 string                 `json:"Note"`
	Status               string                 `json:"Status"`
	Allocations          []inventory.Allocation `json:"allocations"`
	DecidedAt            *time.Time             `json:"decidedAt,omitempty"`
	Version              int                    `json:"version"`
	CreatedAt            time.Time              `json:"createdAt"`
	UpdatedAt            time.Time              `json:"updatedAt"`
}

// ToProductionRequestResponse converts a production request to a response
func ToProductionRequestResponse(r *inventory.ProductionRequest) ProductionRequestResponse {
	allocs := r.Allocations
	if allocs == nil {
		allocs = []inventory.Allocation{}
	}
	return ProductionRequestResponse{
		ID:                   r.ID,
		RequestNo:            r.RequestNo,
		Material:             r.Material,
		Quantity:             r.Quantity,
		RequestedBy:          r.RequestedBy,
		RequestedDate:        shared.NewDate(r.RequestedDate),
		RequirementCondition: r.RequirementCondition,
		Note:                 r.Note,
		Status:               string(r.Status),
		Allocations:          allocs,
		DecidedAt:            r.DecidedAt,
		Version:              r.Version,
		CreatedAt:            r.CreatedAt,
		UpdatedAt:            r.UpdatedAt,
	}
}

// ProductionStockResponse represents a production stock log entry
type ProductionStockResponse struct {
	ID                   uuid.UUID       `json:"_id"`
	RequestNo            string          `json:"RequestNo"`
	Material             string          `json:"Material"`
	Quantity             decimal.Decimal `json:"Quantity"`
	RequestedBy          string          `json:"RequestedBy"`
	RequestedDate        shared.Date     `json:"RequestedDate"`
	RequirementCondition string          `json:"RequirementCondition"`
	Note                 string          `json:"Note"`
	CreatedAt            time.Time       `json:"createdAt"`
	UpdatedAt            time.Time       `json:"updatedAt"`
}

// ToProductionStockResponse converts a log entry to a response
func ToProductionStockResponse(e *inventory.ProductionStockEntry) ProductionStockResponse {
	return ProductionStockResponse{
		ID:                   e.ID,
		RequestNo:            e.RequestNo,
		Material:             e.Material,
		Quantity:             e.Quantity,
		RequestedBy:          e.RequestedBy,
		RequestedDate:        shared.NewDate(e.RequestedDate),
		RequirementCondition: e.RequirementCondition,
		Note:                 e.Note,
		CreatedAt:            e.CreatedAt,
		UpdatedAt:            e.UpdatedAt,
	}
}

// ExpiringMaterialResponse is one row of the expiry tracking view
type ExpiringMaterialResponse struct {
	BatchID           uuid.UUID              `json:"batchId"`
	ProductName       string                 `json:"productName"`
	BatchNumber       int                    `json:"batchNumber"`
	RemainingQuantity decimal.Decimal        `json:"remainingQuantity"`
	Unit              string                 `json:"unit"`
	SupplierName      string                 `json:"supplierName"`
	ExpiryDate        shared.Date            `json:"expiryDate"`
	DaysLeft          int                    `json:"daysLeft"`
	Action            inventory.ExpiryAction `json:"action"`
}

// ToExpiringMaterialResponse converts an expiring batch to a response
func ToExpiringMaterialResponse(e inventory.ExpiringBatch) ExpiringMaterialResponse {
	return ExpiringMaterialResponse{
		BatchID:           e.Batch.ID,
		ProductName:       e.Batch.ProductName,
		BatchNumber:       e.Batch.BatchNumber,
		RemainingQuantity: e.RemainingQuantity(),
		Unit:              e.Batch.Unit,
		SupplierName:      e.Batch.SupplierName,
		ExpiryDate:        shared.NewDate(e.Batch.ExpiryDate),
		DaysLeft:          e.Alert.DaysLeft,
		Action:            e.Alert.Action,
	}
}

// DashboardResponse summarizes inventory for the landing page
type DashboardResponse struct {
	TotalBatches           int64                       `json:"totalBatches"`
	ActiveBatches          int                         `json:"activeBatches"`
	ExpiringSoon           int                         `json:"expiringSoon"`
	Critical               int                         `json:"critical"`
	RecentBatches          []BatchResponse             `json:"recentBatches"`
	PendingRequests        int64                       `json:"pendingRequests"`
	RecentPendingRequests  []ProductionRequestResponse `json:"recentPendingRequests"`
	MaterialStocks         []inventory.MaterialStock   `json:"materialStocks"`
	ProductionStockEntries int64                       `json:"productionStockEntries"`
}
