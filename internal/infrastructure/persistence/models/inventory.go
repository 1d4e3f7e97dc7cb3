package models

import (
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchModel is the persistence model for the Batch aggregate
type BatchModel struct {
	AggregateModel
	ProductName  string          `gorm:"type:varchar(200);not null"`
	MaterialKey  string          `gorm:"type:varchar(200);not null;index"`
	BatchNumber  int             `gorm:"not null;uniqueIndex"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Unit         string          `gorm:"type:varchar(20);not null"`
	SupplierName string          `gorm:"type:varchar(200)"`
	ReceivedAt   time.Time       `gorm:"not null"`
	ExpiryDate   time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (BatchModel) TableName() string {
	return "batches"
}

// ToDomain converts the persistence model to a domain Batch
func (m *BatchModel) ToDomain() *inventory.Batch {
	return &inventory.Batch{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		ProductName:       m.ProductName,
		BatchNumber:       m.BatchNumber,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		SupplierName:      m.SupplierName,
		ReceivedAt:        m.ReceivedAt,
		ExpiryDate:        m.ExpiryDate,
	}
}

// BatchModelFromDomain creates a persistence model from a domain Batch
func BatchModelFromDomain(b *inventory.Batch) *BatchModel {
	m := &BatchModel{
		ProductName:  b.ProductName,
		MaterialKey:  b.MaterialKey(),
		BatchNumber:  b.BatchNumber,
		Quantity:     b.Quantity,
		Unit:         b.Unit,
		SupplierName: b.SupplierName,
		ReceivedAt:   b.ReceivedAt,
		ExpiryDate:   b.ExpiryDate,
	}
	m.FromDomainAggregateRoot(b.BaseAggregateRoot)
	return m
}

// BatchStatusModel stores the consumption state of one batch
type BatchStatusModel struct {
	BatchID      uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UsedQuantity decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	IsDeleted    bool            `gorm:"not null;default:false"`
	Version      int             `gorm:"not null;default:1"`
	UpdatedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (BatchStatusModel) TableName() string {
	return "batch_statuses"
}

// ToDomain converts the persistence model to a domain BatchStatus
func (m *BatchStatusModel) ToDomain() *inventory.BatchStatus {
	return &inventory.BatchStatus{
		BatchID:      m.BatchID,
		UsedQuantity: m.UsedQuantity,
		IsDeleted:    m.IsDeleted,
		Version:      m.Version,
		UpdatedAt:    m.UpdatedAt,
	}
}

// BatchStatusModelFromDomain creates a persistence model from a domain BatchStatus
func BatchStatusModelFromDomain(s *inventory.BatchStatus) *BatchStatusModel {
	return &BatchStatusModel{
		BatchID:      s.BatchID,
		UsedQuantity: s.UsedQuantity,
		IsDeleted:    s.IsDeleted,
		Version:      s.Version,
		UpdatedAt:    s.UpdatedAt,
	}
}

// RequestDetailsColumns is shared by production requests and the production stock log
type RequestDetailsColumns struct {
	RequestNo            string          `gorm:"type:varchar(50);not null;index"`
	Material             string          `gorm:"type:varchar(200);not null"`
	Quantity             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	RequestedBy          string          `gorm:"type:varchar(100);not null"`
	RequestedDate        time.Time       `gorm:"not null"`
	RequirementCondition string          `gorm:"type:varchar(200)"`
	Note                 string          `gorm:"type:text"`
}

func (c RequestDetailsColumns) toDomain() inventory.ProductionRequestDetails {
	return inventory.ProductionRequestDetails{
		RequestNo:            c.RequestNo,
		Material:             c.Material,
		Quantity:             c.Quantity,
		RequestedBy:          c.RequestedBy,
		RequestedDate:        c.RequestedDate,
		RequirementCondition: c.RequirementCondition,
		Note:                 c.Note,
	}
}

func requestDetailsFromDomain(d inventory.ProductionRequestDetails) RequestDetailsColumns {
	return RequestDetailsColumns{
		RequestNo:            d.RequestNo,
		Material:             d.Material,
		Quantity:             d.Quantity,
		RequestedBy:          d.RequestedBy,
		RequestedDate:        d.RequestedDate,
		RequirementCondition: d.RequirementCondition,
		Note:                 d.Note,
	}
}

// ProductionRequestModel is the persistence model for ProductionRequest
type ProductionRequestModel struct {
	AggregateModel
	RequestDetailsColumns `gorm:"embedded"`
	Status                string `gorm:"type:varchar(20);not null;index"`
	Allocations           string `gorm:"type:text;not null;default:'[]'"`
	DecidedAt             *time.Time
}

// TableName returns the table name for GORM
func (ProductionRequestModel) TableName() string {
	return "production_requests"
}

// ToDomain converts the persistence model to a domain ProductionRequest
func (m *ProductionRequestModel) ToDomain() (*inventory.ProductionRequest, error) {
	allocs, err := decodeJSON[inventory.Allocation](m.Allocations)
	if err != nil {
		return nil, err
	}
	return &inventory.ProductionRequest{
		BaseAggregateRoot:        m.ToDomainAggregateRoot(),
		ProductionRequestDetails: m.RequestDetailsColumns.toDomain(),
		Status:                   inventory.ProductionRequestStatus(m.Status),
		Allocations:              allocs,
		DecidedAt:                m.DecidedAt,
	}, nil
}

// ProductionRequestModelFromDomain creates a persistence model from a domain ProductionRequest
func ProductionRequestModelFromDomain(r *inventory.ProductionRequest) (*ProductionRequestModel, error) {
	allocs, err := encodeJSON(r.Allocations)
	if err != nil {
		return nil, err
	}
	m := &ProductionRequestModel{
		RequestDetailsColumns: requestDetailsFromDomain(r.ProductionRequestDetails),
		Status:                string(r.Status),
		Allocations:           allocs,
		DecidedAt:             r.DecidedAt,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m, nil
}

// ProductionStockModel is the persistence model for ProductionStockEntry
type ProductionStockModel struct {
	BaseModel
	RequestDetailsColumns `gorm:"embedded"`
}

// TableName returns the table name for GORM
func (ProductionStockModel) TableName() string {
	return "production_stocks"
}

// ToDomain converts the persistence model to a domain ProductionStockEntry
func (m *ProductionStockModel) ToDomain() *inventory.ProductionStockEntry {
	return &inventory.ProductionStockEntry{
		BaseEntity:               shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		ProductionRequestDetails: m.RequestDetailsColumns.toDomain(),
	}
}

// ProductionStockModelFromDomain creates a persistence model from a domain ProductionStockEntry
func ProductionStockModelFromDomain(e *inventory.ProductionStockEntry) *ProductionStockModel {
	m := &ProductionStockModel{RequestDetailsColumns: requestDetailsFromDomain(e.ProductionRequestDetails)}
	m.FromDomainBaseEntity(e.BaseEntity)
	return m
}
