package models

import (
	"time"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SupplierModel is the persistence model for the Supplier aggregate
type SupplierModel struct {
	AggregateModel
	Email           string          `gorm:"type:varchar(254);not null;uniqueIndex"`
	PasswordHash    string          `gorm:"type:varchar(100);not null"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Phone           string          `gorm:"type:varchar(50)"`
	Address         string          `gorm:"type:varchar(500)"`
	Company         string          `gorm:"type:varchar(200)"`
	Earnings        decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	PendingPayments decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	RatingAverage   decimal.Decimal `gorm:"type:decimal(4,2);not null;default:0"`
	RatingCount     int             `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (SupplierModel) TableName() string {
	return "suppliers"
}

// ToDomain converts the persistence model to a domain Supplier
func (m *SupplierModel) ToDomain() *supplier.Supplier {
	return &supplier.Supplier{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Credentials:       identity.Credentials{Email: m.Email, PasswordHash: m.PasswordHash},
		Name:              m.Name,
		Phone:             m.Phone,
		Address:           m.Address,
		Company:           m.Company,
		Earnings:          m.Earnings,
		PendingPayments:   m.PendingPayments,
		RatingAverage:     m.RatingAverage,
		RatingCount:       m.RatingCount,
	}
}

// SupplierModelFromDomain creates a persistence model from a domain Supplier
func SupplierModelFromDomain(s *supplier.Supplier) *SupplierModel {
	m := &SupplierModel{
		Email:           s.Email,
		PasswordHash:    s.PasswordHash,
		Name:            s.Name,
		Phone:           s.Phone,
		Address:         s.Address,
		Company:         s.Company,
		Earnings:        s.Earnings,
		PendingPayments: s.PendingPayments,
		RatingAverage:   s.RatingAverage,
		RatingCount:     s.RatingCount,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}

// MaterialRequestModel is the persistence model for MaterialRequest
type MaterialRequestModel struct {
	AggregateModel
	Title       string `gorm:"type:varchar(200);not null"`
	Description string `gorm:"type:text"`
	Items       string `gorm:"type:text;not null;default:'[]'"`
	DueDate     *time.Time
	Status      string `gorm:"type:varchar(20);not null;index"`
}

// TableName returns the table name for GORM
func (MaterialRequestModel) TableName() string {
	return "material_requests"
}

// ToDomain converts the persistence model to a domain MaterialRequest
func (m *MaterialRequestModel) ToDomain() (*supplier.MaterialRequest, error) {
	items, err := decodeJSON[supplier.RequestItem](m.Items)
	if err != nil {
		return nil, err
	}
	return &supplier.MaterialRequest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Title:             m.Title,
		Description:       m.Description,
		Items:             items,
		DueDate:           m.DueDate,
		Status:            supplier.MaterialRequestStatus(m.Status),
	}, nil
}

// MaterialRequestModelFromDomain creates a persistence model from a domain MaterialRequest
func MaterialRequestModelFromDomain(r *supplier.MaterialRequest) (*MaterialRequestModel, error) {
	items, err := encodeJSON(r.Items)
	if err != nil {
		return nil, err
	}
	m := &MaterialRequestModel{
		Title:       r.Title,
		Description: r.Description,
		Items:       items,
		DueDate:     r.DueDate,
		Status:      string(r.Status),
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m, nil
}

// SubmissionModel is the persistence model for Submission
type SubmissionModel struct {
	AggregateModel
	SupplierID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RequestID      *uuid.UUID      `gorm:"type:uuid;index"`
	Items          string          `gorm:"type:text;not null;default:'[]'"`
	Notes          string          `gorm:"type:text"`
	SupplierAmount decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Status         string          `gorm:"type:varchar(20);not null;index"`
	PaidAmount     decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	DecidedAt      *time.Time
}

// TableName returns the table name for GORM
func (SubmissionModel) TableName() string {
	return "submissions"
}

// ToDomain converts the persistence model to a domain Submission
func (m *SubmissionModel) ToDomain() (*supplier.Submission, error) {
	items, err := decodeJSON[supplier.SubmissionItem](m.Items)
	if err != nil {
		return nil, err
	}
	return &supplier.Submission{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		SupplierID:        m.SupplierID,
		RequestID:         m.RequestID,
		Items:             items,
		Notes:             m.Notes,
		SupplierAmount:    m.SupplierAmount,
		Status:            supplier.SubmissionStatus(m.Status),
		PaidAmount:        m.PaidAmount,
		DecidedAt:         m.DecidedAt,
	}, nil
}

// SubmissionModelFromDomain creates a persistence model from a domain Submission
func SubmissionModelFromDomain(s *supplier.Submission) (*SubmissionModel, error) {
	items, err := encodeJSON(s.Items)
	if err != nil {
		return nil, err
	}
	m := &SubmissionModel{
		SupplierID:     s.SupplierID,
		RequestID:      s.RequestID,
		Items:          items,
		Notes:          s.Notes,
		SupplierAmount: s.SupplierAmount,
		Status:         string(s.Status),
		PaidAmount:     s.PaidAmount,
		DecidedAt:      s.DecidedAt,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m, nil
}

// RatingModel is the persistence model for Rating
type RatingModel struct {
	BaseModel
	SupplierID uuid.UUID `gorm:"type:uuid;not null;index"`
	Score      int       `gorm:"not null"`
	Comment    string    `gorm:"type:text"`
	RatedBy    string    `gorm:"type:varchar(254)"`
}

// TableName returns the table name for GORM
func (RatingModel) TableName() string {
	return "supplier_ratings"
}

// ToDomain converts the persistence model to a domain Rating
func (m *RatingModel) ToDomain() *supplier.Rating {
	return &supplier.Rating{
		BaseEntity: shared.BaseEntity{ID: m.ID, CreatedAt: m.CreatedAt, UpdatedAt: m.UpdatedAt},
		SupplierID: m.SupplierID,
		Score:      m.Score,
		Comment:    m.Comment,
		RatedBy:    m.RatedBy,
	}
}

// RatingModelFromDomain creates a persistence model from a domain Rating
func RatingModelFromDomain(r *supplier.Rating) *RatingModel {
	m := &RatingModel{
		SupplierID: r.SupplierID,
		Score:      r.Score,
		Comment:    r.Comment,
		RatedBy:    r.RatedBy,
	}
	m.FromDomainBaseEntity(r.BaseEntity)
	return m
}
