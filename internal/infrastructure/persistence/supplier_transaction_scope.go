package persistence

import (
	"context"

	appsup "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"gorm.io/gorm"
)

// GormSupplierTransactionScope implements the supplier TransactionScope using GORM transactions.
type GormSupplierTransactionScope struct {
	db *gorm.DB
}

// NewGormSupplierTransactionScope creates a new GormSupplierTransactionScope.
func NewGormSupplierTransactionScope(db *gorm.DB) *GormSupplierTransactionScope {
	return &GormSupplierTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
func (s *GormSupplierTransactionScope) Execute(ctx context.Context, fn func(repos appsup.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormSupplierRepositories{tx: tx})
	})
}

type gormSupplierRepositories struct {
	tx *gorm.DB
}

// SupplierRepo returns the supplier repository scoped to the current transaction.
func (r *gormSupplierRepositories) SupplierRepo() supplier.SupplierRepository {
	return NewGormSupplierRepository(r.tx)
}

// SubmissionRepo returns the submission repository scoped to the current transaction.
func (r *gormSupplierRepositories) SubmissionRepo() supplier.SubmissionRepository {
	return NewGormSubmissionRepository(r.tx)
}

// RatingRepo returns the rating repository scoped to the current transaction.
func (r *gormSupplierRepositories) RatingRepo() supplier.RatingRepository {
	return NewGormRatingRepository(r.tx)
}

// MaterialRequestRepo returns the material request repository scoped to the current transaction.
func (r *gormSupplierRepositories) MaterialRequestRepo() supplier.MaterialRequestRepository {
	return NewGormMaterialRequestRepository(r.tx)
}

var _ appsup.TransactionScope = (*GormSupplierTransactionScope)(nil)
var _ appsup.TransactionalRepositories = (*gormSupplierRepositories)(nil)
