package persistence

import (
	"context"

	appinv "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"gorm.io/gorm"
)

// GormInventoryTransactionScope implements the inventory TransactionScope using GORM transactions.
type GormInventoryTransactionScope struct {
	db *gorm.DB
}

// NewGormInventoryTransactionScope creates a new GormInventoryTransactionScope.
func NewGormInventoryTransactionScope(db *gorm.DB) *GormInventoryTransactionScope {
	return &GormInventoryTransactionScope{db: db}
}

// Execute runs fn within a database transaction.
// If fn returns an error, the transaction is rolled back.
func (s *GormInventoryTransactionScope) Execute(ctx context.Context, fn func(repos appinv.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormInventoryRepositories{tx: tx})
	})
}

// gormInventoryRepositories builds repositories bound to one transaction.
type gormInventoryRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the batch repository scoped to the current transaction.
func (r *gormInventoryRepositories) BatchRepo() inventory.BatchRepository {
	return NewGormBatchRepository(r.tx)
}

// StatusRepo returns the batch status repository scoped to the current transaction.
func (r *gormInventoryRepositories) StatusRepo() inventory.BatchStatusRepository {
	return NewGormBatchStatusRepository(r.tx)
}

// RequestRepo returns the production request repository scoped to the current transaction.
func (r *gormInventoryRepositories) RequestRepo() inventory.ProductionRequestRepository {
	return NewGormProductionRequestRepository(r.tx)
}

// ProductionStockRepo returns the production stock repository scoped to the current transaction.
func (r *gormInventoryRepositories) ProductionStockRepo() inventory.ProductionStockRepository {
	return NewGormProductionStockRepository(r.tx)
}

var _ appinv.TransactionScope = (*GormInventoryTransactionScope)(nil)
var _ appinv.TransactionalRepositories = (*gormInventoryRepositories)(nil)
