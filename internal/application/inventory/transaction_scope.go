package inventory

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
)

// TransactionScope provides transactional access to inventory repositories.
// All repository operations inside fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to inventory repositories within a transaction.
// All repositories returned share the same underlying database transaction.
//
// Notes:
//   - BatchRepo is read-mostly inside a transaction; batch quantities never change.
//   - StatusRepo writes are version-checked, so a concurrent deduction against the
//     same batch makes one of the transactions fail with a concurrency conflict.
type TransactionalRepositories interface {
	BatchRepo() inventory.BatchRepository
	StatusRepo() inventory.BatchStatusRepository
	RequestRepo() inventory.ProductionRequestRepository
	ProductionStockRepo() inventory.ProductionStockRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	batchRepo   inventory.BatchRepository
	statusRepo  inventory.BatchStatusRepository
	requestRepo inventory.ProductionRequestRepository
	stockRepo   inventory.ProductionStockRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	batchRepo inventory.BatchRepository,
	statusRepo inventory.BatchStatusRepository,
	requestRepo inventory.ProductionRequestRepository,
	stockRepo inventory.ProductionStockRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:   batchRepo,
		statusRepo:  statusRepo,
		requestRepo: requestRepo,
		stockRepo:   stockRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() inventory.BatchRepository {
	return s.batchRepo
}

// StatusRepo returns the batch status repository.
func (s *NoOpTransactionScope) StatusRepo() inventory.BatchStatusRepository {
	return s.statusRepo
}

// RequestRepo returns the production request repository.
func (s *NoOpTransactionScope) RequestRepo() inventory.ProductionRequestRepository {
	return s.requestRepo
}

// ProductionStockRepo returns the production stock repository.
func (s *NoOpTransactionScope) ProductionStockRepo() inventory.ProductionStockRepository {
	return s.stockRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
