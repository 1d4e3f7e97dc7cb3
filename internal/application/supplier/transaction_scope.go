package supplier

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/supplier"
)

// TransactionScope provides transactional access to supplier repositories.
// All repository operations inside fn are committed or rolled back together.
type TransactionScope interface {
	// Execute runs fn within a database transaction.
	// If fn returns an error, the transaction is rolled back.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to supplier repositories within a transaction.
// Ledger changes on a supplier and the submission decision that caused them
// must go through the same TransactionalRepositories.
type TransactionalRepositories interface {
	SupplierRepo() supplier.SupplierRepository
	SubmissionRepo() supplier.SubmissionRepository
	RatingRepo() supplier.RatingRepository
	MaterialRequestRepo() supplier.MaterialRequestRepository
}

// NoOpTransactionScope runs functions without a real transaction.
// This is useful for testing with in-memory repositories.
type NoOpTransactionScope struct {
	supplierRepo   supplier.SupplierRepository
	submissionRepo supplier.SubmissionRepository
	ratingRepo     supplier.RatingRepository
	requestRepo    supplier.MaterialRequestRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	supplierRepo supplier.SupplierRepository,
	submissionRepo supplier.SubmissionRepository,
	ratingRepo supplier.RatingRepository,
	requestRepo supplier.MaterialRequestRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		supplierRepo:   supplierRepo,
		submissionRepo: submissionRepo,
		ratingRepo:     ratingRepo,
		requestRepo:    requestRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// SupplierRepo returns the supplier repository.
func (s *NoOpTransactionScope) SupplierRepo() supplier.SupplierRepository {
	return s.supplierRepo
}

// SubmissionRepo returns the submission repository.
func (s *NoOpTransactionScope) SubmissionRepo() supplier.SubmissionRepository {
	return s.submissionRepo
}

// RatingRepo returns the rating repository.
func (s *NoOpTransactionScope) RatingRepo() supplier.RatingRepository {
	return s.ratingRepo
}

// MaterialRequestRepo returns the material request repository.
func (s *NoOpTransactionScope) MaterialRequestRepo() supplier.MaterialRequestRepository {
	return s.requestRepo
}

var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
