package supplier

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SupplierRepository persists suppliers
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindByEmail(ctx context.Context, email string) (*Supplier, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*Supplier, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save is version-checked for existing suppliers
	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MaterialRequestRepository persists material requests
type MaterialRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*MaterialRequest, error)
	// FindAll supports Filters["status"]
	FindAll(ctx context.Context, filter shared.Filter) ([]*MaterialRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, r *MaterialRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SubmissionRepository persists submissions
type SubmissionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Submission, error)
	// FindAll supports Filters["status"], Filters["supplier_id"] and Filters["request_id"]
	FindAll(ctx context.Context, filter shared.Filter) ([]*Submission, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*Submission, error)
	// FindBySuppliers groups all submissions of the given suppliers
	FindBySuppliers(ctx context.Context, supplierIDs []uuid.UUID) (map[uuid.UUID][]*Submission, error)
	// Save is version-checked for existing submissions
	Save(ctx context.Context, s *Submission) error
	// MarkAccepted stores an accepted submission only if the stored row is
	// not accepted yet, reporting false when another writer got there first.
	MarkAccepted(ctx context.Context, s *Submission) (bool, error)
	DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error
}

// RatingRepository persists ratings
type RatingRepository interface {
	FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*Rating, error)
	Save(ctx context.Context, r *Rating) error
	DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error
}
