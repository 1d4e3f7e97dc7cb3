package inventory

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// BatchRepository persists batches
type BatchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Batch, error)
	FindByBatchNumber(ctx context.Context, batchNumber int) (*Batch, error)
	// FindAll supports Search over product and supplier names
	FindAll(ctx context.Context, filter shared.Filter) ([]*Batch, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// FindByMaterial matches the normalized product name
	FindByMaterial(ctx context.Context, material string) ([]*Batch, error)
	ListAll(ctx context.Context) ([]*Batch, error)
	ExistsByBatchNumber(ctx context.Context, batchNumber int) (bool, error)
	Save(ctx context.Context, batch *Batch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BatchStatusRepository persists batch statuses. Lookups never report a
// missing status as an error; they resolve it to DefaultBatchStatus.
type BatchStatusRepository interface {
	FindAll(ctx context.Context) ([]*BatchStatus, error)
	FindOrDefault(ctx context.Context, batchID uuid.UUID) (*BatchStatus, error)
	FindOrDefaultMany(ctx context.Context, batchIDs []uuid.UUID) (map[uuid.UUID]*BatchStatus, error)
	// Save inserts a new status or updates a stored one when its version
	// still matches, returning shared.ErrConcurrencyConflict otherwise.
	Save(ctx context.Context, status *BatchStatus) error
	Delete(ctx context.Context, batchID uuid.UUID) error
}

// ProductionRequestRepository persists production requests
type ProductionRequestRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionRequest, error)
	// FindAll supports Filters["status"] and Search over request number and material
	FindAll(ctx context.Context, filter shared.Filter) ([]*ProductionRequest, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	// Save is version-checked for existing requests
	Save(ctx context.Context, req *ProductionRequest) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ProductionStockRepository persists production's request log
type ProductionStockRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*ProductionStockEntry, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]*ProductionStockEntry, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, entry *ProductionStockEntry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
