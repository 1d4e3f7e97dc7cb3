package persistence

import (
	"context"
	"errors"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchStatusRepository implements BatchStatusRepository using GORM
type GormBatchStatusRepository struct {
	db *gorm.DB
}

// NewGormBatchStatusRepository creates a new GormBatchStatusRepository
func NewGormBatchStatusRepository(db *gorm.DB) *GormBatchStatusRepository {
	return &GormBatchStatusRepository{db: db}
}

// FindAll returns every stored status
func (r *GormBatchStatusRepository) FindAll(ctx context.Context) ([]*inventory.BatchStatus, error) {
	var ms []models.BatchStatusModel
	if err := r.db.WithContext(ctx).Order("updated_at DESC").Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*inventory.BatchStatus, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out, nil
}

// FindOrDefault returns the stored status or the default one for batchID
func (r *GormBatchStatusRepository) FindOrDefault(ctx context.Context, batchID uuid.UUID) (*inventory.BatchStatus, error) {
	var m models.BatchStatusModel
	err := r.db.WithContext(ctx).First(&m, "batch_id = ?", batchID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return inventory.DefaultBatchStatus(batchID), nil
	}
	if err != nil {
		return nil, err
	}
	return m.ToDomain(), nil
}

// FindOrDefaultMany resolves a status for every id in batchIDs
func (r *GormBatchStatusRepository) FindOrDefaultMany(ctx context.Context, batchIDs []uuid.UUID) (map[uuid.UUID]*inventory.BatchStatus, error) {
	out := make(map[uuid.UUID]*inventory.BatchStatus, len(batchIDs))
	if len(batchIDs) == 0 {
		return out, nil
	}
	var ms []models.BatchStatusModel
	if err := r.db.WithContext(ctx).Where("batch_id IN ?", batchIDs).Find(&ms).Error; err != nil {
		return nil, err
	}
	for i := range ms {
		out[ms[i].BatchID] = ms[i].ToDomain()
	}
	for _, id := range batchIDs {
		if _, ok := out[id]; !ok {
			out[id] = inventory.DefaultBatchStatus(id)
		}
	}
	return out, nil
}

// Save inserts a new status or updates a stored one when its version still
// matches. Two writers racing on a batch's first status collide on the
// primary key; both cases surface as shared.ErrConcurrencyConflict.
func (r *GormBatchStatusRepository) Save(ctx context.Context, status *inventory.BatchStatus) error {
	db := r.db.WithContext(ctx)
	m := models.BatchStatusModelFromDomain(status)

	if status.IsNew() {
		m.Version = 1
		if err := db.Create(m).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return shared.ErrConcurrencyConflict
			}
			return err
		}
		status.Version = 1
		return nil
	}

	res := db.Model(&models.BatchStatusModel{}).
		Where("batch_id = ? AND version = ?", status.BatchID, status.Version).
		Updates(map[string]any{
			"used_quantity": status.UsedQuantity,
			"is_deleted":    status.IsDeleted,
			"updated_at":    status.UpdatedAt,
			"version":       gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	status.Version++
	return nil
}

// Delete removes the status of a batch; a missing row is not an error
func (r *GormBatchStatusRepository) Delete(ctx context.Context, batchID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.BatchStatusModel{}, "batch_id = ?", batchID).Error
}

// Ensure GormBatchStatusRepository implements BatchStatusRepository
var _ inventory.BatchStatusRepository = (*GormBatchStatusRepository)(nil)
