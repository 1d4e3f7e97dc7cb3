package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormBatchRepository implements BatchRepository using GORM
type GormBatchRepository struct {
	db *gorm.DB
}

// NewGormBatchRepository creates a new GormBatchRepository
func NewGormBatchRepository(db *gorm.DB) *GormBatchRepository {
	return &GormBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Batch, error) {
	var m models.BatchModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindByBatchNumber finds a batch by its batch number
func (r *GormBatchRepository) FindByBatchNumber(ctx context.Context, batchNumber int) (*inventory.Batch, error) {
	var m models.BatchModel
	if err := r.db.WithContext(ctx).First(&m, "batch_number = ?", batchNumber).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists batches matching the filter
func (r *GormBatchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.Batch, error) {
	var ms []models.BatchModel
	query := applyPage(r.filtered(ctx, filter), filter, BatchSortFields, "created_at")
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return batchesToDomain(ms), nil
}

// Count counts batches matching the filter
func (r *GormBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindByMaterial returns every batch of a material, oldest expiry first
func (r *GormBatchRepository) FindByMaterial(ctx context.Context, material string) ([]*inventory.Batch, error) {
	var ms []models.BatchModel
	if err := r.db.WithContext(ctx).
		Where("material_key = ?", inventory.NormalizeMaterialName(material)).
		Order("expiry_date ASC, received_at ASC, batch_number ASC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return batchesToDomain(ms), nil
}

// ListAll returns every batch ordered by batch number
func (r *GormBatchRepository) ListAll(ctx context.Context) ([]*inventory.Batch, error) {
	var ms []models.BatchModel
	if err := r.db.WithContext(ctx).Order("batch_number ASC").Find(&ms).Error; err != nil {
		return nil, err
	}
	return batchesToDomain(ms), nil
}

// ExistsByBatchNumber checks whether a batch number is taken
func (r *GormBatchRepository) ExistsByBatchNumber(ctx context.Context, batchNumber int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.BatchModel{}).
		Where("batch_number = ?", batchNumber).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a batch with an optimistic version check
func (r *GormBatchRepository) Save(ctx context.Context, batch *inventory.Batch) error {
	m := models.BatchModelFromDomain(batch)
	version, err := saveVersioned(ctx, r.db, m, m.ID, m.Version, func(v int) { m.Version = v })
	if err != nil {
		return err
	}
	batch.Version = version
	return nil
}

// Delete removes a batch and its status row
func (r *GormBatchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.db.WithContext(ctx)
	if err := db.Delete(&models.BatchStatusModel{}, "batch_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&models.BatchModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormBatchRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.BatchModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(product_name) LIKE ? ESCAPE '\\' OR LOWER(supplier_name) LIKE ? ESCAPE '\\'", p, p)
	}
	if material, ok := filter.Filters["material"].(string); ok && material != "" {
		query = query.Where("material_key = ?", inventory.NormalizeMaterialName(material))
	}
	return query
}

func batchesToDomain(ms []models.BatchModel) []*inventory.Batch {
	out := make([]*inventory.Batch, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out
}

// Ensure GormBatchRepository implements BatchRepository
var _ inventory.BatchRepository = (*GormBatchRepository)(nil)
