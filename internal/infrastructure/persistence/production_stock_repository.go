package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionStockRepository implements ProductionStockRepository using GORM
type GormProductionStockRepository struct {
	db *gorm.DB
}

// NewGormProductionStockRepository creates a new GormProductionStockRepository
func NewGormProductionStockRepository(db *gorm.DB) *GormProductionStockRepository {
	return &GormProductionStockRepository{db: db}
}

// FindByID finds a production stock entry by its ID
func (r *GormProductionStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionStockEntry, error) {
	var m models.ProductionStockModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// FindAll lists production stock entries matching the filter
func (r *GormProductionStockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.ProductionStockEntry, error) {
	var ms []models.ProductionStockModel
	query := applyPage(r.filtered(ctx, filter), filter, ProductionStockSortFields, "created_at")
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*inventory.ProductionStockEntry, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out, nil
}

// Count counts production stock entries matching the filter
func (r *GormProductionStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a production stock entry; the log is last-write-wins
func (r *GormProductionStockRepository) Save(ctx context.Context, entry *inventory.ProductionStockEntry) error {
	return translateError(r.db.WithContext(ctx).Save(models.ProductionStockModelFromDomain(entry)).Error)
}

// Delete removes a production stock entry
func (r *GormProductionStockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductionStockModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductionStockRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductionStockModel{})
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(request_no) LIKE ? ESCAPE '\\' OR LOWER(material) LIKE ? ESCAPE '\\'", p, p)
	}
	return query
}

// Ensure GormProductionStockRepository implements ProductionStockRepository
var _ inventory.ProductionStockRepository = (*GormProductionStockRepository)(nil)
