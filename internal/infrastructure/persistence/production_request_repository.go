package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProductionRequestRepository implements ProductionRequestRepository using GORM
type GormProductionRequestRepository struct {
	db *gorm.DB
}

// NewGormProductionRequestRepository creates a new GormProductionRequestRepository
func NewGormProductionRequestRepository(db *gorm.DB) *GormProductionRequestRepository {
	return &GormProductionRequestRepository{db: db}
}

// FindByID finds a production request by its ID
func (r *GormProductionRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionRequest, error) {
	var m models.ProductionRequestModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain()
}

// FindAll lists production requests matching the filter
func (r *GormProductionRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.ProductionRequest, error) {
	var ms []models.ProductionRequestModel
	query := applyPage(r.filtered(ctx, filter), filter, ProductionRequestSortFields, "created_at")
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*inventory.ProductionRequest, 0, len(ms))
	for i := range ms {
		req, err := ms[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// Count counts production requests matching the filter
func (r *GormProductionRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a production request with an optimistic version check
func (r *GormProductionRequestRepository) Save(ctx context.Context, req *inventory.ProductionRequest) error {
	m, err := models.ProductionRequestModelFromDomain(req)
	if err != nil {
		return err
	}
	version, err := saveVersioned(ctx, r.db, m, m.ID, m.Version, func(v int) { m.Version = v })
	if err != nil {
		return err
	}
	req.Version = version
	return nil
}

// Delete removes a production request
func (r *GormProductionRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductionRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormProductionRequestRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.ProductionRequestModel{})
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		p := searchPattern(filter.Search)
		query = query.Where("LOWER(request_no) LIKE ? ESCAPE '\\' OR LOWER(material) LIKE ? ESCAPE '\\'", p, p)
	}
	return query
}

// Ensure GormProductionRequestRepository implements ProductionRequestRepository
var _ inventory.ProductionRequestRepository = (*GormProductionRequestRepository)(nil)
