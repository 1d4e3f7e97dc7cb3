package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormMaterialRequestRepository implements MaterialRequestRepository using GORM
type GormMaterialRequestRepository struct {
	db *gorm.DB
}

// NewGormMaterialRequestRepository creates a new GormMaterialRequestRepository
func NewGormMaterialRequestRepository(db *gorm.DB) *GormMaterialRequestRepository {
	return &GormMaterialRequestRepository{db: db}
}

// FindByID finds a material request by its ID
func (r *GormMaterialRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplier.MaterialRequest, error) {
	var m models.MaterialRequestModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain()
}

// FindAll lists material requests matching the filter
func (r *GormMaterialRequestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*supplier.MaterialRequest, error) {
	var ms []models.MaterialRequestModel
	query := applyPage(r.filtered(ctx, filter), filter, MaterialRequestSortFields, "created_at")
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*supplier.MaterialRequest, 0, len(ms))
	for i := range ms {
		req, err := ms[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, nil
}

// Count counts material requests matching the filter
func (r *GormMaterialRequestRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a material request with an optimistic version check
func (r *GormMaterialRequestRepository) Save(ctx context.Context, req *supplier.MaterialRequest) error {
	m, err := models.MaterialRequestModelFromDomain(req)
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

// Delete removes a material request
func (r *GormMaterialRequestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.MaterialRequestModel{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *GormMaterialRequestRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.MaterialRequestModel{})
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if filter.Search != "" {
		query = query.Where("LOWER(title) LIKE ? ESCAPE '\\'", searchPattern(filter.Search))
	}
	return query
}

// Ensure GormMaterialRequestRepository implements MaterialRequestRepository
var _ supplier.MaterialRequestRepository = (*GormMaterialRequestRepository)(nil)
