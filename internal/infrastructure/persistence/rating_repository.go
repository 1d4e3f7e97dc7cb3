package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormRatingRepository implements RatingRepository using GORM
type GormRatingRepository struct {
	db *gorm.DB
}

// NewGormRatingRepository creates a new GormRatingRepository
func NewGormRatingRepository(db *gorm.DB) *GormRatingRepository {
	return &GormRatingRepository{db: db}
}

// FindBySupplier returns a supplier's ratings, newest first
func (r *GormRatingRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*supplier.Rating, error) {
	var ms []models.RatingModel
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	out := make([]*supplier.Rating, len(ms))
	for i := range ms {
		out[i] = ms[i].ToDomain()
	}
	return out, nil
}

// Save stores a rating; ratings are append-only
func (r *GormRatingRepository) Save(ctx context.Context, rating *supplier.Rating) error {
	return translateError(r.db.WithContext(ctx).Create(models.RatingModelFromDomain(rating)).Error)
}

// DeleteBySupplier removes all ratings of a supplier
func (r *GormRatingRepository) DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.RatingModel{}, "supplier_id = ?", supplierID).Error
}

// Ensure GormRatingRepository implements RatingRepository
var _ supplier.RatingRepository = (*GormRatingRepository)(nil)
