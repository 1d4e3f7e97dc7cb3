package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAdminRepository implements AdminRepository using GORM
type GormAdminRepository struct {
	db *gorm.DB
}

// NewGormAdminRepository creates a new GormAdminRepository
func NewGormAdminRepository(db *gorm.DB) *GormAdminRepository {
	return &GormAdminRepository{db: db}
}

// FindByEmail finds an admin by login email
func (r *GormAdminRepository) FindByEmail(ctx context.Context, email string) (*identity.Admin, error) {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return nil, shared.ErrNotFound
	}
	var m models.AdminModel
	if err := r.db.WithContext(ctx).First(&m, "email = ?", normalized).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain(), nil
}

// ExistsByEmail checks whether an email is registered
func (r *GormAdminRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return false, nil
	}
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminModel{}).
		Where("email = ?", normalized).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Count returns the number of admins
func (r *GormAdminRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an admin with an optimistic version check
func (r *GormAdminRepository) Save(ctx context.Context, admin *identity.Admin) error {
	m := models.AdminModelFromDomain(admin)
	version, err := saveVersioned(ctx, r.db, m, m.ID, m.Version, func(v int) { m.Version = v })
	if err != nil {
		return err
	}
	admin.Version = version
	return nil
}

// Ensure GormAdminRepository implements AdminRepository
var _ identity.AdminRepository = (*GormAdminRepository)(nil)
