package persistence

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSubmissionRepository implements SubmissionRepository using GORM
type GormSubmissionRepository struct {
	db *gorm.DB
}

// NewGormSubmissionRepository creates a new GormSubmissionRepository
func NewGormSubmissionRepository(db *gorm.DB) *GormSubmissionRepository {
	return &GormSubmissionRepository{db: db}
}

// FindByID finds a submission by its ID
func (r *GormSubmissionRepository) FindByID(ctx context.Context, id uuid.UUID) (*supplier.Submission, error) {
	var m models.SubmissionModel
	if err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return m.ToDomain()
}

// FindAll lists submissions matching the filter
func (r *GormSubmissionRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*supplier.Submission, error) {
	var ms []models.SubmissionModel
	query := applyPage(r.filtered(ctx, filter), filter, SubmissionSortFields, "created_at")
	if err := query.Find(&ms).Error; err != nil {
		return nil, err
	}
	return submissionsToDomain(ms)
}

// Count counts submissions matching the filter
func (r *GormSubmissionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	if err := r.filtered(ctx, filter).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// FindBySupplier returns a supplier's submissions, newest first
func (r *GormSubmissionRepository) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*supplier.Submission, error) {
	var ms []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Where("supplier_id = ?", supplierID).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	return submissionsToDomain(ms)
}

// FindBySuppliers groups the submissions of several suppliers in one query
func (r *GormSubmissionRepository) FindBySuppliers(ctx context.Context, supplierIDs []uuid.UUID) (map[uuid.UUID][]*supplier.Submission, error) {
	out := make(map[uuid.UUID][]*supplier.Submission, len(supplierIDs))
	if len(supplierIDs) == 0 {
		return out, nil
	}
	var ms []models.SubmissionModel
	if err := r.db.WithContext(ctx).
		Where("supplier_id IN ?", supplierIDs).
		Order("created_at DESC").
		Find(&ms).Error; err != nil {
		return nil, err
	}
	subs, err := submissionsToDomain(ms)
	if err != nil {
		return nil, err
	}
	for _, s := range subs {
		out[s.SupplierID] = append(out[s.SupplierID], s)
	}
	return out, nil
}

// Save creates or updates a submission with an optimistic version check
func (r *GormSubmissionRepository) Save(ctx context.Context, s *supplier.Submission) error {
	m, err := models.SubmissionModelFromDomain(s)
	if err != nil {
		return err
	}
	version, err := saveVersioned(ctx, r.db, m, m.ID, m.Version, func(v int) { m.Version = v })
	if err != nil {
		return err
	}
	s.Version = version
	return nil
}

// MarkAccepted moves a submission to accepted unless it already is.
// It returns false when another writer accepted it first.
func (r *GormSubmissionRepository) MarkAccepted(ctx context.Context, s *supplier.Submission) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.SubmissionModel{}).
		Where("id = ? AND status <> ?", s.ID, string(supplier.SubmissionAccepted)).
		Updates(map[string]any{
			"status":      string(supplier.SubmissionAccepted),
			"paid_amount": s.PaidAmount,
			"decided_at":  s.DecidedAt,
			"updated_at":  s.UpdatedAt,
			"version":     gorm.Expr("version + 1"),
		})
	if res.Error != nil {
		return false, res.Error
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	s.Version++
	return true, nil
}

// DeleteBySupplier removes all submissions of a supplier
func (r *GormSubmissionRepository) DeleteBySupplier(ctx context.Context, supplierID uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&models.SubmissionModel{}, "supplier_id = ?", supplierID).Error
}

func (r *GormSubmissionRepository) filtered(ctx context.Context, filter shared.Filter) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&models.SubmissionModel{})
	if status, ok := filter.Filters["status"]; ok && status != "" {
		query = query.Where("status = ?", status)
	}
	if id, ok := filter.Filters["supplier_id"]; ok {
		query = query.Where("supplier_id = ?", id)
	}
	if id, ok := filter.Filters["request_id"]; ok {
		query = query.Where("request_id = ?", id)
	}
	return query
}

func submissionsToDomain(ms []models.SubmissionModel) ([]*supplier.Submission, error) {
	out := make([]*supplier.Submission, 0, len(ms))
	for i := range ms {
		s, err := ms[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Ensure GormSubmissionRepository implements SubmissionRepository
var _ supplier.SubmissionRepository = (*GormSubmissionRepository)(nil)
