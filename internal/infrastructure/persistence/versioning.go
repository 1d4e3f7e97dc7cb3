package persistence

import (
	"context"
	"errors"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// saveVersioned writes an aggregate row with an optimistic version check.
// When a row with id and the expected version exists it is updated and its
// version bumped; when no row with id exists the model is inserted as is.
// Any other outcome means a concurrent writer won. setVersion keeps the
// model's Version field in step; the stored version is returned.
func saveVersioned(ctx context.Context, db *gorm.DB, model any, id uuid.UUID, expected int, setVersion func(int)) (int, error) {
	db = db.WithContext(ctx)

	setVersion(expected + 1)
	res := db.Model(model).
		Where("id = ? AND version = ?", id, expected).
		Select("*").Omit("id", "created_at").
		Updates(model)
	if res.Error != nil {
		setVersion(expected)
		return 0, translateError(res.Error)
	}
	if res.RowsAffected > 0 {
		return expected + 1, nil
	}

	setVersion(expected)
	var count int64
	if err := db.Model(model).Where("id = ?", id).Count(&count).Error; err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, shared.ErrConcurrencyConflict
	}
	if err := db.Create(model).Error; err != nil {
		return 0, translateError(err)
	}
	return expected, nil
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	default:
		return err
	}
}
