package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/config"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	identity.PasswordCost = bcrypt.MinCost
}

// newTestDB opens an in-memory SQLite database with the full schema
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, zap.NewNop(), gormlogger.Silent, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.DB.AutoMigrate(models.All()...))
	return db.DB
}

func newTestBatch(t *testing.T, product string, number int, qty string, expiry time.Time) *inventory.Batch {
	t.Helper()
	b, err := inventory.NewBatch(product, number, decimal.RequireFromString(qty), "kg", "Lanka Spices", time.Now().Add(-24*time.Hour), expiry)
	require.NoError(t, err)
	return b
}

func TestGormBatchRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBatchRepository(newTestDB(t))

	soon := time.Now().AddDate(0, 0, 3).Truncate(24 * time.Hour)
	later := time.Now().AddDate(0, 1, 0).Truncate(24 * time.Hour)

	b1 := newTestBatch(t, "Cinnamon", 101, "25.5", later)
	b2 := newTestBatch(t, " cinnamon ", 102, "10", soon)
	b3 := newTestBatch(t, "Pepper", 103, "8", soon)
	for _, b := range []*inventory.Batch{b1, b2, b3} {
		require.NoError(t, repo.Save(ctx, b))
		assert.Equal(t, 1, b.Version)
	}

	found, err := repo.FindByBatchNumber(ctx, 101)
	require.NoError(t, err)
	assert.Equal(t, b1.ID, found.ID)
	assert.True(t, decimal.RequireFromString("25.5").Equal(found.Quantity))
	assert.Equal(t, "kg", found.Unit)

	t.Run("material lookup is case insensitive and expiry ordered", func(t *testing.T) {
		batches, err := repo.FindByMaterial(ctx, "CINNAMON")
		require.NoError(t, err)
		require.Len(t, batches, 2)
		assert.Equal(t, 102, batches[0].BatchNumber)
		assert.Equal(t, 101, batches[1].BatchNumber)
	})

	t.Run("search filter", func(t *testing.T) {
		filter := shared.DefaultFilter()
		filter.Search = "pep"
		batches, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, batches, 1)
		assert.Equal(t, 103, batches[0].BatchNumber)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("missing batch", func(t *testing.T) {
		_, err := repo.FindByBatchNumber(ctx, 999)
		assert.ErrorIs(t, err, shared.ErrNotFound)

		exists, err := repo.ExistsByBatchNumber(ctx, 999)
		require.NoError(t, err)
		assert.False(t, exists)
	})
}

func TestGormBatchRepository_DuplicateBatchNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBatchRepository(newTestDB(t))
	expiry := time.Now().AddDate(0, 0, 10)

	require.NoError(t, repo.Save(ctx, newTestBatch(t, "Clove", 7, "1", expiry)))
	err := repo.Save(ctx, newTestBatch(t, "Nutmeg", 7, "1", expiry))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormBatchRepository_OptimisticLocking(t *testing.T) {
	ctx := context.Background()
	repo := NewGormBatchRepository(newTestDB(t))
	b := newTestBatch(t, "Cardamom", 11, "4", time.Now().AddDate(0, 0, 30))
	require.NoError(t, repo.Save(ctx, b))

	first, err := repo.FindByBatchNumber(ctx, 11)
	require.NoError(t, err)
	second, err := repo.FindByBatchNumber(ctx, 11)
	require.NoError(t, err)

	require.NoError(t, first.UpdateDetails("Green Cardamom", "kg", "Lanka Spices", first.ExpiryDate))
	require.NoError(t, repo.Save(ctx, first))
	assert.Equal(t, 2, first.Version)

	require.NoError(t, second.UpdateDetails("Black Cardamom", "kg", "Lanka Spices", second.ExpiryDate))
	assert.ErrorIs(t, repo.Save(ctx, second), shared.ErrConcurrencyConflict)

	stored, err := repo.FindByID(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "Green Cardamom", stored.ProductName)
}

func TestGormBatchRepository_Delete(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := NewGormBatchRepository(db)
	statuses := NewGormBatchStatusRepository(db)

	b := newTestBatch(t, "Ginger", 21, "5", time.Now().AddDate(0, 0, 30))
	require.NoError(t, repo.Save(ctx, b))
	status := inventory.DefaultBatchStatus(b.ID)
	require.NoError(t, statuses.Save(ctx, status))

	require.NoError(t, repo.Delete(ctx, b.ID))
	assert.ErrorIs(t, repo.Delete(ctx, b.ID), shared.ErrNotFound)

	after, err := statuses.FindOrDefault(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, after.IsNew())
}

func TestGormBatchStatusRepository_Save(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	batches := NewGormBatchRepository(db)
	repo := NewGormBatchStatusRepository(db)

	b := newTestBatch(t, "Turmeric", 31, "10", time.Now().AddDate(0, 0, 30))
	require.NoError(t, batches.Save(ctx, b))

	status, err := repo.FindOrDefault(ctx, b.ID)
	require.NoError(t, err)
	assert.True(t, status.IsNew())
	assert.True(t, status.UsedQuantity.IsZero())

	require.NoError(t, status.Consume(b, decimal.NewFromInt(4), "production"))
	require.NoError(t, repo.Save(ctx, status))
	assert.Equal(t, 1, status.Version)

	t.Run("racing first insert conflicts", func(t *testing.T) {
		dup := inventory.DefaultBatchStatus(b.ID)
		assert.ErrorIs(t, repo.Save(ctx, dup), shared.ErrConcurrencyConflict)
	})

	t.Run("stale update conflicts", func(t *testing.T) {
		stale, err := repo.FindOrDefault(ctx, b.ID)
		require.NoError(t, err)

		require.NoError(t, status.Consume(b, decimal.NewFromInt(1), "production"))
		require.NoError(t, repo.Save(ctx, status))
		assert.Equal(t, 2, status.Version)

		require.NoError(t, stale.Consume(b, decimal.NewFromInt(6), "production"))
		assert.ErrorIs(t, repo.Save(ctx, stale), shared.ErrConcurrencyConflict)
	})

	many, err := repo.FindOrDefaultMany(ctx, []uuid.UUID{b.ID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, many, 2)
	assert.True(t, decimal.NewFromInt(5).Equal(many[b.ID].UsedQuantity))
}

func TestGormSupplierRepository_EmailLookup(t *testing.T) {
	ctx := context.Background()
	repo := NewGormSupplierRepository(newTestDB(t))

	sup, err := supplier.NewSupplier(supplier.Profile{Name: "Lanka Spices", Company: "LS Ltd"}, "sales@lankaspices.lk", "secret123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sup))

	found, err := repo.FindByEmail(ctx, " Sales@LankaSpices.lk ")
	require.NoError(t, err)
	assert.Equal(t, sup.ID, found.ID)
	assert.True(t, found.Verify("secret123"))

	exists, err := repo.ExistsByEmail(ctx, "sales@lankaspices.lk")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByEmail(ctx, "not-an-email")
	assert.ErrorIs(t, err, shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, sup.ID))
	_, err = repo.FindByID(ctx, sup.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormAdminRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormAdminRepository(newTestDB(t))

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	admin, err := identity.NewAdmin("Ops", "admin@system.local", "admin123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))

	found, err := repo.FindByEmail(ctx, "admin@system.local")
	require.NoError(t, err)
	assert.Equal(t, "Ops", found.Name)

	count, err = repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGormSubmissionRepository_MarkAccepted(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	suppliers := NewGormSupplierRepository(db)
	repo := NewGormSubmissionRepository(db)

	sup, err := supplier.NewSupplier(supplier.Profile{Name: "Lanka Spices"}, "sales@lankaspices.lk", "secret123")
	require.NoError(t, err)
	require.NoError(t, suppliers.Save(ctx, sup))

	sub, err := supplier.NewSubmission(sup.ID, nil, []supplier.SubmissionItem{
		{Name: "Cinnamon", Qty: decimal.NewFromInt(10), Price: decimal.NewFromInt(50)},
	}, "first harvest", decimal.Zero)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, sub))

	stored, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	require.Len(t, stored.Items, 1)
	assert.Equal(t, "Cinnamon", stored.Items[0].Name)
	assert.True(t, decimal.NewFromInt(500).Equal(stored.SupplierAmount))

	require.NoError(t, sub.Accept(decimal.NewFromInt(450)))
	ok, err := repo.MarkAccepted(ctx, sub)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.MarkAccepted(ctx, stored)
	require.NoError(t, err)
	assert.False(t, ok)

	accepted, err := repo.FindByID(ctx, sub.ID)
	require.NoError(t, err)
	assert.Equal(t, supplier.SubmissionAccepted, accepted.Status)
	assert.True(t, decimal.NewFromInt(450).Equal(accepted.PaidAmount))

	bySupplier, err := repo.FindBySuppliers(ctx, []uuid.UUID{sup.ID})
	require.NoError(t, err)
	assert.Len(t, bySupplier[sup.ID], 1)
}
