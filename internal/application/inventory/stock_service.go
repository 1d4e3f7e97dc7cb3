package inventory

import (
	"context"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/shopspring/decimal"
)

// StockService derives material stock from batches and their statuses.
// Stock is recomputed on every call and never cached.
type StockService struct {
	batchRepo  inventory.BatchRepository
	statusRepo inventory.BatchStatusRepository
	now        func() time.Time
}

// NewStockService creates a new StockService
func NewStockService(batchRepo inventory.BatchRepository, statusRepo inventory.BatchStatusRepository) *StockService {
	return &StockService{
		batchRepo:  batchRepo,
		statusRepo: statusRepo,
		now:        time.Now,
	}
}

// SetClock overrides the time source
func (s *StockService) SetClock(now func() time.Time) {
	s.now = now
}

// MaterialStocks returns the available quantity per material
func (s *StockService) MaterialStocks(ctx context.Context, q MaterialStocksQuery) ([]inventory.MaterialStock, error) {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, err
	}
	return inventory.AggregateMaterialStock(stocks, inventory.StockQuery{
		ExcludeExpired: q.ExcludeExpired,
		Now:            s.now(),
	}), nil
}

// AvailableQuantity returns the non-deleted remaining quantity of one material.
// An unknown material has zero stock.
func (s *StockService) AvailableQuantity(ctx context.Context, material string, excludeExpired bool) (*AvailableQuantityResponse, error) {
	batches, err := s.batchRepo.FindByMaterial(ctx, material)
	if err != nil {
		return nil, err
	}
	resp := &AvailableQuantityResponse{Material: material, Available: decimal.Zero}
	if len(batches) == 0 {
		return resp, nil
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, err
	}
	resp.Available = inventory.AvailableQuantity(stocks, material, inventory.StockQuery{
		ExcludeExpired: excludeExpired,
		Now:            s.now(),
	})
	return resp, nil
}
