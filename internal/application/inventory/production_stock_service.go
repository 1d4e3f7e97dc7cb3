package inventory

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductionStockService manages production's log of material requests it sent
type ProductionStockService struct {
	stockRepo inventory.ProductionStockRepository
}

// NewProductionStockService creates a new ProductionStockService
func NewProductionStockService(stockRepo inventory.ProductionStockRepository) *ProductionStockService {
	return &ProductionStockService{stockRepo: stockRepo}
}

// Create adds a log entry
func (s *ProductionStockService) Create(ctx context.Context, in ProductionRequestInput) (*ProductionStockResponse, error) {
	entry, err := inventory.NewProductionStockEntry(in.details())
	if err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToProductionStockResponse(entry)
	return &resp, nil
}

// GetByID returns one log entry
func (s *ProductionStockService) GetByID(ctx context.Context, id uuid.UUID) (*ProductionStockResponse, error) {
	entry, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductionStockResponse(entry)
	return &resp, nil
}

// List returns a page of log entries and the total count
func (s *ProductionStockService) List(ctx context.Context, search string, page, pageSize int) ([]ProductionStockResponse, int64, error) {
	f := shared.Filter{
		Page:     page,
		PageSize: clampPageSize(pageSize),
		Search:   search,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	entries, err := s.stockRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.stockRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductionStockResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToProductionStockResponse(e))
	}
	return out, total, nil
}

// Update replaces an entry's fields
func (s *ProductionStockService) Update(ctx context.Context, id uuid.UUID, in ProductionRequestInput) (*ProductionStockResponse, error) {
	entry, err := s.stockRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := entry.Update(in.details()); err != nil {
		return nil, err
	}
	if err := s.stockRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	resp := ToProductionStockResponse(entry)
	return &resp, nil
}

// Delete removes an entry
func (s *ProductionStockService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.stockRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.stockRepo.Delete(ctx, id)
}
