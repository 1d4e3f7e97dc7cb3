package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
)

const recentItems = 5

// DashboardService builds the inventory overview
type DashboardService struct {
	batchRepo   inventory.BatchRepository
	statusRepo  inventory.BatchStatusRepository
	requestRepo inventory.ProductionRequestRepository
	stockRepo   inventory.ProductionStockRepository
	thresholds  inventory.ExpiryThresholds
	now         func() time.Time
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	batchRepo inventory.BatchRepository,
	statusRepo inventory.BatchStatusRepository,
	requestRepo inventory.ProductionRequestRepository,
	stockRepo inventory.ProductionStockRepository,
	thresholds inventory.ExpiryThresholds,
) *DashboardService {
	return &DashboardService{
		batchRepo:   batchRepo,
		statusRepo:  statusRepo,
		requestRepo: requestRepo,
		stockRepo:   stockRepo,
		thresholds:  thresholds,
		now:         time.Now,
	}
}

// SetClock overrides the time source
func (s *DashboardService) SetClock(now func() time.Time) {
	s.now = now
}

// Overview returns batch counts, expiry buckets, recent batches and pending requests
func (s *DashboardService) Overview(ctx context.Context) (*DashboardResponse, error) {
	now := s.now()

	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, err
	}

	resp := &DashboardResponse{
		TotalBatches:          int64(len(batches)),
		RecentBatches:         []BatchResponse{},
		RecentPendingRequests: []ProductionRequestResponse{},
		MaterialStocks:        inventory.AggregateMaterialStock(stocks, inventory.StockQuery{Now: now}),
	}
	for _, st := range stocks {
		if st.IsUsable(now) {
			resp.ActiveBatches++
		}
	}
	for _, e := range s.thresholds.ExpiringBatches(stocks, now) {
		resp.ExpiringSoon++
		if e.Alert.DaysLeft <= s.thresholds.Prioritize {
			resp.Critical++
		}
	}

	sort.SliceStable(stocks, func(i, j int) bool {
		return stocks[i].Batch.CreatedAt.After(stocks[j].Batch.CreatedAt)
	})
	for i := 0; i < len(stocks) && i < recentItems; i++ {
		resp.RecentBatches = append(resp.RecentBatches, ToBatchResponse(stocks[i], now))
	}

	pending := shared.Filter{
		Page:     1,
		PageSize: recentItems,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{"status": string(inventory.ProductionRequestPending)},
	}
	requests, err := s.requestRepo.FindAll(ctx, pending)
	if err != nil {
		return nil, err
	}
	if resp.PendingRequests, err = s.requestRepo.Count(ctx, pending); err != nil {
		return nil, err
	}
	for _, r := range requests {
		resp.RecentPendingRequests = append(resp.RecentPendingRequests, ToProductionRequestResponse(r))
	}

	if resp.ProductionStockEntries, err = s.stockRepo.Count(ctx, shared.Filter{}); err != nil {
		return nil, err
	}
	return resp, nil
}
