package inventory

import (
	"context"
	"io"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
)

// ExpiryReportWriter renders the expiry report
type ExpiryReportWriter interface {
	WriteExpiryReport(w io.Writer, rows []ExpiringMaterialResponse, generatedAt time.Time) error
}

// ExpiryService classifies batches by how soon they expire
type ExpiryService struct {
	batchRepo  inventory.BatchRepository
	statusRepo inventory.BatchStatusRepository
	thresholds inventory.ExpiryThresholds
	now        func() time.Time
}

// NewExpiryService creates a new ExpiryService
func NewExpiryService(
	batchRepo inventory.BatchRepository,
	statusRepo inventory.BatchStatusRepository,
	thresholds inventory.ExpiryThresholds,
) *ExpiryService {
	return &ExpiryService{
		batchRepo:  batchRepo,
		statusRepo: statusRepo,
		thresholds: thresholds,
		now:        time.Now,
	}
}

// SetClock overrides the time source
func (s *ExpiryService) SetClock(now func() time.Time) {
	s.now = now
}

// Thresholds returns the configured day buckets
func (s *ExpiryService) Thresholds() inventory.ExpiryThresholds {
	return s.thresholds
}

// ExpiringMaterials lists non-deleted batches with stock left that expire
// within the window, soonest first
func (s *ExpiryService) ExpiringMaterials(ctx context.Context) ([]ExpiringMaterialResponse, error) {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, err
	}
	expiring := s.thresholds.ExpiringBatches(stocks, s.now())
	out := make([]ExpiringMaterialResponse, 0, len(expiring))
	for _, e := range expiring {
		out = append(out, ToExpiringMaterialResponse(e))
	}
	return out, nil
}

// ExportReport writes the expiring materials through writer
func (s *ExpiryService) ExportReport(ctx context.Context, writer ExpiryReportWriter, w io.Writer) error {
	rows, err := s.ExpiringMaterials(ctx)
	if err != nil {
		return err
	}
	return writer.WriteExpiryReport(w, rows, s.now())
}
