package inventory

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
)

// BatchImportRow is one parsed spreadsheet row. Row is 1-based and counts the header.
type BatchImportRow struct {
	Row     int
	Request CreateBatchRequest
	// Err is set when the row could not be parsed at all
	Err error
}

// BatchSheetParser reads batch rows from an uploaded spreadsheet
type BatchSheetParser interface {
	ParseBatches(r io.Reader) ([]BatchImportRow, error)
}

// BatchService handles batch intake, listing and metadata changes
type BatchService struct {
	batchRepo      inventory.BatchRepository
	statusRepo     inventory.BatchStatusRepository
	eventPublisher shared.EventPublisher
	now            func() time.Time
}

// NewBatchService creates a new BatchService
func NewBatchService(batchRepo inventory.BatchRepository, statusRepo inventory.BatchStatusRepository) *BatchService {
	return &BatchService{
		batchRepo:  batchRepo,
		statusRepo: statusRepo,
		now:        time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BatchService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *BatchService) SetClock(now func() time.Time) {
	s.now = now
}

// Create takes a new batch into inventory. Batch numbers are unique.
func (s *BatchService) Create(ctx context.Context, req CreateBatchRequest) (*BatchResponse, error) {
	exists, err := s.batchRepo.ExistsByBatchNumber(ctx, req.BatchNumber)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainErrorf("ALREADY_EXISTS", "Batch number %d already exists", req.BatchNumber)
	}

	batch, err := inventory.NewBatch(
		req.ProductName,
		req.BatchNumber,
		req.Quantity,
		req.Unit,
		req.SupplierName,
		req.ReceivedDate.Time,
		req.ExpiryDate.Time,
	)
	if err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}
	publishEvents(ctx, s.eventPublisher, collectEvents(batch))

	resp := ToBatchResponse(inventory.NewBatchStock(batch, nil), s.now())
	return &resp, nil
}

// GetByID returns a batch with its status
func (s *BatchService) GetByID(ctx context.Context, id uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	status, err := s.statusRepo.FindOrDefault(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(inventory.NewBatchStock(batch, status), s.now())
	return &resp, nil
}

// List returns a page of batches with their statuses and the total count
func (s *BatchService) List(ctx context.Context, filter BatchListFilter) ([]BatchResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: clampPageSize(filter.PageSize),
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if filter.Material != "" {
		f.Filters["material"] = filter.Material
	}

	batches, err := s.batchRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.batchRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, 0, err
	}

	now := s.now()
	out := make([]BatchResponse, 0, len(stocks))
	for _, st := range stocks {
		out = append(out, ToBatchResponse(st, now))
	}
	return out, total, nil
}

// Update changes batch metadata. A quantity different from the received one
// is rejected; consumption is recorded through the status tracker.
func (s *BatchService) Update(ctx context.Context, id uuid.UUID, req UpdateBatchRequest) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Quantity != nil && !req.Quantity.Equal(batch.Quantity) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Received quantity cannot be changed; record usage instead")
	}

	productName, unit, supplierName, expiry := batch.ProductName, batch.Unit, batch.SupplierName, batch.ExpiryDate
	if req.ProductName != nil {
		productName = *req.ProductName
	}
	if req.Unit != nil {
		unit = *req.Unit
	}
	if req.SupplierName != nil {
		supplierName = *req.SupplierName
	}
	if req.ExpiryDate != nil && !req.ExpiryDate.IsZero() {
		expiry = req.ExpiryDate.Time
	}

	if err := batch.UpdateDetails(productName, unit, supplierName, expiry); err != nil {
		return nil, err
	}
	if err := s.batchRepo.Save(ctx, batch); err != nil {
		return nil, err
	}

	status, err := s.statusRepo.FindOrDefault(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(inventory.NewBatchStock(batch, status), s.now())
	return &resp, nil
}

// Delete physically removes a batch that was never consumed. Batches with
// recorded usage must be retired instead so their history stays intact.
func (s *BatchService) Delete(ctx context.Context, id uuid.UUID) error {
	batch, err := s.batchRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	status, err := s.statusRepo.FindOrDefault(ctx, id)
	if err != nil {
		return err
	}
	if status.UsedQuantity.IsPositive() {
		return shared.NewDomainErrorf("INVALID_STATE",
			"Batch %d has recorded usage and cannot be deleted; retire it instead", batch.BatchNumber)
	}
	if err := s.batchRepo.Delete(ctx, id); err != nil {
		return err
	}

	publishEvents(ctx, s.eventPublisher, []shared.DomainEvent{
		inventory.NewBatchRetiredEvent(batch, status.Remaining(batch)),
	})
	return nil
}

// Import creates batches from parsed spreadsheet rows. Bad rows are skipped
// and reported; the remaining rows are still imported.
func (s *BatchService) Import(ctx context.Context, rows []BatchImportRow) (*ImportResult, error) {
	result := &ImportResult{Errors: []ImportRowError{}}
	for _, row := range rows {
		if row.Err != nil {
			result.skip(row.Row, row.Err)
			continue
		}
		if _, err := s.Create(ctx, row.Request); err != nil {
			if !isDomainError(err) {
				return result, fmt.Errorf("import row %d: %w", row.Row, err)
			}
			result.skip(row.Row, err)
			continue
		}
		result.Imported++
	}
	return result, nil
}

// ImportSheet parses r with parser and imports the rows
func (s *BatchService) ImportSheet(ctx context.Context, parser BatchSheetParser, r io.Reader) (*ImportResult, error) {
	rows, err := parser.ParseBatches(r)
	if err != nil {
		return nil, err
	}
	return s.Import(ctx, rows)
}

func (r *ImportResult) skip(row int, err error) {
	r.Skipped++
	r.Errors = append(r.Errors, ImportRowError{Row: row, Message: err.Error()})
}

// joinStatuses resolves the status of every batch in one query
func joinStatuses(ctx context.Context, statusRepo inventory.BatchStatusRepository, batches []*inventory.Batch) ([]inventory.BatchStock, error) {
	ids := make([]uuid.UUID, 0, len(batches))
	for _, b := range batches {
		ids = append(ids, b.ID)
	}
	statuses, err := statusRepo.FindOrDefaultMany(ctx, ids)
	if err != nil {
		return nil, err
	}
	return inventory.JoinBatchStock(batches, statuses), nil
}

func clampPageSize(size int) int {
	switch {
	case size <= 0:
		return defaultPageSize
	case size > maxPageSize:
		return maxPageSize
	}
	return size
}
