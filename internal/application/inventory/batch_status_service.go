package inventory

import (
	"context"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatusService records consumption and retirement of batches.
// Every write runs in a transaction with a version-checked status update.
type BatchStatusService struct {
	batchRepo      inventory.BatchRepository
	statusRepo     inventory.BatchStatusRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
}

// NewBatchStatusService creates a new BatchStatusService
func NewBatchStatusService(
	batchRepo inventory.BatchRepository,
	statusRepo inventory.BatchStatusRepository,
	txScope TransactionScope,
) *BatchStatusService {
	return &BatchStatusService{
		batchRepo:  batchRepo,
		statusRepo: statusRepo,
		txScope:    txScope,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *BatchStatusService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// List returns the status of every batch. Batches without a stored status
// are reported with the default (nothing used, not deleted).
func (s *BatchStatusService) List(ctx context.Context) ([]BatchStatusResponse, error) {
	batches, err := s.batchRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	stocks, err := joinStatuses(ctx, s.statusRepo, batches)
	if err != nil {
		return nil, err
	}
	out := make([]BatchStatusResponse, 0, len(stocks))
	for _, st := range stocks {
		out = append(out, ToBatchStatusResponse(st.Status))
	}
	return out, nil
}

// Get returns the status of one batch
func (s *BatchStatusService) Get(ctx context.Context, batchID uuid.UUID) (*BatchStatusResponse, error) {
	if _, err := s.batchRepo.FindByID(ctx, batchID); err != nil {
		return nil, err
	}
	status, err := s.statusRepo.FindOrDefault(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToBatchStatusResponse(status)
	return &resp, nil
}

// RecordUsage adds req.UsedQuantity to what the batch has already used
func (s *BatchStatusService) RecordUsage(ctx context.Context, batchID uuid.UUID, req RecordUsageRequest) (*BatchStatusResponse, error) {
	return s.mutate(ctx, func(repos TransactionalRepositories) (*inventory.BatchStatus, error) {
		batch, err := repos.BatchRepo().FindByID(ctx, batchID)
		if err != nil {
			return nil, err
		}
		return consume(ctx, repos, batch, req.UsedQuantity, req.Reason)
	})
}

// Retire logically deletes a batch. Its remaining quantity stops counting as stock.
func (s *BatchStatusService) Retire(ctx context.Context, batchID uuid.UUID) (*BatchStatusResponse, error) {
	return s.mutate(ctx, func(repos TransactionalRepositories) (*inventory.BatchStatus, error) {
		batch, err := repos.BatchRepo().FindByID(ctx, batchID)
		if err != nil {
			return nil, err
		}
		status, err := repos.StatusRepo().FindOrDefault(ctx, batch.ID)
		if err != nil {
			return nil, err
		}
		status.Retire(batch)
		if err := repos.StatusRepo().Save(ctx, status); err != nil {
			return nil, err
		}
		return status, nil
	})
}

// ApproveWithBatch validates that the named batch still holds req.Quantity
// and deducts it. A batch that cannot cover the quantity fails with
// "Batch validation failed" and is left unchanged.
func (s *BatchStatusService) ApproveWithBatch(ctx context.Context, req ApproveWithBatchRequest) (*BatchStatusResponse, error) {
	return s.mutate(ctx, func(repos TransactionalRepositories) (*inventory.BatchStatus, error) {
		batch, err := repos.BatchRepo().FindByBatchNumber(ctx, req.BatchNumber)
		if err != nil {
			if shared.IsNotFound(err) {
				return nil, inventory.ErrBatchValidationFailed
			}
			return nil, err
		}
		return consume(ctx, repos, batch, req.Quantity, "approved against batch")
	})
}

func (s *BatchStatusService) mutate(ctx context.Context, fn func(repos TransactionalRepositories) (*inventory.BatchStatus, error)) (*BatchStatusResponse, error) {
	var status *inventory.BatchStatus
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		status, err = fn(repos)
		return err
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, collectEvents(status))
	resp := ToBatchStatusResponse(status)
	return &resp, nil
}

// consume deducts qty from batch and stores the status
func consume(ctx context.Context, repos TransactionalRepositories, batch *inventory.Batch, qty decimal.Decimal, reason string) (*inventory.BatchStatus, error) {
	status, err := repos.StatusRepo().FindOrDefault(ctx, batch.ID)
	if err != nil {
		return nil, err
	}
	if err := status.Consume(batch, qty, reason); err != nil {
		return nil, err
	}
	if err := repos.StatusRepo().Save(ctx, status); err != nil {
		return nil, err
	}
	return status, nil
}
