package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// ProductionRequestService runs the production request approval flow
type ProductionRequestService struct {
	requestRepo     inventory.ProductionRequestRepository
	txScope         TransactionScope
	eventPublisher  shared.EventPublisher
	defaultStrategy inventory.AllocationStrategyType
	now             func() time.Time
}

// NewProductionRequestService creates a new ProductionRequestService.
// defaultStrategy is used when an approval names none.
func NewProductionRequestService(
	requestRepo inventory.ProductionRequestRepository,
	txScope TransactionScope,
	defaultStrategy inventory.AllocationStrategyType,
) *ProductionRequestService {
	if !defaultStrategy.IsValid() {
		defaultStrategy = inventory.AllocationStrategyFEFO
	}
	return &ProductionRequestService{
		requestRepo:     requestRepo,
		txScope:         txScope,
		defaultStrategy: defaultStrategy,
		now:             time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ProductionRequestService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *ProductionRequestService) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a pending request, optionally logging it to the production stock log
func (s *ProductionRequestService) Create(ctx context.Context, req CreateProductionRequestRequest) (*ProductionRequestResponse, error) {
	pr, err := inventory.NewProductionRequest(req.details())
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.RequestRepo().Save(ctx, pr); err != nil {
			return err
		}
		if !req.LogToProductionStock {
			return nil
		}
		entry, err := inventory.NewProductionStockEntry(pr.ProductionRequestDetails)
		if err != nil {
			return err
		}
		return repos.ProductionStockRepo().Save(ctx, entry)
	})
	if err != nil {
		return nil, err
	}

	resp := ToProductionRequestResponse(pr)
	return &resp, nil
}

// GetByID returns one production request
func (s *ProductionRequestService) GetByID(ctx context.Context, id uuid.UUID) (*ProductionRequestResponse, error) {
	pr, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToProductionRequestResponse(pr)
	return &resp, nil
}

// List returns a page of production requests and the total count
func (s *ProductionRequestService) List(ctx context.Context, filter ProductionRequestListFilter) ([]ProductionRequestResponse, int64, error) {
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
	if filter.Status != "" {
		status, err := inventory.ParseProductionRequestStatus(filter.Status)
		if err != nil {
			return nil, 0, err
		}
		f.Filters["status"] = string(status)
	}

	requests, err := s.requestRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	out := make([]ProductionRequestResponse, 0, len(requests))
	for _, r := range requests {
		out = append(out, ToProductionRequestResponse(r))
	}
	return out, total, nil
}

// Decide applies an approver's decision. Only Approved and Denied are
// accepted; a request can be decided once.
func (s *ProductionRequestService) Decide(ctx context.Context, id uuid.UUID, req DecideProductionRequestRequest) (*ProductionRequestResponse, error) {
	status, err := inventory.ParseProductionRequestStatus(req.Status)
	if err != nil {
		return nil, err
	}
	switch status {
	case inventory.ProductionRequestApproved:
		return s.Approve(ctx, id, req.Strategy, req.BatchNumber)
	case inventory.ProductionRequestDenied:
		return s.Deny(ctx, id)
	}
	return nil, shared.NewDomainError("INVALID_STATUS", "Status can only be changed to Approved or Denied")
}

// Approve allocates the requested quantity from the material's batches,
// deducts it and marks the request approved. Selection, deduction and the
// status change commit together; on any failure the request stays Pending
// and no batch is touched.
func (s *ProductionRequestService) Approve(ctx context.Context, id uuid.UUID, strategyName string, batchNumber int) (_ *ProductionRequestResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "production_request", "approve",
		attribute.String("production_request.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	strategyType := s.defaultStrategy
	if strategyName != "" {
		t, err := inventory.ParseAllocationStrategyType(strategyName)
		if err != nil {
			return nil, err
		}
		strategyType = t
	} else if batchNumber > 0 {
		strategyType = inventory.AllocationStrategySpecified
	}
	span.SetAttributes(attribute.String("allocation.strategy", string(strategyType)))
	strategy, err := inventory.NewAllocationStrategy(strategyType, batchNumber)
	if err != nil {
		return nil, err
	}

	var (
		pr     *inventory.ProductionRequest
		events []shared.DomainEvent
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		pr, err = repos.RequestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if !pr.IsPending() {
			return shared.NewDomainErrorf("INVALID_STATE", "Production request is already %s", pr.Status)
		}

		batches, err := repos.BatchRepo().FindByMaterial(ctx, pr.Material)
		if err != nil {
			return err
		}
		candidates, err := joinStatuses(ctx, repos.StatusRepo(), batches)
		if err != nil {
			return err
		}
		allocs, err := strategy.SelectBatches(candidates, pr.Quantity, s.now())
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]inventory.BatchStock, len(candidates))
		for _, c := range candidates {
			byID[c.Batch.ID] = c
		}
		reason := fmt.Sprintf("production request %s", pr.RequestNo)
		for _, a := range allocs {
			c := byID[a.BatchID]
			if err := c.Status.Consume(c.Batch, a.Quantity, reason); err != nil {
				return err
			}
			if err := repos.StatusRepo().Save(ctx, c.Status); err != nil {
				return err
			}
			events = append(events, collectEvents(c.Status)...)
		}

		if err := pr.Approve(allocs); err != nil {
			return err
		}
		if err := repos.RequestRepo().Save(ctx, pr); err != nil {
			return err
		}
		events = append(events, collectEvents(pr)...)
		return nil
	})
	if err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, events)
	resp := ToProductionRequestResponse(pr)
	return &resp, nil
}

// Deny rejects a pending request. Stock is never touched.
func (s *ProductionRequestService) Deny(ctx context.Context, id uuid.UUID) (*ProductionRequestResponse, error) {
	pr, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := pr.Deny(); err != nil {
		return nil, err
	}
	if err := s.requestRepo.Save(ctx, pr); err != nil {
		return nil, err
	}

	publishEvents(ctx, s.eventPublisher, collectEvents(pr))
	resp := ToProductionRequestResponse(pr)
	return &resp, nil
}

// Delete removes a request. Approved requests keep their deductions.
func (s *ProductionRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.requestRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.requestRepo.Delete(ctx, id)
}
