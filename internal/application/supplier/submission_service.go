package supplier

import (
	"context"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// SubmissionService handles supplier offers and the payment ledger they drive.
// Every ledger change is stored in the same transaction as the decision
// that caused it.
type SubmissionService struct {
	submissionRepo supplier.SubmissionRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewSubmissionService creates a new SubmissionService
func NewSubmissionService(submissionRepo supplier.SubmissionRepository, txScope TransactionScope, logger *zap.Logger) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SubmissionService{
		submissionRepo: submissionRepo,
		txScope:        txScope,
		logger:         logger,
		now:            time.Now,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *SubmissionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetClock overrides the time source
func (s *SubmissionService) SetClock(now func() time.Time) {
	s.now = now
}

// Create stores a supplier's offer and adds its amount to the supplier's
// pending payments. A referenced material request must still be open.
func (s *SubmissionService) Create(ctx context.Context, supplierID uuid.UUID, req CreateSubmissionRequest) (*SubmissionResponse, error) {
	var sub *supplier.Submission
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		sup, err := repos.SupplierRepo().FindByID(ctx, supplierID)
		if err != nil {
			return err
		}
		if req.RequestID != nil {
			mr, err := repos.MaterialRequestRepo().FindByID(ctx, *req.RequestID)
			if err != nil {
				return err
			}
			if !mr.IsOpen(s.now()) {
				return shared.NewDomainError("INVALID_STATE", "Material request is closed")
			}
		}

		sub, err = supplier.NewSubmission(sup.ID, req.RequestID, req.items(), req.Notes, req.SupplierAmount)
		if err != nil {
			return err
		}
		if err := repos.SubmissionRepo().Save(ctx, sub); err != nil {
			return err
		}
		sup.AddPendingPayment(sub.SupplierAmount)
		return repos.SupplierRepo().Save(ctx, sup)
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.eventPublisher, sub)
	resp := ToSubmissionResponse(sub)
	return &resp, nil
}

// GetByID retrieves a submission
func (s *SubmissionService) GetByID(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error) {
	sub, err := s.submissionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubmissionResponse(sub)
	return &resp, nil
}

// List returns submissions, newest first
func (s *SubmissionService) List(ctx context.Context, filter SubmissionListFilter) ([]SubmissionResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: clampPageSize(filter.PageSize),
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}
	if filter.SupplierID != "" {
		id, err := uuid.Parse(filter.SupplierID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid supplier id")
		}
		f.Filters["supplier_id"] = id
	}
	if filter.RequestID != "" {
		id, err := uuid.Parse(filter.RequestID)
		if err != nil {
			return nil, 0, shared.NewDomainError("INVALID_INPUT", "Invalid request id")
		}
		f.Filters["request_id"] = id
	}

	subs, err := s.submissionRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.submissionRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]SubmissionResponse, len(subs))
	for i, sub := range subs {
		items[i] = ToSubmissionResponse(sub)
	}
	return items, total, nil
}

// ListForSupplier returns one supplier's submissions, newest first
func (s *SubmissionService) ListForSupplier(ctx context.Context, supplierID uuid.UUID, filter SubmissionListFilter) ([]SubmissionResponse, int64, error) {
	filter.SupplierID = supplierID.String()
	return s.List(ctx, filter)
}

// Accept marks a submission accepted with the amount paid, then credits the
// supplier: earnings grow by paid and pending payments shrink by paid,
// floored at zero. A rejected submission already released its amount from
// pending payments, so accepting it owes that amount again first. The status
// change is conditional on the stored row not being accepted yet, so two
// concurrent accepts credit the supplier once.
func (s *SubmissionService) Accept(ctx context.Context, id uuid.UUID, req AcceptSubmissionRequest) (_ *AcceptSubmissionResponse, err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "submission", "accept",
		attribute.String("submission.id", id.String()))
	defer func() { telemetry.EndSpan(span, err) }()

	var (
		sub *supplier.Submission
		sup *supplier.Supplier
	)
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sub, err = repos.SubmissionRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		wasRejected := sub.Status == supplier.SubmissionRejected
		if err := sub.Accept(req.PaidAmount); err != nil {
			return err
		}
		ok, err := repos.SubmissionRepo().MarkAccepted(ctx, sub)
		if err != nil {
			return err
		}
		if !ok {
			return supplier.ErrSubmissionAlreadyAccepted
		}

		sup, err = repos.SupplierRepo().FindByID(ctx, sub.SupplierID)
		if err != nil {
			if shared.IsNotFound(err) {
				return shared.NewDomainError("NOT_FOUND", "Supplier not found")
			}
			return err
		}
		if wasRejected {
			sup.AddPendingPayment(sub.SupplierAmount)
		}
		if err := sup.RecordPayment(sub.PaidAmount); err != nil {
			return err
		}
		return repos.SupplierRepo().Save(ctx, sup)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Submission accepted",
		zap.String("submission_id", sub.ID.String()),
		zap.String("supplier_id", sup.ID.String()),
		zap.String("paid_amount", sub.PaidAmount.String()),
		zap.String("earnings", sup.Earnings.String()),
		zap.String("pending_payments", sup.PendingPayments.String()),
	)
	publishAfterCommit(ctx, s.eventPublisher, sub)

	return &AcceptSubmissionResponse{
		Submission: ToSubmissionResponse(sub),
		Supplier:   ToSupplierResponse(sup),
	}, nil
}

// Reject declines a pending submission and releases its amount from the
// supplier's pending payments
func (s *SubmissionService) Reject(ctx context.Context, id uuid.UUID) (*SubmissionResponse, error) {
	var sub *supplier.Submission
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		var err error
		sub, err = repos.SubmissionRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := sub.Reject(); err != nil {
			return err
		}
		if err := repos.SubmissionRepo().Save(ctx, sub); err != nil {
			return err
		}

		sup, err := repos.SupplierRepo().FindByID(ctx, sub.SupplierID)
		if err != nil {
			return err
		}
		sup.ReleasePendingPayment(sub.SupplierAmount)
		return repos.SupplierRepo().Save(ctx, sup)
	})
	if err != nil {
		return nil, err
	}

	publishAfterCommit(ctx, s.eventPublisher, sub)
	resp := ToSubmissionResponse(sub)
	return &resp, nil
}
