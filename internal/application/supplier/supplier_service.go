package supplier

import (
	"context"
	"sort"
	"time"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultPageSize = 100
	maxPageSize     = 500
	recentAccepted  = 5
)

// SupplierService manages supplier accounts for admins and for suppliers themselves
type SupplierService struct {
	supplierRepo   supplier.SupplierRepository
	submissionRepo supplier.SubmissionRepository
	txScope        TransactionScope
	logger         *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(
	supplierRepo supplier.SupplierRepository,
	submissionRepo supplier.SubmissionRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{
		supplierRepo:   supplierRepo,
		submissionRepo: submissionRepo,
		txScope:        txScope,
		logger:         logger,
	}
}

// Create registers a supplier. Admin creation and self-registration share it.
func (s *SupplierService) Create(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	if err := s.ensureEmailFree(ctx, req.Email); err != nil {
		return nil, err
	}

	sup, err := supplier.NewSupplier(req.profile(), req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}

	s.logger.Info("Supplier registered", zap.String("supplier_id", sup.ID.String()), zap.String("email", sup.Email))
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// GetByID retrieves a supplier
func (s *SupplierService) GetByID(ctx context.Context, id uuid.UUID) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// List returns suppliers, newest first, each with totals recomputed from
// its submission history
func (s *SupplierService) List(ctx context.Context, filter SupplierListFilter) ([]SupplierWithTotalsResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: clampPageSize(filter.PageSize),
		OrderBy:  filter.OrderBy,
		OrderDir: filter.OrderDir,
		Search:   filter.Search,
	}
	if f.OrderBy == "" {
		f.OrderBy = "created_at"
	}

	suppliers, err := s.supplierRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.supplierRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}

	ids := make([]uuid.UUID, len(suppliers))
	for i, sup := range suppliers {
		ids[i] = sup.ID
	}
	bySupplier, err := s.submissionRepo.FindBySuppliers(ctx, ids)
	if err != nil {
		return nil, 0, err
	}

	items := make([]SupplierWithTotalsResponse, len(suppliers))
	for i, sup := range suppliers {
		items[i] = toSupplierWithTotals(sup, bySupplier[sup.ID])
	}
	return items, total, nil
}

// Update is the admin edit. An empty email or password keeps the stored value.
func (s *SupplierService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplierRequest) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sup.UpdateProfile(req.profile()); err != nil {
		return nil, err
	}
	if req.Email != "" {
		email, err := identity.NormalizeEmail(req.Email)
		if err != nil {
			return nil, err
		}
		if email != sup.Email {
			if err := s.ensureEmailFree(ctx, email); err != nil {
				return nil, err
			}
			if err := sup.ChangeEmail(email); err != nil {
				return nil, err
			}
		}
	}
	if req.Password != "" {
		if err := sup.ChangePassword(req.Password); err != nil {
			return nil, err
		}
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// UpdateProfile lets a supplier edit their own descriptive fields
func (s *SupplierService) UpdateProfile(ctx context.Context, id uuid.UUID, req UpdateProfileRequest) (*SupplierResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := sup.UpdateProfile(req.profile()); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, sup); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(sup)
	return &resp, nil
}

// Delete removes a supplier together with its submissions and ratings
func (s *SupplierService) Delete(ctx context.Context, id uuid.UUID) error {
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if _, err := repos.SupplierRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := repos.SubmissionRepo().DeleteBySupplier(ctx, id); err != nil {
			return err
		}
		if err := repos.RatingRepo().DeleteBySupplier(ctx, id); err != nil {
			return err
		}
		return repos.SupplierRepo().Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.logger.Info("Supplier deleted", zap.String("supplier_id", id.String()))
	return nil
}

// Earnings returns the ledger values next to the totals recomputed from history
func (s *SupplierService) Earnings(ctx context.Context, id uuid.UUID) (*EarningsResponse, error) {
	sup, err := s.supplierRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subs, err := s.submissionRepo.FindBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}

	summary := supplier.Summarize(subs)
	drift := summary.Drift(sup)
	pendingDrift := summary.PendingDrift(sup)
	if !drift.IsZero() || !pendingDrift.IsZero() {
		s.logger.Warn("Supplier ledger differs from submission history",
			zap.String("supplier_id", id.String()),
			zap.String("earnings", sup.Earnings.String()),
			zap.String("paid_total", summary.PaidTotal.String()),
			zap.String("pending_payments", sup.PendingPayments.String()),
			zap.String("pending_amount", summary.PendingAmount.String()),
		)
	}

	accepted := make([]*supplier.Submission, 0, len(subs))
	for _, sub := range subs {
		if sub.Status == supplier.SubmissionAccepted {
			accepted = append(accepted, sub)
		}
	}
	sort.SliceStable(accepted, func(i, j int) bool {
		return decidedAt(accepted[i]).After(decidedAt(accepted[j]))
	})
	if len(accepted) > recentAccepted {
		accepted = accepted[:recentAccepted]
	}
	recent := make([]SubmissionResponse, len(accepted))
	for i, sub := range accepted {
		recent[i] = ToSubmissionResponse(sub)
	}

	return &EarningsResponse{
		Earnings:        sup.Earnings,
		PendingPayments: sup.PendingPayments,
		Summary:         summary,
		LedgerDrift:     drift,
		PendingDrift:    pendingDrift,
		RecentAccepted:  recent,
	}, nil
}

func (s *SupplierService) ensureEmailFree(ctx context.Context, email string) error {
	normalized, err := identity.NormalizeEmail(email)
	if err != nil {
		return err
	}
	exists, err := s.supplierRepo.ExistsByEmail(ctx, normalized)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError("ALREADY_EXISTS", "Email already exists")
	}
	return nil
}

func decidedAt(s *supplier.Submission) time.Time {
	if s.DecidedAt != nil {
		return *s.DecidedAt
	}
	return s.UpdatedAt
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
