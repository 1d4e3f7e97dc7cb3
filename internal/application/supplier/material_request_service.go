package supplier

import (
	"context"
	"time"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
)

// MaterialRequestService handles admin-issued calls for materials
type MaterialRequestService struct {
	requestRepo supplier.MaterialRequestRepository
	now         func() time.Time
}

// NewMaterialRequestService creates a new MaterialRequestService
func NewMaterialRequestService(requestRepo supplier.MaterialRequestRepository) *MaterialRequestService {
	return &MaterialRequestService{requestRepo: requestRepo, now: time.Now}
}

// SetClock overrides the time source
func (s *MaterialRequestService) SetClock(now func() time.Time) {
	s.now = now
}

// Create opens a new material request
func (s *MaterialRequestService) Create(ctx context.Context, in MaterialRequestInput) (*MaterialRequestResponse, error) {
	req, err := supplier.NewMaterialRequest(in.Title, in.Description, in.items(), in.dueDate())
	if err != nil {
		return nil, err
	}
	if in.Closed {
		req.Close()
	}
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}
	resp := ToMaterialRequestResponse(req)
	return &resp, nil
}

// GetByID retrieves a material request
func (s *MaterialRequestService) GetByID(ctx context.Context, id uuid.UUID) (*MaterialRequestResponse, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToMaterialRequestResponse(req)
	return &resp, nil
}

// List returns material requests, newest first
func (s *MaterialRequestService) List(ctx context.Context, filter MaterialRequestListFilter) ([]MaterialRequestResponse, int64, error) {
	f := shared.Filter{
		Page:     filter.Page,
		PageSize: clampPageSize(filter.PageSize),
		OrderBy:  "created_at",
		OrderDir: "desc",
		Search:   filter.Search,
		Filters:  map[string]any{},
	}
	if filter.Status != "" {
		f.Filters["status"] = filter.Status
	}

	reqs, err := s.requestRepo.FindAll(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.requestRepo.Count(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	items := make([]MaterialRequestResponse, len(reqs))
	for i, r := range reqs {
		items[i] = ToMaterialRequestResponse(r)
	}
	return items, total, nil
}

// ListOpen returns the requests suppliers can still respond to. Requests
// past their due date are left out even while their status is open.
func (s *MaterialRequestService) ListOpen(ctx context.Context) ([]MaterialRequestResponse, error) {
	f := shared.Filter{
		Page:     1,
		PageSize: maxPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  map[string]any{"status": string(supplier.MaterialRequestOpen)},
	}
	reqs, err := s.requestRepo.FindAll(ctx, f)
	if err != nil {
		return nil, err
	}
	now := s.now()
	items := make([]MaterialRequestResponse, 0, len(reqs))
	for _, r := range reqs {
		if r.IsOpen(now) {
			items = append(items, ToMaterialRequestResponse(r))
		}
	}
	return items, nil
}

// Update replaces the request content; closed=true stops further submissions
func (s *MaterialRequestService) Update(ctx context.Context, id uuid.UUID, in MaterialRequestInput) (*MaterialRequestResponse, error) {
	req, err := s.requestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := req.Update(in.Title, in.Description, in.items(), in.dueDate()); err != nil {
		return nil, err
	}
	if in.Closed {
		req.Close()
	}
	if err := s.requestRepo.Save(ctx, req); err != nil {
		return nil, err
	}
	resp := ToMaterialRequestResponse(req)
	return &resp, nil
}

// Delete removes a material request. Submissions keep their dangling request id.
func (s *MaterialRequestService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.requestRepo.Delete(ctx, id)
}
