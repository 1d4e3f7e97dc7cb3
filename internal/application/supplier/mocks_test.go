package supplier

import (
	"context"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func init() {
	identity.PasswordCost = bcrypt.MinCost
}

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// MockEventPublisher records published events
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func (m *MockEventPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, events...)
	return nil
}

func (m *MockEventPublisher) GetEventsByType(eventType string) []shared.DomainEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []shared.DomainEvent
	for _, e := range m.events {
		if e.EventType() == eventType {
			out = append(out, e)
		}
	}
	return out
}

// memSupplierRepo keeps suppliers in memory with version checks
type memSupplierRepo struct {
	mu        sync.Mutex
	suppliers map[uuid.UUID]supplier.Supplier
}

func newMemSupplierRepo() *memSupplierRepo {
	return &memSupplierRepo{suppliers: make(map[uuid.UUID]supplier.Supplier)}
}

func (r *memSupplierRepo) FindByID(_ context.Context, id uuid.UUID) (*supplier.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.suppliers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &s, nil
}

func (r *memSupplierRepo) FindByEmail(_ context.Context, email string) (*supplier.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.suppliers {
		if s.Email == email {
			return &s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memSupplierRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	_, err := r.FindByEmail(ctx, email)
	return err == nil, nil
}

func (r *memSupplierRepo) FindAll(_ context.Context, filter shared.Filter) ([]*supplier.Supplier, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*supplier.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		if filter.Search != "" && !strings.Contains(strings.ToLower(s.Name), strings.ToLower(filter.Search)) {
			continue
		}
		s := s
		out = append(out, &s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memSupplierRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memSupplierRepo) Save(_ context.Context, s *supplier.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.suppliers[s.ID]; ok {
		if stored.Version != s.Version {
			return shared.ErrConcurrencyConflict
		}
		s.Version++
	}
	kept := *s
	kept.ClearDomainEvents()
	r.suppliers[s.ID] = kept
	return nil
}

func (r *memSupplierRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.suppliers[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.suppliers, id)
	return nil
}

// memSubmissionRepo keeps submissions in memory
type memSubmissionRepo struct {
	mu    sync.Mutex
	subs  map[uuid.UUID]supplier.Submission
	order []uuid.UUID
	// raceAccept makes MarkAccepted behave as if another writer won
	raceAccept bool
}

func newMemSubmissionRepo() *memSubmissionRepo {
	return &memSubmissionRepo{subs: make(map[uuid.UUID]supplier.Submission)}
}

func (r *memSubmissionRepo) FindByID(_ context.Context, id uuid.UUID) (*supplier.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.subs[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Submission not found")
	}
	return &s, nil
}

func (r *memSubmissionRepo) FindAll(_ context.Context, filter shared.Filter) ([]*supplier.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*supplier.Submission
	for i := len(r.order) - 1; i >= 0; i-- {
		s, ok := r.subs[r.order[i]]
		if !ok {
			continue
		}
		if status, ok := filter.Filters["status"]; ok && string(s.Status) != status {
			continue
		}
		if id, ok := filter.Filters["supplier_id"]; ok && s.SupplierID != id {
			continue
		}
		out = append(out, &s)
	}
	return out, nil
}

func (r *memSubmissionRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memSubmissionRepo) FindBySupplier(ctx context.Context, supplierID uuid.UUID) ([]*supplier.Submission, error) {
	return r.FindAll(ctx, shared.Filter{Filters: map[string]any{"supplier_id": supplierID}})
}

func (r *memSubmissionRepo) FindBySuppliers(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]*supplier.Submission, error) {
	out := make(map[uuid.UUID][]*supplier.Submission, len(ids))
	for _, id := range ids {
		subs, _ := r.FindBySupplier(ctx, id)
		if len(subs) > 0 {
			out[id] = subs
		}
	}
	return out, nil
}

func (r *memSubmissionRepo) Save(_ context.Context, s *supplier.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.subs[s.ID]; ok {
		if stored.Version != s.Version {
			return shared.ErrConcurrencyConflict
		}
		s.Version++
	} else {
		r.order = append(r.order, s.ID)
	}
	stored := *s
	stored.ClearDomainEvents()
	r.subs[s.ID] = stored
	return nil
}

func (r *memSubmissionRepo) MarkAccepted(_ context.Context, s *supplier.Submission) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored, ok := r.subs[s.ID]
	if !ok || r.raceAccept || stored.Status == supplier.SubmissionAccepted {
		return false, nil
	}
	s.Version++
	stored = *s
	stored.ClearDomainEvents()
	r.subs[s.ID] = stored
	return true, nil
}

func (r *memSubmissionRepo) DeleteBySupplier(_ context.Context, supplierID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, s := range r.subs {
		if s.SupplierID == supplierID {
			delete(r.subs, id)
		}
	}
	return nil
}

// memRatingRepo keeps ratings in memory
type memRatingRepo struct {
	mu      sync.Mutex
	ratings []supplier.Rating
}

func (r *memRatingRepo) FindBySupplier(_ context.Context, supplierID uuid.UUID) ([]*supplier.Rating, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*supplier.Rating
	for i := range r.ratings {
		if r.ratings[i].SupplierID == supplierID {
			rt := r.ratings[i]
			out = append(out, &rt)
		}
	}
	return out, nil
}

func (r *memRatingRepo) Save(_ context.Context, rating *supplier.Rating) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ratings = append(r.ratings, *rating)
	return nil
}

func (r *memRatingRepo) DeleteBySupplier(_ context.Context, supplierID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.ratings[:0]
	for _, rt := range r.ratings {
		if rt.SupplierID != supplierID {
			kept = append(kept, rt)
		}
	}
	r.ratings = kept
	return nil
}

// memMaterialRequestRepo keeps material requests in memory
type memMaterialRequestRepo struct {
	mu   sync.Mutex
	reqs map[uuid.UUID]supplier.MaterialRequest
}

func newMemMaterialRequestRepo() *memMaterialRequestRepo {
	return &memMaterialRequestRepo{reqs: make(map[uuid.UUID]supplier.MaterialRequest)}
}

func (r *memMaterialRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*supplier.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.reqs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return &req, nil
}

func (r *memMaterialRequestRepo) FindAll(_ context.Context, filter shared.Filter) ([]*supplier.MaterialRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*supplier.MaterialRequest
	for _, req := range r.reqs {
		if status, ok := filter.Filters["status"]; ok && string(req.Status) != status {
			continue
		}
		req := req
		out = append(out, &req)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Title < out[j].Title })
	return out, nil
}

func (r *memMaterialRequestRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memMaterialRequestRepo) Save(_ context.Context, req *supplier.MaterialRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := *req
	kept.ClearDomainEvents()
	r.reqs[req.ID] = kept
	return nil
}

func (r *memMaterialRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.reqs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reqs, id)
	return nil
}

type fixture struct {
	now       time.Time
	suppliers *memSupplierRepo
	subs      *memSubmissionRepo
	ratings   *memRatingRepo
	requests  *memMaterialRequestRepo
	scope     *NoOpTransactionScope
	publisher *MockEventPublisher
}

func newFixture() *fixture {
	f := &fixture{
		now:       time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		suppliers: newMemSupplierRepo(),
		subs:      newMemSubmissionRepo(),
		ratings:   &memRatingRepo{},
		requests:  newMemMaterialRequestRepo(),
		publisher: &MockEventPublisher{},
	}
	f.scope = NewNoOpTransactionScope(f.suppliers, f.subs, f.ratings, f.requests)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func (f *fixture) addSupplier(t *testing.T, name string) *supplier.Supplier {
	t.Helper()
	email := strings.ToLower(strings.ReplaceAll(name, " ", ".")) + "@suppliers.lk"
	s, err := supplier.NewSupplier(supplier.Profile{Name: name}, email, "secret123")
	require.NoError(t, err)
	require.NoError(t, f.suppliers.Save(context.Background(), s))
	return s
}

func (f *fixture) submissionService() *SubmissionService {
	svc := NewSubmissionService(f.subs, f.scope, nil)
	svc.SetEventPublisher(f.publisher)
	svc.SetClock(f.clock)
	return svc
}

func (f *fixture) submit(t *testing.T, supplierID uuid.UUID, qty, price float64) *SubmissionResponse {
	t.Helper()
	resp, err := f.submissionService().Create(context.Background(), supplierID, CreateSubmissionRequest{
		Items: []SubmissionItemInput{{Name: "Cinnamon", Qty: dec(qty), Price: dec(price)}},
	})
	require.NoError(t, err)
	return resp
}

func (f *fixture) storedSupplier(t *testing.T, id uuid.UUID) *supplier.Supplier {
	t.Helper()
	s, err := f.suppliers.FindByID(context.Background(), id)
	require.NoError(t, err)
	return s
}
