package inventory

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockEventPublisher is a mock implementation of shared.EventPublisher
type MockEventPublisher struct {
	mu     sync.Mutex
	events []shared.DomainEvent
}

func NewMockEventPublisher() *MockEventPublisher {
	return &MockEventPublisher{events: make([]shared.DomainEvent, 0)}
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
	result := make([]shared.DomainEvent, 0)
	for _, e := range m.events {
		if e.EventType() == eventType {
			result = append(result, e)
		}
	}
	return result
}

func (m *MockEventPublisher) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// memBatchRepo keeps batches in memory
type memBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]inventory.Batch
}

func newMemBatchRepo() *memBatchRepo {
	return &memBatchRepo{batches: make(map[uuid.UUID]inventory.Batch)}
}

func (r *memBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Batch not found")
	}
	return &b, nil
}

func (r *memBatchRepo) FindByBatchNumber(_ context.Context, batchNumber int) (*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.BatchNumber == batchNumber {
			return &b, nil
		}
	}
	return nil, shared.NewDomainError("NOT_FOUND", "Batch not found")
}

func (r *memBatchRepo) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.Batch, error) {
	all, _ := r.ListAll(ctx)
	if m, ok := filter.Filters["material"].(string); ok {
		out := make([]*inventory.Batch, 0)
		for _, b := range all {
			if b.MaterialKey() == inventory.NormalizeMaterialName(m) {
				out = append(out, b)
			}
		}
		all = out
	}
	start := filter.Offset()
	if start > len(all) {
		return []*inventory.Batch{}, nil
	}
	end := start + filter.Limit()
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], nil
}

func (r *memBatchRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	filter.Page, filter.PageSize = 1, 1<<30
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memBatchRepo) FindByMaterial(ctx context.Context, material string) ([]*inventory.Batch, error) {
	return r.FindAll(ctx, shared.Filter{PageSize: 1 << 30, Filters: map[string]any{"material": material}})
}

func (r *memBatchRepo) ListAll(_ context.Context) ([]*inventory.Batch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.Batch, 0, len(r.batches))
	for _, b := range r.batches {
		b := b
		out = append(out, &b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BatchNumber < out[j].BatchNumber })
	return out, nil
}

func (r *memBatchRepo) ExistsByBatchNumber(ctx context.Context, batchNumber int) (bool, error) {
	_, err := r.FindByBatchNumber(ctx, batchNumber)
	return err == nil, nil
}

func (r *memBatchRepo) Save(_ context.Context, batch *inventory.Batch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := *batch
	kept.ClearDomainEvents()
	r.batches[batch.ID] = kept
	return nil
}

func (r *memBatchRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.batches, id)
	return nil
}

// memStatusRepo keeps statuses in memory with the same version rules as the database
type memStatusRepo struct {
	mu       sync.Mutex
	statuses map[uuid.UUID]inventory.BatchStatus
	saveErr  error
}

func newMemStatusRepo() *memStatusRepo {
	return &memStatusRepo{statuses: make(map[uuid.UUID]inventory.BatchStatus)}
}

func (r *memStatusRepo) FindAll(_ context.Context) ([]*inventory.BatchStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.BatchStatus, 0, len(r.statuses))
	for _, s := range r.statuses {
		s := s
		out = append(out, &s)
	}
	return out, nil
}

func (r *memStatusRepo) FindOrDefault(_ context.Context, batchID uuid.UUID) (*inventory.BatchStatus, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.statuses[batchID]; ok {
		return &s, nil
	}
	return inventory.DefaultBatchStatus(batchID), nil
}

func (r *memStatusRepo) FindOrDefaultMany(ctx context.Context, batchIDs []uuid.UUID) (map[uuid.UUID]*inventory.BatchStatus, error) {
	out := make(map[uuid.UUID]*inventory.BatchStatus, len(batchIDs))
	for _, id := range batchIDs {
		s, _ := r.FindOrDefault(ctx, id)
		out[id] = s
	}
	return out, nil
}

func (r *memStatusRepo) Save(_ context.Context, status *inventory.BatchStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	stored, exists := r.statuses[status.BatchID]
	switch {
	case status.IsNew() && exists:
		return shared.ErrConcurrencyConflict
	case !status.IsNew() && (!exists || stored.Version != status.Version):
		return shared.ErrConcurrencyConflict
	}
	status.Version++
	kept := *status
	kept.ClearDomainEvents()
	r.statuses[status.BatchID] = kept
	return nil
}

func (r *memStatusRepo) Delete(_ context.Context, batchID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.statuses, batchID)
	return nil
}

func (r *memStatusRepo) used(id uuid.UUID) decimal.Decimal {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.statuses[id]; ok {
		return s.UsedQuantity
	}
	return decimal.Zero
}

// memRequestRepo keeps production requests in memory
type memRequestRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]inventory.ProductionRequest
}

func newMemRequestRepo() *memRequestRepo {
	return &memRequestRepo{requests: make(map[uuid.UUID]inventory.ProductionRequest)}
}

func (r *memRequestRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.ProductionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	pr, ok := r.requests[id]
	if !ok {
		return nil, shared.NewDomainError("NOT_FOUND", "Production request not found")
	}
	return &pr, nil
}

func (r *memRequestRepo) FindAll(_ context.Context, filter shared.Filter) ([]*inventory.ProductionRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*inventory.ProductionRequest, 0)
	for _, pr := range r.requests {
		pr := pr
		if st, ok := filter.Filters["status"].(string); ok && string(pr.Status) != st {
			continue
		}
		out = append(out, &pr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > filter.Limit() {
		out = out[:filter.Limit()]
	}
	return out, nil
}

func (r *memRequestRepo) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	filter.PageSize = 1 << 30
	all, _ := r.FindAll(ctx, filter)
	return int64(len(all)), nil
}

func (r *memRequestRepo) Save(_ context.Context, pr *inventory.ProductionRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if stored, ok := r.requests[pr.ID]; ok {
		if stored.Version != pr.Version {
			return shared.ErrConcurrencyConflict
		}
		pr.Version++
	}
	kept := *pr
	kept.ClearDomainEvents()
	r.requests[pr.ID] = kept
	return nil
}

func (r *memRequestRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.requests, id)
	return nil
}

// MockProductionStockRepository is a mock implementation of ProductionStockRepository
type MockProductionStockRepository struct {
	mock.Mock
}

func (m *MockProductionStockRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.ProductionStockEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*inventory.ProductionStockEntry), args.Error(1)
}

func (m *MockProductionStockRepository) FindAll(ctx context.Context, filter shared.Filter) ([]*inventory.ProductionStockEntry, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*inventory.ProductionStockEntry), args.Error(1)
}

func (m *MockProductionStockRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductionStockRepository) Save(ctx context.Context, entry *inventory.ProductionStockEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockProductionStockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// fixture wires the in-memory repositories behind a no-op transaction scope
type fixture struct {
	batches   *memBatchRepo
	statuses  *memStatusRepo
	requests  *memRequestRepo
	stocks    *MockProductionStockRepository
	scope     *NoOpTransactionScope
	publisher *MockEventPublisher
	now       time.Time
}

func newFixture() *fixture {
	f := &fixture{
		batches:   newMemBatchRepo(),
		statuses:  newMemStatusRepo(),
		requests:  newMemRequestRepo(),
		stocks:    new(MockProductionStockRepository),
		publisher: NewMockEventPublisher(),
		now:       time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
	}
	f.scope = NewNoOpTransactionScope(f.batches, f.statuses, f.requests, f.stocks)
	return f
}

func (f *fixture) clock() time.Time { return f.now }

func dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// addBatch stores a batch received 10 days before f.now that expires in expiresIn days
func (f *fixture) addBatch(t *testing.T, product string, number int, qty float64, expiresInDays int) *inventory.Batch {
	t.Helper()
	b, err := inventory.NewBatch(product, number, dec(qty), "kg", "Lanka Mills",
		f.now.AddDate(0, 0, -10), f.now.AddDate(0, 0, expiresInDays))
	require.NoError(t, err)
	b.ClearDomainEvents()
	require.NoError(t, f.batches.Save(context.Background(), b))
	return b
}

// use records prior consumption directly in the status store
func (f *fixture) use(t *testing.T, b *inventory.Batch, qty float64) {
	t.Helper()
	s, err := f.statuses.FindOrDefault(context.Background(), b.ID)
	require.NoError(t, err)
	require.NoError(t, s.Consume(b, dec(qty), "setup"))
	require.NoError(t, f.statuses.Save(context.Background(), s))
}
