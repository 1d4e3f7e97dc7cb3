package inventory

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatchService(f *fixture) *BatchService {
	svc := NewBatchService(f.batches, f.statuses)
	svc.SetEventPublisher(f.publisher)
	svc.SetClock(f.clock)
	return svc
}

func createReq(f *fixture, product string, number int, qty float64) CreateBatchRequest {
	return CreateBatchRequest{
		ProductName:  product,
		BatchNumber:  number,
		Quantity:     dec(qty),
		Unit:         "kg",
		SupplierName: "Lanka Mills",
		ReceivedDate: shared.NewDate(f.now),
		ExpiryDate:   shared.NewDate(f.now.AddDate(0, 0, 20)),
	}
}

func TestBatchService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)

		resp, err := svc.Create(ctx, createReq(f, "Sugar", 101, 100))
		require.NoError(t, err)
		assert.Equal(t, "Sugar", resp.ProductName)
		assert.True(t, resp.RemainingQuantity.Equal(dec(100)))
		assert.True(t, resp.UsedQuantity.IsZero())
		assert.Equal(t, 20, resp.DaysLeft)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeBatchReceived), 1)
	})

	t.Run("duplicate batch number", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		f.addBatch(t, "Sugar", 101, 50, 10)

		_, err := svc.Create(ctx, createReq(f, "Flour", 101, 10))
		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
	})

	t.Run("invalid quantity", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)

		_, err := svc.Create(ctx, createReq(f, "Sugar", 7, 0))
		require.Error(t, err)
		assert.Equal(t, 0, f.publisher.Count())
	})
}

func TestBatchService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("changes metadata", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		b := f.addBatch(t, "Sugar", 1, 100, 10)

		name := "Brown Sugar"
		same := dec(100)
		resp, err := svc.Update(ctx, b.ID, UpdateBatchRequest{ProductName: &name, Quantity: &same})
		require.NoError(t, err)
		assert.Equal(t, "Brown Sugar", resp.ProductName)
		assert.Equal(t, "kg", resp.Unit)
	})

	t.Run("rejects quantity change", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		b := f.addBatch(t, "Sugar", 1, 100, 10)

		qty := dec(120)
		_, err := svc.Update(ctx, b.ID, UpdateBatchRequest{Quantity: &qty})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cannot be changed")

		stored, _ := f.batches.FindByID(ctx, b.ID)
		assert.True(t, stored.Quantity.Equal(dec(100)))
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		name := "x"
		_, err := svc.Update(ctx, uuid.New(), UpdateBatchRequest{ProductName: &name})
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

func TestBatchService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("unused batch is removed", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		b := f.addBatch(t, "Sugar", 1, 100, 10)

		require.NoError(t, svc.Delete(ctx, b.ID))
		_, err := f.batches.FindByID(ctx, b.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Len(t, f.publisher.GetEventsByType(inventory.EventTypeBatchRetired), 1)
	})

	t.Run("consumed batch must be retired instead", func(t *testing.T) {
		f := newFixture()
		svc := newTestBatchService(f)
		b := f.addBatch(t, "Sugar", 1, 100, 10)
		f.use(t, b, 5)

		err := svc.Delete(ctx, b.ID)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
		_, err = f.batches.FindByID(ctx, b.ID)
		assert.NoError(t, err)
	})
}

func TestBatchService_List(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestBatchService(f)
	sugar := f.addBatch(t, "Sugar", 1, 100, 10)
	f.addBatch(t, "Flour", 2, 40, 10)
	f.use(t, sugar, 30)

	items, total, err := svc.List(ctx, BatchListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.True(t, items[0].UsedQuantity.Equal(dec(30)))
	assert.True(t, items[0].RemainingQuantity.Equal(dec(70)))
	assert.True(t, items[1].UsedQuantity.IsZero())

	items, total, err = svc.List(ctx, BatchListFilter{Material: " flour "})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, 2, items[0].BatchNumber)
}

type stubSheetParser struct {
	rows []BatchImportRow
	err  error
}

func (p stubSheetParser) ParseBatches(_ io.Reader) ([]BatchImportRow, error) {
	return p.rows, p.err
}

func TestBatchService_Import(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestBatchService(f)
	f.addBatch(t, "Salt", 3, 10, 10)

	rows := []BatchImportRow{
		{Row: 2, Request: createReq(f, "Sugar", 1, 100)},
		{Row: 3, Err: errors.New("invalid quantity \"abc\"")},
		{Row: 4, Request: createReq(f, "Salt", 3, 5)},
		{Row: 5, Request: createReq(f, "Flour", 2, 25)},
	}

	result, err := svc.Import(ctx, rows)
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 2, result.Skipped)
	require.Len(t, result.Errors, 2)
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Message, "already exists")

	all, _ := f.batches.ListAll(ctx)
	assert.Len(t, all, 3)
}

func TestBatchService_ImportSheet(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	svc := newTestBatchService(f)

	parser := stubSheetParser{rows: []BatchImportRow{{Row: 2, Request: createReq(f, "Sugar", 1, 100)}}}
	result, err := svc.ImportSheet(ctx, parser, strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)

	_, err = svc.ImportSheet(ctx, stubSheetParser{err: errors.New("not a spreadsheet")}, strings.NewReader(""))
	assert.EqualError(t, err, "not a spreadsheet")
}
