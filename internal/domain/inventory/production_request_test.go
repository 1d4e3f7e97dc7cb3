package inventory

import (
	"testing"

	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRequest(t *testing.T, qty float64) *ProductionRequest {
	t.Helper()
	r, err := NewProductionRequest(ProductionRequestDetails{
		RequestNo:   "PR-001",
		Material:    " Sugar ",
		Quantity:    dec(qty),
		RequestedBy: "Nimal",
	})
	require.NoError(t, err)
	return r
}

func TestNewProductionRequest(t *testing.T) {
	r := newTestRequest(t, 50)
	assert.Equal(t, ProductionRequestPending, r.Status)
	assert.Equal(t, "Sugar", r.Material)
	assert.False(t, r.RequestedDate.IsZero())

	_, err := NewProductionRequest(ProductionRequestDetails{RequestNo: "PR-2", Material: "Salt", RequestedBy: "x"})
	assert.Error(t, err, "zero quantity")
	_, err = NewProductionRequest(ProductionRequestDetails{Material: "Salt", Quantity: dec(1), RequestedBy: "x"})
	assert.Error(t, err, "missing request number")
}

func TestParseProductionRequestStatus(t *testing.T) {
	st, err := ParseProductionRequestStatus("approved")
	require.NoError(t, err)
	assert.Equal(t, ProductionRequestApproved, st)
	st, err = ParseProductionRequestStatus("DENIED")
	require.NoError(t, err)
	assert.Equal(t, ProductionRequestDenied, st)
	_, err = ParseProductionRequestStatus("archived")
	assert.Error(t, err)
}

func TestProductionRequest_Approve(t *testing.T) {
	allocs := []Allocation{{BatchID: uuid.New(), BatchNumber: 7, Quantity: dec(50)}}

	t.Run("pending to approved", func(t *testing.T) {
		r := newTestRequest(t, 50)
		require.NoError(t, r.Approve(allocs))
		assert.Equal(t, ProductionRequestApproved, r.Status)
		assert.NotNil(t, r.DecidedAt)
		assert.Equal(t, allocs, r.Allocations)
		require.Len(t, r.GetDomainEvents(), 1)
		assert.Equal(t, EventTypeProductionRequestApproved, r.GetDomainEvents()[0].EventType())
	})

	t.Run("re-approval is rejected", func(t *testing.T) {
		r := newTestRequest(t, 50)
		require.NoError(t, r.Approve(allocs))
		err := r.Approve(allocs)
		assert.ErrorIs(t, err, shared.ErrInvalidState)
	})

	t.Run("allocations must match quantity", func(t *testing.T) {
		r := newTestRequest(t, 60)
		assert.Error(t, r.Approve(allocs))
		assert.Error(t, r.Approve(nil))
		assert.True(t, r.IsPending())
	})

	t.Run("denied request cannot be approved", func(t *testing.T) {
		r := newTestRequest(t, 50)
		require.NoError(t, r.Deny())
		assert.ErrorIs(t, r.Approve(allocs), shared.ErrInvalidState)
	})
}

func TestProductionRequest_Deny(t *testing.T) {
	r := newTestRequest(t, 50)
	require.NoError(t, r.Deny())
	assert.Equal(t, ProductionRequestDenied, r.Status)
	assert.Empty(t, r.Allocations)
	assert.True(t, r.Status.IsTerminal())
	assert.ErrorIs(t, r.Deny(), shared.ErrInvalidState)
}

func TestProductionStockEntry(t *testing.T) {
	d := ProductionRequestDetails{RequestNo: "PR-9", Material: "Salt", Quantity: dec(3), RequestedBy: "Kamal"}
	e, err := NewProductionStockEntry(d)
	require.NoError(t, err)
	requested := e.RequestedDate

	d.Note = "urgent"
	require.NoError(t, e.Update(d))
	assert.Equal(t, "urgent", e.Note)
	assert.Equal(t, requested, e.RequestedDate, "zero date keeps the stored value")

	d.Quantity = dec(0)
	assert.Error(t, e.Update(d))
}
