package handler

import (
	"net/http"
	"strings"
	"testing"

	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createProductionRequest(t *testing.T, app *testApp, no, material, qty string, logToStock bool) inventoryapp.ProductionRequestResponse {
	t.Helper()
	w := app.do(t, http.MethodPost, "/productionRequests", gin.H{
		"RequestNo":            no,
		"Material":             material,
		"Quantity":             qty,
		"RequestedBy":          "Kitchen A",
		"RequestedDate":        dateIn(0),
		"logToProductionStock": logToStock,
	}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var pr inventoryapp.ProductionRequestResponse
	decode(t, w, &pr)
	return pr
}

func TestProductionRequestHandler_ApproveFEFO(t *testing.T) {
	app := newTestApp(t)
	later := createBatch(t, app, "Cinnamon", 1, "10", 40)
	sooner := createBatch(t, app, "Cinnamon", 2, "6", 10)

	pr := createProductionRequest(t, app, "PR-001", "cinnamon", "8", true)
	assert.Equal(t, string(inventory.ProductionRequestPending), pr.Status)

	w := app.do(t, http.MethodPut, "/productionRequests/"+pr.ID.String(), gin.H{"Status": "Approved"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved inventoryapp.ProductionRequestResponse
	decode(t, w, &approved)
	assert.Equal(t, string(inventory.ProductionRequestApproved), approved.Status)
	require.Len(t, approved.Allocations, 2)
	assert.Equal(t, sooner.BatchNumber, approved.Allocations[0].BatchNumber)
	assert.True(t, decimal.NewFromInt(6).Equal(approved.Allocations[0].Quantity))
	assert.Equal(t, later.BatchNumber, approved.Allocations[1].BatchNumber)
	assert.True(t, decimal.NewFromInt(2).Equal(approved.Allocations[1].Quantity))

	t.Run("stock is deducted", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/materialStocks/available?material=Cinnamon", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var stock inventoryapp.AvailableQuantityResponse
		decode(t, w, &stock)
		assert.True(t, decimal.NewFromInt(8).Equal(stock.Available), stock.Available.String())
	})

	t.Run("re-approval is rejected", func(t *testing.T) {
		w := app.do(t, http.MethodPut, "/productionRequests/"+pr.ID.String(), gin.H{"Status": "Approved"}, "")
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Equal(t, dto.ErrCodeInvalidState, decodeError(t, w).Error.Code)
	})

	t.Run("logged to production stock", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/productionStocks", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			ProductionStocks []inventoryapp.ProductionStockResponse `json:"productionStocks"`
		}
		decode(t, w, &body)
		require.Len(t, body.ProductionStocks, 1)
		assert.Equal(t, "PR-001", body.ProductionStocks[0].RequestNo)
	})
}

func TestProductionRequestHandler_ShortageLeavesRequestPending(t *testing.T) {
	app := newTestApp(t)
	createBatch(t, app, "Clove", 5, "3", 20)
	pr := createProductionRequest(t, app, "PR-002", "Clove", "4", false)

	w := app.do(t, http.MethodPut, "/productionRequests/"+pr.ID.String(), gin.H{"Status": "Approved"}, "")
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, dto.ErrCodeInsufficientStock, decodeError(t, w).Error.Code)

	w = app.do(t, http.MethodGet, "/productionRequests/"+pr.ID.String(), nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var stored inventoryapp.ProductionRequestResponse
	decode(t, w, &stored)
	assert.Equal(t, string(inventory.ProductionRequestPending), stored.Status)
	assert.Empty(t, stored.Allocations)
}

func TestProductionRequestHandler_SpecifiedBatchAndDeny(t *testing.T) {
	app := newTestApp(t)
	createBatch(t, app, "Pepper", 11, "5", 20)
	createBatch(t, app, "Pepper", 12, "5", 50)

	pr := createProductionRequest(t, app, "PR-003", "Pepper", "3", false)
	w := app.do(t, http.MethodPut, "/productionRequests/"+pr.ID.String(), gin.H{"Status": "Approved", "strategy": "SPECIFIED", "batchNumber": 12}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var approved inventoryapp.ProductionRequestResponse
	decode(t, w, &approved)
	require.Len(t, approved.Allocations, 1)
	assert.Equal(t, 12, approved.Allocations[0].BatchNumber)

	denied := createProductionRequest(t, app, "PR-004", "Pepper", "100", false)
	w = app.do(t, http.MethodPut, "/productionRequests/"+denied.ID.String(), gin.H{"Status": "Denied"}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decode(t, w, &approved)
	assert.Equal(t, string(inventory.ProductionRequestDenied), approved.Status)

	t.Run("unknown status", func(t *testing.T) {
		pr := createProductionRequest(t, app, "PR-005", "Pepper", "1", false)
		w := app.do(t, http.MethodPut, "/productionRequests/"+pr.ID.String(), gin.H{"Status": "Shipped"}, "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("list filters by status", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/productionRequests?status=Pending", nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var body struct {
			ProductionRequests []inventoryapp.ProductionRequestResponse `json:"productionRequests"`
			Meta               dto.ListMeta                             `json:"meta"`
		}
		decode(t, w, &body)
		require.Len(t, body.ProductionRequests, 1)
		assert.Equal(t, "PR-005", body.ProductionRequests[0].RequestNo)
	})
}

func TestExpiryHandler(t *testing.T) {
	app := newTestApp(t)
	createBatch(t, app, "Ginger", 31, "4", 3)
	createBatch(t, app, "Garlic", 32, "4", 7)
	createBatch(t, app, "Onion", 33, "4", 20)
	createBatch(t, app, "Potato", 34, "4", 45)

	w := app.do(t, http.MethodGet, "/expiry", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		ExpiringMaterials []inventoryapp.ExpiringMaterialResponse `json:"expiringMaterials"`
		Thresholds        struct {
			WindowDays int `json:"windowDays"`
		} `json:"thresholds"`
	}
	decode(t, w, &body)
	assert.Equal(t, 30, body.Thresholds.WindowDays)
	require.Len(t, body.ExpiringMaterials, 3)
	assert.Equal(t, inventory.ExpiryActionUseImmediately, body.ExpiringMaterials[0].Action)
	assert.Equal(t, inventory.ExpiryActionPrioritize, body.ExpiringMaterials[1].Action)
	assert.Equal(t, inventory.ExpiryActionMonitor, body.ExpiringMaterials[2].Action)

	t.Run("xlsx report", func(t *testing.T) {
		w := app.do(t, http.MethodGet, "/expiry/report.xlsx", nil, "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "spreadsheetml")
		assert.True(t, strings.HasPrefix(w.Header().Get("Content-Disposition"), `attachment; filename="expiry-report-`))
		assert.True(t, strings.HasPrefix(w.Body.String(), "PK"), "xlsx is a zip archive")
	})
}

func TestDashboardHandler(t *testing.T) {
	app := newTestApp(t)
	createBatch(t, app, "Ginger", 41, "4", 3)
	createBatch(t, app, "Potato", 42, "4", 90)
	createProductionRequest(t, app, "PR-010", "Ginger", "1", false)

	w := app.do(t, http.MethodGet, "/dashboard", nil, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var body inventoryapp.DashboardResponse
	decode(t, w, &body)
	assert.Equal(t, int64(2), body.TotalBatches)
	assert.Equal(t, 1, body.ExpiringSoon)
	assert.Equal(t, 1, body.Critical)
	assert.Len(t, body.RecentBatches, 2)
	assert.Equal(t, int64(1), body.PendingRequests)
}
