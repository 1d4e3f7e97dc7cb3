package handler

import (
	"strconv"

	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// MaterialStockHandler serves per-material stock totals
type MaterialStockHandler struct {
	BaseHandler
	stockService *inventoryapp.StockService
}

// NewMaterialStockHandler creates a new material stock handler
func NewMaterialStockHandler(stockService *inventoryapp.StockService) *MaterialStockHandler {
	return &MaterialStockHandler{stockService: stockService}
}

// List handles GET /materialStocks[?excludeExpired=true]
func (h *MaterialStockHandler) List(c *gin.Context) {
	var q inventoryapp.MaterialStocksQuery
	if !h.bindQuery(c, &q) {
		return
	}
	stocks, err := h.stockService.MaterialStocks(c.Request.Context(), q)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"materialStocks": stocks})
}

// Available handles GET /materialStocks/available?material=...
func (h *MaterialStockHandler) Available(c *gin.Context) {
	material := c.Query("material")
	if material == "" {
		h.BadRequest(c, "material is required")
		return
	}
	excludeExpired, _ := strconv.ParseBool(c.Query("excludeExpired"))

	resp, err := h.stockService.AvailableQuantity(c.Request.Context(), material, excludeExpired)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
