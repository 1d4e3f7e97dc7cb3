package handler

import (
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

type productionStockListQuery struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"pageSize" binding:"omitempty,min=1,max=500"`
}

// ProductionStockHandler serves the production department's request log
type ProductionStockHandler struct {
	BaseHandler
	stockService *inventoryapp.ProductionStockService
}

// NewProductionStockHandler creates a new production stock handler
func NewProductionStockHandler(stockService *inventoryapp.ProductionStockService) *ProductionStockHandler {
	return &ProductionStockHandler{stockService: stockService}
}

// List handles GET /productionStocks
func (h *ProductionStockHandler) List(c *gin.Context) {
	var q productionStockListQuery
	if !h.bindQuery(c, &q) {
		return
	}
	entries, total, err := h.stockService.List(c.Request.Context(), q.Search, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"productionStocks": entries,
		"meta":             listMeta(total, q.Page, q.PageSize),
	})
}

// GetByID handles GET /productionStocks/:id
func (h *ProductionStockHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production stock")
	if !ok {
		return
	}
	entry, err := h.stockService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Create handles POST /productionStocks
func (h *ProductionStockHandler) Create(c *gin.Context) {
	var in inventoryapp.ProductionRequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	entry, err := h.stockService.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, entry)
}

// Update handles PUT /productionStocks/:id
func (h *ProductionStockHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production stock")
	if !ok {
		return
	}
	var in inventoryapp.ProductionRequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	entry, err := h.stockService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// Delete handles DELETE /productionStocks/:id
func (h *ProductionStockHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production stock")
	if !ok {
		return
	}
	if err := h.stockService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Production stock entry deleted")
}
