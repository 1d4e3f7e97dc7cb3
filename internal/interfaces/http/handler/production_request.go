package handler

import (
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ProductionRequestHandler serves the production request approval flow
type ProductionRequestHandler struct {
	BaseHandler
	requestService *inventoryapp.ProductionRequestService
}

// NewProductionRequestHandler creates a new production request handler
func NewProductionRequestHandler(requestService *inventoryapp.ProductionRequestService) *ProductionRequestHandler {
	return &ProductionRequestHandler{requestService: requestService}
}

// List handles GET /productionRequests
func (h *ProductionRequestHandler) List(c *gin.Context) {
	var filter inventoryapp.ProductionRequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"productionRequests": requests,
		"meta":               listMeta(total, filter.Page, filter.PageSize),
	})
}

// GetByID handles GET /productionRequests/:id
func (h *ProductionRequestHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production request")
	if !ok {
		return
	}
	req, err := h.requestService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// Create handles POST /productionRequests
func (h *ProductionRequestHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateProductionRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	created, err := h.requestService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, created)
}

// Decide handles PUT /productionRequests/:id with {Status, strategy?, batchNumber?}.
// A failed approval leaves the request pending and the error message is
// the reason stock could not be allocated.
func (h *ProductionRequestHandler) Decide(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production request")
	if !ok {
		return
	}
	var req inventoryapp.DecideProductionRequestRequest
	if !h.bindJSON(c, &req) {
		return
	}
	decided, err := h.requestService.Decide(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, decided)
}

// Delete handles DELETE /productionRequests/:id
func (h *ProductionRequestHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "production request")
	if !ok {
		return
	}
	if err := h.requestService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Production request deleted")
}
