package handler

import (
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/gin-gonic/gin"
)

// MaterialRequestHandler serves admin calls for materials
type MaterialRequestHandler struct {
	BaseHandler
	requestService *supplierapp.MaterialRequestService
}

// NewMaterialRequestHandler creates a new material request handler
func NewMaterialRequestHandler(requestService *supplierapp.MaterialRequestService) *MaterialRequestHandler {
	return &MaterialRequestHandler{requestService: requestService}
}

// List handles GET /Admin/requests
func (h *MaterialRequestHandler) List(c *gin.Context) {
	var filter supplierapp.MaterialRequestListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	requests, total, err := h.requestService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"requests": requests,
		"meta":     listMeta(total, filter.Page, filter.PageSize),
	})
}

// ListOpen handles GET /supplier/requests, the requests suppliers may answer
func (h *MaterialRequestHandler) ListOpen(c *gin.Context) {
	requests, err := h.requestService.ListOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"requests": requests})
}

// GetByID handles GET /Admin/requests/:id
func (h *MaterialRequestHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material request")
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

// Create handles POST /Admin/requests
func (h *MaterialRequestHandler) Create(c *gin.Context) {
	var in supplierapp.MaterialRequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	req, err := h.requestService.Create(c.Request.Context(), in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, req)
}

// Update handles PUT /Admin/requests/:id
func (h *MaterialRequestHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material request")
	if !ok {
		return
	}
	var in supplierapp.MaterialRequestInput
	if !h.bindJSON(c, &in) {
		return
	}
	req, err := h.requestService.Update(c.Request.Context(), id, in)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, req)
}

// Delete handles DELETE /Admin/requests/:id
func (h *MaterialRequestHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "material request")
	if !ok {
		return
	}
	if err := h.requestService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Message(c, "Material request deleted")
}
