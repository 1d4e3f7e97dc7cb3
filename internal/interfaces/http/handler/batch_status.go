package handler

import (
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// BatchStatusHandler serves consumption and retirement of batches
type BatchStatusHandler struct {
	BaseHandler
	statusService *inventoryapp.BatchStatusService
}

// NewBatchStatusHandler creates a new batch status handler
func NewBatchStatusHandler(statusService *inventoryapp.BatchStatusService) *BatchStatusHandler {
	return &BatchStatusHandler{statusService: statusService}
}

// List handles GET /batchStatus
func (h *BatchStatusHandler) List(c *gin.Context) {
	statuses, err := h.statusService.List(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"statuses": statuses})
}

// Get handles GET /batchStatus/:batchId. A batch nobody touched yet
// answers with the default status.
func (h *BatchStatusHandler) Get(c *gin.Context) {
	batchID, ok := h.parseID(c, "batchId", "batch")
	if !ok {
		return
	}
	status, err := h.statusService.Get(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// RecordUsage handles PUT /batchStatus/update/:batchId
func (h *BatchStatusHandler) RecordUsage(c *gin.Context) {
	batchID, ok := h.parseID(c, "batchId", "batch")
	if !ok {
		return
	}
	var req inventoryapp.RecordUsageRequest
	if !h.bindJSON(c, &req) {
		return
	}

	status, err := h.statusService.RecordUsage(c.Request.Context(), batchID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// Retire handles PUT /batchStatus/delete/:batchId
func (h *BatchStatusHandler) Retire(c *gin.Context) {
	batchID, ok := h.parseID(c, "batchId", "batch")
	if !ok {
		return
	}
	status, err := h.statusService.Retire(c.Request.Context(), batchID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}

// ApproveWithBatch handles PUT /batchStatus/approveWithBatch. On shortage
// the error message names the batch and what is left of it.
func (h *BatchStatusHandler) ApproveWithBatch(c *gin.Context) {
	var req inventoryapp.ApproveWithBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}
	status, err := h.statusService.ApproveWithBatch(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, status)
}
