package handler

import (
	"net/http"

	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/ecofoods/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// importFormField is the multipart field carrying the spreadsheet
const importFormField = "file"

// InventoryHandler serves batch intake and listing
type InventoryHandler struct {
	BaseHandler
	batchService *inventoryapp.BatchService
	parser       inventoryapp.BatchSheetParser
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(batchService *inventoryapp.BatchService, parser inventoryapp.BatchSheetParser) *InventoryHandler {
	return &InventoryHandler{
		batchService: batchService,
		parser:       parser,
	}
}

// List handles GET /inventories
func (h *InventoryHandler) List(c *gin.Context) {
	var filter inventoryapp.BatchListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	batches, total, err := h.batchService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{
		"inventories": batches,
		"meta":        listMeta(total, filter.Page, filter.PageSize),
	})
}

// GetByID handles GET /inventories/:id
func (h *InventoryHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "batch")
	if !ok {
		return
	}

	batch, err := h.batchService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Create handles POST /inventories
func (h *InventoryHandler) Create(c *gin.Context) {
	var req inventoryapp.CreateBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.batchService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, batch)
}

// Update handles PUT /inventories/:id
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "batch")
	if !ok {
		return
	}

	var req inventoryapp.UpdateBatchRequest
	if !h.bindJSON(c, &req) {
		return
	}

	batch, err := h.batchService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, batch)
}

// Delete handles DELETE /inventories/:id
func (h *InventoryHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "batch")
	if !ok {
		return
	}

	if err := h.batchService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.Message(c, "Batch deleted")
}

// Import handles POST /inventories/import, a multipart xlsx upload.
// Rows that fail validation are reported and skipped.
func (h *InventoryHandler) Import(c *gin.Context) {
	fileHeader, err := c.FormFile(importFormField)
	if err != nil {
		h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, "A spreadsheet must be uploaded in the \"file\" field")
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		h.BadRequest(c, "Uploaded file cannot be read")
		return
	}
	defer file.Close()

	result, err := h.batchService.ImportSheet(c.Request.Context(), h.parser, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
