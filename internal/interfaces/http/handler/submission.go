package handler

import (
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/gin-gonic/gin"
)

// SubmissionHandler serves supplier offers and their admin decisions
type SubmissionHandler struct {
	BaseHandler
	submissionService *supplierapp.SubmissionService
}

// NewSubmissionHandler creates a new submission handler
func NewSubmissionHandler(submissionService *supplierapp.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

// List handles GET /Admin/submissions
func (h *SubmissionHandler) List(c *gin.Context) {
	var filter supplierapp.SubmissionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	subs, total, err := h.submissionService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"submissions": subs,
		"meta":        listMeta(total, filter.Page, filter.PageSize),
	})
}

// GetByID handles GET /Admin/submissions/:id
func (h *SubmissionHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "submission")
	if !ok {
		return
	}
	sub, err := h.submissionService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sub)
}

// Accept handles POST /Admin/submissions/:id/accept with {paidAmount}.
// Accepting twice answers 400 "Submission already accepted".
func (h *SubmissionHandler) Accept(c *gin.Context) {
	id, ok := h.parseID(c, "id", "submission")
	if !ok {
		return
	}
	var req supplierapp.AcceptSubmissionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.submissionService.Accept(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"message":    "Submission accepted",
		"submission": result.Submission,
		"supplier":   result.Supplier,
	})
}

// Reject handles POST /Admin/submissions/:id/reject
func (h *SubmissionHandler) Reject(c *gin.Context) {
	id, ok := h.parseID(c, "id", "submission")
	if !ok {
		return
	}
	sub, err := h.submissionService.Reject(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"message": "Submission rejected", "submission": sub})
}

// Submit handles POST /supplier/submissions for the logged-in supplier
func (h *SubmissionHandler) Submit(c *gin.Context) {
	supplierID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req supplierapp.CreateSubmissionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sub, err := h.submissionService.Create(c.Request.Context(), supplierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sub)
}

// ListMine handles GET /supplier/submissions
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	supplierID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var filter supplierapp.SubmissionListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	subs, total, err := h.submissionService.ListForSupplier(c.Request.Context(), supplierID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"submissions": subs,
		"meta":        listMeta(total, filter.Page, filter.PageSize),
	})
}
