package handler

import (
	"github.com/ecofoods/backend/internal/application/identity"
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/ecofoods/backend/internal/infrastructure/logger"
	"github.com/ecofoods/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierHandler serves admin supplier management and ratings
type SupplierHandler struct {
	BaseHandler
	supplierService *supplierapp.SupplierService
	ratingService   *supplierapp.RatingService
	authService     *identity.AuthService
}

// NewSupplierHandler creates a new supplier handler
func NewSupplierHandler(
	supplierService *supplierapp.SupplierService,
	ratingService *supplierapp.RatingService,
	authService *identity.AuthService,
) *SupplierHandler {
	return &SupplierHandler{
		supplierService: supplierService,
		ratingService:   ratingService,
		authService:     authService,
	}
}

// List handles GET /Admin/suppliers. Each row carries totals recomputed
// from the supplier's submissions.
func (h *SupplierHandler) List(c *gin.Context) {
	var filter supplierapp.SupplierListFilter
	if !h.bindQuery(c, &filter) {
		return
	}
	suppliers, total, err := h.supplierService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"suppliers": suppliers,
		"meta":      listMeta(total, filter.Page, filter.PageSize),
	})
}

// GetByID handles GET /Admin/suppliers/:id
func (h *SupplierHandler) GetByID(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	sup, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sup)
}

// Create handles POST /Admin/suppliers
func (h *SupplierHandler) Create(c *gin.Context) {
	var req supplierapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sup, err := h.supplierService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, sup)
}

// Update handles PUT /Admin/suppliers/:id. A new password revokes the
// supplier's existing sessions.
func (h *SupplierHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	var req supplierapp.UpdateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sup, err := h.supplierService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if req.Password != "" {
		h.revokeSessions(c, sup.ID)
	}
	h.Success(c, sup)
}

// Delete handles DELETE /Admin/suppliers/:id. Submissions and ratings go
// with the supplier and its tokens stop working.
func (h *SupplierHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	if err := h.supplierService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.revokeSessions(c, id)
	h.Message(c, "Supplier deleted")
}

// revokeSessions invalidates the supplier's issued tokens. The change itself
// is already committed, so a failure is logged and the request succeeds.
func (h *SupplierHandler) revokeSessions(c *gin.Context, supplierID uuid.UUID) {
	if err := h.authService.RevokeUser(c.Request.Context(), supplierID); err != nil {
		logger.L(c.Request.Context()).Warn("Failed to revoke supplier sessions",
			zap.String("supplier_id", supplierID.String()), zap.Error(err))
	}
}

// Rate handles POST /Admin/suppliers/:id/ratings
func (h *SupplierHandler) Rate(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	var req supplierapp.CreateRatingRequest
	if !h.bindJSON(c, &req) {
		return
	}
	ratedBy := middleware.GetJWTUserID(c)
	if claims := middleware.GetJWTClaims(c); claims != nil && claims.Email != "" {
		ratedBy = claims.Email
	}
	rating, err := h.ratingService.Rate(c.Request.Context(), id, ratedBy, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, rating)
}

// ListRatings handles GET /Admin/suppliers/:id/ratings
func (h *SupplierHandler) ListRatings(c *gin.Context) {
	id, ok := h.parseID(c, "id", "supplier")
	if !ok {
		return
	}
	ratings, err := h.ratingService.ListForSupplier(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{"ratings": ratings})
}
