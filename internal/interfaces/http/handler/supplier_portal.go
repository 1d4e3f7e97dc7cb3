package handler

import (
	"github.com/ecofoods/backend/internal/application/identity"
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/gin-gonic/gin"
)

// SupplierPortalHandler serves supplier self-service
type SupplierPortalHandler struct {
	BaseHandler
	supplierService *supplierapp.SupplierService
	authService     *identity.AuthService
}

// NewSupplierPortalHandler creates a new supplier portal handler
func NewSupplierPortalHandler(supplierService *supplierapp.SupplierService, authService *identity.AuthService) *SupplierPortalHandler {
	return &SupplierPortalHandler{
		supplierService: supplierService,
		authService:     authService,
	}
}

// Register handles POST /supplier/register. The new supplier is logged in
// right away.
func (h *SupplierPortalHandler) Register(c *gin.Context) {
	var req supplierapp.CreateSupplierRequest
	if !h.bindJSON(c, &req) {
		return
	}
	if _, err := h.supplierService.Create(c.Request.Context(), req); err != nil {
		h.HandleError(c, err)
		return
	}
	result, err := h.authService.LoginSupplier(c.Request.Context(), identity.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, result)
}

// Me handles GET /supplier/me
func (h *SupplierPortalHandler) Me(c *gin.Context) {
	id, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	sup, err := h.supplierService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sup)
}

// UpdateMe handles PUT /supplier/me. Email and password are admin-managed.
func (h *SupplierPortalHandler) UpdateMe(c *gin.Context) {
	id, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	var req supplierapp.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}
	sup, err := h.supplierService.UpdateProfile(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, sup)
}

// Earnings handles GET /supplier/me/earnings
func (h *SupplierPortalHandler) Earnings(c *gin.Context) {
	id, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}
	earnings, err := h.supplierService.Earnings(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, earnings)
}
