package handler

import (
	"net/http"

	"github.com/ecofoods/backend/internal/application/identity"
	"github.com/ecofoods/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles login, registration and logout
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// RegisterAdmin handles POST /Admin/register
func (h *AuthHandler) RegisterAdmin(c *gin.Context) {
	var req identity.RegisterAdminInput
	if !h.bindJSON(c, &req) {
		return
	}

	admin, err := h.authService.RegisterAdmin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, gin.H{"message": "Admin created", "admin": admin})
}

// LoginAdmin handles POST /Admin/login
func (h *AuthHandler) LoginAdmin(c *gin.Context) {
	var req identity.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.LoginAdmin(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// LoginSupplier handles POST /supplier/login
func (h *AuthHandler) LoginSupplier(c *gin.Context) {
	var req identity.LoginInput
	if !h.bindJSON(c, &req) {
		return
	}

	result, err := h.authService.LoginSupplier(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Logout handles POST /auth/logout. The presented token stays revoked
// until it would have expired anyway.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetJWTClaims(c)
	if claims == nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	err := h.authService.Logout(c.Request.Context(), identity.LogoutInput{
		TokenJTI: claims.ID,
		TTL:      claims.GetRemainingTTL(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully"})
}
