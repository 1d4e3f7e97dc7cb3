package handler

import (
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// DashboardHandler serves the inventory landing page summary
type DashboardHandler struct {
	BaseHandler
	dashboardService *inventoryapp.DashboardService
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(dashboardService *inventoryapp.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Overview handles GET /dashboard
func (h *DashboardHandler) Overview(c *gin.Context) {
	overview, err := h.dashboardService.Overview(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, overview)
}
