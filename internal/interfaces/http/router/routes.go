package router

import (
	"github.com/ecofoods/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers holds every HTTP handler mounted by RegisterAPI
type Handlers struct {
	Inventory         *handler.InventoryHandler
	BatchStatus       *handler.BatchStatusHandler
	MaterialStock     *handler.MaterialStockHandler
	ProductionRequest *handler.ProductionRequestHandler
	ProductionStock   *handler.ProductionStockHandler
	Expiry            *handler.ExpiryHandler
	Dashboard         *handler.DashboardHandler
	Events            *handler.EventStreamHandler
	Auth              *handler.AuthHandler
	Supplier          *handler.SupplierHandler
	MaterialRequest   *handler.MaterialRequestHandler
	Submission        *handler.SubmissionHandler
	SupplierPortal    *handler.SupplierPortalHandler
	System            *handler.SystemHandler
}

// Guards holds the authentication middleware applied per group
type Guards struct {
	// Authenticate validates the bearer token
	Authenticate gin.HandlerFunc
	// AuthenticateStream also accepts ?token= for EventSource clients
	AuthenticateStream gin.HandlerFunc
	// RequireAdmin and RequireSupplier check the role claim
	RequireAdmin    gin.HandlerFunc
	RequireSupplier gin.HandlerFunc
	// LoginLimit throttles register and login; nil disables it
	LoginLimit gin.HandlerFunc
	// ProtectInventory puts the inventory and production panels behind admin auth
	ProtectInventory bool
}

func (g Guards) admin() []gin.HandlerFunc {
	return []gin.HandlerFunc{g.Authenticate, g.RequireAdmin}
}

func (g Guards) public(h gin.HandlerFunc) []gin.HandlerFunc {
	if g.LoginLimit == nil {
		return []gin.HandlerFunc{h}
	}
	return []gin.HandlerFunc{g.LoginLimit, h}
}

// RegisterAPI adds the inventory, admin, supplier and auth groups to r
func RegisterAPI(r *Router, h Handlers, g Guards) {
	r.Register(inventoryRoutes(h, g)).
		Register(adminRoutes(h, g)).
		Register(supplierRoutes(h, g)).
		Register(authRoutes(h, g)).
		Register(systemRoutes(h))
}

func inventoryRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("inventory", "")

	panel := routes.Group("panel", "")
	if g.ProtectInventory {
		panel.Use(g.admin()...)
	}

	panel.GET("/inventories", h.Inventory.List)
	panel.POST("/inventories", h.Inventory.Create)
	panel.POST("/inventories/import", h.Inventory.Import)
	panel.GET("/inventories/:id", h.Inventory.GetByID)
	panel.PUT("/inventories/:id", h.Inventory.Update)
	panel.DELETE("/inventories/:id", h.Inventory.Delete)

	panel.GET("/batchStatus", h.BatchStatus.List)
	panel.GET("/batchStatus/:batchId", h.BatchStatus.Get)
	panel.PUT("/batchStatus/update/:batchId", h.BatchStatus.RecordUsage)
	panel.PUT("/batchStatus/delete/:batchId", h.BatchStatus.Retire)
	panel.PUT("/batchStatus/approveWithBatch", h.BatchStatus.ApproveWithBatch)

	panel.GET("/materialStocks", h.MaterialStock.List)
	panel.GET("/materialStocks/available", h.MaterialStock.Available)

	panel.GET("/productionRequests", h.ProductionRequest.List)
	panel.POST("/productionRequests", h.ProductionRequest.Create)
	panel.GET("/productionRequests/:id", h.ProductionRequest.GetByID)
	panel.PUT("/productionRequests/:id", h.ProductionRequest.Decide)
	panel.DELETE("/productionRequests/:id", h.ProductionRequest.Delete)

	panel.GET("/productionStocks", h.ProductionStock.List)
	panel.POST("/productionStocks", h.ProductionStock.Create)
	panel.GET("/productionStocks/:id", h.ProductionStock.GetByID)
	panel.PUT("/productionStocks/:id", h.ProductionStock.Update)
	panel.DELETE("/productionStocks/:id", h.ProductionStock.Delete)

	panel.GET("/expiry", h.Expiry.List)
	panel.GET("/expiry/report.xlsx", h.Expiry.Report)
	panel.GET("/dashboard", h.Dashboard.Overview)

	// EventSource cannot send headers, so the stream has its own guard
	stream := routes.Group("events", "/events")
	if g.ProtectInventory {
		stream.Use(g.AuthenticateStream, g.RequireAdmin)
	}
	stream.GET("/stream", h.Events.Stream)

	return routes
}

func adminRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("admin", "/Admin")
	routes.POST("/register", g.public(h.Auth.RegisterAdmin)...)
	routes.POST("/login", g.public(h.Auth.LoginAdmin)...)

	protected := routes.Group("admin-protected", "").Use(g.admin()...)

	protected.GET("/suppliers", h.Supplier.List)
	protected.POST("/suppliers", h.Supplier.Create)
	protected.GET("/suppliers/:id", h.Supplier.GetByID)
	protected.PUT("/suppliers/:id", h.Supplier.Update)
	protected.DELETE("/suppliers/:id", h.Supplier.Delete)
	protected.GET("/suppliers/:id/ratings", h.Supplier.ListRatings)
	protected.POST("/suppliers/:id/ratings", h.Supplier.Rate)

	protected.GET("/requests", h.MaterialRequest.List)
	protected.POST("/requests", h.MaterialRequest.Create)
	protected.GET("/requests/:id", h.MaterialRequest.GetByID)
	protected.PUT("/requests/:id", h.MaterialRequest.Update)
	protected.DELETE("/requests/:id", h.MaterialRequest.Delete)

	protected.GET("/submissions", h.Submission.List)
	protected.GET("/submissions/:id", h.Submission.GetByID)
	protected.POST("/submissions/:id/accept", h.Submission.Accept)
	protected.POST("/submissions/:id/reject", h.Submission.Reject)

	return routes
}

func supplierRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("supplier", "/supplier")
	routes.POST("/register", g.public(h.SupplierPortal.Register)...)
	routes.POST("/login", g.public(h.Auth.LoginSupplier)...)

	portal := routes.Group("supplier-protected", "").Use(g.Authenticate, g.RequireSupplier)
	portal.GET("/me", h.SupplierPortal.Me)
	portal.PUT("/me", h.SupplierPortal.UpdateMe)
	portal.GET("/me/earnings", h.SupplierPortal.Earnings)
	portal.GET("/requests", h.MaterialRequest.ListOpen)
	portal.GET("/submissions", h.Submission.ListMine)
	portal.POST("/submissions", h.Submission.Submit)

	return routes
}

func authRoutes(h Handlers, g Guards) *DomainGroup {
	routes := NewDomainGroup("auth", "/auth").Use(g.Authenticate)
	routes.POST("/logout", h.Auth.Logout)
	return routes
}

func systemRoutes(h Handlers) *DomainGroup {
	routes := NewDomainGroup("system", "/system")
	routes.GET("/info", h.System.Info)
	return routes
}
