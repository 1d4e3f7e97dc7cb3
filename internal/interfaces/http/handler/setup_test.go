package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	identityapp "github.com/ecofoods/backend/internal/application/identity"
	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	supplierapp "github.com/ecofoods/backend/internal/application/supplier"
	"github.com/ecofoods/backend/internal/domain/identity"
	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/infrastructure/auth"
	"github.com/ecofoods/backend/internal/infrastructure/config"
	"github.com/ecofoods/backend/internal/infrastructure/event"
	"github.com/ecofoods/backend/internal/infrastructure/persistence"
	"github.com/ecofoods/backend/internal/infrastructure/persistence/models"
	"github.com/ecofoods/backend/internal/infrastructure/spreadsheet"
	"github.com/ecofoods/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	gormlogger "gorm.io/gorm/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
	identity.PasswordCost = bcrypt.MinCost
}

// testApp wires real services over an in-memory SQLite database
type testApp struct {
	engine      *gin.Engine
	authService *identityapp.AuthService
	broadcaster *event.RefreshBroadcaster
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	db, err := persistence.NewDatabase(&config.DatabaseConfig{Driver: "sqlite", Path: ":memory:"}, zap.NewNop(), gormlogger.Silent, 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, db.DB.AutoMigrate(models.All()...))

	batchRepo := persistence.NewGormBatchRepository(db.DB)
	statusRepo := persistence.NewGormBatchStatusRepository(db.DB)
	requestRepo := persistence.NewGormProductionRequestRepository(db.DB)
	stockRepo := persistence.NewGormProductionStockRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)
	submissionRepo := persistence.NewGormSubmissionRepository(db.DB)
	ratingRepo := persistence.NewGormRatingRepository(db.DB)
	materialRequestRepo := persistence.NewGormMaterialRequestRepository(db.DB)
	adminRepo := persistence.NewGormAdminRepository(db.DB)
	inventoryTx := persistence.NewGormInventoryTransactionScope(db.DB)
	supplierTx := persistence.NewGormSupplierTransactionScope(db.DB)

	thresholds := inventory.DefaultExpiryThresholds()
	jwtService := auth.NewJWTService(config.JWTConfig{Secret: "test-secret-key-with-enough-bytes", Expiration: time.Hour, Issuer: "test"})
	blacklist := auth.NewInMemoryTokenBlacklist()
	authService := identityapp.NewAuthService(adminRepo, supplierRepo, jwtService, blacklist, zap.NewNop())
	supplierService := supplierapp.NewSupplierService(supplierRepo, submissionRepo, supplierTx, zap.NewNop())
	broadcaster := event.NewRefreshBroadcaster(zap.NewNop())
	excel := spreadsheet.NewExcel()

	inventoryHandler := NewInventoryHandler(inventoryapp.NewBatchService(batchRepo, statusRepo), excel)
	statusHandler := NewBatchStatusHandler(inventoryapp.NewBatchStatusService(batchRepo, statusRepo, inventoryTx))
	stockHandler := NewMaterialStockHandler(inventoryapp.NewStockService(batchRepo, statusRepo))
	requestHandler := NewProductionRequestHandler(inventoryapp.NewProductionRequestService(requestRepo, inventoryTx, inventory.AllocationStrategyFEFO))
	productionStockHandler := NewProductionStockHandler(inventoryapp.NewProductionStockService(stockRepo))
	expiryHandler := NewExpiryHandler(inventoryapp.NewExpiryService(batchRepo, statusRepo, thresholds), excel, spreadsheet.ContentType)
	dashboardHandler := NewDashboardHandler(inventoryapp.NewDashboardService(batchRepo, statusRepo, requestRepo, stockRepo, thresholds))
	authHandler := NewAuthHandler(authService)
	supplierHandler := NewSupplierHandler(supplierService, supplierapp.NewRatingService(ratingRepo, supplierTx), authService)
	materialRequestHandler := NewMaterialRequestHandler(supplierapp.NewMaterialRequestService(materialRequestRepo))
	submissionHandler := NewSubmissionHandler(supplierapp.NewSubmissionService(submissionRepo, supplierTx, zap.NewNop()))
	portalHandler := NewSupplierPortalHandler(supplierService, authService)
	eventsHandler := NewEventStreamHandler(broadcaster, WithStreamHeartbeat(time.Hour))

	authenticate := middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
	})
	admin := []gin.HandlerFunc{authenticate, middleware.RequireRole(string(identity.RoleAdmin))}
	sup := []gin.HandlerFunc{authenticate, middleware.RequireRole(string(identity.RoleSupplier))}

	engine := gin.New()
	engine.Use(middleware.RequestID())

	engine.GET("/inventories", inventoryHandler.List)
	engine.POST("/inventories", inventoryHandler.Create)
	engine.POST("/inventories/import", inventoryHandler.Import)
	engine.GET("/inventories/:id", inventoryHandler.GetByID)
	engine.PUT("/inventories/:id", inventoryHandler.Update)
	engine.DELETE("/inventories/:id", inventoryHandler.Delete)
	engine.GET("/batchStatus/:batchId", statusHandler.Get)
	engine.PUT("/batchStatus/update/:batchId", statusHandler.RecordUsage)
	engine.PUT("/batchStatus/approveWithBatch", statusHandler.ApproveWithBatch)
	engine.GET("/materialStocks", stockHandler.List)
	engine.GET("/materialStocks/available", stockHandler.Available)
	engine.GET("/productionRequests", requestHandler.List)
	engine.POST("/productionRequests", requestHandler.Create)
	engine.GET("/productionRequests/:id", requestHandler.GetByID)
	engine.PUT("/productionRequests/:id", requestHandler.Decide)
	engine.GET("/productionStocks", productionStockHandler.List)
	engine.GET("/expiry", expiryHandler.List)
	engine.GET("/expiry/report.xlsx", expiryHandler.Report)
	engine.GET("/dashboard", dashboardHandler.Overview)
	engine.GET("/events/stream", eventsHandler.Stream)

	engine.POST("/Admin/register", authHandler.RegisterAdmin)
	engine.POST("/Admin/login", authHandler.LoginAdmin)
	adminGroup := engine.Group("/Admin", admin...)
	adminGroup.GET("/suppliers", supplierHandler.List)
	adminGroup.POST("/suppliers", supplierHandler.Create)
	adminGroup.DELETE("/suppliers/:id", supplierHandler.Delete)
	adminGroup.POST("/suppliers/:id/ratings", supplierHandler.Rate)
	adminGroup.POST("/requests", materialRequestHandler.Create)
	adminGroup.GET("/submissions", submissionHandler.List)
	adminGroup.POST("/submissions/:id/accept", submissionHandler.Accept)
	adminGroup.POST("/submissions/:id/reject", submissionHandler.Reject)

	engine.POST("/supplier/register", portalHandler.Register)
	engine.POST("/supplier/login", authHandler.LoginSupplier)
	supplierGroup := engine.Group("/supplier", sup...)
	supplierGroup.GET("/me", portalHandler.Me)
	supplierGroup.GET("/me/earnings", portalHandler.Earnings)
	supplierGroup.GET("/requests", materialRequestHandler.ListOpen)
	supplierGroup.POST("/submissions", submissionHandler.Submit)
	supplierGroup.GET("/submissions", submissionHandler.ListMine)

	engine.POST("/auth/logout", authenticate, authHandler.Logout)

	return &testApp{
		engine:      engine,
		authService: authService,
		broadcaster: broadcaster,
	}
}

// do sends body as JSON and returns the recorded response
func (a *testApp) do(t *testing.T, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)
	return w
}

// adminToken returns a fresh token, registering the administrator on first use
func (a *testApp) adminToken(t *testing.T) string {
	t.Helper()
	credentials := gin.H{"email": "ops@ecofoods.lk", "password": "secret123"}
	w := a.do(t, http.MethodPost, "/Admin/login", credentials, "")
	if w.Code == http.StatusUnauthorized {
		w = a.do(t, http.MethodPost, "/Admin/register", gin.H{"name": "Ops", "email": "ops@ecofoods.lk", "password": "secret123"}, "")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		w = a.do(t, http.MethodPost, "/Admin/login", credentials, "")
	}
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result identityapp.LoginResult
	decode(t, w, &result)
	return result.Token
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), w.Body.String())
}

// errorBody is the shape of every error response
type errorBody struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   struct {
		Code      string `json:"code"`
		Message   string `json:"message"`
		RequestID string `json:"request_id"`
	} `json:"error"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	decode(t, w, &body)
	return body
}

func dateIn(days int) string {
	return time.Now().AddDate(0, 0, days).Format("2006-01-02")
}
