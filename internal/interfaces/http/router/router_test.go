package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func reject(status int) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.AbortWithStatus(status)
	}
}

func routeSet(engine *gin.Engine) map[string]bool {
	set := make(map[string]bool)
	for _, r := range engine.Routes() {
		set[r.Method+" "+r.Path] = true
	}
	return set
}

func TestNormalizeBasePath(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", "/"},
		{"/", "/"},
		{"api", "/api"},
		{"/api/", "/api"},
		{" /v1 ", "/v1"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeBasePath(tt.in))
		})
	}
}

func TestDomainGroup_RegisterRoutes(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine, WithBasePath("/api"))

	ok := func(c *gin.Context) { c.String(http.StatusOK, c.FullPath()) }
	dg := NewDomainGroup("things", "/things")
	dg.GET("", ok).POST("", ok)
	dg.Group("nested", "/:id").GET("/parts", ok).DELETE("", ok)
	r.Register(dg).Setup()

	assert.Equal(t, "things", dg.Name())
	assert.Equal(t, "/things", dg.Prefix())

	routes := routeSet(engine)
	assert.True(t, routes["GET /api/things"])
	assert.True(t, routes["POST /api/things"])
	assert.True(t, routes["GET /api/things/:id/parts"])
	assert.True(t, routes["DELETE /api/things/:id"])

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/things/7/parts", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/api/things/:id/parts", w.Body.String())
}

func TestDomainGroup_MiddlewareReachesSubgroups(t *testing.T) {
	engine := gin.New()
	r := NewRouter(engine)

	dg := NewDomainGroup("guarded", "/guarded").Use(reject(http.StatusForbidden))
	dg.Group("inner", "/inner").GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.Register(dg).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded/inner/x", nil))
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func newAPI(t *testing.T, basePath string, g Guards) *gin.Engine {
	t.Helper()
	engine := gin.New()
	r := NewRouter(engine, WithBasePath(basePath))
	RegisterAPI(r, Handlers{}, g)
	require.NotPanics(t, r.Setup)
	return engine
}

func defaultGuards() Guards {
	return Guards{
		Authenticate:       reject(http.StatusUnauthorized),
		AuthenticateStream: reject(http.StatusUnauthorized),
		RequireAdmin:       reject(http.StatusForbidden),
		RequireSupplier:    reject(http.StatusForbidden),
	}
}

func TestRegisterAPI_Routes(t *testing.T) {
	routes := routeSet(newAPI(t, "", defaultGuards()))

	expected := []string{
		"GET /inventories",
		"POST /inventories",
		"POST /inventories/import",
		"GET /inventories/:id",
		"PUT /inventories/:id",
		"DELETE /inventories/:id",
		"GET /batchStatus",
		"GET /batchStatus/:batchId",
		"PUT /batchStatus/update/:batchId",
		"PUT /batchStatus/delete/:batchId",
		"PUT /batchStatus/approveWithBatch",
		"GET /materialStocks",
		"GET /materialStocks/available",
		"GET /productionRequests",
		"POST /productionRequests",
		"PUT /productionRequests/:id",
		"DELETE /productionRequests/:id",
		"GET /productionStocks/:id",
		"GET /expiry",
		"GET /expiry/report.xlsx",
		"GET /dashboard",
		"GET /events/stream",
		"POST /Admin/register",
		"POST /Admin/login",
		"GET /Admin/suppliers",
		"DELETE /Admin/suppliers/:id",
		"POST /Admin/suppliers/:id/ratings",
		"GET /Admin/requests",
		"POST /Admin/submissions/:id/accept",
		"POST /Admin/submissions/:id/reject",
		"POST /supplier/register",
		"POST /supplier/login",
		"GET /supplier/me",
		"PUT /supplier/me",
		"GET /supplier/me/earnings",
		"GET /supplier/requests",
		"POST /supplier/submissions",
		"POST /auth/logout",
		"GET /system/info",
	}
	for _, route := range expected {
		assert.True(t, routes[route], "missing route %s", route)
	}
}

func TestRegisterAPI_BasePath(t *testing.T) {
	routes := routeSet(newAPI(t, "/api", defaultGuards()))
	assert.True(t, routes["GET /api/inventories"])
	assert.True(t, routes["POST /api/Admin/login"])
	assert.False(t, routes["GET /inventories"])
}

func TestRegisterAPI_Guards(t *testing.T) {
	g := defaultGuards()
	g.LoginLimit = reject(http.StatusTooManyRequests)
	g.ProtectInventory = true
	engine := newAPI(t, "", g)

	tests := []struct {
		name   string
		method string
		path   string
		want   int
	}{
		{"admin routes need a token", http.MethodGet, "/Admin/suppliers", http.StatusUnauthorized},
		{"supplier routes need a token", http.MethodGet, "/supplier/me", http.StatusUnauthorized},
		{"logout needs a token", http.MethodPost, "/auth/logout", http.StatusUnauthorized},
		{"login is rate limited", http.MethodPost, "/Admin/login", http.StatusTooManyRequests},
		{"supplier register is rate limited", http.MethodPost, "/supplier/register", http.StatusTooManyRequests},
		{"protected inventory", http.MethodGet, "/inventories", http.StatusUnauthorized},
		{"protected stream", http.MethodGet, "/events/stream", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.want, w.Code)
		})
	}
}
