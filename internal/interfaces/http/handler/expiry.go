package handler

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	inventoryapp "github.com/ecofoods/backend/internal/application/inventory"
	"github.com/gin-gonic/gin"
)

// ExpiryHandler serves the expiry tracking view and its spreadsheet export
type ExpiryHandler struct {
	BaseHandler
	expiryService *inventoryapp.ExpiryService
	writer        inventoryapp.ExpiryReportWriter
	contentType   string
}

// NewExpiryHandler creates a new expiry handler. contentType is sent with
// the files writer produces.
func NewExpiryHandler(expiryService *inventoryapp.ExpiryService, writer inventoryapp.ExpiryReportWriter, contentType string) *ExpiryHandler {
	return &ExpiryHandler{
		expiryService: expiryService,
		writer:        writer,
		contentType:   contentType,
	}
}

// List handles GET /expiry
func (h *ExpiryHandler) List(c *gin.Context) {
	rows, err := h.expiryService.ExpiringMaterials(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	t := h.expiryService.Thresholds()
	h.Success(c, gin.H{
		"expiringMaterials": rows,
		"thresholds": gin.H{
			"windowDays":     t.Window,
			"prioritizeDays": t.Prioritize,
			"immediateDays":  t.Immediate,
		},
	})
}

// Report handles GET /expiry/report.xlsx. The workbook is rendered in
// memory so a failure can still be answered with a JSON error.
func (h *ExpiryHandler) Report(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.expiryService.ExportReport(c.Request.Context(), h.writer, &buf); err != nil {
		h.HandleError(c, err)
		return
	}

	filename := fmt.Sprintf("expiry-report-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, h.contentType, buf.Bytes())
}
