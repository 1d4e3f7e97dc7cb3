package persistence

import (
	"strings"

	"github.com/ecofoods/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	if strings.ToUpper(strings.TrimSpace(orderDir)) == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed != "" && allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// BatchSortFields contains allowed sort fields for batches
var BatchSortFields = map[string]bool{
	"created_at":    true,
	"updated_at":    true,
	"product_name":  true,
	"batch_number":  true,
	"quantity":      true,
	"supplier_name": true,
	"received_at":   true,
	"expiry_date":   true,
}

// ProductionRequestSortFields contains allowed sort fields for production requests
var ProductionRequestSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"request_no":     true,
	"material":       true,
	"quantity":       true,
	"requested_date": true,
	"status":         true,
}

// ProductionStockSortFields contains allowed sort fields for the production stock log
var ProductionStockSortFields = map[string]bool{
	"created_at":     true,
	"updated_at":     true,
	"request_no":     true,
	"material":       true,
	"quantity":       true,
	"requested_date": true,
}

// SupplierSortFields contains allowed sort fields for suppliers
var SupplierSortFields = map[string]bool{
	"created_at":       true,
	"name":             true,
	"email":            true,
	"company":          true,
	"earnings":         true,
	"pending_payments": true,
	"rating_average":   true,
}

// MaterialRequestSortFields contains allowed sort fields for material requests
var MaterialRequestSortFields = map[string]bool{
	"created_at": true,
	"title":      true,
	"due_date":   true,
	"status":     true,
}

// SubmissionSortFields contains allowed sort fields for submissions
var SubmissionSortFields = map[string]bool{
	"created_at":      true,
	"updated_at":      true,
	"status":          true,
	"supplier_amount": true,
	"paid_amount":     true,
}

// applyPage orders and paginates query using a whitelisted sort field
func applyPage(query *gorm.DB, filter shared.Filter, allowed map[string]bool, defaultField string) *gorm.DB {
	field := ValidateSortField(filter.OrderBy, allowed, defaultField)
	query = query.Order(field + " " + ValidateSortOrder(filter.OrderDir))
	if filter.Page > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}
	return query
}

// searchPattern builds a case-insensitive LIKE pattern, escaping wildcards
func searchPattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(strings.TrimSpace(term))) + "%"
}
