package persistence

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateSortOrder(t *testing.T) {
	tests := map[string]string{
		"asc":     "ASC",
		" ASC ":   "ASC",
		"desc":    "DESC",
		"":        "DESC",
		"sideway": "DESC",
	}
	for in, want := range tests {
		assert.Equal(t, want, ValidateSortOrder(in), in)
	}
}

func TestValidateSortField(t *testing.T) {
	assert.Equal(t, "expiry_date", ValidateSortField("expiry_date", BatchSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("", BatchSortFields, "created_at"))
	assert.Equal(t, "created_at", ValidateSortField("password_hash", SupplierSortFields, "created_at"))
}

func TestSQLInjectionPrevention(t *testing.T) {
	attacks := []string{
		"created_at; DROP TABLE batches;--",
		"1=1",
		"name OR 1=1",
		"(SELECT password_hash FROM admins)",
	}
	for _, attack := range attacks {
		for _, allowed := range []map[string]bool{BatchSortFields, ProductionRequestSortFields, ProductionStockSortFields, SupplierSortFields, MaterialRequestSortFields, SubmissionSortFields} {
			assert.Equal(t, "created_at", ValidateSortField(attack, allowed, "created_at"))
		}
	}
}

func TestSearchPattern(t *testing.T) {
	assert.Equal(t, "%sugar%", searchPattern("  Sugar "))
	assert.Equal(t, `%100\%\_x%`, searchPattern("100%_x"))
}
