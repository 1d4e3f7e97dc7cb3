package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type usageRequest struct {
	Quantity decimal.Decimal `json:"quantity" binding:"decimal_gt0"`
	Reason   string          `json:"reason" binding:"required,max=10"`
}

func TestDecimalValidation(t *testing.T) {
	v := validator.New()
	RegisterDecimalValidation(v)

	type payload struct {
		Amount decimal.Decimal `validate:"decimal_gt0"`
	}
	assert.NoError(t, v.Struct(payload{Amount: decimal.NewFromFloat(0.5)}))
	assert.Error(t, v.Struct(payload{Amount: decimal.Zero}))
	assert.Error(t, v.Struct(payload{Amount: decimal.NewFromInt(-3)}))
}

func TestHandleValidationError(t *testing.T) {
	SetupValidator()
	router := gin.New()
	router.Use(RequestID())
	router.POST("/usage", func(c *gin.Context) {
		var req usageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})

	rec := serve(router, httptest.NewRequest(http.MethodPost, "/usage", strings.NewReader(`{"quantity":"2.5","reason":"batch"}`)))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, httptest.NewRequest(http.MethodPost, "/usage", strings.NewReader(`{"quantity":0}`)))
	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeError(t, rec)
	assert.Equal(t, "ERR_VALIDATION", resp.Error.Code)
	require.Len(t, resp.Error.Details, 2)

	byField := map[string]string{}
	for _, d := range resp.Error.Details {
		byField[d.Field] = d.Message
	}
	assert.Equal(t, "Must be a positive number", byField["quantity"])
	assert.Equal(t, "This field is required", byField["reason"])
}
