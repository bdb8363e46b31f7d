package server

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payables/internal/attachment"
	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/authorization"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/internal/ratelimit"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		typ    string
		field  string
	}{
		{"amount", fmt.Errorf("%w: must be greater than zero", invoicedomain.ErrInvalidAmount), http.StatusBadRequest, "validation_error", "amount"},
		{"branch ref", fmt.Errorf("%w: branch 9 does not exist", invoicedomain.ErrInvalidBranchID), http.StatusBadRequest, "validation_error", "branch_id"},
		{"too large", attachment.ErrTooLarge, http.StatusBadRequest, "validation_error", "file"},
		{"bad login", authdomain.ErrInvalidCredentials, http.StatusUnauthorized, "authentication_error", ""},
		{"forbidden", authorization.ErrForbidden, http.StatusForbidden, "forbidden", ""},
		{"limited", &ratelimit.LimitedError{RetryAfter: time.Minute}, http.StatusTooManyRequests, "rate_limited", ""},
		{"status", fmt.Errorf("%w: Concluída -> Aguardando Fatura", invoicedomain.ErrInvalidStatus), http.StatusUnprocessableEntity, "invalid_status", ""},
		{"branch in use", branchdomain.ErrInUse, http.StatusConflict, "referential_integrity", ""},
		{"supplier in use", supplierdomain.ErrInUse, http.StatusConflict, "referential_integrity", ""},
		{"duplicate code", branchdomain.ErrCodeExists, http.StatusConflict, "conflict", ""},
		{"missing invoice", invoicedomain.ErrNotFound, http.StatusNotFound, "not_found", ""},
		{"upstream", db.Upstream("invoice.list", errors.New("connection refused")), http.StatusBadGateway, "upstream_failure", ""},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "internal_error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, payload := mapError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.typ, payload.Type)
			if tt.field != "" {
				require.Len(t, payload.Errors, 1)
				assert.Equal(t, tt.field, payload.Errors[0].Field)
			}
		})
	}
}

func TestMapErrorKeepsValidationDetail(t *testing.T) {
	_, payload := mapError(fmt.Errorf("%w: must be greater than zero", invoicedomain.ErrInvalidAmount))
	require.Len(t, payload.Errors, 1)
	assert.Equal(t, "invalid_amount", payload.Errors[0].Code)
	assert.Equal(t, "must be greater than zero", payload.Errors[0].Message)

	_, payload = mapError(db.Upstream("invoice.list", errors.New("connection refused")))
	assert.Equal(t, "invoice.list failed: connection refused", payload.Message)
}

func TestErrorHandlingMiddlewareSetsRetryAfter(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(ErrorHandlingMiddleware())
	r.POST("/api/token", func(c *gin.Context) {
		AbortWithError(c, &ratelimit.LimitedError{RetryAfter: 90 * time.Second})
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/token", nil))

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "90", rec.Header().Get("Retry-After"))
}
