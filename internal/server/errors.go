package server

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/payables/internal/attachment"
	authdomain "github.com/smallbiznis/payables/internal/auth/domain"
	"github.com/smallbiznis/payables/internal/authorization"
	branchdomain "github.com/smallbiznis/payables/internal/branch/domain"
	invoicedomain "github.com/smallbiznis/payables/internal/invoice/domain"
	"github.com/smallbiznis/payables/internal/ratelimit"
	"github.com/smallbiznis/payables/internal/report"
	supplierdomain "github.com/smallbiznis/payables/internal/supplier/domain"
	"github.com/smallbiznis/payables/pkg/db"
	"gorm.io/gorm"
)

type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (v ValidationErrors) Error() string {
	return "validation error"
}

type errorPayload struct {
	Type    string            `json:"type"`
	Message string            `json:"message"`
	Errors  []ValidationError `json:"errors,omitempty"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrConflict       = errors.New("conflict")
	ErrInternal       = errors.New("internal_error")
	ErrNotFound       = errors.New("not_found")
	ErrInvalidRequest = errors.New("invalid_request")
)

// validationSentinels lists the domain errors reported as field-level
// validation failures. The field name is the code without its invalid_ prefix.
var validationSentinels = []error{
	ErrInvalidRequest,
	branchdomain.ErrInvalidID,
	branchdomain.ErrInvalidCode,
	branchdomain.ErrInvalidName,
	supplierdomain.ErrInvalidID,
	supplierdomain.ErrInvalidCompanyName,
	invoicedomain.ErrInvalidID,
	invoicedomain.ErrInvalidBranchID,
	invoicedomain.ErrInvalidSupplierID,
	invoicedomain.ErrInvalidAmount,
	invoicedomain.ErrInvalidNumber,
	invoicedomain.ErrInvalidDueDate,
	invoicedomain.ErrInvalidSentAt,
	invoicedomain.ErrInvalidRepetitions,
	invoicedomain.ErrInvalidMonth,
	invoicedomain.ErrInvalidYear,
	authdomain.ErrInvalidUsername,
	authdomain.ErrInvalidPassword,
	authdomain.ErrInvalidRole,
	attachment.ErrInvalidFile,
	attachment.ErrTooLarge,
	report.ErrUnsupportedFormat,
}

func ErrorHandlingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if c.Writer.Written() {
			return
		}

		lastErr := c.Errors.Last()
		if lastErr == nil {
			return
		}

		var limited *ratelimit.LimitedError
		if errors.As(lastErr.Err, &limited) && limited.RetryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(limited.RetryAfter.Seconds()+0.999)))
		}

		status, payload := mapError(lastErr.Err)
		c.Header("Content-Type", "application/json")
		c.AbortWithStatusJSON(status, errorResponse{Error: payload})
	}
}

func AbortWithError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)
	c.Abort()
}

func invalidRequestError() error {
	return newValidationError("request", "invalid_request", "invalid request")
}

func newValidationError(field, code, message string) error {
	return &ValidationErrors{
		Errors: []ValidationError{
			{
				Field:   field,
				Code:    code,
				Message: message,
			},
		},
	}
}

func mapError(err error) (int, errorPayload) {
	if err == nil {
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}

	if vErr := asValidationErrors(err); vErr != nil {
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors:  vErr.Errors,
		}
	}

	if sentinel := validationSentinel(err); sentinel != nil {
		code := sentinel.Error()
		return http.StatusBadRequest, errorPayload{
			Type:    "validation_error",
			Message: "validation error",
			Errors: []ValidationError{
				{
					Field:   validationErrorField(code),
					Code:    code,
					Message: validationErrorMessage(err, code),
				},
			},
		}
	}

	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, authdomain.ErrInvalidCredentials),
		errors.Is(err, authdomain.ErrInvalidToken),
		errors.Is(err, authorization.ErrInvalidActor):
		return http.StatusUnauthorized, errorPayload{
			Type:    "authentication_error",
			Message: "unauthorized",
		}
	case errors.Is(err, ErrForbidden),
		errors.Is(err, authorization.ErrForbidden):
		return http.StatusForbidden, errorPayload{
			Type:    "forbidden",
			Message: "forbidden",
		}
	case errors.Is(err, ratelimit.ErrLimited):
		return http.StatusTooManyRequests, errorPayload{
			Type:    "rate_limited",
			Message: "too many attempts, try again later",
		}
	case errors.Is(err, invoicedomain.ErrInvalidStatus):
		return http.StatusUnprocessableEntity, errorPayload{
			Type:    "invalid_status",
			Message: err.Error(),
		}
	case errors.Is(err, branchdomain.ErrInUse),
		errors.Is(err, supplierdomain.ErrInUse):
		return http.StatusConflict, errorPayload{
			Type:    "referential_integrity",
			Message: "record is still referenced by invoices",
		}
	case errors.Is(err, ErrConflict),
		errors.Is(err, branchdomain.ErrCodeExists),
		errors.Is(err, authdomain.ErrUserExists):
		return http.StatusConflict, errorPayload{
			Type:    "conflict",
			Message: conflictMessage(err),
		}
	case isNotFoundError(err):
		return http.StatusNotFound, errorPayload{
			Type:    "not_found",
			Message: "not found",
		}
	case errors.Is(err, db.ErrUpstream):
		var upstream *db.UpstreamError
		message := "upstream failure"
		if errors.As(err, &upstream) {
			message = upstream.Op + " failed: " + upstream.Err.Error()
		}
		return http.StatusBadGateway, errorPayload{
			Type:    "upstream_failure",
			Message: message,
		}
	default:
		return http.StatusInternalServerError, errorPayload{
			Type:    "internal_error",
			Message: "internal server error",
		}
	}
}

// classifyErrorForLog returns the error type and code written to the request log.
func classifyErrorForLog(err error) (string, string) {
	_, payload := mapError(err)
	code := payload.Type
	if len(payload.Errors) > 0 {
		code = payload.Errors[0].Code
	}
	return payload.Type, code
}

func asValidationErrors(err error) *ValidationErrors {
	var vErr *ValidationErrors
	if errors.As(err, &vErr) && vErr != nil {
		return vErr
	}
	return nil
}

func validationSentinel(err error) error {
	for _, sentinel := range validationSentinels {
		if errors.Is(err, sentinel) {
			return sentinel
		}
	}
	return nil
}

func isNotFoundError(err error) bool {
	switch {
	case errors.Is(err, ErrNotFound),
		errors.Is(err, branchdomain.ErrNotFound),
		errors.Is(err, supplierdomain.ErrNotFound),
		errors.Is(err, invoicedomain.ErrNotFound),
		errors.Is(err, authdomain.ErrUserNotFound),
		errors.Is(err, gorm.ErrRecordNotFound):
		return true
	default:
		return false
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, branchdomain.ErrCodeExists):
		return "branch code already exists"
	case errors.Is(err, authdomain.ErrUserExists):
		return "username already taken"
	default:
		return "conflict"
	}
}

func validationErrorField(code string) string {
	if code == "invalid_request" {
		return "request"
	}
	if strings.HasPrefix(code, "invalid_") {
		return strings.TrimPrefix(code, "invalid_")
	}
	if code == attachment.ErrTooLarge.Error() {
		return "file"
	}
	if code == report.ErrUnsupportedFormat.Error() {
		return "format"
	}
	return ""
}

// validationErrorMessage keeps the detail a domain error was wrapped with,
// e.g. "invalid_amount: must be greater than zero" becomes "must be greater than zero".
func validationErrorMessage(err error, code string) string {
	if code == "invalid_request" {
		return "invalid request"
	}
	msg := err.Error()
	if detail, ok := strings.CutPrefix(msg, code+": "); ok && detail != "" {
		return detail
	}
	if msg != code {
		return msg
	}
	return "invalid value"
}
