package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

const dateOnlyLayout = "2006-01-02"

// bindJSON decodes the request body into dst, rejecting unknown fields and
// trailing data.
func bindJSON(c *gin.Context, dst any) error {
	if c.Request.Body == nil {
		return invalidRequestError()
	}
	dec := json.NewDecoder(c.Request.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return invalidRequestError()
	}
	return nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return newValidationError(typeErr.Field, "invalid_"+typeErr.Field, fmt.Sprintf("expected %s", typeErr.Type))
	}
	if field, ok := strings.CutPrefix(err.Error(), "json: unknown field "); ok {
		field = strings.Trim(field, `"`)
		return newValidationError(field, "unknown_field", "unknown field")
	}
	return invalidRequestError()
}

func parseOptionalInt(value string, field string) (int, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, newValidationError(field, "invalid_"+field, "must be an integer")
	}
	return parsed, nil
}
