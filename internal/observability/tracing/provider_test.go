package tracing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestSafeAttributesDropsCredentials(t *testing.T) {
	attrs := SafeAttributes(
		attribute.String("http.route", "/api/token"),
		attribute.String("password", "hunter2"),
		attribute.String("authorization", "Bearer x"),
	)
	assert.Len(t, attrs, 1)
	assert.Equal(t, attribute.Key("http.route"), attrs[0].Key)
}

func TestSafeErrorRedactsPassword(t *testing.T) {
	err := SafeError(errors.New("login failed: password mismatch for admin"))
	assert.Equal(t, "login failed: [redacted]", err.Error())
	assert.Nil(t, SafeError(nil))
}
