// Package context carries request-scoped correlation values used by logs and traces.
package context

import (
	"context"
	"strings"

	"github.com/oklog/ulid/v2"
)

type ctxKey string

const (
	requestIDKey     ctxKey = "obs.request_id"
	correlationIDKey ctxKey = "obs.correlation_id"
	actorKey         ctxKey = "obs.actor"
	roleKey          ctxKey = "obs.role"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, strings.TrimSpace(requestID))
}

func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

// WithCorrelationID tags work that does not start from an HTTP request,
// such as a scheduler run.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	id = strings.TrimSpace(id)
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationIDKey, id)
}

func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(correlationIDKey).(string)
	return v
}

// EnsureCorrelationID returns ctx with a correlation id, generating a ULID
// when none is set.
func EnsureCorrelationID(ctx context.Context) (context.Context, string) {
	if id := CorrelationIDFromContext(ctx); id != "" {
		return ctx, id
	}
	id := ulid.Make().String()
	return WithCorrelationID(ctx, id), id
}

// WithActor records the authenticated username and its role.
func WithActor(ctx context.Context, username, role string) context.Context {
	ctx = context.WithValue(ctx, actorKey, strings.TrimSpace(username))
	return context.WithValue(ctx, roleKey, strings.TrimSpace(role))
}

func ActorFromContext(ctx context.Context) (username string, role string) {
	if ctx == nil {
		return "", ""
	}
	username, _ = ctx.Value(actorKey).(string)
	role, _ = ctx.Value(roleKey).(string)
	return username, role
}
