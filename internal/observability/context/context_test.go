package context

import (
	"context"
	"testing"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureCorrelationID(t *testing.T) {
	ctx, id := EnsureCorrelationID(context.Background())
	_, err := ulid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, id, CorrelationIDFromContext(ctx))

	again, same := EnsureCorrelationID(ctx)
	assert.Equal(t, id, same)
	assert.Equal(t, ctx, again)
}

func TestWithCorrelationIDIgnoresBlank(t *testing.T) {
	ctx := WithCorrelationID(context.Background(), "  ")
	assert.Empty(t, CorrelationIDFromContext(ctx))
}

func TestActorRoundTrip(t *testing.T) {
	ctx := WithActor(context.Background(), " ana ", "analyst")
	username, role := ActorFromContext(ctx)
	assert.Equal(t, "ana", username)
	assert.Equal(t, "analyst", role)
}
