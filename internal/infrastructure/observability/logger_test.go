package observability

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
)

func TestLoggerFromContext_CarriesSession(t *testing.T) {
	var buf bytes.Buffer
	previous := log.Logger
	log.Logger = zerolog.New(&buf)
	t.Cleanup(func() { log.Logger = previous })

	ctx := ContextWithSession(context.Background(), "s-42")
	LoggerFromContext(ctx).Info().Msg("hello")

	assert.Contains(t, buf.String(), `"session_id":"s-42"`)
	assert.NotContains(t, buf.String(), "trace_id")
}

func TestContextWithSession_EmptyIDIsNoop(t *testing.T) {
	ctx := context.Background()
	assert.Equal(t, ctx, ContextWithSession(ctx, ""))
	assert.Empty(t, SessionFromContext(ctx))
}
