package otel

import (
	"context"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"storefront/pkg/logger"
)

func TestGetTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	tp := sdktrace.NewTracerProvider(sdktrace.WithSampler(sdktrace.AlwaysSample()))
	defer tp.Shutdown(context.Background())

	ctx := InjectTracing(context.Background(), tp.Tracer("test"))
	ctx, span := AddSpan(ctx, "op")
	defer span.End()

	id := GetTraceID(ctx)
	assert.Len(t, id, 32)
	assert.Equal(t, span.SpanContext().TraceID().String(), id)
}

func TestInitTracing_NoHost(t *testing.T) {
	log := logger.New(io.Discard, logger.LevelInfo, "test", GetTraceID)

	tp, shutdown, err := InitTracing(log, Config{ServiceName: "test"})
	require.NoError(t, err)
	require.NotNil(t, tp)

	ctx, span := AddSpan(context.Background(), "op")
	span.End()
	assert.False(t, span.SpanContext().IsSampled())
	assert.NotNil(t, ctx)
	assert.NoError(t, shutdown(context.Background()))
}
