package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	l, err := New("debug")
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = New("warn")
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.InfoLevel))

	_, err = New("loud")
	require.ErrorContains(t, err, "invalid log level")
}

func TestWithTrace(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	WithTrace(context.Background(), base).Info("no span")

	spanCtx := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID: trace.TraceID{1, 2, 3},
		SpanID:  trace.SpanID{4, 5, 6},
	})
	ctx := trace.ContextWithSpanContext(context.Background(), spanCtx)
	WithTrace(ctx, base).Info("with span")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Empty(t, entries[0].Context)
	fields := entries[1].ContextMap()
	assert.Equal(t, spanCtx.TraceID().String(), fields["trace_id"])
	assert.Equal(t, spanCtx.SpanID().String(), fields["span_id"])
}
