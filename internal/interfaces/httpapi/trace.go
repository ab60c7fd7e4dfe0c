package httpapi

import (
	"context"

	"github.com/riskibarqy/match-intake/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// Middleware and helpers run inside the otelhttp span; only handlers get
// their own.
var shouldCreateHTTPAPISpan = tracing.HasPrefix("httpapi.Handler.")

var apiTracer = tracing.New("match-intake/internal/interfaces/httpapi", shouldCreateHTTPAPISpan)

func startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return apiTracer.Start(ctx, name)
}
