// Package tracing starts child spans for the service layers. A span is only
// created under a valid parent, so requests filtered out by the HTTP
// middleware produce no spans at all.
package tracing

import (
	"context"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var noopSpan = trace.SpanFromContext(context.Background())

// Tracer is a named tracer with an optional span-name filter.
type Tracer struct {
	scope string
	allow func(name string) bool
}

// New returns a Tracer for scope. allow may be nil to accept every name.
func New(scope string, allow func(name string) bool) Tracer {
	return Tracer{scope: scope, allow: allow}
}

// Start opens a child span, or returns ctx with a noop span when there is no
// parent, the name is blank or the filter rejects it.
func (t Tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	if strings.TrimSpace(name) == "" {
		return ctx, noopSpan
	}
	if !trace.SpanFromContext(ctx).SpanContext().IsValid() {
		return ctx, noopSpan
	}
	if t.allow != nil && !t.allow(name) {
		return ctx, noopSpan
	}

	// Resolved per call so a provider installed after package init is used.
	return otel.Tracer(t.scope).Start(ctx, name, trace.WithAttributes(attrs...))
}

// HasPrefix builds a filter accepting span names that start with prefix.
func HasPrefix(prefix string) func(string) bool {
	return func(name string) bool {
		return strings.HasPrefix(name, prefix)
	}
}
