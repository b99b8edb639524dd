package telemetry

import (
	"context"
	"errors"

	"github.com/crm/backend/internal/domain/shared"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope used for application spans
const TracerName = "github.com/crm/backend"

// StartServiceSpan starts an internal span named "<service>.<method>"
func StartServiceSpan(ctx context.Context, service, method string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(TracerName).Start(ctx, service+"."+method,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(append(attrs,
			attribute.String("service.name", service),
			attribute.String("service.method", method),
		)...),
	)
}

// RecordError marks span as failed. Validation failures and missing rows are
// client errors: they are recorded as events but leave the status unset.
func RecordError(span trace.Span, err error) {
	if err == nil || !span.IsRecording() {
		return
	}
	var verr *shared.ValidationError
	if errors.As(err, &verr) || errors.Is(err, shared.ErrNotFound) {
		span.AddEvent("client_error", trace.WithAttributes(attribute.String("error", err.Error())))
		return
	}
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// GetTraceID returns the trace id of the span in ctx, or "" when there is none
func GetTraceID(ctx context.Context) string {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.HasTraceID() {
		return ""
	}
	return sc.TraceID().String()
}
