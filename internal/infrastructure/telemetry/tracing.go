package telemetry

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracerName identifies business spans opened by the service layer.
const tracerName = "credit-service"

// Span attribute keys for business spans. Metric label keys live in
// metrics.go as attribute.Key values; spans use plain strings.
const (
	SpanAttrCustomerID         = "customer_id"
	SpanAttrCreditScore        = "credit_score"
	SpanAttrRiskRating         = "risk_rating"
	SpanAttrNationalID         = "national_id"
	SpanAttrVerificationResult = "verification_result"
)

// StartSpan opens an internal span nested under whatever span the HTTP
// middleware put on the context. Close it with EndSpan so errors land
// on the span status.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.GetTracerProvider().Tracer(tracerName).Start(ctx, name,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
}

// EndSpan ends the span, recording err and marking the span failed
// when it is non-nil.
func EndSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
