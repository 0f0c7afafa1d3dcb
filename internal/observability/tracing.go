package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Tracer returns a tracer for the given name
func Tracer(name string) trace.Tracer {
	return otel.Tracer(name)
}

// StartSpan starts a new span from context
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, opts...)
}

// StartStoreSpan starts a span for photo-store operations
func StartStoreSpan(ctx context.Context, operation string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("Store %s", operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("store.system", "json-file"),
			attribute.String("store.operation", operation),
		),
	)
}

// StartServiceSpan starts a span for service operations
func StartServiceSpan(ctx context.Context, service, operation string) (context.Context, trace.Span) {
	return StartSpan(ctx, fmt.Sprintf("%s.%s", service, operation),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("service.component", service),
			attribute.String("service.operation", operation),
		),
	)
}

// RecordError records an error on the span
func RecordError(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
}

// SetSuccess marks the span as successful
func SetSuccess(span trace.Span) {
	span.SetStatus(codes.Ok, "")
}

// AddEvent adds an event to the span
func AddEvent(span trace.Span, name string, attrs ...attribute.KeyValue) {
	span.AddEvent(name, trace.WithAttributes(attrs...))
}

// ArchiveMetrics holds archive-level business metrics
type ArchiveMetrics struct {
	mutations          metric.Int64Counter
	extractions        metric.Int64Counter
	extractionDuration metric.Float64Histogram
	collectionSize     metric.Int64UpDownCounter
}

// NewArchiveMetrics creates archive metrics instruments
func NewArchiveMetrics() (*ArchiveMetrics, error) {
	meter := otel.Meter(instrumentationName)

	mutations, err := meter.Int64Counter(
		"photoarc.catalog.mutations",
		metric.WithDescription("Total number of catalog mutations"),
		metric.WithUnit("{mutations}"),
	)
	if err != nil {
		return nil, err
	}

	extractions, err := meter.Int64Counter(
		"photoarc.extraction.count",
		metric.WithDescription("Total number of metadata extractions"),
		metric.WithUnit("{extractions}"),
	)
	if err != nil {
		return nil, err
	}

	extractionDuration, err := meter.Float64Histogram(
		"photoarc.extraction.duration",
		metric.WithDescription("Metadata extraction duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	collectionSize, err := meter.Int64UpDownCounter(
		"photoarc.collection.size",
		metric.WithDescription("Number of photos in the collection"),
		metric.WithUnit("{photos}"),
	)
	if err != nil {
		return nil, err
	}

	return &ArchiveMetrics{
		mutations:          mutations,
		extractions:        extractions,
		extractionDuration: extractionDuration,
		collectionSize:     collectionSize,
	}, nil
}

// RecordMutation records a catalog mutation (create, update, delete)
func (m *ArchiveMetrics) RecordMutation(ctx context.Context, operation string, delta int64) {
	if m == nil {
		return
	}
	m.mutations.Add(ctx, 1, metric.WithAttributes(Operation(operation)))
	if delta != 0 {
		m.collectionSize.Add(ctx, delta)
	}
}

// RecordExtraction records a metadata extraction attempt
func (m *ArchiveMetrics) RecordExtraction(ctx context.Context, success bool, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := []attribute.KeyValue{
		attribute.Bool("success", success),
	}
	m.extractions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.extractionDuration.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))
}
