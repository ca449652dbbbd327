package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"

	"traveler-classifier/internal/common/logger"
)

type Observability struct {
	meterProvider      *metric.MeterProvider
	meter              otelmetric.Meter
	classifications    otelmetric.Int64Counter
	classifyDuration   otelmetric.Float64Histogram
	sessionStoreErrors otelmetric.Int64Counter
}

// New wires an OpenTelemetry meter provider to the Prometheus exporter. When
// the exporter cannot be created the returned value records nothing.
func New(serviceName string, log logger.Logger) *Observability {
	exporter, err := prometheus.New()
	if err != nil {
		log.Warn("failed to create prometheus exporter", map[string]interface{}{"error": err})
		return &Observability{}
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	meter := provider.Meter(serviceName)

	classifications, _ := meter.Int64Counter(
		"classifications.processed",
		otelmetric.WithDescription("Number of survey submissions classified"),
	)

	classifyDuration, _ := meter.Float64Histogram(
		"classifications.duration",
		otelmetric.WithDescription("Time spent scoring and classifying one submission"),
		otelmetric.WithUnit("ms"),
	)

	sessionStoreErrors, _ := meter.Int64Counter(
		"session_store.errors",
		otelmetric.WithDescription("Failed session store operations"),
	)

	return &Observability{
		meterProvider:      provider,
		meter:              meter,
		classifications:    classifications,
		classifyDuration:   classifyDuration,
		sessionStoreErrors: sessionStoreErrors,
	}
}

// NewNoop returns an Observability that drops every measurement.
func NewNoop() *Observability {
	return &Observability{}
}

func (o *Observability) RecordClassification(ctx context.Context, source, personaKey string, duration time.Duration) {
	if o == nil {
		return
	}
	attrs := otelmetric.WithAttributes(
		attribute.String("source", source),
		attribute.String("persona", personaKey),
	)
	if o.classifications != nil {
		o.classifications.Add(ctx, 1, attrs)
	}
	if o.classifyDuration != nil {
		o.classifyDuration.Record(ctx, float64(duration.Microseconds())/1000, attrs)
	}
}

func (o *Observability) RecordSessionStoreError(ctx context.Context, operation string) {
	if o == nil || o.sessionStoreErrors == nil {
		return
	}
	o.sessionStoreErrors.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("operation", operation),
	))
}

func (o *Observability) Shutdown() {
	if o != nil && o.meterProvider != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		o.meterProvider.Shutdown(ctx)
	}
}
