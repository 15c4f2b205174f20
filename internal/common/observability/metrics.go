package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	otelmetric "go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/sdk/metric"
)

// Observability records lookup-level metrics through OpenTelemetry. The zero
// value is usable and records nothing.
type Observability struct {
	meterProvider  *metric.MeterProvider
	meter          otelmetric.Meter
	lookupCounter  otelmetric.Int64Counter
	lookupDuration otelmetric.Float64Histogram
}

// New wires an OTel meter provider to the Prometheus exporter. On exporter
// failure it returns a no-op Observability and the error.
func New(serviceName string) (*Observability, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return &Observability{}, err
	}

	provider := metric.NewMeterProvider(metric.WithReader(exporter))
	otel.SetMeterProvider(provider)

	return newWithProvider(provider, serviceName), nil
}

func newWithProvider(provider *metric.MeterProvider, serviceName string) *Observability {
	meter := provider.Meter(serviceName)

	lookupCounter, _ := meter.Int64Counter(
		"lookups.processed",
		otelmetric.WithDescription("Number of enrollment lookups by classification"),
	)

	lookupDuration, _ := meter.Float64Histogram(
		"lookups.duration",
		otelmetric.WithDescription("Enrollment lookup duration"),
		otelmetric.WithUnit("ms"),
	)

	return &Observability{
		meterProvider:  provider,
		meter:          meter,
		lookupCounter:  lookupCounter,
		lookupDuration: lookupDuration,
	}
}

func (o *Observability) RecordLookup(ctx context.Context, classification string) {
	if o == nil || o.lookupCounter == nil {
		return
	}
	o.lookupCounter.Add(ctx, 1, otelmetric.WithAttributes(
		attribute.String("classification", classification),
	))
}

func (o *Observability) RecordLookupDuration(ctx context.Context, duration time.Duration, classification string) {
	if o == nil || o.lookupDuration == nil {
		return
	}
	o.lookupDuration.Record(ctx, float64(duration.Microseconds())/1000, otelmetric.WithAttributes(
		attribute.String("classification", classification),
	))
}

func (o *Observability) Shutdown() {
	if o == nil || o.meterProvider == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = o.meterProvider.Shutdown(ctx)
}
