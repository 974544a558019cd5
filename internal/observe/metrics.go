// Package observe provides observability primitives for dikte: OpenTelemetry
// metrics, tracing, trace-aware logging, and HTTP middleware that ties them
// together.
//
// Metrics are recorded through the OpenTelemetry Metrics API. A Prometheus
// exporter bridge is installed by [InitProvider] so that metrics can be
// scraped via /metrics. Tests should use [NewMetrics] with their own
// [metric.MeterProvider] to avoid cross-test pollution.
package observe

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// meterName is the instrumentation scope name used for all dikte metrics.
const meterName = "github.com/MrWong99/dikte"

// Transcript outcomes recorded on [Metrics.Transcripts].
const (
	StatusOK       = "ok"
	StatusRejected = "rejected"
	StatusEmpty    = "empty"
	StatusError    = "error"
)

// Metrics holds all OpenTelemetry metric instruments for the application.
// All fields are safe for concurrent use.
type Metrics struct {
	// --- Latency histograms ---

	// PipelineDuration tracks the time spent normalising one transcript.
	PipelineDuration metric.Float64Histogram

	// StorageDuration tracks persistence latency. Attributes: backend, op.
	StorageDuration metric.Float64Histogram

	// HTTPRequestDuration tracks HTTP request latency by method and path.
	HTTPRequestDuration metric.Float64Histogram

	// --- Counters ---

	// Transcripts counts processed transcripts. Attributes: language, status.
	Transcripts metric.Int64Counter

	// CorrectionsLearned counts pairs fed into the correction store.
	// Attribute: source ("pipeline", "edit", "stem", "manual").
	CorrectionsLearned metric.Int64Counter

	// CorrectionsApplied counts replacements made by the pipeline.
	// Attribute: method.
	CorrectionsApplied metric.Int64Counter

	// ToolCalls counts MCP tool invocations. Attributes: tool, status.
	ToolCalls metric.Int64Counter

	// StorageErrors counts failed persistence operations. Attributes:
	// backend, op.
	StorageErrors metric.Int64Counter

	// --- Gauges ---

	// Corrections reports the size of the correction store per status.
	Corrections metric.Int64Gauge
}

// latencyBuckets are histogram bucket boundaries in seconds. Normalisation is
// in-process string work, so the low end is finer than for network calls.
var latencyBuckets = []float64{
	0.0001, 0.00025, 0.0005, 0.001, 0.0025, 0.005, 0.01,
	0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5,
}

// NewMetrics creates a [Metrics] instance using the given [metric.MeterProvider].
// All instruments are created eagerly; an error is returned if any
// instrument cannot be created.
func NewMetrics(mp metric.MeterProvider) (*Metrics, error) {
	m := mp.Meter(meterName)
	met := &Metrics{}
	var err error

	if met.PipelineDuration, err = m.Float64Histogram("dikte.pipeline.duration",
		metric.WithDescription("Time spent normalising a single transcript."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.StorageDuration, err = m.Float64Histogram("dikte.storage.duration",
		metric.WithDescription("Latency of document loads and saves by backend and operation."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(latencyBuckets...),
	); err != nil {
		return nil, err
	}
	if met.HTTPRequestDuration, err = m.Float64Histogram("dikte.http.request.duration",
		metric.WithDescription("HTTP request latency by method and path."),
		metric.WithUnit("s"),
	); err != nil {
		return nil, err
	}

	if met.Transcripts, err = m.Int64Counter("dikte.transcripts",
		metric.WithDescription("Transcripts processed by language and outcome."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionsLearned, err = m.Int64Counter("dikte.corrections.learned",
		metric.WithDescription("Correction pairs recorded in the store by source."),
	); err != nil {
		return nil, err
	}
	if met.CorrectionsApplied, err = m.Int64Counter("dikte.corrections.applied",
		metric.WithDescription("Replacements made by the normalisation pipeline by method."),
	); err != nil {
		return nil, err
	}
	if met.ToolCalls, err = m.Int64Counter("dikte.tool.calls",
		metric.WithDescription("MCP tool invocations by tool and status."),
	); err != nil {
		return nil, err
	}
	if met.StorageErrors, err = m.Int64Counter("dikte.storage.errors",
		metric.WithDescription("Failed document loads and saves by backend and operation."),
	); err != nil {
		return nil, err
	}

	if met.Corrections, err = m.Int64Gauge("dikte.corrections",
		metric.WithDescription("Number of stored corrections by status."),
	); err != nil {
		return nil, err
	}

	return met, nil
}

var (
	defaultMetrics     *Metrics
	defaultMetricsOnce sync.Once
)

// DefaultMetrics returns the package-level [Metrics] instance, creating it on
// first call using [otel.GetMeterProvider]. Panics if instrument creation
// fails.
func DefaultMetrics() *Metrics {
	defaultMetricsOnce.Do(func() {
		var err error
		defaultMetrics, err = NewMetrics(otel.GetMeterProvider())
		if err != nil {
			panic("observe: failed to create default metrics: " + err.Error())
		}
	})
	return defaultMetrics
}

// Attr is a convenience alias for [attribute.String].
func Attr(key, value string) attribute.KeyValue {
	return attribute.String(key, value)
}

// RecordTranscript records one processed transcript and, unless it was
// rejected or empty, its pipeline latency in seconds.
func (m *Metrics) RecordTranscript(ctx context.Context, language, status string, seconds float64) {
	m.Transcripts.Add(ctx, 1, metric.WithAttributes(
		attribute.String("language", language),
		attribute.String("status", status),
	))
	if status == StatusOK {
		m.PipelineDuration.Record(ctx, seconds,
			metric.WithAttributes(attribute.String("language", language)))
	}
}

// RecordLearned adds n to the learned-corrections counter for source. Zero
// is ignored.
func (m *Metrics) RecordLearned(ctx context.Context, source string, n int) {
	if n <= 0 {
		return
	}
	m.CorrectionsLearned.Add(ctx, int64(n),
		metric.WithAttributes(attribute.String("source", source)))
}

// RecordApplied counts one pipeline replacement made by method.
func (m *Metrics) RecordApplied(ctx context.Context, method string) {
	m.CorrectionsApplied.Add(ctx, 1,
		metric.WithAttributes(attribute.String("method", method)))
}

// RecordStorage records a storage operation's latency and, when err is
// non-nil, increments the error counter.
func (m *Metrics) RecordStorage(ctx context.Context, backend, op string, seconds float64, err error) {
	attrs := metric.WithAttributes(
		attribute.String("backend", backend),
		attribute.String("op", op),
	)
	m.StorageDuration.Record(ctx, seconds, attrs)
	if err != nil {
		m.StorageErrors.Add(ctx, 1, attrs)
	}
}

// RecordToolCall records an MCP tool call counter increment.
func (m *Metrics) RecordToolCall(ctx context.Context, tool, status string) {
	m.ToolCalls.Add(ctx, 1,
		metric.WithAttributes(
			attribute.String("tool", tool),
			attribute.String("status", status),
		),
	)
}

// RecordCorrections sets the correction gauge from a per-status count.
func (m *Metrics) RecordCorrections(ctx context.Context, byStatus map[string]int) {
	for status, n := range byStatus {
		m.Corrections.Record(ctx, int64(n),
			metric.WithAttributes(attribute.String("status", status)))
	}
}
