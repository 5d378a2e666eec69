package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics methods are nil-safe so callers can run without instrumentation.
type Metrics struct {
	RequestDuration     metric.Float64Histogram
	RequestErrors       metric.Int64Counter
	CacheHits           metric.Int64Counter
	CacheInvalidations  metric.Int64Counter
	OptimisticRollbacks metric.Int64Counter
}

func NewMetrics(meter metric.Meter) (*Metrics, error) {
	m := &Metrics{}
	var err error

	m.RequestDuration, err = meter.Float64Histogram("taskflow.api.request.duration",
		metric.WithDescription("API request duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, err
	}

	m.RequestErrors, err = meter.Int64Counter("taskflow.api.request.errors",
		metric.WithDescription("API requests that failed or returned a non-2xx status"),
	)
	if err != nil {
		return nil, err
	}

	m.CacheHits, err = meter.Int64Counter("taskflow.cache.hits",
		metric.WithDescription("Queries served from a fresh cache entry"),
	)
	if err != nil {
		return nil, err
	}

	m.CacheInvalidations, err = meter.Int64Counter("taskflow.cache.invalidations",
		metric.WithDescription("Cache entries marked stale by a mutation"),
	)
	if err != nil {
		return nil, err
	}

	m.OptimisticRollbacks, err = meter.Int64Counter("taskflow.cache.optimistic_rollbacks",
		metric.WithDescription("Optimistic patches undone after a failed mutation"),
	)
	if err != nil {
		return nil, err
	}

	return m, nil
}

func (m *Metrics) RecordRequest(ctx context.Context, endpoint string, status int, seconds float64, failed bool) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrEndpoint.String(endpoint), AttrStatusCode.Int(status))
	m.RequestDuration.Record(ctx, seconds, attrs)
	if failed {
		m.RequestErrors.Add(ctx, 1, attrs)
	}
}

func (m *Metrics) RecordCacheHit(ctx context.Context, endpoint string) {
	if m == nil {
		return
	}
	m.CacheHits.Add(ctx, 1, metric.WithAttributes(AttrEndpoint.String(endpoint)))
}

func (m *Metrics) RecordInvalidation(ctx context.Context, entries int) {
	if m == nil || entries == 0 {
		return
	}
	m.CacheInvalidations.Add(ctx, int64(entries))
}

func (m *Metrics) RecordRollback(ctx context.Context, key string) {
	if m == nil {
		return
	}
	m.OptimisticRollbacks.Add(ctx, 1, metric.WithAttributes(attribute.String("taskflow.cache.key", key)))
}
