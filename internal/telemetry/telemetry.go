// Package telemetry holds the Prometheus collectors of the service.
package telemetry

import (
	"context"
	"time"

	"event-aggregation-service/internal/aggregation/core/domain"
	"event-aggregation-service/internal/aggregation/core/ports"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type Metrics struct {
	Registry *prometheus.Registry

	queries        *prometheus.CounterVec
	storeDuration  *prometheus.HistogramVec
	eventsIngested prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		queries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aggregation_queries_total",
			Help: "Aggregation queries by group_type and outcome.",
		}, []string{"group_type", "outcome"}),
		storeDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aggregation_store_query_duration_seconds",
			Help:    "Latency of grouped-sum queries against the event store.",
			Buckets: prometheus.DefBuckets,
		}, []string{"group_type", "outcome"}),
		eventsIngested: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "events_ingested_total",
			Help: "Events written to the event store.",
		}),
	}

	m.Registry.MustRegister(
		m.queries,
		m.storeDuration,
		m.eventsIngested,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// ObserveQuery counts one aggregation query. groupType is recorded only when
// it is a known granularity so label cardinality stays bounded.
func (m *Metrics) ObserveQuery(groupType string, err error) {
	if !domain.Granularity(groupType).Valid() {
		groupType = "invalid"
	}
	m.queries.WithLabelValues(groupType, outcome(err)).Inc()
}

func (m *Metrics) AddEventsIngested(n int) {
	m.eventsIngested.Add(float64(n))
}

func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	return domain.KindOf(err).String()
}

type instrumentedStore struct {
	next    ports.EventStorePort
	metrics *Metrics
}

// InstrumentStore wraps an event store so every GroupedSum call is timed.
func InstrumentStore(next ports.EventStorePort, m *Metrics) ports.EventStorePort {
	return &instrumentedStore{next: next, metrics: m}
}

func (s *instrumentedStore) GroupedSum(ctx context.Context, q ports.GroupedSumQuery) ([]domain.BucketTotal, error) {
	start := time.Now()
	totals, err := s.next.GroupedSum(ctx, q)

	result := "ok"
	if err != nil {
		result = "error"
	}
	s.metrics.storeDuration.
		WithLabelValues(q.Granularity.String(), result).
		Observe(time.Since(start).Seconds())

	return totals, err
}
