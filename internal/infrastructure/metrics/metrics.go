// Package metrics exposes Prometheus metrics for HTTP traffic and domain events.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ecofoods/backend/internal/domain/inventory"
	"github.com/ecofoods/backend/internal/domain/shared"
	"github.com/ecofoods/backend/internal/domain/supplier"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "eco"

// Registry owns a private Prometheus registry and the application collectors.
//
// Thread Safety: Safe for concurrent use by multiple goroutines.
type Registry struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	domainEventsTotal   *prometheus.CounterVec
	batchQuantity       *prometheus.CounterVec
	supplierAmount      *prometheus.CounterVec
}

// NewRegistry creates a registry with Go runtime and process collectors
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{
		registry: reg,
		httpRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"}),
		httpRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		domainEventsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "domain",
			Name:      "events_total",
			Help:      "Domain events published after commit, by type.",
		}, []string{"type"}),
		batchQuantity: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "batch_quantity_total",
			Help:      "Material quantity moved through batches, by direction.",
		}, []string{"direction"}),
		supplierAmount: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "supplier",
			Name:      "submission_amount_total",
			Help:      "Supplier submission amounts, by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		r.httpRequestsTotal,
		r.httpRequestDuration,
		r.domainEventsTotal,
		r.batchQuantity,
		r.supplierAmount,
	)
	return r
}

// Gatherer exposes the underlying registry for tests and custom exposition
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text format
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}

// ObserveHTTPRequest records one served request. route is the matched
// route template, never the raw path.
func (r *Registry) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	r.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	r.httpRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// EventTypes is empty so the registry receives every domain event
func (r *Registry) EventTypes() []string {
	return nil
}

// Handle counts a domain event and the quantities it carries
func (r *Registry) Handle(_ context.Context, event shared.DomainEvent) error {
	r.domainEventsTotal.WithLabelValues(event.EventType()).Inc()

	switch e := event.(type) {
	case *inventory.BatchReceivedEvent:
		r.batchQuantity.WithLabelValues("received").Add(e.Quantity.InexactFloat64())
	case *inventory.BatchConsumedEvent:
		r.batchQuantity.WithLabelValues("consumed").Add(e.Quantity.InexactFloat64())
	case *supplier.SubmissionEvent:
		var outcome string
		switch e.EventType() {
		case supplier.EventTypeSubmissionCreated:
			outcome = "submitted"
		case supplier.EventTypeSubmissionAccepted:
			outcome = "paid"
		case supplier.EventTypeSubmissionRejected:
			outcome = "rejected"
		}
		if outcome != "" && e.Amount.IsPositive() {
			r.supplierAmount.WithLabelValues(outcome).Add(e.Amount.InexactFloat64())
		}
	}
	return nil
}

var _ shared.EventHandler = (*Registry)(nil)
