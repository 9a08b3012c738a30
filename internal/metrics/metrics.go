// Package metrics provides Prometheus metrics for the booking BFF.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	Registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	// WorkflowSteps counts booking workflow steps by step and outcome.
	WorkflowSteps *prometheus.CounterVec
	// RefundAmountTotal accumulates the refund amounts computed on cancellations.
	RefundAmountTotal prometheus.Counter
	// BackendRequestDuration measures calls made to the booking backend.
	BackendRequestDuration *prometheus.HistogramVec
	// BookingEvents counts booking events delivered to this instance.
	BookingEvents *prometheus.CounterVec
}

// New creates and registers all application metrics with a new registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "bff_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bff_http_request_duration_seconds",
				Help:    "HTTP request latency distribution",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),
		WorkflowSteps: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "workflow_steps_total",
				Help: "Booking workflow steps by outcome",
			},
			[]string{"step", "outcome"},
		),
		RefundAmountTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "refund_amount_total",
			Help: "Sum of refund amounts computed for cancellations",
		}),
		BackendRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "bff_backend_request_duration_seconds",
				Help:    "Latency of calls to the booking backend",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation", "outcome"},
		),
		BookingEvents: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "booking_events_total",
				Help: "Booking events received by this instance",
			},
			[]string{"event"},
		),
	}

	registry.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.WorkflowSteps,
		m.RefundAmountTotal,
		m.BackendRequestDuration,
		m.BookingEvents,
	)
	return m
}

// RecordStep is nil-safe so callers can run without metrics.
func (m *Metrics) RecordStep(step string, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.WorkflowSteps.WithLabelValues(step, outcome).Inc()
}

func (m *Metrics) RecordRefund(amount float64) {
	if m == nil || amount <= 0 {
		return
	}
	m.RefundAmountTotal.Add(amount)
}

func (m *Metrics) ObserveBackend(operation string, started time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.BackendRequestDuration.WithLabelValues(operation, outcome).Observe(time.Since(started).Seconds())
}

func (m *Metrics) RecordEvent(name string) {
	if m == nil {
		return
	}
	m.BookingEvents.WithLabelValues(name).Inc()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (w *metricsResponseWriter) WriteHeader(code int) {
	w.statusCode = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware records request count and latency labelled by the chi route
// pattern, falling back to "unmatched" to keep label cardinality bounded.
func Middleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if m == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			mw := &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(mw, r)

			path := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if p := rctx.RoutePattern(); p != "" {
					path = p
				}
			}
			m.HTTPRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(mw.statusCode)).Inc()
			m.HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}
