package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cfb_pickem"

// Metrics holds the Prometheus collectors for the service
type Metrics struct {
	registry *prometheus.Registry

	RequestCounter  *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	SyncResults     *prometheus.CounterVec
	ResultsEntered  *prometheus.CounterVec
	Submissions     *prometheus.CounterVec
}

// New creates the collectors on a private registry, so tests can build as
// many instances as they like
func New() *Metrics {
	registry := prometheus.NewRegistry()
	register := func(c prometheus.Collector) { registry.MustRegister(c) }

	m := &Metrics{
		registry: registry,
		RequestCounter: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"route"},
		),
		SyncResults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "sync",
				Name:      "results_total",
				Help:      "External results processed by outcome (applied, unmatched, already_had_result, incomplete)",
			},
			[]string{"outcome"},
		),
		ResultsEntered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "results",
				Name:      "entered_total",
				Help:      "Game results written, by kind (game, bowl) and path (manual, correction, sync)",
			},
			[]string{"kind", "path"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "picks",
				Name:      "submissions_total",
				Help:      "Pick submissions by kind (weekly, bowl) and status (accepted, rejected)",
			},
			[]string{"kind", "status"},
		),
	}

	register(m.RequestCounter)
	register(m.RequestDuration)
	register(m.SyncResults)
	register(m.ResultsEntered)
	register(m.Submissions)
	register(collectors.NewGoCollector())

	return m
}

// Handler exposes the registry for scraping
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordSync counts the outcomes of one sync run
func (m *Metrics) RecordSync(applied, unmatched, alreadyHad, incomplete int) {
	if m == nil {
		return
	}
	m.SyncResults.WithLabelValues("applied").Add(float64(applied))
	m.SyncResults.WithLabelValues("unmatched").Add(float64(unmatched))
	m.SyncResults.WithLabelValues("already_had_result").Add(float64(alreadyHad))
	m.SyncResults.WithLabelValues("incomplete").Add(float64(incomplete))
}

// RecordResult counts one written result
func (m *Metrics) RecordResult(kind, path string) {
	if m == nil {
		return
	}
	m.ResultsEntered.WithLabelValues(kind, path).Inc()
}

// RecordSubmission counts one pick submission
func (m *Metrics) RecordSubmission(kind string, accepted bool) {
	if m == nil {
		return
	}
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	m.Submissions.WithLabelValues(kind, status).Inc()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Middleware records count and latency per mux route template
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		route := "unmatched"
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}

		m.RequestCounter.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		m.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}
