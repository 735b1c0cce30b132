// Package metrics provides Prometheus metrics for the file server.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileshare_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fileshare_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	bytesStreamed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileshare_bytes_streamed_total",
			Help: "Total file bytes written to clients",
		},
	)

	downloadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileshare_downloads_total",
			Help: "File downloads by kind (full, partial) and status",
		},
		[]string{"kind", "status"},
	)

	selectionsRegistered = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileshare_selections_registered_total",
			Help: "Total selections registered",
		},
	)

	selectionsCached = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fileshare_selections_cached",
			Help: "Number of selections currently held in the cache",
		},
	)

	selectionEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileshare_selection_evictions_total",
			Help: "Selections dropped from the cache for space",
		},
	)

	configLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fileshare_config_lookups_total",
			Help: "Batch config lookups by result",
		},
		[]string{"result"},
	)

	expandDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fileshare_expand_duration_seconds",
			Help:    "Time spent expanding selected directories",
			Buckets: prometheus.DefBuckets,
		},
	)

	expandSkippedDirs = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "fileshare_expand_skipped_dirs_total",
			Help: "Directories skipped during expansion because they could not be read",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordHTTPRequest records an HTTP request metric.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordDownload records a finished file stream.
func RecordDownload(bytes int64, partial, success bool) {
	bytesStreamed.Add(float64(bytes))
	kind := "full"
	if partial {
		kind = "partial"
	}
	status := "success"
	if !success {
		status = "error"
	}
	downloadsTotal.WithLabelValues(kind, status).Inc()
}

// RecordSelection records a registered selection and the resulting cache size.
func RecordSelection(cached int) {
	selectionsRegistered.Inc()
	selectionsCached.Set(float64(cached))
}

// RecordEviction records a selection evicted from the cache.
func RecordEviction() {
	selectionEvictions.Inc()
}

// RecordConfigLookup records a batch config lookup.
func RecordConfigLookup(found bool) {
	result := "hit"
	if !found {
		result = "miss"
	}
	configLookups.WithLabelValues(result).Inc()
}

// RecordExpand records one directory expansion.
func RecordExpand(duration time.Duration, skipped int) {
	expandDuration.Observe(duration.Seconds())
	expandSkippedDirs.Add(float64(skipped))
}

// responseWriter wraps http.ResponseWriter to capture status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// Middleware records request metrics labelled by chi route pattern, so file
// paths do not explode label cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if p := rctx.RoutePattern(); p != "" {
				route = p
			}
		}
		RecordHTTPRequest(r.Method, route, rw.statusCode, time.Since(start))
	})
}
