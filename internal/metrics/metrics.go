// Package metrics exposes Prometheus instrumentation for the crawler.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	pagesFetchedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_pages_fetched_total",
			Help: "Total flight pages fetched, by outcome (ok, empty, error).",
		},
		[]string{"outcome"},
	)

	fetchDurationSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "crawler_fetch_duration_seconds",
			Help:    "Flight page fetch duration in seconds.",
			Buckets: prometheus.DefBuckets,
		},
	)

	flightsIndexedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_flights_indexed_total",
			Help: "Total flights added to the index.",
		},
	)

	igcDownloadBytesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "crawler_igc_download_bytes_total",
			Help: "Total bytes of IGC track files downloaded.",
		},
	)

	lastFlightID = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_last_flight_id",
			Help: "Highest FFVL flight id processed so far.",
		},
	)

	indexSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "crawler_index_size",
			Help: "Number of flights in the index.",
		},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crawler_http_requests_total",
			Help: "Total HTTP requests served by the status listener.",
		},
		[]string{"path", "method", "code"},
	)
)

func init() {
	prometheus.MustRegister(
		pagesFetchedTotal,
		fetchDurationSeconds,
		flightsIndexedTotal,
		igcDownloadBytesTotal,
		lastFlightID,
		indexSize,
		httpRequestsTotal,
	)
}

// RecordPageFetch records one flight page fetch attempt.
// outcome is "ok", "empty" (page exists but carries no flight), or "error".
func RecordPageFetch(outcome string, d time.Duration) {
	pagesFetchedTotal.WithLabelValues(outcome).Inc()
	fetchDurationSeconds.Observe(d.Seconds())
}

// AddFlightsIndexed increments the indexed-flights counter by n.
func AddFlightsIndexed(n int) {
	flightsIndexedTotal.Add(float64(n))
}

// AddIGCDownloadBytes adds n to the downloaded-bytes counter.
func AddIGCDownloadBytes(n int) {
	igcDownloadBytesTotal.Add(float64(n))
}

// SetLastFlightID publishes the highest processed flight id.
func SetLastFlightID(id int) {
	lastFlightID.Set(float64(id))
}

// SetIndexSize publishes the current index size.
func SetIndexSize(n int) {
	indexSize.Set(float64(n))
}

// Handler returns the Prometheus metrics HTTP handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// responseWriter wraps http.ResponseWriter to capture the status code.
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// knownRoutes are the status listener's routes. Anything else is collapsed
// into one label so scanner traffic cannot blow up metric cardinality.
var knownRoutes = map[string]bool{
	"/healthz":         true,
	"/metrics":         true,
	"/api/v1/progress": true,
}

// normalizeRoute maps a request path to a bounded set of metric labels.
func normalizeRoute(path string) string {
	if knownRoutes[path] {
		return path
	}
	return "other"
}

// Middleware records request counts for the status listener.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(rw, r)
		httpRequestsTotal.WithLabelValues(normalizeRoute(r.URL.Path), r.Method, strconv.Itoa(rw.statusCode)).Inc()
	})
}
