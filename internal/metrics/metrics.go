// Package metrics counts import and sync activity for a node_exporter
// textfile collector or a scrape endpoint in watch mode.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/julianstephens/freeweek/internal/constants"
)

// Recorder owns a private registry so tests and repeated syncs never collide
// with the global one.
type Recorder struct {
	registry *prometheus.Registry

	runs        *prometheus.CounterVec
	accepted    *prometheus.CounterVec
	skipped     *prometheus.CounterVec
	fetchCache  *prometheus.CounterVec
	lastSuccess *prometheus.GaugeVec
	duration    prometheus.Histogram
}

func New() *Recorder {
	ns := constants.AppName
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "import_runs_total",
			Help: "Calendar imports by outcome.",
		}, []string{"result"}),
		accepted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "import_meetings_total",
			Help: "Class meetings kept by imports, per person.",
		}, []string{"person"}),
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "import_skipped_total",
			Help: "Calendar events skipped by imports, by reason.",
		}, []string{"reason"}),
		fetchCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: ns, Name: "fetch_total",
			Help: "Feed reads, split by whether the cached copy was used.",
		}, []string{"cache"}),
		lastSuccess: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: ns, Name: "import_last_success_timestamp_seconds",
			Help: "Unix time of the last successful import, per person.",
		}, []string{"person"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: ns, Name: "import_duration_seconds",
			Help:    "Time spent importing one calendar.",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 6),
		}),
	}
	r.registry.MustRegister(r.runs, r.accepted, r.skipped, r.fetchCache, r.lastSuccess, r.duration)
	return r
}

// ImportSucceeded records one stored import.
func (r *Recorder) ImportSucceeded(person string, meetings int, skipped map[string]int, took time.Duration, at time.Time) {
	r.runs.WithLabelValues("success").Inc()
	r.accepted.WithLabelValues(person).Add(float64(meetings))
	for reason, n := range skipped {
		if n > 0 {
			r.skipped.WithLabelValues(reason).Add(float64(n))
		}
	}
	r.lastSuccess.WithLabelValues(person).Set(float64(at.Unix()))
	r.duration.Observe(took.Seconds())
}

// ImportFailed records an import that stored nothing.
func (r *Recorder) ImportFailed() {
	r.runs.WithLabelValues("failure").Inc()
}

// Fetched records whether a feed read was served from cache.
func (r *Recorder) Fetched(fromCache bool) {
	label := "miss"
	if fromCache {
		label = "hit"
	}
	r.fetchCache.WithLabelValues(label).Inc()
}

// WriteTextfile atomically writes the registry in text exposition format.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}

// Handler serves the registry for scraping.
func (r *Recorder) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
