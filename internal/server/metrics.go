package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type metrics struct {
	registry   *prometheus.Registry
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	plots      prometheus.Counter
	rejected   prometheus.Counter
	renderTime prometheus.Histogram
	gifBytes   prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "chromasim",
			Name:      "http_requests_total",
			Help:      "HTTP requests by handler, method and status code.",
		}, []string{"handler", "code", "method"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "chromasim",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by handler.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"handler", "method"}),
		plots: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chromasim",
			Name:      "plots_total",
			Help:      "Plots rendered and stored.",
		}),
		rejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "chromasim",
			Name:      "submissions_rejected_total",
			Help:      "Submissions rejected for invalid compounds.",
		}),
		renderTime: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chromasim",
			Name:      "render_duration_seconds",
			Help:      "Time spent simulating and encoding one plot.",
			Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		gifBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "chromasim",
			Name:      "gif_size_bytes",
			Help:      "Size of encoded plots.",
			Buckets:   prometheus.ExponentialBuckets(16<<10, 2, 10),
		}),
	}
	m.registry.MustRegister(
		m.requests, m.latency, m.plots, m.rejected, m.renderTime, m.gifBytes,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// instrument counts and times requests served by h under name.
func (m *metrics) instrument(name string, h http.HandlerFunc) http.Handler {
	labels := prometheus.Labels{"handler": name}
	return promhttp.InstrumentHandlerDuration(m.latency.MustCurryWith(labels),
		promhttp.InstrumentHandlerCounter(m.requests.MustCurryWith(labels), h))
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
