// Package metrics provides Prometheus metrics for the analysis service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder owns the service collectors. Each Recorder registers into its
// own registry so tests can build as many as they need.
type Recorder struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	modelsAnalyzed  *prometheus.CounterVec
	parseFailures   *prometheus.CounterVec
	modelBytes      prometheus.Histogram
	analysisSeconds *prometheus.HistogramVec
	supportChoices  *prometheus.CounterVec

	pcbQuotes        prometheus.Counter
	pcbRejections    prometheus.Counter
	fetchErrorsTotal *prometheus.CounterVec
}

// New creates a Recorder with a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Recorder {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Recorder{
		registry: reg,

		requestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idealab_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"route", "method", "status"},
		),
		requestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idealab_http_request_duration_seconds",
				Help:    "HTTP request latency",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"route"},
		),

		modelsAnalyzed: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idealab_models_analyzed_total",
				Help: "Total number of models analyzed",
			},
			[]string{"format", "degraded"},
		),
		parseFailures: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idealab_model_parse_failures_total",
				Help: "Total number of malformed model payloads",
			},
			[]string{"format"},
		),
		modelBytes: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "idealab_model_size_bytes",
				Help:    "Size of analyzed model payloads",
				Buckets: prometheus.ExponentialBuckets(1024, 4, 10),
			},
		),
		analysisSeconds: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "idealab_model_analysis_duration_seconds",
				Help:    "Time taken to parse and measure a model",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"format"},
		),
		supportChoices: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idealab_support_orientation_total",
				Help: "Orientations selected by support estimation",
			},
			[]string{"orientation"},
		),

		pcbQuotes: f.NewCounter(
			prometheus.CounterOpts{
				Name: "idealab_pcb_quotes_total",
				Help: "Total number of PCB quotes computed",
			},
		),
		pcbRejections: f.NewCounter(
			prometheus.CounterOpts{
				Name: "idealab_pcb_validation_failures_total",
				Help: "Total number of rejected PCB specifications",
			},
		),
		fetchErrorsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "idealab_fetch_errors_total",
				Help: "Total number of failed model downloads",
			},
			[]string{"scheme"},
		),
	}
}

// Registry exposes the registry for the /metrics handler.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordRequest records a served HTTP request.
func (r *Recorder) RecordRequest(route, method, status string, duration time.Duration) {
	r.requestsTotal.WithLabelValues(route, method, status).Inc()
	r.requestDuration.WithLabelValues(route).Observe(duration.Seconds())
}

// RecordAnalysis records a completed model analysis.
func (r *Recorder) RecordAnalysis(format string, degraded bool, size int, duration time.Duration) {
	d := "false"
	if degraded {
		d = "true"
	}
	r.modelsAnalyzed.WithLabelValues(format, d).Inc()
	r.modelBytes.Observe(float64(size))
	r.analysisSeconds.WithLabelValues(format).Observe(duration.Seconds())
	if degraded {
		r.parseFailures.WithLabelValues(format).Inc()
	}
}

// RecordParseFailure records a malformed payload that was rejected.
func (r *Recorder) RecordParseFailure(format string) {
	r.parseFailures.WithLabelValues(format).Inc()
}

// RecordOrientation records the orientation a support estimate settled on.
func (r *Recorder) RecordOrientation(orientation string) {
	r.supportChoices.WithLabelValues(orientation).Inc()
}

// RecordPCBQuote records a PCB builder request outcome.
func (r *Recorder) RecordPCBQuote(valid bool) {
	if valid {
		r.pcbQuotes.Inc()
		return
	}
	r.pcbRejections.Inc()
}

// RecordFetchError records a failed model download.
func (r *Recorder) RecordFetchError(scheme string) {
	r.fetchErrorsTotal.WithLabelValues(scheme).Inc()
}

// Timer measures elapsed time for a single operation.
type Timer struct {
	start time.Time
}

// NewTimer starts a timer.
func NewTimer() *Timer {
	return &Timer{start: time.Now()}
}

// Elapsed returns the time since the timer started.
func (t *Timer) Elapsed() time.Duration {
	return time.Since(t.start)
}
