// Package telemetry gives the service in-process request tracing and
// Prometheus metrics. Spans are held in a bounded in-memory buffer and
// metrics are rendered straight from process state on the metrics
// endpoint, so the deployment stays a single binary while remaining
// scrapeable by a standard Prometheus setup.
package telemetry

import (
	"context"
	"math/rand"
	"sync"
	"sync/atomic"
	"time"
)

// spanRetention is how many finished spans the provider keeps around.
const spanRetention = 512

// Gauge names exactly as they appear on the metrics endpoint.
const (
	gaugeDBActive = "db_pool_active_connections"
	gaugeDBIdle   = "db_pool_idle_connections"
	gaugeProfiles = "profiles_total"
)

// TelemetryConfig controls what the provider records. The zero value
// records everything with development defaults.
type TelemetryConfig struct {
	ServiceName    string
	ServiceVersion string
	Environment    string

	// MetricsDisabled and TracingDisabled switch off the respective
	// middleware without removing it from the chain.
	MetricsDisabled bool
	TracingDisabled bool

	// SampleRate is the fraction of requests that get a span recorded,
	// in (0, 1]. Values outside that range mean record everything.
	SampleRate float64

	// MetricsInterval is the cadence of the background gauge sampler.
	MetricsInterval time.Duration
}

func (c TelemetryConfig) withDefaults() TelemetryConfig {
	if c.ServiceName == "" {
		c.ServiceName = "biomax"
	}
	if c.ServiceVersion == "" {
		c.ServiceVersion = "0.0.0"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.SampleRate <= 0 || c.SampleRate > 1 {
		c.SampleRate = 1
	}
	if c.MetricsInterval <= 0 {
		c.MetricsInterval = 15 * time.Second
	}
	return c
}

// evalKey identifies one formula_evaluations_total series.
type evalKey struct {
	category string
	outcome  string
}

// seriesKey identifies one request duration series.
type seriesKey struct {
	method string
	route  string
	status int
}

// TelemetryProvider records spans and metrics for the whole process.
// All methods are safe for concurrent use.
type TelemetryProvider struct {
	cfg     TelemetryConfig
	stopped atomic.Bool
	active  atomic.Int64
	spans   *spanBuffer
	sampler func() float64

	mu        sync.Mutex
	gauges    map[string]int64
	evals     map[evalKey]int64
	durations map[seriesKey]*histogram

	reqSize  *histogram
	respSize *histogram
}

func NewTelemetryProvider(cfg TelemetryConfig) *TelemetryProvider {
	return &TelemetryProvider{
		cfg:       cfg.withDefaults(),
		spans:     newSpanBuffer(spanRetention),
		sampler:   rand.Float64,
		gauges:    make(map[string]int64),
		evals:     make(map[evalKey]int64),
		durations: make(map[seriesKey]*histogram),
		reqSize:   newHistogram(sizeBounds),
		respSize:  newHistogram(sizeBounds),
	}
}

// Shutdown stops further recording. Metrics collected so far stay
// readable, so a scrape that races shutdown still gets an answer.
func (tp *TelemetryProvider) Shutdown(ctx context.Context) error {
	tp.stopped.Store(true)
	return nil
}

// RecordEvaluation counts one formula evaluation toward the
// formula_evaluations_total metric.
func (tp *TelemetryProvider) RecordEvaluation(category string, ok bool) {
	if tp.cfg.MetricsDisabled || tp.stopped.Load() {
		return
	}
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	tp.mu.Lock()
	tp.evals[evalKey{category: category, outcome: outcome}]++
	tp.mu.Unlock()
}

// GetRecordedSpans returns the retained spans, oldest first.
func (tp *TelemetryProvider) GetRecordedSpans() []*Span {
	return tp.spans.all()
}

// requestSample carries everything the metrics middleware measured
// about one finished request.
type requestSample struct {
	method   string
	route    string
	status   int
	elapsed  time.Duration
	received int64
	sent     int64
}

func (tp *TelemetryProvider) observeRequest(s requestSample) {
	key := seriesKey{method: s.method, route: s.route, status: s.status}
	tp.mu.Lock()
	h := tp.durations[key]
	if h == nil {
		h = newHistogram(latencyBounds)
		tp.durations[key] = h
	}
	tp.mu.Unlock()

	h.observe(s.elapsed.Seconds())
	if s.received > 0 {
		tp.reqSize.observe(float64(s.received))
	}
	tp.respSize.observe(float64(s.sent))
}

func (tp *TelemetryProvider) sampled() bool {
	if tp.cfg.SampleRate >= 1 {
		return true
	}
	return tp.sampler() < tp.cfg.SampleRate
}

func (tp *TelemetryProvider) setGauge(name string, v int64) {
	tp.mu.Lock()
	tp.gauges[name] = v
	tp.mu.Unlock()
}

func (tp *TelemetryProvider) gaugeValue(name string) int64 {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	return tp.gauges[name]
}

// durationSeries pairs a series key with its histogram for exposition.
type durationSeries struct {
	key  seriesKey
	hist *histogram
}

func (tp *TelemetryProvider) durationSnapshot() []durationSeries {
	tp.mu.Lock()
	defer tp.mu.Unlock()
	out := make([]durationSeries, 0, len(tp.durations))
	for k, h := range tp.durations {
		out = append(out, durationSeries{key: k, hist: h})
	}
	return out
}

// HealthMetricsRecorder publishes the connection pool and dataset
// gauges sampled by the background loop in main.
type HealthMetricsRecorder struct {
	tp *TelemetryProvider
}

// HealthMetrics returns the recorder backing the db_pool and
// profiles_total gauges.
func (tp *TelemetryProvider) HealthMetrics() *HealthMetricsRecorder {
	return &HealthMetricsRecorder{tp: tp}
}

// SetDBPoolActive records how many pool connections are checked out.
func (r *HealthMetricsRecorder) SetDBPoolActive(n int64) { r.tp.setGauge(gaugeDBActive, n) }

// SetDBPoolIdle records how many pool connections sit idle.
func (r *HealthMetricsRecorder) SetDBPoolIdle(n int64) { r.tp.setGauge(gaugeDBIdle, n) }

// SetProfilesTotal records the number of stored patient profiles.
func (r *HealthMetricsRecorder) SetProfilesTotal(n int64) { r.tp.setGauge(gaugeProfiles, n) }
