// Package prometheus records analysis pipeline metrics in a Prometheus
// registry. A single CLI run writes them in the node_exporter textfile format.
package prometheus

import (
	"context"
	"net/url"
	"time"

	"github.com/fwojciec/geodossier"
	"github.com/prometheus/client_golang/prometheus"
)

// OutcomeOK labels analyses that produced a dossier.
const OutcomeOK = "ok"

// Metrics holds the collectors shared by the decorators in this package.
type Metrics struct {
	registry *prometheus.Registry

	analyses         *prometheus.CounterVec
	analysisDuration prometheus.Histogram
	sources          prometheus.Histogram
	correlations     prometheus.Histogram
	harvestQueries   *prometheus.CounterVec
	lastSuccess      prometheus.Gauge
	fetches          *prometheus.CounterVec
	fetchDuration    prometheus.Summary
}

// NewMetrics returns Metrics registered on a fresh registry.
func NewMetrics() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.analyses = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geodossier",
		Name:      "analyses_total",
		Help:      "Analysis requests by outcome (ok or error code)",
	}, []string{"outcome"})
	m.analysisDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geodossier",
		Name:      "analysis_duration_seconds",
		Help:      "Time spent on one analysis request",
		Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60},
	})
	m.sources = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geodossier",
		Name:      "dossier_sources",
		Help:      "Deduplicated sources per compiled dossier",
		Buckets:   []float64{0, 1, 5, 10, 20, 40},
	})
	m.correlations = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "geodossier",
		Name:      "dossier_correlations",
		Help:      "Correlation records per compiled dossier",
		Buckets:   []float64{0, 1, 3, 5, 10},
	})
	m.harvestQueries = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geodossier",
		Name:      "harvest_queries_total",
		Help:      "Harvest queries by status",
	}, []string{"status"})
	m.lastSuccess = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "geodossier",
		Name:      "last_success_timestamp_seconds",
		Help:      "Unix timestamp of the last compiled dossier",
	})
	m.fetches = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "geodossier",
		Name:      "fetches_total",
		Help:      "Search surface fetches by host and status",
	}, []string{"host", "status"})
	m.fetchDuration = prometheus.NewSummary(prometheus.SummaryOpts{
		Namespace:  "geodossier",
		Name:       "fetch_duration_seconds",
		Help:       "Time spent fetching search surface pages",
		Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
	})

	m.registry.MustRegister(
		m.analyses, m.analysisDuration, m.sources, m.correlations,
		m.harvestQueries, m.lastSuccess, m.fetches, m.fetchDuration,
	)
	return m
}

// Gatherer exposes the registry.
func (m *Metrics) Gatherer() prometheus.Gatherer {
	return m.registry
}

// WriteToTextfile writes every metric to path, replacing it atomically.
func (m *Metrics) WriteToTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

// Ensure Analyzer implements geodossier.Analyzer.
var _ geodossier.Analyzer = (*Analyzer)(nil)

// Analyzer wraps an Analyzer with outcome and coverage metrics.
type Analyzer struct {
	next    geodossier.Analyzer
	metrics *Metrics
}

// NewAnalyzer creates a new Analyzer.
func NewAnalyzer(next geodossier.Analyzer, metrics *Metrics) *Analyzer {
	return &Analyzer{next: next, metrics: metrics}
}

// Analyze delegates to the wrapped analyzer and records its outcome.
func (a *Analyzer) Analyze(ctx context.Context, query string) (result *geodossier.AnalysisResult, artifact *geodossier.DossierArtifact, err error) {
	defer func(begin time.Time) {
		m := a.metrics
		m.analysisDuration.Observe(time.Since(begin).Seconds())
		if err != nil {
			m.analyses.WithLabelValues(geodossier.ErrorCode(err)).Inc()
			return
		}
		m.analyses.WithLabelValues(OutcomeOK).Inc()
		m.sources.Observe(float64(len(result.Sources)))
		m.correlations.Observe(float64(len(result.Correlations)))
		if result.Harvest.Performed {
			m.harvestQueries.WithLabelValues("ok").Add(float64(result.Harvest.Queries - result.Harvest.Failed))
			m.harvestQueries.WithLabelValues("failed").Add(float64(result.Harvest.Failed))
		}
		m.lastSuccess.SetToCurrentTime()
	}(time.Now())
	return a.next.Analyze(ctx, query)
}

// Ensure Fetcher implements geodossier.Fetcher.
var _ geodossier.Fetcher = (*Fetcher)(nil)

// Fetcher wraps a Fetcher with per-host request metrics.
type Fetcher struct {
	next    geodossier.Fetcher
	metrics *Metrics
}

// NewFetcher creates a new Fetcher.
func NewFetcher(next geodossier.Fetcher, metrics *Metrics) *Fetcher {
	return &Fetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and counts the request.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (body string, err error) {
	defer func(begin time.Time) {
		status := "ok"
		if err != nil {
			status = "error"
		}
		f.metrics.fetches.WithLabelValues(host(rawURL), status).Inc()
		f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
	}(time.Now())
	return f.next.Fetch(ctx, rawURL)
}

// Close delegates to the wrapped fetcher.
func (f *Fetcher) Close() error {
	return f.next.Close()
}

func host(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
