package service

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	scorecards     *prometheus.CounterVec
	players        prometheus.Histogram
	confidence     prometheus.Histogram
	ocrDuration    *prometheus.HistogramVec
	manualRequired prometheus.Counter
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		scorecards: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "scorecard_interpretations_total",
			Help: "Scorecards interpreted, by interpretation mode.",
		}, []string{"mode"}),
		players: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scorecard_players_found",
			Help:    "Players recovered per scorecard.",
			Buckets: []float64{0, 1, 2, 3, 4, 5, 6},
		}),
		confidence: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "scorecard_confidence",
			Help:    "Interpretation confidence per scorecard.",
			Buckets: []float64{0.2, 0.3, 0.5, 0.7, 0.9, 1},
		}),
		ocrDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "scorecard_ocr_duration_seconds",
			Help:    "Time spent reading a document, by source.",
			Buckets: prometheus.DefBuckets,
		}, []string{"source"}),
		manualRequired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scorecard_manual_entry_total",
			Help: "Scorecards with no recoverable players.",
		}),
	}
	m.registry.MustRegister(m.scorecards, m.players, m.confidence, m.ocrDuration, m.manualRequired)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) observeInterpretation(mode string, players int, confidence float64) {
	if m == nil {
		return
	}
	m.scorecards.WithLabelValues(mode).Inc()
	m.players.Observe(float64(players))
	m.confidence.Observe(confidence)
	if players == 0 {
		m.manualRequired.Inc()
	}
}

func (m *Metrics) observeRead(source string, started time.Time) {
	if m == nil {
		return
	}
	m.ocrDuration.WithLabelValues(source).Observe(time.Since(started).Seconds())
}
