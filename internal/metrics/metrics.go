package metrics

import (
	"aimtrainer/internal/events"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game counters for one registry.
type Metrics struct {
	reg *prometheus.Registry

	RoundsStarted  *prometheus.CounterVec
	RoundsFinished *prometheus.CounterVec
	Hits           prometheus.Counter
	Misses         prometheus.Counter
	Points         prometheus.Counter
	ActiveSessions prometheus.Gauge
	RoundScore     prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		reg: prometheus.NewRegistry(),
		RoundsStarted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "rounds_started_total",
			Help:      "Rounds started, by mode.",
		}, []string{"mode"}),
		RoundsFinished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "rounds_finished_total",
			Help:      "Rounds that ran out of lives, by mode.",
		}, []string{"mode"}),
		Hits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "hits_total",
			Help:      "Shots that landed on a target.",
		}),
		Misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "misses_total",
			Help:      "Shots that hit nothing.",
		}),
		Points: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "aimtrainer",
			Name:      "points_total",
			Help:      "Points scored across all rounds.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "aimtrainer",
			Name:      "active_sessions",
			Help:      "Connected web sessions.",
		}),
		RoundScore: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "aimtrainer",
			Name:      "round_score",
			Help:      "Final score of finished rounds.",
			Buckets:   []float64{0, 5, 10, 25, 50, 100, 200, 400},
		}),
	}
	m.reg.MustRegister(m.RoundsStarted, m.RoundsFinished, m.Hits, m.Misses, m.Points, m.ActiveSessions, m.RoundScore)
	return m
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.reg
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// OnScene counts rounds as they enter play.
func (m *Metrics) OnScene(ev events.SceneChangeEvent) {
	if ev.Scene == "playing" {
		m.RoundStarted(ev.Mode)
	}
}

// OnResult records a finished round.
func (m *Metrics) OnResult(res events.RoundResult) {
	mode := res.Mode.String()
	m.RoundsFinished.WithLabelValues(mode).Inc()
	m.Hits.Add(float64(res.Hits))
	m.Misses.Add(float64(res.Misses))
	m.Points.Add(float64(res.Score))
	m.RoundScore.Observe(float64(res.Score))
}

// RoundStarted counts a round entering play in mode.
func (m *Metrics) RoundStarted(mode string) {
	m.RoundsStarted.WithLabelValues(mode).Inc()
}

func (m *Metrics) SessionOpened() {
	m.ActiveSessions.Inc()
}

func (m *Metrics) SessionClosed() {
	m.ActiveSessions.Dec()
}
