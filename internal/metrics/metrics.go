package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the game counters exposed on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	RoundsTotal  *prometheus.CounterVec
	WageredTotal *prometheus.CounterVec
	PaidTotal    *prometheus.CounterVec
}

// New creates all counters on a dedicated registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RoundsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_rounds_total",
			Help: "Rounds settled, by game and outcome",
		}, []string{"game", "outcome"}),
		WageredTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_wagered_coins_total",
			Help: "Coins wagered, by game",
		}, []string{"game"}),
		PaidTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arcade_paid_coins_total",
			Help: "Coins paid out, by game",
		}, []string{"game"}),
	}
	m.registry.MustRegister(m.RoundsTotal, m.WageredTotal, m.PaidTotal)
	return m
}

// ObserveRound records one settled round.
func (m *Metrics) ObserveRound(game, outcome string, bet, payout int64) {
	m.RoundsTotal.WithLabelValues(game, outcome).Inc()
	m.WageredTotal.WithLabelValues(game).Add(float64(bet))
	m.PaidTotal.WithLabelValues(game).Add(float64(payout))
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
