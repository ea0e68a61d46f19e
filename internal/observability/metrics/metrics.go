// Package metrics exposes application-level prometheus instruments,
// scraped via the /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"
)

// Metrics counts redemption and validation outcomes.
type Metrics struct {
	redemptions *prometheus.CounterVec
	validations *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		redemptions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "candor",
			Name:      "invite_redemptions_total",
			Help:      "Invite redemption attempts by outcome.",
		}, []string{"outcome"}),
		validations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "candor",
			Name:      "session_validations_total",
			Help:      "Candidate session validations by outcome.",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(m.redemptions, m.validations)
	}
	return m
}

// RedemptionObserved records one redemption attempt. Nil-safe so services
// under test can run without a registry.
func (m *Metrics) RedemptionObserved(outcome string) {
	if m == nil {
		return
	}
	m.redemptions.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ValidationObserved(outcome string) {
	if m == nil {
		return
	}
	m.validations.WithLabelValues(outcome).Inc()
}

func provide() *Metrics {
	return New(prometheus.DefaultRegisterer)
}

// Module wires application metrics.
var Module = fx.Module("observability.metrics",
	fx.Provide(provide),
)
