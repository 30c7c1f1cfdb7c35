package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	ValidationFailures prometheus.Counter
	ProviderFailures   prometheus.Counter
	Registrations      prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		ValidationFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_registration_validation_failures_total",
			Help: "Total number of registration submissions rejected locally by the validator",
		}),
		ProviderFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_registration_provider_failures_total",
			Help: "Total number of registration submissions rejected by the identity provider",
		}),
		Registrations: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_registrations_total",
			Help: "Total number of successful registrations",
		}),
	}
}

func (m *Metrics) IncrementValidationFailures() {
	m.ValidationFailures.Inc()
}

func (m *Metrics) IncrementProviderFailures() {
	m.ProviderFailures.Inc()
}

func (m *Metrics) IncrementRegistrations() {
	m.Registrations.Inc()
}
