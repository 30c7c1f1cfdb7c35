package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	SessionsCreated prometheus.Counter
	SessionsRevoked prometheus.Counter
	SignUpFailures  prometheus.Counter
	SignInFailures  prometheus.Counter
}

func New() *Metrics {
	return &Metrics{
		SessionsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_sessions_created_total",
			Help: "Total number of portal sessions established by sign-in or sign-up",
		}),
		SessionsRevoked: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_sessions_revoked_total",
			Help: "Total number of portal sessions ended by sign-out",
		}),
		SignUpFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_sign_up_failures_total",
			Help: "Total number of sign-up attempts rejected by the identity provider",
		}),
		SignInFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "aduan_sign_in_failures_total",
			Help: "Total number of sign-in attempts rejected by the identity provider",
		}),
	}
}

func (m *Metrics) IncrementSessionsCreated() { m.SessionsCreated.Inc() }
func (m *Metrics) IncrementSessionsRevoked() { m.SessionsRevoked.Inc() }
func (m *Metrics) IncrementSignUpFailures()  { m.SignUpFailures.Inc() }
func (m *Metrics) IncrementSignInFailures()  { m.SignInFailures.Inc() }
