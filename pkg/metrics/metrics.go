// Package metrics holds the Prometheus collectors for the credit core.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Ledger aggregates the credit-operation counters.
type Ledger struct {
	GrantsTotal     *prometheus.CounterVec
	SpendsTotal     *prometheus.CounterVec
	SpendsRejected  *prometheus.CounterVec
	CreditsExpired  prometheus.Counter
	SweepUsersSwept prometheus.Counter
	SweepErrors     prometheus.Counter
}

// NewLedger creates and registers the ledger collectors.
func NewLedger(reg prometheus.Registerer) *Ledger {
	m := &Ledger{
		GrantsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "credits_grants_total",
			Help: "Credit grants applied, by transaction type.",
		}, []string{"type"}),
		SpendsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "credits_spends_total",
			Help: "Credit spends applied, by funding class.",
		}, []string{"class"}),
		SpendsRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "credits_spends_rejected_total",
			Help: "Credit spends rejected, by reason.",
		}, []string{"reason"}),
		CreditsExpired: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credits_expired_total",
			Help: "Free credits removed by the expiry sweep.",
		}),
		SweepUsersSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credits_sweep_users_total",
			Help: "Users processed by the expiry sweep.",
		}),
		SweepErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "credits_sweep_errors_total",
			Help: "Per-user failures during the expiry sweep.",
		}),
	}
	reg.MustRegister(
		m.GrantsTotal, m.SpendsTotal, m.SpendsRejected,
		m.CreditsExpired, m.SweepUsersSwept, m.SweepErrors,
	)
	return m
}
