package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	// kind: rehearsal/band_show/personal_show, outcome: confirmed/pending/conflict/invalid/error
	ReservationsTotal *prometheus.CounterVec

	// response: approved/rejected
	VotesTotal *prometheus.CounterVec

	// to: approved/rejected/cancelled
	TransitionsTotal *prometheus.CounterVec

	// event: pending/approved/rejected/cancelled, result: sent/failed/dropped
	NotificationsTotal *prometheus.CounterVec
}

func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ReservationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservations_total",
				Help: "Reservation creation attempts by kind and outcome",
			},
			[]string{"kind", "outcome"},
		),
		VotesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "approval_votes_total",
				Help: "Approval votes recorded by response",
			},
			[]string{"response"},
		),
		TransitionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "reservation_transitions_total",
				Help: "Reservation status transitions out of the approval workflow",
			},
			[]string{"to"},
		),
		NotificationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "notifications_total",
				Help: "Notification hook deliveries by event and result",
			},
			[]string{"event", "result"},
		),
	}

	reg.MustRegister(
		m.ReservationsTotal,
		m.VotesTotal,
		m.TransitionsTotal,
		m.NotificationsTotal,
	)

	return m
}

// Nop returns metrics bound to a throwaway registry, for tests and tools
// that must not touch the default one.
func Nop() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}
