package webhook

import (
	"github.com/prometheus/client_golang/prometheus"
)

// metrics holds the relay's counters. They live on an injectable registry so
// tests don't fight over the global one.
type metrics struct {
	inbound        *prometheus.CounterVec
	replies        *prometheus.CounterVec
	dispatchErrors prometheus.Counter
	reloads        prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		inbound: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "santosh_inbound_messages_total",
			Help: "Inbound webhook messages by kind.",
		}, []string{"kind"}),
		replies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "santosh_replies_total",
			Help: "Replies sent by resolution path.",
		}, []string{"path"}),
		dispatchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "santosh_dispatch_errors_total",
			Help: "Outbound sends that failed.",
		}),
		reloads: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "santosh_manual_reloads_total",
			Help: "Flow reloads triggered through the admin endpoint.",
		}),
	}
	reg.MustRegister(m.inbound, m.replies, m.dispatchErrors, m.reloads)
	return m
}
