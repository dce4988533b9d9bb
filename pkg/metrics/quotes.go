package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// QuoteMetrics tracks quote lifecycle activity.
type QuoteMetrics struct {
	created     prometheus.Counter
	transitions *prometheus.CounterVec
	views       prometheus.Counter
	sendFailure prometheus.Counter
}

// NewQuoteMetrics registers the quote metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewQuoteMetrics(reg prometheus.Registerer) *QuoteMetrics {
	if reg == nil {
		return &QuoteMetrics{}
	}
	created := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detailpro_quotes_created_total",
		Help: "Quotes created.",
	})
	transitions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "detailpro_quote_transitions_total",
		Help: "Quote status transitions by source and target status.",
	}, []string{"from", "to"})
	views := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detailpro_quote_views_total",
		Help: "Public quote link opens.",
	})
	sendFailure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "detailpro_quote_send_failures_total",
		Help: "Quote emails that failed to dispatch.",
	})
	reg.MustRegister(created, transitions, views, sendFailure)
	return &QuoteMetrics{
		created:     created,
		transitions: transitions,
		views:       views,
		sendFailure: sendFailure,
	}
}

func (m *QuoteMetrics) IncCreated() {
	if m == nil || m.created == nil {
		return
	}
	m.created.Inc()
}

// IncTransition counts one status change.
func (m *QuoteMetrics) IncTransition(from, to string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(normalizeLabel(from), normalizeLabel(to)).Inc()
}

func (m *QuoteMetrics) IncView() {
	if m == nil || m.views == nil {
		return
	}
	m.views.Inc()
}

func (m *QuoteMetrics) IncSendFailure() {
	if m == nil || m.sendFailure == nil {
		return
	}
	m.sendFailure.Inc()
}

func normalizeLabel(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
