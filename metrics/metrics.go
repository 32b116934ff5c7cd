package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the bot's Prometheus collectors. A nil *Metrics is valid and records nothing.
type Metrics struct {
	fetches       *prometheus.CounterVec
	notifications *prometheus.CounterVec
	appends       *prometheus.CounterVec
	lastPrice     *prometheus.GaugeVec
}

// New creates the collectors and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebot_fetch_total",
			Help: "Price lookups by result (ok, no_data).",
		}, []string{"result"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebot_notifications_total",
			Help: "Outbound notifications by kind and result.",
		}, []string{"kind", "result"}),
		appends: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pricebot_history_appends_total",
			Help: "History appends by result.",
		}, []string{"result"}),
		lastPrice: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "pricebot_last_price",
			Help: "Lowest price seen per route since start.",
		}, []string{"route"}),
	}
	reg.MustRegister(m.fetches, m.notifications, m.appends, m.lastPrice)
	return m
}

func (m *Metrics) Fetch(ok bool) {
	if m == nil {
		return
	}
	m.fetches.WithLabelValues(result(ok, "no_data")).Inc()
}

func (m *Metrics) Notification(kind string, ok bool) {
	if m == nil {
		return
	}
	m.notifications.WithLabelValues(kind, result(ok, "failed")).Inc()
}

func (m *Metrics) Append(ok bool) {
	if m == nil {
		return
	}
	m.appends.WithLabelValues(result(ok, "failed")).Inc()
}

func (m *Metrics) LastPrice(route string, price float64) {
	if m == nil {
		return
	}
	m.lastPrice.WithLabelValues(route).Set(price)
}

func result(ok bool, failed string) string {
	if ok {
		return "ok"
	}
	return failed
}
