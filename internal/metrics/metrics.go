// Package metrics holds the Prometheus collectors of the service.
package metrics

import "github.com/prometheus/client_golang/prometheus"

type Metrics struct {
	RecordsAdded    prometheus.Counter
	RecordsRejected prometheus.Counter
	Exports         prometheus.Counter
	Visits          prometheus.Counter
	ActiveSessions  prometheus.Gauge
}

// New creates the collectors and registers them on reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RecordsAdded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marksentry",
			Name:      "records_added_total",
			Help:      "Student records appended to a session.",
		}),
		RecordsRejected: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marksentry",
			Name:      "records_rejected_total",
			Help:      "Entries rejected by validation.",
		}),
		Exports: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marksentry",
			Name:      "exports_total",
			Help:      "Spreadsheet exports served.",
		}),
		Visits: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "marksentry",
			Name:      "visits_total",
			Help:      "First visits of distinct visitors.",
		}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "marksentry",
			Name:      "active_sessions",
			Help:      "Live form sessions.",
		}),
	}
	reg.MustRegister(m.RecordsAdded, m.RecordsRejected, m.Exports, m.Visits, m.ActiveSessions)
	return m
}
