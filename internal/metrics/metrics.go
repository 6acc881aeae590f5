package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics tracks donor queries, notifications, registrations and index reloads.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Queries            *prometheus.CounterVec
	Notifications      *prometheus.CounterVec
	NotifiedRecipients prometheus.Counter
	Registrations      *prometheus.CounterVec
	IndexLoads         *prometheus.CounterVec
	IndexLoadDuration  prometheus.Histogram
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Queries: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_finder_queries_total",
			Help: "Blood group queries by result",
		}, []string{"result"}),
		Notifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_finder_notifications_total",
			Help: "Notification requests by result",
		}, []string{"result"}),
		NotifiedRecipients: factory.NewCounter(prometheus.CounterOpts{
			Name: "donor_finder_notification_recipients_total",
			Help: "Unique donors included in delivered notifications",
		}),
		Registrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_finder_registrations_total",
			Help: "Donor registrations by result",
		}, []string{"result"}),
		IndexLoads: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "donor_finder_index_loads_total",
			Help: "Spreadsheet loads into the in-memory donor index",
		}, []string{"result"}),
		IndexLoadDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "donor_finder_index_load_duration_seconds",
			Help:    "Duration of spreadsheet loads",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

func result(err error) string {
	if err != nil {
		return ResultError
	}
	return ResultOK
}

func (m *Metrics) ObserveQuery(err error) {
	if m == nil {
		return
	}
	m.Queries.WithLabelValues(result(err)).Inc()
}

func (m *Metrics) ObserveNotification(recipients int, err error) {
	if m == nil {
		return
	}
	m.Notifications.WithLabelValues(result(err)).Inc()
	if err == nil {
		m.NotifiedRecipients.Add(float64(recipients))
	}
}

func (m *Metrics) ObserveRegistration(err error) {
	if m == nil {
		return
	}
	m.Registrations.WithLabelValues(result(err)).Inc()
}

// ObserveIndexLoad records a load that began at start.
func (m *Metrics) ObserveIndexLoad(start time.Time, err error) {
	if m == nil {
		return
	}
	m.IndexLoads.WithLabelValues(result(err)).Inc()
	m.IndexLoadDuration.Observe(time.Since(start).Seconds())
}
