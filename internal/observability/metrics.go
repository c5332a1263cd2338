package observability

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds Prometheus collectors for HTTP and domain activity.
type Metrics struct {
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	ErrorTotal      *prometheus.CounterVec

	LeadsAssigned     prometheus.Counter
	LeadsConverted    prometheus.Counter
	BroadcastMessages prometheus.Counter
	RenewalNotices    prometheus.Counter
}

// NewMetrics builds and registers all collectors on the given registerer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by path, method and status",
		}, []string{"path", "method", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency",
			Buckets: prometheus.DefBuckets,
		}, []string{"path", "method"}),
		ErrorTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_request_errors_total",
			Help: "HTTP errors by path, method and error code",
		}, []string{"path", "method", "code"}),
		LeadsAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_leads_assigned_total",
			Help: "Leads assigned to agents",
		}),
		LeadsConverted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_leads_converted_total",
			Help: "Leads converted to active clients",
		}),
		BroadcastMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_broadcast_messages_total",
			Help: "Messages produced by admin broadcasts",
		}),
		RenewalNotices: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "crm_renewal_notifications_total",
			Help: "Policy renewal notifications created",
		}),
	}

	reg.MustRegister(
		m.RequestTotal,
		m.RequestDuration,
		m.ErrorTotal,
		m.LeadsAssigned,
		m.LeadsConverted,
		m.BroadcastMessages,
		m.RenewalNotices,
	)
	return m
}

// RecordRequest updates HTTP counters for a completed request.
func (m *Metrics) RecordRequest(path, method string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	m.RequestTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.RequestDuration.WithLabelValues(path, method).Observe(duration.Seconds())
}

// RecordError updates the error counter.
func (m *Metrics) RecordError(path, method, code string) {
	if m == nil {
		return
	}
	m.ErrorTotal.WithLabelValues(path, method, code).Inc()
}
