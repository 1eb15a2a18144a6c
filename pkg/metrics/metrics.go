package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Исходы операций для метрик
const (
	OutcomeSuccess     = "success"
	OutcomeConflict    = "conflict"
	OutcomeRejected    = "rejected"
	OutcomeError       = "error"
	OutcomeSkipped     = "skipped"
	OutcomeSendFailure = "send_failure"
)

// Metrics набор prometheus метрик сервиса
type Metrics struct {
	serviceName string

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	DBQueryDuration    *prometheus.HistogramVec
	DBOpenConnections  *prometheus.GaugeVec
	DBInUseConnections *prometheus.GaugeVec
	DBIdleConnections  *prometheus.GaugeVec
	DBWaitCount        *prometheus.GaugeVec

	BookingsTotal  *prometheus.CounterVec
	RemindersTotal *prometheus.CounterVec
	DigestsTotal   *prometheus.CounterVec
}

// New регистрирует метрики в переданном registerer.
// В main передается prometheus.DefaultRegisterer, в тестах отдельный registry.
func New(serviceName string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		serviceName: serviceName,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"service", "method", "route", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"service", "method", "route"}),

		DBQueryDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}, []string{"service", "operation", "status"}),

		DBOpenConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_open_connections",
			Help: "Number of established connections",
		}, []string{"service"}),

		DBInUseConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_in_use_connections",
			Help: "Number of connections currently in use",
		}, []string{"service"}),

		DBIdleConnections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_idle_connections",
			Help: "Number of idle connections",
		}, []string{"service"}),

		DBWaitCount: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "db_wait_count",
			Help: "Total number of connections waited for",
		}, []string{"service"}),

		BookingsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_bookings_total",
			Help: "Booking attempts by outcome",
		}, []string{"service", "outcome"}),

		RemindersTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_reminders_total",
			Help: "Reminder dispatch attempts by kind and outcome",
		}, []string{"service", "kind", "outcome"}),

		DigestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "appointments_digests_total",
			Help: "Daily digest messages by outcome",
		}, []string{"service", "outcome"}),
	}
}

// ServiceName возвращает имя сервиса для лейблов
func (m *Metrics) ServiceName() string {
	if m == nil {
		return ""
	}
	return m.serviceName
}

// ObserveBooking учитывает попытку бронирования
func (m *Metrics) ObserveBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}

// ObserveReminder учитывает попытку отправки напоминания
func (m *Metrics) ObserveReminder(kind string, outcome string) {
	if m == nil {
		return
	}
	m.RemindersTotal.WithLabelValues(m.serviceName, kind, outcome).Inc()
}

// ObserveDigest учитывает отправку дайджеста
func (m *Metrics) ObserveDigest(outcome string) {
	if m == nil {
		return
	}
	m.DigestsTotal.WithLabelValues(m.serviceName, outcome).Inc()
}
