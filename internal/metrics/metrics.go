// Package metrics содержит Prometheus-метрики API и обработчика задач.
// Методы безопасно вызывать на nil *Metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics набор коллекторов.
type Metrics struct {
	httpRequests          *prometheus.CounterVec
	httpDuration          *prometheus.HistogramVec
	notificationsEnqueued prometheus.Counter
	jobsProcessed         *prometheus.CounterVec
	paymentSessions       *prometheus.CounterVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		notificationsEnqueued: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "notifications_enqueued_total",
			Help: "Number of course update notification jobs enqueued.",
		}),
		jobsProcessed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "jobs_processed_total",
			Help: "Number of background jobs processed by task and outcome.",
		}, []string{"task", "outcome"}),
		paymentSessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "payment_sessions_total",
			Help: "Number of payment session attempts by outcome.",
		}, []string{"outcome"}),
	}
	reg.MustRegister(
		m.httpRequests,
		m.httpDuration,
		m.notificationsEnqueued,
		m.jobsProcessed,
		m.paymentSessions,
	)
	return m
}

// ObserveHTTP учитывает обработанный HTTP-запрос.
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// NotificationEnqueued учитывает поставленную в очередь рассылку.
func (m *Metrics) NotificationEnqueued() {
	if m == nil {
		return
	}
	m.notificationsEnqueued.Inc()
}

// JobProcessed учитывает обработанную задачу; outcome: ok, failed или rejected.
func (m *Metrics) JobProcessed(task, outcome string) {
	if m == nil {
		return
	}
	m.jobsProcessed.WithLabelValues(task, outcome).Inc()
}

// PaymentSession учитывает попытку создать платёжную сессию; outcome: created или failed.
func (m *Metrics) PaymentSession(outcome string) {
	if m == nil {
		return
	}
	m.paymentSessions.WithLabelValues(outcome).Inc()
}
