package metrics

import (
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestMetrics(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveHTTP(http.MethodGet, "/api/v1/courses", http.StatusOK, 20*time.Millisecond)
	m.ObserveHTTP(http.MethodGet, "/api/v1/courses", http.StatusOK, 10*time.Millisecond)
	m.NotificationEnqueued()
	m.JobProcessed("course.notify_subscribers", "ok")
	m.PaymentSession("failed")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("GET", "/api/v1/courses", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notificationsEnqueued))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.jobsProcessed.WithLabelValues("course.notify_subscribers", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentSessions.WithLabelValues("failed")))
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveHTTP("GET", "/", 200, time.Millisecond)
		m.NotificationEnqueued()
		m.JobProcessed("x", "ok")
		m.PaymentSession("created")
	})
}
