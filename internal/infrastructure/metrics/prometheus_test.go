package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("instagram")

	m.CodeRequested("email")
	m.CodeRequested("email")
	m.CodeRequested("phone")
	m.CodeConfirmed()
	m.CodeRejected("pending")
	m.NotificationSent("email")
	m.NotificationDropped("email")
	m.NotificationFailed("phone")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.codesRequested.WithLabelValues("email")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesRequested.WithLabelValues("phone")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesConfirmed))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.codesRejected.WithLabelValues("pending")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("email", "sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("email", "dropped")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.notifications.WithLabelValues("phone", "failed")))
}

func TestMetrics_ObserveRequest(t *testing.T) {
	m := New("instagram")

	m.ObserveRequest(http.MethodPost, "/api/v1/auth/signup", http.StatusCreated, 30*time.Millisecond)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.httpRequests.WithLabelValues("POST", "/api/v1/auth/signup", "201")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.httpLatency))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("instagram")
	m.CodeConfirmed()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "instagram_verification_codes_confirmed_total 1")
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
