// Package metrics expõe contadores Prometheus da API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics agrupa os coletores da aplicação em um registry próprio
type Metrics struct {
	Registry *prometheus.Registry

	codesRequested *prometheus.CounterVec
	codesConfirmed prometheus.Counter
	codesRejected  *prometheus.CounterVec

	notifications *prometheus.CounterVec

	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// New cria e registra todos os coletores sob o namespace informado
func New(namespace string) *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		Registry: registry,
		codesRequested: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_codes_requested_total",
			Help:      "Total number of verification codes issued by channel.",
		}, []string{"channel"}),
		codesConfirmed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_codes_confirmed_total",
			Help:      "Total number of verification codes confirmed.",
		}),
		codesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "verification_codes_rejected_total",
			Help:      "Total number of rejected verification attempts by reason.",
		}, []string{"reason"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notification outcomes by channel and result (sent, failed, dropped).",
		}, []string{"channel", "result"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Latency of HTTP requests by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registry.MustRegister(
		m.codesRequested,
		m.codesConfirmed,
		m.codesRejected,
		m.notifications,
		m.httpRequests,
		m.httpLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Handler serve o registry no formato de exposição do Prometheus
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

func (m *Metrics) CodeRequested(channel string) {
	m.codesRequested.WithLabelValues(channel).Inc()
}

func (m *Metrics) CodeConfirmed() {
	m.codesConfirmed.Inc()
}

func (m *Metrics) CodeRejected(reason string) {
	m.codesRejected.WithLabelValues(reason).Inc()
}

func (m *Metrics) NotificationSent(channel string) {
	m.notifications.WithLabelValues(channel, "sent").Inc()
}

func (m *Metrics) NotificationFailed(channel string) {
	m.notifications.WithLabelValues(channel, "failed").Inc()
}

func (m *Metrics) NotificationDropped(channel string) {
	m.notifications.WithLabelValues(channel, "dropped").Inc()
}

// ObserveRequest registra uma requisição HTTP concluída
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
