package infra

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	// Latency: сколько времени заняла обработка входящего запроса
	RequestDuration *prometheus.HistogramVec

	// Traffic: общее кол-во входящих запросов
	TotalRequests *prometheus.CounterVec

	// Errors: отказы auth-сервиса по операциям фасада
	UpstreamErrors *prometheus.CounterVec

	// Readiness: доступность поисковой зависимости (0 - ждем, 1 - здорова)
	SearchReady prometheus.Gauge
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	// Null Object Pattern - Если рег не передан, используем локальный, который никуда не подключен
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	return &Metrics{
		RequestDuration: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "gateway_request_duration_seconds",
			Help:    "Histogram of inbound request latencies.",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "route", "status"}),

		TotalRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_requests_total",
			Help: "Total number of inbound requests.",
		}, []string{"method", "route"}),

		UpstreamErrors: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "gateway_upstream_errors_total",
			Help: "Total number of auth service call failures by operation.",
		}, []string{"operation"}),

		SearchReady: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "gateway_search_ready",
			Help: "Whether the Elasticsearch dependency has responded healthy (0=no, 1=yes).",
		}),
	}
}
